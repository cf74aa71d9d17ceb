package service_test

import (
	"context"
	"sync"
	"time"

	"github.com/gusgusz/projeto14-mywallet-back/internal/models"
	"github.com/gusgusz/projeto14-mywallet-back/internal/repository"
	"github.com/shopspring/decimal"
)

type mockUserRepo struct {
	CreateUserFunc     func(ctx context.Context, user *models.User) error
	GetUserByEmailFunc func(ctx context.Context, email string) (*models.User, error)
}

func (m *mockUserRepo) CreateUser(ctx context.Context, user *models.User) error {
	return m.CreateUserFunc(ctx, user)
}
func (m *mockUserRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.GetUserByEmailFunc(ctx, email)
}

type mockSessionRepo struct {
	GetOrCreateSessionFunc func(ctx context.Context, candidate models.Session, expiredBefore time.Time) (*models.Session, error)
	FindSessionFunc        func(ctx context.Context, token string, validAfter time.Time) (*models.Session, error)
	DeleteSessionFunc      func(ctx context.Context, token string) error
}

func (m *mockSessionRepo) GetOrCreateSession(ctx context.Context, candidate models.Session, expiredBefore time.Time) (*models.Session, error) {
	return m.GetOrCreateSessionFunc(ctx, candidate, expiredBefore)
}
func (m *mockSessionRepo) FindSession(ctx context.Context, token string, validAfter time.Time) (*models.Session, error) {
	return m.FindSessionFunc(ctx, token, validAfter)
}
func (m *mockSessionRepo) DeleteSession(ctx context.Context, token string) error {
	return m.DeleteSessionFunc(ctx, token)
}

// memStore is an in-memory implementation of all three repositories with the
// same uniqueness rules as the real stores.
type memStore struct {
	mu       sync.Mutex
	users    map[string]models.User
	sessions map[string]models.Session // by user id
	ledgers  map[string][]models.Transaction
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[string]models.User),
		sessions: make(map[string]models.Session),
		ledgers:  make(map[string][]models.Transaction),
	}
}

func (m *memStore) CreateUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.Email]; ok {
		return repository.ErrDuplicate
	}
	m.users[user.Email] = *user
	return nil
}

func (m *memStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (m *memStore) GetOrCreateSession(_ context.Context, candidate models.Session, expiredBefore time.Time) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[candidate.UserID]; ok && !s.CreatedAt.Before(expiredBefore) {
		return &s, nil
	}
	m.sessions[candidate.UserID] = candidate
	return &candidate, nil
}

func (m *memStore) FindSession(_ context.Context, token string, validAfter time.Time) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sessions {
		if s.Token == token && !s.CreatedAt.Before(validAfter) {
			return &s, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memStore) DeleteSession(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.sessions {
		if s.Token == token {
			delete(m.sessions, id)
		}
	}
	return nil
}

func (m *memStore) AppendTransaction(_ context.Context, userID string, tx models.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.ledgers[userID] {
		if t.TitleDescription == tx.TitleDescription {
			return repository.ErrDuplicate
		}
	}
	m.ledgers[userID] = append(m.ledgers[userID], tx)
	return nil
}

func (m *memStore) ListTransactions(_ context.Context, userID string) ([]models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Transaction{}, m.ledgers[userID]...), nil
}

func (m *memStore) UpdateTransaction(_ context.Context, userID, title, newTitle string, value decimal.Decimal) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	txs := m.ledgers[userID]
	var hasTitle, hasNew bool
	for _, t := range txs {
		hasTitle = hasTitle || t.TitleDescription == title
		hasNew = hasNew || t.TitleDescription == newTitle
	}
	if newTitle != title && hasTitle && hasNew {
		return 0, repository.ErrDuplicate
	}
	var n int64
	for i := range txs {
		if txs[i].TitleDescription == title {
			txs[i].TitleDescription = newTitle
			txs[i].Value = value
			n++
		}
	}
	return n, nil
}

func (m *memStore) DeleteTransaction(_ context.Context, userID, title string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.ledgers[userID][:0]
	var n int64
	for _, t := range m.ledgers[userID] {
		if t.TitleDescription == title {
			n++
			continue
		}
		kept = append(kept, t)
	}
	m.ledgers[userID] = kept
	return n, nil
}
