package http

import (
	"context"
	"fmt"
	"sync"

	"github.com/gusgusz/projeto14-mywallet-back/internal/models"
	"github.com/gusgusz/projeto14-mywallet-back/internal/service"
	"github.com/shopspring/decimal"
)

// fakeAuthService implements AuthService for testing.
type fakeAuthService struct {
	RegisterFunc func(ctx context.Context, name, email, password string) error
	SignInFunc   func(ctx context.Context, email, password string) (*service.SignInResult, error)
	SignOutFunc  func(ctx context.Context, token string) error
}

func (f *fakeAuthService) Register(ctx context.Context, name, email, password string) error {
	return f.RegisterFunc(ctx, name, email, password)
}

func (f *fakeAuthService) SignIn(ctx context.Context, email, password string) (*service.SignInResult, error) {
	return f.SignInFunc(ctx, email, password)
}

func (f *fakeAuthService) SignOut(ctx context.Context, token string) error {
	return f.SignOutFunc(ctx, token)
}

// fakeLedgerService implements LedgerService for testing.
type fakeLedgerService struct {
	AppendFunc func(ctx context.Context, userID string, tx models.Transaction) (models.Transaction, error)
	ListFunc   func(ctx context.Context, userID string) ([]models.Transaction, error)
	TotalFunc  func(ctx context.Context, userID string) (decimal.Decimal, error)
	UpdateFunc func(ctx context.Context, userID, title, newTitle string, value decimal.Decimal) error
	DeleteFunc func(ctx context.Context, userID, title string) error
}

func (f *fakeLedgerService) Append(ctx context.Context, userID string, tx models.Transaction) (models.Transaction, error) {
	return f.AppendFunc(ctx, userID, tx)
}

func (f *fakeLedgerService) List(ctx context.Context, userID string) ([]models.Transaction, error) {
	return f.ListFunc(ctx, userID)
}

func (f *fakeLedgerService) Total(ctx context.Context, userID string) (decimal.Decimal, error) {
	return f.TotalFunc(ctx, userID)
}

func (f *fakeLedgerService) Update(ctx context.Context, userID, title, newTitle string, value decimal.Decimal) error {
	return f.UpdateFunc(ctx, userID, title, newTitle, value)
}

func (f *fakeLedgerService) Delete(ctx context.Context, userID, title string) error {
	return f.DeleteFunc(ctx, userID, title)
}

// wallet is a stateful in-memory backend implementing AuthService,
// LedgerService and middleware.TokenResolver for router tests.
type wallet struct {
	mu       sync.Mutex
	users    map[string]walletUser // by email
	sessions map[string]string     // token -> email
	ledgers  map[string][]models.Transaction
	next     int
}

type walletUser struct {
	name, password string
}

func newWallet() *wallet {
	return &wallet{
		users:    make(map[string]walletUser),
		sessions: make(map[string]string),
		ledgers:  make(map[string][]models.Transaction),
	}
}

func (w *wallet) Register(_ context.Context, name, email, password string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.users[email]; ok {
		return service.ErrEmailTaken
	}
	w.users[email] = walletUser{name: name, password: password}
	return nil
}

func (w *wallet) SignIn(_ context.Context, email, password string) (*service.SignInResult, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	u, ok := w.users[email]
	if !ok {
		return nil, service.ErrInvalidEmail
	}
	if u.password != password {
		return nil, service.ErrInvalidPassword
	}
	for token, owner := range w.sessions {
		if owner == email {
			return &service.SignInResult{Token: token, Name: u.name}, nil
		}
	}
	w.next++
	token := fmt.Sprintf("token-%d", w.next)
	w.sessions[token] = email
	return &service.SignInResult{Token: token, Name: u.name}, nil
}

func (w *wallet) SignOut(_ context.Context, token string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.sessions, token)
	return nil
}

func (w *wallet) ResolveToken(_ context.Context, token string) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	email, ok := w.sessions[token]
	if !ok {
		return "", service.ErrInvalidToken
	}
	return email, nil
}

func (w *wallet) Append(_ context.Context, userID string, tx models.Transaction) (models.Transaction, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, t := range w.ledgers[userID] {
		if t.TitleDescription == tx.TitleDescription {
			return models.Transaction{}, service.ErrDuplicateTitle
		}
	}
	tx.Date = "14/10/2026"
	w.ledgers[userID] = append(w.ledgers[userID], tx)
	return tx, nil
}

func (w *wallet) List(_ context.Context, userID string) ([]models.Transaction, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]models.Transaction(nil), w.ledgers[userID]...), nil
}

func (w *wallet) Total(ctx context.Context, userID string) (decimal.Decimal, error) {
	txs, err := w.List(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	return models.Total(txs), nil
}

func (w *wallet) Update(_ context.Context, userID, title, newTitle string, value decimal.Decimal) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	txs := w.ledgers[userID]
	for i := range txs {
		if txs[i].TitleDescription == title {
			txs[i].TitleDescription = newTitle
			txs[i].Value = value
		}
	}
	return nil
}

func (w *wallet) Delete(_ context.Context, userID, title string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	var kept []models.Transaction
	for _, t := range w.ledgers[userID] {
		if t.TitleDescription != title {
			kept = append(kept, t)
		}
	}
	w.ledgers[userID] = kept
	return nil
}

func (w *wallet) ledgerCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	n := 0
	for _, txs := range w.ledgers {
		n += len(txs)
	}
	return n
}
