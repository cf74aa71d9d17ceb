package service

import (
	"context"
	"errors"
	"time"

	"github.com/gusgusz/projeto14-mywallet-back/internal/models"
	"github.com/gusgusz/projeto14-mywallet-back/internal/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// LedgerRepository defines the ledger persistence required by LedgerService.
type LedgerRepository interface {
	// AppendTransaction appends tx, creating the ledger if needed, in one
	// atomic store operation. repository.ErrDuplicate on a taken title.
	AppendTransaction(ctx context.Context, userID string, tx models.Transaction) error
	// ListTransactions returns the ledger in append order; empty when absent.
	ListTransactions(ctx context.Context, userID string) ([]models.Transaction, error)
	// UpdateTransaction renames title to newTitle and sets value.
	UpdateTransaction(ctx context.Context, userID, title, newTitle string, value decimal.Decimal) (int64, error)
	// DeleteTransaction removes the transaction titled title.
	DeleteTransaction(ctx context.Context, userID, title string) (int64, error)
}

// LedgerService implements the per-user transaction ledger.
type LedgerService struct {
	repo LedgerRepository
	log  *zap.Logger
	now  func() time.Time
}

// NewLedgerService constructs a LedgerService. A nil log discards output.
func NewLedgerService(repo LedgerRepository, log *zap.Logger) *LedgerService {
	if log == nil {
		log = zap.NewNop()
	}
	return &LedgerService{repo: repo, log: log, now: time.Now}
}

// Append dates tx with the server clock and appends it to the user's
// ledger. It returns the stored transaction, or ErrDuplicateTitle.
func (s *LedgerService) Append(ctx context.Context, userID string, tx models.Transaction) (models.Transaction, error) {
	tx.Date = s.now().Format(models.DateLayout)
	if err := s.repo.AppendTransaction(ctx, userID, tx); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return models.Transaction{}, ErrDuplicateTitle
		}
		return models.Transaction{}, err
	}
	return tx, nil
}

// List returns the user's transactions in append order.
func (s *LedgerService) List(ctx context.Context, userID string) ([]models.Transaction, error) {
	txs, err := s.repo.ListTransactions(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.log.Info("ledger listed",
		zap.String("user_id", userID),
		zap.Int("transactions", len(txs)),
		zap.String("total", models.Total(txs).String()))
	return txs, nil
}

// Total computes the user's balance from the current transactions.
func (s *LedgerService) Total(ctx context.Context, userID string) (decimal.Decimal, error) {
	txs, err := s.repo.ListTransactions(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	return models.Total(txs), nil
}

// Update renames the transaction titled title and replaces its value,
// leaving description, type and date untouched. A title with no match is a
// silent no-op; renaming onto another existing title is ErrDuplicateTitle.
func (s *LedgerService) Update(ctx context.Context, userID, title, newTitle string, value decimal.Decimal) error {
	n, err := s.repo.UpdateTransaction(ctx, userID, title, newTitle, value)
	if errors.Is(err, repository.ErrDuplicate) {
		return ErrDuplicateTitle
	}
	if err != nil {
		return err
	}
	if n == 0 {
		s.log.Debug("update matched nothing", zap.String("user_id", userID), zap.String("title", title))
	}
	return nil
}

// Delete removes the transaction titled title. A title with no match is a no-op.
func (s *LedgerService) Delete(ctx context.Context, userID, title string) error {
	n, err := s.repo.DeleteTransaction(ctx, userID, title)
	if err != nil {
		return err
	}
	if n == 0 {
		s.log.Debug("delete matched nothing", zap.String("user_id", userID), zap.String("title", title))
	}
	return nil
}
