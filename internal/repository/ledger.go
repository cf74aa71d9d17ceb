package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/gusgusz/projeto14-mywallet-back/internal/models"
	"github.com/shopspring/decimal"
)

// PostgresLedgerRepository stores ledgers as a ledgers row per user plus one
// transactions row per entry, ordered by insertion id.
type PostgresLedgerRepository struct {
	// DB is the database handle for executing queries and transactions.
	DB *sql.DB
}

// NewPostgresLedgerRepository creates a PostgresLedgerRepository using the provided *sql.DB.
func NewPostgresLedgerRepository(db *sql.DB) *PostgresLedgerRepository {
	return &PostgresLedgerRepository{DB: db}
}

// AppendTransaction appends tx to the user's ledger, creating the ledger in
// the same database transaction if it does not exist yet. A title already
// present in the ledger yields ErrDuplicate.
func (r *PostgresLedgerRepository) AppendTransaction(ctx context.Context, userID string, tx models.Transaction) error {
	date, err := time.Parse(models.DateLayout, tx.Date)
	if err != nil {
		return fmt.Errorf("AppendTransaction: parse date: %w", err)
	}

	dbtx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer dbtx.Rollback()

	if _, err := dbtx.ExecContext(ctx,
		`INSERT INTO ledgers (user_id) VALUES ($1) ON CONFLICT DO NOTHING`,
		userID,
	); err != nil {
		return fmt.Errorf("create ledger: %w", err)
	}

	_, err = dbtx.ExecContext(ctx, `
		INSERT INTO transactions (user_id, title_description, description, value, type, date)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, userID, tx.TitleDescription, tx.Description, tx.Value.String(), string(tx.Type), date)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}

	if err := dbtx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// ListTransactions returns the user's transactions in append order. A user
// without a ledger gets an empty, non-nil slice.
func (r *PostgresLedgerRepository) ListTransactions(ctx context.Context, userID string) ([]models.Transaction, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT title_description, description, value, type, date FROM transactions
		WHERE user_id = $1 ORDER BY id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("ListTransactions: %w", err)
	}
	defer rows.Close()

	txs := make([]models.Transaction, 0)
	for rows.Next() {
		var (
			tx   models.Transaction
			typ  string
			date time.Time
		)
		if err := rows.Scan(&tx.TitleDescription, &tx.Description, &tx.Value, &typ, &date); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		tx.Type = models.TransactionType(typ)
		tx.Date = date.Format(models.DateLayout)
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListTransactions: %w", err)
	}
	return txs, nil
}

// UpdateTransaction renames the transaction titled title and sets its value.
// It returns the number of rows changed; renaming onto an existing title
// yields ErrDuplicate.
func (r *PostgresLedgerRepository) UpdateTransaction(ctx context.Context, userID, title, newTitle string, value decimal.Decimal) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE transactions SET title_description = $3, value = $4
		WHERE user_id = $1 AND title_description = $2
	`, userID, title, newTitle, value.String())
	if isUniqueViolation(err) {
		return 0, ErrDuplicate
	}
	if err != nil {
		return 0, fmt.Errorf("UpdateTransaction: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// DeleteTransaction removes the transaction titled title and returns the
// number of rows removed.
func (r *PostgresLedgerRepository) DeleteTransaction(ctx context.Context, userID, title string) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		`DELETE FROM transactions WHERE user_id = $1 AND title_description = $2`,
		userID, title,
	)
	if err != nil {
		return 0, fmt.Errorf("DeleteTransaction: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
