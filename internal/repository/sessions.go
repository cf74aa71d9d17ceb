package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gusgusz/projeto14-mywallet-back/internal/models"
)

// PostgresSessionRepository stores bearer sessions in the sessions table.
type PostgresSessionRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresSessionRepository creates a PostgresSessionRepository using the provided *sql.DB.
func NewPostgresSessionRepository(db *sql.DB) *PostgresSessionRepository {
	return &PostgresSessionRepository{DB: db}
}

// GetOrCreateSession returns the active session of candidate.UserID, or
// stores candidate if the user has none. A session created before
// expiredBefore is replaced by candidate. The whole decision is one upsert.
func (r *PostgresSessionRepository) GetOrCreateSession(ctx context.Context, candidate models.Session, expiredBefore time.Time) (*models.Session, error) {
	var s models.Session
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO sessions (token, user_id, created_at) VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET
			token = CASE WHEN sessions.created_at < $4 THEN EXCLUDED.token ELSE sessions.token END,
			created_at = CASE WHEN sessions.created_at < $4 THEN EXCLUDED.created_at ELSE sessions.created_at END
		RETURNING token, user_id, created_at
	`, candidate.Token, candidate.UserID, candidate.CreatedAt, expiredBefore).Scan(&s.Token, &s.UserID, &s.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("GetOrCreateSession: %w", err)
	}
	return &s, nil
}

// FindSession returns the session holding token if it was created at or
// after validAfter. A completed lookup with no row yields ErrNotFound.
func (r *PostgresSessionRepository) FindSession(ctx context.Context, token string, validAfter time.Time) (*models.Session, error) {
	var s models.Session
	err := r.DB.QueryRowContext(ctx, `
		SELECT token, user_id, created_at FROM sessions
		WHERE token = $1 AND created_at >= $2
	`, token, validAfter).Scan(&s.Token, &s.UserID, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("FindSession: %w", err)
	}
	return &s, nil
}

// DeleteSession removes the session holding token. Deleting an unknown token is not an error.
func (r *PostgresSessionRepository) DeleteSession(ctx context.Context, token string) error {
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM sessions WHERE token = $1`, token); err != nil {
		return fmt.Errorf("DeleteSession: %w", err)
	}
	return nil
}
