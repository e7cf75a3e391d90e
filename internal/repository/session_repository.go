package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"marketplace/internal/domain"
)

// SessionRepository tracks issued bearer tokens. A session is active while
// its logged_out_at column is null; revocation is logical so the table
// doubles as a login/logout audit trail.
type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) error
	IsActive(ctx context.Context, userID int64, token string) (bool, error)
	Revoke(ctx context.Context, userID int64, token string, loggedOutAt time.Time) error
}

type sessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new instance of SessionRepository.
func NewSessionRepository(db *sql.DB) SessionRepository {
	return &sessionRepository{db: db}
}

// Create inserts an active session row and fills in the generated id.
func (r *sessionRepository) Create(ctx context.Context, session *domain.Session) error {
	query := `
		INSERT INTO tokens (user_id, token, logged_in_at, logged_out_at)
		VALUES ($1, $2, $3, NULL)
		RETURNING id
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		session.UserID,
		session.Token,
		session.LoggedInAt,
	).Scan(&session.ID)

	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	return nil
}

// IsActive reports whether an un-revoked row exists for this (user, token)
// pair. The first active match is authoritative.
func (r *sessionRepository) IsActive(ctx context.Context, userID int64, token string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM tokens
			WHERE user_id = $1 AND token = $2 AND logged_out_at IS NULL
		)
	`

	var active bool
	if err := r.db.QueryRowContext(ctx, query, userID, token).Scan(&active); err != nil {
		return false, fmt.Errorf("failed to check session: %w", err)
	}

	return active, nil
}

// Revoke stamps logged_out_at on the first matching active row. No matching
// active row is not an error; the auth gate has already confirmed one
// exists before any caller reaches this point.
func (r *sessionRepository) Revoke(ctx context.Context, userID int64, token string, loggedOutAt time.Time) error {
	query := `
		UPDATE tokens
		SET logged_out_at = $1
		WHERE id = (
			SELECT id FROM tokens
			WHERE user_id = $2 AND token = $3 AND logged_out_at IS NULL
			ORDER BY id
			LIMIT 1
		)
	`

	if _, err := r.db.ExecContext(ctx, query, loggedOutAt, userID, token); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}

	return nil
}
