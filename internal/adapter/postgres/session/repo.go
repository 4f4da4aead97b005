// Package session implements persistence for authenticated sessions.
package session

import (
	"context"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/readmemo/vocab-backend/internal/adapter/postgres"
	"github.com/readmemo/vocab-backend/internal/domain"
)

// Repo provides session persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new session repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const createSQL = `
INSERT INTO sessions (id, user_id, created_at, expires_at)
VALUES ($1, $2, $3, $4)`

// Create stores a new session row.
func (r *Repo) Create(ctx context.Context, s *domain.Session) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	_, err := q.Exec(ctx, createSQL, s.ID, s.UserID, s.CreatedAt, s.ExpiresAt)
	if err != nil {
		return postgres.MapError(err, "session create")
	}
	return nil
}

const getByIDSQL = `
SELECT id, user_id, created_at, expires_at
FROM sessions
WHERE id = $1`

// GetByID returns the session with the given id.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var s domain.Session
	if err := pgxscan.Get(ctx, q, &s, getByIDSQL, id); err != nil {
		return nil, postgres.MapError(err, "session get")
	}
	return &s, nil
}

const deleteSQL = `DELETE FROM sessions WHERE id = $1`

// Delete removes a session, ending it immediately.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	if _, err := q.Exec(ctx, deleteSQL, id); err != nil {
		return postgres.MapError(err, "session delete")
	}
	return nil
}

const deleteExpiredSQL = `DELETE FROM sessions WHERE expires_at < now()`

// DeleteExpired purges sessions past their expiry. Returns the number of rows
// removed. Run periodically by the cleanup command.
func (r *Repo) DeleteExpired(ctx context.Context) (int64, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, deleteExpiredSQL)
	if err != nil {
		return 0, postgres.MapError(err, "session delete expired")
	}
	return tag.RowsAffected(), nil
}
