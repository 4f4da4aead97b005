// Package tag implements the global tag catalog and the entry/tag binder.
package tag

import (
	"context"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/readmemo/vocab-backend/internal/adapter/postgres"
	"github.com/readmemo/vocab-backend/internal/domain"
)

// Repo provides tag persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new tag repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const ensureTagSQL = `
INSERT INTO tags (id, name, created_at)
VALUES ($1, $2, $3)
ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
RETURNING id`

// EnsureTags resolves tag names to ids, creating catalog rows for names that
// do not exist yet. The upsert returns the existing id on conflict, so the
// call is safe under concurrent imports using the same tag names.
func (r *Repo) EnsureTags(ctx context.Context, names []string) ([]uuid.UUID, error) {
	if len(names) == 0 {
		return nil, nil
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)

	now := time.Now().UTC()
	ids := make([]uuid.UUID, 0, len(names))
	for _, name := range names {
		var id uuid.UUID
		if err := q.QueryRow(ctx, ensureTagSQL, uuid.New(), name, now).Scan(&id); err != nil {
			return nil, postgres.MapError(err, "tag ensure")
		}
		ids = append(ids, id)
	}
	return ids, nil
}

const (
	unbindSQL = `DELETE FROM entry_tags WHERE entry_id = $1`

	bindSQL = `
INSERT INTO entry_tags (entry_id, tag_id)
VALUES ($1, $2)
ON CONFLICT (entry_id, tag_id) DO NOTHING`
)

// ReplaceEntryTags makes tagIDs the exact tag set of the entry: existing
// bindings are dropped, then the new set is inserted. Callers run this inside
// a transaction together with the entry write.
func (r *Repo) ReplaceEntryTags(ctx context.Context, entryID uuid.UUID, tagIDs []uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	if _, err := q.Exec(ctx, unbindSQL, entryID); err != nil {
		return postgres.MapError(err, "entry tags unbind")
	}
	if len(tagIDs) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, tagID := range tagIDs {
		batch.Queue(bindSQL, entryID, tagID)
	}

	results := q.SendBatch(ctx, batch)
	defer results.Close()

	for range tagIDs {
		if _, err := results.Exec(); err != nil {
			return postgres.MapError(err, "entry tags bind")
		}
	}
	return nil
}

// DeleteByEntry removes all tag bindings of an entry. Used before entry
// deletion so the binder never holds dangling rows.
func (r *Repo) DeleteByEntry(ctx context.Context, entryID uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	if _, err := q.Exec(ctx, unbindSQL, entryID); err != nil {
		return postgres.MapError(err, "entry tags delete")
	}
	return nil
}

const listSQL = `
SELECT id, name, created_at
FROM tags
ORDER BY name`

// List returns the whole tag catalog ordered by name.
func (r *Repo) List(ctx context.Context) ([]domain.Tag, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var tags []domain.Tag
	if err := pgxscan.Select(ctx, q, &tags, listSQL); err != nil {
		return nil, postgres.MapError(err, "tag list")
	}
	return tags, nil
}
