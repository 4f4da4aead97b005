// Package entry implements the per-user vocabulary entry repository.
// Every query is scoped by user_id; a missing row and a row owned by another
// user are indistinguishable to callers by design.
package entry

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/readmemo/vocab-backend/internal/adapter/postgres"
	"github.com/readmemo/vocab-backend/internal/domain"
)

// Repo provides vocabulary entry persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new entry repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type entryRow struct {
	ID             uuid.UUID             `db:"id"`
	UserID         uuid.UUID             `db:"user_id"`
	WordID         uuid.UUID             `db:"word_id"`
	Word           string                `db:"word"`
	Language       string                `db:"language"`
	Phonetic       *string               `db:"phonetic"`
	Definition     *string               `db:"definition"`
	Example        *string               `db:"example"`
	Notes          *string               `db:"notes"`
	Status         domain.LearningStatus `db:"status"`
	MasteryLevel   int                   `db:"mastery_level"`
	ReviewCount    int                   `db:"review_count"`
	LastReviewedAt *time.Time            `db:"last_reviewed_at"`
	NextReviewAt   *time.Time            `db:"next_review_at"`
	Source         *string               `db:"source"`
	SourcePage     *int                  `db:"source_page"`
	CreatedAt      time.Time             `db:"created_at"`
	UpdatedAt      time.Time             `db:"updated_at"`
	Tags           []string              `db:"tags"`

	// Word-record columns, present only on joined reads.
	WordPhonetic *string `db:"word_phonetic"`
	PartOfSpeech *string `db:"part_of_speech"`
	Difficulty   *string `db:"difficulty"`
}

func (r entryRow) toDomain() domain.Entry {
	phonetic := r.Phonetic
	if phonetic == nil {
		phonetic = r.WordPhonetic
	}
	return domain.Entry{
		ID:             r.ID,
		UserID:         r.UserID,
		WordID:         r.WordID,
		Word:           r.Word,
		Language:       r.Language,
		Phonetic:       phonetic,
		PartOfSpeech:   r.PartOfSpeech,
		Difficulty:     r.Difficulty,
		Definition:     r.Definition,
		Example:        r.Example,
		Notes:          r.Notes,
		Status:         r.Status,
		MasteryLevel:   r.MasteryLevel,
		ReviewCount:    r.ReviewCount,
		LastReviewedAt: r.LastReviewedAt,
		NextReviewAt:   r.NextReviewAt,
		Source:         r.Source,
		SourcePage:     r.SourcePage,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
		Tags:           r.Tags,
	}
}

const entryColumns = `e.id, e.user_id, e.word_id, e.word, e.language, e.phonetic,
e.definition, e.example, e.notes, e.status, e.mastery_level, e.review_count,
e.last_reviewed_at, e.next_review_at, e.source, e.source_page, e.created_at, e.updated_at`

const tagsAggColumn = `COALESCE(array_agg(t.name ORDER BY t.name) FILTER (WHERE t.name IS NOT NULL), '{}') AS tags`

// wordColumns is the dictionary-side enrichment carried on reads. The word
// phonetic is aliased so the entry's own denormalized copy stays the
// preferred value.
const wordColumns = `w.phonetic AS word_phonetic, w.part_of_speech, w.difficulty`

// ---------------------------------------------------------------------------
// Writes
// ---------------------------------------------------------------------------

const createSQL = `
INSERT INTO entries (id, user_id, word_id, word, language, phonetic, definition, example,
                     notes, status, mastery_level, review_count, source, source_page,
                     created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
ON CONFLICT (user_id, word, language) DO NOTHING
RETURNING id, user_id, word_id, word, language, phonetic, definition, example, notes,
          status, mastery_level, review_count, last_reviewed_at, next_review_at,
          source, source_page, created_at, updated_at`

// Create inserts a new entry. The insert is conditional on the
// (user_id, word, language) uniqueness constraint: when a row already exists
// nothing is written and domain.ErrAlreadyExists is returned, closing the
// check-then-act race a separate existence query would leave open.
func (r *Repo) Create(ctx context.Context, e *domain.Entry) (*domain.Entry, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var row entryRow
	err := pgxscan.Get(ctx, q, &row, createSQL,
		e.ID, e.UserID, e.WordID, e.Word, e.Language, e.Phonetic, e.Definition, e.Example,
		e.Notes, e.Status, e.MasteryLevel, e.ReviewCount, e.Source, e.SourcePage,
		e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// ON CONFLICT DO NOTHING returned no row: the key is taken.
			return nil, fmt.Errorf("entry create: %w", domain.ErrAlreadyExists)
		}
		return nil, postgres.MapError(err, "entry create")
	}

	created := row.toDomain()
	return &created, nil
}

// Update applies a partial patch to an owned entry and always bumps
// updated_at. Tag replacement is the binder's job, not handled here.
func (r *Repo) Update(ctx context.Context, userID, entryID uuid.UUID, patch domain.EntryPatch) (*domain.Entry, error) {
	b := psql.Update("entries e").
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"e.id": entryID, "e.user_id": userID}).
		Suffix("RETURNING " + entryColumns)

	if patch.Status != nil {
		b = b.Set("status", *patch.Status)
	}
	if patch.MasteryLevel != nil {
		b = b.Set("mastery_level", *patch.MasteryLevel)
	}
	if patch.Notes != nil {
		b = b.Set("notes", *patch.Notes)
	}
	if patch.Definition != nil {
		b = b.Set("definition", *patch.Definition)
	}
	if patch.Example != nil {
		b = b.Set("example", *patch.Example)
	}

	sqlText, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("entry update build: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)

	var row entryRow
	if err := pgxscan.Get(ctx, q, &row, sqlText, args...); err != nil {
		return nil, postgres.MapError(err, "entry update")
	}

	updated := row.toDomain()
	return &updated, nil
}

const deleteSQL = `
DELETE FROM entries
WHERE id = $1 AND user_id = $2
RETURNING id, user_id, word_id, word, language, phonetic, definition, example, notes,
          status, mastery_level, review_count, last_reviewed_at, next_review_at,
          source, source_page, created_at, updated_at`

// Delete removes an owned entry and returns the removed row for confirmation.
// Tag associations must already be gone (the service deletes them first,
// inside the same transaction).
func (r *Repo) Delete(ctx context.Context, userID, entryID uuid.UUID) (*domain.Entry, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var row entryRow
	if err := pgxscan.Get(ctx, q, &row, deleteSQL, entryID, userID); err != nil {
		return nil, postgres.MapError(err, "entry delete")
	}

	deleted := row.toDomain()
	return &deleted, nil
}

const markMasteredSQL = `
UPDATE entries
SET status = 'mastered', mastery_level = $3, last_reviewed_at = $4, updated_at = $4
WHERE id = $1 AND user_id = $2
RETURNING id, user_id, word_id, word, language, phonetic, definition, example, notes,
          status, mastery_level, review_count, last_reviewed_at, next_review_at,
          source, source_page, created_at, updated_at`

// MarkMastered transitions an owned entry to the mastered state:
// status=mastered, mastery level at the cap, last_reviewed_at stamped.
func (r *Repo) MarkMastered(ctx context.Context, userID, entryID uuid.UUID) (*domain.Entry, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var row entryRow
	err := pgxscan.Get(ctx, q, &row, markMasteredSQL, entryID, userID, domain.MasteryLevelMax, time.Now().UTC())
	if err != nil {
		return nil, postgres.MapError(err, "entry mark mastered")
	}

	updated := row.toDomain()
	return &updated, nil
}

const resetLearningSQL = `
UPDATE entries
SET status = 'new', mastery_level = 0, review_count = 0,
    last_reviewed_at = NULL, next_review_at = NULL, updated_at = $3
WHERE id = $1 AND user_id = $2
RETURNING id, user_id, word_id, word, language, phonetic, definition, example, notes,
          status, mastery_level, review_count, last_reviewed_at, next_review_at,
          source, source_page, created_at, updated_at`

// ResetLearning puts an owned entry back to the initial state, clearing all
// review bookkeeping.
func (r *Repo) ResetLearning(ctx context.Context, userID, entryID uuid.UUID) (*domain.Entry, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var row entryRow
	err := pgxscan.Get(ctx, q, &row, resetLearningSQL, entryID, userID, time.Now().UTC())
	if err != nil {
		return nil, postgres.MapError(err, "entry reset learning")
	}

	updated := row.toDomain()
	return &updated, nil
}

const bulkInsertSQL = `
INSERT INTO entries (id, user_id, word_id, word, language, phonetic, definition, example,
                     status, mastery_level, review_count, created_at, updated_at)
VALUES ($1, $2, (SELECT id FROM words WHERE text = $3 AND language = $4), $3, $4,
        $5, $6, $7, 'new', 0, 0, $8, $8)
ON CONFLICT (user_id, word, language) DO NOTHING`

// BulkInsertIfAbsent inserts rows with pgx.Batch, one queued statement per
// row. The returned slice reports, per input row in order, whether the row
// was inserted (true) or skipped because the key already existed (false).
// Rows must reference words pre-registered in the dictionary.
func (r *Repo) BulkInsertIfAbsent(ctx context.Context, userID uuid.UUID, rows []domain.EntryRow) ([]bool, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)

	now := time.Now().UTC()
	batch := &pgx.Batch{}
	for _, row := range rows {
		batch.Queue(bulkInsertSQL,
			uuid.New(), userID, row.Word, row.Language,
			row.Phonetic, row.Definition, row.Example, now,
		)
	}

	results := q.SendBatch(ctx, batch)
	defer results.Close()

	inserted := make([]bool, 0, len(rows))
	for range rows {
		tag, err := results.Exec()
		if err != nil {
			return inserted, postgres.MapError(err, "entry bulk insert")
		}
		inserted = append(inserted, tag.RowsAffected() > 0)
	}
	return inserted, nil
}

// ---------------------------------------------------------------------------
// Reads
// ---------------------------------------------------------------------------

func selectWithTags() sq.SelectBuilder {
	return psql.Select(entryColumns, wordColumns, tagsAggColumn).
		From("entries e").
		LeftJoin("words w ON w.id = e.word_id").
		LeftJoin("entry_tags et ON et.entry_id = e.id").
		LeftJoin("tags t ON t.id = et.tag_id").
		GroupBy("e.id", "w.id")
}

// GetByID returns an owned entry with its tag names.
func (r *Repo) GetByID(ctx context.Context, userID, entryID uuid.UUID) (*domain.Entry, error) {
	sqlText, args, err := selectWithTags().
		Where(sq.Eq{"e.id": entryID, "e.user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("entry get build: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)

	var row entryRow
	if err := pgxscan.Get(ctx, q, &row, sqlText, args...); err != nil {
		return nil, postgres.MapError(err, "entry get")
	}

	e := row.toDomain()
	return &e, nil
}

// Find returns one page of entries matching the filter plus the total count
// under the same predicate. Two queries: count first, then data with
// ORDER BY and LIMIT/OFFSET.
func (r *Repo) Find(ctx context.Context, userID uuid.UUID, filter domain.EntryFilter, page domain.Page) ([]domain.Entry, int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	countSQL, countArgs, err := applyFilter(
		psql.Select("count(*)").From("entries e"), userID, filter,
	).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("entry count build: %w", err)
	}

	var total int
	if err := q.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, postgres.MapError(err, "entry count")
	}

	dataSQL, dataArgs, err := applyFilter(selectWithTags(), userID, filter).
		OrderBy(orderBy(page)).
		Limit(uint64(page.Size)).
		Offset(uint64(page.Offset())).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("entry find build: %w", err)
	}

	var rows []entryRow
	if err := pgxscan.Select(ctx, q, &rows, dataSQL, dataArgs...); err != nil {
		return nil, 0, postgres.MapError(err, "entry find")
	}

	entries := make([]domain.Entry, len(rows))
	for i, row := range rows {
		entries[i] = row.toDomain()
	}
	return entries, total, nil
}
