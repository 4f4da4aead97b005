// Package word implements the global word dictionary repository.
// Words are shared across users and keyed by (text, language); every write
// path is conflict-tolerant so concurrent callers converge on one row.
package word

import (
	"context"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/readmemo/vocab-backend/internal/adapter/postgres"
	"github.com/readmemo/vocab-backend/internal/domain"
)

// Repo provides word dictionary persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new word repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

type wordRow struct {
	ID           uuid.UUID `db:"id"`
	Text         string    `db:"text"`
	Language     string    `db:"language"`
	Phonetic     *string   `db:"phonetic"`
	PartOfSpeech *string   `db:"part_of_speech"`
	Frequency    *int      `db:"frequency"`
	Difficulty   *string   `db:"difficulty"`
	AudioURL     *string   `db:"audio_url"`
	CreatedAt    time.Time `db:"created_at"`
}

func (r wordRow) toDomain() domain.Word {
	return domain.Word(r)
}

const getOrCreateSQL = `
INSERT INTO words (id, text, language, created_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (text, language) DO UPDATE SET text = EXCLUDED.text
RETURNING id`

// GetOrCreate returns the id of the word for (text, language), inserting the
// row first if it does not exist. The upsert makes the operation idempotent
// under concurrency: racing callers all receive the same id.
func (r *Repo) GetOrCreate(ctx context.Context, text, language string) (uuid.UUID, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var id uuid.UUID
	err := q.QueryRow(ctx, getOrCreateSQL, uuid.New(), text, language, time.Now().UTC()).Scan(&id)
	if err != nil {
		return uuid.Nil, postgres.MapError(err, "word get or create")
	}
	return id, nil
}

const getByTextSQL = `
SELECT id, text, language, phonetic, part_of_speech, frequency, difficulty, audio_url, created_at
FROM words
WHERE text = $1 AND language = $2`

// GetByText returns the word for (text, language).
func (r *Repo) GetByText(ctx context.Context, text, language string) (*domain.Word, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var row wordRow
	if err := pgxscan.Get(ctx, q, &row, getByTextSQL, text, language); err != nil {
		return nil, postgres.MapError(err, "word get by text")
	}
	w := row.toDomain()
	return &w, nil
}

const bulkUpsertSQL = `
INSERT INTO words (id, text, language, phonetic, created_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (text, language) DO NOTHING`

// BulkUpsert pre-registers words with pgx.Batch, leaving existing
// (text, language) pairs untouched. Returns the number of rows inserted.
// Callers chunk their input; each call is one database round trip.
func (r *Repo) BulkUpsert(ctx context.Context, words []domain.WordUpsert) (int, error) {
	if len(words) == 0 {
		return 0, nil
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)

	now := time.Now().UTC()
	batch := &pgx.Batch{}
	for _, w := range words {
		batch.Queue(bulkUpsertSQL, uuid.New(), w.Text, w.Language, w.Phonetic, now)
	}

	results := q.SendBatch(ctx, batch)
	defer results.Close()

	inserted := 0
	for range words {
		tag, err := results.Exec()
		if err != nil {
			return inserted, postgres.MapError(err, "word bulk upsert")
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, nil
}

const (
	detailWordSQL = `
SELECT id, text, language, phonetic, part_of_speech, frequency, difficulty, audio_url, created_at
FROM words
WHERE id = $1`

	detailDefinitionsSQL = `
SELECT definition FROM word_definitions WHERE word_id = $1 ORDER BY position`

	detailExamplesSQL = `
SELECT example FROM word_examples WHERE word_id = $1 ORDER BY position LIMIT 5`

	detailRelationsSQL = `
SELECT w.text FROM word_relations wr
JOIN words w ON w.id = wr.related_word_id
WHERE wr.word_id = $1 AND wr.relation_type = $2
LIMIT 5`
)

// GetDetail loads the dictionary-side enrichment for a word: metadata plus
// definitions, usage examples, synonyms, and antonyms from the related tables.
// Examples and relations are capped at 5 each.
func (r *Repo) GetDetail(ctx context.Context, wordID uuid.UUID) (*domain.WordDetail, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var row wordRow
	if err := pgxscan.Get(ctx, q, &row, detailWordSQL, wordID); err != nil {
		return nil, postgres.MapError(err, "word detail")
	}

	detail := &domain.WordDetail{
		Phonetic:     row.Phonetic,
		PartOfSpeech: row.PartOfSpeech,
		Difficulty:   row.Difficulty,
		AudioURL:     row.AudioURL,
	}
	if row.Frequency != nil {
		detail.Frequency = *row.Frequency
	}

	if err := pgxscan.Select(ctx, q, &detail.Definitions, detailDefinitionsSQL, wordID); err != nil {
		return nil, fmt.Errorf("word definitions: %w", err)
	}
	if err := pgxscan.Select(ctx, q, &detail.Examples, detailExamplesSQL, wordID); err != nil {
		return nil, fmt.Errorf("word examples: %w", err)
	}
	if err := pgxscan.Select(ctx, q, &detail.Synonyms, detailRelationsSQL, wordID, domain.RelationSynonym); err != nil {
		return nil, fmt.Errorf("word synonyms: %w", err)
	}
	if err := pgxscan.Select(ctx, q, &detail.Antonyms, detailRelationsSQL, wordID, domain.RelationAntonym); err != nil {
		return nil, fmt.Errorf("word antonyms: %w", err)
	}

	return detail, nil
}
