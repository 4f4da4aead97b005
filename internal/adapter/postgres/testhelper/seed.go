package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/readmemo/vocab-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedUser creates a user row. Returns a filled domain.User.
func SeedUser(t *testing.T, pool *pgxpool.Pool) domain.User {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	user := domain.User{
		ID:        uuid.New(),
		Email:     "testuser-" + suffix + "@example.com",
		Name:      "Test User " + suffix,
		CreatedAt: now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO users (id, email, name, created_at)
		 VALUES ($1, $2, $3, $4)`,
		user.ID, user.Email, user.Name, user.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedUser insert user: %v", err)
	}

	return user
}

// SeedSession creates a session for the user expiring at the given time.
func SeedSession(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID, expiresAt time.Time) domain.Session {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	session := domain.Session{
		ID:        uuid.New(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: expiresAt.UTC().Truncate(time.Microsecond),
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO sessions (id, user_id, created_at, expires_at)
		 VALUES ($1, $2, $3, $4)`,
		session.ID, session.UserID, session.CreatedAt, session.ExpiresAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedSession insert session: %v", err)
	}

	return session
}

// SeedWord creates a dictionary word for (text, language).
// Returns a filled domain.Word.
func SeedWord(t *testing.T, pool *pgxpool.Pool, text, language string) domain.Word {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	word := domain.Word{
		ID:        uuid.New(),
		Text:      text,
		Language:  language,
		CreatedAt: now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO words (id, text, language, created_at)
		 VALUES ($1, $2, $3, $4)`,
		word.ID, word.Text, word.Language, word.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedWord insert word: %v", err)
	}

	return word
}

// SeedWordInfo fills the metadata columns of an existing dictionary word.
func SeedWordInfo(t *testing.T, pool *pgxpool.Pool, wordID uuid.UUID, phonetic, partOfSpeech, difficulty string) {
	t.Helper()
	ctx := context.Background()

	_, err := pool.Exec(ctx,
		`UPDATE words SET phonetic = $2, part_of_speech = $3, difficulty = $4
		 WHERE id = $1`,
		wordID, phonetic, partOfSpeech, difficulty,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedWordInfo update word: %v", err)
	}
}

// SeedWordDetail attaches definitions, examples, and related words to an
// existing dictionary word.
func SeedWordDetail(t *testing.T, pool *pgxpool.Pool, wordID uuid.UUID, definitions, examples []string) {
	t.Helper()
	ctx := context.Background()

	for i, def := range definitions {
		_, err := pool.Exec(ctx,
			`INSERT INTO word_definitions (id, word_id, definition, position)
			 VALUES ($1, $2, $3, $4)`,
			uuid.New(), wordID, def, i,
		)
		if err != nil {
			t.Fatalf("testhelper: SeedWordDetail insert definition[%d]: %v", i, err)
		}
	}

	for i, ex := range examples {
		_, err := pool.Exec(ctx,
			`INSERT INTO word_examples (id, word_id, example, position)
			 VALUES ($1, $2, $3, $4)`,
			uuid.New(), wordID, ex, i,
		)
		if err != nil {
			t.Fatalf("testhelper: SeedWordDetail insert example[%d]: %v", i, err)
		}
	}
}

// SeedWordRelation links two dictionary words with the given relation type.
func SeedWordRelation(t *testing.T, pool *pgxpool.Pool, wordID, relatedID uuid.UUID, relation domain.WordRelation) {
	t.Helper()
	ctx := context.Background()

	_, err := pool.Exec(ctx,
		`INSERT INTO word_relations (word_id, related_word_id, relation_type)
		 VALUES ($1, $2, $3)`,
		wordID, relatedID, string(relation),
	)
	if err != nil {
		t.Fatalf("testhelper: SeedWordRelation insert relation: %v", err)
	}
}

// SeedEntry creates a vocabulary entry for the user over an existing word.
// The entry starts in the new status with zeroed review counters.
// Returns a filled domain.Entry.
func SeedEntry(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID, word domain.Word) domain.Entry {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	entry := domain.Entry{
		ID:        uuid.New(),
		UserID:    userID,
		WordID:    word.ID,
		Word:      word.Text,
		Language:  word.Language,
		Status:    domain.StatusNew,
		CreatedAt: now,
		UpdatedAt: now,
		Tags:      []string{},
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO entries (id, user_id, word_id, word, language, status, mastery_level, review_count, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, 0, 0, $7, $8)`,
		entry.ID, entry.UserID, entry.WordID, entry.Word, entry.Language, entry.Status, entry.CreatedAt, entry.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedEntry insert entry: %v", err)
	}

	return entry
}

// SeedTag creates a catalog tag and binds it to the entry.
func SeedTag(t *testing.T, pool *pgxpool.Pool, entryID uuid.UUID, name string) domain.Tag {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	tag := domain.Tag{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: now,
	}

	err := pool.QueryRow(ctx,
		`INSERT INTO tags (id, name, created_at) VALUES ($1, $2, $3)
		 ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		 RETURNING id`,
		tag.ID, tag.Name, tag.CreatedAt,
	).Scan(&tag.ID)
	if err != nil {
		t.Fatalf("testhelper: SeedTag upsert tag: %v", err)
	}

	_, err = pool.Exec(ctx,
		`INSERT INTO entry_tags (entry_id, tag_id) VALUES ($1, $2)
		 ON CONFLICT (entry_id, tag_id) DO NOTHING`,
		entryID, tag.ID,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedTag bind tag: %v", err)
	}

	return tag
}
