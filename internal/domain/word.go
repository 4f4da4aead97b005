package domain

import (
	"time"

	"github.com/google/uuid"
)

// Word is a global dictionary record for one (normalized text, language) pair.
// Words are shared across all users, created lazily the first time anyone adds
// or imports the pair, and never deleted by this subsystem.
type Word struct {
	ID           uuid.UUID
	Text         string
	Language     string
	Phonetic     *string
	PartOfSpeech *string
	Frequency    *int
	Difficulty   *string
	AudioURL     *string
	CreatedAt    time.Time
}

// WordDetail is the dictionary-side enrichment attached to a hydrated entry:
// metadata from the word row plus its related definition/example/relation
// tables. Examples, synonyms, and antonyms are capped at 5 each.
type WordDetail struct {
	Phonetic     *string
	PartOfSpeech *string
	Frequency    int
	Difficulty   *string
	AudioURL     *string
	Definitions  []string
	Examples     []string
	Synonyms     []string
	Antonyms     []string
}

// WordUpsert is one row of a conflict-tolerant bulk word registration.
// Existing (text, language) pairs are left untouched.
type WordUpsert struct {
	Text     string
	Language string
	Phonetic *string
}
