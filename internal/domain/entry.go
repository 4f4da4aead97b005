package domain

import (
	"time"

	"github.com/google/uuid"
)

// Entry is one user's personal record for a word: learning status, mastery
// counter, free-text notes. The entry keeps a denormalized copy of the word
// text and language for display, so it survives even when the Word row
// carries no metadata.
type Entry struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	WordID     uuid.UUID
	Word       string
	Language   string
	Phonetic   *string
	Definition *string
	Example    *string
	Notes      *string

	// PartOfSpeech and Difficulty are read from the word record on
	// fetch; they are never written through the entry.
	PartOfSpeech *string
	Difficulty   *string

	Status         LearningStatus
	MasteryLevel   int
	ReviewCount    int
	LastReviewedAt *time.Time
	NextReviewAt   *time.Time

	Source     *string
	SourcePage *int

	CreatedAt time.Time
	UpdatedAt time.Time

	Tags []string
}

// IsMastered reports whether the entry has reached the mastered state.
func (e *Entry) IsMastered() bool {
	return e.Status == StatusMastered
}

// EntryPatch is a partial update: nil fields are left untouched.
// Tags, when non-nil, replaces the entry's whole tag set.
type EntryPatch struct {
	Status       *LearningStatus
	MasteryLevel *int
	Notes        *string
	Definition   *string
	Example      *string
	Tags         []string
	TagsSet      bool
}

// IsEmpty reports whether the patch carries no changes at all.
func (p *EntryPatch) IsEmpty() bool {
	return p.Status == nil && p.MasteryLevel == nil && p.Notes == nil &&
		p.Definition == nil && p.Example == nil && !p.TagsSet
}

// EntryRow is one row of a bulk insert-if-absent. Rows whose
// (user, word, language) key already exists are skipped, not failed.
type EntryRow struct {
	Word       string
	Language   string
	Phonetic   *string
	Definition *string
	Example    *string
}

// Tag is a global label shared across all users' entries,
// identified by its trimmed name and created on first use.
type Tag struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
}
