package vocabulary

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/readmemo/vocab-backend/internal/domain"
	"github.com/readmemo/vocab-backend/pkg/ctxutil"
)

// ---------------------------------------------------------------------------
// 1. AddEntry
// ---------------------------------------------------------------------------

// AddEntry creates a single vocabulary entry for the caller. The word is
// resolved against the global dictionary (created on first sight), the entry
// starts in the new status, and the returned detail carries the dictionary's
// enrichment for the word when present.
func (s *Service) AddEntry(ctx context.Context, input AddEntryInput) (*EntryDetail, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	normalized := domain.NormalizeWord(input.Word)
	language := domain.NormalizeWord(input.Language)
	if language == "" {
		language = domain.DetectLanguage(normalized)
	}

	var created *domain.Entry
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		wordID, err := s.words.GetOrCreate(txCtx, normalized, language)
		if err != nil {
			return fmt.Errorf("resolve word: %w", err)
		}

		now := time.Now().UTC()
		entry := &domain.Entry{
			ID:         uuid.New(),
			UserID:     userID,
			WordID:     wordID,
			Word:       normalized,
			Language:   language,
			Definition: input.Definition,
			Example:    input.Example,
			Notes:      input.Notes,
			Status:     domain.StatusNew,
			Source:     input.Source,
			SourcePage: input.SourcePage,
			CreatedAt:  now,
			UpdatedAt:  now,
		}

		created, err = s.entries.Create(txCtx, entry)
		if err != nil {
			if errors.Is(err, domain.ErrAlreadyExists) {
				return fmt.Errorf("word already in vocabulary: %w", domain.ErrAlreadyExists)
			}
			return fmt.Errorf("create entry: %w", err)
		}

		tags, err := s.resolveTags(txCtx, created.ID, input.Tags)
		if err != nil {
			return fmt.Errorf("bind tags: %w", err)
		}
		created.Tags = tags
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.hydrate(ctx, created), nil
}

// hydrate attaches the dictionary's word enrichment to an entry. Enrichment
// is best effort: a missing or failing detail lookup never fails the
// operation that produced the entry.
func (s *Service) hydrate(ctx context.Context, entry *domain.Entry) *EntryDetail {
	detail, err := s.words.GetDetail(ctx, entry.WordID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.log.WarnContext(ctx, "word detail lookup failed",
				"word_id", entry.WordID, "error", err)
		}
		detail = nil
	}
	return &EntryDetail{Entry: *entry, Word: detail}
}
