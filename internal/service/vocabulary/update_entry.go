package vocabulary

import (
	"context"
	"errors"
	"fmt"

	"github.com/readmemo/vocab-backend/internal/domain"
	"github.com/readmemo/vocab-backend/pkg/ctxutil"
)

// ---------------------------------------------------------------------------
// 3. UpdateEntry
// ---------------------------------------------------------------------------

// UpdateEntry applies a partial patch to one owned entry. Only supplied
// fields change, updatedAt always moves; a supplied tag list replaces the
// entry's whole tag set atomically with the field update.
func (s *Service) UpdateEntry(ctx context.Context, input UpdateEntryInput) (*domain.Entry, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	var updated *domain.Entry
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		updated, err = s.entries.Update(txCtx, userID, input.EntryID, input.Patch())
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("not found or no permission: %w", domain.ErrNotFound)
			}
			return fmt.Errorf("update entry: %w", err)
		}

		if input.TagsSet {
			tags, err := s.resolveTags(txCtx, updated.ID, input.Tags)
			if err != nil {
				return fmt.Errorf("replace tags: %w", err)
			}
			updated.Tags = tags
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}
