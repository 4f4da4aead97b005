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
// 4. DeleteEntry
// ---------------------------------------------------------------------------

// DeleteEntry removes one owned entry, tag associations first. The removed
// word and a deletion timestamp come back for confirmation.
func (s *Service) DeleteEntry(ctx context.Context, entryID uuid.UUID) (*DeleteResult, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if entryID == uuid.Nil {
		return nil, domain.NewValidationError("entry_id", "required")
	}

	var deleted *domain.Entry
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.tags.DeleteByEntry(txCtx, entryID); err != nil {
			return fmt.Errorf("delete tag bindings: %w", err)
		}

		var err error
		deleted, err = s.entries.Delete(txCtx, userID, entryID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("not found or no permission: %w", domain.ErrNotFound)
			}
			return fmt.Errorf("delete entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &DeleteResult{
		Word:      deleted.Word,
		DeletedAt: time.Now().UTC(),
	}, nil
}
