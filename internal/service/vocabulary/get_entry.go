package vocabulary

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/readmemo/vocab-backend/internal/domain"
	"github.com/readmemo/vocab-backend/pkg/ctxutil"
)

// ---------------------------------------------------------------------------
// 2. GetEntry
// ---------------------------------------------------------------------------

// GetEntry returns one owned entry with its word enrichment. A missing entry
// and an entry owned by someone else produce the same error.
func (s *Service) GetEntry(ctx context.Context, entryID uuid.UUID) (*EntryDetail, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if entryID == uuid.Nil {
		return nil, domain.NewValidationError("entry_id", "required")
	}

	entry, err := s.entries.GetByID(ctx, userID, entryID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("not found or no permission: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get entry: %w", err)
	}

	return s.hydrate(ctx, entry), nil
}
