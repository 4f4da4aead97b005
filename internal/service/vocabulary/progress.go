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
// 5. MarkAsMastered / ResetLearning
// ---------------------------------------------------------------------------

// MarkAsMastered moves one owned entry to the mastered state: status becomes
// mastered, the mastery level jumps to the cap, lastReviewedAt is stamped.
func (s *Service) MarkAsMastered(ctx context.Context, entryID uuid.UUID) (*domain.Entry, error) {
	return s.transition(ctx, entryID, s.entries.MarkMastered, "mark mastered")
}

// ResetLearning puts one owned entry back to the initial state: status new,
// mastery level and review count zeroed, review timestamps cleared.
func (s *Service) ResetLearning(ctx context.Context, entryID uuid.UUID) (*domain.Entry, error) {
	return s.transition(ctx, entryID, s.entries.ResetLearning, "reset learning")
}

func (s *Service) transition(
	ctx context.Context,
	entryID uuid.UUID,
	apply func(ctx context.Context, userID, entryID uuid.UUID) (*domain.Entry, error),
	op string,
) (*domain.Entry, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if entryID == uuid.Nil {
		return nil, domain.NewValidationError("entry_id", "required")
	}

	entry, err := apply(ctx, userID, entryID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("not found or no permission: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return entry, nil
}
