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
// 6. BatchAction
// ---------------------------------------------------------------------------

const (
	reasonUnsupportedAction = "unsupported action type"
	reasonNotFound          = "not found or no permission"
)

// BatchAction applies one predefined action to every id in the list. Each id
// is attempted independently: one failure neither blocks nor rolls back the
// others, and the summary accounts for every input id. An unknown action
// name fails the whole list without touching storage.
func (s *Service) BatchAction(ctx context.Context, input BatchActionInput) (*BatchActionResult, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	result := &BatchActionResult{ProcessedCount: len(input.EntryIDs)}

	action := domain.BatchAction(input.Action)
	if !action.IsValid() {
		for _, id := range input.EntryIDs {
			result.Failures = append(result.Failures, BatchFailure{EntryID: id, Reason: reasonUnsupportedAction})
		}
		result.FailedCount = len(input.EntryIDs)
		return result, nil
	}

	if action == domain.BatchActionUpdateStatus {
		if input.Status == nil || !input.Status.IsValid() {
			return nil, domain.NewValidationError("status", "required and must be a valid status")
		}
	}

	for _, id := range input.EntryIDs {
		if err := s.applyAction(ctx, userID, id, action, input.Status); err != nil {
			result.FailedCount++
			result.Failures = append(result.Failures, BatchFailure{
				EntryID: id,
				Reason:  failureReason(err),
			})
			continue
		}
		result.SuccessCount++
	}

	s.log.InfoContext(ctx, "batch action finished",
		"action", action.String(),
		"processed", result.ProcessedCount,
		"succeeded", result.SuccessCount,
		"failed", result.FailedCount,
	)
	return result, nil
}

func (s *Service) applyAction(ctx context.Context, userID, entryID uuid.UUID, action domain.BatchAction, status *domain.LearningStatus) error {
	switch action {
	case domain.BatchActionDelete:
		return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
			if err := s.tags.DeleteByEntry(txCtx, entryID); err != nil {
				return err
			}
			_, err := s.entries.Delete(txCtx, userID, entryID)
			return err
		})
	case domain.BatchActionMarkAsMastered:
		_, err := s.entries.MarkMastered(ctx, userID, entryID)
		return err
	case domain.BatchActionResetLearning:
		_, err := s.entries.ResetLearning(ctx, userID, entryID)
		return err
	case domain.BatchActionUpdateStatus:
		_, err := s.entries.Update(ctx, userID, entryID, domain.EntryPatch{Status: status})
		return err
	}
	return fmt.Errorf("%s", reasonUnsupportedAction)
}

func failureReason(err error) string {
	if errors.Is(err, domain.ErrNotFound) {
		return reasonNotFound
	}
	return "operation failed: " + err.Error()
}
