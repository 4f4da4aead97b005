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
// 7. BatchUpdate
// ---------------------------------------------------------------------------

var errNoUpdateData = errors.New("no update data")

// BatchUpdate applies per-item field patches to many entries. Items are
// processed independently and in order; the result holds one outcome per
// input item. The list is capped by configuration.
func (s *Service) BatchUpdate(ctx context.Context, input BatchUpdateInput) (*BatchUpdateResult, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(s.cfg.BatchUpdateMax); err != nil {
		return nil, err
	}

	result := &BatchUpdateResult{
		TotalCount: len(input.Items),
		Items:      make([]BatchUpdateItemResult, 0, len(input.Items)),
	}

	for _, item := range input.Items {
		outcome := BatchUpdateItemResult{EntryID: item.EntryID}

		err := s.applyItem(ctx, userID, item)
		switch {
		case err == nil:
			outcome.Success = true
			outcome.Message = "updated"
			result.SuccessCount++
		case errors.Is(err, errNoUpdateData):
			outcome.Message = errNoUpdateData.Error()
			result.FailedCount++
		case errors.Is(err, domain.ErrNotFound):
			outcome.Message = reasonNotFound
			result.FailedCount++
		default:
			outcome.Message = err.Error()
			result.FailedCount++
		}
		result.Items = append(result.Items, outcome)
	}

	s.log.InfoContext(ctx, "batch update finished",
		"total", result.TotalCount,
		"succeeded", result.SuccessCount,
		"failed", result.FailedCount,
	)
	return result, nil
}

func (s *Service) applyItem(ctx context.Context, userID uuid.UUID, item BatchUpdateItem) error {
	patch := item.Patch()
	if patch.IsEmpty() {
		return errNoUpdateData
	}
	if item.Status != nil && !item.Status.IsValid() {
		return fmt.Errorf("invalid status %q", *item.Status)
	}
	if item.MasteryLevel != nil && (*item.MasteryLevel < 0 || *item.MasteryLevel > domain.MasteryLevelMax) {
		return fmt.Errorf("mastery level out of range (0-%d)", domain.MasteryLevelMax)
	}

	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		updated, err := s.entries.Update(txCtx, userID, item.EntryID, patch)
		if err != nil {
			return err
		}
		if item.TagsSet {
			if _, err := s.resolveTags(txCtx, updated.ID, item.Tags); err != nil {
				return err
			}
		}
		return nil
	})
}
