package vocabulary

import (
	"context"
	"fmt"

	"github.com/readmemo/vocab-backend/internal/domain"
	"github.com/readmemo/vocab-backend/pkg/ctxutil"
)

// ---------------------------------------------------------------------------
// 10. ListEntries
// ---------------------------------------------------------------------------

// ListEntries returns one page of the caller's entries matching the filters,
// with a total count under the same predicate and derived page math.
func (s *Service) ListEntries(ctx context.Context, input ListInput) (*ListResult, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	page, err := input.Validate()
	if err != nil {
		return nil, err
	}

	entries, total, err := s.entries.Find(ctx, userID, input.Filter, page)
	if err != nil {
		return nil, fmt.Errorf("find entries: %w", err)
	}

	return &ListResult{
		Items:      entries,
		Page:       page.Number,
		PageSize:   page.Size,
		Total:      total,
		TotalPages: page.TotalPages(total),
	}, nil
}
