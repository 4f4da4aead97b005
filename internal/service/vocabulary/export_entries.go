package vocabulary

import (
	"context"
	"fmt"
	"time"

	"github.com/readmemo/vocab-backend/internal/domain"
	"github.com/readmemo/vocab-backend/internal/impex"
	"github.com/readmemo/vocab-backend/pkg/ctxutil"
)

// ---------------------------------------------------------------------------
// 9. ExportEntries
// ---------------------------------------------------------------------------

// ExportEntries serializes the caller's entries matching the filters into the
// requested format. The content comes back inline with a generated file name,
// a human-readable size, a download reference, and an expiry for that
// reference. The xlsx format returns a placeholder note instead of content.
func (s *Service) ExportEntries(ctx context.Context, input ExportInput) (*ExportResult, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	format, err := impex.ParseExportFormat(input.Format)
	if err != nil {
		return nil, err
	}
	if input.Filter.Status != nil && !input.Filter.Status.IsValid() {
		return nil, domain.NewValidationError("status", "invalid value")
	}

	entries, _, err := s.entries.Find(ctx, userID, input.Filter, domain.Page{
		Number:    1,
		Size:      s.cfg.ExportMaxEntries,
		SortBy:    "created_at",
		SortOrder: "asc",
	})
	if err != nil {
		return nil, fmt.Errorf("find entries for export: %w", err)
	}

	content, err := impex.Serialize(format, entries, input.Fields)
	if err != nil {
		return nil, fmt.Errorf("serialize export: %w", err)
	}

	now := time.Now().UTC()
	fileName := fmt.Sprintf("vocabulary_export_%s.%s", now.Format("20060102_150405"), format)

	lifetime := s.cfg.ExportLinkLifetime
	if lifetime <= 0 {
		lifetime = 24 * time.Hour
	}

	return &ExportResult{
		Content:     content,
		FileName:    fileName,
		Format:      string(format),
		ItemCount:   len(entries),
		FileSize:    impex.FormatFileSize(len(content)),
		DownloadURL: "/downloads/" + fileName,
		ExpiresAt:   now.Add(lifetime),
	}, nil
}
