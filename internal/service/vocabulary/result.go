package vocabulary

import (
	"time"

	"github.com/google/uuid"

	"github.com/readmemo/vocab-backend/internal/domain"
)

// EntryDetail is an entry hydrated with its dictionary-side word metadata.
// Word is nil when the dictionary has no enrichment for the word.
type EntryDetail struct {
	Entry domain.Entry
	Word  *domain.WordDetail
}

// DeleteResult confirms a deletion.
type DeleteResult struct {
	Word      string
	DeletedAt time.Time
}

// BatchActionResult summarizes one batch action call.
// ProcessedCount equals the input length; SuccessCount + FailedCount equals
// ProcessedCount.
type BatchActionResult struct {
	ProcessedCount int
	SuccessCount   int
	FailedCount    int
	Failures       []BatchFailure
}

// BatchFailure records why one entry id failed.
type BatchFailure struct {
	EntryID uuid.UUID
	Reason  string
}

// BatchUpdateResult summarizes one batch update call. Items holds a result
// for every input item, in input order.
type BatchUpdateResult struct {
	TotalCount   int
	SuccessCount int
	FailedCount  int
	Items        []BatchUpdateItemResult
}

// BatchUpdateItemResult is the per-item outcome of a batch update.
type BatchUpdateItemResult struct {
	EntryID uuid.UUID
	Success bool
	Message string
}

// ImportResult summarizes one import call.
// Imported + Skipped + Failed equals TotalProcessed; Failures is capped while
// the counts stay exact.
type ImportResult struct {
	TotalProcessed int
	Imported       int
	Skipped        int
	Failed         int
	Failures       []ImportFailure
}

// ImportFailure records one rejected row.
type ImportFailure struct {
	Line   int
	Word   string
	Reason string
}

// ExportResult carries the serialized export inline together with download
// metadata. The content is not persisted server-side; the expiry applies to
// the returned reference.
type ExportResult struct {
	Content     string
	FileName    string
	Format      string
	ItemCount   int
	FileSize    string
	DownloadURL string
	ExpiresAt   time.Time
}

// ListResult is one page of entries plus pagination metadata.
type ListResult struct {
	Items      []domain.Entry
	Page       int
	PageSize   int
	Total      int
	TotalPages int
}
