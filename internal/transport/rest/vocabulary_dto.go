package rest

import (
	"time"

	"github.com/readmemo/vocab-backend/internal/domain"
	"github.com/readmemo/vocab-backend/internal/service/vocabulary"
)

const timeLayout = time.RFC3339

type entryResponse struct {
	ID             string   `json:"id"`
	Word           string   `json:"word"`
	Language       string   `json:"language"`
	Phonetic       *string  `json:"phonetic,omitempty"`
	PartOfSpeech   *string  `json:"partOfSpeech,omitempty"`
	Difficulty     *string  `json:"difficulty,omitempty"`
	Definition     *string  `json:"definition,omitempty"`
	Example        *string  `json:"example,omitempty"`
	Notes          *string  `json:"notes,omitempty"`
	Status         string   `json:"status"`
	MasteryLevel   int      `json:"masteryLevel"`
	ReviewCount    int      `json:"reviewCount"`
	LastReviewedAt *string  `json:"lastReviewedAt,omitempty"`
	NextReviewAt   *string  `json:"nextReviewAt,omitempty"`
	Source         *string  `json:"source,omitempty"`
	SourcePage     *int     `json:"sourcePage,omitempty"`
	Tags           []string `json:"tags"`
	CreatedAt      string   `json:"createdAt"`
	UpdatedAt      string   `json:"updatedAt"`
}

type wordDetailResponse struct {
	Phonetic     *string  `json:"phonetic,omitempty"`
	PartOfSpeech *string  `json:"partOfSpeech,omitempty"`
	Frequency    int      `json:"frequency"`
	Difficulty   *string  `json:"difficulty,omitempty"`
	AudioURL     *string  `json:"audioUrl,omitempty"`
	Definitions  []string `json:"definitions"`
	Examples     []string `json:"examples"`
	Synonyms     []string `json:"synonyms"`
	Antonyms     []string `json:"antonyms"`
}

type entryDetailResponse struct {
	entryResponse
	Dictionary *wordDetailResponse `json:"dictionary,omitempty"`
}

type deleteResponse struct {
	Word      string `json:"word"`
	DeletedAt string `json:"deletedAt"`
}

type batchFailureResponse struct {
	EntryID string `json:"entryId"`
	Reason  string `json:"reason"`
}

type batchActionResponse struct {
	ProcessedCount int                    `json:"processedCount"`
	SuccessCount   int                    `json:"successCount"`
	FailedCount    int                    `json:"failedCount"`
	Failures       []batchFailureResponse `json:"failures"`
}

type batchUpdateItemResponse struct {
	EntryID string `json:"entryId"`
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type batchUpdateResponse struct {
	TotalCount   int                       `json:"totalCount"`
	SuccessCount int                       `json:"successCount"`
	FailedCount  int                       `json:"failedCount"`
	Items        []batchUpdateItemResponse `json:"items"`
}

type importFailureResponse struct {
	Line   int    `json:"line"`
	Word   string `json:"word,omitempty"`
	Reason string `json:"reason"`
}

type importResponse struct {
	TotalProcessed int                     `json:"totalProcessed"`
	Imported       int                     `json:"imported"`
	Skipped        int                     `json:"skipped"`
	Failed         int                     `json:"failed"`
	Failures       []importFailureResponse `json:"failures"`
}

type exportResponse struct {
	Content     string `json:"content"`
	FileName    string `json:"fileName"`
	Format      string `json:"format"`
	ItemCount   int    `json:"itemCount"`
	FileSize    string `json:"fileSize"`
	DownloadURL string `json:"downloadUrl"`
	ExpiresAt   string `json:"expiresAt"`
}

type listResponse struct {
	Items      []entryResponse `json:"items"`
	Page       int             `json:"page"`
	PageSize   int             `json:"pageSize"`
	Total      int             `json:"total"`
	TotalPages int             `json:"totalPages"`
}

func toEntryResponse(e domain.Entry) entryResponse {
	tags := e.Tags
	if tags == nil {
		tags = []string{}
	}
	return entryResponse{
		ID:             e.ID.String(),
		Word:           e.Word,
		Language:       e.Language,
		Phonetic:       e.Phonetic,
		PartOfSpeech:   e.PartOfSpeech,
		Difficulty:     e.Difficulty,
		Definition:     e.Definition,
		Example:        e.Example,
		Notes:          e.Notes,
		Status:         e.Status.String(),
		MasteryLevel:   e.MasteryLevel,
		ReviewCount:    e.ReviewCount,
		LastReviewedAt: formatTimePtr(e.LastReviewedAt),
		NextReviewAt:   formatTimePtr(e.NextReviewAt),
		Source:         e.Source,
		SourcePage:     e.SourcePage,
		Tags:           tags,
		CreatedAt:      e.CreatedAt.UTC().Format(timeLayout),
		UpdatedAt:      e.UpdatedAt.UTC().Format(timeLayout),
	}
}

func toEntryDetailResponse(d *vocabulary.EntryDetail) entryDetailResponse {
	resp := entryDetailResponse{entryResponse: toEntryResponse(d.Entry)}
	if d.Word != nil {
		resp.Dictionary = &wordDetailResponse{
			Phonetic:     d.Word.Phonetic,
			PartOfSpeech: d.Word.PartOfSpeech,
			Frequency:    d.Word.Frequency,
			Difficulty:   d.Word.Difficulty,
			AudioURL:     d.Word.AudioURL,
			Definitions:  orEmpty(d.Word.Definitions),
			Examples:     orEmpty(d.Word.Examples),
			Synonyms:     orEmpty(d.Word.Synonyms),
			Antonyms:     orEmpty(d.Word.Antonyms),
		}
	}
	return resp
}

func toBatchActionResponse(r *vocabulary.BatchActionResult) batchActionResponse {
	failures := make([]batchFailureResponse, 0, len(r.Failures))
	for _, f := range r.Failures {
		failures = append(failures, batchFailureResponse{
			EntryID: f.EntryID.String(),
			Reason:  f.Reason,
		})
	}
	return batchActionResponse{
		ProcessedCount: r.ProcessedCount,
		SuccessCount:   r.SuccessCount,
		FailedCount:    r.FailedCount,
		Failures:       failures,
	}
}

func toBatchUpdateResponse(r *vocabulary.BatchUpdateResult) batchUpdateResponse {
	items := make([]batchUpdateItemResponse, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, batchUpdateItemResponse{
			EntryID: it.EntryID.String(),
			Success: it.Success,
			Message: it.Message,
		})
	}
	return batchUpdateResponse{
		TotalCount:   r.TotalCount,
		SuccessCount: r.SuccessCount,
		FailedCount:  r.FailedCount,
		Items:        items,
	}
}

func toImportResponse(r *vocabulary.ImportResult) importResponse {
	failures := make([]importFailureResponse, 0, len(r.Failures))
	for _, f := range r.Failures {
		failures = append(failures, importFailureResponse{
			Line:   f.Line,
			Word:   f.Word,
			Reason: f.Reason,
		})
	}
	return importResponse{
		TotalProcessed: r.TotalProcessed,
		Imported:       r.Imported,
		Skipped:        r.Skipped,
		Failed:         r.Failed,
		Failures:       failures,
	}
}

func toExportResponse(r *vocabulary.ExportResult) exportResponse {
	return exportResponse{
		Content:     r.Content,
		FileName:    r.FileName,
		Format:      r.Format,
		ItemCount:   r.ItemCount,
		FileSize:    r.FileSize,
		DownloadURL: r.DownloadURL,
		ExpiresAt:   r.ExpiresAt.UTC().Format(timeLayout),
	}
}

func toListResponse(r *vocabulary.ListResult) listResponse {
	items := make([]entryResponse, 0, len(r.Items))
	for _, e := range r.Items {
		items = append(items, toEntryResponse(e))
	}
	return listResponse{
		Items:      items,
		Page:       r.Page,
		PageSize:   r.PageSize,
		Total:      r.Total,
		TotalPages: r.TotalPages,
	}
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(timeLayout)
	return &s
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
