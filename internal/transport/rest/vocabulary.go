package rest

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/readmemo/vocab-backend/internal/domain"
	"github.com/readmemo/vocab-backend/internal/service/vocabulary"
)

// vocabularyService defines the minimal interface needed by VocabularyHandler.
type vocabularyService interface {
	AddEntry(ctx context.Context, input vocabulary.AddEntryInput) (*vocabulary.EntryDetail, error)
	GetEntry(ctx context.Context, entryID uuid.UUID) (*vocabulary.EntryDetail, error)
	UpdateEntry(ctx context.Context, input vocabulary.UpdateEntryInput) (*domain.Entry, error)
	DeleteEntry(ctx context.Context, entryID uuid.UUID) (*vocabulary.DeleteResult, error)
	MarkAsMastered(ctx context.Context, entryID uuid.UUID) (*domain.Entry, error)
	ResetLearning(ctx context.Context, entryID uuid.UUID) (*domain.Entry, error)
	BatchAction(ctx context.Context, input vocabulary.BatchActionInput) (*vocabulary.BatchActionResult, error)
	BatchUpdate(ctx context.Context, input vocabulary.BatchUpdateInput) (*vocabulary.BatchUpdateResult, error)
	ImportEntries(ctx context.Context, input vocabulary.ImportInput) (*vocabulary.ImportResult, error)
	ExportEntries(ctx context.Context, input vocabulary.ExportInput) (*vocabulary.ExportResult, error)
	ListEntries(ctx context.Context, input vocabulary.ListInput) (*vocabulary.ListResult, error)
}

// VocabularyHandler serves the vocabulary REST endpoints.
type VocabularyHandler struct {
	svc         vocabularyService
	log         *slog.Logger
	maxBodySize int64
}

// NewVocabularyHandler creates a VocabularyHandler. maxBodySize bounds import
// request bodies.
func NewVocabularyHandler(svc vocabularyService, logger *slog.Logger, maxBodySize int64) *VocabularyHandler {
	return &VocabularyHandler{
		svc:         svc,
		log:         logger.With("handler", "vocabulary"),
		maxBodySize: maxBodySize,
	}
}

// Register mounts all vocabulary routes on the mux.
func (h *VocabularyHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/vocabulary", h.Add)
	mux.HandleFunc("GET /api/v1/vocabulary", h.List)
	mux.HandleFunc("GET /api/v1/vocabulary/{id}", h.Get)
	mux.HandleFunc("PATCH /api/v1/vocabulary/{id}", h.Update)
	mux.HandleFunc("DELETE /api/v1/vocabulary/{id}", h.Delete)
	mux.HandleFunc("POST /api/v1/vocabulary/{id}/mastered", h.MarkMastered)
	mux.HandleFunc("POST /api/v1/vocabulary/{id}/reset", h.ResetLearning)
	mux.HandleFunc("POST /api/v1/vocabulary/batch", h.BatchAction)
	mux.HandleFunc("POST /api/v1/vocabulary/batch/update", h.BatchUpdate)
	mux.HandleFunc("POST /api/v1/vocabulary/import", h.Import)
	mux.HandleFunc("POST /api/v1/vocabulary/export", h.Export)
}

type addEntryRequest struct {
	Word       string   `json:"word"`
	Language   string   `json:"language"`
	Definition *string  `json:"definition"`
	Example    *string  `json:"example"`
	Notes      *string  `json:"notes"`
	Source     *string  `json:"source"`
	SourcePage *int     `json:"sourcePage"`
	Tags       []string `json:"tags"`
}

// Add handles POST /api/v1/vocabulary.
func (h *VocabularyHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req addEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	detail, err := h.svc.AddEntry(r.Context(), vocabulary.AddEntryInput{
		Word:       req.Word,
		Language:   req.Language,
		Definition: req.Definition,
		Example:    req.Example,
		Notes:      req.Notes,
		Source:     req.Source,
		SourcePage: req.SourcePage,
		Tags:       req.Tags,
	})
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeData(w, http.StatusCreated, "added to vocabulary", toEntryDetailResponse(detail))
}

// Get handles GET /api/v1/vocabulary/{id}.
func (h *VocabularyHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	detail, err := h.svc.GetEntry(r.Context(), id)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeData(w, http.StatusOK, "", toEntryDetailResponse(detail))
}

type updateEntryRequest struct {
	Status       *string   `json:"status"`
	MasteryLevel *int      `json:"masteryLevel"`
	Notes        *string   `json:"notes"`
	Definition   *string   `json:"definition"`
	Example      *string   `json:"example"`
	Tags         *[]string `json:"tags"`
}

// Update handles PATCH /api/v1/vocabulary/{id}. Absent fields are left
// untouched; tags, when present, replace the whole set.
func (h *VocabularyHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req updateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input := vocabulary.UpdateEntryInput{
		EntryID:      id,
		Status:       toStatusPtr(req.Status),
		MasteryLevel: req.MasteryLevel,
		Notes:        req.Notes,
		Definition:   req.Definition,
		Example:      req.Example,
	}
	if req.Tags != nil {
		input.Tags = *req.Tags
		input.TagsSet = true
	}

	entry, err := h.svc.UpdateEntry(r.Context(), input)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeData(w, http.StatusOK, "updated", toEntryResponse(*entry))
}

// Delete handles DELETE /api/v1/vocabulary/{id}.
func (h *VocabularyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	result, err := h.svc.DeleteEntry(r.Context(), id)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeData(w, http.StatusOK, "deleted", deleteResponse{
		Word:      result.Word,
		DeletedAt: result.DeletedAt.UTC().Format(timeLayout),
	})
}

// MarkMastered handles POST /api/v1/vocabulary/{id}/mastered.
func (h *VocabularyHandler) MarkMastered(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.svc.MarkAsMastered, "marked as mastered")
}

// ResetLearning handles POST /api/v1/vocabulary/{id}/reset.
func (h *VocabularyHandler) ResetLearning(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.svc.ResetLearning, "learning progress reset")
}

func (h *VocabularyHandler) transition(
	w http.ResponseWriter,
	r *http.Request,
	apply func(ctx context.Context, entryID uuid.UUID) (*domain.Entry, error),
	message string,
) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	entry, err := apply(r.Context(), id)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeData(w, http.StatusOK, message, toEntryResponse(*entry))
}

type batchActionRequest struct {
	Action   string      `json:"action"`
	EntryIDs []uuid.UUID `json:"entryIds"`
	Status   *string     `json:"status"`
}

// BatchAction handles POST /api/v1/vocabulary/batch. Partial failures come
// back itemized with 200.
func (h *VocabularyHandler) BatchAction(w http.ResponseWriter, r *http.Request) {
	var req batchActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.svc.BatchAction(r.Context(), vocabulary.BatchActionInput{
		Action:   req.Action,
		EntryIDs: req.EntryIDs,
		Status:   toStatusPtr(req.Status),
	})
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeData(w, http.StatusOK, "batch action processed", toBatchActionResponse(result))
}

type batchUpdateItemRequest struct {
	EntryID      uuid.UUID `json:"entryId"`
	Status       *string   `json:"status"`
	MasteryLevel *int      `json:"masteryLevel"`
	Notes        *string   `json:"notes"`
	Tags         *[]string `json:"tags"`
}

type batchUpdateRequest struct {
	Items []batchUpdateItemRequest `json:"items"`
}

// BatchUpdate handles POST /api/v1/vocabulary/batch/update.
func (h *VocabularyHandler) BatchUpdate(w http.ResponseWriter, r *http.Request) {
	var req batchUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	items := make([]vocabulary.BatchUpdateItem, 0, len(req.Items))
	for _, it := range req.Items {
		item := vocabulary.BatchUpdateItem{
			EntryID:      it.EntryID,
			Status:       toStatusPtr(it.Status),
			MasteryLevel: it.MasteryLevel,
			Notes:        it.Notes,
		}
		if it.Tags != nil {
			item.Tags = *it.Tags
			item.TagsSet = true
		}
		items = append(items, item)
	}

	result, err := h.svc.BatchUpdate(r.Context(), vocabulary.BatchUpdateInput{Items: items})
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeData(w, http.StatusOK, "batch update processed", toBatchUpdateResponse(result))
}

// Import handles POST /api/v1/vocabulary/import. The file arrives as a
// multipart form field named "file"; the format comes from the "format" form
// value or, failing that, the file extension.
func (h *VocabularyHandler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close() //nolint:errcheck

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read file")
		return
	}

	format := r.FormValue("format")
	if format == "" {
		format = strings.TrimPrefix(filepath.Ext(header.Filename), ".")
	}

	result, err := h.svc.ImportEntries(r.Context(), vocabulary.ImportInput{
		Format: format,
		Data:   data,
	})
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeData(w, http.StatusOK, "import processed", toImportResponse(result))
}

type exportRequest struct {
	Format   string   `json:"format"`
	Fields   []string `json:"fields"`
	Status   *string  `json:"status"`
	Language *string  `json:"language"`
	Tags     []string `json:"tags"`
	Search   *string  `json:"search"`
}

// Export handles POST /api/v1/vocabulary/export.
func (h *VocabularyHandler) Export(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.svc.ExportEntries(r.Context(), vocabulary.ExportInput{
		Format: req.Format,
		Fields: req.Fields,
		Filter: domain.EntryFilter{
			Status:   toStatusPtr(req.Status),
			Language: req.Language,
			Tags:     req.Tags,
			Search:   req.Search,
		},
	})
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeData(w, http.StatusOK, "export ready", toExportResponse(result))
}

// List handles GET /api/v1/vocabulary.
func (h *VocabularyHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	input := vocabulary.ListInput{
		SortBy:    q.Get("sortBy"),
		SortOrder: q.Get("sortOrder"),
	}
	if v := q.Get("page"); v != "" {
		input.Page, _ = strconv.Atoi(v)
	}
	if v := q.Get("pageSize"); v != "" {
		input.PageSize, _ = strconv.Atoi(v)
	}
	if v := q.Get("status"); v != "" {
		input.Filter.Status = toStatusPtr(&v)
	}
	if v := q.Get("language"); v != "" {
		input.Filter.Language = &v
	}
	if v := q.Get("search"); v != "" {
		input.Filter.Search = &v
	}
	if v := q.Get("tags"); v != "" {
		input.Filter.Tags = strings.Split(v, ",")
	}

	result, err := h.svc.ListEntries(r.Context(), input)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeData(w, http.StatusOK, "", toListResponse(result))
}

// pathID parses the {id} path segment, responding 400 on garbage.
func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid entry id")
		return uuid.Nil, false
	}
	return id, true
}

func toStatusPtr(s *string) *domain.LearningStatus {
	if s == nil {
		return nil
	}
	status := domain.LearningStatus(*s)
	return &status
}
