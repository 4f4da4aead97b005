package vocabulary

import (
	"strconv"

	"github.com/google/uuid"

	"github.com/readmemo/vocab-backend/internal/domain"
)

// AddEntryInput holds the parameters for adding a single vocabulary entry.
type AddEntryInput struct {
	Word       string
	Language   string
	Definition *string
	Example    *string
	Notes      *string
	Source     *string
	SourcePage *int
	Tags       []string
}

// Validate checks all fields and collects all errors.
func (i *AddEntryInput) Validate() error {
	var errs []domain.FieldError

	if domain.NormalizeWord(i.Word) == "" {
		errs = append(errs, domain.FieldError{Field: "word", Message: "word is blank"})
	} else if len(i.Word) > 500 {
		errs = append(errs, domain.FieldError{Field: "word", Message: "too long (max 500)"})
	}
	if i.Notes != nil && len(*i.Notes) > 5000 {
		errs = append(errs, domain.FieldError{Field: "notes", Message: "too long (max 5000)"})
	}
	if i.Definition != nil && len(*i.Definition) > 5000 {
		errs = append(errs, domain.FieldError{Field: "definition", Message: "too long (max 5000)"})
	}
	if i.Example != nil && len(*i.Example) > 5000 {
		errs = append(errs, domain.FieldError{Field: "example", Message: "too long (max 5000)"})
	}
	if i.SourcePage != nil && *i.SourcePage < 0 {
		errs = append(errs, domain.FieldError{Field: "source_page", Message: "must be >= 0"})
	}
	if len(i.Tags) > 50 {
		errs = append(errs, domain.FieldError{Field: "tags", Message: "too many (max 50)"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// UpdateEntryInput holds a partial update for one entry. Nil fields are left
// untouched; TagsSet marks an explicit tag-set replacement (possibly empty).
type UpdateEntryInput struct {
	EntryID      uuid.UUID
	Status       *domain.LearningStatus
	MasteryLevel *int
	Notes        *string
	Definition   *string
	Example      *string
	Tags         []string
	TagsSet      bool
}

// Patch converts the input into the storage-level patch shape.
func (i *UpdateEntryInput) Patch() domain.EntryPatch {
	return domain.EntryPatch{
		Status:       i.Status,
		MasteryLevel: i.MasteryLevel,
		Notes:        i.Notes,
		Definition:   i.Definition,
		Example:      i.Example,
		Tags:         i.Tags,
		TagsSet:      i.TagsSet,
	}
}

// Validate checks all fields and collects all errors.
func (i *UpdateEntryInput) Validate() error {
	var errs []domain.FieldError

	if i.EntryID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "entry_id", Message: "required"})
	}

	patch := i.Patch()
	if patch.IsEmpty() {
		errs = append(errs, domain.FieldError{Field: "fields", Message: "no update data"})
	}

	if i.Status != nil && !i.Status.IsValid() {
		errs = append(errs, domain.FieldError{Field: "status", Message: "invalid value"})
	}
	if i.MasteryLevel != nil && (*i.MasteryLevel < 0 || *i.MasteryLevel > domain.MasteryLevelMax) {
		errs = append(errs, domain.FieldError{Field: "mastery_level", Message: "out of range (0-5)"})
	}
	if i.Notes != nil && len(*i.Notes) > 5000 {
		errs = append(errs, domain.FieldError{Field: "notes", Message: "too long (max 5000)"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// BatchActionInput holds the parameters for applying one predefined action to
// a list of entries.
type BatchActionInput struct {
	Action   string
	EntryIDs []uuid.UUID
	// Status is the target status for the update_status action.
	Status *domain.LearningStatus
}

// Validate checks the id list. Action names are deliberately not validated
// here: an unknown action fails every id individually instead of rejecting
// the request.
func (i *BatchActionInput) Validate() error {
	var errs []domain.FieldError

	if len(i.EntryIDs) == 0 {
		errs = append(errs, domain.FieldError{Field: "entry_ids", Message: "required (at least 1)"})
	}
	for idx, id := range i.EntryIDs {
		if id == uuid.Nil {
			errs = append(errs, domain.FieldError{
				Field:   fieldIdx("entry_ids", idx),
				Message: "required",
			})
		}
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// BatchUpdateItem is one per-entry patch of a batch update.
type BatchUpdateItem struct {
	EntryID      uuid.UUID
	Status       *domain.LearningStatus
	MasteryLevel *int
	Notes        *string
	Tags         []string
	TagsSet      bool
}

// Patch converts the item into the storage-level patch shape.
func (it *BatchUpdateItem) Patch() domain.EntryPatch {
	return domain.EntryPatch{
		Status:       it.Status,
		MasteryLevel: it.MasteryLevel,
		Notes:        it.Notes,
		Tags:         it.Tags,
		TagsSet:      it.TagsSet,
	}
}

// BatchUpdateInput holds the per-item patches of a batch update call.
type BatchUpdateInput struct {
	Items []BatchUpdateItem
}

// Validate checks the list bounds against the configured cap. Per-item
// problems (empty patch, bad values) are reported per item, not here.
func (i *BatchUpdateInput) Validate(maxItems int) error {
	var errs []domain.FieldError

	if len(i.Items) == 0 {
		errs = append(errs, domain.FieldError{Field: "items", Message: "required (at least 1)"})
	} else if len(i.Items) > maxItems {
		errs = append(errs, domain.FieldError{
			Field:   "items",
			Message: "too many (max " + strconv.Itoa(maxItems) + ")",
		})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// ImportInput holds an uploaded file and its declared format.
type ImportInput struct {
	Format string
	Data   []byte
}

// Validate checks the file against the given size limit.
func (i *ImportInput) Validate(maxFileSize int64) error {
	var errs []domain.FieldError

	if len(i.Data) == 0 {
		errs = append(errs, domain.FieldError{Field: "file", Message: "required"})
	} else if int64(len(i.Data)) > maxFileSize {
		errs = append(errs, domain.FieldError{Field: "file", Message: "too large (max 10 MB)"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// ExportInput holds the export format, an optional field allow-list, and
// entry filters.
type ExportInput struct {
	Format string
	Fields []string
	Filter domain.EntryFilter
}

// ListInput holds pagination, filters, and ordering for entry listing.
type ListInput struct {
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
	Filter    domain.EntryFilter
}

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// listSortFields is the whitelist of accepted sort keys.
var listSortFields = map[string]bool{
	"created_at":    true,
	"updated_at":    true,
	"word":          true,
	"status":        true,
	"mastery_level": true,
}

// Validate checks bounds and resolves defaults, returning the effective page.
// Zero values take defaults; explicit out-of-range values are rejected.
func (i *ListInput) Validate() (domain.Page, error) {
	var errs []domain.FieldError

	page := domain.Page{
		Number:    i.Page,
		Size:      i.PageSize,
		SortBy:    i.SortBy,
		SortOrder: i.SortOrder,
	}

	if page.Number == 0 {
		page.Number = 1
	} else if page.Number < 1 {
		errs = append(errs, domain.FieldError{Field: "page", Message: "must be >= 1"})
	}

	if page.Size == 0 {
		page.Size = defaultPageSize
	} else if page.Size < 1 || page.Size > maxPageSize {
		errs = append(errs, domain.FieldError{Field: "page_size", Message: "out of range (1-200)"})
	}

	if page.SortBy == "" {
		page.SortBy = "created_at"
	} else if !listSortFields[page.SortBy] {
		errs = append(errs, domain.FieldError{Field: "sort_by", Message: "invalid value"})
	}

	switch page.SortOrder {
	case "":
		page.SortOrder = "desc"
	case "asc", "desc":
	default:
		errs = append(errs, domain.FieldError{Field: "sort_order", Message: "invalid value (allowed: asc, desc)"})
	}

	if i.Filter.Status != nil && !i.Filter.Status.IsValid() {
		errs = append(errs, domain.FieldError{Field: "status", Message: "invalid value"})
	}

	if len(errs) > 0 {
		return domain.Page{}, domain.NewValidationErrors(errs)
	}
	return page, nil
}

// fieldIdx formats an indexed field path like "entry_ids[3]".
func fieldIdx(parent string, idx int) string {
	return parent + "[" + strconv.Itoa(idx) + "]"
}
