// Package vocabulary implements the vocabulary entry business logic: single
// entry lifecycle, the learning-status state machine, tag binding, and the
// bulk pipelines (batch action, batch update, file import, file export).
package vocabulary

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/readmemo/vocab-backend/internal/config"
	"github.com/readmemo/vocab-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type entryRepo interface {
	Create(ctx context.Context, entry *domain.Entry) (*domain.Entry, error)
	GetByID(ctx context.Context, userID, entryID uuid.UUID) (*domain.Entry, error)
	Find(ctx context.Context, userID uuid.UUID, filter domain.EntryFilter, page domain.Page) ([]domain.Entry, int, error)
	Update(ctx context.Context, userID, entryID uuid.UUID, patch domain.EntryPatch) (*domain.Entry, error)
	Delete(ctx context.Context, userID, entryID uuid.UUID) (*domain.Entry, error)
	MarkMastered(ctx context.Context, userID, entryID uuid.UUID) (*domain.Entry, error)
	ResetLearning(ctx context.Context, userID, entryID uuid.UUID) (*domain.Entry, error)
	BulkInsertIfAbsent(ctx context.Context, userID uuid.UUID, rows []domain.EntryRow) ([]bool, error)
}

type wordRepo interface {
	GetOrCreate(ctx context.Context, text, language string) (uuid.UUID, error)
	BulkUpsert(ctx context.Context, words []domain.WordUpsert) (int, error)
	GetDetail(ctx context.Context, wordID uuid.UUID) (*domain.WordDetail, error)
}

type tagRepo interface {
	EnsureTags(ctx context.Context, names []string) ([]uuid.UUID, error)
	ReplaceEntryTags(ctx context.Context, entryID uuid.UUID, tagIDs []uuid.UUID) error
	DeleteByEntry(ctx context.Context, entryID uuid.UUID) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the vocabulary business logic.
type Service struct {
	log     *slog.Logger
	entries entryRepo
	words   wordRepo
	tags    tagRepo
	tx      txManager
	cfg     config.VocabularyConfig
}

// NewService creates a new Vocabulary service.
func NewService(
	logger *slog.Logger,
	entries entryRepo,
	words wordRepo,
	tags tagRepo,
	tx txManager,
	cfg config.VocabularyConfig,
) *Service {
	return &Service{
		log:     logger.With("service", "vocabulary"),
		entries: entries,
		words:   words,
		tags:    tags,
		tx:      tx,
		cfg:     cfg,
	}
}

// resolveTags finds or creates the named tags and rebinds the entry to
// exactly that set. Blank names are dropped, duplicates collapsed.
func (s *Service) resolveTags(ctx context.Context, entryID uuid.UUID, names []string) ([]string, error) {
	cleaned := cleanTagNames(names)

	if len(cleaned) == 0 {
		if err := s.tags.ReplaceEntryTags(ctx, entryID, nil); err != nil {
			return nil, err
		}
		return []string{}, nil
	}

	ids, err := s.tags.EnsureTags(ctx, cleaned)
	if err != nil {
		return nil, err
	}
	if err := s.tags.ReplaceEntryTags(ctx, entryID, ids); err != nil {
		return nil, err
	}
	return cleaned, nil
}

func cleanTagNames(names []string) []string {
	seen := make(map[string]bool, len(names))
	cleaned := make([]string, 0, len(names))
	for _, name := range names {
		name = domain.NormalizeWord(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		cleaned = append(cleaned, name)
	}
	return cleaned
}
