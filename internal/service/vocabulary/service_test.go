package vocabulary

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readmemo/vocab-backend/internal/config"
	"github.com/readmemo/vocab-backend/internal/domain"
	"github.com/readmemo/vocab-backend/pkg/ctxutil"
)

// ===========================================================================
// Manual mocks (moq-style with func fields)
// ===========================================================================

type mockEntryRepo struct {
	CreateFunc             func(ctx context.Context, entry *domain.Entry) (*domain.Entry, error)
	GetByIDFunc            func(ctx context.Context, userID, entryID uuid.UUID) (*domain.Entry, error)
	FindFunc               func(ctx context.Context, userID uuid.UUID, filter domain.EntryFilter, page domain.Page) ([]domain.Entry, int, error)
	UpdateFunc             func(ctx context.Context, userID, entryID uuid.UUID, patch domain.EntryPatch) (*domain.Entry, error)
	DeleteFunc             func(ctx context.Context, userID, entryID uuid.UUID) (*domain.Entry, error)
	MarkMasteredFunc       func(ctx context.Context, userID, entryID uuid.UUID) (*domain.Entry, error)
	ResetLearningFunc      func(ctx context.Context, userID, entryID uuid.UUID) (*domain.Entry, error)
	BulkInsertIfAbsentFunc func(ctx context.Context, userID uuid.UUID, rows []domain.EntryRow) ([]bool, error)
}

func (m *mockEntryRepo) Create(ctx context.Context, entry *domain.Entry) (*domain.Entry, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, entry)
	}
	return entry, nil
}

func (m *mockEntryRepo) GetByID(ctx context.Context, userID, entryID uuid.UUID) (*domain.Entry, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, userID, entryID)
	}
	return nil, domain.ErrNotFound
}

func (m *mockEntryRepo) Find(ctx context.Context, userID uuid.UUID, filter domain.EntryFilter, page domain.Page) ([]domain.Entry, int, error) {
	if m.FindFunc != nil {
		return m.FindFunc(ctx, userID, filter, page)
	}
	return nil, 0, nil
}

func (m *mockEntryRepo) Update(ctx context.Context, userID, entryID uuid.UUID, patch domain.EntryPatch) (*domain.Entry, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, userID, entryID, patch)
	}
	return &domain.Entry{ID: entryID, UserID: userID}, nil
}

func (m *mockEntryRepo) Delete(ctx context.Context, userID, entryID uuid.UUID) (*domain.Entry, error) {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, userID, entryID)
	}
	return &domain.Entry{ID: entryID, UserID: userID}, nil
}

func (m *mockEntryRepo) MarkMastered(ctx context.Context, userID, entryID uuid.UUID) (*domain.Entry, error) {
	if m.MarkMasteredFunc != nil {
		return m.MarkMasteredFunc(ctx, userID, entryID)
	}
	return &domain.Entry{ID: entryID, UserID: userID, Status: domain.StatusMastered, MasteryLevel: domain.MasteryLevelMax}, nil
}

func (m *mockEntryRepo) ResetLearning(ctx context.Context, userID, entryID uuid.UUID) (*domain.Entry, error) {
	if m.ResetLearningFunc != nil {
		return m.ResetLearningFunc(ctx, userID, entryID)
	}
	return &domain.Entry{ID: entryID, UserID: userID, Status: domain.StatusNew}, nil
}

func (m *mockEntryRepo) BulkInsertIfAbsent(ctx context.Context, userID uuid.UUID, rows []domain.EntryRow) ([]bool, error) {
	if m.BulkInsertIfAbsentFunc != nil {
		return m.BulkInsertIfAbsentFunc(ctx, userID, rows)
	}
	inserted := make([]bool, len(rows))
	for i := range inserted {
		inserted[i] = true
	}
	return inserted, nil
}

type mockWordRepo struct {
	GetOrCreateFunc func(ctx context.Context, text, language string) (uuid.UUID, error)
	BulkUpsertFunc  func(ctx context.Context, words []domain.WordUpsert) (int, error)
	GetDetailFunc   func(ctx context.Context, wordID uuid.UUID) (*domain.WordDetail, error)
}

func (m *mockWordRepo) GetOrCreate(ctx context.Context, text, language string) (uuid.UUID, error) {
	if m.GetOrCreateFunc != nil {
		return m.GetOrCreateFunc(ctx, text, language)
	}
	return uuid.New(), nil
}

func (m *mockWordRepo) BulkUpsert(ctx context.Context, words []domain.WordUpsert) (int, error) {
	if m.BulkUpsertFunc != nil {
		return m.BulkUpsertFunc(ctx, words)
	}
	return len(words), nil
}

func (m *mockWordRepo) GetDetail(ctx context.Context, wordID uuid.UUID) (*domain.WordDetail, error) {
	if m.GetDetailFunc != nil {
		return m.GetDetailFunc(ctx, wordID)
	}
	return nil, domain.ErrNotFound
}

type mockTagRepo struct {
	EnsureTagsFunc       func(ctx context.Context, names []string) ([]uuid.UUID, error)
	ReplaceEntryTagsFunc func(ctx context.Context, entryID uuid.UUID, tagIDs []uuid.UUID) error
	DeleteByEntryFunc    func(ctx context.Context, entryID uuid.UUID) error
}

func (m *mockTagRepo) EnsureTags(ctx context.Context, names []string) ([]uuid.UUID, error) {
	if m.EnsureTagsFunc != nil {
		return m.EnsureTagsFunc(ctx, names)
	}
	ids := make([]uuid.UUID, len(names))
	for i := range ids {
		ids[i] = uuid.New()
	}
	return ids, nil
}

func (m *mockTagRepo) ReplaceEntryTags(ctx context.Context, entryID uuid.UUID, tagIDs []uuid.UUID) error {
	if m.ReplaceEntryTagsFunc != nil {
		return m.ReplaceEntryTagsFunc(ctx, entryID, tagIDs)
	}
	return nil
}

func (m *mockTagRepo) DeleteByEntry(ctx context.Context, entryID uuid.UUID) error {
	if m.DeleteByEntryFunc != nil {
		return m.DeleteByEntryFunc(ctx, entryID)
	}
	return nil
}

type mockTxManager struct{}

func (m *mockTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// ===========================================================================
// Helpers
// ===========================================================================

type testDeps struct {
	entries *mockEntryRepo
	words   *mockWordRepo
	tags    *mockTagRepo
}

func newTestService(t *testing.T) (*Service, *testDeps) {
	t.Helper()

	deps := &testDeps{
		entries: &mockEntryRepo{},
		words:   &mockWordRepo{},
		tags:    &mockTagRepo{},
	}
	svc := NewService(
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		deps.entries,
		deps.words,
		deps.tags,
		&mockTxManager{},
		config.VocabularyConfig{
			ImportMaxFileSize:  10 << 20,
			ImportChunkSize:    1000,
			ImportMaxFailures:  100,
			BatchUpdateMax:     100,
			ExportMaxEntries:   10000,
			ExportLinkLifetime: 24 * time.Hour,
		},
	)
	return svc, deps
}

func authCtx(userID uuid.UUID) context.Context {
	return ctxutil.WithUserID(context.Background(), userID)
}

func strPtr(s string) *string { return &s }

func statusPtr(s domain.LearningStatus) *domain.LearningStatus { return &s }

func intPtr(n int) *int { return &n }

// ===========================================================================
// Single-entry operations
// ===========================================================================

func TestAddEntry(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("unauthenticated", func(t *testing.T) {
		t.Parallel()

		svc, _ := newTestService(t)
		_, err := svc.AddEntry(context.Background(), AddEntryInput{Word: "hello"})
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("blank word", func(t *testing.T) {
		t.Parallel()

		svc, _ := newTestService(t)
		_, err := svc.AddEntry(authCtx(userID), AddEntryInput{Word: "   "})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("creates entry in initial state", func(t *testing.T) {
		t.Parallel()

		svc, deps := newTestService(t)
		wordID := uuid.New()

		deps.words.GetOrCreateFunc = func(ctx context.Context, text, language string) (uuid.UUID, error) {
			assert.Equal(t, "hello world", text)
			assert.Equal(t, "en", language)
			return wordID, nil
		}

		var created *domain.Entry
		deps.entries.CreateFunc = func(ctx context.Context, entry *domain.Entry) (*domain.Entry, error) {
			created = entry
			return entry, nil
		}

		got, err := svc.AddEntry(authCtx(userID), AddEntryInput{Word: "  Hello   World "})
		require.NoError(t, err)

		require.NotNil(t, created)
		assert.Equal(t, userID, created.UserID)
		assert.Equal(t, wordID, created.WordID)
		assert.Equal(t, domain.StatusNew, created.Status)
		assert.Zero(t, created.MasteryLevel)
		assert.Zero(t, created.ReviewCount)
		assert.Equal(t, "hello world", got.Entry.Word)
	})

	t.Run("language inferred when omitted", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			word string
			want string
		}{
			{"hello", "en"},
			{"mother-in-law's", "en"},
			{"你好", "zh"},
		}
		for _, tt := range tests {
			svc, deps := newTestService(t)
			var gotLang string
			deps.words.GetOrCreateFunc = func(ctx context.Context, text, language string) (uuid.UUID, error) {
				gotLang = language
				return uuid.New(), nil
			}
			_, err := svc.AddEntry(authCtx(userID), AddEntryInput{Word: tt.word})
			require.NoError(t, err)
			assert.Equal(t, tt.want, gotLang, "word %q", tt.word)
		}
	})

	t.Run("duplicate entry", func(t *testing.T) {
		t.Parallel()

		svc, deps := newTestService(t)
		deps.entries.CreateFunc = func(ctx context.Context, entry *domain.Entry) (*domain.Entry, error) {
			return nil, domain.ErrAlreadyExists
		}

		_, err := svc.AddEntry(authCtx(userID), AddEntryInput{Word: "hello"})
		assert.ErrorIs(t, err, domain.ErrAlreadyExists)
		assert.Contains(t, err.Error(), "word already in vocabulary")
	})

	t.Run("binds cleaned tags", func(t *testing.T) {
		t.Parallel()

		svc, deps := newTestService(t)
		var ensured []string
		deps.tags.EnsureTagsFunc = func(ctx context.Context, names []string) ([]uuid.UUID, error) {
			ensured = names
			return []uuid.UUID{uuid.New(), uuid.New()}, nil
		}

		got, err := svc.AddEntry(authCtx(userID), AddEntryInput{
			Word: "hello",
			Tags: []string{" Favorites ", "favorites", "", "rare"},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"favorites", "rare"}, ensured)
		assert.Equal(t, []string{"favorites", "rare"}, got.Entry.Tags)
	})

	t.Run("hydrates word detail", func(t *testing.T) {
		t.Parallel()

		svc, deps := newTestService(t)
		phonetic := "/heh-loh/"
		deps.words.GetDetailFunc = func(ctx context.Context, wordID uuid.UUID) (*domain.WordDetail, error) {
			return &domain.WordDetail{Phonetic: &phonetic, Synonyms: []string{"hi"}}, nil
		}

		got, err := svc.AddEntry(authCtx(userID), AddEntryInput{Word: "hello"})
		require.NoError(t, err)
		require.NotNil(t, got.Word)
		assert.Equal(t, []string{"hi"}, got.Word.Synonyms)
	})
}

func TestGetEntry(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("not found or foreign entry", func(t *testing.T) {
		t.Parallel()

		svc, deps := newTestService(t)
		deps.entries.GetByIDFunc = func(ctx context.Context, uid, eid uuid.UUID) (*domain.Entry, error) {
			return nil, domain.ErrNotFound
		}

		_, err := svc.GetEntry(authCtx(userID), uuid.New())
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Contains(t, err.Error(), "not found or no permission")
	})

	t.Run("found", func(t *testing.T) {
		t.Parallel()

		svc, deps := newTestService(t)
		entryID := uuid.New()
		deps.entries.GetByIDFunc = func(ctx context.Context, uid, eid uuid.UUID) (*domain.Entry, error) {
			assert.Equal(t, userID, uid)
			assert.Equal(t, entryID, eid)
			return &domain.Entry{ID: eid, UserID: uid, Word: "hello"}, nil
		}

		got, err := svc.GetEntry(authCtx(userID), entryID)
		require.NoError(t, err)
		assert.Equal(t, "hello", got.Entry.Word)
	})
}

func TestUpdateEntry(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("no update data", func(t *testing.T) {
		t.Parallel()

		svc, _ := newTestService(t)
		_, err := svc.UpdateEntry(authCtx(userID), UpdateEntryInput{EntryID: uuid.New()})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("invalid status", func(t *testing.T) {
		t.Parallel()

		svc, _ := newTestService(t)
		bad := domain.LearningStatus("perfected")
		_, err := svc.UpdateEntry(authCtx(userID), UpdateEntryInput{EntryID: uuid.New(), Status: &bad})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("partial patch", func(t *testing.T) {
		t.Parallel()

		svc, deps := newTestService(t)
		var gotPatch domain.EntryPatch
		deps.entries.UpdateFunc = func(ctx context.Context, uid, eid uuid.UUID, patch domain.EntryPatch) (*domain.Entry, error) {
			gotPatch = patch
			return &domain.Entry{ID: eid, UserID: uid}, nil
		}

		_, err := svc.UpdateEntry(authCtx(userID), UpdateEntryInput{
			EntryID: uuid.New(),
			Status:  statusPtr(domain.StatusLearning),
			Notes:   strPtr("tricky one"),
		})
		require.NoError(t, err)
		require.NotNil(t, gotPatch.Status)
		assert.Equal(t, domain.StatusLearning, *gotPatch.Status)
		assert.Nil(t, gotPatch.MasteryLevel)
		assert.Equal(t, "tricky one", *gotPatch.Notes)
	})

	t.Run("tag replacement", func(t *testing.T) {
		t.Parallel()

		svc, deps := newTestService(t)
		replaced := false
		deps.tags.ReplaceEntryTagsFunc = func(ctx context.Context, entryID uuid.UUID, tagIDs []uuid.UUID) error {
			replaced = true
			assert.Len(t, tagIDs, 1)
			return nil
		}

		got, err := svc.UpdateEntry(authCtx(userID), UpdateEntryInput{
			EntryID: uuid.New(),
			Tags:    []string{"idioms"},
			TagsSet: true,
		})
		require.NoError(t, err)
		assert.True(t, replaced)
		assert.Equal(t, []string{"idioms"}, got.Tags)
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()

		svc, deps := newTestService(t)
		deps.entries.UpdateFunc = func(ctx context.Context, uid, eid uuid.UUID, patch domain.EntryPatch) (*domain.Entry, error) {
			return nil, domain.ErrNotFound
		}

		_, err := svc.UpdateEntry(authCtx(userID), UpdateEntryInput{
			EntryID: uuid.New(),
			Notes:   strPtr("x"),
		})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestDeleteEntry(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("removes tag bindings before the entry", func(t *testing.T) {
		t.Parallel()

		svc, deps := newTestService(t)
		var order []string
		deps.tags.DeleteByEntryFunc = func(ctx context.Context, entryID uuid.UUID) error {
			order = append(order, "tags")
			return nil
		}
		deps.entries.DeleteFunc = func(ctx context.Context, uid, eid uuid.UUID) (*domain.Entry, error) {
			order = append(order, "entry")
			return &domain.Entry{ID: eid, UserID: uid, Word: "hello"}, nil
		}

		got, err := svc.DeleteEntry(authCtx(userID), uuid.New())
		require.NoError(t, err)
		assert.Equal(t, []string{"tags", "entry"}, order)
		assert.Equal(t, "hello", got.Word)
		assert.False(t, got.DeletedAt.IsZero())
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()

		svc, deps := newTestService(t)
		deps.entries.DeleteFunc = func(ctx context.Context, uid, eid uuid.UUID) (*domain.Entry, error) {
			return nil, domain.ErrNotFound
		}

		_, err := svc.DeleteEntry(authCtx(userID), uuid.New())
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestProgressTransitions(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("mark as mastered", func(t *testing.T) {
		t.Parallel()

		svc, deps := newTestService(t)
		entryID := uuid.New()
		deps.entries.MarkMasteredFunc = func(ctx context.Context, uid, eid uuid.UUID) (*domain.Entry, error) {
			assert.Equal(t, entryID, eid)
			now := time.Now().UTC()
			return &domain.Entry{
				ID: eid, UserID: uid,
				Status:         domain.StatusMastered,
				MasteryLevel:   domain.MasteryLevelMax,
				LastReviewedAt: &now,
			}, nil
		}

		got, err := svc.MarkAsMastered(authCtx(userID), entryID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusMastered, got.Status)
		assert.Equal(t, domain.MasteryLevelMax, got.MasteryLevel)
		assert.NotNil(t, got.LastReviewedAt)
	})

	t.Run("reset learning", func(t *testing.T) {
		t.Parallel()

		svc, deps := newTestService(t)
		deps.entries.ResetLearningFunc = func(ctx context.Context, uid, eid uuid.UUID) (*domain.Entry, error) {
			return &domain.Entry{ID: eid, UserID: uid, Status: domain.StatusNew}, nil
		}

		got, err := svc.ResetLearning(authCtx(userID), uuid.New())
		require.NoError(t, err)
		assert.Equal(t, domain.StatusNew, got.Status)
		assert.Zero(t, got.MasteryLevel)
		assert.Zero(t, got.ReviewCount)
		assert.Nil(t, got.LastReviewedAt)
		assert.Nil(t, got.NextReviewAt)
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()

		svc, deps := newTestService(t)
		deps.entries.MarkMasteredFunc = func(ctx context.Context, uid, eid uuid.UUID) (*domain.Entry, error) {
			return nil, domain.ErrNotFound
		}

		_, err := svc.MarkAsMastered(authCtx(userID), uuid.New())
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Contains(t, err.Error(), "not found or no permission")
	})
}
