package session_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/readmemo/vocab-backend/internal/adapter/postgres/session"
	"github.com/readmemo/vocab-backend/internal/adapter/postgres/testhelper"
	"github.com/readmemo/vocab-backend/internal/domain"
)

func TestRepo_CreateAndGet(t *testing.T) {
	t.Parallel()
	pool := testhelper.SetupTestDB(t)
	repo := session.New(pool)
	ctx := context.Background()

	user := testhelper.SeedUser(t, pool)

	now := time.Now().UTC().Truncate(time.Microsecond)
	s := &domain.Session{
		ID:        uuid.New(),
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}

	if err := repo.Create(ctx, s); err != nil {
		t.Fatalf("Create: unexpected error: %v", err)
	}

	got, err := repo.GetByID(ctx, s.ID)
	if err != nil {
		t.Fatalf("GetByID: unexpected error: %v", err)
	}
	if got.UserID != user.ID {
		t.Errorf("UserID mismatch: got %s, want %s", got.UserID, user.ID)
	}
	if !got.ExpiresAt.Equal(s.ExpiresAt) {
		t.Errorf("ExpiresAt mismatch: got %v, want %v", got.ExpiresAt, s.ExpiresAt)
	}
}

func TestRepo_GetByID_Missing(t *testing.T) {
	t.Parallel()
	pool := testhelper.SetupTestDB(t)
	repo := session.New(pool)

	_, err := repo.GetByID(context.Background(), uuid.New())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRepo_Delete(t *testing.T) {
	t.Parallel()
	pool := testhelper.SetupTestDB(t)
	repo := session.New(pool)
	ctx := context.Background()

	user := testhelper.SeedUser(t, pool)
	seeded := testhelper.SeedSession(t, pool, user.ID, time.Now().Add(time.Hour))

	if err := repo.Delete(ctx, seeded.ID); err != nil {
		t.Fatalf("Delete: unexpected error: %v", err)
	}

	if _, err := repo.GetByID(ctx, seeded.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestRepo_DeleteExpired(t *testing.T) {
	t.Parallel()
	pool := testhelper.SetupTestDB(t)
	repo := session.New(pool)
	ctx := context.Background()

	user := testhelper.SeedUser(t, pool)
	live := testhelper.SeedSession(t, pool, user.ID, time.Now().Add(time.Hour))
	expired := testhelper.SeedSession(t, pool, user.ID, time.Now().Add(-time.Hour))

	deleted, err := repo.DeleteExpired(ctx)
	if err != nil {
		t.Fatalf("DeleteExpired: unexpected error: %v", err)
	}
	if deleted < 1 {
		t.Fatalf("expected at least 1 deleted, got %d", deleted)
	}

	if _, err := repo.GetByID(ctx, expired.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected expired session gone, got %v", err)
	}
	if _, err := repo.GetByID(ctx, live.ID); err != nil {
		t.Fatalf("expected live session kept, got %v", err)
	}
}
