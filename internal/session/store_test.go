package session

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStore_CreateAndFind(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	ctx := context.Background()

	sess, err := store.Create(ctx, "access-1", "refresh-1")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if sess.ID == "" {
		t.Fatal("expected non-empty session ID")
	}
	if !sess.HasTokens() {
		t.Error("expected session to have tokens")
	}

	found, err := store.FindByID(ctx, sess.ID)
	if err != nil {
		t.Fatalf("FindByID returned error: %v", err)
	}
	if found == nil {
		t.Fatal("expected session to be found")
	}
	if found.AccessToken != "access-1" {
		t.Errorf("AccessToken = %q, want %q", found.AccessToken, "access-1")
	}
	if found.RefreshToken != "refresh-1" {
		t.Errorf("RefreshToken = %q, want %q", found.RefreshToken, "refresh-1")
	}
}

func TestMemoryStore_FindByID_UnknownID_ReturnsNil(t *testing.T) {
	store := NewMemoryStore(time.Hour)

	found, err := store.FindByID(context.Background(), "no-such-id")
	if err != nil {
		t.Fatalf("FindByID returned error: %v", err)
	}
	if found != nil {
		t.Errorf("expected nil for unknown ID, got %+v", found)
	}
}

func TestMemoryStore_Delete(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	ctx := context.Background()

	sess, err := store.Create(ctx, "access", "refresh")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if err := store.Delete(ctx, sess.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	found, err := store.FindByID(ctx, sess.ID)
	if err != nil {
		t.Fatalf("FindByID returned error: %v", err)
	}
	if found != nil {
		t.Error("expected session to be gone after Delete")
	}
}

func TestMemoryStore_Delete_UnknownID_IsNoop(t *testing.T) {
	store := NewMemoryStore(time.Hour)

	if err := store.Delete(context.Background(), "no-such-id"); err != nil {
		t.Fatalf("Delete of unknown ID should be a no-op, got error: %v", err)
	}
}

func TestMemoryStore_ExpiredSessionNotReturned(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	now = func() time.Time { return base }
	defer func() { now = time.Now }()

	sess, err := store.Create(ctx, "access", "refresh")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	// 有効期限直前は取得できる
	now = func() time.Time { return base.Add(time.Hour - time.Second) }
	found, _ := store.FindByID(ctx, sess.ID)
	if found == nil {
		t.Fatal("expected session before expiry")
	}

	// 有効期限後はnil
	now = func() time.Time { return base.Add(time.Hour + time.Second) }
	found, _ = store.FindByID(ctx, sess.ID)
	if found != nil {
		t.Error("expected nil for expired session")
	}
}

func TestMemoryStore_DeleteExpired(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	now = func() time.Time { return base }
	defer func() { now = time.Now }()

	if _, err := store.Create(ctx, "a1", "r1"); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	now = func() time.Time { return base.Add(2 * time.Hour) }
	fresh, err := store.Create(ctx, "a2", "r2")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	deleted, err := store.DeleteExpired(ctx)
	if err != nil {
		t.Fatalf("DeleteExpired returned error: %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}
	if store.Len() != 1 {
		t.Errorf("Len = %d, want 1", store.Len())
	}

	found, _ := store.FindByID(ctx, fresh.ID)
	if found == nil {
		t.Error("expected fresh session to survive DeleteExpired")
	}
}
