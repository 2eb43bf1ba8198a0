package session

import (
	"context"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	sess, err := New("user-1", "alice", DefaultTTL)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if sess.ID == "" {
		t.Error("session ID should not be empty")
	}
	if sess.UserID != "user-1" || sess.Username != "alice" {
		t.Errorf("identity = %q/%q", sess.UserID, sess.Username)
	}
	if sess.IsExpired() {
		t.Error("fresh session should not be expired")
	}
	if !sess.ExpiresAt.After(sess.CreatedAt) {
		t.Error("ExpiresAt should be after CreatedAt")
	}
}

func TestGenerateIDUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id, err := GenerateID()
		if err != nil {
			t.Fatalf("GenerateID: %v", err)
		}
		if seen[id] {
			t.Fatal("duplicate session ID generated")
		}
		seen[id] = true
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	sess, err := New("user-1", "alice", DefaultTTL)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := store.Set(ctx, sess); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := store.Get(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil {
		t.Fatal("expected session")
	}
	if got.Username != "alice" {
		t.Errorf("Username = %q, want alice", got.Username)
	}
}

func TestMemoryStoreMissing(t *testing.T) {
	got, err := NewMemoryStore().Get(context.Background(), "nope")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Error("expected nil session for unknown ID")
	}
}

func TestMemoryStoreExpired(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	sess, err := New("user-1", "alice", -time.Minute)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := store.Set(ctx, sess); err != nil {
		t.Fatalf("Set: %v", err)
	}

	if _, err := store.Get(ctx, sess.ID); err != ErrExpired {
		t.Errorf("Get expired = %v, want ErrExpired", err)
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	sess, _ := New("user-1", "alice", DefaultTTL)
	_ = store.Set(ctx, sess)
	if err := store.Delete(ctx, sess.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got, _ := store.Get(ctx, sess.ID); got != nil {
		t.Error("expected nil after delete")
	}
}

func TestMemoryStoreCleanup(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	live, _ := New("u1", "alice", DefaultTTL)
	dead, _ := New("u2", "bob", -time.Minute)
	_ = store.Set(ctx, live)
	_ = store.Set(ctx, dead)

	if err := store.Cleanup(ctx); err != nil {
		t.Fatalf("Cleanup: %v", err)
	}

	if got, _ := store.Get(ctx, live.ID); got == nil {
		t.Error("live session removed by cleanup")
	}
	if _, ok := store.sessions[dead.ID]; ok {
		t.Error("expired session survived cleanup")
	}
}

func TestMemoryStoreCopies(t *testing.T) {
	// The store must not alias caller memory.
	ctx := context.Background()
	store := NewMemoryStore()

	sess, _ := New("user-1", "alice", DefaultTTL)
	_ = store.Set(ctx, sess)
	sess.Username = "mallory"

	got, _ := store.Get(ctx, sess.ID)
	if got.Username != "alice" {
		t.Errorf("stored session mutated through caller pointer: %q", got.Username)
	}
}
