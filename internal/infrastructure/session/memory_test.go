package session

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStoreExpiresTokens(t *testing.T) {
	now := time.Date(2030, 1, 1, 9, 0, 0, 0, time.UTC)
	store := NewMemoryStoreWithClock(func() time.Time { return now })
	ctx := context.Background()

	if err := store.Save(ctx, "u1", "t1", time.Hour); err != nil {
		t.Fatalf("Save: %v", err)
	}

	ok, err := store.Exists(ctx, "u1", "t1")
	if err != nil || !ok {
		t.Fatalf("Exists = %v, %v; want true", ok, err)
	}

	if ok, _ := store.Exists(ctx, "u2", "t1"); ok {
		t.Error("token must be bound to its user")
	}

	now = now.Add(time.Hour)
	if ok, _ := store.Exists(ctx, "u1", "t1"); ok {
		t.Error("token still valid after ttl")
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	store.Save(ctx, "u1", "t1", time.Hour)
	if err := store.Delete(ctx, "u1", "t1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if ok, _ := store.Exists(ctx, "u1", "t1"); ok {
		t.Error("token still valid after Delete")
	}
}

func TestMemoryStoreDeleteAll(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	store.Save(ctx, "u1", "t1", time.Hour)
	store.Save(ctx, "u1", "t2", time.Hour)
	store.Save(ctx, "u10", "t3", time.Hour)

	if err := store.DeleteAll(ctx, "u1"); err != nil {
		t.Fatalf("DeleteAll: %v", err)
	}
	for _, tokenID := range []string{"t1", "t2"} {
		if ok, _ := store.Exists(ctx, "u1", tokenID); ok {
			t.Errorf("token %s still valid after DeleteAll", tokenID)
		}
	}
	if ok, _ := store.Exists(ctx, "u10", "t3"); !ok {
		t.Error("DeleteAll removed another user's token")
	}
}
