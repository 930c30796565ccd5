package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedisFixture(t *testing.T) (*miniredis.Miniredis, *redisStore) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, NewRedisStore(client).(*redisStore)
}

func TestRedisStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	mr, store := newRedisFixture(t)

	if err := store.Save(ctx, "u1", "t1", time.Hour); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if ttl := mr.TTL(tokenKey("u1", "t1")); ttl != time.Hour {
		t.Errorf("ttl = %v, want 1h", ttl)
	}

	ok, err := store.Exists(ctx, "u1", "t1")
	if err != nil || !ok {
		t.Fatalf("Exists = %v, %v; want true", ok, err)
	}
	if ok, _ := store.Exists(ctx, "u2", "t1"); ok {
		t.Error("token must be bound to its user")
	}

	if err := store.Delete(ctx, "u1", "t1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if ok, _ := store.Exists(ctx, "u1", "t1"); ok {
		t.Error("token still valid after Delete")
	}

	store.Save(ctx, "u1", "t2", time.Minute)
	mr.FastForward(time.Minute)
	if ok, _ := store.Exists(ctx, "u1", "t2"); ok {
		t.Error("token still valid after ttl")
	}
}

func TestRedisStoreDeleteAll(t *testing.T) {
	ctx := context.Background()
	mr, store := newRedisFixture(t)

	store.Save(ctx, "u1", "t1", time.Hour)
	store.Save(ctx, "u1", "t2", time.Hour)
	store.Save(ctx, "u10", "t3", time.Hour)
	store.Save(ctx, "u*", "t4", time.Hour)

	if err := store.DeleteAll(ctx, "u1"); err != nil {
		t.Fatalf("DeleteAll: %v", err)
	}
	for _, key := range []string{tokenKey("u1", "t1"), tokenKey("u1", "t2")} {
		if mr.Exists(key) {
			t.Errorf("%s still present", key)
		}
	}
	if !mr.Exists(tokenKey("u10", "t3")) {
		t.Error("DeleteAll removed another user's token")
	}

	// Glob characters in an id match only themselves.
	if err := store.DeleteAll(ctx, "u*"); err != nil {
		t.Fatalf("DeleteAll: %v", err)
	}
	if mr.Exists(tokenKey("u*", "t4")) {
		t.Error("token of u* still present")
	}
	if !mr.Exists(tokenKey("u10", "t3")) {
		t.Error("glob id removed another user's token")
	}

	if err := store.DeleteAll(ctx, "nobody"); err != nil {
		t.Fatalf("DeleteAll with no tokens: %v", err)
	}
}
