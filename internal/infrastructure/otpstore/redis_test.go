package otpstore

import (
	"context"
	"sync"
	"testing"
	"time"

	"clinic-booking/internal/domain/entity"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedisFixture(t *testing.T, now time.Time) (*miniredis.Miniredis, *redisStore) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, NewRedisStoreWithClock(client, func() time.Time { return now }).(*redisStore)
}

func TestRedisStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2030, 1, 1, 9, 0, 0, 0, time.UTC)
	mr, store := newRedisFixture(t, now)

	if got, err := store.Get(ctx, "jane@example.com"); err != nil || got != nil {
		t.Fatalf("Get on empty store = %+v, %v", got, err)
	}

	entry := &entity.OTPEntry{
		Code:      "123456",
		ExpiresAt: now.Add(5 * time.Minute),
		Pending:   entity.PendingRegistration{Username: "jane", Email: "jane@example.com", Role: entity.RoleDoctor},
	}
	if err := store.Save(ctx, "jane@example.com", entry); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if ttl := mr.TTL(otpKey("jane@example.com")); ttl != 5*time.Minute+Retention {
		t.Errorf("ttl = %v, want %v", ttl, 5*time.Minute+Retention)
	}

	got, err := store.Get(ctx, "jane@example.com")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil || got.Code != "123456" || !got.ExpiresAt.Equal(entry.ExpiresAt) || got.Pending.Role != entity.RoleDoctor {
		t.Fatalf("Get = %+v", got)
	}

	if err := store.Delete(ctx, "jane@example.com"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if mr.Exists(otpKey("jane@example.com")) {
		t.Fatal("key still present after Delete")
	}
}

func TestRedisStoreExpiresWithMemoryStore(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2030, 1, 1, 9, 0, 0, 0, time.UTC)
	mr, store := newRedisFixture(t, now)
	store.Save(ctx, "jane@example.com", &entity.OTPEntry{Code: "123456", ExpiresAt: now.Add(5 * time.Minute)})

	mr.FastForward(5*time.Minute + time.Hour)
	if got, _ := store.Get(ctx, "jane@example.com"); got == nil {
		t.Fatal("expired entry dropped before retention elapsed")
	}

	mr.FastForward(Retention)
	if got, _ := store.Get(ctx, "jane@example.com"); got != nil {
		t.Fatalf("entry kept past retention: %+v", got)
	}
}

func TestRedisStoreDeleteIfCode(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2030, 1, 1, 9, 0, 0, 0, time.UTC)
	_, store := newRedisFixture(t, now)
	store.Save(ctx, "jane@example.com", &entity.OTPEntry{Code: "123456", ExpiresAt: now.Add(5 * time.Minute)})

	if ok, err := store.DeleteIfCode(ctx, "jane@example.com", "000000"); err != nil || ok {
		t.Fatalf("DeleteIfCode with wrong code = %v, %v", ok, err)
	}
	if ok, err := store.DeleteIfCode(ctx, "missing@example.com", "123456"); err != nil || ok {
		t.Fatalf("DeleteIfCode on missing key = %v, %v", ok, err)
	}

	const workers = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		deleted int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := store.DeleteIfCode(ctx, "jane@example.com", "123456")
			if err != nil {
				t.Errorf("DeleteIfCode: %v", err)
				return
			}
			if ok {
				mu.Lock()
				deleted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if deleted != 1 {
		t.Fatalf("deletions = %d, want 1", deleted)
	}
}
