package otpstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clinic-booking/internal/domain/entity"
	"clinic-booking/internal/domain/repository"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

const otpKeyPrefix = "otp:"

// deleteIfCodeScript compares and deletes in one step so two verifications
// racing on the same code cannot both succeed.
var deleteIfCodeScript = redis.NewScript(`
local payload = redis.call("GET", KEYS[1])
if not payload then
	return 0
end
if cjson.decode(payload).code ~= ARGV[1] then
	return 0
end
redis.call("DEL", KEYS[1])
return 1
`)

type redisStore struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisStore(client *redis.Client) repository.OTPStore {
	return NewRedisStoreWithClock(client, time.Now)
}

func NewRedisStoreWithClock(client *redis.Client, now func() time.Time) repository.OTPStore {
	return &redisStore{client: client, now: now}
}

func otpKey(email string) string {
	return otpKeyPrefix + email
}

func (s *redisStore) Save(ctx context.Context, email string, entry *entity.OTPEntry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode otp entry: %w", err)
	}
	ttl := entry.ExpiresAt.Sub(s.now())
	if ttl < 0 {
		ttl = 0
	}
	return s.client.Set(ctx, otpKey(email), payload, ttl+Retention).Err()
}

func (s *redisStore) Get(ctx context.Context, email string) (*entity.OTPEntry, error) {
	payload, err := s.client.Get(ctx, otpKey(email)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var entry entity.OTPEntry
	if err := json.Unmarshal(payload, &entry); err != nil {
		return nil, fmt.Errorf("decode otp entry: %w", err)
	}
	return &entry, nil
}

func (s *redisStore) Delete(ctx context.Context, email string) error {
	return s.client.Del(ctx, otpKey(email)).Err()
}

func (s *redisStore) DeleteIfCode(ctx context.Context, email, code string) (bool, error) {
	deleted, err := deleteIfCodeScript.Run(ctx, s.client, []string{otpKey(email)}, code).Int()
	if err != nil {
		return false, err
	}
	return deleted == 1, nil
}
