package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"clinic-booking/internal/domain/repository"

	"github.com/redis/go-redis/v9"
)

const scanBatch = 100

func tokenKey(userID, tokenID string) string {
	return fmt.Sprintf("access_token:%s:%s", userID, tokenID)
}

func userKeyPrefix(userID string) string {
	return fmt.Sprintf("access_token:%s:", userID)
}

var globReplacer = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)

type redisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) repository.SessionStore {
	return &redisStore{client: client}
}

func (s *redisStore) Save(ctx context.Context, userID, tokenID string, ttl time.Duration) error {
	return s.client.Set(ctx, tokenKey(userID, tokenID), "valid", ttl).Err()
}

func (s *redisStore) Exists(ctx context.Context, userID, tokenID string) (bool, error) {
	exists, err := s.client.Exists(ctx, tokenKey(userID, tokenID)).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

func (s *redisStore) Delete(ctx context.Context, userID, tokenID string) error {
	return s.client.Del(ctx, tokenKey(userID, tokenID)).Err()
}

func (s *redisStore) DeleteAll(ctx context.Context, userID string) error {
	pattern := globReplacer.Replace(userKeyPrefix(userID)) + "*"
	var keys []string
	iter := s.client.Scan(ctx, 0, pattern, scanBatch).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}
