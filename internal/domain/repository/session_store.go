package repository

import (
	"context"
	"time"
)

// SessionStore tracks issued access tokens so they can be revoked before
// they expire.
type SessionStore interface {
	Save(ctx context.Context, userID, tokenID string, ttl time.Duration) error
	Exists(ctx context.Context, userID, tokenID string) (bool, error)
	Delete(ctx context.Context, userID, tokenID string) error
	// DeleteAll revokes every token issued to userID.
	DeleteAll(ctx context.Context, userID string) error
}
