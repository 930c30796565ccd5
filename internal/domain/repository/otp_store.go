package repository

import (
	"context"

	"clinic-booking/internal/domain/entity"
)

// OTPStore keeps at most one pending code per email address.
// Get returns nil, nil when no entry exists. Expiry is checked by the caller.
type OTPStore interface {
	Save(ctx context.Context, email string, entry *entity.OTPEntry) error
	Get(ctx context.Context, email string) (*entity.OTPEntry, error)
	Delete(ctx context.Context, email string) error
	// DeleteIfCode removes the entry only while it still holds code, and
	// reports whether it did. Of concurrent callers at most one sees true.
	DeleteIfCode(ctx context.Context, email, code string) (bool, error)
}
