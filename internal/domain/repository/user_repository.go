package repository

import (
	"context"

	"clinic-booking/internal/domain/entity"
)

// UserRepository finders return nil, nil when no row matches.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByID(ctx context.Context, id string) (*entity.User, error)
	UpdateRole(ctx context.Context, id string, role entity.Role) (int64, error)
}
