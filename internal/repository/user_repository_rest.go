package repository

import (
	"context"

	"clinic-booking/internal/domain/entity"
	domainRepo "clinic-booking/internal/domain/repository"
	"clinic-booking/internal/infrastructure/postgrest"
	"clinic-booking/pkg/validator"

	"github.com/sirupsen/logrus"
)

const usersTable = "users"

type userPayload struct {
	ID           string      `json:"id,omitempty"`
	Username     string      `json:"username"`
	Email        string      `json:"email"`
	Role         entity.Role `json:"role"`
	PasswordHash string      `json:"password_hash"`
	PasswordSalt string      `json:"password_salt"`
	IsVerified   bool        `json:"is_verified"`
}

type userRESTRepository struct {
	client    *postgrest.Client
	log       *logrus.Logger
	validator *validator.CustomValidator
}

func NewUserRESTRepository(client *postgrest.Client, log *logrus.Logger, validator *validator.CustomValidator) domainRepo.UserRepository {
	return &userRESTRepository{
		client:    client,
		log:       log,
		validator: validator,
	}
}

func (r *userRESTRepository) Create(ctx context.Context, user *entity.User) error {
	raw, err := r.client.Insert(ctx, usersTable, userPayload{
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email,
		Role:         user.Role,
		PasswordHash: user.PasswordHash,
		PasswordSalt: user.PasswordSalt,
		IsVerified:   user.IsVerified,
	})
	if err != nil {
		if postgrest.IsUniqueViolation(err) {
			return domainRepo.ErrDuplicate
		}
		return err
	}
	if stored := firstRow[entity.User](r.log, r.validator, usersTable, raw); stored != nil {
		*user = *stored
	}
	return nil
}

func (r *userRESTRepository) findOne(ctx context.Context, column, value string) (*entity.User, error) {
	q := postgrest.NewQuery().Select("*").Eq(column, value).Limit(1)
	raw, err := r.client.Get(ctx, usersTable, q)
	if err != nil {
		if postgrest.IsInvalidInput(err) {
			return nil, nil
		}
		return nil, err
	}
	user := firstRow[entity.User](r.log, r.validator, usersTable, raw)
	if user != nil {
		user.Role = entity.ParseRole(string(user.Role))
	}
	return user, nil
}

func (r *userRESTRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.findOne(ctx, "username", username)
}

func (r *userRESTRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, "email", email)
}

func (r *userRESTRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	return r.findOne(ctx, "id", id)
}

func (r *userRESTRepository) UpdateRole(ctx context.Context, id string, role entity.Role) (int64, error) {
	raw, err := r.client.Update(ctx, usersTable, postgrest.NewQuery().Eq("id", id), map[string]entity.Role{"role": role})
	if err != nil {
		return 0, err
	}
	return int64(len(raw)), nil
}
