package usecase

import (
	"context"
	"errors"
	"strings"

	"clinic-booking/internal/converter"
	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/domain/entity"
	"clinic-booking/internal/domain/repository"
	"clinic-booking/internal/service"
	"clinic-booking/pkg/password"

	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidRole     = errors.New("invalid role")
	ErrOwnRoleChange   = errors.New("admins cannot change their own role")
	ErrPasswordTooWeak = errors.New("password must be at least 6 characters")
)

type UserUsecase interface {
	AssignRole(ctx context.Context, session *entity.Session, userID string, req *dto.AssignRoleRequest) (*dto.UserResponse, error)
	// CreateAdmin provisions a verified admin account without email
	// verification. It backs the create-admin command.
	CreateAdmin(ctx context.Context, username, email, plainPassword string) (*dto.UserResponse, error)
}

type userUsecase struct {
	log          *logrus.Logger
	userRepo     repository.UserRepository
	sessionStore repository.SessionStore
	auditService service.AuditService
}

func NewUserUsecase(log *logrus.Logger, userRepo repository.UserRepository, sessionStore repository.SessionStore, auditService service.AuditService) UserUsecase {
	return &userUsecase{
		log:          log,
		userRepo:     userRepo,
		sessionStore: sessionStore,
		auditService: auditService,
	}
}

func (u *userUsecase) AssignRole(ctx context.Context, session *entity.Session, userID string, req *dto.AssignRoleRequest) (*dto.UserResponse, error) {
	if session == nil {
		return nil, ErrSessionRequired
	}
	if !session.IsAdmin() {
		return nil, ErrForbidden
	}
	role := entity.Role(req.Role)
	if !role.IsValid() {
		return nil, ErrInvalidRole
	}
	if userID == session.UserID {
		return nil, ErrOwnRoleChange
	}

	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	affected, err := u.userRepo.UpdateRole(ctx, userID, role)
	if err != nil {
		u.log.Warnf("Failed to update role of user %s: %+v", userID, err)
		return nil, err
	}
	if affected == 0 {
		return nil, ErrUserNotFound
	}

	// Tokens carry the role they were issued with.
	if err := u.sessionStore.DeleteAll(ctx, userID); err != nil {
		u.log.Warnf("Failed to revoke sessions of user %s: %+v", userID, err)
		return nil, err
	}

	u.auditService.LogUpdate(ctx, session.UserID, entity.AuditActionUserRoleChange, "user", userID,
		map[string]string{"role": string(user.Role)},
		map[string]string{"role": string(role)})

	user.Role = role
	return converter.UserToResponse(user), nil
}

func (u *userUsecase) CreateAdmin(ctx context.Context, username, email, plainPassword string) (*dto.UserResponse, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	if len(plainPassword) < 6 {
		return nil, ErrPasswordTooWeak
	}

	salt, err := password.GenerateSalt()
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Username:     username,
		Email:        email,
		Role:         entity.RoleAdmin,
		PasswordHash: password.HashPassword(plainPassword, salt),
		PasswordSalt: salt,
		IsVerified:   true,
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, duplicateUserError(ctx, u.userRepo, email)
		}
		u.log.Warnf("Failed to create admin: %+v", err)
		return nil, err
	}

	u.auditService.LogCreate(ctx, "", entity.AuditActionUserRegister, "user", user.ID, converter.UserToResponse(user))
	return converter.UserToResponse(user), nil
}
