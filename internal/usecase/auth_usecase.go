package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"clinic-booking/internal/converter"
	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/domain/entity"
	"clinic-booking/internal/domain/repository"
	"clinic-booking/internal/service"
	"clinic-booking/pkg/jwt"
	"clinic-booking/pkg/password"

	"github.com/sirupsen/logrus"
)

var (
	ErrUsernameTaken        = errors.New("username already exists")
	ErrEmailTaken           = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid username or password")
	ErrEmailNotVerified     = errors.New("email address has not been verified")
	ErrUserNotFound         = errors.New("user not found")
	ErrVerificationDelivery = errors.New("failed to deliver verification code")
)

type AuthUsecase interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.PendingVerificationResponse, error)
	VerifyEmail(ctx context.Context, req *dto.VerifyEmailRequest) (*dto.UserResponse, error)
	ResendOTP(ctx context.Context, req *dto.ResendOTPRequest) (*dto.PendingVerificationResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, session *entity.Session) error
	GetCurrentUser(ctx context.Context, session *entity.Session) (*dto.UserResponse, error)
}

type authUsecase struct {
	log          *logrus.Logger
	userRepo     repository.UserRepository
	sessionStore repository.SessionStore
	otpService   service.OTPService
	mailer       service.Mailer
	auditService service.AuditService
	jwtService   *jwt.JWTService
	otpExpiry    time.Duration
}

func NewAuthUsecase(
	log *logrus.Logger,
	userRepo repository.UserRepository,
	sessionStore repository.SessionStore,
	otpService service.OTPService,
	mailer service.Mailer,
	auditService service.AuditService,
	jwtService *jwt.JWTService,
	otpExpiry time.Duration,
) AuthUsecase {
	return &authUsecase{
		log:          log,
		userRepo:     userRepo,
		sessionStore: sessionStore,
		otpService:   otpService,
		mailer:       mailer,
		auditService: auditService,
		jwtService:   jwtService,
		otpExpiry:    otpExpiry,
	}
}

// Register checks that username and email are free, hashes the password and
// sends a verification code. Nothing is persisted until VerifyEmail.
func (u *authUsecase) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.PendingVerificationResponse, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := u.userRepo.FindByUsername(ctx, username)
	if err != nil {
		u.log.Warnf("Failed to find user by username: %+v", err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	existing, err = u.userRepo.FindByEmail(ctx, email)
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	salt, err := password.GenerateSalt()
	if err != nil {
		u.log.Warnf("Failed to generate salt: %+v", err)
		return nil, err
	}

	role := entity.RolePatient
	if entity.Role(req.Role) == entity.RoleDoctor {
		role = entity.RoleDoctor
	}

	pending := entity.PendingRegistration{
		Username:     username,
		Email:        email,
		Role:         role,
		PasswordHash: password.HashPassword(req.Password, salt),
		PasswordSalt: salt,
	}

	if err := u.sendCode(ctx, email, pending); err != nil {
		return nil, err
	}

	return &dto.PendingVerificationResponse{
		Email:     email,
		ExpiresIn: int64(u.otpExpiry.Seconds()),
	}, nil
}

func (u *authUsecase) sendCode(ctx context.Context, email string, pending entity.PendingRegistration) error {
	code, err := u.otpService.Issue(ctx, email, pending)
	if err != nil {
		return err
	}
	if err := u.mailer.SendVerificationCode(ctx, email, pending.Username, code); err != nil {
		u.log.Warnf("Failed to deliver verification code: %+v", err)
		return ErrVerificationDelivery
	}
	return nil
}

// VerifyEmail consumes the code and persists the account as verified.
func (u *authUsecase) VerifyEmail(ctx context.Context, req *dto.VerifyEmailRequest) (*dto.UserResponse, error) {
	pending, err := u.otpService.Consume(ctx, req.Email, req.Code)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Username:     pending.Username,
		Email:        pending.Email,
		Role:         pending.Role,
		PasswordHash: pending.PasswordHash,
		PasswordSalt: pending.PasswordSalt,
		IsVerified:   true,
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, duplicateUserError(ctx, u.userRepo, user.Email)
		}
		u.log.Warnf("Failed to create user: %+v", err)
		return nil, err
	}

	u.auditService.LogCreate(ctx, user.ID, entity.AuditActionUserRegister, "user", user.ID, converter.UserToResponse(user))

	return converter.UserToResponse(user), nil
}

// ResendOTP issues a new code for a registration that is still waiting,
// even when the previous code already expired.
func (u *authUsecase) ResendOTP(ctx context.Context, req *dto.ResendOTPRequest) (*dto.PendingVerificationResponse, error) {
	pending, err := u.otpService.PeekPendingRegistration(ctx, req.Email)
	if err != nil {
		return nil, err
	}

	if err := u.sendCode(ctx, pending.Email, *pending); err != nil {
		return nil, err
	}

	return &dto.PendingVerificationResponse{
		Email:     pending.Email,
		ExpiresIn: int64(u.otpExpiry.Seconds()),
	}, nil
}

// Login fails closed: a lookup error, an unknown user and a wrong password
// all surface as ErrInvalidCredentials.
func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := u.userRepo.FindByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		u.log.Warnf("Failed to find user by username: %+v", err)
		return nil, ErrInvalidCredentials
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if !password.VerifyPassword(req.Password, user.PasswordHash, user.PasswordSalt) {
		return nil, ErrInvalidCredentials
	}
	if !user.IsVerified {
		return nil, ErrEmailNotVerified
	}

	accessToken, tokenID, err := u.jwtService.GenerateAccessToken(user.ID, user.Username, string(user.Role))
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, err
	}

	if err := u.sessionStore.Save(ctx, user.ID, tokenID, u.jwtService.GetAccessExpiry()); err != nil {
		u.log.Warnf("Failed to store session: %+v", err)
		return nil, err
	}

	u.auditService.LogCreate(ctx, user.ID, entity.AuditActionUserLogin, "session", tokenID, nil)

	return &dto.TokenResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int64(u.jwtService.GetAccessExpiry().Seconds()),
		User:        *converter.UserToResponse(user),
	}, nil
}

func (u *authUsecase) Logout(ctx context.Context, session *entity.Session) error {
	if session == nil {
		return ErrSessionRequired
	}

	if err := u.sessionStore.Delete(ctx, session.UserID, session.TokenID); err != nil {
		u.log.Warnf("Failed to delete session: %+v", err)
		return err
	}

	u.auditService.LogDelete(ctx, session.UserID, entity.AuditActionUserLogout, "session", session.TokenID, nil)
	return nil
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, session *entity.Session) (*dto.UserResponse, error) {
	if session == nil {
		return nil, ErrSessionRequired
	}

	user, err := u.userRepo.FindByID(ctx, session.UserID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return converter.UserToResponse(user), nil
}

// duplicateUserError tells which unique column a rejected insert collided
// with. The store only reports that some constraint failed.
func duplicateUserError(ctx context.Context, users repository.UserRepository, email string) error {
	existing, err := users.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return ErrEmailTaken
	}
	return ErrUsernameTaken
}
