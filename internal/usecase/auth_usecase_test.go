package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"clinic-booking/config"
	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/domain/entity"
	"clinic-booking/internal/domain/repository"
	"clinic-booking/internal/infrastructure/otpstore"
	"clinic-booking/internal/infrastructure/session"
	"clinic-booking/internal/service"
	"clinic-booking/pkg/jwt"
	"clinic-booking/pkg/password"
)

type authFixture struct {
	uc         AuthUsecase
	users      *mockUserRepo
	mailer     *capturingMailer
	sessions   repository.SessionStore
	jwtService *jwt.JWTService
}

func newAuthFixture() *authFixture {
	log := discardLogger()
	users := newMockUserRepo()
	mailer := newCapturingMailer()
	sessions := session.NewMemoryStore()
	otp := service.NewOTPService(log, otpstore.NewMemoryStore(), 5*time.Minute)
	jwtService := jwt.NewJWTService(config.JWTConfig{Secret: "test-secret", AccessExpiry: time.Hour})

	return &authFixture{
		uc:         NewAuthUsecase(log, users, sessions, otp, mailer, &nopAuditService{}, jwtService, 5*time.Minute),
		users:      users,
		mailer:     mailer,
		sessions:   sessions,
		jwtService: jwtService,
	}
}

func registerRequest() *dto.RegisterRequest {
	return &dto.RegisterRequest{
		Username:        "jane",
		Email:           "Jane@Example.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
	}
}

func TestRegisterVerifyLogin(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	pending, err := f.uc.Register(ctx, registerRequest())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if pending.Email != "jane@example.com" || pending.ExpiresIn != 300 {
		t.Errorf("pending = %+v", pending)
	}

	// Nothing is stored before verification.
	if u, _ := f.users.FindByUsername(ctx, "jane"); u != nil {
		t.Fatal("user persisted before verification")
	}

	code := f.mailer.codes["jane@example.com"]
	if len(code) != 6 {
		t.Fatalf("code = %q", code)
	}

	user, err := f.uc.VerifyEmail(ctx, &dto.VerifyEmailRequest{Email: "jane@example.com", Code: code})
	if err != nil {
		t.Fatalf("VerifyEmail: %v", err)
	}
	if !user.IsVerified || user.Role != string(entity.RolePatient) {
		t.Errorf("user = %+v", user)
	}

	stored, _ := f.users.FindByUsername(ctx, "jane")
	if stored.PasswordHash == "secret1" || stored.PasswordSalt == "" {
		t.Fatal("password stored in plaintext or without salt")
	}
	if !password.VerifyPassword("secret1", stored.PasswordHash, stored.PasswordSalt) {
		t.Fatal("stored digest does not verify")
	}

	if _, err := f.uc.VerifyEmail(ctx, &dto.VerifyEmailRequest{Email: "jane@example.com", Code: code}); !errors.Is(err, service.ErrOTPNotFound) {
		t.Errorf("second VerifyEmail err = %v, want ErrOTPNotFound", err)
	}

	tokens, err := f.uc.Login(ctx, &dto.LoginRequest{Username: "jane", Password: "secret1"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	claims, err := f.jwtService.ValidateToken(tokens.AccessToken)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if ok, _ := f.sessions.Exists(ctx, claims.UserID, claims.TokenID); !ok {
		t.Fatal("session not stored")
	}

	s := &entity.Session{UserID: claims.UserID, TokenID: claims.TokenID, Role: entity.ParseRole(claims.Role)}
	me, err := f.uc.GetCurrentUser(ctx, s)
	if err != nil || me.Username != "jane" {
		t.Fatalf("GetCurrentUser = %+v, %v", me, err)
	}

	if err := f.uc.Logout(ctx, s); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if ok, _ := f.sessions.Exists(ctx, claims.UserID, claims.TokenID); ok {
		t.Fatal("session still valid after logout")
	}
}

func TestRegisterRejectsTakenUsernameAndEmail(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	f.users.Create(ctx, &entity.User{Username: "jane", Email: "other@example.com"})

	if _, err := f.uc.Register(ctx, registerRequest()); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("err = %v, want ErrUsernameTaken", err)
	}

	req := registerRequest()
	req.Username = "jane2"
	req.Email = "other@example.com"
	if _, err := f.uc.Register(ctx, req); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("err = %v, want ErrEmailTaken", err)
	}
}

// Accounts created while a code is pending collide only at insert time.
func TestVerifyReportsWhichFieldCollided(t *testing.T) {
	tests := []struct {
		name     string
		existing entity.User
		want     error
	}{
		{"email", entity.User{Username: "someone-else", Email: "jane@example.com"}, ErrEmailTaken},
		{"username", entity.User{Username: "jane", Email: "other@example.com"}, ErrUsernameTaken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture()
			ctx := context.Background()

			if _, err := f.uc.Register(ctx, registerRequest()); err != nil {
				t.Fatalf("Register: %v", err)
			}
			existing := tt.existing
			f.users.Create(ctx, &existing)

			_, err := f.uc.VerifyEmail(ctx, &dto.VerifyEmailRequest{Email: "jane@example.com", Code: f.mailer.codes["jane@example.com"]})
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRegisterCannotSelfAssignAdmin(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	req := registerRequest()
	req.Role = "admin"
	if _, err := f.uc.Register(ctx, req); err != nil {
		t.Fatalf("Register: %v", err)
	}
	user, err := f.uc.VerifyEmail(ctx, &dto.VerifyEmailRequest{Email: "jane@example.com", Code: f.mailer.codes["jane@example.com"]})
	if err != nil {
		t.Fatalf("VerifyEmail: %v", err)
	}
	if user.Role != string(entity.RolePatient) {
		t.Errorf("Role = %q, want patient", user.Role)
	}
}

func TestResendIssuesNewCode(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	if _, err := f.uc.Register(ctx, registerRequest()); err != nil {
		t.Fatalf("Register: %v", err)
	}
	first := f.mailer.codes["jane@example.com"]

	if _, err := f.uc.ResendOTP(ctx, &dto.ResendOTPRequest{Email: "jane@example.com"}); err != nil {
		t.Fatalf("ResendOTP: %v", err)
	}
	second := f.mailer.codes["jane@example.com"]

	if _, err := f.uc.VerifyEmail(ctx, &dto.VerifyEmailRequest{Email: "jane@example.com", Code: second}); err != nil {
		t.Fatalf("VerifyEmail with resent code (first %s, second %s): %v", first, second, err)
	}

	if _, err := f.uc.ResendOTP(ctx, &dto.ResendOTPRequest{Email: "nobody@example.com"}); !errors.Is(err, service.ErrOTPNotFound) {
		t.Errorf("resend for unknown email err = %v", err)
	}
}

func TestRegisterDeliveryFailure(t *testing.T) {
	f := newAuthFixture()
	f.mailer.err = errors.New("smtp down")

	if _, err := f.uc.Register(context.Background(), registerRequest()); !errors.Is(err, ErrVerificationDelivery) {
		t.Fatalf("err = %v, want ErrVerificationDelivery", err)
	}
}

func TestLoginFailsClosed(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	salt, _ := password.GenerateSalt()
	f.users.Create(ctx, &entity.User{
		Username:     "jane",
		Email:        "jane@example.com",
		Role:         entity.RolePatient,
		PasswordHash: password.HashPassword("secret1", salt),
		PasswordSalt: salt,
		IsVerified:   true,
	})
	f.users.Create(ctx, &entity.User{
		Username:     "pending",
		Email:        "pending@example.com",
		PasswordHash: password.HashPassword("secret1", salt),
		PasswordSalt: salt,
	})

	tests := []struct {
		name     string
		username string
		password string
		want     error
	}{
		{"wrong password", "jane", "secret2", ErrInvalidCredentials},
		{"unknown user", "ghost", "secret1", ErrInvalidCredentials},
		{"unverified", "pending", "secret1", ErrEmailNotVerified},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.uc.Login(ctx, &dto.LoginRequest{Username: tt.username, Password: tt.password}); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}

	f.users.err = errors.New("backend unreachable")
	if _, err := f.uc.Login(ctx, &dto.LoginRequest{Username: "jane", Password: "secret1"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("backend failure err = %v, want ErrInvalidCredentials", err)
	}
}
