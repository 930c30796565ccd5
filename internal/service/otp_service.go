package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"clinic-booking/internal/domain/entity"
	"clinic-booking/internal/domain/repository"

	"github.com/sirupsen/logrus"
)

var (
	ErrOTPNotFound = errors.New("no verification pending for this email")
	ErrOTPExpired  = errors.New("verification code has expired")
	ErrOTPInvalid  = errors.New("invalid verification code")
)

const (
	otpMin   = 100000
	otpRange = 900000
)

// OTPService issues and checks the one-time codes that gate account
// activation. Emails are compared case-insensitively.
type OTPService interface {
	// Issue stores a fresh code for email, replacing any earlier one.
	Issue(ctx context.Context, email string, pending entity.PendingRegistration) (string, error)
	// Consume checks code and, on success, removes the entry and returns the
	// registration waiting on it. A wrong code leaves the entry in place.
	Consume(ctx context.Context, email, code string) (*entity.PendingRegistration, error)
	// PeekPendingRegistration returns the waiting registration without
	// consuming it or checking expiry.
	PeekPendingRegistration(ctx context.Context, email string) (*entity.PendingRegistration, error)
}

type otpService struct {
	log    *logrus.Logger
	store  repository.OTPStore
	expiry time.Duration
	now    func() time.Time
}

func NewOTPService(log *logrus.Logger, store repository.OTPStore, expiry time.Duration) OTPService {
	return NewOTPServiceWithClock(log, store, expiry, time.Now)
}

func NewOTPServiceWithClock(log *logrus.Logger, store repository.OTPStore, expiry time.Duration, now func() time.Time) OTPService {
	return &otpService{
		log:    log,
		store:  store,
		expiry: expiry,
		now:    now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpRange))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+otpMin), nil
}

func (s *otpService) Issue(ctx context.Context, email string, pending entity.PendingRegistration) (string, error) {
	code, err := generateCode()
	if err != nil {
		s.log.Warnf("Failed to generate verification code: %+v", err)
		return "", err
	}

	entry := &entity.OTPEntry{
		Code:      code,
		ExpiresAt: s.now().Add(s.expiry),
		Pending:   pending,
	}
	if err := s.store.Save(ctx, normalizeEmail(email), entry); err != nil {
		s.log.Warnf("Failed to store verification code: %+v", err)
		return "", err
	}
	return code, nil
}

func (s *otpService) Consume(ctx context.Context, email, code string) (*entity.PendingRegistration, error) {
	key := normalizeEmail(email)

	entry, err := s.store.Get(ctx, key)
	if err != nil {
		s.log.Warnf("Failed to read verification code: %+v", err)
		return nil, err
	}
	if entry == nil {
		return nil, ErrOTPNotFound
	}

	if entry.IsExpired(s.now()) {
		if err := s.store.Delete(ctx, key); err != nil {
			s.log.Warnf("Failed to drop expired verification code: %+v", err)
		}
		return nil, ErrOTPExpired
	}

	if subtle.ConstantTimeCompare([]byte(entry.Code), []byte(strings.TrimSpace(code))) != 1 {
		return nil, ErrOTPInvalid
	}

	consumed, err := s.store.DeleteIfCode(ctx, key, entry.Code)
	if err != nil {
		s.log.Warnf("Failed to drop used verification code: %+v", err)
		return nil, err
	}
	if !consumed {
		// Used by a concurrent request, or replaced by a resend.
		current, err := s.store.Get(ctx, key)
		if err != nil {
			s.log.Warnf("Failed to read verification code: %+v", err)
			return nil, err
		}
		if current == nil {
			return nil, ErrOTPNotFound
		}
		return nil, ErrOTPInvalid
	}
	pending := entry.Pending
	return &pending, nil
}

func (s *otpService) PeekPendingRegistration(ctx context.Context, email string) (*entity.PendingRegistration, error) {
	entry, err := s.store.Get(ctx, normalizeEmail(email))
	if err != nil {
		s.log.Warnf("Failed to read verification code: %+v", err)
		return nil, err
	}
	if entry == nil {
		return nil, ErrOTPNotFound
	}
	pending := entry.Pending
	return &pending, nil
}
