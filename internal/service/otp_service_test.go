package service

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"clinic-booking/internal/domain/entity"
	"clinic-booking/internal/infrastructure/otpstore"

	"github.com/sirupsen/logrus"
)

func discardLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func newTestOTPService() (OTPService, *fakeClock) {
	clock := &fakeClock{now: time.Date(2030, 1, 1, 9, 0, 0, 0, time.UTC)}
	svc := NewOTPServiceWithClock(discardLogger(), otpstore.NewMemoryStoreWithClock(clock.Now), 5*time.Minute, clock.Now)
	return svc, clock
}

func TestOTPIssueFormat(t *testing.T) {
	svc, _ := newTestOTPService()

	for i := 0; i < 50; i++ {
		code, err := svc.Issue(context.Background(), "jane@example.com", entity.PendingRegistration{})
		if err != nil {
			t.Fatalf("Issue: %v", err)
		}
		if len(code) != 6 || code[0] == '0' {
			t.Fatalf("code %q is not a 6-digit number in [100000, 999999]", code)
		}
		for _, r := range code {
			if r < '0' || r > '9' {
				t.Fatalf("code %q has non-digit", code)
			}
		}
	}
}

func TestOTPConsumeOnce(t *testing.T) {
	svc, _ := newTestOTPService()
	ctx := context.Background()

	code, _ := svc.Issue(ctx, "jane@example.com", entity.PendingRegistration{Username: "jane"})

	pending, err := svc.Consume(ctx, "JANE@example.com", code)
	if err != nil {
		t.Fatalf("Consume: %v", err)
	}
	if pending.Username != "jane" {
		t.Errorf("Username = %q", pending.Username)
	}

	if _, err := svc.Consume(ctx, "jane@example.com", code); !errors.Is(err, ErrOTPNotFound) {
		t.Fatalf("second Consume err = %v, want ErrOTPNotFound", err)
	}
}

func TestOTPMismatchKeepsEntry(t *testing.T) {
	svc, _ := newTestOTPService()
	ctx := context.Background()

	code, _ := svc.Issue(ctx, "jane@example.com", entity.PendingRegistration{Username: "jane"})
	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}

	if _, err := svc.Consume(ctx, "jane@example.com", wrong); !errors.Is(err, ErrOTPInvalid) {
		t.Fatalf("err = %v, want ErrOTPInvalid", err)
	}
	if _, err := svc.Consume(ctx, "jane@example.com", code); err != nil {
		t.Fatalf("correct code after mismatch: %v", err)
	}
}

func TestOTPExpiredIsRemoved(t *testing.T) {
	svc, clock := newTestOTPService()
	ctx := context.Background()

	code, _ := svc.Issue(ctx, "jane@example.com", entity.PendingRegistration{})
	clock.now = clock.now.Add(5*time.Minute + time.Second)

	if _, err := svc.Consume(ctx, "jane@example.com", code); !errors.Is(err, ErrOTPExpired) {
		t.Fatalf("err = %v, want ErrOTPExpired", err)
	}
	if _, err := svc.Consume(ctx, "jane@example.com", code); !errors.Is(err, ErrOTPNotFound) {
		t.Fatalf("err = %v, want ErrOTPNotFound after expiry", err)
	}
}

func TestOTPValidAtExpiryBoundary(t *testing.T) {
	svc, clock := newTestOTPService()
	ctx := context.Background()

	code, _ := svc.Issue(ctx, "jane@example.com", entity.PendingRegistration{})
	clock.now = clock.now.Add(5 * time.Minute)

	if _, err := svc.Consume(ctx, "jane@example.com", code); err != nil {
		t.Fatalf("Consume at expiry instant: %v", err)
	}
}

func TestOTPPeekDoesNotConsume(t *testing.T) {
	svc, clock := newTestOTPService()
	ctx := context.Background()

	code, _ := svc.Issue(ctx, "jane@example.com", entity.PendingRegistration{Username: "jane"})

	// Peek ignores expiry so a resend works after the code lapsed.
	clock.now = clock.now.Add(time.Hour)
	pending, err := svc.PeekPendingRegistration(ctx, "jane@example.com")
	if err != nil {
		t.Fatalf("Peek: %v", err)
	}
	if pending.Username != "jane" {
		t.Errorf("Username = %q", pending.Username)
	}

	clock.now = clock.now.Add(-time.Hour)
	if _, err := svc.Consume(ctx, "jane@example.com", code); err != nil {
		t.Fatalf("Consume after Peek: %v", err)
	}
}

func TestOTPPeekMissing(t *testing.T) {
	svc, _ := newTestOTPService()
	if _, err := svc.PeekPendingRegistration(context.Background(), "nobody@example.com"); !errors.Is(err, ErrOTPNotFound) {
		t.Fatalf("err = %v, want ErrOTPNotFound", err)
	}
}

func TestOTPReissueReplacesCode(t *testing.T) {
	svc, _ := newTestOTPService()
	ctx := context.Background()

	first, _ := svc.Issue(ctx, "jane@example.com", entity.PendingRegistration{})
	second, _ := svc.Issue(ctx, "jane@example.com", entity.PendingRegistration{})
	if first == second {
		t.Skip("random codes collided")
	}

	if _, err := svc.Consume(ctx, "jane@example.com", first); !errors.Is(err, ErrOTPInvalid) {
		t.Fatalf("old code err = %v, want ErrOTPInvalid", err)
	}
	if _, err := svc.Consume(ctx, "jane@example.com", second); err != nil {
		t.Fatalf("new code: %v", err)
	}
}

func TestOTPConcurrentConsumeSucceedsOnce(t *testing.T) {
	svc, _ := newTestOTPService()
	ctx := context.Background()
	code, _ := svc.Issue(ctx, "jane@example.com", entity.PendingRegistration{Username: "jane"})

	const workers = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	start := make(chan struct{})
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := svc.Consume(ctx, "jane@example.com", code)
			if err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
				return
			}
			if !errors.Is(err, ErrOTPNotFound) {
				t.Errorf("Consume err = %v, want ErrOTPNotFound", err)
			}
		}()
	}
	close(start)
	wg.Wait()

	if successes != 1 {
		t.Fatalf("successful consumes = %d, want 1", successes)
	}
}

func TestOTPPeekAfterExpiryWithinRetention(t *testing.T) {
	svc, clock := newTestOTPService()
	ctx := context.Background()
	svc.Issue(ctx, "jane@example.com", entity.PendingRegistration{Username: "jane"})

	clock.now = clock.now.Add(time.Hour)
	pending, err := svc.PeekPendingRegistration(ctx, "jane@example.com")
	if err != nil || pending.Username != "jane" {
		t.Fatalf("Peek an hour after expiry = %+v, %v", pending, err)
	}

	clock.now = clock.now.Add(otpstore.Retention)
	if _, err := svc.PeekPendingRegistration(ctx, "jane@example.com"); !errors.Is(err, ErrOTPNotFound) {
		t.Fatalf("Peek past retention err = %v, want ErrOTPNotFound", err)
	}
}
