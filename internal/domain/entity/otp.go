package entity

import "time"

// PendingRegistration is an account waiting for email verification.
// The password is already salted and hashed.
type PendingRegistration struct {
	Username     string `json:"username"`
	Email        string `json:"email"`
	Role         Role   `json:"role"`
	PasswordHash string `json:"password_hash"`
	PasswordSalt string `json:"password_salt"`
}

// OTPEntry is a one-time code issued for an email address.
type OTPEntry struct {
	Code      string              `json:"code"`
	ExpiresAt time.Time           `json:"expires_at"`
	Pending   PendingRegistration `json:"pending"`
}

func (e *OTPEntry) IsExpired(now time.Time) bool {
	return now.After(e.ExpiresAt)
}
