// Package password derives and verifies salted password digests.
//
// The digest and its salt are stored side by side on the user row, so both
// values are returned as base64 strings.
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/argon2"
)

const (
	saltLength = 16

	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
)

// GenerateSalt returns a fresh random salt encoded as base64.
func GenerateSalt() (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	return base64.StdEncoding.EncodeToString(salt), nil
}

// HashPassword computes the argon2id digest of password with salt.
// The result is deterministic for a given (password, salt) pair.
func HashPassword(password, salt string) string {
	key := argon2.IDKey([]byte(password), []byte(salt), argonTime, argonMemory, argonThreads, argonKeyLen)
	return base64.StdEncoding.EncodeToString(key)
}

// VerifyPassword reports whether candidate hashes to storedHash under salt.
func VerifyPassword(candidate, storedHash, salt string) bool {
	if storedHash == "" || salt == "" {
		return false
	}
	computed := HashPassword(candidate, salt)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(storedHash)) == 1
}
