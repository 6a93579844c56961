// Package auth provides password hashing and JWT token handling for the
// myFlix API.
//
// Passwords are hashed with bcrypt. bcrypt generates a random salt per call
// and embeds it (plus the cost) in the digest, so two users with the same
// password get different digests and no separate salt column is needed.
// The cost makes hashing deliberately slow — negligible at login, expensive
// for a brute-force attacker.
package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// defaultCost is the bcrypt work factor used in production.
// Tune so a single hash takes roughly 200-300ms on the serving hardware.
const defaultCost = 12

// ErrEmptyPassword is returned by Hash for an empty plaintext. An empty
// password is rejected before bcrypt ever sees it.
var ErrEmptyPassword = errors.New("auth: password must not be empty")

// PasswordService provides bcrypt hashing and verification.
//
// It is a struct rather than free functions so the cost can be injected:
// tests use the bcrypt minimum (cost 4) to avoid paying ~250ms per hash.
type PasswordService struct {
	cost int
}

// NewPasswordService creates a PasswordService with the production cost.
func NewPasswordService() *PasswordService {
	return &PasswordService{cost: defaultCost}
}

// NewPasswordServiceWithCost creates a PasswordService with a custom cost.
// Intended for tests; do not lower the cost in production.
func NewPasswordServiceWithCost(cost int) *PasswordService {
	return &PasswordService{cost: cost}
}

// Hash hashes the given plaintext password with bcrypt.
//
// The output is self-contained ($2a$12$<salt><hash>) and is stored directly
// in the users table. Returns ErrEmptyPassword for an empty plaintext and an
// error for plaintexts longer than 72 bytes, which bcrypt would otherwise
// silently truncate.
func (p *PasswordService) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", ErrEmptyPassword
	}
	if len(plaintext) > 72 {
		return "", fmt.Errorf("auth: password must be 72 bytes or fewer")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}

	return string(hashed), nil
}

// Verify reports whether plaintext matches the stored bcrypt digest.
//
// bcrypt.CompareHashAndPassword compares in constant time, so the result
// carries no timing signal about how close the guess was. A malformed
// digest yields false exactly like a mismatch — there is no error return,
// so callers cannot accidentally expose a distinct failure mode.
func (p *PasswordService) Verify(hash, plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
