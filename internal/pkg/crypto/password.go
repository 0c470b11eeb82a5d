// Package crypto provides password hashing and token material generation.
package crypto

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Password validation errors
var (
	// ErrPasswordTooLong indicates the password exceeds bcrypt's 72-byte input limit.
	ErrPasswordTooLong = errors.New("password exceeds 72 bytes")
)

// Hasher hashes and verifies passwords.
type Hasher interface {
	// Hash derives a storable hash from a plaintext password.
	Hash(password string) (string, error)

	// Verify reports whether the password matches the stored hash.
	Verify(hash, password string) bool
}

// BcryptHasher implements Hasher with bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a hasher. A cost outside bcrypt's valid range
// falls back to the library default.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

var _ Hasher = (*BcryptHasher)(nil)

// Hash derives a bcrypt hash from the password.
func (h *BcryptHasher) Hash(password string) (string, error) {
	if len(password) > 72 {
		return "", ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether the password matches the stored hash.
func (h *BcryptHasher) Verify(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
