// Package tokenstore persists opaque refresh tokens server-side with a TTL.
// A Redis-backed implementation serves multi-node deployments; the in-memory
// implementation covers single-node and test setups.
package tokenstore

import (
	"context"
	"errors"
	"time"
)

// ErrTokenNotFound indicates the refresh token is unknown, expired, or
// already revoked.
var ErrTokenNotFound = errors.New("refresh token not found")

// Store persists refresh tokens keyed by their opaque value.
type Store interface {
	// Save records a refresh token for a user with a TTL.
	Save(ctx context.Context, token string, userID int64, ttl time.Duration) error

	// Lookup resolves the owning user id, or ErrTokenNotFound.
	Lookup(ctx context.Context, token string) (int64, error)

	// Revoke removes a refresh token. Revoking an unknown token is not an
	// error.
	Revoke(ctx context.Context, token string) error

	// Close releases the store's resources.
	Close() error
}
