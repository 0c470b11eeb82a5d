package tokenstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreSaveLookupRevoke(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "tok-1", 42, time.Minute))

	userID, err := s.Lookup(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)

	require.NoError(t, s.Revoke(ctx, "tok-1"))
	_, err = s.Lookup(ctx, "tok-1")
	assert.ErrorIs(t, err, ErrTokenNotFound)

	// Revoking an unknown token is not an error.
	assert.NoError(t, s.Revoke(ctx, "never-existed"))
}

func TestMemoryStoreExpiry(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "tok-2", 7, time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	_, err := s.Lookup(ctx, "tok-2")
	assert.ErrorIs(t, err, ErrTokenNotFound)
}
