package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/domain"
)

func testTokenManager(t *testing.T) *TokenManager {
	t.Helper()
	tm, err := NewTokenManager(TokenConfig{
		Secret:    "test-secret-at-least-32-bytes-long",
		Issuer:    "blogging-api",
		Audience:  "blogging-api-clients",
		AccessTTL: time.Minute,
	})
	require.NoError(t, err)
	return tm
}

func testUser(id int64) *domain.User {
	u := domain.NewUser("editor", "editor@example.com", "hash")
	u.ID = id
	return u
}

func TestTokenRoundTrip(t *testing.T) {
	tm := testTokenManager(t)

	signed, err := tm.Issue(testUser(42), []string{"editor"}, []string{PermPostsEdit})
	require.NoError(t, err)

	claims, err := tm.Validate(signed)
	require.NoError(t, err)

	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, "editor", claims.Name)
	assert.Equal(t, "editor@example.com", claims.Email)
	assert.Equal(t, []string{"editor"}, claims.Roles)
	assert.Equal(t, []string{PermPostsEdit}, claims.Permissions)
	assert.NotEmpty(t, claims.ID)

	p, err := claims.Principal()
	require.NoError(t, err)
	require.NotNil(t, p.UserID)
	assert.Equal(t, int64(42), *p.UserID)
	assert.True(t, p.IsAuthenticated)
	assert.True(t, p.IsInRole("editor"))
	assert.True(t, p.HasPermission(PermPostsEdit))
	assert.False(t, p.HasPermission(PermPostsDelete))
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	tm := testTokenManager(t)
	other, err := NewTokenManager(TokenConfig{
		Secret:    "a-completely-different-signing-key!!",
		Issuer:    "blogging-api",
		Audience:  "blogging-api-clients",
		AccessTTL: time.Minute,
	})
	require.NoError(t, err)

	signed, err := tm.Issue(testUser(1), nil, nil)
	require.NoError(t, err)

	_, err = other.Validate(signed)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestValidateRejectsWrongIssuerAndAudience(t *testing.T) {
	signed, err := testTokenManager(t).Issue(testUser(1), nil, nil)
	require.NoError(t, err)

	for _, cfg := range []TokenConfig{
		{Secret: "test-secret-at-least-32-bytes-long", Issuer: "other", Audience: "blogging-api-clients", AccessTTL: time.Minute},
		{Secret: "test-secret-at-least-32-bytes-long", Issuer: "blogging-api", Audience: "other", AccessTTL: time.Minute},
	} {
		other, err := NewTokenManager(cfg)
		require.NoError(t, err)
		_, err = other.Validate(signed)
		assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	}
}

func TestValidateRejectsExpiredWithoutLeeway(t *testing.T) {
	tm, err := NewTokenManager(TokenConfig{
		Secret:    "test-secret-at-least-32-bytes-long",
		Issuer:    "blogging-api",
		Audience:  "blogging-api-clients",
		AccessTTL: time.Nanosecond,
	})
	require.NoError(t, err)

	signed, err := tm.Issue(testUser(1), nil, nil)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	_, err = tm.Validate(signed)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestValidateRejectsGarbage(t *testing.T) {
	tm := testTokenManager(t)
	_, err := tm.Validate("not.a.token")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}
