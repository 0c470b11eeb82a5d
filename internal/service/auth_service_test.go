package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/auth"
	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/domain"
	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/pkg/crypto"
	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/repository"
	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/tokenstore"
)

func testTokenManager(t *testing.T) *auth.TokenManager {
	t.Helper()
	tm, err := auth.NewTokenManager(auth.TokenConfig{
		Secret:    "test-secret-at-least-32-bytes-long!",
		Issuer:    "blog-test",
		Audience:  "blog-test",
		AccessTTL: time.Minute,
	})
	require.NoError(t, err)
	return tm
}

func emptyPermissionService() *PermissionService {
	return resolveService(nil, nil)
}

func authServiceFixture(t *testing.T, users *userRepoMock, store *tokenStoreMock) *AuthService {
	t.Helper()
	return NewAuthService(
		users,
		emptyPermissionService(),
		testTokenManager(t),
		store,
		crypto.NewBcryptHasher(4),
		time.Hour,
		zerolog.Nop(),
	)
}

func TestRegisterDuplicateUser(t *testing.T) {
	users := &userRepoMock{}
	users.add = func(_ context.Context, _ *domain.User) error {
		return repository.ErrUniqueViolation
	}

	svc := authServiceFixture(t, users, &tokenStoreMock{})

	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "password1",
	})
	assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestRegisterRejectsBadInput(t *testing.T) {
	svc := authServiceFixture(t, &userRepoMock{}, &tokenStoreMock{})

	cases := []RegisterInput{
		{Username: "ab", Email: "a@example.com", Password: "password1"},
		{Username: "alice", Email: "not-an-email", Password: "password1"},
		{Username: "alice", Email: "a@example.com", Password: "short"},
	}
	for _, input := range cases {
		_, err := svc.Register(context.Background(), input)
		assert.ErrorIs(t, err, domain.ErrValidation)
	}
}

func TestLoginUnknownUserIsInvalidCredentials(t *testing.T) {
	users := &userRepoMock{}
	users.getByUsername = func(_ context.Context, _ string) (*domain.User, error) {
		return nil, repository.ErrNotFound
	}

	svc := authServiceFixture(t, users, &tokenStoreMock{})

	_, err := svc.Login(context.Background(), "ghost", "password1")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLoginWrongPassword(t *testing.T) {
	hasher := crypto.NewBcryptHasher(4)
	hash, err := hasher.Hash("correct-password")
	require.NoError(t, err)

	user := domain.NewUser("alice", "alice@example.com", hash)
	user.ID = 1

	users := &userRepoMock{}
	users.getByUsername = func(_ context.Context, _ string) (*domain.User, error) {
		return user, nil
	}

	svc := authServiceFixture(t, users, &tokenStoreMock{})

	_, err = svc.Login(context.Background(), "alice", "wrong-password")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLoginInactiveUser(t *testing.T) {
	user := domain.NewUser("alice", "alice@example.com", "hash")
	user.ID = 1
	user.IsActive = false

	users := &userRepoMock{}
	users.getByUsername = func(_ context.Context, _ string) (*domain.User, error) {
		return user, nil
	}

	svc := authServiceFixture(t, users, &tokenStoreMock{})

	_, err := svc.Login(context.Background(), "alice", "whatever")
	assert.ErrorIs(t, err, domain.ErrUserInactive)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestLoginIssuesValidPair(t *testing.T) {
	hasher := crypto.NewBcryptHasher(4)
	hash, err := hasher.Hash("password1")
	require.NoError(t, err)

	user := domain.NewUser("alice", "alice@example.com", hash)
	user.ID = 1

	users := &userRepoMock{}
	users.getByUsername = func(_ context.Context, _ string) (*domain.User, error) {
		return user, nil
	}

	saved := map[string]int64{}
	store := &tokenStoreMock{
		save: func(_ context.Context, token string, userID int64, ttl time.Duration) error {
			saved[token] = userID
			return nil
		},
	}

	tm := testTokenManager(t)
	svc := NewAuthService(users, emptyPermissionService(), tm, store, hasher, time.Hour, zerolog.Nop())

	pair, err := svc.Login(context.Background(), "alice", "password1")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, int64(1), saved[pair.RefreshToken])

	claims, err := tm.Validate(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "1", claims.Subject)
	assert.Equal(t, "alice", claims.Name)
}

func TestRefreshUnknownTokenIsInvalidCredentials(t *testing.T) {
	store := &tokenStoreMock{
		lookup: func(_ context.Context, _ string) (int64, error) {
			return 0, tokenstore.ErrTokenNotFound
		},
	}

	svc := authServiceFixture(t, &userRepoMock{}, store)

	_, err := svc.Refresh(context.Background(), "stale-token")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestRefreshRotatesBeforeIssuing(t *testing.T) {
	user := domain.NewUser("alice", "alice@example.com", "hash")
	user.ID = 1

	users := &userRepoMock{}
	users.getByID = func(_ context.Context, id int64) (*domain.User, error) {
		require.Equal(t, int64(1), id)
		return user, nil
	}

	var order []string
	store := &tokenStoreMock{
		lookup: func(_ context.Context, token string) (int64, error) {
			require.Equal(t, "old-token", token)
			return 1, nil
		},
		revoke: func(_ context.Context, token string) error {
			require.Equal(t, "old-token", token)
			order = append(order, "revoke")
			return nil
		},
		save: func(_ context.Context, _ string, _ int64, _ time.Duration) error {
			order = append(order, "save")
			return nil
		},
	}

	svc := authServiceFixture(t, users, store)

	pair, err := svc.Refresh(context.Background(), "old-token")
	require.NoError(t, err)
	assert.NotEqual(t, "old-token", pair.RefreshToken)
	assert.Equal(t, []string{"revoke", "save"}, order)
}

func TestRefreshInactiveUserIsRejected(t *testing.T) {
	user := domain.NewUser("alice", "alice@example.com", "hash")
	user.ID = 1
	user.IsActive = false

	users := &userRepoMock{}
	users.getByID = func(_ context.Context, _ int64) (*domain.User, error) {
		return user, nil
	}
	store := &tokenStoreMock{
		lookup: func(_ context.Context, _ string) (int64, error) {
			return 1, nil
		},
	}

	svc := authServiceFixture(t, users, store)

	_, err := svc.Refresh(context.Background(), "some-token")
	assert.ErrorIs(t, err, domain.ErrUserInactive)
}

func TestLogoutRevokes(t *testing.T) {
	var revoked string
	store := &tokenStoreMock{
		revoke: func(_ context.Context, token string) error {
			revoked = token
			return nil
		},
	}

	svc := authServiceFixture(t, &userRepoMock{}, store)

	require.NoError(t, svc.Logout(context.Background(), "some-token"))
	assert.Equal(t, "some-token", revoked)
}
