package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/domain"
	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/repository"
)

func ctxWith(userID int64, roles, permissions []string) context.Context {
	claims := map[string][]string{
		ClaimRole:       roles,
		ClaimPermission: permissions,
	}
	p := NewPrincipal(userID, "tester", "tester@example.com", claims)
	return WithPrincipal(context.Background(), p)
}

func TestRequirePermissionUnauthenticated(t *testing.T) {
	a := NewAuthorizer(zerolog.Nop())
	err := a.RequirePermission(context.Background(), PermPostsCreate)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestRequirePermissionGrantedAndDenied(t *testing.T) {
	a := NewAuthorizer(zerolog.Nop())

	ctx := ctxWith(1, nil, []string{PermPostsCreate})
	assert.NoError(t, a.RequirePermission(ctx, PermPostsCreate))

	err := a.RequirePermission(ctx, PermPostsDelete)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestAdminBypassesEverything(t *testing.T) {
	a := NewAuthorizer(zerolog.Nop())
	ctx := ctxWith(1, []string{RoleAdmin}, nil)

	assert.NoError(t, a.RequirePermission(ctx, PermUsersManage))

	// Ownership check never consults the lookup for admins.
	err := a.RequireOwnership(ctx, "99", "", func(context.Context, int64) (int64, error) {
		t.Fatal("lookup must not run for admin")
		return 0, nil
	})
	assert.NoError(t, err)
}

func TestOwnershipAllowsOwner(t *testing.T) {
	a := NewAuthorizer(zerolog.Nop())
	ctx := ctxWith(7, nil, nil)

	err := a.RequireOwnership(ctx, "55", "", func(_ context.Context, id int64) (int64, error) {
		assert.Equal(t, int64(55), id)
		return 7, nil
	})
	assert.NoError(t, err)
}

func TestOwnershipDeniesNonOwner(t *testing.T) {
	a := NewAuthorizer(zerolog.Nop())
	ctx := ctxWith(7, nil, nil)

	err := a.RequireOwnership(ctx, "55", "", func(context.Context, int64) (int64, error) {
		return 8, nil
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestOwnershipOverridePermission(t *testing.T) {
	a := NewAuthorizer(zerolog.Nop())
	ctx := ctxWith(7, nil, []string{PermCommentsModerate})

	err := a.RequireOwnership(ctx, "55", PermCommentsModerate, func(context.Context, int64) (int64, error) {
		t.Fatal("lookup must not run when the override permission is held")
		return 0, nil
	})
	assert.NoError(t, err)
}

func TestOwnershipMalformedIDDenies(t *testing.T) {
	a := NewAuthorizer(zerolog.Nop())
	ctx := ctxWith(7, nil, nil)

	for _, raw := range []string{"", "abc", "12x", "9999999999999999999999"} {
		err := a.RequireOwnership(ctx, raw, "", func(context.Context, int64) (int64, error) {
			t.Fatalf("lookup must not run for malformed id %q", raw)
			return 0, nil
		})
		assert.ErrorIs(t, err, domain.ErrForbidden, "raw id %q", raw)
	}
}

func TestOwnershipMissingResourceDenies(t *testing.T) {
	a := NewAuthorizer(zerolog.Nop())
	ctx := ctxWith(7, nil, nil)

	err := a.RequireOwnership(ctx, "55", "", func(context.Context, int64) (int64, error) {
		return 0, repository.ErrNotFound
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestOwnershipStorageFailurePropagates(t *testing.T) {
	a := NewAuthorizer(zerolog.Nop())
	ctx := ctxWith(7, nil, nil)

	boom := errors.New("connection reset")
	err := a.RequireOwnership(ctx, "55", "", func(context.Context, int64) (int64, error) {
		return 0, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, domain.ErrForbidden)
}
