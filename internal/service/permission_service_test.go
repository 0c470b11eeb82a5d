package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/auth"
	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/domain"
	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/repository"
)

func permissionFixture(slug string) *domain.Permission {
	p := &domain.Permission{Entity: domain.NewEntity(), Slug: slug}
	p.ID = int64(len(slug)) // distinct enough for resolution tests
	return p
}

func resolveService(
	userRoles []*domain.UserRole,
	userGrants []*domain.UserGrant,
) *PermissionService {
	repos := &repository.Repositories{
		UserRole: &repoMock[domain.UserRole]{
			list: func(_ context.Context, _ *repository.Specification) ([]*domain.UserRole, error) {
				return userRoles, nil
			},
		},
		UserGrant: &repoMock[domain.UserGrant]{
			list: func(_ context.Context, _ *repository.Specification) ([]*domain.UserGrant, error) {
				return userGrants, nil
			},
		},
	}
	return NewPermissionService(repos, zerolog.Nop())
}

func TestResolveUnionsRolePermissions(t *testing.T) {
	editor := &domain.Role{
		Entity: domain.NewEntity(),
		Slug:   "editor",
		Permissions: []*domain.Permission{
			permissionFixture(auth.PermPostsCreate),
			permissionFixture(auth.PermPostsEdit),
		},
	}
	moderator := &domain.Role{
		Entity: domain.NewEntity(),
		Slug:   "moderator",
		Permissions: []*domain.Permission{
			permissionFixture(auth.PermPostsEdit),
			permissionFixture(auth.PermCommentsModerate),
		},
	}

	svc := resolveService([]*domain.UserRole{
		{Entity: domain.NewEntity(), Role: editor},
		{Entity: domain.NewEntity(), Role: moderator},
	}, nil)

	out, err := svc.Resolve(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"editor", "moderator"}, out.Roles)
	assert.Equal(t, []string{
		auth.PermCommentsModerate,
		auth.PermPostsCreate,
		auth.PermPostsEdit,
	}, out.Permissions)
}

func TestResolveDirectGrantAddsToRoleSet(t *testing.T) {
	editor := &domain.Role{
		Entity:      domain.NewEntity(),
		Slug:        "editor",
		Permissions: []*domain.Permission{permissionFixture(auth.PermPostsEdit)},
	}

	svc := resolveService(
		[]*domain.UserRole{{Entity: domain.NewEntity(), Role: editor}},
		[]*domain.UserGrant{
			{Entity: domain.NewEntity(), IsGranted: true, Permission: permissionFixture(auth.PermMediaUpload)},
		},
	)

	out, err := svc.Resolve(context.Background(), 1)
	require.NoError(t, err)
	assert.Contains(t, out.Permissions, auth.PermPostsEdit)
	assert.Contains(t, out.Permissions, auth.PermMediaUpload)
}

func TestResolveRevocationWinsOverRoleGrant(t *testing.T) {
	editor := &domain.Role{
		Entity: domain.NewEntity(),
		Slug:   "editor",
		Permissions: []*domain.Permission{
			permissionFixture(auth.PermPostsEdit),
			permissionFixture(auth.PermPostsDelete),
		},
	}

	// Revocation row listed before an unrelated addition: row order must not
	// matter, the revoked slug stays out.
	svc := resolveService(
		[]*domain.UserRole{{Entity: domain.NewEntity(), Role: editor}},
		[]*domain.UserGrant{
			{Entity: domain.NewEntity(), IsGranted: false, Permission: permissionFixture(auth.PermPostsDelete)},
			{Entity: domain.NewEntity(), IsGranted: true, Permission: permissionFixture(auth.PermPostsDelete)},
		},
	)

	out, err := svc.Resolve(context.Background(), 1)
	require.NoError(t, err)
	assert.Contains(t, out.Permissions, auth.PermPostsEdit)
	assert.NotContains(t, out.Permissions, auth.PermPostsDelete)
}

func TestResolveNoRolesNoGrants(t *testing.T) {
	svc := resolveService(nil, nil)

	out, err := svc.Resolve(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, out.Roles)
	assert.Empty(t, out.Permissions)
}

func TestDeletePermissionInUseIsRejected(t *testing.T) {
	perm := permissionFixture(auth.PermPostsEdit)

	repos := &repository.Repositories{
		Permission: &repoMock[domain.Permission]{
			getByID: func(_ context.Context, _ int64) (*domain.Permission, error) {
				return perm, nil
			},
		},
		RoleGrant: &repoMock[domain.RoleGrant]{
			exists: func(_ context.Context, _ *repository.Specification) (bool, error) {
				return true, nil
			},
		},
		UserGrant: &repoMock[domain.UserGrant]{
			exists: func(_ context.Context, _ *repository.Specification) (bool, error) {
				return false, nil
			},
		},
	}
	svc := NewPermissionService(repos, zerolog.Nop())

	err := svc.DeletePermission(context.Background(), perm.ID)
	assert.ErrorIs(t, err, domain.ErrPermissionInUse)
}

func TestCreatePermissionRejectsUnknownSlug(t *testing.T) {
	svc := NewPermissionService(&repository.Repositories{}, zerolog.Nop())

	_, err := svc.CreatePermission(context.Background(), CreatePermissionInput{
		Name: "Fly",
		Slug: "Permissions.Posts.Fly",
	})
	assert.ErrorIs(t, err, domain.ErrUnknownPermission)
}
