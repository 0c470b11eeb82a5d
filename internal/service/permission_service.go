package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/auth"
	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/domain"
	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/repository"
)

// PermissionService resolves effective permission sets and administers
// roles, permissions, and grants.
type PermissionService struct {
	permissions repository.PermissionRepository
	roles       repository.RoleRepository
	roleGrants  repository.RoleGrantRepository
	userRoles   repository.UserRoleRepository
	userGrants  repository.UserGrantRepository
	logger      zerolog.Logger
}

// NewPermissionService creates a new PermissionService.
func NewPermissionService(
	repos *repository.Repositories,
	logger zerolog.Logger,
) *PermissionService {
	return &PermissionService{
		permissions: repos.Permission,
		roles:       repos.Role,
		roleGrants:  repos.RoleGrant,
		userRoles:   repos.UserRole,
		userGrants:  repos.UserGrant,
		logger:      logger.With().Str("service", "permission").Logger(),
	}
}

// ResolveOutput is the effective authorization state for a user at one
// moment, baked into tokens at issue time.
type ResolveOutput struct {
	// Roles are the user's role slugs, sorted.
	Roles []string `json:"roles"`

	// Permissions is the effective permission slug set, sorted:
	// role-derived union direct grants, minus direct revocations.
	Permissions []string `json:"permissions"`
}

// Resolve computes the user's effective permission set. Revocation has final
// precedence: a direct isGranted=false grant removes the slug even when a
// role supplies it.
func (s *PermissionService) Resolve(ctx context.Context, userID int64) (*ResolveOutput, error) {
	assignments, err := s.userRoles.List(ctx, repository.NewSpecification().
		Where("user_id", repository.OpEq, userID).
		Include("Role.Permissions"))
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to load user roles")
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}

	roleSlugs := make([]string, 0, len(assignments))
	effective := make(map[string]struct{})
	for _, ur := range assignments {
		if ur.Role == nil {
			continue
		}
		roleSlugs = append(roleSlugs, ur.Role.Slug)
		for _, p := range ur.Role.Permissions {
			effective[p.Slug] = struct{}{}
		}
	}

	grants, err := s.userGrants.List(ctx, repository.NewSpecification().
		Where("user_id", repository.OpEq, userID).
		Include("Permission"))
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to load user grants")
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}

	// Apply additions first so a revocation wins regardless of row order.
	for _, g := range grants {
		if g.IsGranted && g.Permission != nil {
			effective[g.Permission.Slug] = struct{}{}
		}
	}
	for _, g := range grants {
		if !g.IsGranted && g.Permission != nil {
			delete(effective, g.Permission.Slug)
		}
	}

	permSlugs := make([]string, 0, len(effective))
	for slug := range effective {
		permSlugs = append(permSlugs, slug)
	}
	sort.Strings(permSlugs)
	sort.Strings(roleSlugs)

	return &ResolveOutput{Roles: roleSlugs, Permissions: permSlugs}, nil
}

// =============================================================================
// Permission administration
// =============================================================================

// CreatePermissionInput contains the data needed to create a permission.
type CreatePermissionInput struct {
	Name        string
	Slug        string
	Module      string
	Description string
}

// CreatePermission registers a permission row. The slug must belong to the
// closed registry.
func (s *PermissionService) CreatePermission(ctx context.Context, input CreatePermissionInput) (*domain.Permission, error) {
	if err := auth.ValidateSlug(input.Slug); err != nil {
		return nil, err
	}
	if input.Name == "" {
		return nil, ErrEmptyName
	}

	permission := domain.NewPermission(input.Name, input.Slug, input.Module, input.Description)
	if err := s.permissions.Add(ctx, permission); err != nil {
		if errors.Is(err, repository.ErrUniqueViolation) {
			return nil, fmt.Errorf("%w: permission %s", domain.ErrConflict, input.Slug)
		}
		return nil, err
	}

	s.logger.Info().Str("slug", input.Slug).Msg("permission created")
	return permission, nil
}

// ListPermissions returns all registered permissions ordered by slug.
func (s *PermissionService) ListPermissions(ctx context.Context) ([]*domain.Permission, error) {
	return s.permissions.List(ctx, repository.NewSpecification().OrderBy("slug"))
}

// DeletePermission removes a permission. A permission that still has role or
// user grants is protected.
func (s *PermissionService) DeletePermission(ctx context.Context, id int64) error {
	permission, err := s.permissions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.ErrNotFound
		}
		return err
	}

	inRoleUse, err := s.roleGrants.Any(ctx, repository.NewSpecification().
		Where("permission_id", repository.OpEq, id))
	if err != nil {
		return err
	}
	inUserUse, err := s.userGrants.Any(ctx, repository.NewSpecification().
		Where("permission_id", repository.OpEq, id))
	if err != nil {
		return err
	}
	if inRoleUse || inUserUse {
		return domain.ErrPermissionInUse
	}

	return s.permissions.Delete(ctx, permission)
}

// =============================================================================
// Role administration
// =============================================================================

// CreateRoleInput contains the data needed to create a role.
type CreateRoleInput struct {
	Name        string
	Slug        string
	Description string
}

// CreateRole creates a role.
func (s *PermissionService) CreateRole(ctx context.Context, input CreateRoleInput) (*domain.Role, error) {
	if input.Name == "" {
		return nil, ErrEmptyName
	}
	if input.Slug == "" {
		return nil, ErrEmptySlug
	}

	role := domain.NewRole(input.Name, input.Slug, input.Description)
	if err := s.roles.Add(ctx, role); err != nil {
		if errors.Is(err, repository.ErrUniqueViolation) {
			return nil, fmt.Errorf("%w: role %s", domain.ErrConflict, input.Slug)
		}
		return nil, err
	}

	s.logger.Info().Str("slug", input.Slug).Msg("role created")
	return role, nil
}

// ListRoles returns all roles with their permissions.
func (s *PermissionService) ListRoles(ctx context.Context) ([]*domain.Role, error) {
	return s.roles.List(ctx, repository.NewSpecification().
		Include("Permissions").
		OrderBy("slug"))
}

// GetRole loads one role with its permissions.
func (s *PermissionService) GetRole(ctx context.Context, id int64) (*domain.Role, error) {
	role, err := s.roles.FirstOrDefault(ctx, repository.NewSpecification().
		Where("id", repository.OpEq, id).
		Include("Permissions"))
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, domain.ErrNotFound
	}
	return role, nil
}

// DeleteRole removes a role and, via cascade, its grants and assignments.
func (s *PermissionService) DeleteRole(ctx context.Context, id int64) error {
	role, err := s.roles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.ErrNotFound
		}
		return err
	}
	return s.roles.Delete(ctx, role)
}

// GrantPermissionToRole links a permission to a role. Granting twice is a
// no-op.
func (s *PermissionService) GrantPermissionToRole(ctx context.Context, roleID, permissionID int64) error {
	if _, err := s.roles.GetByID(ctx, roleID); err != nil {
		return mapAbsence(err)
	}
	if _, err := s.permissions.GetByID(ctx, permissionID); err != nil {
		return mapAbsence(err)
	}

	grant := &domain.RoleGrant{Entity: domain.NewEntity(), RoleID: roleID, PermissionID: permissionID}
	if err := s.roleGrants.Add(ctx, grant); err != nil {
		if errors.Is(err, repository.ErrUniqueViolation) {
			return nil
		}
		return err
	}
	return nil
}

// RevokePermissionFromRole removes a role's permission link.
func (s *PermissionService) RevokePermissionFromRole(ctx context.Context, roleID, permissionID int64) error {
	grant, err := s.roleGrants.FirstOrDefault(ctx, repository.NewSpecification().
		Where("role_id", repository.OpEq, roleID).
		Where("permission_id", repository.OpEq, permissionID))
	if err != nil {
		return err
	}
	if grant == nil {
		return domain.ErrNotFound
	}
	return s.roleGrants.Delete(ctx, grant)
}

// AssignRole gives a user a role. Assigning twice is a no-op.
func (s *PermissionService) AssignRole(ctx context.Context, userID, roleID int64) error {
	if _, err := s.roles.GetByID(ctx, roleID); err != nil {
		return mapAbsence(err)
	}

	assignment := &domain.UserRole{Entity: domain.NewEntity(), UserID: userID, RoleID: roleID}
	if err := s.userRoles.Add(ctx, assignment); err != nil {
		if errors.Is(err, repository.ErrUniqueViolation) {
			return nil
		}
		return err
	}

	s.logger.Info().Int64("user_id", userID).Int64("role_id", roleID).Msg("role assigned")
	return nil
}

// UnassignRole removes a user's role.
func (s *PermissionService) UnassignRole(ctx context.Context, userID, roleID int64) error {
	assignment, err := s.userRoles.FirstOrDefault(ctx, repository.NewSpecification().
		Where("user_id", repository.OpEq, userID).
		Where("role_id", repository.OpEq, roleID))
	if err != nil {
		return err
	}
	if assignment == nil {
		return domain.ErrNotFound
	}
	return s.userRoles.Delete(ctx, assignment)
}

// SetUserGrant records a direct grant (isGranted=true) or revocation
// (isGranted=false) for a user, replacing any previous direct entry for
// the same permission.
func (s *PermissionService) SetUserGrant(ctx context.Context, userID, permissionID int64, isGranted bool) error {
	if _, err := s.permissions.GetByID(ctx, permissionID); err != nil {
		return mapAbsence(err)
	}

	existing, err := s.userGrants.FirstOrDefault(ctx, repository.NewSpecification().
		Where("user_id", repository.OpEq, userID).
		Where("permission_id", repository.OpEq, permissionID))
	if err != nil {
		return err
	}

	if existing != nil {
		existing.IsGranted = isGranted
		return s.userGrants.Update(ctx, existing)
	}

	grant := &domain.UserGrant{
		Entity:       domain.NewEntity(),
		UserID:       userID,
		PermissionID: permissionID,
		IsGranted:    isGranted,
	}
	return s.userGrants.Add(ctx, grant)
}

// RemoveUserGrant deletes a direct grant entry, restoring the role-derived
// default for that permission.
func (s *PermissionService) RemoveUserGrant(ctx context.Context, userID, permissionID int64) error {
	existing, err := s.userGrants.FirstOrDefault(ctx, repository.NewSpecification().
		Where("user_id", repository.OpEq, userID).
		Where("permission_id", repository.OpEq, permissionID))
	if err != nil {
		return err
	}
	if existing == nil {
		return domain.ErrNotFound
	}
	return s.userGrants.Delete(ctx, existing)
}

// mapAbsence converts the repository absence sentinel to the domain one.
func mapAbsence(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return domain.ErrNotFound
	}
	return err
}
