package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/domain"
	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/repository"
)

// permissionRepository implements repository.PermissionRepository.
type permissionRepository struct {
	*store[domain.Permission]
}

var _ repository.PermissionRepository = (*permissionRepository)(nil)

func permissionMapper() mapper[domain.Permission] {
	return mapper[domain.Permission]{
		table:   "permissions",
		columns: []string{"id", "created_at", "updated_at", "name", "slug", "module", "description"},
		fields: map[string]string{
			"id":         "id",
			"created_at": "created_at",
			"name":       "name",
			"slug":       "slug",
			"module":     "module",
		},
		scan: func(row rowScanner) (*domain.Permission, error) {
			var (
				p         domain.Permission
				createdAt string
				updatedAt sql.NullString
			)
			if err := row.Scan(&p.ID, &createdAt, &updatedAt, &p.Name, &p.Slug, &p.Module, &p.Description); err != nil {
				return nil, err
			}
			p.CreatedAt = parseTime(createdAt)
			p.UpdatedAt = parseNullTime(updatedAt)
			return &p, nil
		},
		values: func(p *domain.Permission) []any {
			return []any{formatTime(p.CreatedAt), formatNullTime(p.UpdatedAt), p.Name, p.Slug, p.Module, p.Description}
		},
		id:    func(p *domain.Permission) int64 { return p.ID },
		setID: func(p *domain.Permission, id int64) { p.ID = id },
		touch: func(p *domain.Permission) { p.Touch() },
	}
}

// NewPermissionRepository creates the permissions store.
func NewPermissionRepository(db *DB) repository.PermissionRepository {
	return &permissionRepository{store: newStore(db, permissionMapper())}
}

// GetBySlug retrieves a permission by its unique slug.
func (r *permissionRepository) GetBySlug(ctx context.Context, slug string) (*domain.Permission, error) {
	permission, err := r.FirstOrDefault(ctx, repository.NewSpecification().
		Where("slug", repository.OpEq, slug))
	if err != nil {
		return nil, err
	}
	if permission == nil {
		return nil, repository.ErrNotFound
	}
	return permission, nil
}

// roleRepository implements repository.RoleRepository.
type roleRepository struct {
	*store[domain.Role]
}

var _ repository.RoleRepository = (*roleRepository)(nil)

func roleMapper() mapper[domain.Role] {
	m := mapper[domain.Role]{
		table:   "roles",
		columns: []string{"id", "created_at", "updated_at", "name", "slug", "description"},
		fields: map[string]string{
			"id":         "id",
			"created_at": "created_at",
			"name":       "name",
			"slug":       "slug",
		},
		scan: func(row rowScanner) (*domain.Role, error) {
			var (
				role      domain.Role
				createdAt string
				updatedAt sql.NullString
			)
			if err := row.Scan(&role.ID, &createdAt, &updatedAt, &role.Name, &role.Slug, &role.Description); err != nil {
				return nil, err
			}
			role.CreatedAt = parseTime(createdAt)
			role.UpdatedAt = parseNullTime(updatedAt)
			return &role, nil
		},
		values: func(role *domain.Role) []any {
			return []any{formatTime(role.CreatedAt), formatNullTime(role.UpdatedAt), role.Name, role.Slug, role.Description}
		},
		id:    func(role *domain.Role) int64 { return role.ID },
		setID: func(role *domain.Role, id int64) { role.ID = id },
		touch: func(role *domain.Role) { role.Touch() },
	}
	m.includes = map[string]includeLoader[domain.Role]{
		"Permissions":           loadRolePermissions,
		"RoleGrants.Permission": loadRolePermissions,
	}
	return m
}

// NewRoleRepository creates the roles store.
func NewRoleRepository(db *DB) repository.RoleRepository {
	return &roleRepository{store: newStore(db, roleMapper())}
}

// GetBySlug retrieves a role by its unique slug.
func (r *roleRepository) GetBySlug(ctx context.Context, slug string) (*domain.Role, error) {
	role, err := r.FirstOrDefault(ctx, repository.NewSpecification().
		Where("slug", repository.OpEq, slug))
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, repository.ErrNotFound
	}
	return role, nil
}

func loadRolePermissions(ctx context.Context, db *DB, roles []*domain.Role) error {
	ids := make([]any, len(roles))
	for i, role := range roles {
		ids[i] = role.ID
	}

	query := db.rebind(fmt.Sprintf(`
		SELECT rg.role_id, p.id, p.created_at, p.updated_at, p.name, p.slug, p.module, p.description
		FROM role_grants rg
		JOIN permissions p ON p.id = rg.permission_id
		WHERE rg.role_id IN (%s)
		ORDER BY p.slug ASC`, inPlaceholders(len(ids))))

	rows, err := db.QueryContext(ctx, query, ids...)
	if err != nil {
		return storeErr("load role permissions", err)
	}
	defer rows.Close()

	byRole := make(map[int64][]*domain.Permission)
	for rows.Next() {
		var (
			roleID    int64
			p         domain.Permission
			createdAt string
			updatedAt sql.NullString
		)
		if err := rows.Scan(&roleID, &p.ID, &createdAt, &updatedAt, &p.Name, &p.Slug, &p.Module, &p.Description); err != nil {
			return storeErr("load role permissions", err)
		}
		p.CreatedAt = parseTime(createdAt)
		p.UpdatedAt = parseNullTime(updatedAt)
		byRole[roleID] = append(byRole[roleID], &p)
	}
	if err := rows.Err(); err != nil {
		return storeErr("load role permissions", err)
	}

	for _, role := range roles {
		role.Permissions = byRole[role.ID]
	}
	return nil
}

// roleGrantRepository implements repository.RoleGrantRepository.
type roleGrantRepository struct {
	*store[domain.RoleGrant]
}

var _ repository.RoleGrantRepository = (*roleGrantRepository)(nil)

func roleGrantMapper() mapper[domain.RoleGrant] {
	m := mapper[domain.RoleGrant]{
		table:   "role_grants",
		columns: []string{"id", "created_at", "updated_at", "role_id", "permission_id"},
		fields: map[string]string{
			"id":            "id",
			"created_at":    "created_at",
			"role_id":       "role_id",
			"permission_id": "permission_id",
		},
		scan: func(row rowScanner) (*domain.RoleGrant, error) {
			var (
				rg        domain.RoleGrant
				createdAt string
				updatedAt sql.NullString
			)
			if err := row.Scan(&rg.ID, &createdAt, &updatedAt, &rg.RoleID, &rg.PermissionID); err != nil {
				return nil, err
			}
			rg.CreatedAt = parseTime(createdAt)
			rg.UpdatedAt = parseNullTime(updatedAt)
			return &rg, nil
		},
		values: func(rg *domain.RoleGrant) []any {
			return []any{formatTime(rg.CreatedAt), formatNullTime(rg.UpdatedAt), rg.RoleID, rg.PermissionID}
		},
		id:    func(rg *domain.RoleGrant) int64 { return rg.ID },
		setID: func(rg *domain.RoleGrant, id int64) { rg.ID = id },
		touch: func(rg *domain.RoleGrant) { rg.Touch() },
	}
	m.includes = map[string]includeLoader[domain.RoleGrant]{
		"Permission": func(ctx context.Context, db *DB, grants []*domain.RoleGrant) error {
			return loadGrantPermissions(ctx, db,
				len(grants),
				func(i int) int64 { return grants[i].PermissionID },
				func(i int, p *domain.Permission) { grants[i].Permission = p },
			)
		},
	}
	return m
}

// NewRoleGrantRepository creates the role_grants store.
func NewRoleGrantRepository(db *DB) repository.RoleGrantRepository {
	return &roleGrantRepository{store: newStore(db, roleGrantMapper())}
}

// loadGrantPermissions batch-loads permissions for any grant-shaped slice.
func loadGrantPermissions(
	ctx context.Context,
	db *DB,
	n int,
	key func(int) int64,
	assign func(int, *domain.Permission),
) error {
	permIDs := make(map[int64]struct{}, n)
	for i := 0; i < n; i++ {
		permIDs[key(i)] = struct{}{}
	}
	ids := make([]any, 0, len(permIDs))
	for id := range permIDs {
		ids = append(ids, id)
	}

	pm := permissionMapper()
	query := db.rebind(fmt.Sprintf(
		"SELECT %s FROM permissions WHERE id IN (%s)",
		strings.Join(pm.columns, ", "), inPlaceholders(len(ids)),
	))

	rows, err := db.QueryContext(ctx, query, ids...)
	if err != nil {
		return storeErr("load grant permissions", err)
	}
	defer rows.Close()

	perms := make(map[int64]*domain.Permission)
	for rows.Next() {
		p, err := pm.scan(rows)
		if err != nil {
			return storeErr("load grant permissions", err)
		}
		perms[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return storeErr("load grant permissions", err)
	}

	for i := 0; i < n; i++ {
		assign(i, perms[key(i)])
	}
	return nil
}

// userRoleRepository implements repository.UserRoleRepository.
type userRoleRepository struct {
	*store[domain.UserRole]
}

var _ repository.UserRoleRepository = (*userRoleRepository)(nil)

func userRoleMapper() mapper[domain.UserRole] {
	m := mapper[domain.UserRole]{
		table:   "user_roles",
		columns: []string{"id", "created_at", "updated_at", "user_id", "role_id"},
		fields: map[string]string{
			"id":         "id",
			"created_at": "created_at",
			"user_id":    "user_id",
			"role_id":    "role_id",
		},
		scan: func(row rowScanner) (*domain.UserRole, error) {
			var (
				ur        domain.UserRole
				createdAt string
				updatedAt sql.NullString
			)
			if err := row.Scan(&ur.ID, &createdAt, &updatedAt, &ur.UserID, &ur.RoleID); err != nil {
				return nil, err
			}
			ur.CreatedAt = parseTime(createdAt)
			ur.UpdatedAt = parseNullTime(updatedAt)
			return &ur, nil
		},
		values: func(ur *domain.UserRole) []any {
			return []any{formatTime(ur.CreatedAt), formatNullTime(ur.UpdatedAt), ur.UserID, ur.RoleID}
		},
		id:    func(ur *domain.UserRole) int64 { return ur.ID },
		setID: func(ur *domain.UserRole, id int64) { ur.ID = id },
		touch: func(ur *domain.UserRole) { ur.Touch() },
	}
	m.includes = map[string]includeLoader[domain.UserRole]{
		"Role":                       loadUserRoleRoles,
		"Role.Permissions":           loadUserRoleRolesWithPermissions,
		"Role.RoleGrants.Permission": loadUserRoleRolesWithPermissions,
	}
	return m
}

// NewUserRoleRepository creates the user_roles store.
func NewUserRoleRepository(db *DB) repository.UserRoleRepository {
	return &userRoleRepository{store: newStore(db, userRoleMapper())}
}

func loadUserRoleRoles(ctx context.Context, db *DB, assignments []*domain.UserRole) error {
	roleIDs := make(map[int64]struct{}, len(assignments))
	for _, ur := range assignments {
		roleIDs[ur.RoleID] = struct{}{}
	}
	ids := make([]any, 0, len(roleIDs))
	for id := range roleIDs {
		ids = append(ids, id)
	}

	rm := roleMapper()
	query := db.rebind(fmt.Sprintf(
		"SELECT %s FROM roles WHERE id IN (%s)",
		strings.Join(rm.columns, ", "), inPlaceholders(len(ids)),
	))

	rows, err := db.QueryContext(ctx, query, ids...)
	if err != nil {
		return storeErr("load user roles", err)
	}
	defer rows.Close()

	roles := make(map[int64]*domain.Role)
	for rows.Next() {
		role, err := rm.scan(rows)
		if err != nil {
			return storeErr("load user roles", err)
		}
		roles[role.ID] = role
	}
	if err := rows.Err(); err != nil {
		return storeErr("load user roles", err)
	}

	for _, ur := range assignments {
		ur.Role = roles[ur.RoleID]
	}
	return nil
}

func loadUserRoleRolesWithPermissions(ctx context.Context, db *DB, assignments []*domain.UserRole) error {
	if err := loadUserRoleRoles(ctx, db, assignments); err != nil {
		return err
	}

	seen := make(map[int64]*domain.Role)
	roles := make([]*domain.Role, 0, len(assignments))
	for _, ur := range assignments {
		if ur.Role == nil {
			continue
		}
		if _, ok := seen[ur.Role.ID]; ok {
			continue
		}
		seen[ur.Role.ID] = ur.Role
		roles = append(roles, ur.Role)
	}
	if len(roles) == 0 {
		return nil
	}
	return loadRolePermissions(ctx, db, roles)
}

// userGrantRepository implements repository.UserGrantRepository.
type userGrantRepository struct {
	*store[domain.UserGrant]
}

var _ repository.UserGrantRepository = (*userGrantRepository)(nil)

func userGrantMapper() mapper[domain.UserGrant] {
	m := mapper[domain.UserGrant]{
		table:   "user_grants",
		columns: []string{"id", "created_at", "updated_at", "user_id", "permission_id", "is_granted"},
		fields: map[string]string{
			"id":            "id",
			"created_at":    "created_at",
			"user_id":       "user_id",
			"permission_id": "permission_id",
			"is_granted":    "is_granted",
		},
		scan: func(row rowScanner) (*domain.UserGrant, error) {
			var (
				ug        domain.UserGrant
				createdAt string
				updatedAt sql.NullString
				isGranted int
			)
			if err := row.Scan(&ug.ID, &createdAt, &updatedAt, &ug.UserID, &ug.PermissionID, &isGranted); err != nil {
				return nil, err
			}
			ug.CreatedAt = parseTime(createdAt)
			ug.UpdatedAt = parseNullTime(updatedAt)
			ug.IsGranted = isGranted != 0
			return &ug, nil
		},
		values: func(ug *domain.UserGrant) []any {
			return []any{formatTime(ug.CreatedAt), formatNullTime(ug.UpdatedAt), ug.UserID, ug.PermissionID, boolToInt(ug.IsGranted)}
		},
		id:    func(ug *domain.UserGrant) int64 { return ug.ID },
		setID: func(ug *domain.UserGrant, id int64) { ug.ID = id },
		touch: func(ug *domain.UserGrant) { ug.Touch() },
	}
	m.includes = map[string]includeLoader[domain.UserGrant]{
		"Permission": func(ctx context.Context, db *DB, grants []*domain.UserGrant) error {
			return loadGrantPermissions(ctx, db,
				len(grants),
				func(i int) int64 { return grants[i].PermissionID },
				func(i int, p *domain.Permission) { grants[i].Permission = p },
			)
		},
	}
	return m
}

// NewUserGrantRepository creates the user_grants store.
func NewUserGrantRepository(db *DB) repository.UserGrantRepository {
	return &userGrantRepository{store: newStore(db, userGrantMapper())}
}
