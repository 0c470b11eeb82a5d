package domain

// Permission is a named capability identified by a stable dotted slug of the
// form "Permissions.<Module>.<Action>". Slugs are embedded in tokens as
// claim values and must not change across releases.
type Permission struct {
	Entity

	// Name is the human-readable name.
	Name string `json:"name"`

	// Slug is the unique policy key, e.g. "Permissions.Posts.Edit".
	Slug string `json:"slug"`

	// Module is the grouping tag, e.g. "Posts".
	Module string `json:"module"`

	// Description explains what the permission allows.
	Description string `json:"description,omitempty"`
}

// NewPermission creates a Permission.
func NewPermission(name, slug, module, description string) *Permission {
	return &Permission{
		Entity:      NewEntity(),
		Name:        name,
		Slug:        slug,
		Module:      module,
		Description: description,
	}
}

// Role is a named set of permissions granted to member users.
type Role struct {
	Entity

	// Name is the human-readable name.
	Name string `json:"name"`

	// Slug is the unique role key, e.g. "admin", "editor".
	Slug string `json:"slug"`

	// Description explains the role's purpose.
	Description string `json:"description,omitempty"`

	// Permissions are eager-loaded via include "RoleGrants.Permission".
	Permissions []*Permission `json:"permissions,omitempty"`
}

// NewRole creates a Role.
func NewRole(name, slug, description string) *Role {
	return &Role{
		Entity:      NewEntity(),
		Name:        name,
		Slug:        slug,
		Description: description,
	}
}

// RoleGrant links a permission to a role (many-to-many).
type RoleGrant struct {
	Entity

	RoleID       int64 `json:"role_id"`
	PermissionID int64 `json:"permission_id"`

	// Permission is eager-loaded via include "Permission".
	Permission *Permission `json:"permission,omitempty"`
}

// UserRole links a user to a role (many-to-many).
type UserRole struct {
	Entity

	UserID int64 `json:"user_id"`
	RoleID int64 `json:"role_id"`

	// Role is eager-loaded via include "Role".
	Role *Role `json:"role,omitempty"`
}

// UserGrant is a direct per-user permission assignment. IsGranted=false is an
// explicit revocation that overrides any role-derived grant; IsGranted=true
// adds a permission no role confers. Revocation has final precedence when the
// effective set is resolved at token issuance.
type UserGrant struct {
	Entity

	UserID       int64 `json:"user_id"`
	PermissionID int64 `json:"permission_id"`
	IsGranted    bool  `json:"is_granted"`

	// Permission is eager-loaded via include "Permission".
	Permission *Permission `json:"permission,omitempty"`
}
