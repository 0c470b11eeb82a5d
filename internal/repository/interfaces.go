package repository

import (
	"context"

	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/domain"
)

// Repository is the generic data-access contract, parametrized by entity
// type. A Specification describes what to fetch; the repository translates
// it and owns no business logic.
//
// Absence semantics: GetByID returns ErrNotFound when the row is missing;
// FirstOrDefault returns (nil, nil); List returns an empty slice. Store
// failures surface wrapped in domain.ErrStorageUnavailable; uniqueness
// violations as ErrUniqueViolation.
type Repository[T any] interface {
	// GetByID retrieves an entity by primary key.
	GetByID(ctx context.Context, id int64) (*T, error)

	// List executes the specification: criteria, then includes, then
	// ordering, then paging. Empty result is not an error.
	List(ctx context.Context, spec *Specification) ([]*T, error)

	// FirstOrDefault returns the first match by the specification's order,
	// or (nil, nil) when nothing matches.
	FirstOrDefault(ctx context.Context, spec *Specification) (*T, error)

	// Count counts rows matching the criteria only. Paging, ordering, and
	// includes on the specification are ignored.
	Count(ctx context.Context, spec *Specification) (int64, error)

	// Any reports whether at least one row matches the criteria.
	Any(ctx context.Context, spec *Specification) (bool, error)

	// Add persists a new entity and assigns its ID. The entity's pending
	// domain events are left untouched; dispatch is the caller's job.
	Add(ctx context.Context, entity *T) error

	// Update persists the entity's current field values and stamps UpdatedAt.
	Update(ctx context.Context, entity *T) error

	// Delete removes the entity. Callers must snapshot the entity's domain
	// events before calling; the entity is gone afterward.
	Delete(ctx context.Context, entity *T) error
}

// UserRepository adds user-specific lookups to the generic contract.
type UserRepository interface {
	Repository[domain.User]

	// GetByUsername retrieves a user by unique username.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// GetByEmail retrieves a user by unique email.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// PostRepository adds post-specific lookups.
type PostRepository interface {
	Repository[domain.Post]

	// GetBySlug retrieves a post by unique slug.
	GetBySlug(ctx context.Context, slug string) (*domain.Post, error)

	// ReplaceCategories rewrites the post's category joins.
	ReplaceCategories(ctx context.Context, postID int64, categoryIDs []int64) error

	// ReplaceTags rewrites the post's tag joins.
	ReplaceTags(ctx context.Context, postID int64, tagIDs []int64) error

	// IncrementViews bumps the denormalized view counter.
	IncrementViews(ctx context.Context, postID int64) error
}

// CategoryRepository manages categories.
type CategoryRepository interface {
	Repository[domain.Category]

	// GetBySlug retrieves a category by unique slug.
	GetBySlug(ctx context.Context, slug string) (*domain.Category, error)
}

// TagRepository manages tags.
type TagRepository interface {
	Repository[domain.Tag]

	// GetBySlug retrieves a tag by unique slug.
	GetBySlug(ctx context.Context, slug string) (*domain.Tag, error)
}

// CommentRepository manages comments.
type CommentRepository interface {
	Repository[domain.Comment]
}

// LikeRepository manages likes.
type LikeRepository interface {
	Repository[domain.Like]
}

// FollowerRepository manages follow relationships.
type FollowerRepository interface {
	Repository[domain.Follower]
}

// SavedPostRepository manages bookmarks.
type SavedPostRepository interface {
	Repository[domain.SavedPost]
}

// MediaRepository manages uploaded media rows.
type MediaRepository interface {
	Repository[domain.Media]
}

// PermissionRepository manages permissions.
type PermissionRepository interface {
	Repository[domain.Permission]

	// GetBySlug retrieves a permission by unique slug.
	GetBySlug(ctx context.Context, slug string) (*domain.Permission, error)
}

// RoleRepository manages roles and their grant joins.
type RoleRepository interface {
	Repository[domain.Role]

	// GetBySlug retrieves a role by unique slug.
	GetBySlug(ctx context.Context, slug string) (*domain.Role, error)
}

// RoleGrantRepository manages role-to-permission joins.
type RoleGrantRepository interface {
	Repository[domain.RoleGrant]
}

// UserRoleRepository manages user-to-role joins.
type UserRoleRepository interface {
	Repository[domain.UserRole]
}

// UserGrantRepository manages direct per-user permission grants.
type UserGrantRepository interface {
	Repository[domain.UserGrant]
}

// AuditLogRepository persists audit entries.
type AuditLogRepository interface {
	Repository[domain.AuditLog]
}

// NotificationRepository persists notification inbox rows.
type NotificationRepository interface {
	Repository[domain.Notification]
}

// Repositories holds all repository instances.
type Repositories struct {
	User         UserRepository
	Post         PostRepository
	Category     CategoryRepository
	Tag          TagRepository
	Comment      CommentRepository
	Like         LikeRepository
	Follower     FollowerRepository
	SavedPost    SavedPostRepository
	Media        MediaRepository
	Permission   PermissionRepository
	Role         RoleRepository
	RoleGrant    RoleGrantRepository
	UserRole     UserRoleRepository
	UserGrant    UserGrantRepository
	AuditLog     AuditLogRepository
	Notification NotificationRepository
}

// DatabaseHealth is an interface for database health checks.
type DatabaseHealth interface {
	Ping(ctx context.Context) error
	Health(ctx context.Context) error
	Close() error
}
