package auth

import (
	"fmt"
	"strings"

	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/domain"
)

// Permission slugs follow "Permissions.<Module>.<Action>". The set is closed:
// a slug outside this registry is a configuration error, caught at startup.
const (
	PermPostsCreate  = "Permissions.Posts.Create"
	PermPostsEdit    = "Permissions.Posts.Edit"
	PermPostsDelete  = "Permissions.Posts.Delete"
	PermPostsPublish = "Permissions.Posts.Publish"

	PermCategoriesManage = "Permissions.Categories.Manage"
	PermTagsManage       = "Permissions.Tags.Manage"

	PermCommentsCreate   = "Permissions.Comments.Create"
	PermCommentsEdit     = "Permissions.Comments.Edit"
	PermCommentsDelete   = "Permissions.Comments.Delete"
	PermCommentsModerate = "Permissions.Comments.Moderate"

	PermMediaUpload = "Permissions.Media.Upload"
	PermMediaDelete = "Permissions.Media.Delete"

	PermUsersManage = "Permissions.Users.Manage"
	PermRolesManage = "Permissions.Roles.Manage"
)

// RoleAdmin bypasses all permission and ownership checks.
const RoleAdmin = "admin"

// Registry is the closed set of known permission slugs.
var Registry = map[string]struct{}{
	PermPostsCreate:      {},
	PermPostsEdit:        {},
	PermPostsDelete:      {},
	PermPostsPublish:     {},
	PermCategoriesManage: {},
	PermTagsManage:       {},
	PermCommentsCreate:   {},
	PermCommentsEdit:     {},
	PermCommentsDelete:   {},
	PermCommentsModerate: {},
	PermMediaUpload:      {},
	PermMediaDelete:      {},
	PermUsersManage:      {},
	PermRolesManage:      {},
}

// KnownPermission reports whether the slug is in the registry.
func KnownPermission(slug string) bool {
	_, ok := Registry[slug]
	return ok
}

// ValidateSlug checks a slug's shape and registry membership. Used when
// creating permissions and when wiring route guards at startup.
func ValidateSlug(slug string) error {
	parts := strings.Split(slug, ".")
	if len(parts) != 3 || parts[0] != "Permissions" || parts[1] == "" || parts[2] == "" {
		return fmt.Errorf("%w: malformed permission slug %q", domain.ErrValidation, slug)
	}
	if !KnownPermission(slug) {
		return fmt.Errorf("%w: %q", domain.ErrUnknownPermission, slug)
	}
	return nil
}

// ValidateRegistry asserts every slug in the registry is well formed. Called
// once at startup so a bad constant fails fast.
func ValidateRegistry() error {
	for slug := range Registry {
		parts := strings.Split(slug, ".")
		if len(parts) != 3 || parts[0] != "Permissions" {
			return fmt.Errorf("invalid registry slug %q", slug)
		}
	}
	return nil
}
