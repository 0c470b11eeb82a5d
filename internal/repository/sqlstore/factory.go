package sqlstore

import (
	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/repository"
)

// NewRepositories constructs all entity stores over one database handle.
func NewRepositories(db *DB) *repository.Repositories {
	return &repository.Repositories{
		User:         NewUserRepository(db),
		Post:         NewPostRepository(db),
		Category:     NewCategoryRepository(db),
		Tag:          NewTagRepository(db),
		Comment:      NewCommentRepository(db),
		Like:         NewLikeRepository(db),
		Follower:     NewFollowerRepository(db),
		SavedPost:    NewSavedPostRepository(db),
		Media:        NewMediaRepository(db),
		Permission:   NewPermissionRepository(db),
		Role:         NewRoleRepository(db),
		RoleGrant:    NewRoleGrantRepository(db),
		UserRole:     NewUserRoleRepository(db),
		UserGrant:    NewUserGrantRepository(db),
		AuditLog:     NewAuditLogRepository(db),
		Notification: NewNotificationRepository(db),
	}
}
