package sqlstore

import (
	"database/sql"

	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/domain"
	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/repository"
)

// auditLogRepository implements repository.AuditLogRepository.
type auditLogRepository struct {
	*store[domain.AuditLog]
}

var _ repository.AuditLogRepository = (*auditLogRepository)(nil)

func auditLogMapper() mapper[domain.AuditLog] {
	return mapper[domain.AuditLog]{
		table: "audit_logs",
		columns: []string{
			"id", "created_at", "updated_at",
			"actor_id", "action", "target_type", "target_id", "detail",
		},
		fields: map[string]string{
			"id":          "id",
			"created_at":  "created_at",
			"actor_id":    "actor_id",
			"action":      "action",
			"target_type": "target_type",
			"target_id":   "target_id",
		},
		scan: func(row rowScanner) (*domain.AuditLog, error) {
			var (
				a         domain.AuditLog
				createdAt string
				updatedAt sql.NullString
			)
			err := row.Scan(
				&a.ID, &createdAt, &updatedAt,
				&a.ActorID, &a.Action, &a.TargetType, &a.TargetID, &a.Detail,
			)
			if err != nil {
				return nil, err
			}
			a.CreatedAt = parseTime(createdAt)
			a.UpdatedAt = parseNullTime(updatedAt)
			return &a, nil
		},
		values: func(a *domain.AuditLog) []any {
			return []any{
				formatTime(a.CreatedAt), formatNullTime(a.UpdatedAt),
				a.ActorID, a.Action, a.TargetType, a.TargetID, a.Detail,
			}
		},
		id:    func(a *domain.AuditLog) int64 { return a.ID },
		setID: func(a *domain.AuditLog, id int64) { a.ID = id },
		touch: func(a *domain.AuditLog) { a.Touch() },
	}
}

// NewAuditLogRepository creates the audit_logs store.
func NewAuditLogRepository(db *DB) repository.AuditLogRepository {
	return &auditLogRepository{store: newStore(db, auditLogMapper())}
}

// notificationRepository implements repository.NotificationRepository.
type notificationRepository struct {
	*store[domain.Notification]
}

var _ repository.NotificationRepository = (*notificationRepository)(nil)

func notificationMapper() mapper[domain.Notification] {
	return mapper[domain.Notification]{
		table: "notifications",
		columns: []string{
			"id", "created_at", "updated_at",
			"user_id", "actor_id", "kind", "target_type", "target_id", "read",
		},
		fields: map[string]string{
			"id":          "id",
			"created_at":  "created_at",
			"user_id":     "user_id",
			"actor_id":    "actor_id",
			"kind":        "kind",
			"target_type": "target_type",
			"target_id":   "target_id",
			"read":        "read",
		},
		scan: func(row rowScanner) (*domain.Notification, error) {
			var (
				n         domain.Notification
				createdAt string
				updatedAt sql.NullString
				read      int
			)
			err := row.Scan(
				&n.ID, &createdAt, &updatedAt,
				&n.UserID, &n.ActorID, &n.Kind, &n.TargetType, &n.TargetID, &read,
			)
			if err != nil {
				return nil, err
			}
			n.CreatedAt = parseTime(createdAt)
			n.UpdatedAt = parseNullTime(updatedAt)
			n.Read = read != 0
			return &n, nil
		},
		values: func(n *domain.Notification) []any {
			return []any{
				formatTime(n.CreatedAt), formatNullTime(n.UpdatedAt),
				n.UserID, n.ActorID, n.Kind, n.TargetType, n.TargetID, boolToInt(n.Read),
			}
		},
		id:    func(n *domain.Notification) int64 { return n.ID },
		setID: func(n *domain.Notification, id int64) { n.ID = id },
		touch: func(n *domain.Notification) { n.Touch() },
	}
}

// NewNotificationRepository creates the notifications store.
func NewNotificationRepository(db *DB) repository.NotificationRepository {
	return &notificationRepository{store: newStore(db, notificationMapper())}
}
