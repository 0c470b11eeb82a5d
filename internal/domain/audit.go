package domain

// AuditLog is an immutable record of an action, written by the audit event
// handler after the triggering mutation has been persisted.
type AuditLog struct {
	Entity

	// ActorID references the user who performed the action; zero for system.
	ActorID int64 `json:"actor_id"`

	// Action is the event name that produced this entry.
	Action string `json:"action"`

	// TargetType identifies the affected entity kind ("post", "user", ...).
	TargetType string `json:"target_type"`

	// TargetID is the affected entity's ID.
	TargetID int64 `json:"target_id"`

	// Detail carries a short human-readable summary.
	Detail string `json:"detail,omitempty"`
}

// Notification is a per-user inbox entry produced by the notification
// fan-out handler.
type Notification struct {
	Entity

	// UserID is the recipient.
	UserID int64 `json:"user_id"`

	// ActorID is the user whose action triggered the notification.
	ActorID int64 `json:"actor_id"`

	// Kind is the event name that produced this notification.
	Kind string `json:"kind"`

	// TargetType and TargetID point at the subject entity.
	TargetType string `json:"target_type"`
	TargetID   int64  `json:"target_id"`

	// Read is set once the recipient has seen the notification.
	Read bool `json:"read"`
}
