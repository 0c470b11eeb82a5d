package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/domain"
	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/repository"
)

// AuditHandler persists an audit row for every event it is registered on.
type AuditHandler struct {
	auditLogs repository.AuditLogRepository
	logger    zerolog.Logger
}

// NewAuditHandler creates the audit-log writer.
func NewAuditHandler(auditLogs repository.AuditLogRepository, logger zerolog.Logger) *AuditHandler {
	return &AuditHandler{
		auditLogs: auditLogs,
		logger:    logger.With().Str("component", "audit_handler").Logger(),
	}
}

// RegisterAll subscribes the handler to every known event name.
func (h *AuditHandler) RegisterAll(d *Dispatcher) {
	for _, name := range []string{
		domain.EventPostCreated,
		domain.EventPostPublished,
		domain.EventPostDeleted,
		domain.EventCommentAdded,
		domain.EventEntityLiked,
		domain.EventLikeRemoved,
		domain.EventUserFollowed,
		domain.EventUserUnfollowed,
		domain.EventPostSaved,
		domain.EventPostUnsaved,
	} {
		d.Register(name, h)
	}
}

// Handle writes one audit row describing the event.
func (h *AuditHandler) Handle(ctx context.Context, event domain.Event) error {
	entry := auditEntry(event)
	if entry == nil {
		return nil
	}
	if err := h.auditLogs.Add(ctx, entry); err != nil {
		return fmt.Errorf("failed to write audit log for %s: %w", event.EventName(), err)
	}
	return nil
}

// auditEntry maps an event to its audit row, or nil for events that carry no
// auditable actor.
func auditEntry(event domain.Event) *domain.AuditLog {
	row := &domain.AuditLog{
		Entity: domain.NewEntity(),
		Action: event.EventName(),
	}
	row.Detail = marshalDetail(event)

	switch e := event.(type) {
	case domain.PostCreatedEvent:
		row.ActorID = e.AuthorID
		row.TargetType = "post"
		row.TargetID = e.PostID
	case domain.PostPublishedEvent:
		row.ActorID = e.AuthorID
		row.TargetType = "post"
		row.TargetID = e.PostID
	case domain.PostDeletedEvent:
		row.ActorID = e.ActorID
		row.TargetType = "post"
		row.TargetID = e.PostID
	case domain.CommentAddedEvent:
		row.ActorID = e.AuthorID
		row.TargetType = "comment"
		row.TargetID = e.CommentID
	case domain.EntityLikedEvent:
		row.ActorID = e.UserID
		row.TargetType = e.EntityType
		row.TargetID = e.EntityID
	case domain.LikeRemovedEvent:
		row.ActorID = e.UserID
		row.TargetType = e.EntityType
		row.TargetID = e.EntityID
	case domain.UserFollowedEvent:
		row.ActorID = e.FollowerID
		row.TargetType = "user"
		row.TargetID = e.FollowingID
	case domain.UserUnfollowedEvent:
		row.ActorID = e.FollowerID
		row.TargetType = "user"
		row.TargetID = e.FollowingID
	case domain.PostSavedEvent:
		row.ActorID = e.UserID
		row.TargetType = "post"
		row.TargetID = e.PostID
	case domain.PostUnsavedEvent:
		row.ActorID = e.UserID
		row.TargetType = "post"
		row.TargetID = e.PostID
	default:
		return nil
	}
	return row
}

func marshalDetail(event domain.Event) string {
	detail, err := json.Marshal(event)
	if err != nil {
		return ""
	}
	return string(detail)
}
