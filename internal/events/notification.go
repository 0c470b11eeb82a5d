package events

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/domain"
	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/repository"
)

// Notification kinds surfaced to users.
const (
	KindCommentOnPost = "comment_on_post"
	KindLikeReceived  = "like_received"
	KindNewFollower   = "new_follower"
)

// NotificationHandler fans events out into per-user notification rows.
type NotificationHandler struct {
	notifications repository.NotificationRepository
	logger        zerolog.Logger
}

// NewNotificationHandler creates the notification fan-out handler.
func NewNotificationHandler(notifications repository.NotificationRepository, logger zerolog.Logger) *NotificationHandler {
	return &NotificationHandler{
		notifications: notifications,
		logger:        logger.With().Str("component", "notification_handler").Logger(),
	}
}

// RegisterAll subscribes the handler to the events users are notified about.
func (h *NotificationHandler) RegisterAll(d *Dispatcher) {
	for _, name := range []string{
		domain.EventCommentAdded,
		domain.EventEntityLiked,
		domain.EventUserFollowed,
	} {
		d.Register(name, h)
	}
}

// Handle persists a notification for the interested user. Events where the
// actor is also the recipient produce no notification.
func (h *NotificationHandler) Handle(ctx context.Context, event domain.Event) error {
	var row *domain.Notification

	switch e := event.(type) {
	case domain.CommentAddedEvent:
		if e.AuthorID == e.PostAuthorID {
			return nil
		}
		row = &domain.Notification{
			Entity:     domain.NewEntity(),
			UserID:     e.PostAuthorID,
			ActorID:    e.AuthorID,
			Kind:       KindCommentOnPost,
			TargetType: "post",
			TargetID:   e.PostID,
		}
	case domain.EntityLikedEvent:
		if e.UserID == e.OwnerID {
			return nil
		}
		row = &domain.Notification{
			Entity:     domain.NewEntity(),
			UserID:     e.OwnerID,
			ActorID:    e.UserID,
			Kind:       KindLikeReceived,
			TargetType: e.EntityType,
			TargetID:   e.EntityID,
		}
	case domain.UserFollowedEvent:
		row = &domain.Notification{
			Entity:     domain.NewEntity(),
			UserID:     e.FollowingID,
			ActorID:    e.FollowerID,
			Kind:       KindNewFollower,
			TargetType: "user",
			TargetID:   e.FollowerID,
		}
	default:
		return nil
	}

	if err := h.notifications.Add(ctx, row); err != nil {
		return fmt.Errorf("failed to write notification for %s: %w", event.EventName(), err)
	}
	return nil
}
