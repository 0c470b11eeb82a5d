package domain

import (
	"time"

	"github.com/google/uuid"
)

// Event is an immutable record of something that happened to an entity.
// Events are buffered on the entity that raised them and dispatched to
// registered handlers only after the triggering mutation has been persisted.
type Event interface {
	// EventID is the globally unique identifier of this occurrence.
	EventID() string

	// EventName identifies the runtime type for handler registration.
	EventName() string

	// OccurredOn is the UTC timestamp of emission.
	OccurredOn() time.Time
}

// Event names. Handlers register against these.
const (
	EventPostCreated    = "post.created"
	EventPostPublished  = "post.published"
	EventPostDeleted    = "post.deleted"
	EventCommentAdded   = "comment.added"
	EventEntityLiked    = "entity.liked"
	EventLikeRemoved    = "like.removed"
	EventUserFollowed   = "user.followed"
	EventUserUnfollowed = "user.unfollowed"
	EventPostSaved      = "post.saved"
	EventPostUnsaved    = "post.unsaved"
)

// BaseEvent carries the identity and timestamp shared by all events.
type BaseEvent struct {
	ID   string    `json:"event_id"`
	Name string    `json:"event_name"`
	At   time.Time `json:"occurred_on"`
}

// NewBaseEvent stamps a fresh event identity.
func NewBaseEvent(name string) BaseEvent {
	return BaseEvent{
		ID:   uuid.NewString(),
		Name: name,
		At:   time.Now().UTC(),
	}
}

// EventID implements Event.
func (e BaseEvent) EventID() string { return e.ID }

// EventName implements Event.
func (e BaseEvent) EventName() string { return e.Name }

// OccurredOn implements Event.
func (e BaseEvent) OccurredOn() time.Time { return e.At }

// PostCreatedEvent is raised when a new post is persisted.
type PostCreatedEvent struct {
	BaseEvent
	PostID   int64  `json:"post_id"`
	AuthorID int64  `json:"author_id"`
	Title    string `json:"title"`
}

// PostPublishedEvent is raised when a draft is published.
type PostPublishedEvent struct {
	BaseEvent
	PostID   int64 `json:"post_id"`
	AuthorID int64 `json:"author_id"`
}

// PostDeletedEvent is raised when a post is removed.
// Snapshot this before calling delete; the entity is gone afterward.
type PostDeletedEvent struct {
	BaseEvent
	PostID   int64 `json:"post_id"`
	AuthorID int64 `json:"author_id"`
	ActorID  int64 `json:"actor_id"`
}

// CommentAddedEvent is raised when a comment is persisted.
type CommentAddedEvent struct {
	BaseEvent
	CommentID    int64 `json:"comment_id"`
	PostID       int64 `json:"post_id"`
	AuthorID     int64 `json:"author_id"`
	PostAuthorID int64 `json:"post_author_id"`
}

// EntityLikedEvent is raised when a post or comment receives a like.
type EntityLikedEvent struct {
	BaseEvent
	LikeID     int64  `json:"like_id"`
	UserID     int64  `json:"user_id"`
	EntityType string `json:"entity_type"`
	EntityID   int64  `json:"entity_id"`
	OwnerID    int64  `json:"owner_id"`
}

// LikeRemovedEvent is raised when a like is withdrawn.
type LikeRemovedEvent struct {
	BaseEvent
	UserID     int64  `json:"user_id"`
	EntityType string `json:"entity_type"`
	EntityID   int64  `json:"entity_id"`
}

// UserFollowedEvent is raised when a follow relationship is created.
type UserFollowedEvent struct {
	BaseEvent
	FollowerID  int64 `json:"follower_id"`
	FollowingID int64 `json:"following_id"`
}

// UserUnfollowedEvent is raised when a follow relationship is removed.
type UserUnfollowedEvent struct {
	BaseEvent
	FollowerID  int64 `json:"follower_id"`
	FollowingID int64 `json:"following_id"`
}

// PostSavedEvent is raised when a user bookmarks a post.
type PostSavedEvent struct {
	BaseEvent
	UserID int64 `json:"user_id"`
	PostID int64 `json:"post_id"`
}

// PostUnsavedEvent is raised when a bookmark is removed.
type PostUnsavedEvent struct {
	BaseEvent
	UserID int64 `json:"user_id"`
	PostID int64 `json:"post_id"`
}
