package domain

// Likeable entity types. A like may target exactly these.
const (
	LikeTargetPost    = "post"
	LikeTargetComment = "comment"
)

// ValidLikeTarget reports whether the entity type can receive likes.
func ValidLikeTarget(entityType string) bool {
	return entityType == LikeTargetPost || entityType == LikeTargetComment
}

// Like records a user's appreciation of a post or comment.
// The (UserID, EntityType, EntityID) triple is unique.
type Like struct {
	Entity

	UserID     int64  `json:"user_id"`
	EntityType string `json:"entity_type"`
	EntityID   int64  `json:"entity_id"`
}

// NewLike creates a Like for a validated target.
func NewLike(userID int64, entityType string, entityID int64) *Like {
	return &Like{
		Entity:     NewEntity(),
		UserID:     userID,
		EntityType: entityType,
		EntityID:   entityID,
	}
}

// Follower records that FollowerID follows FollowingID.
// The pair is unique; self-follows are a rule violation.
type Follower struct {
	Entity

	FollowerID  int64 `json:"follower_id"`
	FollowingID int64 `json:"following_id"`

	// FollowerUser is eager-loaded via include "FollowerUser".
	FollowerUser *User `json:"follower_user,omitempty"`

	// FollowingUser is eager-loaded via include "FollowingUser".
	FollowingUser *User `json:"following_user,omitempty"`
}

// NewFollower creates a follow relationship.
func NewFollower(followerID, followingID int64) *Follower {
	return &Follower{
		Entity:      NewEntity(),
		FollowerID:  followerID,
		FollowingID: followingID,
	}
}

// SavedPost is a user's bookmark of a post. The (UserID, PostID) pair is unique.
type SavedPost struct {
	Entity

	UserID int64 `json:"user_id"`
	PostID int64 `json:"post_id"`

	// Post is eager-loaded via include "Post".
	Post *Post `json:"post,omitempty"`
}

// NewSavedPost creates a bookmark.
func NewSavedPost(userID, postID int64) *SavedPost {
	return &SavedPost{
		Entity: NewEntity(),
		UserID: userID,
		PostID: postID,
	}
}
