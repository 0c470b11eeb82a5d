package domain

// Comment is a reader response attached to a post. Comments may be threaded
// one level deep via ParentID.
type Comment struct {
	Entity

	// PostID references the post this comment belongs to.
	PostID int64 `json:"post_id"`

	// AuthorID references the commenting user.
	AuthorID int64 `json:"author_id"`

	// ParentID references the parent comment for replies; nil for top-level.
	// A parent must belong to the same post.
	ParentID *int64 `json:"parent_id,omitempty"`

	// Content is the comment body. Constraints: 1-10000 characters.
	Content string `json:"content"`

	// IsEdited is set once the content has been changed after creation.
	IsEdited bool `json:"is_edited"`

	// Author is eager-loaded via include "Author".
	Author *User `json:"author,omitempty"`
}

// NewComment creates a comment; the service raises CommentAddedEvent after
// the store assigns the ID.
func NewComment(postID, authorID int64, parentID *int64, content string) *Comment {
	return &Comment{
		Entity:   NewEntity(),
		PostID:   postID,
		AuthorID: authorID,
		ParentID: parentID,
		Content:  content,
	}
}

// Edit replaces the content and marks the comment edited.
func (c *Comment) Edit(content string) {
	c.Content = content
	c.IsEdited = true
	c.Touch()
}

// IsOwnedBy reports whether the given user wrote this comment.
func (c *Comment) IsOwnedBy(userID int64) bool {
	return c.AuthorID == userID
}
