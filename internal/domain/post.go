package domain

import "time"

// Post represents a published or draft article.
type Post struct {
	Entity

	// Title is the display title. Constraints: 1-500 characters.
	Title string `json:"title"`

	// Slug is the unique URL fragment for the post.
	Slug string `json:"slug"`

	// Summary is an optional short abstract shown in listings.
	Summary string `json:"summary,omitempty"`

	// Content is the post body.
	Content string `json:"content"`

	// AuthorID references the owning user. Ownership checks compare this
	// against the current principal.
	AuthorID int64 `json:"author_id"`

	// Published indicates whether the post is visible to readers.
	Published bool `json:"published"`

	// PublishedAt is set the first time the post is published.
	PublishedAt *time.Time `json:"published_at,omitempty"`

	// ViewCount is a denormalized read counter.
	ViewCount int64 `json:"view_count"`

	// Author is the eager-loaded owning user (include "Author").
	Author *User `json:"author,omitempty"`

	// Categories are eager-loaded via include "PostCategories.Category".
	Categories []*Category `json:"categories,omitempty"`

	// Tags are eager-loaded via include "PostTags.Tag".
	Tags []*Tag `json:"tags,omitempty"`

	// Comments are eager-loaded via include "Comments".
	Comments []*Comment `json:"comments,omitempty"`
}

// NewPost creates a draft post and raises PostCreatedEvent once persisted
// identifiers are known (the service raises after Add assigns the ID).
func NewPost(title, slug, summary, content string, authorID int64) *Post {
	return &Post{
		Entity:   NewEntity(),
		Title:    title,
		Slug:     slug,
		Summary:  summary,
		Content:  content,
		AuthorID: authorID,
	}
}

// Publish marks the post visible and raises PostPublishedEvent.
// Publishing an already-published post is a no-op.
func (p *Post) Publish() {
	if p.Published {
		return
	}
	now := time.Now().UTC()
	p.Published = true
	p.PublishedAt = &now
	p.Touch()
	p.Raise(PostPublishedEvent{
		BaseEvent: NewBaseEvent(EventPostPublished),
		PostID:    p.ID,
		AuthorID:  p.AuthorID,
	})
}

// Unpublish hides the post from readers.
func (p *Post) Unpublish() {
	if !p.Published {
		return
	}
	p.Published = false
	p.Touch()
}

// IsOwnedBy reports whether the given user owns this post.
func (p *Post) IsOwnedBy(userID int64) bool {
	return p.AuthorID == userID
}
