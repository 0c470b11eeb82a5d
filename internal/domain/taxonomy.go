package domain

// Category groups posts by editorial topic.
type Category struct {
	Entity

	// Name is the display name. Constraints: 1-255 characters.
	Name string `json:"name"`

	// Slug is the unique URL fragment for the category.
	Slug string `json:"slug"`

	// Description is an optional longer explanation.
	Description string `json:"description,omitempty"`
}

// NewCategory creates a new Category.
func NewCategory(name, slug, description string) *Category {
	return &Category{
		Entity:      NewEntity(),
		Name:        name,
		Slug:        slug,
		Description: description,
	}
}

// Tag is a free-form label attached to posts.
type Tag struct {
	Entity

	// Name is the display name.
	Name string `json:"name"`

	// Slug is the unique URL fragment for the tag.
	Slug string `json:"slug"`
}

// NewTag creates a new Tag.
func NewTag(name, slug string) *Tag {
	return &Tag{
		Entity: NewEntity(),
		Name:   name,
		Slug:   slug,
	}
}

// PostCategory is the join row between posts and categories.
type PostCategory struct {
	Entity

	PostID     int64 `json:"post_id"`
	CategoryID int64 `json:"category_id"`

	// Category is eager-loaded via include "Category".
	Category *Category `json:"category,omitempty"`
}

// PostTag is the join row between posts and tags.
type PostTag struct {
	Entity

	PostID int64 `json:"post_id"`
	TagID  int64 `json:"tag_id"`

	// Tag is eager-loaded via include "Tag".
	Tag *Tag `json:"tag,omitempty"`
}
