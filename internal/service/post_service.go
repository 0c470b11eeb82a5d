package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/domain"
	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/events"
	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/repository"
)

// PostService handles post CRUD, publication, and listing.
type PostService struct {
	posts      repository.PostRepository
	categories repository.CategoryRepository
	tags       repository.TagRepository
	dispatcher *events.Dispatcher
	logger     zerolog.Logger
}

// NewPostService creates a new PostService.
func NewPostService(
	posts repository.PostRepository,
	categories repository.CategoryRepository,
	tags repository.TagRepository,
	dispatcher *events.Dispatcher,
	logger zerolog.Logger,
) *PostService {
	return &PostService{
		posts:      posts,
		categories: categories,
		tags:       tags,
		dispatcher: dispatcher,
		logger:     logger.With().Str("service", "post").Logger(),
	}
}

// =============================================================================
// Input/Output Structs
// =============================================================================

// CreatePostInput contains the data needed to create a post.
type CreatePostInput struct {
	Title       string
	Slug        string
	Summary     string
	Content     string
	AuthorID    int64
	CategoryIDs []int64
	TagIDs      []int64
	Publish     bool
}

// UpdatePostInput contains the data needed to update a post. Nil slices
// leave the category/tag sets untouched.
type UpdatePostInput struct {
	Title       string
	Summary     string
	Content     string
	CategoryIDs []int64
	TagIDs      []int64
}

// ListPostsInput describes a post listing query.
type ListPostsInput struct {
	// PublishedOnly restricts the listing to published posts.
	PublishedOnly bool

	// AuthorID filters by author when > 0.
	AuthorID int64

	PageNumber int
	PageSize   int
}

// ListPostsOutput is a page of posts with the unpaged total.
type ListPostsOutput struct {
	Posts []*domain.Post
	Total int64
}

// =============================================================================
// Service Methods
// =============================================================================

// CreatePost creates a post, attaches its categories/tags, and dispatches
// the creation event.
func (s *PostService) CreatePost(ctx context.Context, input CreatePostInput) (*domain.Post, error) {
	if input.Title == "" {
		return nil, ErrEmptyTitle
	}
	if input.Slug == "" {
		return nil, ErrEmptySlug
	}
	if input.Content == "" {
		return nil, ErrEmptyContent
	}

	post := domain.NewPost(input.Title, input.Slug, input.Summary, input.Content, input.AuthorID)
	post.Raise(domain.PostCreatedEvent{
		BaseEvent: domain.NewBaseEvent(domain.EventPostCreated),
		AuthorID:  input.AuthorID,
		Title:     input.Title,
	})
	if input.Publish {
		post.Publish()
	}

	if err := s.posts.Add(ctx, post); err != nil {
		if errors.Is(err, repository.ErrUniqueViolation) {
			return nil, domain.ErrSlugTaken
		}
		s.logger.Error().Err(err).Str("slug", input.Slug).Msg("failed to create post")
		return nil, err
	}

	if err := s.attachTaxonomy(ctx, post.ID, input.CategoryIDs, input.TagIDs); err != nil {
		return nil, err
	}

	// The post id exists only after Add; patch it into the snapshot.
	pending := post.Events()
	post.ClearEvents()
	for i, evt := range pending {
		switch e := evt.(type) {
		case domain.PostCreatedEvent:
			e.PostID = post.ID
			pending[i] = e
		case domain.PostPublishedEvent:
			e.PostID = post.ID
			pending[i] = e
		}
	}
	if err := s.dispatcher.Publish(ctx, pending); err != nil {
		s.logger.Error().Err(err).Int64("post_id", post.ID).Msg("event dispatch failed")
	}

	s.logger.Info().Int64("post_id", post.ID).Str("slug", post.Slug).Msg("post created")
	return post, nil
}

// GetPost loads a post by id with its navigations.
func (s *PostService) GetPost(ctx context.Context, id int64) (*domain.Post, error) {
	post, err := s.posts.FirstOrDefault(ctx, repository.NewSpecification().
		Where("id", repository.OpEq, id).
		Include("Author", "PostCategories.Category", "PostTags.Tag", "Comments").
		ReadOnly())
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, domain.ErrNotFound
	}
	return post, nil
}

// GetPostBySlug loads a published post by slug and counts the view.
func (s *PostService) GetPostBySlug(ctx context.Context, slug string) (*domain.Post, error) {
	post, err := s.posts.FirstOrDefault(ctx, repository.NewSpecification().
		Where("slug", repository.OpEq, slug).
		Include("Author", "PostCategories.Category", "PostTags.Tag").
		ReadOnly())
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, domain.ErrNotFound
	}

	if err := s.posts.IncrementViews(ctx, post.ID); err != nil {
		// A lost view count never fails the read.
		s.logger.Warn().Err(err).Int64("post_id", post.ID).Msg("failed to count view")
	} else {
		post.ViewCount++
	}
	return post, nil
}

// ListPosts returns a filtered, ordered page of posts and the unpaged total.
func (s *PostService) ListPosts(ctx context.Context, input ListPostsInput) (*ListPostsOutput, error) {
	spec := repository.NewSpecification().
		Include("Author", "PostCategories.Category", "PostTags.Tag").
		OrderByDescending("created_at").
		Paginate(input.PageNumber, input.PageSize).
		ReadOnly()
	if input.PublishedOnly {
		spec = spec.Where("published", repository.OpEq, true)
	}
	if input.AuthorID > 0 {
		spec = spec.Where("author_id", repository.OpEq, input.AuthorID)
	}

	posts, err := s.posts.List(ctx, spec)
	if err != nil {
		return nil, err
	}
	total, err := s.posts.Count(ctx, spec)
	if err != nil {
		return nil, err
	}
	return &ListPostsOutput{Posts: posts, Total: total}, nil
}

// UpdatePost applies field changes and replaces category/tag sets when given.
func (s *PostService) UpdatePost(ctx context.Context, id int64, input UpdatePostInput) (*domain.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, mapAbsence(err)
	}

	if input.Title != "" {
		post.Title = input.Title
	}
	if input.Summary != "" {
		post.Summary = input.Summary
	}
	if input.Content != "" {
		post.Content = input.Content
	}

	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}
	if err := s.attachTaxonomy(ctx, post.ID, input.CategoryIDs, input.TagIDs); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("post_id", post.ID).Msg("post updated")
	return post, nil
}

// PublishPost marks a post published and dispatches the event. Publishing an
// already-published post is a no-op.
func (s *PostService) PublishPost(ctx context.Context, id int64) (*domain.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, mapAbsence(err)
	}

	post.Publish()
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}
	publishEvents(ctx, s.dispatcher, s.logger, post)
	return post, nil
}

// UnpublishPost reverts a post to draft.
func (s *PostService) UnpublishPost(ctx context.Context, id int64) (*domain.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, mapAbsence(err)
	}

	post.Unpublish()
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost removes a post. The deletion event is snapshotted before the
// row disappears and dispatched only after the delete succeeded.
func (s *PostService) DeletePost(ctx context.Context, id, actorID int64) error {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return mapAbsence(err)
	}

	post.Raise(domain.PostDeletedEvent{
		BaseEvent: domain.NewBaseEvent(domain.EventPostDeleted),
		PostID:    post.ID,
		AuthorID:  post.AuthorID,
		ActorID:   actorID,
	})
	pending := post.Events()
	post.ClearEvents()

	if err := s.posts.Delete(ctx, post); err != nil {
		return mapAbsence(err)
	}

	if err := s.dispatcher.Publish(ctx, pending); err != nil {
		s.logger.Error().Err(err).Int64("post_id", id).Msg("event dispatch failed")
	}

	s.logger.Info().Int64("post_id", id).Int64("actor_id", actorID).Msg("post deleted")
	return nil
}

// OwnerOf resolves a post's author id, for ownership checks.
func (s *PostService) OwnerOf(ctx context.Context, id int64) (int64, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}
	return post.AuthorID, nil
}

func (s *PostService) attachTaxonomy(ctx context.Context, postID int64, categoryIDs, tagIDs []int64) error {
	if categoryIDs != nil {
		if err := s.verifyIDs(ctx, s.categories, categoryIDs); err != nil {
			return err
		}
		if err := s.posts.ReplaceCategories(ctx, postID, categoryIDs); err != nil {
			return err
		}
	}
	if tagIDs != nil {
		if err := s.verifyTagIDs(ctx, tagIDs); err != nil {
			return err
		}
		if err := s.posts.ReplaceTags(ctx, postID, tagIDs); err != nil {
			return err
		}
	}
	return nil
}

func (s *PostService) verifyIDs(ctx context.Context, repo repository.CategoryRepository, ids []int64) error {
	for _, id := range ids {
		if _, err := repo.GetByID(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%w: category %d", domain.ErrNotFound, id)
			}
			return err
		}
	}
	return nil
}

func (s *PostService) verifyTagIDs(ctx context.Context, ids []int64) error {
	for _, id := range ids {
		if _, err := s.tags.GetByID(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%w: tag %d", domain.ErrNotFound, id)
			}
			return err
		}
	}
	return nil
}
