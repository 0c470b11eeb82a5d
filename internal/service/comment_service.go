package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/domain"
	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/events"
	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/repository"
)

// CommentService handles threaded comments on posts.
type CommentService struct {
	comments   repository.CommentRepository
	posts      repository.PostRepository
	dispatcher *events.Dispatcher
	logger     zerolog.Logger
}

// NewCommentService creates a new CommentService.
func NewCommentService(
	comments repository.CommentRepository,
	posts repository.PostRepository,
	dispatcher *events.Dispatcher,
	logger zerolog.Logger,
) *CommentService {
	return &CommentService{
		comments:   comments,
		posts:      posts,
		dispatcher: dispatcher,
		logger:     logger.With().Str("service", "comment").Logger(),
	}
}

// AddCommentInput contains the data needed to add a comment.
type AddCommentInput struct {
	PostID   int64
	AuthorID int64

	// ParentID threads the comment under an existing one on the same post.
	ParentID *int64

	Content string
}

// AddComment creates a comment. The post must exist; a reply's parent must
// belong to the same post.
func (s *CommentService) AddComment(ctx context.Context, input AddCommentInput) (*domain.Comment, error) {
	if input.Content == "" {
		return nil, ErrEmptyContent
	}

	post, err := s.posts.GetByID(ctx, input.PostID)
	if err != nil {
		return nil, mapAbsence(err)
	}

	if input.ParentID != nil {
		parent, err := s.comments.GetByID(ctx, *input.ParentID)
		if err != nil {
			return nil, mapAbsence(err)
		}
		if parent.PostID != input.PostID {
			return nil, domain.ErrCommentParentMismatch
		}
	}

	comment := domain.NewComment(input.PostID, input.AuthorID, input.ParentID, input.Content)
	if err := s.comments.Add(ctx, comment); err != nil {
		return nil, err
	}

	comment.Raise(domain.CommentAddedEvent{
		BaseEvent:    domain.NewBaseEvent(domain.EventCommentAdded),
		CommentID:    comment.ID,
		PostID:       post.ID,
		AuthorID:     input.AuthorID,
		PostAuthorID: post.AuthorID,
	})
	publishEvents(ctx, s.dispatcher, s.logger, comment)

	s.logger.Info().Int64("comment_id", comment.ID).Int64("post_id", post.ID).Msg("comment added")
	return comment, nil
}

// EditComment replaces the content and marks the comment edited.
func (s *CommentService) EditComment(ctx context.Context, id int64, content string) (*domain.Comment, error) {
	if content == "" {
		return nil, ErrEmptyContent
	}

	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return nil, mapAbsence(err)
	}

	comment.Edit(content)
	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// DeleteComment removes a comment.
func (s *CommentService) DeleteComment(ctx context.Context, id int64) error {
	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return mapAbsence(err)
	}
	return s.comments.Delete(ctx, comment)
}

// ListComments returns a post's comments oldest-first with their authors.
func (s *CommentService) ListComments(ctx context.Context, postID int64) ([]*domain.Comment, error) {
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return nil, mapAbsence(err)
	}
	return s.comments.List(ctx, repository.NewSpecification().
		Where("post_id", repository.OpEq, postID).
		Include("Author").
		OrderBy("created_at").
		ReadOnly())
}

// OwnerOf resolves a comment's author id, for ownership checks.
func (s *CommentService) OwnerOf(ctx context.Context, id int64) (int64, error) {
	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}
	return comment.AuthorID, nil
}
