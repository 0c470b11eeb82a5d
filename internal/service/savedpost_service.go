package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/domain"
	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/events"
	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/repository"
)

// SavedPostService manages per-user post bookmarks.
type SavedPostService struct {
	saved      repository.SavedPostRepository
	posts      repository.PostRepository
	dispatcher *events.Dispatcher
	logger     zerolog.Logger
}

// NewSavedPostService creates a new SavedPostService.
func NewSavedPostService(
	saved repository.SavedPostRepository,
	posts repository.PostRepository,
	dispatcher *events.Dispatcher,
	logger zerolog.Logger,
) *SavedPostService {
	return &SavedPostService{
		saved:      saved,
		posts:      posts,
		dispatcher: dispatcher,
		logger:     logger.With().Str("service", "saved_post").Logger(),
	}
}

// Save bookmarks a post for the user. Saving the same post twice is a rule
// violation.
func (s *SavedPostService) Save(ctx context.Context, userID, postID int64) (*domain.SavedPost, error) {
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return nil, mapAbsence(err)
	}

	bookmark := domain.NewSavedPost(userID, postID)
	if err := s.saved.Add(ctx, bookmark); err != nil {
		if errors.Is(err, repository.ErrUniqueViolation) {
			return nil, domain.ErrAlreadySaved
		}
		return nil, err
	}

	bookmark.Raise(domain.PostSavedEvent{
		BaseEvent: domain.NewBaseEvent(domain.EventPostSaved),
		UserID:    userID,
		PostID:    postID,
	})
	publishEvents(ctx, s.dispatcher, s.logger, bookmark)

	return bookmark, nil
}

// Unsave removes a bookmark. Removing a bookmark that does not exist is
// NotFound.
func (s *SavedPostService) Unsave(ctx context.Context, userID, postID int64) error {
	bookmark, err := s.saved.FirstOrDefault(ctx, repository.NewSpecification().
		Where("user_id", repository.OpEq, userID).
		Where("post_id", repository.OpEq, postID))
	if err != nil {
		return err
	}
	if bookmark == nil {
		return domain.ErrNotFound
	}

	bookmark.Raise(domain.PostUnsavedEvent{
		BaseEvent: domain.NewBaseEvent(domain.EventPostUnsaved),
		UserID:    userID,
		PostID:    postID,
	})
	pending := bookmark.Events()
	bookmark.ClearEvents()

	if err := s.saved.Delete(ctx, bookmark); err != nil {
		return mapAbsence(err)
	}
	if err := s.dispatcher.Publish(ctx, pending); err != nil {
		s.logger.Error().Err(err).Msg("event dispatch failed")
	}
	return nil
}

// List returns the user's bookmarks, newest first, with the post loaded.
func (s *SavedPostService) List(ctx context.Context, userID int64, pageNumber, pageSize int) ([]*domain.SavedPost, int64, error) {
	spec := repository.NewSpecification().
		Where("user_id", repository.OpEq, userID).
		Include("Post").
		OrderByDescending("created_at").
		Paginate(pageNumber, pageSize)

	rows, err := s.saved.List(ctx, spec)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.saved.Count(ctx, spec)
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
