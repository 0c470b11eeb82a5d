package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/domain"
	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/events"
	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/repository"
)

// LikeService handles likes on posts and comments.
type LikeService struct {
	likes      repository.LikeRepository
	posts      repository.PostRepository
	comments   repository.CommentRepository
	dispatcher *events.Dispatcher
	logger     zerolog.Logger
}

// NewLikeService creates a new LikeService.
func NewLikeService(
	likes repository.LikeRepository,
	posts repository.PostRepository,
	comments repository.CommentRepository,
	dispatcher *events.Dispatcher,
	logger zerolog.Logger,
) *LikeService {
	return &LikeService{
		likes:      likes,
		posts:      posts,
		comments:   comments,
		dispatcher: dispatcher,
		logger:     logger.With().Str("service", "like").Logger(),
	}
}

// Like records a like. The entity type is validated before any repository
// access; liking twice is a rule violation.
func (s *LikeService) Like(ctx context.Context, userID int64, entityType string, entityID int64) (*domain.Like, error) {
	if !domain.ValidLikeTarget(entityType) {
		return nil, domain.ErrInvalidLikeTarget
	}

	ownerID, err := s.targetOwner(ctx, entityType, entityID)
	if err != nil {
		return nil, err
	}

	like := domain.NewLike(userID, entityType, entityID)
	if err := s.likes.Add(ctx, like); err != nil {
		if errors.Is(err, repository.ErrUniqueViolation) {
			return nil, domain.ErrAlreadyLiked
		}
		return nil, err
	}

	like.Raise(domain.EntityLikedEvent{
		BaseEvent:  domain.NewBaseEvent(domain.EventEntityLiked),
		LikeID:     like.ID,
		UserID:     userID,
		EntityType: entityType,
		EntityID:   entityID,
		OwnerID:    ownerID,
	})
	publishEvents(ctx, s.dispatcher, s.logger, like)

	return like, nil
}

// Unlike removes a like. Removing a like that does not exist is NotFound;
// the count stays unchanged.
func (s *LikeService) Unlike(ctx context.Context, userID int64, entityType string, entityID int64) error {
	if !domain.ValidLikeTarget(entityType) {
		return domain.ErrInvalidLikeTarget
	}

	like, err := s.likes.FirstOrDefault(ctx, repository.NewSpecification().
		Where("user_id", repository.OpEq, userID).
		Where("entity_type", repository.OpEq, entityType).
		Where("entity_id", repository.OpEq, entityID))
	if err != nil {
		return err
	}
	if like == nil {
		return domain.ErrNotFound
	}

	like.Raise(domain.LikeRemovedEvent{
		BaseEvent:  domain.NewBaseEvent(domain.EventLikeRemoved),
		UserID:     userID,
		EntityType: entityType,
		EntityID:   entityID,
	})
	pending := like.Events()
	like.ClearEvents()

	if err := s.likes.Delete(ctx, like); err != nil {
		return mapAbsence(err)
	}
	if err := s.dispatcher.Publish(ctx, pending); err != nil {
		s.logger.Error().Err(err).Msg("event dispatch failed")
	}
	return nil
}

// Count returns the number of likes on an entity.
func (s *LikeService) Count(ctx context.Context, entityType string, entityID int64) (int64, error) {
	if !domain.ValidLikeTarget(entityType) {
		return 0, domain.ErrInvalidLikeTarget
	}
	return s.likes.Count(ctx, repository.NewSpecification().
		Where("entity_type", repository.OpEq, entityType).
		Where("entity_id", repository.OpEq, entityID))
}

// targetOwner resolves the liked entity's owner and verifies it exists.
func (s *LikeService) targetOwner(ctx context.Context, entityType string, entityID int64) (int64, error) {
	switch entityType {
	case domain.LikeTargetPost:
		post, err := s.posts.GetByID(ctx, entityID)
		if err != nil {
			return 0, mapAbsence(err)
		}
		return post.AuthorID, nil
	case domain.LikeTargetComment:
		comment, err := s.comments.GetByID(ctx, entityID)
		if err != nil {
			return 0, mapAbsence(err)
		}
		return comment.AuthorID, nil
	}
	return 0, domain.ErrInvalidLikeTarget
}
