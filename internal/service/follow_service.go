package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/domain"
	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/events"
	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/repository"
)

// FollowService manages follow relationships between users.
type FollowService struct {
	followers  repository.FollowerRepository
	users      repository.UserRepository
	dispatcher *events.Dispatcher
	logger     zerolog.Logger
}

// NewFollowService creates a new FollowService.
func NewFollowService(
	followers repository.FollowerRepository,
	users repository.UserRepository,
	dispatcher *events.Dispatcher,
	logger zerolog.Logger,
) *FollowService {
	return &FollowService{
		followers:  followers,
		users:      users,
		dispatcher: dispatcher,
		logger:     logger.With().Str("service", "follow").Logger(),
	}
}

// Follow creates a follow relationship. Following yourself and following
// the same user twice are both rule violations.
func (s *FollowService) Follow(ctx context.Context, followerID, followingID int64) (*domain.Follower, error) {
	if followerID == followingID {
		return nil, domain.ErrCannotFollowSelf
	}
	if _, err := s.users.GetByID(ctx, followingID); err != nil {
		return nil, mapAbsence(err)
	}

	follower := domain.NewFollower(followerID, followingID)
	if err := s.followers.Add(ctx, follower); err != nil {
		if errors.Is(err, repository.ErrUniqueViolation) {
			return nil, domain.ErrAlreadyFollowing
		}
		return nil, err
	}

	follower.Raise(domain.UserFollowedEvent{
		BaseEvent:   domain.NewBaseEvent(domain.EventUserFollowed),
		FollowerID:  followerID,
		FollowingID: followingID,
	})
	publishEvents(ctx, s.dispatcher, s.logger, follower)

	return follower, nil
}

// Unfollow removes a follow relationship. Unfollowing a user who was never
// followed is NotFound.
func (s *FollowService) Unfollow(ctx context.Context, followerID, followingID int64) error {
	follower, err := s.followers.FirstOrDefault(ctx, repository.NewSpecification().
		Where("follower_id", repository.OpEq, followerID).
		Where("following_id", repository.OpEq, followingID))
	if err != nil {
		return err
	}
	if follower == nil {
		return domain.ErrNotFound
	}

	follower.Raise(domain.UserUnfollowedEvent{
		BaseEvent:   domain.NewBaseEvent(domain.EventUserUnfollowed),
		FollowerID:  followerID,
		FollowingID: followingID,
	})
	pending := follower.Events()
	follower.ClearEvents()

	if err := s.followers.Delete(ctx, follower); err != nil {
		return mapAbsence(err)
	}
	if err := s.dispatcher.Publish(ctx, pending); err != nil {
		s.logger.Error().Err(err).Msg("event dispatch failed")
	}
	return nil
}

// Followers lists the users following the given user.
func (s *FollowService) Followers(ctx context.Context, userID int64, pageNumber, pageSize int) ([]*domain.Follower, int64, error) {
	spec := repository.NewSpecification().
		Where("following_id", repository.OpEq, userID).
		Include("FollowerUser").
		OrderByDescending("created_at").
		Paginate(pageNumber, pageSize)

	rows, err := s.followers.List(ctx, spec)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.followers.Count(ctx, spec)
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// Following lists the users the given user follows.
func (s *FollowService) Following(ctx context.Context, userID int64, pageNumber, pageSize int) ([]*domain.Follower, int64, error) {
	spec := repository.NewSpecification().
		Where("follower_id", repository.OpEq, userID).
		Include("FollowingUser").
		OrderByDescending("created_at").
		Paginate(pageNumber, pageSize)

	rows, err := s.followers.List(ctx, spec)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.followers.Count(ctx, spec)
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// IsFollowing reports whether followerID currently follows followingID.
func (s *FollowService) IsFollowing(ctx context.Context, followerID, followingID int64) (bool, error) {
	return s.followers.Any(ctx, repository.NewSpecification().
		Where("follower_id", repository.OpEq, followerID).
		Where("following_id", repository.OpEq, followingID))
}
