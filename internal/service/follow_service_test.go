package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/domain"
	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/events"
	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/repository"
)

func TestFollowSelfIsRuleViolation(t *testing.T) {
	svc := NewFollowService(&repoMock[domain.Follower]{}, &userRepoMock{},
		events.NewDispatcher(zerolog.Nop()), zerolog.Nop())

	_, err := svc.Follow(context.Background(), 7, 7)
	assert.ErrorIs(t, err, domain.ErrCannotFollowSelf)
	assert.ErrorIs(t, err, domain.ErrRuleViolation)
}

func TestFollowUnknownUserIsNotFound(t *testing.T) {
	users := &userRepoMock{}
	users.getByID = func(_ context.Context, _ int64) (*domain.User, error) {
		return nil, repository.ErrNotFound
	}

	svc := NewFollowService(&repoMock[domain.Follower]{}, users,
		events.NewDispatcher(zerolog.Nop()), zerolog.Nop())

	_, err := svc.Follow(context.Background(), 1, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFollowDuplicateIsRuleViolation(t *testing.T) {
	target := domain.NewUser("bob", "bob@example.com", "x")
	target.ID = 2

	users := &userRepoMock{}
	users.getByID = func(_ context.Context, _ int64) (*domain.User, error) {
		return target, nil
	}
	followers := &repoMock[domain.Follower]{
		add: func(_ context.Context, _ *domain.Follower) error {
			return repository.ErrUniqueViolation
		},
	}

	svc := NewFollowService(followers, users, events.NewDispatcher(zerolog.Nop()), zerolog.Nop())

	_, err := svc.Follow(context.Background(), 1, 2)
	assert.ErrorIs(t, err, domain.ErrAlreadyFollowing)
}

func TestFollowPublishesEvent(t *testing.T) {
	target := domain.NewUser("bob", "bob@example.com", "x")
	target.ID = 2

	users := &userRepoMock{}
	users.getByID = func(_ context.Context, _ int64) (*domain.User, error) {
		return target, nil
	}
	followers := &repoMock[domain.Follower]{
		add: func(_ context.Context, f *domain.Follower) error {
			f.ID = 11
			return nil
		},
	}

	dispatcher := events.NewDispatcher(zerolog.Nop())
	recorder := &recordingHandler{}
	dispatcher.Register(domain.EventUserFollowed, recorder)

	svc := NewFollowService(followers, users, dispatcher, zerolog.Nop())

	follower, err := svc.Follow(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(11), follower.ID)
	assert.Empty(t, follower.Events())

	require.Len(t, recorder.received, 1)
	followed, ok := recorder.received[0].(domain.UserFollowedEvent)
	require.True(t, ok)
	assert.Equal(t, int64(1), followed.FollowerID)
	assert.Equal(t, int64(2), followed.FollowingID)
}

func TestUnfollowMissingIsNotFound(t *testing.T) {
	followers := &repoMock[domain.Follower]{
		firstOrDefault: func(_ context.Context, _ *repository.Specification) (*domain.Follower, error) {
			return nil, nil
		},
	}

	svc := NewFollowService(followers, &userRepoMock{},
		events.NewDispatcher(zerolog.Nop()), zerolog.Nop())

	err := svc.Unfollow(context.Background(), 1, 2)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSaveMissingPostIsNotFound(t *testing.T) {
	posts := &postRepoMock{}
	posts.getByID = func(_ context.Context, _ int64) (*domain.Post, error) {
		return nil, repository.ErrNotFound
	}

	svc := NewSavedPostService(&repoMock[domain.SavedPost]{}, posts,
		events.NewDispatcher(zerolog.Nop()), zerolog.Nop())

	_, err := svc.Save(context.Background(), 1, 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSaveDuplicateIsRuleViolation(t *testing.T) {
	post := &domain.Post{Entity: domain.NewEntity(), AuthorID: 3}
	post.ID = 5

	posts := &postRepoMock{}
	posts.getByID = func(_ context.Context, _ int64) (*domain.Post, error) {
		return post, nil
	}
	saved := &repoMock[domain.SavedPost]{
		add: func(_ context.Context, _ *domain.SavedPost) error {
			return repository.ErrUniqueViolation
		},
	}

	svc := NewSavedPostService(saved, posts, events.NewDispatcher(zerolog.Nop()), zerolog.Nop())

	_, err := svc.Save(context.Background(), 1, 5)
	assert.ErrorIs(t, err, domain.ErrAlreadySaved)
}

func TestUnsaveMissingIsNotFound(t *testing.T) {
	saved := &repoMock[domain.SavedPost]{
		firstOrDefault: func(_ context.Context, _ *repository.Specification) (*domain.SavedPost, error) {
			return nil, nil
		},
	}

	svc := NewSavedPostService(saved, &postRepoMock{},
		events.NewDispatcher(zerolog.Nop()), zerolog.Nop())

	err := svc.Unsave(context.Background(), 1, 5)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
