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

// recordingHandler captures every event it receives.
type recordingHandler struct {
	received []domain.Event
}

func (h *recordingHandler) Handle(_ context.Context, event domain.Event) error {
	h.received = append(h.received, event)
	return nil
}

func TestLikeRejectsUnknownTargetBeforeStorage(t *testing.T) {
	// No mock methods are wired: any repository access panics the test.
	svc := NewLikeService(
		&repoMock[domain.Like]{},
		&postRepoMock{},
		&repoMock[domain.Comment]{},
		events.NewDispatcher(zerolog.Nop()),
		zerolog.Nop(),
	)

	_, err := svc.Like(context.Background(), 1, "user", 5)
	assert.ErrorIs(t, err, domain.ErrInvalidLikeTarget)
	assert.ErrorIs(t, err, domain.ErrValidation)

	err = svc.Unlike(context.Background(), 1, "article", 5)
	assert.ErrorIs(t, err, domain.ErrInvalidLikeTarget)

	_, err = svc.Count(context.Background(), "", 5)
	assert.ErrorIs(t, err, domain.ErrInvalidLikeTarget)
}

func TestLikeDuplicateIsRuleViolation(t *testing.T) {
	post := &domain.Post{Entity: domain.NewEntity(), AuthorID: 9}
	post.ID = 5

	likes := &repoMock[domain.Like]{
		add: func(_ context.Context, _ *domain.Like) error {
			return repository.ErrUniqueViolation
		},
	}
	posts := &postRepoMock{}
	posts.getByID = func(_ context.Context, id int64) (*domain.Post, error) {
		require.Equal(t, int64(5), id)
		return post, nil
	}

	svc := NewLikeService(likes, posts, &repoMock[domain.Comment]{},
		events.NewDispatcher(zerolog.Nop()), zerolog.Nop())

	_, err := svc.Like(context.Background(), 1, domain.LikeTargetPost, 5)
	assert.ErrorIs(t, err, domain.ErrAlreadyLiked)
	assert.ErrorIs(t, err, domain.ErrRuleViolation)
}

func TestLikeResolvesOwnerIntoEvent(t *testing.T) {
	comment := &domain.Comment{Entity: domain.NewEntity(), AuthorID: 42}
	comment.ID = 7

	likes := &repoMock[domain.Like]{
		add: func(_ context.Context, like *domain.Like) error {
			like.ID = 100
			return nil
		},
	}
	comments := &repoMock[domain.Comment]{
		getByID: func(_ context.Context, id int64) (*domain.Comment, error) {
			require.Equal(t, int64(7), id)
			return comment, nil
		},
	}

	dispatcher := events.NewDispatcher(zerolog.Nop())
	recorder := &recordingHandler{}
	dispatcher.Register(domain.EventEntityLiked, recorder)

	svc := NewLikeService(likes, &postRepoMock{}, comments, dispatcher, zerolog.Nop())

	like, err := svc.Like(context.Background(), 1, domain.LikeTargetComment, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(100), like.ID)
	assert.Empty(t, like.Events())

	require.Len(t, recorder.received, 1)
	liked, ok := recorder.received[0].(domain.EntityLikedEvent)
	require.True(t, ok)
	assert.Equal(t, int64(100), liked.LikeID)
	assert.Equal(t, int64(42), liked.OwnerID)
	assert.Equal(t, domain.LikeTargetComment, liked.EntityType)
}

func TestLikeMissingTargetIsNotFound(t *testing.T) {
	posts := &postRepoMock{}
	posts.getByID = func(_ context.Context, _ int64) (*domain.Post, error) {
		return nil, repository.ErrNotFound
	}

	svc := NewLikeService(&repoMock[domain.Like]{}, posts, &repoMock[domain.Comment]{},
		events.NewDispatcher(zerolog.Nop()), zerolog.Nop())

	_, err := svc.Like(context.Background(), 1, domain.LikeTargetPost, 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUnlikeMissingIsNotFound(t *testing.T) {
	likes := &repoMock[domain.Like]{
		firstOrDefault: func(_ context.Context, _ *repository.Specification) (*domain.Like, error) {
			return nil, nil
		},
	}

	svc := NewLikeService(likes, &postRepoMock{}, &repoMock[domain.Comment]{},
		events.NewDispatcher(zerolog.Nop()), zerolog.Nop())

	err := svc.Unlike(context.Background(), 1, domain.LikeTargetPost, 5)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUnlikePublishesRemovalEvent(t *testing.T) {
	existing := domain.NewLike(1, domain.LikeTargetPost, 5)
	existing.ID = 33

	likes := &repoMock[domain.Like]{
		firstOrDefault: func(_ context.Context, _ *repository.Specification) (*domain.Like, error) {
			return existing, nil
		},
		remove: func(_ context.Context, like *domain.Like) error {
			require.Equal(t, int64(33), like.ID)
			return nil
		},
	}

	dispatcher := events.NewDispatcher(zerolog.Nop())
	recorder := &recordingHandler{}
	dispatcher.Register(domain.EventLikeRemoved, recorder)

	svc := NewLikeService(likes, &postRepoMock{}, &repoMock[domain.Comment]{}, dispatcher, zerolog.Nop())

	require.NoError(t, svc.Unlike(context.Background(), 1, domain.LikeTargetPost, 5))
	require.Len(t, recorder.received, 1)
	removed, ok := recorder.received[0].(domain.LikeRemovedEvent)
	require.True(t, ok)
	assert.Equal(t, int64(5), removed.EntityID)
}
