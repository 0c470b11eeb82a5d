package events

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/domain"
)

func TestPublishDeliversInOrder(t *testing.T) {
	d := NewDispatcher(zerolog.Nop())

	var seen []string
	record := func(label string) Handler {
		return HandlerFunc(func(_ context.Context, e domain.Event) error {
			seen = append(seen, label+":"+e.EventName())
			return nil
		})
	}

	d.Register(domain.EventPostSaved, record("first"))
	d.Register(domain.EventPostSaved, record("second"))
	d.Register(domain.EventPostUnsaved, record("first"))

	evts := []domain.Event{
		domain.PostSavedEvent{BaseEvent: domain.NewBaseEvent(domain.EventPostSaved), UserID: 1, PostID: 2},
		domain.PostUnsavedEvent{BaseEvent: domain.NewBaseEvent(domain.EventPostUnsaved), UserID: 1, PostID: 2},
	}

	require.NoError(t, d.Publish(context.Background(), evts))
	assert.Equal(t, []string{
		"first:post.saved",
		"second:post.saved",
		"first:post.unsaved",
	}, seen)
}

func TestPublishIsolatesHandlerFailures(t *testing.T) {
	d := NewDispatcher(zerolog.Nop())

	boom := errors.New("sink unavailable")
	var delivered int

	d.Register(domain.EventUserFollowed, HandlerFunc(func(context.Context, domain.Event) error {
		return boom
	}))
	d.Register(domain.EventUserFollowed, HandlerFunc(func(context.Context, domain.Event) error {
		delivered++
		return nil
	}))

	evts := []domain.Event{
		domain.UserFollowedEvent{BaseEvent: domain.NewBaseEvent(domain.EventUserFollowed), FollowerID: 1, FollowingID: 2},
		domain.UserFollowedEvent{BaseEvent: domain.NewBaseEvent(domain.EventUserFollowed), FollowerID: 3, FollowingID: 2},
	}

	err := d.Publish(context.Background(), evts)
	assert.ErrorIs(t, err, boom)
	// The failing first handler never blocked the second.
	assert.Equal(t, 2, delivered)
}

func TestPublishNoHandlersIsNoop(t *testing.T) {
	d := NewDispatcher(zerolog.Nop())
	err := d.Publish(context.Background(), []domain.Event{
		domain.PostCreatedEvent{BaseEvent: domain.NewBaseEvent(domain.EventPostCreated), PostID: 1, AuthorID: 2},
	})
	assert.NoError(t, err)
}

func TestNotificationSkipsSelf(t *testing.T) {
	// A user commenting on their own post generates no notification row;
	// the nil repository would panic if Add were called.
	h := NewNotificationHandler(nil, zerolog.Nop())
	err := h.Handle(context.Background(), domain.CommentAddedEvent{
		BaseEvent:    domain.NewBaseEvent(domain.EventCommentAdded),
		CommentID:    1,
		PostID:       2,
		AuthorID:     5,
		PostAuthorID: 5,
	})
	assert.NoError(t, err)
}
