package service

import (
	"context"
	"fmt"
	"time"

	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/domain"
	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/repository"
)

// repoMock is a hand-rolled Repository[T] double. Unset methods panic so a
// test fails loudly when the code under test touches storage it should not.
type repoMock[T any] struct {
	getByID        func(ctx context.Context, id int64) (*T, error)
	getBySlug      func(ctx context.Context, slug string) (*T, error)
	list           func(ctx context.Context, spec *repository.Specification) ([]*T, error)
	firstOrDefault func(ctx context.Context, spec *repository.Specification) (*T, error)
	count          func(ctx context.Context, spec *repository.Specification) (int64, error)
	exists         func(ctx context.Context, spec *repository.Specification) (bool, error)
	add            func(ctx context.Context, entity *T) error
	update         func(ctx context.Context, entity *T) error
	remove         func(ctx context.Context, entity *T) error
}

func (m *repoMock[T]) GetByID(ctx context.Context, id int64) (*T, error) {
	if m.getByID == nil {
		panic(fmt.Sprintf("unexpected GetByID(%d)", id))
	}
	return m.getByID(ctx, id)
}

func (m *repoMock[T]) GetBySlug(ctx context.Context, slug string) (*T, error) {
	if m.getBySlug == nil {
		panic(fmt.Sprintf("unexpected GetBySlug(%q)", slug))
	}
	return m.getBySlug(ctx, slug)
}

func (m *repoMock[T]) List(ctx context.Context, spec *repository.Specification) ([]*T, error) {
	if m.list == nil {
		panic("unexpected List")
	}
	return m.list(ctx, spec)
}

func (m *repoMock[T]) FirstOrDefault(ctx context.Context, spec *repository.Specification) (*T, error) {
	if m.firstOrDefault == nil {
		panic("unexpected FirstOrDefault")
	}
	return m.firstOrDefault(ctx, spec)
}

func (m *repoMock[T]) Count(ctx context.Context, spec *repository.Specification) (int64, error) {
	if m.count == nil {
		panic("unexpected Count")
	}
	return m.count(ctx, spec)
}

func (m *repoMock[T]) Any(ctx context.Context, spec *repository.Specification) (bool, error) {
	if m.exists == nil {
		panic("unexpected Any")
	}
	return m.exists(ctx, spec)
}

func (m *repoMock[T]) Add(ctx context.Context, entity *T) error {
	if m.add == nil {
		panic("unexpected Add")
	}
	return m.add(ctx, entity)
}

func (m *repoMock[T]) Update(ctx context.Context, entity *T) error {
	if m.update == nil {
		panic("unexpected Update")
	}
	return m.update(ctx, entity)
}

func (m *repoMock[T]) Delete(ctx context.Context, entity *T) error {
	if m.remove == nil {
		panic("unexpected Delete")
	}
	return m.remove(ctx, entity)
}

type userRepoMock struct {
	repoMock[domain.User]
	getByUsername func(ctx context.Context, username string) (*domain.User, error)
	getByEmail    func(ctx context.Context, email string) (*domain.User, error)
}

func (m *userRepoMock) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.getByUsername == nil {
		panic("unexpected GetByUsername")
	}
	return m.getByUsername(ctx, username)
}

func (m *userRepoMock) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.getByEmail == nil {
		panic("unexpected GetByEmail")
	}
	return m.getByEmail(ctx, email)
}

type postRepoMock struct {
	repoMock[domain.Post]
	getBySlug         func(ctx context.Context, slug string) (*domain.Post, error)
	replaceCategories func(ctx context.Context, postID int64, ids []int64) error
	replaceTags       func(ctx context.Context, postID int64, ids []int64) error
	incrementViews    func(ctx context.Context, postID int64) error
}

func (m *postRepoMock) GetBySlug(ctx context.Context, slug string) (*domain.Post, error) {
	if m.getBySlug == nil {
		panic("unexpected GetBySlug")
	}
	return m.getBySlug(ctx, slug)
}

func (m *postRepoMock) ReplaceCategories(ctx context.Context, postID int64, ids []int64) error {
	if m.replaceCategories == nil {
		panic("unexpected ReplaceCategories")
	}
	return m.replaceCategories(ctx, postID, ids)
}

func (m *postRepoMock) ReplaceTags(ctx context.Context, postID int64, ids []int64) error {
	if m.replaceTags == nil {
		panic("unexpected ReplaceTags")
	}
	return m.replaceTags(ctx, postID, ids)
}

func (m *postRepoMock) IncrementViews(ctx context.Context, postID int64) error {
	if m.incrementViews == nil {
		panic("unexpected IncrementViews")
	}
	return m.incrementViews(ctx, postID)
}

// tokenStoreMock is an in-test tokenstore.Store double.
type tokenStoreMock struct {
	save   func(ctx context.Context, token string, userID int64, ttl time.Duration) error
	lookup func(ctx context.Context, token string) (int64, error)
	revoke func(ctx context.Context, token string) error
}

func (m *tokenStoreMock) Save(ctx context.Context, token string, userID int64, ttl time.Duration) error {
	if m.save == nil {
		panic("unexpected Save")
	}
	return m.save(ctx, token, userID, ttl)
}

func (m *tokenStoreMock) Lookup(ctx context.Context, token string) (int64, error) {
	if m.lookup == nil {
		panic("unexpected Lookup")
	}
	return m.lookup(ctx, token)
}

func (m *tokenStoreMock) Revoke(ctx context.Context, token string) error {
	if m.revoke == nil {
		panic("unexpected Revoke")
	}
	return m.revoke(ctx, token)
}

func (m *tokenStoreMock) Close() error { return nil }
