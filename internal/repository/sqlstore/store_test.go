package sqlstore

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/domain"
	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/repository"
)

func testDB(t *testing.T) *DB {
	t.Helper()

	cfg := DefaultSQLiteConfig(":memory:")
	cfg.JournalMode = "MEMORY"

	db, err := NewDB(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.Migrate(context.Background()))
	return db
}

func seedUser(t *testing.T, repos *repository.Repositories, username string) *domain.User {
	t.Helper()
	u := domain.NewUser(username, username+"@example.com", "$2a$10$hash")
	require.NoError(t, repos.User.Add(context.Background(), u))
	return u
}

func TestUserCRUD(t *testing.T) {
	repos := NewRepositories(testDB(t))
	ctx := context.Background()

	u := seedUser(t, repos, "alice")
	assert.NotZero(t, u.ID)

	got, err := repos.User.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
	assert.True(t, got.IsActive)
	assert.Nil(t, got.UpdatedAt)

	got.Bio = "hello"
	require.NoError(t, repos.User.Update(ctx, got))

	got, err = repos.User.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Bio)
	assert.NotNil(t, got.UpdatedAt)

	require.NoError(t, repos.User.Delete(ctx, got))
	_, err = repos.User.GetByID(ctx, u.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserUniqueViolation(t *testing.T) {
	repos := NewRepositories(testDB(t))
	ctx := context.Background()

	seedUser(t, repos, "bob")
	dup := domain.NewUser("bob", "other@example.com", "$2a$10$hash")
	err := repos.User.Add(ctx, dup)
	assert.ErrorIs(t, err, repository.ErrUniqueViolation)
}

func TestGetByUsernameAndEmail(t *testing.T) {
	repos := NewRepositories(testDB(t))
	ctx := context.Background()

	u := seedUser(t, repos, "carol")

	got, err := repos.User.GetByUsername(ctx, "carol")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	got, err = repos.User.GetByEmail(ctx, "carol@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = repos.User.GetByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestFirstOrDefaultAbsent(t *testing.T) {
	repos := NewRepositories(testDB(t))

	post, err := repos.Post.FirstOrDefault(context.Background(), repository.NewSpecification().
		Where("slug", repository.OpEq, "missing"))
	require.NoError(t, err)
	assert.Nil(t, post)
}

func TestListFilterOrderPage(t *testing.T) {
	repos := NewRepositories(testDB(t))
	ctx := context.Background()

	author := seedUser(t, repos, "dave")
	titles := []string{"alpha", "bravo", "charlie", "delta", "echo"}
	for i, title := range titles {
		p := domain.NewPost(title, title, "", "body "+title, author.ID)
		if i%2 == 0 {
			p.Publish()
		}
		require.NoError(t, repos.Post.Add(ctx, p))
	}

	published, err := repos.Post.List(ctx, repository.NewSpecification().
		Where("published", repository.OpEq, true).
		OrderBy("title"))
	require.NoError(t, err)
	require.Len(t, published, 3)
	assert.Equal(t, "alpha", published[0].Title)
	assert.Equal(t, "echo", published[2].Title)

	// Second page of two, ordered by title.
	page, err := repos.Post.List(ctx, repository.NewSpecification().
		OrderBy("title").
		Paginate(2, 2))
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "charlie", page[0].Title)
	assert.Equal(t, "delta", page[1].Title)

	// Count ignores paging.
	total, err := repos.Post.Count(ctx, repository.NewSpecification().Paginate(2, 2))
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)

	exists, err := repos.Post.Any(ctx, repository.NewSpecification().
		Where("published", repository.OpEq, false))
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestListUnknownFieldRejected(t *testing.T) {
	repos := NewRepositories(testDB(t))

	_, err := repos.Post.List(context.Background(), repository.NewSpecification().
		Where("title; DROP TABLE posts", repository.OpEq, "x"))
	assert.ErrorIs(t, err, repository.ErrUnknownField)
}

func TestPostIncludes(t *testing.T) {
	repos := NewRepositories(testDB(t))
	ctx := context.Background()

	author := seedUser(t, repos, "erin")
	post := domain.NewPost("go generics", "go-generics", "", "body", author.ID)
	require.NoError(t, repos.Post.Add(ctx, post))

	cat := domain.NewCategory("Engineering", "engineering", "")
	require.NoError(t, repos.Category.Add(ctx, cat))
	tag := domain.NewTag("go", "go")
	require.NoError(t, repos.Tag.Add(ctx, tag))

	require.NoError(t, repos.Post.ReplaceCategories(ctx, post.ID, []int64{cat.ID}))
	require.NoError(t, repos.Post.ReplaceTags(ctx, post.ID, []int64{tag.ID}))

	comment := domain.NewComment(post.ID, author.ID, nil, "nice")
	require.NoError(t, repos.Comment.Add(ctx, comment))

	loaded, err := repos.Post.List(ctx, repository.NewSpecification().
		Where("slug", repository.OpEq, "go-generics").
		Include("Author", "PostCategories.Category", "PostTags.Tag", "Comments"))
	require.NoError(t, err)
	require.Len(t, loaded, 1)

	p := loaded[0]
	require.NotNil(t, p.Author)
	assert.Equal(t, "erin", p.Author.Username)
	require.Len(t, p.Categories, 1)
	assert.Equal(t, "engineering", p.Categories[0].Slug)
	require.Len(t, p.Tags, 1)
	assert.Equal(t, "go", p.Tags[0].Slug)
	require.Len(t, p.Comments, 1)
	assert.Equal(t, "nice", p.Comments[0].Content)
}

func TestUnknownIncludeRejected(t *testing.T) {
	repos := NewRepositories(testDB(t))
	ctx := context.Background()

	author := seedUser(t, repos, "frank")
	post := domain.NewPost("t", "t", "", "b", author.ID)
	require.NoError(t, repos.Post.Add(ctx, post))

	_, err := repos.Post.List(ctx, repository.NewSpecification().Include("Nope"))
	assert.ErrorIs(t, err, repository.ErrUnknownInclude)
}

func TestReplaceCategoriesIsIdempotentSet(t *testing.T) {
	repos := NewRepositories(testDB(t))
	ctx := context.Background()

	author := seedUser(t, repos, "gina")
	post := domain.NewPost("t", "t2", "", "b", author.ID)
	require.NoError(t, repos.Post.Add(ctx, post))

	c1 := domain.NewCategory("A", "a", "")
	c2 := domain.NewCategory("B", "b", "")
	require.NoError(t, repos.Category.Add(ctx, c1))
	require.NoError(t, repos.Category.Add(ctx, c2))

	require.NoError(t, repos.Post.ReplaceCategories(ctx, post.ID, []int64{c1.ID, c2.ID}))
	require.NoError(t, repos.Post.ReplaceCategories(ctx, post.ID, []int64{c2.ID}))

	loaded, err := repos.Post.GetByID(ctx, post.ID)
	require.NoError(t, err)
	require.NoError(t, loadPostCategories(ctx, repos.Post.(*postRepository).db, []*domain.Post{loaded}))
	require.Len(t, loaded.Categories, 1)
	assert.Equal(t, "b", loaded.Categories[0].Slug)
}

func TestIncrementViews(t *testing.T) {
	repos := NewRepositories(testDB(t))
	ctx := context.Background()

	author := seedUser(t, repos, "hugo")
	post := domain.NewPost("t", "t3", "", "b", author.ID)
	require.NoError(t, repos.Post.Add(ctx, post))

	require.NoError(t, repos.Post.IncrementViews(ctx, post.ID))
	require.NoError(t, repos.Post.IncrementViews(ctx, post.ID))

	got, err := repos.Post.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.ViewCount)

	err = repos.Post.IncrementViews(ctx, 9999)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestLikeUniqueTriple(t *testing.T) {
	repos := NewRepositories(testDB(t))
	ctx := context.Background()

	u := seedUser(t, repos, "iris")
	require.NoError(t, repos.Like.Add(ctx, domain.NewLike(u.ID, domain.LikeTargetPost, 1)))

	err := repos.Like.Add(ctx, domain.NewLike(u.ID, domain.LikeTargetPost, 1))
	assert.ErrorIs(t, err, repository.ErrUniqueViolation)

	// Same user, different target type is a distinct like.
	require.NoError(t, repos.Like.Add(ctx, domain.NewLike(u.ID, domain.LikeTargetComment, 1)))
}

func TestRolePermissionIncludes(t *testing.T) {
	repos := NewRepositories(testDB(t))
	ctx := context.Background()

	perm := domain.NewPermission("Create Post", "Permissions.Posts.Create", "Posts", "")
	require.NoError(t, repos.Permission.Add(ctx, perm))

	role := domain.NewRole("Editor", "editor", "")
	require.NoError(t, repos.Role.Add(ctx, role))

	grant := &domain.RoleGrant{Entity: domain.NewEntity(), RoleID: role.ID, PermissionID: perm.ID}
	require.NoError(t, repos.RoleGrant.Add(ctx, grant))

	u := seedUser(t, repos, "jane")
	assignment := &domain.UserRole{Entity: domain.NewEntity(), UserID: u.ID, RoleID: role.ID}
	require.NoError(t, repos.UserRole.Add(ctx, assignment))

	loaded, err := repos.UserRole.List(ctx, repository.NewSpecification().
		Where("user_id", repository.OpEq, u.ID).
		Include("Role.Permissions"))
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	require.NotNil(t, loaded[0].Role)
	assert.Equal(t, "editor", loaded[0].Role.Slug)
	require.Len(t, loaded[0].Role.Permissions, 1)
	assert.Equal(t, "Permissions.Posts.Create", loaded[0].Role.Permissions[0].Slug)
}

func TestUpdateMissingRowIsNotFound(t *testing.T) {
	repos := NewRepositories(testDB(t))

	ghost := domain.NewUser("ghost", "ghost@example.com", "x")
	ghost.ID = 12345

	err := repos.User.Update(context.Background(), ghost)
	assert.True(t, errors.Is(err, repository.ErrNotFound))
}
