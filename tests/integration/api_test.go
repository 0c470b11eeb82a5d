// Package integration provides end-to-end tests for the blogging HTTP API.
package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/auth"
	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/events"
	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/handler"
	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/media"
	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/metrics"
	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/pkg/crypto"
	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/repository"
	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/repository/sqlstore"
	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/service"
	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/tokenstore"
)

// testAPI bundles the running server with handles the tests use for setup.
type testAPI struct {
	server      *httptest.Server
	repos       *repository.Repositories
	permissions *service.PermissionService
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	ctx := context.Background()
	logger := zerolog.Nop()

	cfg := sqlstore.DefaultSQLiteConfig(":memory:")
	cfg.JournalMode = "MEMORY"
	db, err := sqlstore.NewDB(ctx, cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate(ctx))

	repos := sqlstore.NewRepositories(db)

	tokenManager, err := auth.NewTokenManager(auth.TokenConfig{
		Secret:    "integration-test-secret-0123456789ab",
		Issuer:    "blog-test",
		Audience:  "blog-test",
		AccessTTL: time.Minute,
	})
	require.NoError(t, err)

	dispatcher := events.NewDispatcher(logger)
	events.NewAuditHandler(repos.AuditLog, logger).RegisterAll(dispatcher)
	events.NewNotificationHandler(repos.Notification, logger).RegisterAll(dispatcher)

	refreshStore := tokenstore.NewMemoryStore()
	t.Cleanup(func() { refreshStore.Close() })

	authorizer := auth.NewAuthorizer(logger)
	hasher := crypto.NewBcryptHasher(4)

	permissionService := service.NewPermissionService(repos, logger)
	authService := service.NewAuthService(repos.User, permissionService, tokenManager, refreshStore, hasher, time.Hour, logger)
	postService := service.NewPostService(repos.Post, repos.Category, repos.Tag, dispatcher, logger)
	categoryService := service.NewCategoryService(repos.Category, logger)
	tagService := service.NewTagService(repos.Tag, logger)
	commentService := service.NewCommentService(repos.Comment, repos.Post, dispatcher, logger)
	likeService := service.NewLikeService(repos.Like, repos.Post, repos.Comment, dispatcher, logger)
	followService := service.NewFollowService(repos.Follower, repos.User, dispatcher, logger)
	savedPostService := service.NewSavedPostService(repos.SavedPost, repos.Post, dispatcher, logger)
	userService := service.NewUserService(repos.User, repos.Notification, logger)
	mediaService := service.NewMediaService(repos.Media, media.Disabled(), logger)

	router := handler.NewRouter(handler.RouterConfig{
		AuthHandler:     handler.NewAuthHandler(authService, logger),
		PostHandler:     handler.NewPostHandler(postService, authorizer, logger),
		TaxonomyHandler: handler.NewTaxonomyHandler(categoryService, tagService, authorizer, logger),
		CommentHandler:  handler.NewCommentHandler(commentService, authorizer, logger),
		SocialHandler:   handler.NewSocialHandler(likeService, followService, savedPostService, logger),
		UserHandler:     handler.NewUserHandler(userService, authorizer, logger),
		MediaHandler:    handler.NewMediaHandler(mediaService, authorizer, logger),
		AdminHandler:    handler.NewAdminHandler(permissionService, authorizer, logger),
		TokenManager:    tokenManager,
		Metrics:         metrics.New(),
		Health:          db,
		Logger:          logger,
	})

	server := httptest.NewServer(router.Handler())
	t.Cleanup(server.Close)

	return &testAPI{server: server, repos: repos, permissions: permissionService}
}

// do sends a JSON request and decodes the response body into out when the
// pointer is non-nil.
func (a *testAPI) do(t *testing.T, method, path, token string, body, out any) int {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, a.server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

// register creates an account and returns its user id.
func (a *testAPI) register(t *testing.T, username string) int64 {
	t.Helper()
	var user struct {
		ID int64 `json:"id"`
	}
	status := a.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "password1",
	}, &user)
	require.Equal(t, http.StatusCreated, status)
	return user.ID
}

// login returns an access token for the user.
func (a *testAPI) login(t *testing.T, username string) string {
	t.Helper()
	var pair struct {
		AccessToken string `json:"access_token"`
	}
	status := a.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": username,
		"password": "password1",
	}, &pair)
	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, pair.AccessToken)
	return pair.AccessToken
}

// grant records a direct permission grant, creating the permission row on
// first use.
func (a *testAPI) grant(t *testing.T, userID int64, slug string) {
	t.Helper()
	ctx := context.Background()

	perm, err := a.repos.Permission.GetBySlug(ctx, slug)
	if err != nil {
		created, cerr := a.permissions.CreatePermission(ctx, service.CreatePermissionInput{
			Name: slug,
			Slug: slug,
		})
		require.NoError(t, cerr)
		perm = created
	}
	require.NoError(t, a.permissions.SetUserGrant(ctx, userID, perm.ID, true))
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)

	var body map[string]string
	status := api.do(t, http.MethodGet, "/health", "", nil, &body)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "healthy", body["status"])
}

func TestAuthFlow(t *testing.T) {
	api := newTestAPI(t)
	api.register(t, "alice")

	// Wrong password
	status := api.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "alice",
		"password": "wrong",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	// Duplicate registration
	status = api.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "password1",
	}, nil)
	assert.Equal(t, http.StatusConflict, status)

	// Refresh rotation
	var pair struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	status = api.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "alice",
		"password": "password1",
	}, &pair)
	require.Equal(t, http.StatusOK, status)

	var rotated struct {
		RefreshToken string `json:"refresh_token"`
	}
	status = api.do(t, http.MethodPost, "/api/auth/refresh", "", map[string]string{
		"refresh_token": pair.RefreshToken,
	}, &rotated)
	require.Equal(t, http.StatusOK, status)
	assert.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	// The old refresh token is dead after rotation.
	status = api.do(t, http.MethodPost, "/api/auth/refresh", "", map[string]string{
		"refresh_token": pair.RefreshToken,
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestPostLifecycle(t *testing.T) {
	api := newTestAPI(t)
	aliceID := api.register(t, "alice")
	api.register(t, "bob")

	api.grant(t, aliceID, auth.PermPostsCreate)
	alice := api.login(t, "alice")
	bob := api.login(t, "bob")

	// Anonymous create is rejected.
	status := api.do(t, http.MethodPost, "/api/posts", "", map[string]any{
		"title": "x", "slug": "x", "content": "x",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	// Bob lacks the permission.
	status = api.do(t, http.MethodPost, "/api/posts", bob, map[string]any{
		"title": "x", "slug": "x", "content": "x",
	}, nil)
	assert.Equal(t, http.StatusForbidden, status)

	var post struct {
		ID        int64  `json:"id"`
		Slug      string `json:"slug"`
		Published bool   `json:"published"`
	}
	status = api.do(t, http.MethodPost, "/api/posts", alice, map[string]any{
		"title":   "First Post",
		"slug":    "first-post",
		"content": "Hello, world.",
		"publish": true,
	}, &post)
	require.Equal(t, http.StatusCreated, status)
	assert.True(t, post.Published)

	// Duplicate slug conflicts.
	status = api.do(t, http.MethodPost, "/api/posts", alice, map[string]any{
		"title": "Again", "slug": "first-post", "content": "x",
	}, nil)
	assert.Equal(t, http.StatusConflict, status)

	// Public read, by id and by slug.
	status = api.do(t, http.MethodGet, fmt.Sprintf("/api/posts/%d", post.ID), "", nil, nil)
	assert.Equal(t, http.StatusOK, status)
	status = api.do(t, http.MethodGet, "/api/posts/slug/first-post", "", nil, nil)
	assert.Equal(t, http.StatusOK, status)

	var listing struct {
		Total int64 `json:"total"`
	}
	status = api.do(t, http.MethodGet, "/api/posts", "", nil, &listing)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(1), listing.Total)

	// Bob cannot edit or delete Alice's post.
	status = api.do(t, http.MethodPut, fmt.Sprintf("/api/posts/%d", post.ID), bob, map[string]any{
		"title": "hijacked",
	}, nil)
	assert.Equal(t, http.StatusForbidden, status)

	// The owner can.
	status = api.do(t, http.MethodPut, fmt.Sprintf("/api/posts/%d", post.ID), alice, map[string]any{
		"title": "First Post, Revised",
	}, nil)
	assert.Equal(t, http.StatusOK, status)

	status = api.do(t, http.MethodDelete, fmt.Sprintf("/api/posts/%d", post.ID), alice, nil, nil)
	assert.Equal(t, http.StatusNoContent, status)

	status = api.do(t, http.MethodGet, fmt.Sprintf("/api/posts/%d", post.ID), "", nil, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestCommentsLikesAndNotifications(t *testing.T) {
	api := newTestAPI(t)
	aliceID := api.register(t, "alice")
	bobID := api.register(t, "bob")

	api.grant(t, aliceID, auth.PermPostsCreate)
	api.grant(t, bobID, auth.PermCommentsCreate)
	alice := api.login(t, "alice")
	bob := api.login(t, "bob")

	var post struct {
		ID int64 `json:"id"`
	}
	status := api.do(t, http.MethodPost, "/api/posts", alice, map[string]any{
		"title": "Commentable", "slug": "commentable", "content": "body", "publish": true,
	}, &post)
	require.Equal(t, http.StatusCreated, status)

	var comment struct {
		ID int64 `json:"id"`
	}
	status = api.do(t, http.MethodPost, fmt.Sprintf("/api/posts/%d/comments", post.ID), bob, map[string]any{
		"content": "Nice post",
	}, &comment)
	require.Equal(t, http.StatusCreated, status)

	// Reply threaded under Bob's comment.
	status = api.do(t, http.MethodPost, fmt.Sprintf("/api/posts/%d/comments", post.ID), bob, map[string]any{
		"content":   "Replying to myself",
		"parent_id": comment.ID,
	}, nil)
	assert.Equal(t, http.StatusCreated, status)

	// Bob likes the post; twice is a rule violation.
	status = api.do(t, http.MethodPost, fmt.Sprintf("/api/likes/post/%d", post.ID), bob, nil, nil)
	require.Equal(t, http.StatusCreated, status)
	status = api.do(t, http.MethodPost, fmt.Sprintf("/api/likes/post/%d", post.ID), bob, nil, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	// Unsupported target type is a validation failure, not a 404.
	status = api.do(t, http.MethodPost, "/api/likes/user/1", bob, nil, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	var count map[string]int64
	status = api.do(t, http.MethodGet, fmt.Sprintf("/api/likes/post/%d/count", post.ID), "", nil, &count)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(1), count["count"])

	status = api.do(t, http.MethodDelete, fmt.Sprintf("/api/likes/post/%d", post.ID), bob, nil, nil)
	assert.Equal(t, http.StatusNoContent, status)
	status = api.do(t, http.MethodDelete, fmt.Sprintf("/api/likes/post/%d", post.ID), bob, nil, nil)
	assert.Equal(t, http.StatusNotFound, status)

	// Alice was notified about the comment and the like.
	var inbox struct {
		Total int64 `json:"total"`
	}
	status = api.do(t, http.MethodGet, "/api/notifications", alice, nil, &inbox)
	require.Equal(t, http.StatusOK, status)
	assert.GreaterOrEqual(t, inbox.Total, int64(2))
}

func TestFollowAndSavedPosts(t *testing.T) {
	api := newTestAPI(t)
	aliceID := api.register(t, "alice")
	bobID := api.register(t, "bob")

	api.grant(t, aliceID, auth.PermPostsCreate)
	alice := api.login(t, "alice")
	bob := api.login(t, "bob")

	// Self-follow is a rule violation.
	status := api.do(t, http.MethodPost, fmt.Sprintf("/api/users/%d/follow", bobID), bob, nil, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	status = api.do(t, http.MethodPost, fmt.Sprintf("/api/users/%d/follow", aliceID), bob, nil, nil)
	require.Equal(t, http.StatusCreated, status)
	status = api.do(t, http.MethodPost, fmt.Sprintf("/api/users/%d/follow", aliceID), bob, nil, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	var followers struct {
		Total int64 `json:"total"`
	}
	status = api.do(t, http.MethodGet, fmt.Sprintf("/api/users/%d/followers", aliceID), "", nil, &followers)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(1), followers.Total)

	var post struct {
		ID int64 `json:"id"`
	}
	status = api.do(t, http.MethodPost, "/api/posts", alice, map[string]any{
		"title": "Saveable", "slug": "saveable", "content": "body", "publish": true,
	}, &post)
	require.Equal(t, http.StatusCreated, status)

	status = api.do(t, http.MethodPost, fmt.Sprintf("/api/posts/%d/save", post.ID), bob, nil, nil)
	require.Equal(t, http.StatusCreated, status)
	status = api.do(t, http.MethodPost, fmt.Sprintf("/api/posts/%d/save", post.ID), bob, nil, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	var saved struct {
		Total int64 `json:"total"`
	}
	status = api.do(t, http.MethodGet, "/api/saved-posts", bob, nil, &saved)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(1), saved.Total)

	status = api.do(t, http.MethodDelete, fmt.Sprintf("/api/posts/%d/save", post.ID), bob, nil, nil)
	assert.Equal(t, http.StatusNoContent, status)
}

func TestAdminRoutesRequireRolesManage(t *testing.T) {
	api := newTestAPI(t)
	aliceID := api.register(t, "alice")
	alice := api.login(t, "alice")

	status := api.do(t, http.MethodGet, "/api/admin/roles", alice, nil, nil)
	assert.Equal(t, http.StatusForbidden, status)

	// The admin role slug bypasses the permission check entirely.
	ctx := context.Background()
	role, err := api.permissions.CreateRole(ctx, service.CreateRoleInput{
		Name: "Administrator",
		Slug: auth.RoleAdmin,
	})
	require.NoError(t, err)
	require.NoError(t, api.permissions.AssignRole(ctx, aliceID, role.ID))

	// Claims are baked at issue time, so log in again.
	alice = api.login(t, "alice")
	status = api.do(t, http.MethodGet, "/api/admin/roles", alice, nil, nil)
	assert.Equal(t, http.StatusOK, status)

	var resolved struct {
		Roles []string `json:"roles"`
	}
	status = api.do(t, http.MethodGet, fmt.Sprintf("/api/admin/users/%d/resolve", aliceID), alice, nil, &resolved)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, resolved.Roles, auth.RoleAdmin)
}
