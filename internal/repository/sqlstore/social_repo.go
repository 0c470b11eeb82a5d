package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/domain"
	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/repository"
)

// likeRepository implements repository.LikeRepository.
type likeRepository struct {
	*store[domain.Like]
}

var _ repository.LikeRepository = (*likeRepository)(nil)

func likeMapper() mapper[domain.Like] {
	return mapper[domain.Like]{
		table:   "likes",
		columns: []string{"id", "created_at", "updated_at", "user_id", "entity_type", "entity_id"},
		fields: map[string]string{
			"id":          "id",
			"created_at":  "created_at",
			"user_id":     "user_id",
			"entity_type": "entity_type",
			"entity_id":   "entity_id",
		},
		scan: func(row rowScanner) (*domain.Like, error) {
			var (
				l         domain.Like
				createdAt string
				updatedAt sql.NullString
			)
			if err := row.Scan(&l.ID, &createdAt, &updatedAt, &l.UserID, &l.EntityType, &l.EntityID); err != nil {
				return nil, err
			}
			l.CreatedAt = parseTime(createdAt)
			l.UpdatedAt = parseNullTime(updatedAt)
			return &l, nil
		},
		values: func(l *domain.Like) []any {
			return []any{formatTime(l.CreatedAt), formatNullTime(l.UpdatedAt), l.UserID, l.EntityType, l.EntityID}
		},
		id:    func(l *domain.Like) int64 { return l.ID },
		setID: func(l *domain.Like, id int64) { l.ID = id },
		touch: func(l *domain.Like) { l.Touch() },
	}
}

// NewLikeRepository creates the likes store.
func NewLikeRepository(db *DB) repository.LikeRepository {
	return &likeRepository{store: newStore(db, likeMapper())}
}

// followerRepository implements repository.FollowerRepository.
type followerRepository struct {
	*store[domain.Follower]
}

var _ repository.FollowerRepository = (*followerRepository)(nil)

func followerMapper() mapper[domain.Follower] {
	m := mapper[domain.Follower]{
		table:   "followers",
		columns: []string{"id", "created_at", "updated_at", "follower_id", "following_id"},
		fields: map[string]string{
			"id":           "id",
			"created_at":   "created_at",
			"follower_id":  "follower_id",
			"following_id": "following_id",
		},
		scan: func(row rowScanner) (*domain.Follower, error) {
			var (
				f         domain.Follower
				createdAt string
				updatedAt sql.NullString
			)
			if err := row.Scan(&f.ID, &createdAt, &updatedAt, &f.FollowerID, &f.FollowingID); err != nil {
				return nil, err
			}
			f.CreatedAt = parseTime(createdAt)
			f.UpdatedAt = parseNullTime(updatedAt)
			return &f, nil
		},
		values: func(f *domain.Follower) []any {
			return []any{formatTime(f.CreatedAt), formatNullTime(f.UpdatedAt), f.FollowerID, f.FollowingID}
		},
		id:    func(f *domain.Follower) int64 { return f.ID },
		setID: func(f *domain.Follower, id int64) { f.ID = id },
		touch: func(f *domain.Follower) { f.Touch() },
	}
	m.includes = map[string]includeLoader[domain.Follower]{
		"FollowerUser": func(ctx context.Context, db *DB, rels []*domain.Follower) error {
			return loadFollowerUsers(ctx, db, rels,
				func(f *domain.Follower) int64 { return f.FollowerID },
				func(f *domain.Follower, u *domain.User) { f.FollowerUser = u },
			)
		},
		"FollowingUser": func(ctx context.Context, db *DB, rels []*domain.Follower) error {
			return loadFollowerUsers(ctx, db, rels,
				func(f *domain.Follower) int64 { return f.FollowingID },
				func(f *domain.Follower, u *domain.User) { f.FollowingUser = u },
			)
		},
	}
	return m
}

// NewFollowerRepository creates the followers store.
func NewFollowerRepository(db *DB) repository.FollowerRepository {
	return &followerRepository{store: newStore(db, followerMapper())}
}

func loadFollowerUsers(
	ctx context.Context,
	db *DB,
	rels []*domain.Follower,
	key func(*domain.Follower) int64,
	assign func(*domain.Follower, *domain.User),
) error {
	userIDs := make(map[int64]struct{}, len(rels))
	for _, f := range rels {
		userIDs[key(f)] = struct{}{}
	}
	ids := make([]any, 0, len(userIDs))
	for id := range userIDs {
		ids = append(ids, id)
	}

	um := userMapper()
	query := db.rebind(fmt.Sprintf(
		"SELECT %s FROM users WHERE id IN (%s)",
		strings.Join(um.columns, ", "), inPlaceholders(len(ids)),
	))

	rows, err := db.QueryContext(ctx, query, ids...)
	if err != nil {
		return storeErr("load follower users", err)
	}
	defer rows.Close()

	users := make(map[int64]*domain.User)
	for rows.Next() {
		u, err := um.scan(rows)
		if err != nil {
			return storeErr("load follower users", err)
		}
		users[u.ID] = u
	}
	if err := rows.Err(); err != nil {
		return storeErr("load follower users", err)
	}

	for _, f := range rels {
		assign(f, users[key(f)])
	}
	return nil
}

// savedPostRepository implements repository.SavedPostRepository.
type savedPostRepository struct {
	*store[domain.SavedPost]
}

var _ repository.SavedPostRepository = (*savedPostRepository)(nil)

func savedPostMapper() mapper[domain.SavedPost] {
	m := mapper[domain.SavedPost]{
		table:   "saved_posts",
		columns: []string{"id", "created_at", "updated_at", "user_id", "post_id"},
		fields: map[string]string{
			"id":         "id",
			"created_at": "created_at",
			"user_id":    "user_id",
			"post_id":    "post_id",
		},
		scan: func(row rowScanner) (*domain.SavedPost, error) {
			var (
				sp        domain.SavedPost
				createdAt string
				updatedAt sql.NullString
			)
			if err := row.Scan(&sp.ID, &createdAt, &updatedAt, &sp.UserID, &sp.PostID); err != nil {
				return nil, err
			}
			sp.CreatedAt = parseTime(createdAt)
			sp.UpdatedAt = parseNullTime(updatedAt)
			return &sp, nil
		},
		values: func(sp *domain.SavedPost) []any {
			return []any{formatTime(sp.CreatedAt), formatNullTime(sp.UpdatedAt), sp.UserID, sp.PostID}
		},
		id:    func(sp *domain.SavedPost) int64 { return sp.ID },
		setID: func(sp *domain.SavedPost, id int64) { sp.ID = id },
		touch: func(sp *domain.SavedPost) { sp.Touch() },
	}
	m.includes = map[string]includeLoader[domain.SavedPost]{
		"Post": loadSavedPostPosts,
	}
	return m
}

// NewSavedPostRepository creates the saved_posts store.
func NewSavedPostRepository(db *DB) repository.SavedPostRepository {
	return &savedPostRepository{store: newStore(db, savedPostMapper())}
}

func loadSavedPostPosts(ctx context.Context, db *DB, saved []*domain.SavedPost) error {
	postIDs := make(map[int64]struct{}, len(saved))
	for _, sp := range saved {
		postIDs[sp.PostID] = struct{}{}
	}
	ids := make([]any, 0, len(postIDs))
	for id := range postIDs {
		ids = append(ids, id)
	}

	pm := postMapper()
	query := db.rebind(fmt.Sprintf(
		"SELECT %s FROM posts WHERE id IN (%s)",
		strings.Join(pm.columns, ", "), inPlaceholders(len(ids)),
	))

	rows, err := db.QueryContext(ctx, query, ids...)
	if err != nil {
		return storeErr("load saved posts", err)
	}
	defer rows.Close()

	posts := make(map[int64]*domain.Post)
	for rows.Next() {
		p, err := pm.scan(rows)
		if err != nil {
			return storeErr("load saved posts", err)
		}
		posts[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return storeErr("load saved posts", err)
	}

	for _, sp := range saved {
		sp.Post = posts[sp.PostID]
	}
	return nil
}
