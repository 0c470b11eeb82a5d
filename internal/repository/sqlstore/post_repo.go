package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/domain"
	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/repository"
)

// postRepository implements repository.PostRepository.
type postRepository struct {
	*store[domain.Post]
}

var _ repository.PostRepository = (*postRepository)(nil)

func postMapper() mapper[domain.Post] {
	m := mapper[domain.Post]{
		table: "posts",
		columns: []string{
			"id", "created_at", "updated_at",
			"title", "slug", "summary", "content", "author_id",
			"published", "published_at", "view_count",
		},
		fields: map[string]string{
			"id":           "id",
			"created_at":   "created_at",
			"title":        "title",
			"slug":         "slug",
			"author_id":    "author_id",
			"published":    "published",
			"published_at": "published_at",
			"view_count":   "view_count",
		},
		scan: func(row rowScanner) (*domain.Post, error) {
			var (
				p           domain.Post
				createdAt   string
				updatedAt   sql.NullString
				published   int
				publishedAt sql.NullString
			)
			err := row.Scan(
				&p.ID, &createdAt, &updatedAt,
				&p.Title, &p.Slug, &p.Summary, &p.Content, &p.AuthorID,
				&published, &publishedAt, &p.ViewCount,
			)
			if err != nil {
				return nil, err
			}
			p.CreatedAt = parseTime(createdAt)
			p.UpdatedAt = parseNullTime(updatedAt)
			p.Published = published != 0
			p.PublishedAt = parseNullTime(publishedAt)
			return &p, nil
		},
		values: func(p *domain.Post) []any {
			return []any{
				formatTime(p.CreatedAt), formatNullTime(p.UpdatedAt),
				p.Title, p.Slug, p.Summary, p.Content, p.AuthorID,
				boolToInt(p.Published), formatNullTime(p.PublishedAt), p.ViewCount,
			}
		},
		id:    func(p *domain.Post) int64 { return p.ID },
		setID: func(p *domain.Post, id int64) { p.ID = id },
		touch: func(p *domain.Post) { p.Touch() },
	}
	m.includes = map[string]includeLoader[domain.Post]{
		"Author":                  loadPostAuthors,
		"Categories":              loadPostCategories,
		"PostCategories.Category": loadPostCategories,
		"Tags":                    loadPostTags,
		"PostTags.Tag":            loadPostTags,
		"Comments":                loadPostComments,
	}
	return m
}

// NewPostRepository creates the posts store.
func NewPostRepository(db *DB) repository.PostRepository {
	return &postRepository{store: newStore(db, postMapper())}
}

// GetBySlug retrieves a post by its unique slug.
func (r *postRepository) GetBySlug(ctx context.Context, slug string) (*domain.Post, error) {
	post, err := r.FirstOrDefault(ctx, repository.NewSpecification().
		Where("slug", repository.OpEq, slug))
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, repository.ErrNotFound
	}
	return post, nil
}

// ReplaceCategories replaces the post's category assignments with the given
// set, inside one transaction.
func (r *postRepository) ReplaceCategories(ctx context.Context, postID int64, categoryIDs []int64) error {
	return r.replaceJoinRows(ctx, "post_categories", "category_id", postID, categoryIDs)
}

// ReplaceTags replaces the post's tag assignments with the given set, inside
// one transaction.
func (r *postRepository) ReplaceTags(ctx context.Context, postID int64, tagIDs []int64) error {
	return r.replaceJoinRows(ctx, "post_tags", "tag_id", postID, tagIDs)
}

func (r *postRepository) replaceJoinRows(ctx context.Context, table, refCol string, postID int64, ids []int64) error {
	now := formatTime(time.Now().UTC())
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		del := r.db.rebind(fmt.Sprintf("DELETE FROM %s WHERE post_id = ?", table))
		if _, err := tx.ExecContext(ctx, del, postID); err != nil {
			return storeErr("replace "+table, err)
		}
		ins := r.db.rebind(fmt.Sprintf(
			"INSERT INTO %s (created_at, post_id, %s) VALUES (?, ?, ?)", table, refCol,
		))
		for _, id := range ids {
			if _, err := tx.ExecContext(ctx, ins, now, postID, id); err != nil {
				return storeErr("replace "+table, err)
			}
		}
		return nil
	})
}

// IncrementViews bumps the post's view counter atomically in storage.
func (r *postRepository) IncrementViews(ctx context.Context, postID int64) error {
	query := r.db.rebind("UPDATE posts SET view_count = view_count + 1 WHERE id = ?")
	result, err := r.db.ExecContext(ctx, query, postID)
	if err != nil {
		return storeErr("increment post views", err)
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// =============================================================================
// Include loaders
// =============================================================================

func postIDs(posts []*domain.Post) []int64 {
	ids := make([]int64, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	return ids
}

func inPlaceholders(n int) string {
	ph := make([]string, n)
	for i := range ph {
		ph[i] = "?"
	}
	return strings.Join(ph, ", ")
}

func loadPostAuthors(ctx context.Context, db *DB, posts []*domain.Post) error {
	authorIDs := make(map[int64]struct{}, len(posts))
	for _, p := range posts {
		authorIDs[p.AuthorID] = struct{}{}
	}
	ids := make([]any, 0, len(authorIDs))
	for id := range authorIDs {
		ids = append(ids, id)
	}

	um := userMapper()
	ph := inPlaceholders(len(ids))
	query := db.rebind(fmt.Sprintf(
		"SELECT %s FROM users WHERE id IN (%s)",
		strings.Join(um.columns, ", "), ph,
	))

	rows, err := db.QueryContext(ctx, query, ids...)
	if err != nil {
		return storeErr("load post authors", err)
	}
	defer rows.Close()

	users := make(map[int64]*domain.User)
	for rows.Next() {
		u, err := um.scan(rows)
		if err != nil {
			return storeErr("load post authors", err)
		}
		users[u.ID] = u
	}
	if err := rows.Err(); err != nil {
		return storeErr("load post authors", err)
	}

	for _, p := range posts {
		p.Author = users[p.AuthorID]
	}
	return nil
}

func loadPostCategories(ctx context.Context, db *DB, posts []*domain.Post) error {
	ids := int64sToAny(postIDs(posts))
	ph := inPlaceholders(len(ids))
	query := db.rebind(fmt.Sprintf(`
		SELECT pc.post_id, c.id, c.created_at, c.updated_at, c.name, c.slug, c.description
		FROM post_categories pc
		JOIN categories c ON c.id = pc.category_id
		WHERE pc.post_id IN (%s)
		ORDER BY c.name ASC`, ph))

	rows, err := db.QueryContext(ctx, query, ids...)
	if err != nil {
		return storeErr("load post categories", err)
	}
	defer rows.Close()

	byPost := make(map[int64][]*domain.Category)
	for rows.Next() {
		var (
			postID    int64
			c         domain.Category
			createdAt string
			updatedAt sql.NullString
		)
		if err := rows.Scan(&postID, &c.ID, &createdAt, &updatedAt, &c.Name, &c.Slug, &c.Description); err != nil {
			return storeErr("load post categories", err)
		}
		c.CreatedAt = parseTime(createdAt)
		c.UpdatedAt = parseNullTime(updatedAt)
		byPost[postID] = append(byPost[postID], &c)
	}
	if err := rows.Err(); err != nil {
		return storeErr("load post categories", err)
	}

	for _, p := range posts {
		p.Categories = byPost[p.ID]
	}
	return nil
}

func loadPostTags(ctx context.Context, db *DB, posts []*domain.Post) error {
	ids := int64sToAny(postIDs(posts))
	ph := inPlaceholders(len(ids))
	query := db.rebind(fmt.Sprintf(`
		SELECT pt.post_id, t.id, t.created_at, t.updated_at, t.name, t.slug
		FROM post_tags pt
		JOIN tags t ON t.id = pt.tag_id
		WHERE pt.post_id IN (%s)
		ORDER BY t.name ASC`, ph))

	rows, err := db.QueryContext(ctx, query, ids...)
	if err != nil {
		return storeErr("load post tags", err)
	}
	defer rows.Close()

	byPost := make(map[int64][]*domain.Tag)
	for rows.Next() {
		var (
			postID    int64
			t         domain.Tag
			createdAt string
			updatedAt sql.NullString
		)
		if err := rows.Scan(&postID, &t.ID, &createdAt, &updatedAt, &t.Name, &t.Slug); err != nil {
			return storeErr("load post tags", err)
		}
		t.CreatedAt = parseTime(createdAt)
		t.UpdatedAt = parseNullTime(updatedAt)
		byPost[postID] = append(byPost[postID], &t)
	}
	if err := rows.Err(); err != nil {
		return storeErr("load post tags", err)
	}

	for _, p := range posts {
		p.Tags = byPost[p.ID]
	}
	return nil
}

func loadPostComments(ctx context.Context, db *DB, posts []*domain.Post) error {
	ids := int64sToAny(postIDs(posts))
	cm := commentMapper()
	ph := inPlaceholders(len(ids))
	query := db.rebind(fmt.Sprintf(
		"SELECT %s FROM comments WHERE post_id IN (%s) ORDER BY created_at ASC, id ASC",
		strings.Join(cm.columns, ", "), ph,
	))

	rows, err := db.QueryContext(ctx, query, ids...)
	if err != nil {
		return storeErr("load post comments", err)
	}
	defer rows.Close()

	byPost := make(map[int64][]*domain.Comment)
	for rows.Next() {
		c, err := cm.scan(rows)
		if err != nil {
			return storeErr("load post comments", err)
		}
		byPost[c.PostID] = append(byPost[c.PostID], c)
	}
	if err := rows.Err(); err != nil {
		return storeErr("load post comments", err)
	}

	for _, p := range posts {
		p.Comments = byPost[p.ID]
	}
	return nil
}
