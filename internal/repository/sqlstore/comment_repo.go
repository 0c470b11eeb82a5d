package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/domain"
	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/repository"
)

// commentRepository implements repository.CommentRepository.
type commentRepository struct {
	*store[domain.Comment]
}

var _ repository.CommentRepository = (*commentRepository)(nil)

func commentMapper() mapper[domain.Comment] {
	m := mapper[domain.Comment]{
		table: "comments",
		columns: []string{
			"id", "created_at", "updated_at",
			"post_id", "author_id", "parent_id", "content", "is_edited",
		},
		fields: map[string]string{
			"id":         "id",
			"created_at": "created_at",
			"post_id":    "post_id",
			"author_id":  "author_id",
			"parent_id":  "parent_id",
		},
		scan: func(row rowScanner) (*domain.Comment, error) {
			var (
				c         domain.Comment
				createdAt string
				updatedAt sql.NullString
				parentID  sql.NullInt64
				isEdited  int
			)
			err := row.Scan(
				&c.ID, &createdAt, &updatedAt,
				&c.PostID, &c.AuthorID, &parentID, &c.Content, &isEdited,
			)
			if err != nil {
				return nil, err
			}
			c.CreatedAt = parseTime(createdAt)
			c.UpdatedAt = parseNullTime(updatedAt)
			if parentID.Valid {
				c.ParentID = &parentID.Int64
			}
			c.IsEdited = isEdited != 0
			return &c, nil
		},
		values: func(c *domain.Comment) []any {
			return []any{
				formatTime(c.CreatedAt), formatNullTime(c.UpdatedAt),
				c.PostID, c.AuthorID, nullInt64(c.ParentID), c.Content, boolToInt(c.IsEdited),
			}
		},
		id:    func(c *domain.Comment) int64 { return c.ID },
		setID: func(c *domain.Comment, id int64) { c.ID = id },
		touch: func(c *domain.Comment) { c.Touch() },
	}
	m.includes = map[string]includeLoader[domain.Comment]{
		"Author": loadCommentAuthors,
	}
	return m
}

// NewCommentRepository creates the comments store.
func NewCommentRepository(db *DB) repository.CommentRepository {
	return &commentRepository{store: newStore(db, commentMapper())}
}

func loadCommentAuthors(ctx context.Context, db *DB, comments []*domain.Comment) error {
	authorIDs := make(map[int64]struct{}, len(comments))
	for _, c := range comments {
		authorIDs[c.AuthorID] = struct{}{}
	}
	ids := make([]any, 0, len(authorIDs))
	for id := range authorIDs {
		ids = append(ids, id)
	}

	um := userMapper()
	query := db.rebind(fmt.Sprintf(
		"SELECT %s FROM users WHERE id IN (%s)",
		strings.Join(um.columns, ", "), inPlaceholders(len(ids)),
	))

	rows, err := db.QueryContext(ctx, query, ids...)
	if err != nil {
		return storeErr("load comment authors", err)
	}
	defer rows.Close()

	users := make(map[int64]*domain.User)
	for rows.Next() {
		u, err := um.scan(rows)
		if err != nil {
			return storeErr("load comment authors", err)
		}
		users[u.ID] = u
	}
	if err := rows.Err(); err != nil {
		return storeErr("load comment authors", err)
	}

	for _, c := range comments {
		c.Author = users[c.AuthorID]
	}
	return nil
}
