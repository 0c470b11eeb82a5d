package sqlstore

import (
	"context"
	"database/sql"

	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/domain"
	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/repository"
)

// categoryRepository implements repository.CategoryRepository.
type categoryRepository struct {
	*store[domain.Category]
}

var _ repository.CategoryRepository = (*categoryRepository)(nil)

func categoryMapper() mapper[domain.Category] {
	return mapper[domain.Category]{
		table:   "categories",
		columns: []string{"id", "created_at", "updated_at", "name", "slug", "description"},
		fields: map[string]string{
			"id":         "id",
			"created_at": "created_at",
			"name":       "name",
			"slug":       "slug",
		},
		scan: func(row rowScanner) (*domain.Category, error) {
			var (
				c         domain.Category
				createdAt string
				updatedAt sql.NullString
			)
			if err := row.Scan(&c.ID, &createdAt, &updatedAt, &c.Name, &c.Slug, &c.Description); err != nil {
				return nil, err
			}
			c.CreatedAt = parseTime(createdAt)
			c.UpdatedAt = parseNullTime(updatedAt)
			return &c, nil
		},
		values: func(c *domain.Category) []any {
			return []any{formatTime(c.CreatedAt), formatNullTime(c.UpdatedAt), c.Name, c.Slug, c.Description}
		},
		id:    func(c *domain.Category) int64 { return c.ID },
		setID: func(c *domain.Category, id int64) { c.ID = id },
		touch: func(c *domain.Category) { c.Touch() },
	}
}

// NewCategoryRepository creates the categories store.
func NewCategoryRepository(db *DB) repository.CategoryRepository {
	return &categoryRepository{store: newStore(db, categoryMapper())}
}

// GetBySlug retrieves a category by its unique slug.
func (r *categoryRepository) GetBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	category, err := r.FirstOrDefault(ctx, repository.NewSpecification().
		Where("slug", repository.OpEq, slug))
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, repository.ErrNotFound
	}
	return category, nil
}

// tagRepository implements repository.TagRepository.
type tagRepository struct {
	*store[domain.Tag]
}

var _ repository.TagRepository = (*tagRepository)(nil)

func tagMapper() mapper[domain.Tag] {
	return mapper[domain.Tag]{
		table:   "tags",
		columns: []string{"id", "created_at", "updated_at", "name", "slug"},
		fields: map[string]string{
			"id":         "id",
			"created_at": "created_at",
			"name":       "name",
			"slug":       "slug",
		},
		scan: func(row rowScanner) (*domain.Tag, error) {
			var (
				t         domain.Tag
				createdAt string
				updatedAt sql.NullString
			)
			if err := row.Scan(&t.ID, &createdAt, &updatedAt, &t.Name, &t.Slug); err != nil {
				return nil, err
			}
			t.CreatedAt = parseTime(createdAt)
			t.UpdatedAt = parseNullTime(updatedAt)
			return &t, nil
		},
		values: func(t *domain.Tag) []any {
			return []any{formatTime(t.CreatedAt), formatNullTime(t.UpdatedAt), t.Name, t.Slug}
		},
		id:    func(t *domain.Tag) int64 { return t.ID },
		setID: func(t *domain.Tag, id int64) { t.ID = id },
		touch: func(t *domain.Tag) { t.Touch() },
	}
}

// NewTagRepository creates the tags store.
func NewTagRepository(db *DB) repository.TagRepository {
	return &tagRepository{store: newStore(db, tagMapper())}
}

// GetBySlug retrieves a tag by its unique slug.
func (r *tagRepository) GetBySlug(ctx context.Context, slug string) (*domain.Tag, error) {
	tag, err := r.FirstOrDefault(ctx, repository.NewSpecification().
		Where("slug", repository.OpEq, slug))
	if err != nil {
		return nil, err
	}
	if tag == nil {
		return nil, repository.ErrNotFound
	}
	return tag, nil
}
