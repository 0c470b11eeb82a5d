package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/domain"
	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/repository"
)

// CategoryService handles category administration.
type CategoryService struct {
	categories repository.CategoryRepository
	logger     zerolog.Logger
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(categories repository.CategoryRepository, logger zerolog.Logger) *CategoryService {
	return &CategoryService{
		categories: categories,
		logger:     logger.With().Str("service", "category").Logger(),
	}
}

// CreateCategoryInput contains the data needed to create a category.
type CreateCategoryInput struct {
	Name        string
	Slug        string
	Description string
}

// CreateCategory creates a category. A duplicate slug is a conflict.
func (s *CategoryService) CreateCategory(ctx context.Context, input CreateCategoryInput) (*domain.Category, error) {
	if input.Name == "" {
		return nil, ErrEmptyName
	}
	if input.Slug == "" {
		return nil, ErrEmptySlug
	}

	category := domain.NewCategory(input.Name, input.Slug, input.Description)
	if err := s.categories.Add(ctx, category); err != nil {
		if errors.Is(err, repository.ErrUniqueViolation) {
			return nil, domain.ErrSlugTaken
		}
		return nil, err
	}

	s.logger.Info().Str("slug", category.Slug).Msg("category created")
	return category, nil
}

// ListCategories returns all categories by name.
func (s *CategoryService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.categories.List(ctx, repository.NewSpecification().OrderBy("name").ReadOnly())
}

// GetCategory loads a category by slug.
func (s *CategoryService) GetCategory(ctx context.Context, slug string) (*domain.Category, error) {
	category, err := s.categories.GetBySlug(ctx, slug)
	if err != nil {
		return nil, mapAbsence(err)
	}
	return category, nil
}

// UpdateCategory changes name/description; the slug is stable.
func (s *CategoryService) UpdateCategory(ctx context.Context, id int64, name, description string) (*domain.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, mapAbsence(err)
	}

	if name != "" {
		category.Name = name
	}
	category.Description = description

	if err := s.categories.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory removes a category; its post links cascade.
func (s *CategoryService) DeleteCategory(ctx context.Context, id int64) error {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return mapAbsence(err)
	}
	return s.categories.Delete(ctx, category)
}
