package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/domain"
	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/repository"
)

// TagService handles tag administration.
type TagService struct {
	tags   repository.TagRepository
	logger zerolog.Logger
}

// NewTagService creates a new TagService.
func NewTagService(tags repository.TagRepository, logger zerolog.Logger) *TagService {
	return &TagService{
		tags:   tags,
		logger: logger.With().Str("service", "tag").Logger(),
	}
}

// CreateTag creates a tag. A duplicate slug is a conflict.
func (s *TagService) CreateTag(ctx context.Context, name, slug string) (*domain.Tag, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if slug == "" {
		return nil, ErrEmptySlug
	}

	tag := domain.NewTag(name, slug)
	if err := s.tags.Add(ctx, tag); err != nil {
		if errors.Is(err, repository.ErrUniqueViolation) {
			return nil, domain.ErrSlugTaken
		}
		return nil, err
	}

	s.logger.Info().Str("slug", tag.Slug).Msg("tag created")
	return tag, nil
}

// ListTags returns all tags by name.
func (s *TagService) ListTags(ctx context.Context) ([]*domain.Tag, error) {
	return s.tags.List(ctx, repository.NewSpecification().OrderBy("name").ReadOnly())
}

// GetTag loads a tag by slug.
func (s *TagService) GetTag(ctx context.Context, slug string) (*domain.Tag, error) {
	tag, err := s.tags.GetBySlug(ctx, slug)
	if err != nil {
		return nil, mapAbsence(err)
	}
	return tag, nil
}

// DeleteTag removes a tag; its post links cascade.
func (s *TagService) DeleteTag(ctx context.Context, id int64) error {
	tag, err := s.tags.GetByID(ctx, id)
	if err != nil {
		return mapAbsence(err)
	}
	return s.tags.Delete(ctx, tag)
}
