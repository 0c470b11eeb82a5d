package service

import (
	"context"
	"io"

	"github.com/rs/zerolog"

	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/domain"
	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/media"
	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/repository"
)

// MediaService handles media uploads and their stored metadata rows.
type MediaService struct {
	medias   repository.MediaRepository
	uploader media.Uploader
	logger   zerolog.Logger
}

// NewMediaService creates a new MediaService.
func NewMediaService(
	medias repository.MediaRepository,
	uploader media.Uploader,
	logger zerolog.Logger,
) *MediaService {
	return &MediaService{
		medias:   medias,
		uploader: uploader,
		logger:   logger.With().Str("service", "media").Logger(),
	}
}

// UploadInput carries an incoming file.
type UploadInput struct {
	FileName    string
	ContentType string
	Content     io.Reader
	Size        int64
}

// Upload pushes the file to the provider and persists a metadata row owned
// by the uploading user.
func (s *MediaService) Upload(ctx context.Context, ownerID int64, input UploadInput) (*domain.Media, error) {
	if input.FileName == "" {
		return nil, domain.NewDomainError(domain.ErrValidation, "file name is required", "")
	}

	result, err := s.uploader.Upload(ctx, input.FileName, input.ContentType, input.Content, input.Size)
	if err != nil {
		return nil, err
	}

	item := domain.NewMedia(ownerID, input.FileName, input.ContentType)
	item.URL = result.URL
	item.SecureURL = result.SecureURL
	item.PublicID = result.PublicID
	item.Width = result.Width
	item.Height = result.Height
	item.ByteSize = result.ByteSize

	if err := s.medias.Add(ctx, item); err != nil {
		// The blob is already stored; try not to leak it.
		if !s.uploader.Delete(ctx, result.PublicID) {
			s.logger.Error().Str("public_id", result.PublicID).Msg("orphaned blob after failed metadata insert")
		}
		return nil, err
	}

	s.logger.Info().Int64("media_id", item.ID).Int64("owner_id", ownerID).Msg("media uploaded")
	return item, nil
}

// GetMedia retrieves a media row by ID.
func (s *MediaService) GetMedia(ctx context.Context, id int64) (*domain.Media, error) {
	item, err := s.medias.GetByID(ctx, id)
	if err != nil {
		return nil, mapAbsence(err)
	}
	return item, nil
}

// ListMedia returns a user's uploads, newest first.
func (s *MediaService) ListMedia(ctx context.Context, ownerID int64, pageNumber, pageSize int) ([]*domain.Media, int64, error) {
	spec := repository.NewSpecification().
		Where("owner_id", repository.OpEq, ownerID).
		OrderByDescending("created_at").
		Paginate(pageNumber, pageSize)

	rows, err := s.medias.List(ctx, spec)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.medias.Count(ctx, spec)
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// DeleteMedia removes the metadata row, then the provider blob. A blob that
// fails to delete is logged and left for reconciliation; the row stays gone.
func (s *MediaService) DeleteMedia(ctx context.Context, id int64) error {
	item, err := s.medias.GetByID(ctx, id)
	if err != nil {
		return mapAbsence(err)
	}
	if err := s.medias.Delete(ctx, item); err != nil {
		return mapAbsence(err)
	}
	if !s.uploader.Delete(ctx, item.PublicID) {
		s.logger.Error().Str("public_id", item.PublicID).Int64("media_id", id).Msg("provider delete failed")
	}
	return nil
}

// OwnerOf resolves the uploading user for ownership checks.
func (s *MediaService) OwnerOf(ctx context.Context, id int64) (int64, error) {
	item, err := s.medias.GetByID(ctx, id)
	if err != nil {
		return 0, mapAbsence(err)
	}
	return item.OwnerID, nil
}
