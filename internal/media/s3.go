package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"path"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/domain"
)

// S3Config holds settings for an S3-compatible endpoint.
type S3Config struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string

	// PublicBaseURL is the URL prefix under which stored objects are served.
	PublicBaseURL string

	// UsePathStyle addresses buckets by path, required by most
	// S3-compatible servers.
	UsePathStyle bool
}

// S3Uploader implements Uploader against an S3-compatible endpoint.
type S3Uploader struct {
	client *s3.Client
	cfg    S3Config
	logger zerolog.Logger
}

// NewS3Uploader builds the client and verifies nothing; the first upload
// surfaces connectivity problems.
func NewS3Uploader(ctx context.Context, cfg S3Config, logger zerolog.Logger) (*S3Uploader, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("media bucket is required")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey, cfg.SecretKey, "",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = &cfg.Endpoint
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	return &S3Uploader{
		client: client,
		cfg:    cfg,
		logger: logger.With().Str("component", "s3_uploader").Logger(),
	}, nil
}

var _ Uploader = (*S3Uploader)(nil)

// Upload stores the content under a generated public id.
func (u *S3Uploader) Upload(ctx context.Context, fileName, contentType string, content io.Reader, size int64) (*UploadResult, error) {
	data, err := io.ReadAll(content)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read upload: %v", domain.ErrExternalService, err)
	}

	publicID := uuid.NewString() + strings.ToLower(path.Ext(fileName))
	key := "media/" + publicID

	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &u.cfg.Bucket,
		Key:         &key,
		Body:        bytes.NewReader(data),
		ContentType: &contentType,
	})
	if err != nil {
		u.logger.Error().Err(err).Str("file", fileName).Msg("upload failed")
		return nil, fmt.Errorf("%w: media upload failed: %v", domain.ErrExternalService, err)
	}

	result := &UploadResult{
		URL:       u.cfg.PublicBaseURL + "/" + key,
		SecureURL: u.cfg.PublicBaseURL + "/" + key,
		PublicID:  publicID,
		ByteSize:  int64(len(data)),
	}
	if strings.HasPrefix(contentType, "image/") {
		if imgCfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
			result.Width = imgCfg.Width
			result.Height = imgCfg.Height
		}
	}

	u.logger.Info().
		Str("public_id", publicID).
		Int64("size", result.ByteSize).
		Msg("uploaded media object")
	return result, nil
}

// Delete removes an object by public id.
func (u *S3Uploader) Delete(ctx context.Context, publicID string) bool {
	key := "media/" + publicID
	_, err := u.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &u.cfg.Bucket,
		Key:    &key,
	})
	if err != nil {
		u.logger.Error().Err(err).Str("public_id", publicID).Msg("delete failed")
		return false
	}
	return true
}
