package media

import (
	"context"
	"fmt"
	"io"

	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/domain"
)

// disabledUploader rejects every upload. Used when no provider is configured.
type disabledUploader struct{}

// Disabled returns an Uploader that fails uploads with an external service
// error and treats deletes as successful no-ops.
func Disabled() Uploader {
	return disabledUploader{}
}

func (disabledUploader) Upload(context.Context, string, string, io.Reader, int64) (*UploadResult, error) {
	return nil, fmt.Errorf("%w: media uploads are disabled", domain.ErrExternalService)
}

func (disabledUploader) Delete(context.Context, string) bool { return true }
