// Package media is the boundary to the external blob host. Services depend
// on the Uploader interface; the S3 implementation targets any
// S3-compatible endpoint.
package media

import (
	"context"
	"io"
)

// UploadResult describes a stored object.
type UploadResult struct {
	// URL and SecureURL are the public object locations.
	URL       string
	SecureURL string

	// PublicID is the host-side object identifier, used for deletion.
	PublicID string

	// Width and Height are set for images when known.
	Width  int
	Height int

	// ByteSize is the stored object length.
	ByteSize int64
}

// Uploader stores and removes blobs on the external host.
type Uploader interface {
	// Upload stores the content and returns its public location. A failure
	// here is surfaced to the caller as a domain-level error.
	Upload(ctx context.Context, fileName, contentType string, content io.Reader, size int64) (*UploadResult, error)

	// Delete removes an object by public id. It reports whether the object
	// was removed; callers log failures and proceed.
	Delete(ctx context.Context, publicID string) bool
}
