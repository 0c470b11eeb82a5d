package domain

// Media is an uploaded file (image, attachment) owned by a user and stored
// through the external upload provider.
type Media struct {
	Entity

	// OwnerID references the uploading user.
	OwnerID int64 `json:"owner_id"`

	// FileName is the original client-supplied name.
	FileName string `json:"file_name"`

	// ContentType is the MIME type reported at upload.
	ContentType string `json:"content_type"`

	// URL is the public location returned by the provider.
	URL string `json:"url"`

	// SecureURL is the TLS location returned by the provider.
	SecureURL string `json:"secure_url"`

	// PublicID is the provider-side identifier used for deletion.
	PublicID string `json:"public_id"`

	// Width and Height are set for images, zero otherwise.
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`

	// ByteSize is the stored size in bytes.
	ByteSize int64 `json:"byte_size"`
}

// NewMedia creates a Media row from a completed provider upload.
func NewMedia(ownerID int64, fileName, contentType string) *Media {
	return &Media{
		Entity:      NewEntity(),
		OwnerID:     ownerID,
		FileName:    fileName,
		ContentType: contentType,
	}
}

// IsOwnedBy reports whether the given user uploaded this media.
func (m *Media) IsOwnedBy(userID int64) bool {
	return m.OwnerID == userID
}
