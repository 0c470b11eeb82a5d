package sqlstore

import (
	"database/sql"

	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/domain"
	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/repository"
)

// mediaRepository implements repository.MediaRepository.
type mediaRepository struct {
	*store[domain.Media]
}

var _ repository.MediaRepository = (*mediaRepository)(nil)

func mediaMapper() mapper[domain.Media] {
	return mapper[domain.Media]{
		table: "media",
		columns: []string{
			"id", "created_at", "updated_at",
			"owner_id", "file_name", "content_type", "url", "secure_url",
			"public_id", "width", "height", "byte_size",
		},
		fields: map[string]string{
			"id":           "id",
			"created_at":   "created_at",
			"owner_id":     "owner_id",
			"file_name":    "file_name",
			"content_type": "content_type",
			"public_id":    "public_id",
		},
		scan: func(row rowScanner) (*domain.Media, error) {
			var (
				m         domain.Media
				createdAt string
				updatedAt sql.NullString
			)
			err := row.Scan(
				&m.ID, &createdAt, &updatedAt,
				&m.OwnerID, &m.FileName, &m.ContentType, &m.URL, &m.SecureURL,
				&m.PublicID, &m.Width, &m.Height, &m.ByteSize,
			)
			if err != nil {
				return nil, err
			}
			m.CreatedAt = parseTime(createdAt)
			m.UpdatedAt = parseNullTime(updatedAt)
			return &m, nil
		},
		values: func(m *domain.Media) []any {
			return []any{
				formatTime(m.CreatedAt), formatNullTime(m.UpdatedAt),
				m.OwnerID, m.FileName, m.ContentType, m.URL, m.SecureURL,
				m.PublicID, m.Width, m.Height, m.ByteSize,
			}
		},
		id:    func(m *domain.Media) int64 { return m.ID },
		setID: func(m *domain.Media, id int64) { m.ID = id },
		touch: func(m *domain.Media) { m.Touch() },
	}
}

// NewMediaRepository creates the media store.
func NewMediaRepository(db *DB) repository.MediaRepository {
	return &mediaRepository{store: newStore(db, mediaMapper())}
}
