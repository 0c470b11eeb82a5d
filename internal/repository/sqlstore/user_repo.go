package sqlstore

import (
	"context"
	"database/sql"

	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/domain"
	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/repository"
)

// userRepository implements repository.UserRepository.
type userRepository struct {
	*store[domain.User]
}

var _ repository.UserRepository = (*userRepository)(nil)

func userMapper() mapper[domain.User] {
	return mapper[domain.User]{
		table: "users",
		columns: []string{
			"id", "created_at", "updated_at",
			"username", "email", "password_hash", "bio", "avatar_url", "is_active",
		},
		fields: map[string]string{
			"id":         "id",
			"created_at": "created_at",
			"username":   "username",
			"email":      "email",
			"is_active":  "is_active",
		},
		scan: func(row rowScanner) (*domain.User, error) {
			var (
				u         domain.User
				createdAt string
				updatedAt sql.NullString
				isActive  int
			)
			err := row.Scan(
				&u.ID, &createdAt, &updatedAt,
				&u.Username, &u.Email, &u.PasswordHash, &u.Bio, &u.AvatarURL, &isActive,
			)
			if err != nil {
				return nil, err
			}
			u.CreatedAt = parseTime(createdAt)
			u.UpdatedAt = parseNullTime(updatedAt)
			u.IsActive = isActive != 0
			return &u, nil
		},
		values: func(u *domain.User) []any {
			return []any{
				formatTime(u.CreatedAt), formatNullTime(u.UpdatedAt),
				u.Username, u.Email, u.PasswordHash, u.Bio, u.AvatarURL, boolToInt(u.IsActive),
			}
		},
		id:    func(u *domain.User) int64 { return u.ID },
		setID: func(u *domain.User, id int64) { u.ID = id },
		touch: func(u *domain.User) { u.Touch() },
	}
}

// NewUserRepository creates the users store.
func NewUserRepository(db *DB) repository.UserRepository {
	return &userRepository{store: newStore(db, userMapper())}
}

// GetByUsername retrieves a user by their unique username.
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, err := r.FirstOrDefault(ctx, repository.NewSpecification().
		Where("username", repository.OpEq, username))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, repository.ErrNotFound
	}
	return user, nil
}

// GetByEmail retrieves a user by their unique email address.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := r.FirstOrDefault(ctx, repository.NewSpecification().
		Where("email", repository.OpEq, email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, repository.ErrNotFound
	}
	return user, nil
}
