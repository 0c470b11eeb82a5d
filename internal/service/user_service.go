package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/domain"
	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/repository"
)

// UserService handles user profiles and the notification inbox.
type UserService struct {
	users         repository.UserRepository
	notifications repository.NotificationRepository
	logger        zerolog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(
	users repository.UserRepository,
	notifications repository.NotificationRepository,
	logger zerolog.Logger,
) *UserService {
	return &UserService{
		users:         users,
		notifications: notifications,
		logger:        logger.With().Str("service", "user").Logger(),
	}
}

// UpdateProfileInput carries the editable profile fields. Nil pointers leave
// the current value untouched.
type UpdateProfileInput struct {
	Email     *string `json:"email,omitempty"`
	Bio       *string `json:"bio,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

// GetUser retrieves a user by ID.
func (s *UserService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, mapAbsence(err)
	}
	return user, nil
}

// GetUserByUsername retrieves a user by unique username.
func (s *UserService) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, mapAbsence(err)
	}
	return user, nil
}

// UpdateProfile applies the provided profile fields to the user.
func (s *UserService) UpdateProfile(ctx context.Context, id int64, input UpdateProfileInput) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, mapAbsence(err)
	}

	if input.Email != nil {
		if err := validateEmail(*input.Email); err != nil {
			return nil, err
		}
		user.Email = *input.Email
	}
	if input.Bio != nil {
		user.Bio = *input.Bio
	}
	if input.AvatarURL != nil {
		user.AvatarURL = *input.AvatarURL
	}

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUniqueViolation) {
			return nil, domain.ErrUserAlreadyExists
		}
		return nil, mapAbsence(err)
	}

	s.logger.Info().Int64("user_id", id).Msg("profile updated")
	return user, nil
}

// DeactivateUser disables the account. Inactive users cannot authenticate.
func (s *UserService) DeactivateUser(ctx context.Context, id int64) error {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return mapAbsence(err)
	}
	if !user.IsActive {
		return nil
	}
	user.IsActive = false
	if err := s.users.Update(ctx, user); err != nil {
		return mapAbsence(err)
	}
	s.logger.Info().Int64("user_id", id).Msg("user deactivated")
	return nil
}

// ReactivateUser re-enables a deactivated account.
func (s *UserService) ReactivateUser(ctx context.Context, id int64) error {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return mapAbsence(err)
	}
	if user.IsActive {
		return nil
	}
	user.IsActive = true
	if err := s.users.Update(ctx, user); err != nil {
		return mapAbsence(err)
	}
	s.logger.Info().Int64("user_id", id).Msg("user reactivated")
	return nil
}

// ListNotifications returns the user's notifications, newest first.
func (s *UserService) ListNotifications(ctx context.Context, userID int64, unreadOnly bool, pageNumber, pageSize int) ([]*domain.Notification, int64, error) {
	spec := repository.NewSpecification().
		Where("user_id", repository.OpEq, userID).
		OrderByDescending("created_at").
		Paginate(pageNumber, pageSize)
	if unreadOnly {
		spec.Where("read", repository.OpEq, false)
	}

	rows, err := s.notifications.List(ctx, spec)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.notifications.Count(ctx, spec)
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// MarkNotificationRead marks one of the user's notifications as read.
// Another user's notification is NotFound, not Forbidden; its existence is
// not revealed.
func (s *UserService) MarkNotificationRead(ctx context.Context, userID, notificationID int64) error {
	notification, err := s.notifications.GetByID(ctx, notificationID)
	if err != nil {
		return mapAbsence(err)
	}
	if notification.UserID != userID {
		return domain.ErrNotFound
	}
	if notification.Read {
		return nil
	}
	notification.Read = true
	return mapAbsence(s.notifications.Update(ctx, notification))
}
