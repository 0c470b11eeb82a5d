package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/auth"
	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/domain"
	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/pkg/crypto"
	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/repository"
	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/tokenstore"
)

// AuthService handles registration, login, token refresh, and logout.
type AuthService struct {
	users       repository.UserRepository
	permissions *PermissionService
	tokens      *auth.TokenManager
	refresh     tokenstore.Store
	hasher      crypto.Hasher
	refreshTTL  time.Duration
	logger      zerolog.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(
	users repository.UserRepository,
	permissions *PermissionService,
	tokens *auth.TokenManager,
	refresh tokenstore.Store,
	hasher crypto.Hasher,
	refreshTTL time.Duration,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:       users,
		permissions: permissions,
		tokens:      tokens,
		refresh:     refresh,
		hasher:      hasher,
		refreshTTL:  refreshTTL,
		logger:      logger.With().Str("service", "auth").Logger(),
	}
}

// RegisterInput contains the data needed to register a user.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// TokenPair is an issued access/refresh token pair.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Register creates a new user account.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if err := validateUsername(input.Username); err != nil {
		return nil, err
	}
	if err := validateEmail(input.Email); err != nil {
		return nil, err
	}
	if err := validatePassword(input.Password); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	user := domain.NewUser(input.Username, input.Email, hash)
	if err := s.users.Add(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUniqueViolation) {
			return nil, domain.ErrUserAlreadyExists
		}
		s.logger.Error().Err(err).Str("username", input.Username).Msg("failed to create user")
		return nil, err
	}

	s.logger.Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("user registered")
	return user, nil
}

// Login verifies credentials, resolves the effective permission set, and
// issues an access/refresh token pair.
func (s *AuthService) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.CanAuthenticate() {
		return nil, domain.ErrUserInactive
	}
	if !s.hasher.Verify(user.PasswordHash, password) {
		s.logger.Warn().Str("username", username).Msg("failed login attempt")
		return nil, domain.ErrInvalidCredentials
	}

	pair, err := s.issuePair(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("user_id", user.ID).Msg("user logged in")
	return pair, nil
}

// Refresh rotates a refresh token: the presented token is revoked, the
// permission set is re-resolved, and a fresh pair is issued.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	userID, err := s.refresh.Lookup(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, tokenstore.ErrTokenNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.CanAuthenticate() {
		return nil, domain.ErrUserInactive
	}

	// Rotation: the old token stops working before the new one is handed out.
	if err := s.refresh.Revoke(ctx, refreshToken); err != nil {
		return nil, err
	}

	return s.issuePair(ctx, user)
}

// Logout revokes a refresh token. The access token simply expires.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.refresh.Revoke(ctx, refreshToken)
}

func (s *AuthService) issuePair(ctx context.Context, user *domain.User) (*TokenPair, error) {
	resolved, err := s.permissions.Resolve(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	access, err := s.tokens.Issue(user, resolved.Roles, resolved.Permissions)
	if err != nil {
		return nil, err
	}

	refresh, err := crypto.GenerateRefreshToken()
	if err != nil {
		return nil, err
	}
	if err := s.refresh.Save(ctx, refresh, user.ID, s.refreshTTL); err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
