package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/domain"
)

// AccessClaims is the access token payload. Roles and permissions repeat as
// array claims so a token carries the full effective set resolved at issue
// time.
type AccessClaims struct {
	jwt.RegisteredClaims

	Name        string   `json:"name,omitempty"`
	Email       string   `json:"email,omitempty"`
	Roles       []string `json:"role,omitempty"`
	Permissions []string `json:"permission,omitempty"`
}

// TokenConfig holds issuer settings.
type TokenConfig struct {
	// Secret is the HMAC-SHA256 signing key.
	Secret string

	// Issuer and Audience are enforced on validation.
	Issuer   string
	Audience string

	// AccessTTL bounds access token lifetime.
	AccessTTL time.Duration
}

// TokenManager issues and validates access tokens.
type TokenManager struct {
	cfg TokenConfig
}

// NewTokenManager creates a token manager.
func NewTokenManager(cfg TokenConfig) (*TokenManager, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("token secret is required")
	}
	if cfg.AccessTTL <= 0 {
		return nil, fmt.Errorf("access token TTL must be positive")
	}
	return &TokenManager{cfg: cfg}, nil
}

// Issue signs an access token for the user with their resolved role and
// permission slugs.
func (tm *TokenManager) Issue(user *domain.User, roles, permissions []string) (string, error) {
	now := time.Now().UTC()
	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			Issuer:    tm.cfg.Issuer,
			Audience:  jwt.ClaimStrings{tm.cfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tm.cfg.AccessTTL)),
			ID:        uuid.NewString(),
		},
		Name:        user.Username,
		Email:       user.Email,
		Roles:       roles,
		Permissions: permissions,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(tm.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}

// Validate parses and verifies an access token. Expiry is checked with zero
// clock skew. Any failure maps to ErrUnauthenticated.
func (tm *TokenManager) Validate(tokenString string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) {
			return []byte(tm.cfg.Secret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tm.cfg.Issuer),
		jwt.WithAudience(tm.cfg.Audience),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err)
	}
	return claims, nil
}

// Principal builds the request principal from validated claims.
func (c *AccessClaims) Principal() (*Principal, error) {
	userID, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed subject claim", domain.ErrUnauthenticated)
	}
	raw := map[string][]string{
		ClaimName:       {c.Name},
		ClaimEmail:      {c.Email},
		ClaimRole:       c.Roles,
		ClaimPermission: c.Permissions,
	}
	return NewPrincipal(userID, c.Name, c.Email, raw), nil
}
