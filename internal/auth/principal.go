package auth

import (
	"context"
)

// Principal is the authenticated identity for one request. It is built once
// by the middleware from validated token claims and never touches storage;
// permission and role checks are set lookups.
type Principal struct {
	// UserID is nil for anonymous requests.
	UserID *int64

	// IsAuthenticated is true when a valid token was presented.
	IsAuthenticated bool

	// Username and Email mirror the token's name/email claims.
	Username string
	Email    string

	// Claims is the raw claim multimap from the token.
	Claims map[string][]string

	permissions map[string]struct{}
	roles       map[string]struct{}
}

// Anonymous returns the principal for an unauthenticated request.
func Anonymous() *Principal {
	return &Principal{
		Claims:      map[string][]string{},
		permissions: map[string]struct{}{},
		roles:       map[string]struct{}{},
	}
}

// NewPrincipal builds a principal from validated claims.
func NewPrincipal(userID int64, username, email string, claims map[string][]string) *Principal {
	p := &Principal{
		UserID:          &userID,
		IsAuthenticated: true,
		Username:        username,
		Email:           email,
		Claims:          claims,
		permissions:     make(map[string]struct{}),
		roles:           make(map[string]struct{}),
	}
	for _, slug := range claims[ClaimPermission] {
		p.permissions[slug] = struct{}{}
	}
	for _, slug := range claims[ClaimRole] {
		p.roles[slug] = struct{}{}
	}
	return p
}

// HasPermission reports whether the effective permission set contains slug.
func (p *Principal) HasPermission(slug string) bool {
	_, ok := p.permissions[slug]
	return ok
}

// IsInRole reports whether the principal holds the role.
func (p *Principal) IsInRole(slug string) bool {
	_, ok := p.roles[slug]
	return ok
}

// IsAdmin reports whether the principal holds the admin role.
func (p *Principal) IsAdmin() bool {
	return p.IsInRole(RoleAdmin)
}

type contextKey struct{}

// WithPrincipal stores the principal in the request context.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

// PrincipalFromContext returns the request principal, or the anonymous
// principal when the middleware never ran.
func PrincipalFromContext(ctx context.Context) *Principal {
	if p, ok := ctx.Value(contextKey{}).(*Principal); ok {
		return p
	}
	return Anonymous()
}
