package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/domain"
	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/repository"
)

// OwnerLookup resolves the owning user id for a resource id. Implementations
// typically wrap one repository call. A repository.ErrNotFound from the
// lookup denies access; any other error propagates.
type OwnerLookup func(ctx context.Context, resourceID int64) (int64, error)

// Authorizer evaluates permission and ownership requirements against the
// request principal. It returns errors only; translating a denial into an
// HTTP response is the handler layer's job.
type Authorizer struct {
	logger zerolog.Logger
}

// NewAuthorizer creates an authorizer.
func NewAuthorizer(logger zerolog.Logger) *Authorizer {
	return &Authorizer{
		logger: logger.With().Str("component", "authorizer").Logger(),
	}
}

// RequirePermission allows the request when the principal is authenticated
// and either holds the admin role or carries the permission slug.
func (a *Authorizer) RequirePermission(ctx context.Context, slug string) error {
	p := PrincipalFromContext(ctx)
	if !p.IsAuthenticated {
		return domain.ErrUnauthenticated
	}
	if p.IsAdmin() {
		return nil
	}
	if p.HasPermission(slug) {
		return nil
	}

	a.logger.Warn().
		Int64("user_id", *p.UserID).
		Str("permission", slug).
		Msg("permission denied")
	return fmt.Errorf("%w: missing permission %s", domain.ErrForbidden, slug)
}

// RequireOwnership allows the request when the principal is the owner of the
// resource, holds the override permission, or is admin. The resource id
// arrives as a raw route parameter; a malformed id is a plain denial, not an
// error.
func (a *Authorizer) RequireOwnership(ctx context.Context, rawID, overridePermission string, lookup OwnerLookup) error {
	p := PrincipalFromContext(ctx)
	if !p.IsAuthenticated {
		return domain.ErrUnauthenticated
	}
	if p.IsAdmin() {
		return nil
	}
	if overridePermission != "" && p.HasPermission(overridePermission) {
		return nil
	}

	resourceID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: malformed resource id", domain.ErrForbidden)
	}

	ownerID, err := lookup(ctx, resourceID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: resource not found", domain.ErrForbidden)
		}
		return err
	}
	if ownerID != *p.UserID {
		a.logger.Warn().
			Int64("user_id", *p.UserID).
			Int64("owner_id", ownerID).
			Int64("resource_id", resourceID).
			Msg("ownership denied")
		return fmt.Errorf("%w: not the resource owner", domain.ErrForbidden)
	}
	return nil
}
