// Package domain contains the core business entities for the blogging platform.
package domain

import (
	"errors"
	"fmt"
)

// Domain errors - these represent business rule violations and the error
// taxonomy the handler layer translates into HTTP responses.
// They are distinct from infrastructure errors (database, network, etc.).

var (
	// ===========================================
	// Generic Taxonomy
	// ===========================================

	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrUnauthenticated indicates missing or invalid credentials.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrForbidden indicates the principal is authenticated but lacks rights.
	ErrForbidden = errors.New("insufficient permissions")

	// ErrRuleViolation indicates a domain invariant was breached
	// (e.g., "already following", "cannot follow self").
	ErrRuleViolation = errors.New("business rule violation")

	// ErrValidation indicates malformed input.
	ErrValidation = errors.New("validation failed")

	// ErrConflict indicates a duplicate-resource or concurrency conflict.
	ErrConflict = errors.New("resource conflict")

	// ErrStorageUnavailable indicates the backing store is unreachable.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrExternalService indicates a failure in an external collaborator
	// (e.g., the media upload provider).
	ErrExternalService = errors.New("external service error")

	// ErrTimeout indicates an operation exceeded its deadline.
	ErrTimeout = errors.New("operation timed out")

	// ===========================================
	// User Errors
	// ===========================================

	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = fmt.Errorf("%w: user", ErrNotFound)

	// ErrUserAlreadyExists indicates a user with the same username/email exists.
	ErrUserAlreadyExists = fmt.Errorf("%w: user already exists", ErrConflict)

	// ErrUserInactive indicates the user account is disabled.
	ErrUserInactive = fmt.Errorf("%w: user account is inactive", ErrForbidden)

	// ErrInvalidCredentials indicates authentication failed.
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrUnauthenticated)

	// ===========================================
	// Social Errors
	// ===========================================

	// ErrCannotFollowSelf indicates a user attempted to follow themselves.
	ErrCannotFollowSelf = fmt.Errorf("%w: cannot follow self", ErrRuleViolation)

	// ErrAlreadyFollowing indicates the follow relationship already exists.
	ErrAlreadyFollowing = fmt.Errorf("%w: already following", ErrRuleViolation)

	// ErrAlreadyLiked indicates the user already liked this entity.
	ErrAlreadyLiked = fmt.Errorf("%w: already liked", ErrRuleViolation)

	// ErrAlreadySaved indicates the post is already saved by this user.
	ErrAlreadySaved = fmt.Errorf("%w: post already saved", ErrRuleViolation)

	// ErrInvalidLikeTarget indicates the like target type is unsupported.
	ErrInvalidLikeTarget = fmt.Errorf("%w: entity type must be post or comment", ErrValidation)

	// ===========================================
	// Content Errors
	// ===========================================

	// ErrSlugTaken indicates a category/tag/post slug is already in use.
	ErrSlugTaken = fmt.Errorf("%w: slug already in use", ErrConflict)

	// ErrCommentParentMismatch indicates a reply references a parent comment
	// belonging to a different post.
	ErrCommentParentMismatch = fmt.Errorf("%w: parent comment belongs to another post", ErrRuleViolation)

	// ===========================================
	// RBAC Errors
	// ===========================================

	// ErrPermissionInUse indicates a permission still has role or user grants
	// and cannot be deleted.
	ErrPermissionInUse = fmt.Errorf("%w: permission has active grants", ErrRuleViolation)

	// ErrUnknownPermission indicates a permission slug outside the registry.
	ErrUnknownPermission = fmt.Errorf("%w: unknown permission slug", ErrValidation)
)

// DomainError wraps a taxonomy error with additional context.
type DomainError struct {
	// Err is the underlying taxonomy error.
	Err error

	// Message provides additional context.
	Message string

	// Resource identifies the affected resource (e.g., post slug, user id).
	Resource string
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Resource != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Err.Error(), e.Message, e.Resource)
	}
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error for errors.Is/errors.As.
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new DomainError with context.
func NewDomainError(err error, message, resource string) *DomainError {
	return &DomainError{
		Err:      err,
		Message:  message,
		Resource: resource,
	}
}

// WrapError wraps an error with domain context if it's not already a DomainError.
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return err
	}

	return &DomainError{
		Err:     err,
		Message: message,
	}
}
