// Package service provides the business logic for the blogging platform.
package service

import (
	"fmt"
	"net/mail"

	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/domain"
)

// Input validation errors. All wrap domain.ErrValidation so handlers map
// them uniformly.
var (
	ErrInvalidPassword = fmt.Errorf("%w: password must be at least 8 characters", domain.ErrValidation)
	ErrInvalidUsername = fmt.Errorf("%w: username must be 3-255 characters", domain.ErrValidation)
	ErrInvalidEmail    = fmt.Errorf("%w: invalid email format", domain.ErrValidation)
	ErrEmptyTitle      = fmt.Errorf("%w: title is required", domain.ErrValidation)
	ErrEmptySlug       = fmt.Errorf("%w: slug is required", domain.ErrValidation)
	ErrEmptyContent    = fmt.Errorf("%w: content is required", domain.ErrValidation)
	ErrEmptyName       = fmt.Errorf("%w: name is required", domain.ErrValidation)
)

func validateUsername(username string) error {
	if len(username) < 3 || len(username) > 255 {
		return ErrInvalidUsername
	}
	return nil
}

func validateEmail(email string) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return ErrInvalidEmail
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return ErrInvalidPassword
	}
	return nil
}
