package repository

import "errors"

// Repository errors
var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")

	// ErrUniqueViolation indicates an insert or update broke a uniqueness
	// constraint. Callers map this to the domain's conflict taxonomy.
	ErrUniqueViolation = errors.New("unique constraint violation")

	// ErrConcurrencyConflict indicates an optimistic-concurrency check
	// detected a stale version. Callers must not retry silently.
	ErrConcurrencyConflict = errors.New("concurrency conflict")

	// ErrUnknownField indicates a specification referenced a field the
	// entity mapper does not expose.
	ErrUnknownField = errors.New("unknown specification field")

	// ErrUnknownInclude indicates a specification referenced a navigation
	// path the entity mapper does not support.
	ErrUnknownInclude = errors.New("unknown include path")
)
