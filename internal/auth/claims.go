// Package auth implements token-based authentication and the permission
// evaluation engine. Tokens are issued at login with the user's effective
// permission set baked in; authorization decisions during a request are pure
// set lookups against the validated claims, with an optional ownership check
// that consults storage.
package auth

// Claim names carried in access tokens beyond the JWT registered set.
const (
	// ClaimName is the user's display/login name.
	ClaimName = "name"

	// ClaimEmail is the user's email address.
	ClaimEmail = "email"

	// ClaimRole repeats once per role slug held by the user.
	ClaimRole = "role"

	// ClaimPermission repeats once per effective permission slug.
	ClaimPermission = "permission"
)
