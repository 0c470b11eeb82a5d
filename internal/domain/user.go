// Package domain contains the core business entities for the blogging platform.
// These are pure Go structs with no storage dependencies, representing the
// fundamental concepts of the system.
package domain

// User represents a registered user in the system.
// Users author posts and comments, and hold roles and direct permission
// grants that determine what they may do.
type User struct {
	Entity

	// Username is the unique username for login and display.
	// Constraints: 3-255 characters.
	Username string `json:"username"`

	// Email is the unique email address for the user.
	Email string `json:"email"`

	// PasswordHash is the hash of the user's password.
	// This should never be exposed in API responses.
	PasswordHash string `json:"-"`

	// Bio is an optional free-form profile description.
	Bio string `json:"bio,omitempty"`

	// AvatarURL points at the user's profile image, if any.
	AvatarURL string `json:"avatar_url,omitempty"`

	// IsActive indicates whether the account is active.
	// Inactive users cannot authenticate or perform any operations.
	IsActive bool `json:"is_active"`
}

// NewUser creates a new User with default values.
func NewUser(username, email, passwordHash string) *User {
	return &User{
		Entity:       NewEntity(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		IsActive:     true,
	}
}

// CanAuthenticate returns true if the user is allowed to authenticate.
func (u *User) CanAuthenticate() bool {
	return u.IsActive
}
