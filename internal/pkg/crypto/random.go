package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// RefreshTokenBytes is the entropy of a refresh token (256 bits).
const RefreshTokenBytes = 32

// GenerateRefreshToken returns an opaque URL-safe refresh token value.
func GenerateRefreshToken() (string, error) {
	buf := make([]byte, RefreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
