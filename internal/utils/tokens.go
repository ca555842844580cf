package utils

import (
	"crypto/rand"
	"encoding/base64"
)

// GenerateSecureToken returns length random bytes from the system CSPRNG,
// URL-safe base64 encoded without padding so the token survives headers and
// query strings untouched.
func GenerateSecureToken(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
