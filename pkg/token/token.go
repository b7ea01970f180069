// Package token generates opaque, URL-safe random tokens for captcha
// challenge IDs and password-reset links.
package token

import (
	"crypto/rand"
	"encoding/base64"
)

// New returns a 32-byte cryptographically random token, base64url encoded
// without padding (43 characters).
func New() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand never fails on supported platforms
		panic(err)
	}
	return base64.RawURLEncoding.EncodeToString(b)
}
