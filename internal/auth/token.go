package auth

import (
	"crypto/rand"
	"encoding/base64"
)

const tokenBytes = 32

// generateToken returns a fresh 256-bit bearer credential in URL-safe text.
func generateToken() string {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms
		panic("auth: crypto/rand unavailable: " + err.Error())
	}
	return base64.RawURLEncoding.EncodeToString(buf)
}
