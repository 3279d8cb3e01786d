package application

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
)

// NewToken returns a random opaque token suitable for sessions, invitations,
// and email verification. 256 bits of entropy, URL-safe.
func NewToken() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return base64.RawURLEncoding.EncodeToString(buf)
}

// HashToken returns the hex-encoded SHA-256 digest of a raw token. Only the
// digest is persisted or compared; the raw value travels out of band exactly
// once.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
