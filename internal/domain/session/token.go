package session

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
)

// NewToken returns a random opaque bearer token.
func NewToken() string {
	return rand.Text()
}

// HashToken returns the stored form of a token or API key.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
