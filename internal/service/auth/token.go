package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
)

// Keyword is the Authorization header scheme for token authentication.
const Keyword = "Token"

// Token key sizes in random bytes. Keys are hex encoded, so MaxTokenBytes
// matches the 128 characters the tokens.key column holds.
const (
	DefaultTokenBytes = 20
	MinTokenBytes     = 16
	MaxTokenBytes     = 64
)

// GenerateKey returns a random key of n bytes, hex encoded.
func GenerateKey(n int) (string, error) {
	if n <= 0 {
		n = DefaultTokenBytes
	}
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token key: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// KeyFromRequest extracts the token key from r's Authorization header.
// ok is false when the header is absent or uses another scheme, in which
// case the caller is anonymous. A Token header without exactly one key
// returns ErrMalformedHeader.
func KeyFromRequest(r *http.Request) (key string, ok bool, err error) {
	parts := strings.Fields(r.Header.Get("Authorization"))
	if len(parts) == 0 || !strings.EqualFold(parts[0], Keyword) {
		return "", false, nil
	}
	if len(parts) != 2 {
		return "", true, ErrMalformedHeader
	}
	return parts[1], true, nil
}
