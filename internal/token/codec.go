// Package token issues and resolves the bearer tokens presented on every API call.
package token

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformed is returned when a token cannot be resolved to a username
var ErrMalformed = errors.New("malformed token")

// Codec turns a username into a bearer token and back
type Codec interface {
	Issue(username string) (string, error)
	Verify(token string) (string, error)
}

// Mode names a codec implementation in configuration
type Mode string

const (
	ModePlain  Mode = "plain"
	ModeSigned Mode = "signed"
)

// FromAuthorization extracts the token from an "Authorization: Bearer <token>" header value.
// It returns the second space-separated field, or "" when there is none.
func FromAuthorization(header string) string {
	parts := strings.Fields(header)
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

// New builds the codec for the given mode
func New(mode Mode, secret string, ttlSeconds int) (Codec, error) {
	switch mode {
	case "", ModePlain:
		return NewPlainCodec(), nil
	case ModeSigned:
		return NewSignedCodec([]byte(secret), ttlSeconds)
	default:
		return nil, fmt.Errorf("unknown token mode %q", mode)
	}
}
