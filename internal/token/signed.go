package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SignedCodec issues HS256 JWTs whose subject is the username
type SignedCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSignedCodec creates a signed codec. A ttlSeconds of 0 issues tokens without expiry.
func NewSignedCodec(secret []byte, ttlSeconds int) (*SignedCodec, error) {
	if len(secret) == 0 {
		return nil, errors.New("signed tokens require a secret")
	}
	return &SignedCodec{
		secret: secret,
		ttl:    time.Duration(ttlSeconds) * time.Second,
		now:    time.Now,
	}, nil
}

// Issue returns a signed token for username
func (c *SignedCodec) Issue(username string) (string, error) {
	now := c.now()
	claims := jwt.RegisteredClaims{
		Subject:  username,
		IssuedAt: jwt.NewNumericDate(now),
	}
	if c.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(c.ttl))
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry and returns the subject
func (c *SignedCodec) Verify(token string) (string, error) {
	if token == "" {
		return "", ErrMalformed
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(c.now))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if claims.Subject == "" {
		return "", ErrMalformed
	}
	return claims.Subject, nil
}
