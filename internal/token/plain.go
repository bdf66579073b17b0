package token

import (
	"encoding/base64"
	"strconv"
	"strings"
	"time"
)

// PlainCodec encodes base64(username + ":" + epochMillis).
//
// The token carries no secret, signature or expiry: anyone can mint a token for any
// username. It is an identity claim, not proof of a credential.
type PlainCodec struct {
	now func() time.Time
}

// NewPlainCodec creates a new plain codec
func NewPlainCodec() *PlainCodec {
	return &PlainCodec{now: time.Now}
}

// Issue returns the token for username
func (c *PlainCodec) Issue(username string) (string, error) {
	raw := username + ":" + strconv.FormatInt(c.now().UnixMilli(), 10)
	return base64.StdEncoding.EncodeToString([]byte(raw)), nil
}

// Verify returns the substring before the first ":" of the decoded token
func (c *PlainCodec) Verify(token string) (string, error) {
	if token == "" {
		return "", ErrMalformed
	}

	decoded, err := decodeBase64(token)
	if err != nil {
		return "", ErrMalformed
	}

	username, _, _ := strings.Cut(string(decoded), ":")
	if username == "" {
		return "", ErrMalformed
	}
	return username, nil
}

// lenientEncodings are tried in order; clients may send unpadded or URL-safe tokens
var lenientEncodings = []*base64.Encoding{
	base64.StdEncoding,
	base64.RawStdEncoding,
	base64.URLEncoding,
	base64.RawURLEncoding,
}

func decodeBase64(s string) ([]byte, error) {
	var err error
	for _, enc := range lenientEncodings {
		var decoded []byte
		if decoded, err = enc.DecodeString(s); err == nil {
			return decoded, nil
		}
	}
	return nil, err
}
