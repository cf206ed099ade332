// Package token generates and checks the bearer tokens that guard the admin API.
//
// Tokens are random base64-URL strings. The server keeps only an HMAC-SHA256
// digest of the configured admin token and compares digests in constant time.
package token

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

const (
	// MinTokenLength is the shortest token the admin server accepts at startup.
	MinTokenLength = 41

	// DefaultTokenBytes is the entropy of generated tokens (44 characters once encoded).
	DefaultTokenBytes = 32

	bearerPrefix = "Bearer "
)

var (
	// ErrMissingBearer indicates the Authorization header is absent or not a bearer credential.
	ErrMissingBearer = errors.New("missing bearer token")

	// ErrTooShort indicates a configured token is below MinTokenLength.
	ErrTooShort = errors.New("token too short")

	// ErrMismatch indicates a presented token does not match the expected one.
	ErrMismatch = errors.New("token mismatch")
)

// Generate creates a random token suitable for the admin API.
func Generate() (string, error) {
	return GenerateWithLength(DefaultTokenBytes)
}

// GenerateWithLength creates a token from numBytes random bytes.
//
// Parameters:
//   - numBytes: Number of random bytes, at least DefaultTokenBytes
//
// Returns:
//   - string: A base64-URL-encoded token
//   - error: An error if numBytes is too small or the random source fails
func GenerateWithLength(numBytes int) (string, error) {
	if numBytes < DefaultTokenBytes {
		return "", fmt.Errorf("token length must be at least %d bytes", DefaultTokenBytes)
	}

	b := make([]byte, numBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// Hash returns the hex-encoded HMAC-SHA256 of token keyed by secret.
func Hash(token, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(token))
	return hex.EncodeToString(h.Sum(nil))
}

// ValidateLength checks that a token meets MinTokenLength.
func ValidateLength(token string) error {
	if len(token) < MinTokenLength {
		return fmt.Errorf("%w: got %d characters, need at least %d", ErrTooShort, len(token), MinTokenLength)
	}
	return nil
}

// ParseBearer extracts the credential from an "Authorization: Bearer <token>" header value.
func ParseBearer(header string) (string, error) {
	if len(header) < len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", ErrMissingBearer
	}
	tok := strings.TrimSpace(header[len(bearerPrefix):])
	if tok == "" {
		return "", ErrMissingBearer
	}
	return tok, nil
}

// Verifier checks presented tokens against one expected token.
type Verifier struct {
	secret string
	digest string
}

// NewVerifier hashes expected with secret and discards the plaintext.
//
// Parameters:
//   - expected: The admin token clients must present
//   - secret: The HMAC key, typically a per-process random value
//
// Returns:
//   - *Verifier: A verifier for expected
//   - error: ErrTooShort if expected is shorter than MinTokenLength
func NewVerifier(expected, secret string) (*Verifier, error) {
	if err := ValidateLength(expected); err != nil {
		return nil, err
	}
	return &Verifier{secret: secret, digest: Hash(expected, secret)}, nil
}

// Verify reports whether provided matches the expected token.
// The comparison takes the same time whether or not the token matches.
func (v *Verifier) Verify(provided string) bool {
	return hmac.Equal([]byte(Hash(provided, v.secret)), []byte(v.digest))
}
