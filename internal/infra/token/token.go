// Package token issues invitation tokens.
package token

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/te4it/te4it/internal/domain"
)

// Size is the number of random bytes in a token.
const Size = 32

// Ensure Service implements domain.TokenService.
var _ domain.TokenService = (*Service)(nil)

// Service generates URL-safe random tokens and stores them as SHA-256 hashes.
type Service struct {
	rand io.Reader
}

// NewService creates a Service backed by crypto/rand.
func NewService() *Service {
	return &Service{rand: rand.Reader}
}

// NewServiceWithReader creates a Service reading randomness from r.
// This is useful for testing.
func NewServiceWithReader(r io.Reader) *Service {
	return &Service{rand: r}
}

// Generate returns a new random token.
func (s *Service) Generate() (string, error) {
	b := make([]byte, Size)
	if _, err := io.ReadFull(s.rand, b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// Hash returns the hex-encoded SHA-256 of token.
func (s *Service) Hash(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
