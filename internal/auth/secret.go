package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is the default cost for bcrypt hashing.
// Cost of 10 provides a good balance between security and performance.
const bcryptCost = 10

// ErrEmptySecret is returned when a gate is built from a blank secret.
var ErrEmptySecret = errors.New("secret is empty")

// normalizeSecret folds secrets longer than bcrypt's 72-byte input limit
// through sha256 so arbitrary-length passwords are accepted. Shorter secrets
// pass through unchanged.
func normalizeSecret(secret string) []byte {
	b := []byte(secret)
	if len(b) <= 72 {
		return b
	}
	sum := sha256.Sum256(b)
	return []byte(hex.EncodeToString(sum[:]))
}

// HashSecret generates a bcrypt hash of a shared secret or room password.
func HashSecret(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(normalizeSecret(secret), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash secret: %w", err)
	}
	return string(hash), nil
}

// CompareSecret compares a bcrypt hash with a plaintext candidate.
func CompareSecret(hash, candidate string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), normalizeSecret(candidate))
}

// SecretGate verifies candidates against a single shared secret. The secret
// itself is kept only as a bcrypt hash; it is supplied via configuration and
// never appears in source.
type SecretGate struct {
	hash string
}

// NewSecretGate builds a gate for the given plaintext secret.
func NewSecretGate(secret string) (*SecretGate, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, ErrEmptySecret
	}
	hash, err := HashSecret(secret)
	if err != nil {
		return nil, err
	}
	return &SecretGate{hash: hash}, nil
}

// Verify reports whether candidate matches the gate's secret.
func (g *SecretGate) Verify(candidate string) bool {
	return CompareSecret(g.hash, candidate) == nil
}
