package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

// PBKDF2 parameters. The salt is stored base64 encoded and the encoded string
// itself is fed to the KDF, so stored records stay portable.
const (
	MinPasswordIterations = 100_000
	passwordKeyLength     = 32
	saltLength            = 32

	// dummySalt is used to burn the same CPU on unknown accounts as on
	// known ones.
	dummySalt = "nusalapor-dummy-salt-for-login-timing"
)

// PasswordHasher derives and verifies PBKDF2-HMAC-SHA256 password hashes.
// The zero value uses MinPasswordIterations.
type PasswordHasher struct {
	Iterations int
}

// NewPasswordHasher returns a hasher, raising iterations to the floor.
func NewPasswordHasher(iterations int) *PasswordHasher {
	return &PasswordHasher{Iterations: max(iterations, MinPasswordIterations)}
}

func (h *PasswordHasher) iterations() int {
	if h == nil {
		return MinPasswordIterations
	}
	return max(h.Iterations, MinPasswordIterations)
}

// NewSalt returns 32 random bytes, std base64 encoded.
func (h *PasswordHasher) NewSalt() (string, error) {
	buf := make([]byte, saltLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("cryptox: generate salt: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf), nil
}

// Derive returns the lowercase hex PBKDF2 digest for password and salt.
func (h *PasswordHasher) Derive(password, salt string) string {
	key := pbkdf2.Key([]byte(password), []byte(salt), h.iterations(), passwordKeyLength, sha256.New)
	return hex.EncodeToString(key)
}

// Hash creates a fresh salt and derives the hash for a new credential.
func (h *PasswordHasher) Hash(password string) (hash, salt string, err error) {
	salt, err = h.NewSalt()
	if err != nil {
		return "", "", err
	}
	return h.Derive(password, salt), salt, nil
}

// Verify reports whether password matches the stored hash. Any empty input
// fails without touching the KDF.
func (h *PasswordHasher) Verify(password, salt, expected string) bool {
	if password == "" || salt == "" || expected == "" {
		return false
	}
	computed := h.Derive(password, salt)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(expected)) == 1
}

// VerifyDummy runs a full derivation against a fixed salt and discards the
// result. Call it when the identifier did not resolve to an account.
func (h *PasswordHasher) VerifyDummy(password string) {
	_ = h.Derive(password, dummySalt)
}
