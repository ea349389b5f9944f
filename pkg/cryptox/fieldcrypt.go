package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
)

// FieldPrefix tags every value produced by FieldEncryptor. Anything carrying
// it is treated as ciphertext and never encrypted twice.
const FieldPrefix = "enc:v1:"

// FieldKeySize is the required key length (AES-256).
const FieldKeySize = 32

var ErrDecryption = errors.New("cryptox: field decryption failed")

// FieldEncryptor seals short text fields (phone numbers and the like) with
// AES-256-GCM. Output format: FieldPrefix + base64url(nonce || ciphertext || tag).
type FieldEncryptor struct {
	aead cipher.AEAD
}

// NewFieldEncryptor builds an encryptor from a 32 byte key.
func NewFieldEncryptor(key []byte) (*FieldEncryptor, error) {
	if len(key) != FieldKeySize {
		return nil, fmt.Errorf("cryptox: field key must be %d bytes, got %d", FieldKeySize, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &FieldEncryptor{aead: gcm}, nil
}

// IsEncrypted reports whether v already carries the ciphertext tag.
func (e *FieldEncryptor) IsEncrypted(v string) bool {
	return strings.HasPrefix(v, FieldPrefix)
}

// Encrypt seals plaintext. Empty input stays empty and tagged input is
// returned unchanged, so re-saving a record never double-encrypts.
func (e *FieldEncryptor) Encrypt(plaintext string) (string, error) {
	if plaintext == "" || e.IsEncrypted(plaintext) {
		return plaintext, nil
	}

	nonce := make([]byte, e.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := e.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return FieldPrefix + base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Decrypt opens a value produced by Encrypt. Untagged, truncated, tampered
// or foreign-key input yields ErrDecryption.
func (e *FieldEncryptor) Decrypt(token string) (string, error) {
	if !e.IsEncrypted(token) {
		return "", ErrDecryption
	}

	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimPrefix(token, FieldPrefix))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDecryption, err)
	}

	nonceSize := e.aead.NonceSize()
	if len(raw) < nonceSize+e.aead.Overhead() {
		return "", fmt.Errorf("%w: ciphertext too short", ErrDecryption)
	}

	nonce, ciphertext := raw[:nonceSize], raw[nonceSize:]
	plaintext, err := e.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDecryption, err)
	}

	return string(plaintext), nil
}
