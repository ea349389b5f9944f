package cryptox_test

import (
	"encoding/base64"
	"regexp"
	"strings"
	"testing"

	"github.com/nusalapor/backend/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

var hexDigest = regexp.MustCompile(`^[0-9a-f]{64}$`)

func TestNewPasswordHasher_IterationFloor(t *testing.T) {
	require.Equal(t, cryptox.MinPasswordIterations, cryptox.NewPasswordHasher(1).Iterations)
	require.Equal(t, 250_000, cryptox.NewPasswordHasher(250_000).Iterations)
}

func TestNewSalt(t *testing.T) {
	h := cryptox.NewPasswordHasher(0)

	salt, err := h.NewSalt()
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(salt)
	require.NoError(t, err)
	require.Len(t, raw, 32)

	other, err := h.NewSalt()
	require.NoError(t, err)
	require.NotEqual(t, salt, other)
}

func TestDerive(t *testing.T) {
	h := cryptox.NewPasswordHasher(0)

	a := h.Derive("password123", "c2FsdA==")
	require.Regexp(t, hexDigest, a)
	require.Equal(t, a, h.Derive("password123", "c2FsdA=="), "derivation must be deterministic")
	require.NotEqual(t, a, h.Derive("password123", "b3RoZXI="), "salt must change the digest")

	// More iterations produce a different digest for the same input
	require.NotEqual(t, a, cryptox.NewPasswordHasher(100_001).Derive("password123", "c2FsdA=="))
}

func TestVerify(t *testing.T) {
	h := cryptox.NewPasswordHasher(0)

	hash, salt, err := h.Hash("correct-password")
	require.NoError(t, err)

	tests := []struct {
		name     string
		password string
		salt     string
		hash     string
		want     bool
	}{
		{"correct password", "correct-password", salt, hash, true},
		{"wrong password", "wrong-password", salt, hash, false},
		{"case difference", "Correct-Password", salt, hash, false},
		{"trailing space", "correct-password ", salt, hash, false},
		{"empty password", "", salt, hash, false},
		{"missing salt", "correct-password", "", hash, false},
		{"missing hash", "correct-password", salt, "", false},
		{"wrong salt", "correct-password", "c2FsdA==", hash, false},
		{"unicode mismatch", "пароль🔒", salt, hash, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, h.Verify(tt.password, tt.salt, tt.hash))
		})
	}
}

func TestHash_UniqueSalts(t *testing.T) {
	h := cryptox.NewPasswordHasher(0)

	hash1, salt1, err := h.Hash("samepassword")
	require.NoError(t, err)
	hash2, salt2, err := h.Hash("samepassword")
	require.NoError(t, err)

	require.NotEqual(t, salt1, salt2)
	require.NotEqual(t, hash1, hash2)
	require.True(t, h.Verify("samepassword", salt1, hash1))
	require.True(t, h.Verify("samepassword", salt2, hash2))
}

func TestVerifyDummy(t *testing.T) {
	// Only has to run without panicking on odd input
	h := cryptox.NewPasswordHasher(0)
	h.VerifyDummy("")
	h.VerifyDummy(strings.Repeat("x", 4096))
}
