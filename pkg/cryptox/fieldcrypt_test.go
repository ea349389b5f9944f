package cryptox_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/nusalapor/backend/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func newEncryptor(t *testing.T, fill byte) *cryptox.FieldEncryptor {
	t.Helper()
	enc, err := cryptox.NewFieldEncryptor(bytes.Repeat([]byte{fill}, cryptox.FieldKeySize))
	require.NoError(t, err)
	return enc
}

func TestNewFieldEncryptor_KeySize(t *testing.T) {
	_, err := cryptox.NewFieldEncryptor([]byte("too-short"))
	require.Error(t, err)
}

func TestFieldEncryptor_RoundTrip(t *testing.T) {
	enc := newEncryptor(t, 0x42)

	for _, plain := range []string{"+6281234567890", "081234567", "x"} {
		sealed, err := enc.Encrypt(plain)
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(sealed, cryptox.FieldPrefix))
		if len(plain) >= 8 {
			// short plaintexts can collide with random base64 by chance
			require.NotContains(t, sealed, plain)
		}
		require.True(t, enc.IsEncrypted(sealed))

		opened, err := enc.Decrypt(sealed)
		require.NoError(t, err)
		require.Equal(t, plain, opened)
	}
}

func TestFieldEncryptor_RandomNonce(t *testing.T) {
	enc := newEncryptor(t, 0x01)

	a, err := enc.Encrypt("+628111111111")
	require.NoError(t, err)
	b, err := enc.Encrypt("+628111111111")
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestFieldEncryptor_Idempotent(t *testing.T) {
	enc := newEncryptor(t, 0x07)

	once, err := enc.Encrypt("+628122222222")
	require.NoError(t, err)

	twice, err := enc.Encrypt(once)
	require.NoError(t, err)
	require.Equal(t, once, twice)

	opened, err := enc.Decrypt(twice)
	require.NoError(t, err)
	require.Equal(t, "+628122222222", opened)
}

func TestFieldEncryptor_Empty(t *testing.T) {
	enc := newEncryptor(t, 0x07)

	sealed, err := enc.Encrypt("")
	require.NoError(t, err)
	require.Empty(t, sealed)
	require.False(t, enc.IsEncrypted(""))
}

func TestFieldEncryptor_DecryptFailures(t *testing.T) {
	enc := newEncryptor(t, 0x09)
	sealed, err := enc.Encrypt("+628133333333")
	require.NoError(t, err)

	tampered := []byte(sealed)
	last := len(tampered) - 1
	if tampered[last] == 'A' {
		tampered[last] = 'B'
	} else {
		tampered[last] = 'A'
	}

	tests := []struct {
		name  string
		input string
	}{
		{"plaintext", "+628133333333"},
		{"bad base64", cryptox.FieldPrefix + "!!!"},
		{"too short", cryptox.FieldPrefix + "AAAA"},
		{"tampered", string(tampered)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := enc.Decrypt(tt.input)
			require.ErrorIs(t, err, cryptox.ErrDecryption)
		})
	}

	t.Run("other key", func(t *testing.T) {
		_, err := newEncryptor(t, 0x0A).Decrypt(sealed)
		require.ErrorIs(t, err, cryptox.ErrDecryption)
	})
}
