package cryptox_test

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/nusalapor/backend/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestDecodeKey(t *testing.T) {
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i * 7)
	}

	for name, encoded := range map[string]string{
		"std":     base64.StdEncoding.EncodeToString(key),
		"raw std": base64.RawStdEncoding.EncodeToString(key),
		"url":     base64.URLEncoding.EncodeToString(key),
		"raw url": base64.RawURLEncoding.EncodeToString(key) + "\n",
	} {
		t.Run(name, func(t *testing.T) {
			got, err := cryptox.DecodeKey(encoded, 32)
			require.NoError(t, err)
			require.Equal(t, key, got)
		})
	}

	_, err := cryptox.DecodeKey(base64.StdEncoding.EncodeToString(key[:16]), 32)
	require.Error(t, err)

	_, err = cryptox.DecodeKey("%%%", 32)
	require.Error(t, err)
}

func TestLoadOrGenerateKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "field.key")

	key, generated, err := cryptox.LoadOrGenerateKey(path, 32)
	require.NoError(t, err)
	require.True(t, generated)
	require.Len(t, key, 32)

	again, generated, err := cryptox.LoadOrGenerateKey(path, 32)
	require.NoError(t, err)
	require.False(t, generated)
	require.Equal(t, key, again)

	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0600))
	_, _, err = cryptox.LoadOrGenerateKey(path, 32)
	require.Error(t, err)
}
