package jwtx

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestJWK_PEM_Ed25519(t *testing.T) {
	publicKey, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	jwk := NewEd25519JWK("test-key-id", "sig", "EdDSA", publicKey)

	pemStr, err := jwk.PEM()
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(pemStr, "-----BEGIN PUBLIC KEY-----"))

	block, _ := pem.Decode([]byte(pemStr))
	require.NotNil(t, block)

	parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
	require.NoError(t, err)
	require.Equal(t, publicKey, parsed.(ed25519.PublicKey))
}

func TestJWK_RejectsForeignKeyTypes(t *testing.T) {
	_, err := JWK{Kty: "RSA", Kid: "x"}.PEM()
	require.Error(t, err)

	_, err = JWK{Kty: "EC", Crv: "P-256", X: "AAAA"}.PEM()
	require.Error(t, err)

	_, err = JWK{Kty: "OKP", Crv: "X25519", X: "AAAA"}.PEM()
	require.Error(t, err)

	ks := NewKeySet()
	require.Error(t, ks.AddJWK(JWK{Kty: "OKP", Crv: "Ed25519", X: "short"}))
	require.False(t, ks.IsReady())
}

func TestJWK_ThumbprintStable(t *testing.T) {
	publicKey, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	a, err := NewEd25519JWK("a", "sig", "EdDSA", publicKey).Thumbprint()
	require.NoError(t, err)
	b, err := NewEd25519JWK("b", "", "", publicKey).Thumbprint()
	require.NoError(t, err)

	// kid, use and alg are not part of the thumbprint input
	require.Equal(t, a, b)
	require.Len(t, a, 43)
}

func TestKeySet_AddSameKidTwice(t *testing.T) {
	publicKey, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	ks := NewKeySet()
	j := NewEd25519JWK("k", "sig", "EdDSA", publicKey)
	require.NoError(t, ks.AddJWK(j))
	require.NoError(t, ks.AddJWK(j))

	require.Len(t, ks.PublicJWKS().Keys, 1)
	_, err = ks.Get("missing")
	require.ErrorIs(t, err, ErrNoKey)
}
