package ciphers_test

import (
	"crypto/rand"
	"io"
	"testing"

	"github.com/filegram/filegram/crypto/ciphers"
	"github.com/filegram/filegram/crypto/ciphers/aes_gcm"
	"github.com/filegram/filegram/models"
	"github.com/stretchr/testify/require"
)

// -----------------------------------------------------------------------------

func TestSupportedEngines(t *testing.T) {
	list := ciphers.SupportedEngines()
	require.Contains(t, list, "aes-gcm")
	require.Contains(t, list, "chacha20-poly1305")

	require.True(t, ciphers.IsEngineSupported(""))
	require.True(t, ciphers.IsEngineSupported(ciphers.DefaultEngine))
	require.False(t, ciphers.IsEngineSupported("rot13"))
}

func TestGenerateAndCreate(t *testing.T) {
	for _, engine := range []string{"", "aes-gcm", "chacha20-poly1305"} {
		key, err := ciphers.GenerateKey(engine, rand.Reader)
		require.NoError(t, err)
		require.Len(t, key, ciphers.KeySize)

		aead, err := ciphers.NewFromKey(engine, key)
		require.NoError(t, err)
		require.Equal(t, ciphers.NonceSize, aead.NonceLen())
	}

	_, err := ciphers.GenerateKey("rot13", rand.Reader)
	require.ErrorIs(t, err, ciphers.ErrEngineNotSupported)
	_, err = ciphers.NewFromKey("rot13", make([]byte, ciphers.KeySize))
	require.ErrorIs(t, err, ciphers.ErrEngineNotSupported)
}

func TestRegisterEngine(t *testing.T) {
	gen := func(r io.Reader) ([]byte, error) { return aes_gcm.GenerateKey(r) }
	create := func(key []byte) (models.AEAD, error) { return aes_gcm.NewFromKey(key) }

	require.Error(t, ciphers.RegisterEngine("", gen, create))
	require.Error(t, ciphers.RegisterEngine("custom", nil, create))
	require.Error(t, ciphers.RegisterEngine("aes-gcm", gen, create))

	require.NoError(t, ciphers.RegisterEngine("aes-gcm-custom", gen, create))
	require.True(t, ciphers.IsEngineSupported("aes-gcm-custom"))
}
