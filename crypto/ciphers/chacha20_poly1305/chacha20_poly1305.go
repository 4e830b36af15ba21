package chacha20_poly1305

import (
	"crypto/cipher"
	"errors"
	"io"

	"github.com/filegram/filegram/models"
	"github.com/filegram/filegram/util"
	"golang.org/x/crypto/chacha20poly1305"
)

// -----------------------------------------------------------------------------

type chachaPolyCipher struct {
	aead cipher.AEAD
}

// -----------------------------------------------------------------------------

// GenerateKey generates a new ChaCha20-Poly1305 key.
func GenerateKey(r io.Reader) ([]byte, error) {
	key := make([]byte, chacha20poly1305.KeySize)

	_, err := io.ReadFull(r, key)
	if err != nil {
		return nil, util.NewExtendedError(nil, err, "unable to generate aead key")
	}

	// Done.
	return key, nil
}

// NewFromKey creates a new ChaCha20-Poly1305 cipher object from the given key.
func NewFromKey(key []byte) (models.AEAD, error) {
	if len(key) != chacha20poly1305.KeySize {
		return nil, errors.New("key must be 32 bytes long")
	}

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, util.NewExtendedError(nil, err, "failed to create cipher")
	}

	// Done.
	return &chachaPolyCipher{
		aead: aead,
	}, nil
}

func (c *chachaPolyCipher) KeyLen() int {
	return chacha20poly1305.KeySize
}

func (c *chachaPolyCipher) NonceLen() int {
	return chacha20poly1305.NonceSize
}

// Seal encrypts the given plaintext. The output is the ciphertext followed by the 16-byte tag.
func (c *chachaPolyCipher) Seal(nonce []byte, plaintext []byte) ([]byte, error) {
	if len(nonce) != chacha20poly1305.NonceSize {
		return nil, errors.New("invalid nonce length")
	}
	return c.aead.Seal(nil, nonce, plaintext, nil), nil
}

// Open verifies the tag and decrypts the given ciphertext.
func (c *chachaPolyCipher) Open(nonce []byte, ciphertext []byte) ([]byte, error) {
	if len(nonce) != chacha20poly1305.NonceSize {
		return nil, errors.New("invalid nonce length")
	}
	if len(ciphertext) < chacha20poly1305.Overhead {
		return nil, errors.New("empty or invalid ciphertext")
	}
	return c.aead.Open(nil, nonce, ciphertext, nil)
}
