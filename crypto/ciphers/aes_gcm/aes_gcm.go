package aes_gcm

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"
	"io"

	"github.com/filegram/filegram/models"
	"github.com/filegram/filegram/util"
)

// -----------------------------------------------------------------------------

const (
	aesKeyLen = 32
)

// -----------------------------------------------------------------------------

type aesGcmCipher struct {
	aead cipher.AEAD
}

// -----------------------------------------------------------------------------

// GenerateKey generates a new AES-GCM key.
func GenerateKey(r io.Reader) ([]byte, error) {
	// Generate a 256bit key.
	key := make([]byte, aesKeyLen)

	_, err := io.ReadFull(r, key)
	if err != nil {
		return nil, util.NewExtendedError(nil, err, "unable to generate aead key")
	}

	// Done.
	return key, nil
}

// NewFromKey creates a new AES-GCM cipher object from the given key.
func NewFromKey(key []byte) (models.AEAD, error) {
	if len(key) != aesKeyLen {
		return nil, errors.New("key must be 32 bytes long")
	}

	// Create the AES cipher.
	_cipher, err := aes.NewCipher(key)
	if err != nil {
		return nil, util.NewExtendedError(nil, err, "failed to create cipher")
	}

	// Create the GCM in AEAD mode.
	aead, err := cipher.NewGCM(_cipher)
	if err != nil {
		return nil, util.NewExtendedError(nil, err, "failed to create cipher")
	}

	// Done.
	return &aesGcmCipher{
		aead: aead,
	}, nil
}

// KeyLen returns the length of the key used by the AES-GCM cipher.
func (c *aesGcmCipher) KeyLen() int {
	return aesKeyLen
}

// NonceLen returns the length of the nonce used by the AES-GCM cipher.
func (c *aesGcmCipher) NonceLen() int {
	return c.aead.NonceSize()
}

// Seal encrypts the given plaintext using the AES-GCM cipher.
func (c *aesGcmCipher) Seal(nonce []byte, plaintext []byte) ([]byte, error) {
	if len(nonce) != c.aead.NonceSize() {
		return nil, errors.New("invalid nonce length")
	}
	return c.aead.Seal(nil, nonce, plaintext, nil), nil
}

// Open decrypts the given ciphertext using the AES-GCM cipher.
func (c *aesGcmCipher) Open(nonce []byte, ciphertext []byte) ([]byte, error) {
	if len(nonce) != c.aead.NonceSize() {
		return nil, errors.New("invalid nonce length")
	}
	if len(ciphertext) < c.aead.Overhead() {
		return nil, errors.New("empty or invalid ciphertext")
	}
	return c.aead.Open(nil, nonce, ciphertext, nil)
}
