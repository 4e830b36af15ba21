package filegram

import (
	"io"
	"sync/atomic"

	"github.com/filegram/filegram/crypto/ciphers"
	"github.com/filegram/filegram/models"
	"github.com/filegram/filegram/util"
)

// -----------------------------------------------------------------------------

// Cipher performs authenticated encryption with a single (key, nonce) pair that it owns for its
// whole lifetime.
//
// Reusing a nonce under the same key voids the AEAD guarantees, so a Cipher encrypts at most once:
// the second Encrypt call fails with ErrCipherAlreadyUsed. Ciphers rebuilt from a key artifact
// are decrypt-only because their nonce has already been used by the party that exported it.
//
// A Cipher is meant to be owned by a single caller. Independent callers must use independent
// instances.
type Cipher struct {
	engine string
	key    []byte
	nonce  []byte
	aead   models.AEAD

	used atomic.Bool
}

// Options configure the creation of a new Cipher.
type Options struct {
	// Engine names the AEAD engine. Empty selects ciphers.DefaultEngine.
	Engine string

	// An optional random number generator reader. If nil, crypto/rand.Reader is used.
	RandomGeneratorReader io.Reader
}

// -----------------------------------------------------------------------------

// Generate creates a cipher with a fresh random 256-bit key and a fresh random 96-bit nonce.
// No I/O other than reading the random source is performed; persisting the key is up to the caller
// through ExportArtifact.
func Generate(opts Options) (*Cipher, error) {
	rg := randomReader(opts.RandomGeneratorReader)

	key, err := ciphers.GenerateKey(opts.Engine, rg)
	if err != nil {
		return nil, err
	}
	defer util.SafeZeroMem(key)

	return FromKeyMaterial(key, opts)
}

// FromKeyMaterial creates a cipher bound to the given 256-bit key and a fresh random nonce. The key
// is copied.
func FromKeyMaterial(key []byte, opts Options) (*Cipher, error) {
	if len(key) != ciphers.KeySize {
		return nil, util.NewExtendedError(ErrInvalidKeyMaterial, nil, "key must be 32 bytes long")
	}

	nonce, err := generateNonce(randomReader(opts.RandomGeneratorReader), ciphers.NonceSize)
	if err != nil {
		return nil, err
	}

	return newCipher(opts.Engine, key, nonce)
}

// FromArtifact rebuilds the cipher described by a key artifact, with the exact key and nonce it
// carries. The returned cipher can only decrypt.
func FromArtifact(a *KeyArtifact) (*Cipher, error) {
	if a == nil {
		return nil, util.NewExtendedError(ErrInvalidKeyMaterial, nil, "nil key artifact")
	}
	err := a.Validate()
	if err != nil {
		return nil, err
	}

	c, err := newCipher(a.Engine, a.Key, util.CloneBytes(a.Nonce))
	if err != nil {
		return nil, err
	}
	c.used.Store(true)

	// Done
	return c, nil
}

func newCipher(engine string, key []byte, nonce []byte) (*Cipher, error) {
	engine = ciphers.Normalize(engine)

	if len(nonce) != ciphers.NonceSize {
		return nil, util.NewExtendedError(ErrInvalidKeyMaterial, nil, "nonce must be 12 bytes long")
	}

	aead, err := ciphers.NewFromKey(engine, key)
	if err != nil {
		return nil, err
	}

	// Done
	return &Cipher{
		engine: engine,
		key:    util.CloneBytes(key),
		nonce:  nonce,
		aead:   aead,
	}, nil
}

// Engine returns the name of the AEAD engine in use.
func (c *Cipher) Engine() string {
	return c.engine
}

// ExportArtifact returns a copy of the key and nonce for external persistence.
func (c *Cipher) ExportArtifact() *KeyArtifact {
	return &KeyArtifact{
		Engine: c.engine,
		Key:    util.CloneBytes(c.key),
		Nonce:  util.CloneBytes(c.nonce),
	}
}

// Encrypt seals plaintext and returns the ciphertext followed by the authentication tag. It
// succeeds once per cipher.
func (c *Cipher) Encrypt(plaintext []byte) ([]byte, error) {
	if c.aead == nil {
		return nil, ErrCipherDestroyed
	}
	if !c.used.CompareAndSwap(false, true) {
		return nil, ErrCipherAlreadyUsed
	}

	ciphertext, err := c.aead.Seal(c.nonce, plaintext)
	if err != nil {
		return nil, util.NewExtendedError(nil, err, "unable to seal plaintext")
	}

	// Done
	return ciphertext, nil
}

// Decrypt verifies and opens ciphertext. A tag mismatch returns ErrAuthentication.
func (c *Cipher) Decrypt(ciphertext []byte) ([]byte, error) {
	if c.aead == nil {
		return nil, ErrCipherDestroyed
	}

	plaintext, err := c.aead.Open(c.nonce, ciphertext)
	if err != nil {
		return nil, util.NewExtendedError(ErrAuthentication, err, "unable to open ciphertext")
	}

	// Done
	return plaintext, nil
}

// Destroy zeroes the key material. The cipher cannot be used afterward.
func (c *Cipher) Destroy() {
	util.SafeZeroMem(c.key, c.nonce)
	c.key = nil
	c.nonce = nil
	c.aead = nil
	c.used.Store(true)
}
