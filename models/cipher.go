package models

// -----------------------------------------------------------------------------

// AEAD is the minimal interface that must be implemented by all encryption engines. The nonce is
// supplied by the caller so a key artifact can pin the exact (key, nonce) pair used.
type AEAD interface {
	// KeyLen returns the length of the key used by the engine.
	KeyLen() int
	// NonceLen returns the length of the nonce expected by Seal and Open.
	NonceLen() int

	// Seal encrypts and authenticates plaintext. The returned slice holds the ciphertext followed
	// by the authentication tag.
	Seal(nonce []byte, plaintext []byte) ([]byte, error)
	// Open authenticates and decrypts ciphertext.
	Open(nonce []byte, ciphertext []byte) ([]byte, error)
}
