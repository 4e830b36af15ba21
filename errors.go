package filegram

import (
	"errors"
)

// -----------------------------------------------------------------------------

var (
	// ErrAuthentication is returned by Decrypt when the authentication tag does not verify. The
	// ciphertext was altered, or the key or nonce are not the ones used to encrypt it.
	ErrAuthentication = errors.New("authentication failed")

	// ErrCipherAlreadyUsed is returned by Encrypt on a cipher whose nonce was already consumed,
	// either by a previous Encrypt call or because it was loaded from a key artifact.
	ErrCipherAlreadyUsed = errors.New("cipher nonce already used")

	// ErrInvalidKeyMaterial is returned when a key or nonce has the wrong length.
	ErrInvalidKeyMaterial = errors.New("invalid key material")

	// ErrInvalidKeyArtifact is returned when a serialized key artifact cannot be parsed.
	ErrInvalidKeyArtifact = errors.New("invalid key artifact")

	ErrCipherDestroyed  = errors.New("cipher destroyed")
	ErrInvalidKeySplit  = errors.New("invalid shares or threshold parameter")
	ErrNotEnoughShares  = errors.New("not enough key shares")
	ErrUnknownKeyFormat = errors.New("unknown key format")
)
