package filegram

import (
	"errors"
	"fmt"

	bstd "github.com/deneonet/benc/std"
	"github.com/filegram/filegram/crypto/ciphers"
	"github.com/filegram/filegram/util"
	"github.com/mxmauro/shamir"
)

// -----------------------------------------------------------------------------

const (
	keyArtifactVersion = 1

	maxKeyShares = 255
)

// -----------------------------------------------------------------------------

// KeyArtifact is the persisted (key, nonce) pair that lets a decoding party rebuild the cipher
// used to encrypt an image.
type KeyArtifact struct {
	// Engine names the AEAD engine. Empty means ciphers.DefaultEngine.
	Engine string
	Key    []byte
	Nonce  []byte
}

// -----------------------------------------------------------------------------

// DeserializeKeyArtifact parses the binary form produced by Serialize.
func DeserializeKeyArtifact(buf []byte) (*KeyArtifact, error) {
	bufSize := len(buf)
	if bufSize <= bstd.SizeUint16() {
		return nil, ErrInvalidKeyArtifact
	}

	a := KeyArtifact{}

	success := false
	defer func() {
		if !success {
			a.Zeroize()
		}
	}()

	// Deserialize data.
	ofs, version, err := bstd.UnmarshalUint16(0, buf)
	if err != nil {
		return nil, ErrInvalidKeyArtifact
	}
	switch version {
	case 1:
		ofs, a.Engine, err = bstd.UnmarshalString(ofs, buf)
		if err != nil {
			return nil, ErrInvalidKeyArtifact
		}
		ofs, a.Key, err = bstd.UnmarshalBytesCopied(ofs, buf)
		if err != nil {
			return nil, ErrInvalidKeyArtifact
		}
		ofs, a.Nonce, err = bstd.UnmarshalBytesCopied(ofs, buf)
		if err != nil {
			return nil, ErrInvalidKeyArtifact
		}

	default:
		return nil, util.NewExtendedError(ErrInvalidKeyArtifact, nil, fmt.Sprintf("unsupported version %d", version))
	}

	// Check if we reached the end of the buffer.
	if ofs != len(buf) {
		return nil, ErrInvalidKeyArtifact
	}

	err = a.Validate()
	if err != nil {
		return nil, err
	}

	// Done
	success = true
	return &a, nil
}

// Serialize returns the compact, versioned binary form of the artifact.
func (a *KeyArtifact) Serialize() []byte {
	engine := ciphers.Normalize(a.Engine)

	bufSize := bstd.SizeUint16() + bstd.SizeString(engine) + bstd.SizeBytes(a.Key) + bstd.SizeBytes(a.Nonce)
	buf := make([]byte, bufSize)

	ofs := bstd.MarshalUint16(0, buf, keyArtifactVersion)
	ofs = bstd.MarshalString(ofs, buf, engine)
	ofs = bstd.MarshalBytes(ofs, buf, a.Key)
	_ = bstd.MarshalBytes(ofs, buf, a.Nonce)

	// Done
	return buf
}

// Validate checks the key and nonce lengths and that the engine is available.
func (a *KeyArtifact) Validate() error {
	if !ciphers.IsEngineSupported(a.Engine) {
		return util.NewExtendedError(ciphers.ErrEngineNotSupported, nil, a.Engine)
	}
	if len(a.Key) != ciphers.KeySize {
		return util.NewExtendedError(ErrInvalidKeyMaterial, nil, fmt.Sprintf("key is %d bytes long, want %d", len(a.Key), ciphers.KeySize))
	}
	if len(a.Nonce) != ciphers.NonceSize {
		return util.NewExtendedError(ErrInvalidKeyMaterial, nil, fmt.Sprintf("nonce is %d bytes long, want %d", len(a.Nonce), ciphers.NonceSize))
	}
	return nil
}

// Zeroize wipes the key material held by the artifact.
func (a *KeyArtifact) Zeroize() {
	a.Engine = ""
	util.SafeZeroMem(a.Key, a.Nonce)
	a.Key = nil
	a.Nonce = nil
}

// -----------------------------------------------------------------------------

// SplitKeyArtifact splits the binary form of the artifact into shares using Shamir's secret
// sharing. Any threshold shares rebuild it. A single share is the serialized artifact itself.
func SplitKeyArtifact(a *KeyArtifact, shares int, threshold int) ([][]byte, error) {
	if shares < 1 || shares > maxKeyShares || threshold < 1 || threshold > shares {
		return nil, ErrInvalidKeySplit
	}
	if shares > 1 && threshold < 2 {
		return nil, util.NewExtendedError(ErrInvalidKeySplit, nil, "threshold must be at least 2 when splitting")
	}
	err := a.Validate()
	if err != nil {
		return nil, err
	}

	serialized := a.Serialize()
	if shares == 1 {
		return [][]byte{serialized}, nil
	}
	defer util.SafeZeroMem(serialized)

	split, err := shamir.Split(serialized, shares, threshold)
	if err != nil {
		return nil, util.NewExtendedError(ErrInvalidKeySplit, err, "unable to split key artifact")
	}

	// Done
	return split, nil
}

// CombineKeyArtifact rebuilds an artifact from shares produced by SplitKeyArtifact.
func CombineKeyArtifact(shares [][]byte) (*KeyArtifact, error) {
	switch len(shares) {
	case 0:
		return nil, ErrNotEnoughShares
	case 1:
		return DeserializeKeyArtifact(shares[0])
	}

	merged, err := shamir.Combine(shares)
	if err != nil {
		return nil, util.NewExtendedError(ErrInvalidKeyArtifact, err, "unable to combine key shares")
	}
	defer util.SafeZeroMem(merged)

	a, err := DeserializeKeyArtifact(merged)
	if err != nil {
		if errors.Is(err, ErrInvalidKeyArtifact) {
			// Shamir cannot tell a short set of shares from a complete one.
			return nil, util.NewExtendedError(ErrNotEnoughShares, err, "shares do not rebuild a key artifact")
		}
		return nil, err
	}

	// Done
	return a, nil
}
