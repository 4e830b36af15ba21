package filegram

import (
	"image"
	"io"

	"github.com/filegram/filegram/codec"
)

// -----------------------------------------------------------------------------

// EncodeOptions configure EncodeStream and EncodeBytes.
type EncodeOptions struct {
	// Encrypt wraps the data in authenticated encryption before it is laid out as pixels.
	Encrypt bool

	// Engine names the AEAD engine used when Encrypt is set. Empty selects the default engine.
	Engine string

	// An optional random number generator reader. If nil, crypto/rand.Reader is used.
	RandomGeneratorReader io.Reader
}

// -----------------------------------------------------------------------------

// EncodeStream converts the contents of r into a pixel grid. Unencrypted data is streamed block
// by block; encrypted data is read in full first because the AEAD seals one buffer. The returned
// key artifact is nil unless opts.Encrypt is set.
func EncodeStream(r io.Reader, opts EncodeOptions) (*codec.Grid, *KeyArtifact, error) {
	if !opts.Encrypt {
		g, err := codec.Encode(r)
		if err != nil {
			return nil, nil, err
		}
		return g, nil, nil
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, err
	}
	return EncodeBytes(data, opts)
}

// EncodeBytes converts data into a pixel grid, encrypting it first when opts.Encrypt is set.
func EncodeBytes(data []byte, opts EncodeOptions) (*codec.Grid, *KeyArtifact, error) {
	if !opts.Encrypt {
		return codec.EncodeBytes(data), nil, nil
	}

	c, err := Generate(Options{
		Engine:                opts.Engine,
		RandomGeneratorReader: opts.RandomGeneratorReader,
	})
	if err != nil {
		return nil, nil, err
	}
	defer c.Destroy()

	ciphertext, err := c.Encrypt(data)
	if err != nil {
		return nil, nil, err
	}

	// Done
	return codec.EncodeBytes(ciphertext), c.ExportArtifact(), nil
}

// DecodeImage rebuilds the original bytes from an image produced by EncodeStream or EncodeBytes.
// When artifact is not nil the decoded bytes are decrypted with it.
func DecodeImage(img image.Image, artifact *KeyArtifact) ([]byte, error) {
	data, err := codec.Decode(img)
	if err != nil {
		return nil, err
	}
	if artifact == nil {
		return data, nil
	}

	c, err := FromArtifact(artifact)
	if err != nil {
		return nil, err
	}
	defer c.Destroy()

	return c.Decrypt(data)
}
