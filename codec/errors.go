package codec

import (
	"errors"
)

// -----------------------------------------------------------------------------

var (
	// ErrCorruptImage is returned by Decode when the image was not produced by this codec, or was
	// truncated or altered after encoding.
	ErrCorruptImage = errors.New("corrupt image")
)
