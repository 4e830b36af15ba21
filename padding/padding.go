// Package padding implements ANSI X9.23 block padding for a single final block.
//
// The padded block carries zero filler bytes followed by one byte holding the number of padding
// bytes added, so block sizes are limited to 255.
package padding

import (
	"errors"
)

// -----------------------------------------------------------------------------

// MaxBlockSize is the largest block whose padding count fits in the trailing byte.
const MaxBlockSize = 255

var (
	// ErrInvalidPadding is returned by Unpad when the trailing count byte is zero or out of range,
	// or when a filler byte is not zero.
	ErrInvalidPadding = errors.New("invalid padding")

	ErrInvalidBlockSize = errors.New("invalid block size")
	ErrDataTooLong      = errors.New("data does not fit in a single block")
)

// -----------------------------------------------------------------------------

// Pad returns a block of exactly blockSize bytes holding data at the front. A full-size input is
// returned as a copy with no padding applied.
func Pad(data []byte, blockSize int) ([]byte, error) {
	if blockSize < 1 || blockSize > MaxBlockSize {
		return nil, ErrInvalidBlockSize
	}
	dataLen := len(data)
	if dataLen > blockSize {
		return nil, ErrDataTooLong
	}

	block := make([]byte, blockSize)
	copy(block, data)
	if dataLen < blockSize {
		// Filler stays zero; only the count byte is written.
		block[blockSize-1] = byte(blockSize - dataLen)
	}

	// Done
	return block, nil
}

// Unpad strips the padding from a block produced by Pad and returns the original data. The
// returned slice shares memory with block.
func Unpad(block []byte) ([]byte, error) {
	blockLen := len(block)
	if blockLen == 0 {
		return nil, ErrInvalidPadding
	}

	count := int(block[blockLen-1])
	if count == 0 || count > blockLen {
		return nil, ErrInvalidPadding
	}
	for idx := blockLen - count; idx < blockLen-1; idx++ {
		if block[idx] != 0 {
			return nil, ErrInvalidPadding
		}
	}

	// Done
	return block[:blockLen-count], nil
}
