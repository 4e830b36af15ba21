package codec

import (
	"io"

	"github.com/filegram/filegram/padding"
)

// -----------------------------------------------------------------------------

// EncodeBytes lays data out as a grid of len(data)/BlockSize+1 rows. The last row holds the
// remainder padded to BlockSize; when len(data) is a multiple of BlockSize it is a block made
// only of padding.
func EncodeBytes(data []byte) *Grid {
	fullLen := len(data) / BlockSize * BlockSize

	g := NewGrid(fullLen/BlockSize + 1)
	copy(g.Pix, data[:fullLen])
	copy(g.Pix[fullLen:], padBlock(data[fullLen:]))

	// Done
	return g
}

// Encode reads r to exhaustion and lays its bytes out exactly as EncodeBytes does. Short reads
// are retried until a whole block is available or the source ends. Read errors other than EOF are
// returned unchanged.
func Encode(r io.Reader) (*Grid, error) {
	g := &Grid{
		Width: ImageWidth,
	}
	if sized, ok := r.(interface{ Len() int }); ok {
		g.Pix = make([]byte, 0, (sized.Len()/BlockSize+1)*BlockSize)
	}

	block := make([]byte, BlockSize)
	for {
		n, err := io.ReadFull(r, block)
		switch err {
		case nil:
			g.appendRow(block)

		case io.EOF, io.ErrUnexpectedEOF:
			g.appendRow(padBlock(block[:n]))
			return g, nil

		default:
			return nil, err
		}
	}
}

func padBlock(data []byte) []byte {
	block, err := padding.Pad(data, BlockSize)
	if err != nil {
		// Callers never pass more than BlockSize-1 bytes.
		panic(err)
	}
	return block
}
