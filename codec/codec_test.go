package codec_test

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"testing"
	"testing/iotest"

	"github.com/filegram/filegram/codec"
	"github.com/filegram/filegram/padding"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"
)

// -----------------------------------------------------------------------------

func sequence(n int) []byte {
	data := make([]byte, n)
	for idx := range data {
		data[idx] = byte(idx*7 + 3)
	}
	return data
}

// -----------------------------------------------------------------------------

func TestEncodeTwoBytes(t *testing.T) {
	g := codec.EncodeBytes([]byte("AB"))
	require.Equal(t, codec.ImageWidth, g.Width)
	require.Equal(t, 1, g.Height)
	require.Equal(t, color.RGBA{R: 0x41, G: 0x42, B: 0x00, A: 0xFF}, g.RGBAt(0, 0))

	// The count byte lands in the blue channel of the last pixel.
	require.Equal(t, color.RGBA{R: 0, G: 0, B: codec.BlockSize - 2, A: 0xFF}, g.RGBAt(codec.ImageWidth-1, 0))

	data, err := codec.Decode(g)
	require.NoError(t, err)
	require.Equal(t, []byte("AB"), data)
}

func TestEncodeEmpty(t *testing.T) {
	g := codec.EncodeBytes(nil)
	require.Equal(t, 1, g.Height)
	require.Equal(t, byte(codec.BlockSize), g.Pix[codec.BlockSize-1])
	require.Equal(t, make([]byte, codec.BlockSize-1), g.Pix[:codec.BlockSize-1])

	data, err := codec.Decode(g)
	require.NoError(t, err)
	require.Empty(t, data)
}

func TestEncodeExactMultipleAddsPaddingRow(t *testing.T) {
	for _, blocks := range []int{1, 2, 5} {
		input := sequence(blocks * codec.BlockSize)

		g := codec.EncodeBytes(input)
		require.Equal(t, blocks+1, g.Height)
		require.Equal(t, input, g.Pix[:len(input)])

		last := g.Row(g.Height - 1)
		require.Equal(t, byte(codec.BlockSize), last[codec.BlockSize-1])

		data, err := codec.Decode(g)
		require.NoError(t, err)
		require.Equal(t, input, data)
	}
}

func TestEncodeReaderMatchesSlice(t *testing.T) {
	for _, n := range []int{0, 1, 254, 255, 256, 1000, 3 * codec.BlockSize} {
		input := sequence(n)
		expected := codec.EncodeBytes(input)

		g, err := codec.Encode(bytes.NewReader(input))
		require.NoError(t, err)
		require.Equal(t, expected, g, "bytes.Reader n=%d", n)

		// Short reads must be retried until a whole block is available.
		g, err = codec.Encode(iotest.OneByteReader(bytes.NewReader(input)))
		require.NoError(t, err)
		require.Equal(t, expected.Height, g.Height, "one byte reader n=%d", n)
		require.Equal(t, expected.Pix, g.Pix, "one byte reader n=%d", n)
	}
}

func TestEncodeReaderError(t *testing.T) {
	errRead := errors.New("disk on fire")
	_, err := codec.Encode(iotest.ErrReader(errRead))
	require.ErrorIs(t, err, errRead)
}

func TestDecodeRejectsWrongWidth(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, codec.ImageWidth+1, 2))
	_, err := codec.Decode(img)
	require.ErrorIs(t, err, codec.ErrCorruptImage)

	_, err = codec.Decode(&codec.Grid{Width: codec.ImageWidth})
	require.ErrorIs(t, err, codec.ErrCorruptImage)
}

func TestDecodeRejectsBadPadding(t *testing.T) {
	// A zero row has a zero count byte.
	_, err := codec.Decode(codec.NewGrid(3))
	require.ErrorIs(t, err, codec.ErrCorruptImage)
	require.ErrorIs(t, err, padding.ErrInvalidPadding)

	// Dirty filler inside the padding region.
	g := codec.EncodeBytes([]byte("hello"))
	g.Pix[100] = 1
	_, err = codec.Decode(g)
	require.ErrorIs(t, err, codec.ErrCorruptImage)

	// Truncated pixel buffer.
	g = codec.EncodeBytes(sequence(600))
	g.Pix = g.Pix[:len(g.Pix)-1]
	_, err = codec.Decode(g)
	require.ErrorIs(t, err, codec.ErrCorruptImage)
}

func TestDecodeForeignImageTypes(t *testing.T) {
	input := sequence(777)
	g := codec.EncodeBytes(input)

	rgba := image.NewRGBA(g.Bounds())
	nrgba := image.NewNRGBA(g.Bounds())
	rgba64 := image.NewRGBA64(g.Bounds())
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			c := g.RGBAt(x, y)
			rgba.SetRGBA(x, y, c)
			nrgba.Set(x, y, c)
			rgba64.Set(x, y, c)
		}
	}

	for name, img := range map[string]image.Image{"rgba": rgba, "nrgba": nrgba, "rgba64": rgba64} {
		data, err := codec.Decode(img)
		require.NoError(t, err, name)
		require.Equal(t, input, data, name)
	}
}

func TestDecodeDoesNotAliasGrid(t *testing.T) {
	g := codec.EncodeBytes([]byte("immutable"))
	data, err := codec.Decode(g)
	require.NoError(t, err)
	data[0] = 'X'
	require.Equal(t, byte('i'), g.Pix[0])
}

func TestRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.MaxSize = 2000

	properties := gopter.NewProperties(parameters)

	properties.Property("decode(encode(x)) == x", prop.ForAll(
		func(input []byte) bool {
			g := codec.EncodeBytes(input)
			if g.Height != len(input)/codec.BlockSize+1 {
				return false
			}
			data, err := codec.Decode(g)
			return err == nil && bytes.Equal(data, input)
		},
		gen.SliceOf(gen.UInt8()),
	))

	properties.TestingRun(t)
}
