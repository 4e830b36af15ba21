package padding_test

import (
	"bytes"
	"testing"

	"github.com/filegram/filegram/padding"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"
)

// -----------------------------------------------------------------------------

func TestPadLayout(t *testing.T) {
	block, err := padding.Pad([]byte("AB"), 8)
	require.NoError(t, err)
	require.Equal(t, []byte{'A', 'B', 0, 0, 0, 0, 0, 6}, block)

	block, err = padding.Pad(nil, 255)
	require.NoError(t, err)
	require.Len(t, block, 255)
	require.Equal(t, byte(255), block[254])
	require.Equal(t, make([]byte, 254), block[:254])
}

func TestPadFullBlockIsPassThrough(t *testing.T) {
	data := []byte("12345678")
	block, err := padding.Pad(data, 8)
	require.NoError(t, err)
	require.Equal(t, data, block)

	// The result must not alias the input.
	block[0] = 'x'
	require.Equal(t, byte('1'), data[0])
}

func TestPadRejectsBadArguments(t *testing.T) {
	_, err := padding.Pad(make([]byte, 9), 8)
	require.ErrorIs(t, err, padding.ErrDataTooLong)

	_, err = padding.Pad(nil, 0)
	require.ErrorIs(t, err, padding.ErrInvalidBlockSize)

	_, err = padding.Pad(nil, 256)
	require.ErrorIs(t, err, padding.ErrInvalidBlockSize)
}

func TestUnpadRejectsInvalidBlocks(t *testing.T) {
	cases := map[string][]byte{
		"empty":         {},
		"all zero":      make([]byte, 255),
		"count too big": {1, 2, 9},
		"dirty filler":  {'A', 7, 0, 3},
	}
	for name, block := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := padding.Unpad(block)
			require.ErrorIs(t, err, padding.ErrInvalidPadding)
		})
	}
}

func TestUnpadWholeBlockOfPadding(t *testing.T) {
	block := make([]byte, 4)
	block[3] = 4
	data, err := padding.Unpad(block)
	require.NoError(t, err)
	require.Empty(t, data)
}

func TestPadUnpadRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("unpad(pad(y, n)) == y for len(y) < n", prop.ForAll(
		func(data []byte, extra int) bool {
			blockSize := len(data) + extra
			if blockSize > padding.MaxBlockSize {
				return true
			}
			block, err := padding.Pad(data, blockSize)
			if err != nil || len(block) != blockSize {
				return false
			}
			out, err := padding.Unpad(block)
			return err == nil && bytes.Equal(out, data)
		},
		gen.SliceOf(gen.UInt8()),
		gen.IntRange(1, 55),
	))

	properties.TestingRun(t)
}
