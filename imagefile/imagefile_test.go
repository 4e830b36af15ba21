package imagefile_test

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"strings"
	"testing"

	"github.com/filegram/filegram/codec"
	"github.com/filegram/filegram/imagefile"
	"github.com/stretchr/testify/require"
)

// -----------------------------------------------------------------------------

func TestFormatFromPath(t *testing.T) {
	f, err := imagefile.FormatFromPath("/tmp/out.PNG")
	require.NoError(t, err)
	require.Equal(t, imagefile.FormatPNG, f)

	f, err = imagefile.FormatFromPath("out.bmp")
	require.NoError(t, err)
	require.Equal(t, imagefile.FormatBMP, f)
	require.Equal(t, ".bmp", f.Extension())

	for _, path := range []string{"a.jpg", "a.JPEG", "a.gif", "a.webp"} {
		_, err = imagefile.FormatFromPath(path)
		require.ErrorIs(t, err, imagefile.ErrLossyFormat, path)
	}

	_, err = imagefile.FormatFromPath("a.tiff")
	require.ErrorIs(t, err, imagefile.ErrUnknownFormat)
	_, err = imagefile.FormatFromPath("noext")
	require.ErrorIs(t, err, imagefile.ErrUnknownFormat)
}

func TestContainersKeepExactPixels(t *testing.T) {
	input := make([]byte, 3000)
	for idx := range input {
		input[idx] = byte(idx * 31)
	}
	g := codec.EncodeBytes(input)

	for _, f := range []imagefile.Format{imagefile.FormatPNG, imagefile.FormatBMP} {
		buf := bytes.Buffer{}
		require.NoError(t, imagefile.Write(&buf, g, f), f.String())

		img, detected, err := imagefile.Read(&buf)
		require.NoError(t, err, f.String())
		require.Equal(t, f, detected)
		require.Equal(t, g.Bounds(), img.Bounds())

		data, err := codec.Decode(img)
		require.NoError(t, err, f.String())
		require.Equal(t, input, data, f.String())
	}
}

func TestReadRejectsOtherData(t *testing.T) {
	_, _, err := imagefile.Read(strings.NewReader("definitely not an image"))
	require.ErrorIs(t, err, imagefile.ErrUnknownFormat)

	// JPEG data decodes but is refused.
	buf := bytes.Buffer{}
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	img.Set(1, 1, color.RGBA{R: 10, A: 255})
	require.NoError(t, jpeg.Encode(&buf, img, nil))

	_, _, err = imagefile.Read(&buf)
	require.ErrorIs(t, err, imagefile.ErrLossyFormat)
}
