package codec

import (
	"fmt"
	"image"
	"image/color"

	"github.com/filegram/filegram/padding"
	"github.com/filegram/filegram/util"
)

// -----------------------------------------------------------------------------

// Decode rebuilds the byte stream stored in img. Rows are read left to right as R, G, B triples;
// every row but the last is copied verbatim and the last one is unpadded. Images of the wrong
// width, empty images and images whose last row is not a valid padded block fail with
// ErrCorruptImage.
func Decode(img image.Image) ([]byte, error) {
	bounds := img.Bounds()
	if bounds.Dx() != ImageWidth || bounds.Dy() < 1 {
		return nil, util.NewExtendedError(ErrCorruptImage, nil, fmt.Sprintf(
			"unexpected dimensions %dx%d, want width %d", bounds.Dx(), bounds.Dy(), ImageWidth,
		))
	}

	var data []byte
	if g, ok := img.(*Grid); ok {
		if len(g.Pix) != g.Height*g.Stride() {
			return nil, util.NewExtendedError(ErrCorruptImage, nil, "pixel buffer does not match grid size")
		}
		data = util.CloneBytes(g.Pix)
	} else {
		data = flatten(img)
	}

	lastOfs := len(data) - BlockSize
	last, err := padding.Unpad(data[lastOfs:])
	if err != nil {
		return nil, util.NewExtendedError(ErrCorruptImage, err, "last row is not a padded block")
	}

	// Done
	return data[:lastOfs+len(last)], nil
}

// flatten copies the R, G and B channels of every pixel, row by row.
func flatten(img image.Image) []byte {
	bounds := img.Bounds()
	out := make([]byte, 0, bounds.Dx()*bounds.Dy()*BytesPerPixel)

	switch m := img.(type) {
	case *image.RGBA:
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			out = appendRGB(out, m.Pix[m.PixOffset(bounds.Min.X, y):m.PixOffset(bounds.Max.X, y)])
		}

	case *image.NRGBA:
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			out = appendRGB(out, m.Pix[m.PixOffset(bounds.Min.X, y):m.PixOffset(bounds.Max.X, y)])
		}

	default:
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
				out = append(out, c.R, c.G, c.B)
			}
		}
	}
	return out
}

// appendRGB appends the first three bytes of every 4-byte pixel in row.
func appendRGB(out []byte, row []byte) []byte {
	for ofs := 0; ofs+3 < len(row); ofs += 4 {
		out = append(out, row[ofs], row[ofs+1], row[ofs+2])
	}
	return out
}
