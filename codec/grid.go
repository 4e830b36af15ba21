// Package codec lays a byte stream out as rows of RGB pixels and reads it back.
//
// Every row holds exactly one BlockSize block, three bytes per pixel. The final row is always an
// ANSI X9.23 padded block, so a grid of N rows carries between (N-1)*BlockSize and
// N*BlockSize-1 bytes of data.
package codec

import (
	"image"
	"image/color"
)

// -----------------------------------------------------------------------------

const (
	// BlockSize is the number of bytes stored in one row.
	BlockSize = 255
	// ImageWidth is the width of every grid in pixels.
	ImageWidth = 85
	// BytesPerPixel is the number of data bytes carried by one pixel (R, G and B).
	BytesPerPixel = 3
)

// Encoder and decoder must agree on these values; a mismatch does not compile.
var _ [0]struct{} = [ImageWidth*BytesPerPixel - BlockSize]struct{}{}

// -----------------------------------------------------------------------------

// Grid is a fixed-width raster of RGB triples. Pix holds Height rows of Width*3 bytes.
type Grid struct {
	Width  int
	Height int
	Pix    []byte
}

// -----------------------------------------------------------------------------

// NewGrid creates a zeroed grid with ImageWidth columns and the given number of rows.
func NewGrid(height int) *Grid {
	return &Grid{
		Width:  ImageWidth,
		Height: height,
		Pix:    make([]byte, height*ImageWidth*BytesPerPixel),
	}
}

// Stride returns the number of bytes in one row.
func (g *Grid) Stride() int {
	return g.Width * BytesPerPixel
}

// Row returns the bytes of row y. The slice aliases the grid.
func (g *Grid) Row(y int) []byte {
	stride := g.Stride()
	return g.Pix[y*stride : (y+1)*stride]
}

func (g *Grid) ColorModel() color.Model {
	return color.RGBAModel
}

func (g *Grid) Bounds() image.Rectangle {
	return image.Rect(0, 0, g.Width, g.Height)
}

func (g *Grid) At(x, y int) color.Color {
	return g.RGBAt(x, y)
}

// RGBAt returns the pixel at (x, y) as an opaque color.RGBA.
func (g *Grid) RGBAt(x, y int) color.RGBA {
	if !(image.Point{X: x, Y: y}.In(g.Bounds())) {
		return color.RGBA{}
	}
	ofs := y*g.Stride() + x*BytesPerPixel
	return color.RGBA{R: g.Pix[ofs], G: g.Pix[ofs+1], B: g.Pix[ofs+2], A: 0xFF}
}

// Opaque reports true so image encoders store 8-bit RGB without an alpha channel.
func (g *Grid) Opaque() bool {
	return true
}

func (g *Grid) appendRow(row []byte) {
	g.Pix = append(g.Pix, row...)
	g.Height++
}
