// Package imagefile stores pixel grids in lossless image containers.
//
// Any change to a pixel value corrupts the decoded bytes, so only formats that keep exact 8-bit
// RGB values are accepted.
package imagefile

import (
	"errors"
	"image"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/filegram/filegram/util"
	"golang.org/x/image/bmp"
)

// -----------------------------------------------------------------------------

// Format identifies an image container.
type Format int

const (
	FormatPNG Format = iota
	FormatBMP
)

var (
	ErrLossyFormat   = errors.New("lossy image format cannot hold exact pixel values")
	ErrUnknownFormat = errors.New("unknown image format")
)

var lossyExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".gif":  {},
	".webp": {},
}

// -----------------------------------------------------------------------------

func (f Format) String() string {
	switch f {
	case FormatPNG:
		return "png"
	case FormatBMP:
		return "bmp"
	}
	return "unknown"
}

// Extension returns the file extension of the format, including the dot.
func (f Format) Extension() string {
	return "." + f.String()
}

// ParseFormat converts a format name such as "png" or "bmp" to a Format.
func ParseFormat(name string) (Format, error) {
	name = strings.TrimPrefix(strings.ToLower(name), ".")
	switch name {
	case "png":
		return FormatPNG, nil
	case "bmp":
		return FormatBMP, nil
	}
	if _, ok := lossyExtensions["."+name]; ok {
		return 0, util.NewExtendedError(ErrLossyFormat, nil, name)
	}
	return 0, util.NewExtendedError(ErrUnknownFormat, nil, name)
}

// FormatFromPath picks the format matching the extension of path.
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if len(ext) == 0 {
		return 0, util.NewExtendedError(ErrUnknownFormat, nil, "no file extension in "+path)
	}
	return ParseFormat(ext)
}

// Write encodes img into w using the given container format.
func Write(w io.Writer, img image.Image, f Format) error {
	switch f {
	case FormatPNG:
		enc := png.Encoder{
			CompressionLevel: png.BestCompression,
		}
		return enc.Encode(w, img)

	case FormatBMP:
		return bmp.Encode(w, img)
	}
	return ErrUnknownFormat
}

// Read decodes an image from r. The container format is detected from the data.
func Read(r io.Reader) (image.Image, Format, error) {
	img, name, err := image.Decode(r)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, 0, util.NewExtendedError(ErrUnknownFormat, err, "unrecognized image data")
		}
		return nil, 0, err
	}

	f, err := ParseFormat(name)
	if err != nil {
		return nil, 0, err
	}

	// Done
	return img, f, nil
}
