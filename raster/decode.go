package raster

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/vp8l"
	_ "golang.org/x/image/webp"
)

// ErrDecode marks image data that does not parse as a valid image of its
// declared format.
var ErrDecode = errors.New("could not decode image")

// Decode reads one encoded image from r into a Buffer. The declared
// extension or MIME type is checked against the accepted set before any
// bytes are read, and cross-checked against the format the data actually
// decoded as.
func Decode(r io.Reader, declared string) (*Buffer, error) {
	want, err := Normalize(declared)
	if err != nil {
		return nil, err
	}

	img, got, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if alias, ok := decodedAlias[got]; ok {
		got = alias
	}
	if got != want {
		return nil, fmt.Errorf("%w: data is %s, declared %s", ErrDecode, got, want)
	}

	buf := FromImage(img)
	if buf.Width <= 0 || buf.Height <= 0 {
		return nil, fmt.Errorf("%w: image has zero dimensions", ErrDecode)
	}
	return buf, nil
}
