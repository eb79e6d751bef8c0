package raster

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedFormat marks a declared extension or MIME type outside the
// accepted set. Checked before any decode is attempted.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// formats maps a normalized extension or MIME subtype to the format name
// the decoder registers itself under.
var formats = map[string]string{
	"jpg":  "jpeg",
	"jpeg": "jpeg",
	"png":  "png",
	"gif":  "gif",
	"bmp":  "bmp",
	"tif":  "tiff",
	"tiff": "tiff",
	"webp": "webp",
}

// decodedAlias folds decoder registration names that are sub-variants of an
// accepted format. Lossless webp streams match the vp8l decoder first.
var decodedAlias = map[string]string{
	"vp8l": "webp",
}

// Normalize maps a declared extension (".jpg", "jpg") or MIME type
// ("image/jpeg") to its canonical format name.
func Normalize(declared string) (string, error) {
	key := strings.ToLower(strings.TrimSpace(declared))
	key = strings.TrimPrefix(key, "image/")
	key = strings.TrimPrefix(key, ".")
	if format, ok := formats[key]; ok {
		return format, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, declared)
}

// SupportedExt reports whether ext names an accepted raster format.
func SupportedExt(ext string) bool {
	_, err := Normalize(ext)
	return err == nil
}
