package transform

import "graystore/raster"

// Func is a pure per-buffer transform. Implementations own the buffer they
// are handed and may mutate it in place.
type Func func(*raster.Buffer) *raster.Buffer

// Grayscale replaces every pixel's color channels with the truncated mean
// of its original R, G and B values. Alpha is left untouched. Applying it
// twice gives the same result as applying it once.
func Grayscale(b *raster.Buffer) *raster.Buffer {
	px := b.Pix
	for i := 0; i+3 < len(px); i += 4 {
		avg := uint8((int(px[i]) + int(px[i+1]) + int(px[i+2])) / 3)
		px[i], px[i+1], px[i+2] = avg, avg, avg
	}
	return b
}
