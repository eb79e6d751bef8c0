package raster

import (
	"image"

	"golang.org/x/image/draw"
)

// Buffer is a decoded raster: 8-bit R,G,B,A samples in row-major order,
// 4 bytes per pixel, len(Pix) == 4*Width*Height. A Buffer belongs to a
// single pipeline invocation and is never shared.
type Buffer struct {
	Width  int
	Height int
	Pix    []uint8
}

// FromImage copies img into a fresh Buffer, normalizing whatever pixel
// format the decoder produced to non-premultiplied RGBA.
func FromImage(img image.Image) *Buffer {
	bounds := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Src)
	return &Buffer{Width: bounds.Dx(), Height: bounds.Dy(), Pix: dst.Pix}
}

// Image wraps the buffer's samples as an image, sharing the Pix slice.
func (b *Buffer) Image() *image.NRGBA {
	return &image.NRGBA{
		Pix:    b.Pix,
		Stride: 4 * b.Width,
		Rect:   image.Rect(0, 0, b.Width, b.Height),
	}
}
