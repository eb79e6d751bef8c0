package raster

import (
	"bytes"
	"errors"
	"fmt"
	"image/png"
	"sync"
)

// All outputs are encoded as PNG: lossless, so a stored image decodes back
// to the exact buffer it was encoded from.
const (
	OutputFormat = "png"
	OutputExt    = ".png"
)

// ErrEncode marks an internal encoder failure.
var ErrEncode = errors.New("could not encode image")

// Encode serializes the buffer in the canonical output format.
func Encode(b *Buffer) ([]byte, error) {
	var out bytes.Buffer
	if err := pngEncoder.Encode(&out, b.Image()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return out.Bytes(), nil
}

var pngEncoder = &png.Encoder{
	CompressionLevel: png.BestCompression,
	BufferPool:       pngPool,
}

type pngEncoderBufferPool struct {
	pool sync.Pool
}

func (p *pngEncoderBufferPool) Get() *png.EncoderBuffer {
	return p.pool.Get().(*png.EncoderBuffer)
}

func (p *pngEncoderBufferPool) Put(buf *png.EncoderBuffer) {
	p.pool.Put(buf)
}

var pngPool = &pngEncoderBufferPool{
	pool: sync.Pool{
		New: func() any {
			return &png.EncoderBuffer{}
		},
	},
}
