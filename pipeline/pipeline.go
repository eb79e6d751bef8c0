// Package pipeline chains decode, transform, encode and store into one
// operation. A failure in any stage aborts the run before anything is
// persisted.
package pipeline

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"graystore/raster"
	"graystore/store"
	"graystore/transform"
)

type Pipeline struct {
	Store     *store.Store
	Transform transform.Func
}

// New returns a pipeline applying the grayscale transform.
func New(st *store.Store) *Pipeline {
	return &Pipeline{Store: st, Transform: transform.Grayscale}
}

// Process reads one encoded image from r, transforms it and returns the
// stored result. The input is read exactly once; its lifecycle stays with
// the caller.
func (p *Pipeline) Process(r io.Reader, originalName, declared string) (store.StoredOutput, error) {
	buf, err := raster.Decode(r, declared)
	if err != nil {
		return store.StoredOutput{}, err
	}
	encoded, err := raster.Encode(p.Transform(buf))
	if err != nil {
		return store.StoredOutput{}, err
	}
	return p.Store.Save(encoded, originalName)
}

// ProcessFile is Process over a file path, with the format declared by the
// file extension.
func (p *Pipeline) ProcessFile(path string) (store.StoredOutput, error) {
	f, err := os.Open(path)
	if err != nil {
		return store.StoredOutput{}, fmt.Errorf("could not open image %q: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Error("could not close image", "file", path, "error", closeErr)
		}
	}()

	return p.Process(f, filepath.Base(path), filepath.Ext(path))
}
