// Package store persists encoded outputs as a flat directory of
// self-contained image files. Filenames are unique for the lifetime of the
// store; listing metadata is derived from filenames and file attributes
// alone.
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"graystore/raster"

	"github.com/gofrs/flock"
)

var (
	// ErrUnavailable marks a backing directory that cannot be read or
	// written.
	ErrUnavailable = errors.New("store unavailable")
	// ErrNotFound marks a requested filename that is absent from the store
	// or tries to escape it.
	ErrNotFound = errors.New("stored output not found")
)

// StoredOutput describes one persisted entry. Entries are never mutated
// after creation.
type StoredOutput struct {
	Filename  string
	Path      string
	CreatedAt time.Time
	Size      int64
}

// Store is a single output directory. All state lives on disk; the lock
// file serializes name derivation and publish across goroutines and
// processes sharing the directory.
type Store struct {
	root string
	lock *flock.Flock
}

const (
	lockFile   = ".graystore.lock"
	tmpPattern = ".graystore-*"

	maxDeriveAttempts = 16
)

// Open prepares root as an output directory, creating it if needed.
func Open(root string) (*Store, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid root %q: %v", ErrUnavailable, root, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create root: %v", ErrUnavailable, err)
	}
	return &Store{
		root: abs,
		lock: flock.New(filepath.Join(abs, lockFile)),
	}, nil
}

// Root returns the absolute path of the backing directory.
func (s *Store) Root() string {
	return s.root
}

// Save persists encoded under a unique name derived from originalName.
// The bytes are written to a temporary file first and published with a
// rename, so a concurrent List or Read never observes a partial entry.
// A derived name that already exists triggers re-derivation rather than an
// overwrite.
func (s *Store) Save(encoded []byte, originalName string) (StoredOutput, error) {
	tmp, err := os.CreateTemp(s.root, tmpPattern)
	if err != nil {
		return StoredOutput{}, fmt.Errorf("%w: create temporary file: %v", ErrUnavailable, err)
	}
	tmpName := tmp.Name()

	if _, err = tmp.Write(encoded); err == nil {
		err = tmp.Sync()
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(tmpName)
		return StoredOutput{}, fmt.Errorf("%w: write temporary file: %v", ErrUnavailable, err)
	}

	if err := s.lock.Lock(); err != nil {
		_ = os.Remove(tmpName)
		return StoredOutput{}, fmt.Errorf("%w: lock store: %v", ErrUnavailable, err)
	}
	defer func() {
		_ = s.lock.Unlock()
	}()

	for range maxDeriveAttempts {
		name := deriveName(originalName, time.Now())
		dest := filepath.Join(s.root, name)

		if _, err := os.Stat(dest); err == nil {
			continue // name taken, derive again
		} else if !errors.Is(err, fs.ErrNotExist) {
			_ = os.Remove(tmpName)
			return StoredOutput{}, fmt.Errorf("%w: stat %q: %v", ErrUnavailable, name, err)
		}

		if err := os.Rename(tmpName, dest); err != nil {
			_ = os.Remove(tmpName)
			return StoredOutput{}, fmt.Errorf("%w: publish %q: %v", ErrUnavailable, name, err)
		}

		created := time.Now()
		if info, err := os.Stat(dest); err == nil {
			created = info.ModTime()
		}
		return StoredOutput{
			Filename:  name,
			Path:      dest,
			CreatedAt: created,
			Size:      int64(len(encoded)),
		}, nil
	}

	_ = os.Remove(tmpName)
	return StoredOutput{}, fmt.Errorf("%w: could not derive a unique name for %q", ErrUnavailable, originalName)
}

// List returns the stored entries, filtered to accepted raster extensions.
// Order is the directory order, stable per call.
func (s *Store) List() ([]StoredOutput, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("%w: read root: %v", ErrUnavailable, err)
	}

	outputs := make([]StoredOutput, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !raster.SupportedExt(filepath.Ext(entry.Name())) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue // entry removed between readdir and stat
		}
		outputs = append(outputs, StoredOutput{
			Filename:  entry.Name(),
			Path:      filepath.Join(s.root, entry.Name()),
			CreatedAt: info.ModTime(),
			Size:      info.Size(),
		})
	}
	return outputs, nil
}

// Read returns the bytes of one stored entry. Names that are not a plain
// filename under the root are rejected the same way as absent ones.
func (s *Store) Read(filename string) ([]byte, error) {
	if filename == "" || filename == "." || filename == ".." || filename != filepath.Base(filename) {
		return nil, fmt.Errorf("%w: invalid name %q", ErrNotFound, filename)
	}

	data, err := os.ReadFile(filepath.Join(s.root, filename))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("%w: %q", ErrNotFound, filename)
	case err != nil:
		return nil, fmt.Errorf("%w: read %q: %v", ErrUnavailable, filename, err)
	}
	return data, nil
}
