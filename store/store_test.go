package store

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestSaveAndRead(t *testing.T) {
	st, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	start := time.Now()
	payload := []byte("encoded image bytes")
	out, err := st.Save(payload, "My Photo.JPG")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	if !strings.HasSuffix(out.Filename, ".png") {
		t.Errorf("filename %q does not carry the canonical extension", out.Filename)
	}
	if !strings.Contains(out.Filename, "my-photo") {
		t.Errorf("filename %q does not contain the sanitized stem", out.Filename)
	}
	if out.Path != filepath.Join(st.Root(), out.Filename) {
		t.Errorf("path %q not derived from filename under root", out.Path)
	}
	if out.CreatedAt.Before(start.Truncate(time.Second)) {
		t.Errorf("created %v before the call started at %v", out.CreatedAt, start)
	}
	if out.Size != int64(len(payload)) {
		t.Errorf("size = %d, want %d", out.Size, len(payload))
	}

	data, err := st.Read(out.Filename)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !bytes.Equal(data, payload) {
		t.Errorf("read back %q, want %q", data, payload)
	}
}

func TestSaveConcurrentUnique(t *testing.T) {
	st, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	const n = 16
	var (
		mu    sync.Mutex
		names = make(map[string]bool, n)
		wg    sync.WaitGroup
	)
	for i := range n {
		wg.Go(func() {
			out, err := st.Save(fmt.Appendf(nil, "payload %d", i), "clash.png")
			if err != nil {
				t.Errorf("Save: %v", err)
				return
			}
			mu.Lock()
			names[out.Filename] = true
			mu.Unlock()
		})
	}
	wg.Wait()

	if len(names) != n {
		t.Fatalf("%d concurrent saves produced %d distinct names", n, len(names))
	}
	for name := range names {
		if _, err := st.Read(name); err != nil {
			t.Errorf("Read(%q): %v", name, err)
		}
	}
}

func TestListFidelity(t *testing.T) {
	root := t.TempDir()
	st, err := Open(root)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	want := make(map[string]bool)
	for i := range 3 {
		out, err := st.Save([]byte("data"), fmt.Sprintf("img-%d.png", i))
		if err != nil {
			t.Fatalf("Save: %v", err)
		}
		want[out.Filename] = true
	}

	// Non-raster clutter must never show up in a listing.
	for _, name := range []string{"notes.txt", "README.md", ".graystore-leftover"} {
		if err := os.WriteFile(filepath.Join(root, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("write clutter: %v", err)
		}
	}
	if err := os.Mkdir(filepath.Join(root, "subdir.png"), 0o755); err != nil {
		t.Fatalf("mkdir clutter: %v", err)
	}

	outputs, err := st.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	got := make(map[string]bool)
	for _, out := range outputs {
		got[out.Filename] = true
		if out.Size != int64(len("data")) {
			t.Errorf("listed size for %q = %d, want %d", out.Filename, out.Size, len("data"))
		}
	}
	if len(got) != len(want) {
		t.Fatalf("List returned %d entries, want %d: %v", len(got), len(want), outputs)
	}
	for name := range want {
		if !got[name] {
			t.Errorf("saved entry %q missing from listing", name)
		}
	}
}

func TestReadRejectsTraversal(t *testing.T) {
	root := t.TempDir()
	st, err := Open(filepath.Join(root, "store"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "secret.png"), []byte("outside"), 0o644); err != nil {
		t.Fatalf("write outside file: %v", err)
	}

	for _, name := range []string{"", ".", "..", "../secret.png", "sub/entry.png", "/etc/hostname"} {
		t.Run(name, func(t *testing.T) {
			if _, err := st.Read(name); !errors.Is(err, ErrNotFound) {
				t.Errorf("Read(%q) = %v, want ErrNotFound", name, err)
			}
		})
	}
}

func TestReadMissing(t *testing.T) {
	st, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := st.Read("nope.png"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Read of absent name = %v, want ErrNotFound", err)
	}
}

func TestUnavailableRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "gone")
	st, err := Open(root)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := os.RemoveAll(root); err != nil {
		t.Fatalf("remove root: %v", err)
	}

	if _, err := st.List(); !errors.Is(err, ErrUnavailable) {
		t.Errorf("List with missing root = %v, want ErrUnavailable", err)
	}
	if _, err := st.Save([]byte("data"), "x.png"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Save with missing root = %v, want ErrUnavailable", err)
	}
}
