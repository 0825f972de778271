//go:build unix

package memory

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
)

// testingFile writes a real file of whole windows plus half a window, so the
// last window runs past the end of the file.
func testingFile(t *testing.T) (string, []byte) {
	t.Helper()

	ws := DefaultWindowSize()
	data := make([]byte, 2*ws+ws/2)
	for i := range data {
		data[i] = byte(i % 251)
	}

	path := filepath.Join(t.TempDir(), "mem.img")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	return path, data
}

func TestDefaultMapper_Map(t *testing.T) {
	path, data := testingFile(t)
	ws := DefaultWindowSize()

	f, err := afero.NewOsFs().Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	tests := []struct {
		name       string
		offset     int64
		wantMapped bool
		wantValid  int
	}{
		{name: "inside the file", offset: int64(ws), wantMapped: true, wantValid: ws},
		{name: "past the end of the file", offset: int64(2 * ws), wantMapped: false, wantValid: ws / 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := DefaultMapper{}.Map(f, tt.offset, ws, false)
			if err != nil {
				t.Fatalf("Map() error = %v", err)
			}
			defer w.Unmap()

			_, mapped := w.(*mappedWindow)
			if mapped != tt.wantMapped {
				t.Errorf("Map() returned %T, want mmap %v", w, tt.wantMapped)
			}
			if w.Valid() != tt.wantValid {
				t.Errorf("Valid() = %d, want %d", w.Valid(), tt.wantValid)
			}
			if !bytes.Equal(w.Bytes()[:w.Valid()], data[tt.offset:tt.offset+int64(w.Valid())]) {
				t.Error("Bytes() does not match the file")
			}
		})
	}

	// Offsets off the page grid cannot be mapped.
	w, err := DefaultMapper{}.Map(f, 1, ws, false)
	if err != nil {
		t.Fatalf("Map() error = %v", err)
	}
	defer w.Unmap()
	if _, ok := w.(*bufferedWindow); !ok {
		t.Errorf("Map() of an unaligned offset returned %T, want a buffered window", w)
	}
}

func TestAccessor_DefaultMapper(t *testing.T) {
	path, data := testingFile(t)
	ws := DefaultWindowSize()

	a, err := New(path, WithFs(afero.NewOsFs()))
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	// The write straddles the first window boundary.
	written := []byte("straddling write")
	at := uint64(ws - len(written)/2)
	if err := a.Write(written, at); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	copy(data[at:], written)

	got := make([]byte, len(written))
	if err := a.Read(got, at); err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if !bytes.Equal(got, written) {
		t.Errorf("Read() = %q, want %q", got, written)
	}

	// The tail window is only partly backed by the file.
	tail := make([]byte, 64)
	tailAt := uint64(2*ws - 32)
	if err := a.Read(tail, tailAt); err != nil {
		t.Fatalf("Read() of the tail error = %v", err)
	}
	if !bytes.Equal(tail, data[tailAt:tailAt+64]) {
		t.Error("Read() of the tail does not match the file")
	}

	if err := a.Read(make([]byte, 8), uint64(len(data)-4)); err == nil {
		t.Error("Read() past the end of the file succeeded")
	}

	if err := a.Close(); err != nil {
		t.Fatal(err)
	}
	onDisk, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(onDisk, data) {
		t.Error("the write did not reach the file")
	}

	stats := a.Stats()
	if stats.Maps == 0 || stats.Maps != stats.Unmaps {
		t.Errorf("Stats() = %+v, want balanced maps", stats)
	}
	if stats.Failures != 1 {
		t.Errorf("Stats().Failures = %d, want 1", stats.Failures)
	}
}
