package memory

import (
	"io"
	"os"

	"github.com/spf13/afero"
)

// Window is one mapped region of the backing store.
// Generated mock using mockgen:
//  mockgen -source=mapper.go -destination=mapper_mock.go -package memory
type Window interface {
	// Bytes returns the whole window. Its length is the mapped size.
	Bytes() []byte
	// Valid returns how many leading bytes of the window are backed by the
	// store. It is smaller than the window at the end of an image file.
	Valid() int
	// MarkDirty records that [off, off+n) was modified.
	MarkDirty(off, n int)
	// Unmap releases the window and writes back modified bytes if needed.
	Unmap() error
}

// Mapper maps windows of an open file.
type Mapper interface {
	Map(f afero.File, offset int64, size int, writable bool) (Window, error)
}

// DefaultMapper maps windows with mmap where the platform and the file allow
// it and falls back to BufferedMapper otherwise.
type DefaultMapper struct{}

type fder interface {
	Fd() uintptr
}

func (DefaultMapper) Map(f afero.File, offset int64, size int, writable bool) (Window, error) {
	if fd, ok := f.(fder); ok && canMmap(f, offset, size) {
		return mmapWindow(fd.Fd(), offset, size, writable)
	}

	return BufferedMapper{}.Map(f, offset, size, writable)
}

// canMmap checks that the window is page aligned and, for regular files,
// lies completely inside the file. Touching a mapped page past the end of a
// regular file raises SIGBUS.
func canMmap(f afero.File, offset int64, size int) bool {
	if !mmapSupported {
		return false
	}

	ps := int64(pageSize())
	if offset%ps != 0 || int64(size)%ps != 0 {
		return false
	}

	stat, err := f.Stat()
	if err != nil {
		return false
	}
	if stat.Mode()&os.ModeType == 0 && offset+int64(size) > stat.Size() {
		return false
	}

	return true
}

// BufferedMapper copies the window into memory with ReadAt and writes the
// modified range back on Unmap. It works with any afero.File.
type BufferedMapper struct{}

func (BufferedMapper) Map(f afero.File, offset int64, size int, writable bool) (Window, error) {
	buf := make([]byte, size)
	n, err := f.ReadAt(buf, offset)
	// A window reaching past the end of the file is valid, only its
	// leading n bytes are usable.
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, err
	}

	return &bufferedWindow{
		file:     f,
		offset:   offset,
		buf:      buf,
		valid:    n,
		writable: writable,
		dirtyLo:  -1,
	}, nil
}

type bufferedWindow struct {
	file     afero.File
	offset   int64
	buf      []byte
	valid    int
	writable bool

	dirtyLo int
	dirtyHi int
}

func (w *bufferedWindow) Bytes() []byte {
	return w.buf
}

func (w *bufferedWindow) Valid() int {
	return w.valid
}

func (w *bufferedWindow) MarkDirty(off, n int) {
	if n <= 0 {
		return
	}
	if w.dirtyLo < 0 || off < w.dirtyLo {
		w.dirtyLo = off
	}
	if off+n > w.dirtyHi {
		w.dirtyHi = off + n
	}
}

func (w *bufferedWindow) Unmap() error {
	if w.buf == nil {
		return nil
	}

	var err error
	if w.writable && w.dirtyLo >= 0 {
		_, err = w.file.WriteAt(w.buf[w.dirtyLo:w.dirtyHi], w.offset+int64(w.dirtyLo))
	}

	w.buf = nil
	w.valid = 0
	w.dirtyLo = -1
	w.dirtyHi = 0
	return err
}
