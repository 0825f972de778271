//go:build unix

package memory

import (
	"sync"

	"golang.org/x/sys/unix"
)

const mmapSupported = true

var (
	cachedPageSize int
	pageSizeOnce   sync.Once
)

// pageSize returns the system page size, cached after the first call.
func pageSize() int {
	pageSizeOnce.Do(func() {
		cachedPageSize = unix.Getpagesize()
	})
	return cachedPageSize
}

type mappedWindow struct {
	data []byte
}

func mmapWindow(fd uintptr, offset int64, size int, writable bool) (Window, error) {
	prot := unix.PROT_READ
	if writable {
		prot |= unix.PROT_WRITE
	}

	data, err := unix.Mmap(int(fd), offset, size, prot, unix.MAP_SHARED)
	if err != nil {
		return nil, err
	}

	return &mappedWindow{data: data}, nil
}

func (w *mappedWindow) Bytes() []byte {
	return w.data
}

func (w *mappedWindow) Valid() int {
	return len(w.data)
}

// MarkDirty is a no-op, stores go straight to the shared mapping.
func (w *mappedWindow) MarkDirty(off, n int) {}

func (w *mappedWindow) Unmap() error {
	if w.data == nil {
		return nil
	}
	err := unix.Munmap(w.data)
	w.data = nil
	return err
}
