//go:build !unix

package memory

import (
	"errors"
	"os"
)

const mmapSupported = false

func pageSize() int {
	return os.Getpagesize()
}

func mmapWindow(fd uintptr, offset int64, size int, writable bool) (Window, error) {
	return nil, errors.New("mmap is not supported on this platform")
}
