package memory

import (
	"errors"
	"fmt"
	"syscall"
)

// ErrIO is matched by every error the accessor returns for a failed open,
// map or copy.
var ErrIO = errors.New("memory i/o failed")

// errOutOfRange is returned for offsets the backing store cannot address.
var errOutOfRange = errors.New("offset out of range")

// Error describes a failed operation on the backing store. The underlying
// system error is kept so callers can inspect the errno.
type Error struct {
	Op     string
	Path   string
	Offset uint64
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("memory: %s %s at 0x%x: %v", e.Op, e.Path, e.Offset, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports ErrIO for every Error.
func (e *Error) Is(target error) bool {
	return target == ErrIO
}

// Errno returns the system error code behind e, or 0 if there is none.
func (e *Error) Errno() syscall.Errno {
	var errno syscall.Errno
	if errors.As(e.Err, &errno) {
		return errno
	}
	return 0
}
