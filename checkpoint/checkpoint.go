// Package checkpoint decorates errors with the location they passed through,
// which gives something similar to a stacktrace when the error is printed.
// Every error added to a checkpoint can still be checked by errors.Is and
// retrieved by errors.As.
package checkpoint

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"strings"
)

// From wraps err in a checkpoint carrying the caller location.
// It returns nil if err is nil.
func From(err error) error {
	// io.EOF must be returned as io.EOF directly
	// https://github.com/golang/go/issues/39155
	if err == nil || err == io.EOF || err == io.ErrUnexpectedEOF {
		return err
	}

	return newCheckpoint(err, nil)
}

// Wrap adds a checkpoint to prev and tags it with err, which further
// describes what failed. It is mostly used with package level sentinels:
//  var ErrBounds = errors.New("access out of bounds")
//
//  func field(b []byte, off int) (byte, error) {
//  	if off >= len(b) {
//  		return 0, checkpoint.Wrap(fmt.Errorf("offset %d, length %d", off, len(b)), ErrBounds)
//  	}
//  	return b[off], nil
//  }
// Both errors.Is(err, ErrBounds) and a check for the cause succeed on the result.
// Wrap returns nil if prev is nil.
func Wrap(prev, err error) error {
	if prev == io.EOF {
		return io.EOF
	}
	if prev == nil {
		return nil
	}

	return newCheckpoint(prev, err)
}

// Errorf is a shorthand for Wrap(fmt.Errorf(format, args...), err).
func Errorf(err error, format string, args ...interface{}) error {
	return newCheckpoint(fmt.Errorf(format, args...), err)
}

func newCheckpoint(prev, err error) *checkpoint {
	// Skip newCheckpoint and the exported function which called it.
	_, file, line, ok := runtime.Caller(2)

	return &checkpoint{
		err:  err,
		prev: prev,

		callerOk: ok,
		file:     filepath.Base(file),
		line:     line,
	}
}

type checkpoint struct {
	err  error
	prev error

	callerOk bool
	file     string
	line     int
}

func (e *checkpoint) location() string {
	if !e.callerOk {
		return "unknown"
	}
	return fmt.Sprintf("%s:%d", e.file, e.line)
}

func (e *checkpoint) Error() string {
	var b strings.Builder

	b.WriteString(e.location())
	b.WriteString(": ")
	if e.err != nil {
		b.WriteString(e.err.Error())
		b.WriteString(": ")
	}
	b.WriteString(e.prev.Error())

	return b.String()
}

func (e *checkpoint) Unwrap() error {
	return e.prev
}

func (e *checkpoint) Is(target error) bool {
	return e.err != nil && errors.Is(e.err, target)
}

func (e *checkpoint) As(target interface{}) bool {
	return e.err != nil && errors.As(e.err, target)
}
