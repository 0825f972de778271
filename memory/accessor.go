// Package memory provides windowed random access to a byte addressable
// backing store such as /dev/mem or a captured memory image.
//
// Only one page aligned window of the store is mapped at a time. Requests
// that straddle window boundaries are split into one copy per window.
package memory

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/spf13/afero"
)

// DefaultPath is the device exposing physical memory.
const DefaultPath = "/dev/mem"

// EnvMemoryFile overrides DefaultPath for the Default accessor, for example
// with a captured memory image. Default looks it up on every call.
const EnvMemoryFile = "GOSMBIOS_MEMORY_FILE"

// Accessor copies bytes between caller buffers and a backing store.
// It is not safe for concurrent use.
type Accessor struct {
	fs         afero.Fs
	path       string
	mapper     Mapper
	windowSize int64

	file     afero.File
	writable bool

	window Window
	// base of the mapped window, -1 if nothing is mapped.
	base int64

	leaveOpen int
	err       error
	stats     stats
}

// Option configures an Accessor.
type Option func(*Accessor)

// WithFs sets the filesystem the store is opened from. Defaults to the OS.
func WithFs(fs afero.Fs) Option {
	return func(a *Accessor) {
		a.fs = fs
	}
}

// WithMapper replaces the DefaultMapper.
func WithMapper(m Mapper) Option {
	return func(a *Accessor) {
		a.mapper = m
	}
}

// WithWindowSize sets the window size. It has to be a power of two.
func WithWindowSize(size int) Option {
	return func(a *Accessor) {
		a.windowSize = int64(size)
	}
}

// DefaultWindowSize is 16 pages, or one page if pages are larger than 4 KiB.
func DefaultWindowSize() int {
	ps := pageSize()
	if ps > 4096 {
		return ps
	}
	return ps * 16
}

// New creates an accessor for the store at path. Nothing is opened until
// the first Read or Write.
func New(path string, opts ...Option) (*Accessor, error) {
	if path == "" {
		path = DefaultPath
	}

	a := &Accessor{
		fs:         afero.NewOsFs(),
		path:       path,
		mapper:     DefaultMapper{},
		windowSize: int64(DefaultWindowSize()),
		base:       -1,
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.windowSize <= 0 || a.windowSize&(a.windowSize-1) != 0 {
		return nil, fmt.Errorf("window size %d is not a power of two", a.windowSize)
	}

	return a, nil
}

// Path returns the path of the backing store.
func (a *Accessor) Path() string {
	return a.path
}

// WindowSize returns the size of each mapped window.
func (a *Accessor) WindowSize() int {
	return int(a.windowSize)
}

// Read copies len(p) bytes starting at offset of the store into p.
func (a *Accessor) Read(p []byte, offset uint64) error {
	return a.copy(p, offset, false)
}

// Write copies p to the store starting at offset.
func (a *Accessor) Write(p []byte, offset uint64) error {
	return a.copy(p, offset, true)
}

// ReadAt implements io.ReaderAt. It either reads len(p) bytes or fails.
func (a *Accessor) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, &Error{Op: "read", Path: a.path, Err: errOutOfRange}
	}
	if err := a.Read(p, uint64(off)); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Err returns the error recorded by the last Read or Write.
func (a *Accessor) Err() error {
	return a.err
}

// SuggestLeaveOpen tells the accessor that many calls follow, so the file
// and the current window are kept between calls. Every call has to be
// paired with SuggestClose.
func (a *Accessor) SuggestLeaveOpen() {
	a.leaveOpen++
}

// SuggestClose ends a batch started by SuggestLeaveOpen. When the last
// batch ends the store is closed.
func (a *Accessor) SuggestClose() {
	if a.leaveOpen > 0 {
		a.leaveOpen--
	}
	if a.leaveOpen == 0 {
		_ = a.release()
	}
}

// Close unmaps the window and closes the store. It may be called any number
// of times; the next Read or Write opens the store again.
func (a *Accessor) Close() error {
	a.leaveOpen = 0
	return a.release()
}

func (a *Accessor) copy(p []byte, offset uint64, write bool) (err error) {
	a.err = nil
	defer func() {
		if err != nil {
			a.err = err
			a.stats.failures.Add(1)
		}
		// Close on error, or if nobody asked to keep the store open.
		if err != nil || a.leaveOpen == 0 {
			if closeErr := a.release(); err == nil && closeErr != nil {
				err = &Error{Op: "close", Path: a.path, Offset: offset, Err: closeErr}
				a.err = err
			}
		}
	}()

	if offset > math.MaxInt64 || uint64(len(p)) > math.MaxInt64-offset {
		return &Error{Op: "copy", Path: a.path, Offset: offset, Err: errOutOfRange}
	}

	if (write && !a.writable) || a.file == nil {
		if err := a.reopen(write); err != nil {
			return err
		}
	}

	copied := 0
	for copied < len(p) {
		cur := int64(offset) + int64(copied)
		if err := a.remap(cur); err != nil {
			return err
		}

		// Clip the copy to the part of the request inside this window.
		mmoff := int(cur - a.base)
		n := len(p) - copied
		if n > int(a.windowSize)-mmoff {
			n = int(a.windowSize) - mmoff
		}
		if mmoff+n > a.window.Valid() {
			return &Error{Op: "copy", Path: a.path, Offset: uint64(cur), Err: io.ErrUnexpectedEOF}
		}

		mapped := a.window.Bytes()[mmoff : mmoff+n]
		if write {
			copy(mapped, p[copied:copied+n])
			a.window.MarkDirty(mmoff, n)
		} else {
			copy(p[copied:copied+n], mapped)
		}

		copied += n
	}

	return nil
}

// remap makes sure the window containing offset is mapped.
func (a *Accessor) remap(offset int64) error {
	base := offset - offset%a.windowSize

	// No need to remap if the correct area is already mapped.
	if a.window != nil && base == a.base {
		return nil
	}

	if err := a.unmap(); err != nil {
		return &Error{Op: "unmap", Path: a.path, Offset: uint64(a.base), Err: err}
	}

	w, err := a.mapper.Map(a.file, base, int(a.windowSize), a.writable)
	if err != nil {
		a.window = nil
		a.base = -1
		return &Error{Op: "map", Path: a.path, Offset: uint64(base), Err: err}
	}

	a.stats.maps.Add(1)
	a.window = w
	a.base = base
	return nil
}

func (a *Accessor) unmap() error {
	if a.window == nil {
		return nil
	}

	err := a.window.Unmap()
	a.stats.unmaps.Add(1)
	a.window = nil
	a.base = -1
	return err
}

func (a *Accessor) reopen(write bool) error {
	if err := a.release(); err != nil {
		return &Error{Op: "close", Path: a.path, Err: err}
	}

	flag := os.O_RDONLY
	if write {
		flag = os.O_RDWR
	}

	f, err := a.fs.OpenFile(a.path, flag, 0)
	if err != nil {
		return &Error{Op: "open", Path: a.path, Err: err}
	}

	a.stats.opens.Add(1)
	a.file = f
	a.writable = write
	return nil
}

// release unmaps the window and closes the file.
func (a *Accessor) release() error {
	err := a.unmap()

	if a.file != nil {
		if closeErr := a.file.Close(); err == nil {
			err = closeErr
		}
		a.file = nil
	}
	a.writable = false

	return err
}
