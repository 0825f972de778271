package dmifs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"

	"github.com/aligator/gosmbios/checkpoint"
	"github.com/spf13/afero"
)

// These errors may occur while processing a file.
var (
	ErrSeekFile = errors.New("could not seek inside of the file")
	ErrReadDir  = errors.New("could not read the directory")
	ErrClosed   = errors.New("the file is closed")
)

// File is an open file or directory of the Fs.
type File struct {
	node *node
	path string

	// offset is the byte offset for files and the entry offset for directories.
	offset int64
}

func (f *File) Close() error {
	f.node = nil
	f.offset = 0
	return nil
}

func (f *File) open() error {
	if f.node == nil {
		return checkpoint.From(ErrClosed)
	}
	return nil
}

func (f *File) size() int64 {
	return int64(len(f.node.data))
}

func (f *File) Read(p []byte) (n int, err error) {
	if err := f.open(); err != nil {
		return 0, err
	}
	if f.node.dir {
		return 0, &os.PathError{Op: "read", Path: f.path, Err: syscall.EISDIR}
	}
	if len(p) == 0 {
		return 0, nil
	}

	// Reading a file if the size has been already reached, makes no sense.
	if f.size() <= f.offset {
		return 0, io.EOF
	}

	n = copy(p, f.node.data[f.offset:])
	f.offset += int64(n)
	return n, nil
}

func (f *File) ReadAt(p []byte, off int64) (n int, err error) {
	if err := f.open(); err != nil {
		return 0, err
	}
	if f.node.dir {
		return 0, &os.PathError{Op: "read", Path: f.path, Err: syscall.EISDIR}
	}
	if off < 0 {
		return 0, &os.PathError{Op: "readat", Path: f.path, Err: syscall.EINVAL}
	}

	// Reading over the end makes no sense.
	if f.size() <= off {
		return 0, io.EOF
	}

	n = copy(p, f.node.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// Seek jumps to a specific offset in the file. This affects all Read operation except ReadAt.
// May return a syscall.EINVAL error if the whence value is invalid.
// May return an afero.ErrOutOfRange error if the offset is out of range.
func (f *File) Seek(offset int64, whence int) (int64, error) {
	if err := f.open(); err != nil {
		return 0, err
	}

	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		offset = f.offset + offset
	case io.SeekEnd:
		offset = f.size() + offset
	default:
		return 0, checkpoint.Wrap(ErrSeekFile, fmt.Errorf("%w, offset: %v, whence: %v", syscall.EINVAL, offset, whence))
	}

	if offset < 0 || offset > f.size() {
		return 0, checkpoint.Wrap(afero.ErrOutOfRange, fmt.Errorf("%w, offset: %v, whence: %v", ErrSeekFile, offset, whence))
	}

	f.offset = offset
	return offset, nil
}

func (f *File) Write(p []byte) (n int, err error) {
	return 0, readOnly("write", f.path)
}

func (f *File) WriteAt(p []byte, off int64) (n int, err error) {
	return 0, readOnly("write", f.path)
}

func (f *File) WriteString(s string) (ret int, err error) {
	return f.Write([]byte(s))
}

func (f *File) Sync() error {
	return nil
}

func (f *File) Truncate(size int64) error {
	return readOnly("truncate", f.path)
}

func (f *File) Name() string {
	return f.path
}

// Readdir reads the contents of a directory the way os.File.Readdir does.
// With count > 0 at most count entries are returned and io.EOF once nothing is
// left. Otherwise all remaining entries are returned with a nil error.
// May return syscall.ENOTDIR if the current File is no directory.
func (f *File) Readdir(count int) ([]os.FileInfo, error) {
	if err := f.open(); err != nil {
		return nil, err
	}
	if !f.node.dir {
		return nil, checkpoint.Wrap(syscall.ENOTDIR, ErrReadDir)
	}

	content := f.node.children[f.offset:]
	if count > 0 {
		if len(content) == 0 {
			return nil, io.EOF
		}
		if count < len(content) {
			content = content[:count]
		}
	}
	f.offset += int64(len(content))

	result := make([]os.FileInfo, len(content))
	for i := range content {
		result[i] = fileInfo{content[i]}
	}
	return result, nil
}

func (f *File) Readdirnames(count int) ([]string, error) {
	content, err := f.Readdir(count)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(content))
	for i, entry := range content {
		names[i] = entry.Name()
	}
	return names, nil
}

func (f *File) Stat() (os.FileInfo, error) {
	if err := f.open(); err != nil {
		return nil, err
	}
	return fileInfo{f.node}, nil
}
