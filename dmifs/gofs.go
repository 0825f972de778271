package dmifs

import (
	"io/fs"

	"github.com/aligator/gosmbios"
)

type GoDirEntry struct {
	fs.FileInfo
}

func (g GoDirEntry) Type() fs.FileMode {
	return g.FileInfo.Mode().Type()
}

func (g GoDirEntry) Info() (fs.FileInfo, error) {
	return g.FileInfo, nil
}

type GoFile struct {
	*File
}

func (g GoFile) ReadDir(n int) ([]fs.DirEntry, error) {
	entries, err := g.File.Readdir(n)

	goEntries := make([]fs.DirEntry, len(entries))
	for i, e := range entries {
		goEntries[i] = GoDirEntry{e}
	}

	return goEntries, err
}

// GoFs wraps Fs to be compatible with fs.FS.
type GoFs struct {
	*Fs
}

// NewGoFS snapshots the given table as fs.FS compatible filesystem.
func NewGoFS(t *smbios.Table) (*GoFs, error) {
	fsys, err := New(t)
	if err != nil {
		return nil, err
	}

	return &GoFs{fsys}, nil
}

func (g GoFs) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}

	file, err := g.Fs.Open(name)
	if err != nil {
		return nil, err
	}

	return GoFile{file.(*File)}, nil
}
