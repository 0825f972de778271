// Package dmifs exposes a snapshot of an SMBIOS table as a read-only
// afero.Fs laid out like the Linux sysfs DMI interface:
//
//	DMI                       the raw structure table
//	version                   "SMBIOS <major>.<minor> present."
//	entries/<type>-<instance>/{type,instance,handle,length,position,raw}
//
// The snapshot is taken when the Fs is created, freeing the table afterwards
// does not affect it.
package dmifs

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/aligator/gosmbios"
	"github.com/aligator/gosmbios/checkpoint"
	"github.com/spf13/afero"
)

// These errors may occur while building or using the filesystem.
var (
	ErrReadOnly      = errors.New("the DMI filesystem is read only")
	ErrUninitialized = errors.New("the table holds no data")
)

// node is a file or a directory of the tree.
type node struct {
	name     string
	dir      bool
	data     []byte
	children []*node
}

func (n *node) child(name string) *node {
	i := sort.Search(len(n.children), func(i int) bool {
		return n.children[i].name >= name
	})
	if i < len(n.children) && n.children[i].name == name {
		return n.children[i]
	}
	return nil
}

func (n *node) add(c *node) {
	n.children = append(n.children, c)
	sort.Slice(n.children, func(i, j int) bool {
		return n.children[i].name < n.children[j].name
	})
}

func newDir(name string) *node {
	return &node{name: name, dir: true}
}

func newFile(name string, data []byte) *node {
	return &node{name: name, data: data}
}

func attribute(name string, v interface{}) *node {
	return newFile(name, []byte(fmt.Sprintf("%d\n", v)))
}

// Fs is the read-only DMI filesystem.
type Fs struct {
	root *node
}

// New snapshots the given table into a filesystem.
func New(t *smbios.Table) (*Fs, error) {
	if t == nil || !t.Initialized() {
		return nil, checkpoint.From(ErrUninitialized)
	}

	entries := newDir("entries")
	instances := make(map[uint8]int)
	position := 0
	for s := range t.All() {
		raw, err := s.Raw()
		if err != nil {
			return nil, checkpoint.Wrap(err, fmt.Errorf("structure 0x%04x", s.Handle()))
		}

		instance := instances[s.Type()]
		instances[s.Type()]++

		dir := newDir(fmt.Sprintf("%d-%d", s.Type(), instance))
		dir.add(attribute("type", s.Type()))
		dir.add(attribute("instance", instance))
		dir.add(attribute("handle", s.Handle()))
		dir.add(attribute("length", s.Length()))
		dir.add(attribute("position", position))
		dir.add(newFile("raw", raw))
		entries.add(dir)

		position++
	}

	ep := t.EntryPoint()
	root := newDir(".")
	root.add(newFile("DMI", t.Bytes()))
	root.add(newFile("version", []byte(fmt.Sprintf("SMBIOS %s present.\n", ep.Version()))))
	root.add(entries)

	return &Fs{root: root}, nil
}

// lookup resolves name relative to the root. Both "/a/b" and "a/b" work.
func (fs *Fs) lookup(name string) (*node, bool) {
	name = path.Clean("/" + filepath.ToSlash(name))
	if name == "/" {
		return fs.root, true
	}

	n := fs.root
	for _, part := range strings.Split(name[1:], "/") {
		if !n.dir {
			return nil, false
		}
		if n = n.child(part); n == nil {
			return nil, false
		}
	}
	return n, true
}

func readOnly(op, name string) error {
	return &os.PathError{Op: op, Path: name, Err: checkpoint.Wrap(os.ErrPermission, ErrReadOnly)}
}

func (fs *Fs) Create(name string) (afero.File, error) {
	return nil, readOnly("create", name)
}

func (fs *Fs) Mkdir(name string, perm os.FileMode) error {
	return readOnly("mkdir", name)
}

func (fs *Fs) MkdirAll(path string, perm os.FileMode) error {
	return readOnly("mkdir", path)
}

func (fs *Fs) Open(name string) (afero.File, error) {
	n, ok := fs.lookup(name)
	if !ok {
		return nil, &os.PathError{Op: "open", Path: name, Err: os.ErrNotExist}
	}
	return &File{node: n, path: name}, nil
}

// OpenFile only supports opening for reading.
func (fs *Fs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	if flag&(os.O_WRONLY|os.O_RDWR|os.O_APPEND|os.O_CREATE|os.O_TRUNC) != 0 {
		return nil, readOnly("open", name)
	}
	return fs.Open(name)
}

func (fs *Fs) Remove(name string) error {
	return readOnly("remove", name)
}

func (fs *Fs) RemoveAll(path string) error {
	return readOnly("remove", path)
}

func (fs *Fs) Rename(oldname, newname string) error {
	return readOnly("rename", oldname)
}

func (fs *Fs) Stat(name string) (os.FileInfo, error) {
	n, ok := fs.lookup(name)
	if !ok {
		return nil, &os.PathError{Op: "stat", Path: name, Err: os.ErrNotExist}
	}
	return fileInfo{n}, nil
}

func (fs *Fs) Name() string {
	return "dmifs"
}

func (fs *Fs) Chmod(name string, mode os.FileMode) error {
	return readOnly("chmod", name)
}

func (fs *Fs) Chown(name string, uid, gid int) error {
	return readOnly("chown", name)
}

func (fs *Fs) Chtimes(name string, atime time.Time, mtime time.Time) error {
	return readOnly("chtimes", name)
}
