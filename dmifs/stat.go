package dmifs

import (
	"os"
	"time"
)

type fileInfo struct {
	node *node
}

func (i fileInfo) Name() string {
	return i.node.name
}

func (i fileInfo) Size() int64 {
	return int64(len(i.node.data))
}

func (i fileInfo) Mode() os.FileMode {
	if i.IsDir() {
		return os.ModeDir | 0555
	}
	return 0444
}

// ModTime is always zero, the table carries no timestamps.
func (i fileInfo) ModTime() time.Time {
	return time.Time{}
}

func (i fileInfo) IsDir() bool {
	return i.node.dir
}

func (i fileInfo) Sys() interface{} {
	return nil
}
