package smbios

import (
	"bytes"
	"encoding/binary"
	"iter"

	"github.com/aligator/gosmbios/checkpoint"
)

// Table owns a copy of the structure table together with the entry point
// describing it.
//
// A Table is either private, owned by the caller and released with Free, or
// the shared table returned by Acquire(Shared), which lives until
// ResetShared.
type Table struct {
	ep          EntryPoint
	buf         []byte
	initialized bool
	shared      bool
	err         error

	// gen is bumped on every release so views taken before can detect that
	// they are stale.
	gen uint64
}

// NewTable creates a private table from an entry point and the table bytes it
// points to. blob is copied.
func NewTable(ep EntryPoint, blob []byte) (*Table, error) {
	t := &Table{}
	if err := t.load(ep, blob); err != nil {
		return t, err
	}
	return t, nil
}

func (t *Table) load(ep EntryPoint, blob []byte) error {
	if len(blob) < headerLen {
		return checkpoint.Errorf(ErrBounds, "table of %d bytes cannot hold a structure", len(blob))
	}

	// The 3.x entry point only gives an upper bound, and the 2.x one is
	// exact. Either way nothing beyond it belongs to the table.
	n := len(blob)
	if ep.TableLength != 0 && uint64(ep.TableLength) < uint64(n) {
		n = int(ep.TableLength)
	}

	t.release()
	t.ep = ep
	t.buf = make([]byte, n)
	copy(t.buf, blob)
	t.initialized = true
	t.err = nil
	return nil
}

// Initialized reports if the table holds data. Decoding an uninitialized
// table yields nothing.
func (t *Table) Initialized() bool {
	return t != nil && t.initialized && t.buf != nil
}

// EntryPoint returns the entry point the table was found through.
func (t *Table) EntryPoint() EntryPoint {
	return t.ep
}

// Len returns the length of the table in bytes.
func (t *Table) Len() int {
	return len(t.buf)
}

// Bytes returns a copy of the raw table.
func (t *Table) Bytes() []byte {
	if !t.Initialized() {
		return nil
	}
	b := make([]byte, len(t.buf))
	copy(b, t.buf)
	return b
}

// Err returns why the table could not be initialized.
func (t *Table) Err() error {
	return t.err
}

// Free releases the buffer of a private table. Structures taken from it fail
// with ErrReleased afterwards. Free may be called more than once. It does
// nothing for the shared table; use ResetShared instead.
func (t *Table) Free() {
	if t == nil || t.shared {
		return
	}
	t.release()
}

func (t *Table) release() {
	if t.buf != nil || t.initialized {
		t.gen++
	}
	t.buf = nil
	t.initialized = false
	t.ep = EntryPoint{}
}

// structureAt decodes the header at off. It returns nil if no structure can
// start there.
func (t *Table) structureAt(off int) *Structure {
	if off < 0 || off > len(t.buf)-headerLen {
		return nil
	}

	b := t.buf[off:]
	hdr := Header{
		Type:   b[0],
		Length: b[1],
		Handle: binary.LittleEndian.Uint16(b[2:4]),
	}
	if hdr.Length < headerLen || hdr.Type == TypeEndOfTable {
		return nil
	}

	return &Structure{
		table:  t,
		offset: off,
		gen:    t.gen,
		header: hdr,
	}
}

// Next returns the structure following cur, or the first one if cur is nil.
// It returns nil at the end marker, at the end of the table, for a malformed
// structure and for a cur taken from another or a released table.
// The end marker itself is never returned.
func (t *Table) Next(cur *Structure) *Structure {
	if !t.Initialized() {
		return nil
	}
	if cur == nil {
		return t.structureAt(0)
	}
	if cur.table != t || !cur.live() || cur.Type() == TypeEndOfTable {
		return nil
	}

	// Skip the formatted section, then look for the double NUL closing the
	// string set. Many BIOSes do not terminate the table, so neither the
	// search nor the following header may run past its end.
	n := len(t.buf)
	p := cur.offset + int(cur.Length())
	for ; p < n-3; p++ {
		if t.buf[p] == 0 && t.buf[p+1] == 0 {
			break
		}
	}
	p += 2
	if p > n-headerLen {
		return nil
	}

	return t.structureAt(p)
}

// tableEnd looks for the end of the table in b. end is the offset just past
// the end marker, or past the structure where iteration would stop, and -1 if
// b does not reach that far yet. complete is the length of the complete
// structures before it.
func tableEnd(b []byte) (end, complete int) {
	p := 0
	for {
		if p+headerLen > len(b) {
			return -1, p
		}

		length := int(b[p+1])
		if length < headerLen {
			return p, p
		}
		if p+length > len(b) {
			return -1, p
		}

		n := bytes.Index(b[p+length:], []byte{0, 0})
		if n < 0 {
			return -1, p
		}
		next := p + length + n + 2

		if b[p] == TypeEndOfTable {
			return next, p
		}
		p = next
	}
}

// NextByType returns the next structure after cur with the given type.
func (t *Table) NextByType(cur *Structure, typ uint8) *Structure {
	for s := t.Next(cur); s != nil; s = t.Next(s) {
		if s.Type() == typ {
			return s
		}
	}
	return nil
}

// NextByHandle returns the next structure after cur with the given handle.
func (t *Table) NextByHandle(cur *Structure, handle uint16) *Structure {
	for s := t.Next(cur); s != nil; s = t.Next(s) {
		if s.Handle() == handle {
			return s
		}
	}
	return nil
}

// All iterates over every structure in ascending order without consuming the
// table.
func (t *Table) All() iter.Seq[*Structure] {
	return func(yield func(*Structure) bool) {
		for s := t.Next(nil); s != nil; s = t.Next(s) {
			if !yield(s) {
				return
			}
		}
	}
}

// Walk iterates over every structure like All and then frees the table,
// also if the loop is left early. The walk takes ownership of a private
// table: walking it again yields nothing and a new table has to be acquired.
func (t *Table) Walk() iter.Seq[*Structure] {
	return func(yield func(*Structure) bool) {
		defer t.Free()

		for s := range t.All() {
			if !yield(s) {
				return
			}
		}
	}
}
