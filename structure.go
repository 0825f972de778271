package smbios

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/aligator/gosmbios/checkpoint"
)

const (
	// headerLen is the length of the Header of every structure.
	headerLen = 4

	// TypeEndOfTable marks the end of the table.
	TypeEndOfTable = 0x7F
)

// Structure is a view of one structure inside a Table. It stays valid until
// the table is freed; after that every access fails with ErrReleased and the
// buffer is never read again.
type Structure struct {
	table  *Table
	offset int
	gen    uint64
	header Header
}

// Type returns the structure type.
func (s *Structure) Type() uint8 {
	return s.header.Type
}

// Length returns the length of the formatted section including the header.
func (s *Structure) Length() uint8 {
	return s.header.Length
}

// Handle returns the handle identifying the structure within its table.
func (s *Structure) Handle() uint16 {
	return s.header.Handle
}

// Header returns the structure header.
func (s *Structure) Header() Header {
	return s.header
}

// Offset returns the offset of the structure in the table.
func (s *Structure) Offset() int {
	return s.offset
}

// live reports if the table behind s still holds the buffer s was taken from.
func (s *Structure) live() bool {
	return s != nil && s.table != nil && s.table.buf != nil && s.table.gen == s.gen
}

// Field copies len(dst) bytes starting at offset of the formatted section,
// counted from the start of the header, into dst. Nothing is copied if the
// range is not completely inside the formatted section.
func (s *Structure) Field(offset uint8, dst []byte) error {
	if !s.live() {
		return checkpoint.From(ErrReleased)
	}

	off := int(offset)
	length := int(s.header.Length)
	if off > length {
		return checkpoint.Errorf(ErrBounds, "offset %d is beyond the structure length %d", off, length)
	}
	if len(dst) > math.MaxInt-off {
		return checkpoint.Errorf(ErrBounds, "offset %d with %d bytes overflows", off, len(dst))
	}
	if off+len(dst) > length {
		return checkpoint.Errorf(ErrBounds, "%d bytes at offset %d exceed the structure length %d", len(dst), off, length)
	}

	start := s.offset + off
	end := start + len(dst)
	if end > len(s.table.buf) {
		return checkpoint.Errorf(ErrBounds, "%d bytes at offset %d exceed the table", len(dst), off)
	}

	copy(dst, s.table.buf[start:end])
	return nil
}

// Uint8 reads the byte at offset.
func (s *Structure) Uint8(offset uint8) (uint8, error) {
	var b [1]byte
	if err := s.Field(offset, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

// Uint16 reads the little endian word at offset.
func (s *Structure) Uint16(offset uint8) (uint16, error) {
	var b [2]byte
	if err := s.Field(offset, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b[:]), nil
}

// Uint32 reads the little endian dword at offset.
func (s *Structure) Uint32(offset uint8) (uint32, error) {
	var b [4]byte
	if err := s.Field(offset, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

// Uint64 reads the little endian qword at offset.
func (s *Structure) Uint64(offset uint8) (uint64, error) {
	var b [8]byte
	if err := s.Field(offset, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

// String returns the string with the given 1-based index from the string
// set following the formatted section. Index 0 means "no string" and always
// returns ErrNotFound, as does an index past the last string.
func (s *Structure) String(index uint8) (string, error) {
	if !s.live() {
		return "", checkpoint.From(ErrReleased)
	}
	if index == 0 {
		return "", checkpoint.Errorf(ErrNotFound, "string index 0 is reserved")
	}

	buf := s.table.buf
	p := s.offset + int(s.header.Length)
	for ; index > 0; index-- {
		if p >= len(buf) {
			return "", checkpoint.Errorf(ErrBounds, "string set of handle 0x%04x runs past the table", s.header.Handle)
		}

		n := bytes.IndexByte(buf[p:], 0)
		if n < 0 {
			return "", checkpoint.Errorf(ErrBounds, "unterminated string in handle 0x%04x", s.header.Handle)
		}
		// An empty string ends the set.
		if n == 0 {
			return "", checkpoint.Errorf(ErrNotFound, "handle 0x%04x has no string %d", s.header.Handle, index)
		}

		if index == 1 {
			return string(buf[p : p+n]), nil
		}
		p += n + 1
	}

	// Not reached, index > 0 on entry.
	return "", checkpoint.From(ErrNotFound)
}

// StringFromField resolves the string whose index is stored in the byte at
// offset.
func (s *Structure) StringFromField(offset uint8) (string, error) {
	index, err := s.Uint8(offset)
	if err != nil {
		return "", err
	}
	return s.String(index)
}

// Strings returns the complete string set. Malformed sets are cut at the
// first problem.
func (s *Structure) Strings() []string {
	var strs []string
	for i := 1; i <= math.MaxUint8; i++ {
		str, err := s.String(uint8(i))
		if err != nil {
			break
		}
		strs = append(strs, str)
	}
	return strs
}

// Raw returns a copy of the structure including its string set and the
// closing double NUL.
func (s *Structure) Raw() ([]byte, error) {
	if !s.live() {
		return nil, checkpoint.From(ErrReleased)
	}

	buf := s.table.buf
	p := s.offset + int(s.header.Length)
	if p > len(buf) {
		return nil, checkpoint.Errorf(ErrBounds, "handle 0x%04x exceeds the table", s.header.Handle)
	}

	n := bytes.Index(buf[p:], []byte{0, 0})
	if n < 0 {
		return nil, checkpoint.Errorf(ErrBounds, "unterminated string set in handle 0x%04x", s.header.Handle)
	}

	raw := make([]byte, p+n+2-s.offset)
	copy(raw, buf[s.offset:])
	return raw, nil
}
