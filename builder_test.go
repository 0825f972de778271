package smbios

import (
	"encoding/binary"
	"testing"

	"github.com/spf13/afero"
)

const testImage = "/mem.img"

// setChecksum makes b sum up to 0 by adjusting the byte at index at.
func setChecksum(b []byte, at int) {
	b[at] = 0
	b[at] = -checksum(b)
}

func dmiEntryPointBytes(addr uint32, length, num uint16, bcd byte) []byte {
	b := make([]byte, dmiEntryPointSize)
	copy(b, "_DMI_")
	binary.LittleEndian.PutUint16(b[6:], length)
	binary.LittleEndian.PutUint32(b[8:], addr)
	binary.LittleEndian.PutUint16(b[12:], num)
	b[14] = bcd
	setChecksum(b, 5)
	return b
}

func smbiosEntryPointBytes(addr uint32, length, num uint16) []byte {
	b := make([]byte, smbiosEntryPointSize)
	copy(b, "_SM_")
	b[5] = smbiosEntryPointSize
	b[6] = 2
	b[7] = 8
	binary.LittleEndian.PutUint16(b[8:], 0x80)
	copy(b[dmiEntryPointOffset:], dmiEntryPointBytes(addr, length, num, 0x28))
	setChecksum(b, 4)
	return b
}

func smbios3EntryPointBytes(addr uint64, maxSize uint32) []byte {
	b := make([]byte, smbios3EntryPointSize)
	copy(b, "_SM3_")
	b[6] = smbios3EntryPointSize
	b[7] = 3
	b[8] = 2
	b[10] = 1
	binary.LittleEndian.PutUint32(b[12:], maxSize)
	binary.LittleEndian.PutUint64(b[16:], addr)
	setChecksum(b, 5)
	return b
}

// record encodes one structure. An empty string set is encoded as the
// double NUL alone.
func record(typ uint8, handle uint16, formatted []byte, strs ...string) []byte {
	b := []byte{typ, byte(headerLen + len(formatted)), 0, 0}
	binary.LittleEndian.PutUint16(b[2:], handle)
	b = append(b, formatted...)

	if len(strs) == 0 {
		return append(b, 0, 0)
	}
	for _, s := range strs {
		b = append(b, s...)
		b = append(b, 0)
	}
	return append(b, 0)
}

func endOfTable(handle uint16) []byte {
	return record(TypeEndOfTable, handle, nil)
}

func concat(parts ...[]byte) []byte {
	var b []byte
	for _, p := range parts {
		b = append(b, p...)
	}
	return b
}

// testingTableBytes is a table of three structures and the end marker.
func testingTableBytes() []byte {
	return concat(
		record(0, 0x0000, []byte{1, 2, 0, 0}, "Dell Inc.", "A01"),
		record(1, 0x0100, []byte{1, 2, 0, 0, 0, 0}, "Dell Inc.", "System"),
		record(4, 0x0400, []byte{0x10, 0x20, 0x30, 0x40, 0x50, 0x60, 0x70, 0x80}),
		endOfTable(0x7F00),
	)
}

func testingTable(t *testing.T, blob []byte) *Table {
	t.Helper()

	table, err := NewTable(EntryPoint{Anchor: AnchorSMBIOS, MajorVersion: 2, MinorVersion: 8, TableLength: uint32(len(blob))}, blob)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(table.Free)
	return table
}

// testingImage writes a 1 MiB memory image containing the given parts at
// their addresses.
func testingImage(t *testing.T, parts map[uint64][]byte) afero.Fs {
	t.Helper()

	data := make([]byte, ScanEnd)
	for addr, p := range parts {
		copy(data[addr:], p)
	}

	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, testImage, data, 0644); err != nil {
		t.Fatal(err)
	}
	return fs
}
