package smbios

import (
	"errors"
	"testing"

	"github.com/aligator/gosmbios/memory"
	"github.com/golang/mock/gomock"
	"github.com/spf13/afero"
)

func testingAccessor(t *testing.T, fs afero.Fs) *memory.Accessor {
	t.Helper()

	a, err := memory.New(testImage, memory.WithFs(fs), memory.WithMapper(memory.BufferedMapper{}))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		a.Close()
	})
	return a
}

func TestScanEntryPoint(t *testing.T) {
	corrupt := smbiosEntryPointBytes(0x2000, 0x100, 3)
	corrupt[4]++

	tests := []struct {
		name        string
		parts       map[uint64][]byte
		start, end  uint64
		wantAddress uint64
		wantAnchor  Anchor
		wantTable   uint64
		wantLength  uint32
		wantErr     error
	}{
		{
			name:        "smbios at the start",
			parts:       map[uint64][]byte{0xF0000: smbiosEntryPointBytes(0x2000, 0x100, 3)},
			start:       ScanStart,
			end:         ScanEnd,
			wantAddress: 0xF0000,
			wantAnchor:  AnchorSMBIOS,
			wantTable:   0x2000,
			wantLength:  0x100,
		},
		{
			name:        "smbios somewhere in the range",
			parts:       map[uint64][]byte{0xFA550: smbiosEntryPointBytes(0x000E_1000, 0x0A21, 40)},
			start:       ScanStart,
			end:         ScanEnd,
			wantAddress: 0xFA550,
			wantAnchor:  AnchorSMBIOS,
			wantTable:   0x000E_1000,
			wantLength:  0x0A21,
		},
		{
			name:        "smbios 3 in the last candidate that fits",
			parts:       map[uint64][]byte{0xFFFE0: smbios3EntryPointBytes(0x7F00_0000, 0x3000)},
			start:       ScanStart,
			end:         ScanEnd,
			wantAddress: 0xFFFE0,
			wantAnchor:  AnchorSMBIOS3,
			wantTable:   0x7F00_0000,
			wantLength:  0x3000,
		},
		{
			name:        "legacy dmi",
			parts:       map[uint64][]byte{0xF8000: dmiEntryPointBytes(0x000F_9000, 0x0200, 8, 0x21)},
			start:       ScanStart,
			end:         ScanEnd,
			wantAddress: 0xF8000,
			wantAnchor:  AnchorDMI,
			wantTable:   0x000F_9000,
			wantLength:  0x0200,
		},
		{
			name: "corrupt candidate is skipped",
			parts: map[uint64][]byte{
				0xF1000: corrupt,
				0xF2000: smbiosEntryPointBytes(0x3000, 0x200, 4),
			},
			start:       ScanStart,
			end:         ScanEnd,
			wantAddress: 0xF2000,
			wantAnchor:  AnchorSMBIOS,
			wantTable:   0x3000,
			wantLength:  0x200,
		},
		{
			name:    "only candidate corrupt",
			parts:   map[uint64][]byte{0xF1000: corrupt},
			start:   ScanStart,
			end:     ScanEnd,
			wantErr: ErrNotFound,
		},
		{
			name:    "unaligned entry point",
			parts:   map[uint64][]byte{0xF1008: smbiosEntryPointBytes(0x2000, 0x100, 3)},
			start:   ScanStart,
			end:     ScanEnd,
			wantErr: ErrNotFound,
		},
		{
			name:    "entry point cut by the end of the range",
			parts:   map[uint64][]byte{0xF1000: smbiosEntryPointBytes(0x2000, 0x100, 3)},
			start:   ScanStart,
			end:     0xF1010,
			wantErr: ErrNotFound,
		},
		{
			name:    "entry point before the range",
			parts:   map[uint64][]byte{0xE0000: smbiosEntryPointBytes(0x2000, 0x100, 3)},
			start:   ScanStart,
			end:     ScanEnd,
			wantErr: ErrNotFound,
		},
		{
			name:    "empty range",
			parts:   map[uint64][]byte{0xF0000: smbiosEntryPointBytes(0x2000, 0x100, 3)},
			start:   ScanStart,
			end:     ScanStart,
			wantErr: ErrNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := testingAccessor(t, testingImage(t, tt.parts))

			ep, addr, err := ScanEntryPoint(a, tt.start, tt.end)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ScanEntryPoint() error = %v, wantErr %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ScanEntryPoint() error = %v", err)
			}

			if addr != tt.wantAddress {
				t.Errorf("ScanEntryPoint() address = 0x%x, want 0x%x", addr, tt.wantAddress)
			}
			if ep.Anchor != tt.wantAnchor {
				t.Errorf("ScanEntryPoint() anchor = %v, want %v", ep.Anchor, tt.wantAnchor)
			}
			if ep.TableAddress != tt.wantTable {
				t.Errorf("ScanEntryPoint() table address = 0x%x, want 0x%x", ep.TableAddress, tt.wantTable)
			}
			if ep.TableLength != tt.wantLength {
				t.Errorf("ScanEntryPoint() table length = 0x%x, want 0x%x", ep.TableLength, tt.wantLength)
			}
		})
	}
}

func TestScanEntryPoint_OpensOnce(t *testing.T) {
	a := testingAccessor(t, testingImage(t, map[uint64][]byte{0xFFF00: smbiosEntryPointBytes(0x2000, 0x100, 3)}))

	if _, _, err := ScanEntryPoint(a, ScanStart, ScanEnd); err != nil {
		t.Fatal(err)
	}

	stats := a.Stats()
	if stats.Opens != 1 {
		t.Errorf("Stats().Opens = %d, want 1", stats.Opens)
	}
	if stats.Maps != stats.Unmaps {
		t.Errorf("Stats() maps = %d, unmaps = %d, want the window to be released", stats.Maps, stats.Unmaps)
	}
	if want := (0xFFF00-ScanStart)/uint64(a.WindowSize()) + 1; stats.Maps != want {
		t.Errorf("Stats().Maps = %d, want %d", stats.Maps, want)
	}
}

func TestScanEntryPoint_ReadError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	readErr := &memory.Error{Op: "map", Path: testImage, Offset: ScanStart, Err: errors.New("permission denied")}

	r := NewMockReader(ctrl)
	gomock.InOrder(
		r.EXPECT().SuggestLeaveOpen(),
		r.EXPECT().Read(gomock.Any(), uint64(ScanStart)).Return(nil),
		r.EXPECT().Read(gomock.Any(), uint64(ScanStart+scanStride)).Return(readErr),
		r.EXPECT().SuggestClose(),
	)

	_, _, err := ScanEntryPoint(r, ScanStart, ScanEnd)
	if !errors.Is(err, ErrIO) {
		t.Errorf("ScanEntryPoint() error = %v, want ErrIO", err)
	}
	if !errors.Is(err, readErr) {
		t.Errorf("ScanEntryPoint() error = %v, want the read error", err)
	}
}

func TestScanEntryPoint_ReadSize(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	expectRead := func(r *MockReader, offset uint64, size int) *gomock.Call {
		return r.EXPECT().Read(gomock.Any(), offset).DoAndReturn(func(p []byte, offset uint64) error {
			if len(p) != size {
				t.Errorf("Read() at 0x%x with %d bytes, want %d", offset, len(p), size)
			}
			return nil
		})
	}

	// The last read is clipped to the end of the range.
	r := NewMockReader(ctrl)
	gomock.InOrder(
		r.EXPECT().SuggestLeaveOpen(),
		expectRead(r, 0x100, scanReadSize),
		expectRead(r, 0x110, scanReadSize),
		expectRead(r, 0x120, 16),
		r.EXPECT().SuggestClose(),
	)

	if _, _, err := ScanEntryPoint(r, 0x100, 0x130); !errors.Is(err, ErrNotFound) {
		t.Errorf("ScanEntryPoint() error = %v, want ErrNotFound", err)
	}
}
