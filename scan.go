package smbios

import (
	"bytes"

	"github.com/aligator/gosmbios/checkpoint"
)

// The BIOS places the entry point on a 16 byte boundary between 0xF0000 and
// 0xFFFFF.
const (
	ScanStart uint64 = 0xF0000
	ScanEnd   uint64 = 0x100000

	scanStride = 16
	// scanReadSize covers the largest entry point.
	scanReadSize = 32
)

// Reader reads from physical memory. *memory.Accessor implements it.
// Generated mock using mockgen:
//  mockgen -source=scan.go -destination=scan_mock.go -package smbios
type Reader interface {
	Read(p []byte, offset uint64) error
	SuggestLeaveOpen()
	SuggestClose()
}

// ScanEntryPoint searches [start, end) for the first valid entry point and
// returns it together with its address.
//
// Candidates are the 16 byte aligned offsets, tried in increasing order. No
// read crosses end. Read errors abort the scan.
func ScanEntryPoint(r Reader, start, end uint64) (*EntryPoint, uint64, error) {
	// Keep the store open while scanning rather than reopening and
	// remapping it for every candidate.
	r.SuggestLeaveOpen()
	defer r.SuggestClose()

	buf := make([]byte, scanReadSize)
	for fp := start; fp < end; fp += scanStride {
		n := uint64(scanReadSize)
		if end-fp < n {
			n = end - fp
		}

		b := buf[:n]
		if err := r.Read(b, fp); err != nil {
			return nil, 0, checkpoint.Wrap(err, ErrIO)
		}

		for _, a := range parseOrder {
			if !bytes.HasPrefix(b, anchors[a]) {
				continue
			}

			ep, err := parseAnchored(a, b)
			if err != nil {
				logger.Debug().Err(err).Str("anchor", a.String()).Uint64("address", fp).Msg("rejected entry point candidate")
				continue
			}
			return ep, fp, nil
		}
	}

	return nil, 0, checkpoint.Errorf(ErrNotFound, "no valid entry point in [0x%x, 0x%x)", start, end)
}
