package smbios

import (
	"bytes"
	"encoding/binary"

	"github.com/aligator/gosmbios/checkpoint"
)

// rawSMBIOSDataSize is the size of RawSMBIOSData in front of the table.
const rawSMBIOSDataSize = 8

// parseRawSMBIOSData splits the buffer Windows returns for the 'RSMB'
// provider into an entry point and the table. Windows does not hand out the
// entry point itself, so it is synthesized from the header.
func parseRawSMBIOSData(b []byte) (*EntryPoint, []byte, error) {
	if len(b) < rawSMBIOSDataSize {
		return nil, nil, checkpoint.Errorf(ErrBounds, "%d bytes are too short for the raw SMBIOS header", len(b))
	}

	hdr := RawSMBIOSData{}
	if err := binary.Read(bytes.NewReader(b[:rawSMBIOSDataSize]), binary.LittleEndian, &hdr); err != nil {
		return nil, nil, checkpoint.Wrap(err, ErrBounds)
	}

	table := b[rawSMBIOSDataSize:]
	if uint64(hdr.Length) > uint64(len(table)) {
		return nil, nil, checkpoint.Errorf(ErrBounds, "header declares %d table bytes, only %d available", hdr.Length, len(table))
	}

	return rawEntryPoint(hdr.MajorVersion, hdr.MinorVersion, hdr.DMIRevision, hdr.Length), table[:hdr.Length], nil
}

func rawEntryPoint(major, minor, revision byte, length uint32) *EntryPoint {
	anchor := AnchorSMBIOS
	if major >= 3 {
		anchor = AnchorSMBIOS3
	}

	return &EntryPoint{
		Anchor:       anchor,
		MajorVersion: major,
		MinorVersion: minor,
		Revision:     revision,
		TableLength:  length,
	}
}
