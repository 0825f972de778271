package smbios

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/aligator/gosmbios/checkpoint"
)

// Anchor identifies the format of an entry point.
type Anchor int

const (
	// AnchorDMI is the legacy "_DMI_" entry point.
	AnchorDMI Anchor = iota
	// AnchorSMBIOS is the 2.x "_SM_" entry point.
	AnchorSMBIOS
	// AnchorSMBIOS3 is the 3.x "_SM3_" entry point.
	AnchorSMBIOS3
)

var anchors = map[Anchor][]byte{
	AnchorDMI:     []byte("_DMI_"),
	AnchorSMBIOS:  []byte("_SM_"),
	AnchorSMBIOS3: []byte("_SM3_"),
}

// parseOrder lists modern formats first.
var parseOrder = []Anchor{AnchorSMBIOS3, AnchorSMBIOS, AnchorDMI}

func (a Anchor) String() string {
	switch a {
	case AnchorDMI:
		return "_DMI_"
	case AnchorSMBIOS:
		return "_SM_"
	case AnchorSMBIOS3:
		return "_SM3_"
	default:
		return fmt.Sprintf("Anchor(%d)", int(a))
	}
}

// EntryPoint is a validated entry point. It tells where the table lives.
type EntryPoint struct {
	Anchor       Anchor
	MajorVersion uint8
	MinorVersion uint8
	// Revision is the BCD revision of 2.x and legacy entry points and the
	// docrev of 3.x entry points.
	Revision uint8
	// Length is the declared length of the entry point itself.
	Length           uint8
	MaxStructureSize uint16
	TableAddress     uint64
	// TableLength is exact for 2.x and legacy entry points and an upper
	// bound for 3.x entry points.
	TableLength uint32
	// NumStructures is 0 for 3.x entry points, which do not carry it.
	NumStructures uint16
}

// Version returns the SMBIOS version as "major.minor".
func (e EntryPoint) Version() string {
	return fmt.Sprintf("%d.%d", e.MajorVersion, e.MinorVersion)
}

// ParseEntryPoint decodes and validates the entry point at the start of b.
// b may be longer than the entry point.
func ParseEntryPoint(b []byte) (*EntryPoint, error) {
	for _, a := range parseOrder {
		if bytes.HasPrefix(b, anchors[a]) {
			return parseAnchored(a, b)
		}
	}

	return nil, checkpoint.Errorf(ErrValidation, "no entry point anchor found")
}

func parseAnchored(a Anchor, b []byte) (*EntryPoint, error) {
	switch a {
	case AnchorSMBIOS3:
		return parseSMBIOS3(b)
	case AnchorSMBIOS:
		return parseSMBIOS(b)
	default:
		return parseDMI(b)
	}
}

func parseDMI(b []byte) (*EntryPoint, error) {
	if len(b) < dmiEntryPointSize {
		return nil, checkpoint.Errorf(ErrBounds, "%d bytes are too short for a %s entry point", len(b), AnchorDMI)
	}

	dmi := DMIEntryPoint{}
	if err := binary.Read(bytes.NewReader(b[:dmiEntryPointSize]), binary.LittleEndian, &dmi); err != nil {
		return nil, checkpoint.Wrap(err, ErrBounds)
	}
	if err := validateDMI(&dmi, b[:dmiEntryPointSize]); err != nil {
		return nil, err
	}

	// The legacy entry point has no version of its own, only the BCD
	// revision. 2.0 is assumed if that is missing as well.
	major, minor := uint8(2), uint8(0)
	if dmi.BCDRevision != 0 {
		major, minor = dmi.BCDRevision>>4, dmi.BCDRevision&0x0F
	}

	return &EntryPoint{
		Anchor:        AnchorDMI,
		MajorVersion:  major,
		MinorVersion:  minor,
		Revision:      dmi.BCDRevision,
		Length:        dmiEntryPointSize,
		TableAddress:  uint64(dmi.TableAddress),
		TableLength:   uint32(dmi.TableLength),
		NumStructures: dmi.NumStructures,
	}, nil
}

// validateDMI checks the anchor and the checksum of a legacy entry point.
// raw has to be the 15 bytes dmi was decoded from.
func validateDMI(dmi *DMIEntryPoint, raw []byte) error {
	if !bytes.Equal(dmi.Anchor[:], anchors[AnchorDMI]) {
		return checkpoint.Errorf(ErrValidation, "invalid %s anchor %q", AnchorDMI, dmi.Anchor[:])
	}
	if sum := checksum(raw); sum != 0 {
		return checkpoint.Errorf(ErrValidation, "%s checksum is off by 0x%02x", AnchorDMI, sum)
	}
	return nil
}

func parseSMBIOS(b []byte) (*EntryPoint, error) {
	// Everything up to the number of structures is needed. Some BIOSes
	// declare a length of 0x1e, so the BCD revision byte is optional.
	if len(b) < smbiosEntryPointSize-1 {
		return nil, checkpoint.Errorf(ErrBounds, "%d bytes are too short for a %s entry point", len(b), AnchorSMBIOS)
	}

	raw := make([]byte, smbiosEntryPointSize)
	copy(raw, b)

	ep := SMBIOSEntryPoint{}
	if err := binary.Read(bytes.NewReader(raw), binary.LittleEndian, &ep); err != nil {
		return nil, checkpoint.Wrap(err, ErrBounds)
	}

	// Never checksum beyond the structure, even if the BIOS declares more.
	n := int(ep.Length)
	if n > smbiosEntryPointSize {
		n = smbiosEntryPointSize
	}
	if n > len(b) {
		return nil, checkpoint.Errorf(ErrBounds, "%s entry point declares %d bytes, only %d available", AnchorSMBIOS, ep.Length, len(b))
	}

	if sum := checksum(b[:n]); sum != 0 {
		return nil, checkpoint.Errorf(ErrValidation, "%s checksum is off by 0x%02x", AnchorSMBIOS, sum)
	}
	if ep.MajorVersion != 2 {
		return nil, checkpoint.Errorf(ErrValidation, "unsupported %s major version %d", AnchorSMBIOS, ep.MajorVersion)
	}
	if ep.Length < 0x0f {
		return nil, checkpoint.Errorf(ErrValidation, "implausible %s entry point length 0x%02x", AnchorSMBIOS, ep.Length)
	}

	// The intermediate anchor is always checked, its checksum only if the
	// declared length covers the whole intermediate entry point.
	if !bytes.Equal(ep.DMI.Anchor[:], anchors[AnchorDMI]) {
		return nil, checkpoint.Errorf(ErrValidation, "invalid intermediate anchor %q", ep.DMI.Anchor[:])
	}
	if n == smbiosEntryPointSize {
		if err := validateDMI(&ep.DMI, raw[dmiEntryPointOffset:]); err != nil {
			return nil, err
		}
	}

	return &EntryPoint{
		Anchor:           AnchorSMBIOS,
		MajorVersion:     ep.MajorVersion,
		MinorVersion:     ep.MinorVersion,
		Revision:         ep.DMI.BCDRevision,
		Length:           ep.Length,
		MaxStructureSize: ep.MaxStructureSize,
		TableAddress:     uint64(ep.DMI.TableAddress),
		TableLength:      uint32(ep.DMI.TableLength),
		NumStructures:    ep.DMI.NumStructures,
	}, nil
}

func parseSMBIOS3(b []byte) (*EntryPoint, error) {
	if len(b) < smbios3EntryPointSize {
		return nil, checkpoint.Errorf(ErrBounds, "%d bytes are too short for a %s entry point", len(b), AnchorSMBIOS3)
	}

	ep := SMBIOS3EntryPoint{}
	if err := binary.Read(bytes.NewReader(b[:smbios3EntryPointSize]), binary.LittleEndian, &ep); err != nil {
		return nil, checkpoint.Wrap(err, ErrBounds)
	}

	n := int(ep.Length)
	if n > smbios3EntryPointSize {
		n = smbios3EntryPointSize
	}
	if sum := checksum(b[:n]); sum != 0 {
		return nil, checkpoint.Errorf(ErrValidation, "%s checksum is off by 0x%02x", AnchorSMBIOS3, sum)
	}
	if ep.MajorVersion != 3 {
		return nil, checkpoint.Errorf(ErrValidation, "unsupported %s major version %d", AnchorSMBIOS3, ep.MajorVersion)
	}
	if ep.Length < smbios3EntryPointSize {
		return nil, checkpoint.Errorf(ErrValidation, "implausible %s entry point length 0x%02x", AnchorSMBIOS3, ep.Length)
	}

	return &EntryPoint{
		Anchor:       AnchorSMBIOS3,
		MajorVersion: ep.MajorVersion,
		MinorVersion: ep.MinorVersion,
		Revision:     ep.DocRev,
		Length:       ep.Length,
		TableAddress: ep.TableAddress,
		TableLength:  ep.TableMaxSize,
	}, nil
}

// checksum adds up b modulo 256. Valid entry points sum up to 0.
func checksum(b []byte) byte {
	var sum byte
	for _, c := range b {
		sum += c
	}
	return sum
}
