// File model contains the structs which match the direct structures of the SMBIOS specification.

package smbios

// Sizes of the entry point structures.
const (
	dmiEntryPointSize     = 15
	smbiosEntryPointSize  = 31
	smbios3EntryPointSize = 24

	// dmiEntryPointOffset is where the legacy entry point is embedded in the
	// 2.x entry point.
	dmiEntryPointOffset = 0x10
)

// DMIEntryPoint is the legacy "_DMI_" entry point. It is also embedded in the
// 2.x entry point as the intermediate entry point.
type DMIEntryPoint struct {
	Anchor        [5]byte
	Checksum      byte
	TableLength   uint16
	TableAddress  uint32
	NumStructures uint16
	BCDRevision   byte
}

// SMBIOSEntryPoint is the 2.x "_SM_" entry point.
type SMBIOSEntryPoint struct {
	Anchor           [4]byte
	Checksum         byte
	Length           byte
	MajorVersion     byte
	MinorVersion     byte
	MaxStructureSize uint16
	Revision         byte
	FormattedArea    [5]byte
	DMI              DMIEntryPoint
}

// SMBIOS3EntryPoint is the 64-bit "_SM3_" entry point.
type SMBIOS3EntryPoint struct {
	Anchor       [5]byte
	Checksum     byte
	Length       byte
	MajorVersion byte
	MinorVersion byte
	DocRev       byte
	Revision     byte
	Reserved     byte
	TableMaxSize uint32
	TableAddress uint64
}

// Header starts every structure of the table.
type Header struct {
	Type   uint8
	Length uint8
	Handle uint16
}

// RawSMBIOSData is the header Windows puts in front of the table it returns.
type RawSMBIOSData struct {
	Used20CallingMethod byte
	MajorVersion        byte
	MinorVersion        byte
	DMIRevision         byte
	Length              uint32
}
