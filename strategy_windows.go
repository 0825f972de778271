//go:build windows

package smbios

import (
	"encoding/binary"
	"unsafe"

	"github.com/StackExchange/wmi"
	"github.com/aligator/gosmbios/checkpoint"
	"golang.org/x/sys/windows"
)

// WMIStrategy queries the raw table from WMI.
type WMIStrategy struct{}

func (WMIStrategy) Name() string {
	return "wmi"
}

// MSSmBios_RawSMBiosTables is the WMI class holding the raw table.
type MSSmBios_RawSMBiosTables struct {
	Used20CallingMethod bool
	SmbiosMajorVersion  uint8
	SmbiosMinorVersion  uint8
	DmiRevision         uint8
	Size                uint32
	SMBiosData          []uint8
}

func (WMIStrategy) Acquire(c *Config) (*EntryPoint, []byte, error) {
	var results []MSSmBios_RawSMBiosTables
	err := wmi.QueryNamespace("SELECT * FROM MSSmBios_RawSMBiosTables", &results, `root\WMI`)
	if err != nil {
		return nil, nil, checkpoint.Wrap(err, ErrIO)
	}
	if len(results) == 0 {
		return nil, nil, checkpoint.Errorf(ErrNotFound, "no MSSmBios_RawSMBiosTables instance")
	}

	r := results[0]
	// Rebuild the buffer GetSystemFirmwareTable would return so both
	// strategies share the same parser.
	buf := make([]byte, rawSMBIOSDataSize+len(r.SMBiosData))
	if r.Used20CallingMethod {
		buf[0] = 1
	}
	buf[1] = r.SmbiosMajorVersion
	buf[2] = r.SmbiosMinorVersion
	buf[3] = r.DmiRevision
	binary.LittleEndian.PutUint32(buf[4:], uint32(len(r.SMBiosData)))
	copy(buf[rawSMBIOSDataSize:], r.SMBiosData)

	return parseRawSMBIOSData(buf)
}

var (
	kernel32                   = windows.NewLazySystemDLL("kernel32.dll")
	procGetSystemFirmwareTable = kernel32.NewProc("GetSystemFirmwareTable")
)

// firmwareTableRSMB is the 'RSMB' provider signature.
const firmwareTableRSMB = 0x52534d42

// FirmwareTableStrategy reads the raw table with GetSystemFirmwareTable.
type FirmwareTableStrategy struct{}

func (FirmwareTableStrategy) Name() string {
	return "firmware-table"
}

func (FirmwareTableStrategy) Acquire(c *Config) (*EntryPoint, []byte, error) {
	if err := procGetSystemFirmwareTable.Find(); err != nil {
		return nil, nil, checkpoint.Wrap(err, ErrUnavailable)
	}

	// The first call returns the required size.
	size, _, err := procGetSystemFirmwareTable.Call(firmwareTableRSMB, 0, 0, 0)
	if size == 0 {
		return nil, nil, checkpoint.Wrap(err, ErrIO)
	}

	buf := make([]byte, size)
	n, _, err := procGetSystemFirmwareTable.Call(firmwareTableRSMB, 0, uintptr(unsafe.Pointer(&buf[0])), size)
	if n == 0 || n > size {
		return nil, nil, checkpoint.Wrap(err, ErrIO)
	}

	return parseRawSMBIOSData(buf[:n])
}
