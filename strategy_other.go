//go:build !windows

package smbios

import "github.com/aligator/gosmbios/checkpoint"

// WMIStrategy queries the raw table from WMI. It is only available on
// Windows.
type WMIStrategy struct{}

func (WMIStrategy) Name() string {
	return "wmi"
}

func (WMIStrategy) Acquire(c *Config) (*EntryPoint, []byte, error) {
	return nil, nil, checkpoint.Errorf(ErrUnavailable, "WMI is only available on windows")
}

// FirmwareTableStrategy reads the raw table with GetSystemFirmwareTable. It
// is only available on Windows.
type FirmwareTableStrategy struct{}

func (FirmwareTableStrategy) Name() string {
	return "firmware-table"
}

func (FirmwareTableStrategy) Acquire(c *Config) (*EntryPoint, []byte, error) {
	return nil, nil, checkpoint.Errorf(ErrUnavailable, "GetSystemFirmwareTable is only available on windows")
}
