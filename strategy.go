package smbios

import (
	"bufio"
	"bytes"
	"strconv"
	"strings"

	"github.com/aligator/gosmbios/checkpoint"
	"github.com/spf13/afero"
)

// Strategy is one way to find the table.
// Generated mock using mockgen:
//  mockgen -source=strategy.go -destination=strategy_mock.go -package smbios
type Strategy interface {
	// Name identifies the strategy in logs and errors.
	Name() string
	// Acquire returns a validated entry point and the table it points to.
	// It returns an error wrapping ErrUnavailable if it cannot run at all.
	Acquire(c *Config) (*EntryPoint, []byte, error)
}

// DefaultStrategies returns the strategies Acquire uses unless
// WithStrategies is given, in the order they are tried.
func DefaultStrategies() []Strategy {
	return []Strategy{
		EFIStrategy{},
		MemoryStrategy{},
		WMIStrategy{},
		FirmwareTableStrategy{},
	}
}

// EFIStrategy reads the address of the entry point from the EFI system table
// exported by the kernel. On EFI machines the entry point is usually not in
// the legacy scan range.
type EFIStrategy struct{}

func (EFIStrategy) Name() string {
	return "efi"
}

func (EFIStrategy) Acquire(c *Config) (*EntryPoint, []byte, error) {
	systab, err := afero.ReadFile(c.Fs, c.EFISystab)
	if err != nil {
		return nil, nil, checkpoint.Wrap(err, ErrUnavailable)
	}

	addr, err := parseSystab(systab)
	if err != nil {
		return nil, nil, err
	}

	buf := make([]byte, scanReadSize)
	if err := c.Memory.Read(buf, addr); err != nil {
		return nil, nil, checkpoint.Wrap(err, ErrIO)
	}
	ep, err := ParseEntryPoint(buf)
	if err != nil {
		return nil, nil, err
	}

	blob, err := readTable(c.Memory, ep)
	if err != nil {
		return nil, nil, err
	}
	return ep, blob, nil
}

// parseSystab returns the entry point address from the systab file. The 3.x
// entry point is preferred.
func parseSystab(systab []byte) (uint64, error) {
	addrs := map[string]string{}
	s := bufio.NewScanner(bytes.NewReader(systab))
	for s.Scan() {
		key, value, ok := strings.Cut(strings.TrimSpace(s.Text()), "=")
		if ok {
			addrs[key] = value
		}
	}
	if err := s.Err(); err != nil {
		return 0, checkpoint.Wrap(err, ErrIO)
	}

	for _, key := range []string{"SMBIOS3", "SMBIOS"} {
		value, ok := addrs[key]
		if !ok {
			continue
		}

		addr, err := strconv.ParseUint(value, 0, 64)
		if err != nil {
			return 0, checkpoint.Wrap(err, ErrValidation)
		}
		return addr, nil
	}

	return 0, checkpoint.Errorf(ErrNotFound, "no SMBIOS entry in the EFI system table")
}

// MemoryStrategy scans the legacy BIOS range for an entry point.
type MemoryStrategy struct{}

func (MemoryStrategy) Name() string {
	return "memory"
}

func (MemoryStrategy) Acquire(c *Config) (*EntryPoint, []byte, error) {
	ep, _, err := ScanEntryPoint(c.Memory, c.ScanStart, c.ScanEnd)
	if err != nil {
		return nil, nil, err
	}

	blob, err := readTable(c.Memory, ep)
	if err != nil {
		return nil, nil, err
	}
	return ep, blob, nil
}

// SysfsStrategy reads the entry point and the table the Linux kernel exports
// in sysfs. It needs no access to /dev/mem, but it is not part of
// DefaultStrategies.
type SysfsStrategy struct{}

func (SysfsStrategy) Name() string {
	return "sysfs"
}

func (SysfsStrategy) Acquire(c *Config) (*EntryPoint, []byte, error) {
	raw, err := afero.ReadFile(c.Fs, c.SysfsEntryPoint)
	if err != nil {
		return nil, nil, checkpoint.Wrap(err, ErrUnavailable)
	}
	ep, err := ParseEntryPoint(raw)
	if err != nil {
		return nil, nil, err
	}

	blob, err := afero.ReadFile(c.Fs, c.SysfsTable)
	if err != nil {
		return nil, nil, checkpoint.Wrap(err, ErrIO)
	}
	if ep.Anchor != AnchorSMBIOS3 && len(blob) < int(ep.TableLength) {
		return nil, nil, checkpoint.Errorf(ErrBounds, "table has %d bytes, the entry point declares %d", len(blob), ep.TableLength)
	}
	return ep, blob, nil
}

// tableChunkSize is the unit 3.x tables are read in.
const tableChunkSize = 4096

// readTable copies the table ep points to out of memory.
func readTable(r Reader, ep *EntryPoint) ([]byte, error) {
	if ep.TableLength < headerLen {
		return nil, checkpoint.Errorf(ErrValidation, "implausible table length %d", ep.TableLength)
	}
	if ep.Anchor == AnchorSMBIOS3 {
		return readTableMax(r, ep)
	}

	blob := make([]byte, ep.TableLength)
	if err := r.Read(blob, ep.TableAddress); err != nil {
		return nil, checkpoint.Wrap(err, ErrIO)
	}
	return blob, nil
}

// readTableMax reads a table whose length is only known as a maximum. It
// reads page aligned chunks until the end marker shows up. A failing read
// after at least one complete structure ends the table there.
func readTableMax(r Reader, ep *EntryPoint) ([]byte, error) {
	r.SuggestLeaveOpen()
	defer r.SuggestClose()

	limit := uint64(ep.TableLength)
	buf := make([]byte, tableChunkSize)
	var blob []byte
	for off := uint64(0); off < limit; {
		addr := ep.TableAddress + off
		n := tableChunkSize - addr%tableChunkSize
		if n > limit-off {
			n = limit - off
		}

		if err := r.Read(buf[:n], addr); err != nil {
			if _, complete := tableEnd(blob); complete > 0 {
				logger.Debug().Err(err).Uint64("address", addr).Int("length", complete).Msg("table cut at unreadable memory")
				return blob[:complete], nil
			}
			return nil, checkpoint.Wrap(err, ErrIO)
		}
		blob = append(blob, buf[:n]...)
		off += n

		if end, _ := tableEnd(blob); end >= 0 {
			return blob[:end], nil
		}
	}

	return blob, nil
}
