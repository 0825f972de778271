package smbios

import (
	"os"

	"github.com/aligator/gosmbios/checkpoint"
	"github.com/aligator/gosmbios/memory"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Well known locations of the firmware tables on Linux.
const (
	DefaultEFISystab       = "/sys/firmware/efi/systab"
	DefaultSysfsEntryPoint = "/sys/firmware/dmi/tables/smbios_entry_point"
	DefaultSysfsTable      = "/sys/firmware/dmi/tables/DMI"
)

// Config is what strategies get to work with. It is built from the options
// passed to Acquire.
type Config struct {
	// Fs is used for every file access, including the memory store.
	Fs afero.Fs
	// Memory reads physical memory.
	Memory Reader

	ScanStart uint64
	ScanEnd   uint64

	EFISystab       string
	SysfsEntryPoint string
	SysfsTable      string

	Strategies []Strategy
	Logger     zerolog.Logger

	memoryFile string
	accessor   *memory.Accessor

	// sharedMemory allows the process wide memory.Default accessor.
	sharedMemory bool

	// owned is closed once the acquisition is done.
	owned *memory.Accessor
}

// Option configures Acquire.
type Option func(*Config)

// WithFs sets the filesystem. Defaults to the OS.
func WithFs(fs afero.Fs) Option {
	return func(c *Config) {
		c.Fs = fs
	}
}

// WithMemoryFile reads physical memory from path instead of /dev/mem, for
// example from an image written by the capture command.
func WithMemoryFile(path string) Option {
	return func(c *Config) {
		c.memoryFile = path
	}
}

// WithAccessor reads physical memory through a. It takes precedence over
// WithMemoryFile. a is not closed.
func WithAccessor(a *memory.Accessor) Option {
	return func(c *Config) {
		c.accessor = a
	}
}

// WithStrategies replaces DefaultStrategies. They are tried in the given order.
func WithStrategies(s ...Strategy) Option {
	return func(c *Config) {
		c.Strategies = s
	}
}

// WithScanRange sets the range searched for an entry point.
func WithScanRange(start, end uint64) Option {
	return func(c *Config) {
		c.ScanStart = start
		c.ScanEnd = end
	}
}

// WithEFISystab sets the location of the EFI system table file.
func WithEFISystab(path string) Option {
	return func(c *Config) {
		c.EFISystab = path
	}
}

// WithSysfs sets the files read by SysfsStrategy.
func WithSysfs(entryPoint, table string) Option {
	return func(c *Config) {
		c.SysfsEntryPoint = entryPoint
		c.SysfsTable = table
	}
}

// WithLogger sets the logger used during this acquisition. Defaults to the
// logger set with SetLogger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Config) {
		c.Logger = l
	}
}

func newConfig(opts ...Option) (*Config, error) {
	c := &Config{
		Fs:              afero.NewOsFs(),
		ScanStart:       ScanStart,
		ScanEnd:         ScanEnd,
		EFISystab:       DefaultEFISystab,
		SysfsEntryPoint: DefaultSysfsEntryPoint,
		SysfsTable:      DefaultSysfsTable,
		Strategies:      DefaultStrategies(),
		Logger:          logger,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.ScanEnd < c.ScanStart {
		return nil, checkpoint.Errorf(ErrBounds, "scan range [0x%x, 0x%x) is empty", c.ScanStart, c.ScanEnd)
	}

	if err := c.resolveMemory(); err != nil {
		return nil, err
	}
	return c, nil
}

// withSharedMemory lets the shared table read through memory.Default.
func withSharedMemory() Option {
	return func(c *Config) {
		c.sharedMemory = true
	}
}

// resolveMemory picks the memory store. The process wide default accessor
// is only used for the shared table on the real OS filesystem, every other
// acquisition opens an accessor of its own.
func (c *Config) resolveMemory() error {
	if c.accessor != nil {
		c.Memory = c.accessor
		return nil
	}

	path := c.memoryFile
	if path == "" {
		if _, ok := c.Fs.(*afero.OsFs); ok && c.sharedMemory {
			c.Memory = memory.Default()
			return nil
		}

		path = os.Getenv(memory.EnvMemoryFile)
	}

	a, err := memory.New(path, memory.WithFs(c.Fs))
	if err != nil {
		return checkpoint.From(err)
	}
	c.Memory = a
	c.owned = a
	return nil
}

// close releases what newConfig opened.
func (c *Config) close() {
	if c.owned == nil {
		return
	}
	if err := c.owned.Close(); err != nil {
		c.Logger.Debug().Err(err).Str("path", c.owned.Path()).Msg("closing memory store failed")
	}
	c.owned = nil
}
