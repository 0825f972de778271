package smbios

import (
	"errors"

	"github.com/aligator/gosmbios/memory"
)

// These errors classify every failure of the package. Use errors.Is to check
// for them; the underlying cause stays available as well.
var (
	// ErrIO is returned when the backing store could not be opened, mapped or copied.
	ErrIO = memory.ErrIO
	// ErrValidation is returned for entry points with a bad checksum, anchor,
	// version or length.
	ErrValidation = errors.New("entry point validation failed")
	// ErrNotFound is returned when a scan or a lookup ran out of candidates.
	ErrNotFound = errors.New("not found")
	// ErrBounds is returned for accesses outside a structure or the table.
	ErrBounds = errors.New("access out of bounds")
	// ErrUnavailable is returned by strategies which cannot run on this
	// platform or with this configuration.
	ErrUnavailable = errors.New("strategy unavailable")
	// ErrReleased is returned when a structure outlived its table.
	ErrReleased = errors.New("table released")
)
