package smbios

import (
	"errors"
	"fmt"
	"sync"

	"github.com/aligator/gosmbios/checkpoint"
)

// Mode selects the table Acquire returns.
type Mode int

const (
	// Shared is the process wide table. It is initialized once and kept
	// until ResetShared.
	Shared Mode = iota
	// Private is a new table owned by the caller.
	Private
)

var (
	sharedMu    sync.Mutex
	sharedTable = &Table{shared: true}
)

// Acquire returns an initialized table.
//
// The strategies are tried in order until one of them yields a valid entry
// point and the table it points to. If all of them fail, the returned table
// is not nil but uninitialized and the error wraps ErrNotFound together with
// every single failure.
//
// An already initialized shared table is returned as is and the options are
// ignored. Only the shared table reads through memory.Default, private
// tables open their own memory store. Decoding the shared table is safe from many goroutines, but
// ResetShared must not run concurrently with them.
func Acquire(mode Mode, opts ...Option) (*Table, error) {
	if mode != Private {
		sharedMu.Lock()
		defer sharedMu.Unlock()

		if sharedTable.Initialized() {
			return sharedTable, nil
		}
		return sharedTable, initialize(sharedTable, opts...)
	}

	t := &Table{}
	return t, initialize(t, opts...)
}

// ResetShared releases the shared table. The next Acquire(Shared)
// initializes it again.
func ResetShared() {
	sharedMu.Lock()
	defer sharedMu.Unlock()

	sharedTable.release()
	sharedTable.err = nil
}

func initialize(t *Table, opts ...Option) error {
	if t.shared {
		opts = append([]Option{withSharedMemory()}, opts...)
	}

	c, err := newConfig(opts...)
	if err != nil {
		t.err = err
		return err
	}
	defer c.close()

	if len(c.Strategies) == 0 {
		t.err = checkpoint.Errorf(ErrNotFound, "no strategies configured")
		return t.err
	}

	var errs []error
	for _, s := range c.Strategies {
		err := try(t, s, c)
		if err == nil {
			c.Logger.Debug().
				Str("strategy", s.Name()).
				Str("version", t.ep.Version()).
				Uint64("address", t.ep.TableAddress).
				Int("length", t.Len()).
				Msg("table acquired")
			return nil
		}

		c.Logger.Debug().Err(err).Str("strategy", s.Name()).Msg("strategy failed")
		errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
	}

	t.err = checkpoint.Wrap(errors.Join(errs...), ErrNotFound)
	return t.err
}

func try(t *Table, s Strategy, c *Config) error {
	ep, blob, err := s.Acquire(c)
	if err != nil {
		return err
	}
	if ep == nil {
		return checkpoint.Errorf(ErrValidation, "no entry point")
	}

	return t.load(*ep, blob)
}
