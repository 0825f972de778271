package memory

import "sync/atomic"

type stats struct {
	opens    atomic.Uint64
	maps     atomic.Uint64
	unmaps   atomic.Uint64
	failures atomic.Uint64
}

// Stats counts the work an accessor did since it was created.
type Stats struct {
	Opens    uint64 `json:"opens"`
	Maps     uint64 `json:"maps"`
	Unmaps   uint64 `json:"unmaps"`
	Failures uint64 `json:"failures"`
}

// Stats returns a snapshot of the accessor counters.
func (a *Accessor) Stats() Stats {
	return Stats{
		Opens:    a.stats.opens.Load(),
		Maps:     a.stats.maps.Load(),
		Unmaps:   a.stats.unmaps.Load(),
		Failures: a.stats.failures.Load(),
	}
}
