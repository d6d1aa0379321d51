package pool

// Stats is a point-in-time snapshot of a Pool's internal bookkeeping.
// It exists for observability (poolmetrics reads it to populate
// Prometheus gauges) and tests; nothing in the allocator consults it to
// make decisions.
type Stats struct {
	// AllocStreak, EvictStreak, LoadStreak mirror the advisory
	// telemetry counters.
	AllocStreak uint32
	EvictStreak uint32
	LoadStreak  uint32

	// EmptySlabs, PartialSlabs, FullSlabs count slabs by list membership.
	EmptySlabs   int
	PartialSlabs int
	FullSlabs    int

	// CacheOccupancy is the number of non-nil entries across current and
	// held, i.e. how much of the MRU window is currently in use.
	CacheOccupancy int
}

// Stats returns a snapshot of the pool's current bookkeeping. It walks
// the three slab lists, so it is O(slab count); callers should not poll
// it from a hot path.
func (p *Pool) Stats() Stats {
	occ := 0
	if p.current != nil {
		occ++
	}
	for _, h := range p.held {
		if h != nil {
			occ++
		}
	}

	return Stats{
		AllocStreak:    p.allocStreak,
		EvictStreak:    p.evictStreak,
		LoadStreak:     p.loadStreak,
		EmptySlabs:     p.emptySlabs.len(),
		PartialSlabs:   p.partialSlabs.len(),
		FullSlabs:      p.fullSlabs.len(),
		CacheOccupancy: occ,
	}
}
