//go:build poolcheck

package pool

import "unsafe"

// liveSet tracks currently-outstanding allocations, plus the set of
// slabs this pool actually owns, so Free can tell a double-free (slot
// belongs to one of our slabs but isn't currently live) apart from a
// foreign-pointer free (slot's slab was never ours to begin with). It
// mirrors the C++ design's optional std::unordered_set<void*> alloced
// tracker, compiled in only under -tags poolcheck so release builds
// pay no cost for it.
type liveSet struct {
	m     map[unsafe.Pointer]struct{}
	slabs map[*slabMeta]struct{}
}

func newLiveSet() liveSet {
	return liveSet{
		m:     make(map[unsafe.Pointer]struct{}),
		slabs: make(map[*slabMeta]struct{}),
	}
}

func (p *Pool) debugRegisterSlab(m *slabMeta) {
	p.live.slabs[m] = struct{}{}
}

func (p *Pool) debugUnregisterSlab(m *slabMeta) {
	delete(p.live.slabs, m)
}

func (p *Pool) debugRecordAlloc(slot unsafe.Pointer) {
	if _, dup := p.live.m[slot]; dup {
		panic(ErrDoubleFree)
	}
	p.live.m[slot] = struct{}{}
}

func (p *Pool) debugRecordFree(slot unsafe.Pointer) {
	if _, known := p.live.slabs[p.slabOf(slot)]; !known {
		panic(ErrForeignPointer)
	}
	if _, live := p.live.m[slot]; !live {
		panic(ErrDoubleFree)
	}
	delete(p.live.m, slot)
}
