// Package pool implements a compacting, fixed-size object pool
// allocator: a bounded most-recently-used victim cache backed by
// page-aligned, bitmap-tracked slabs.
//
// A Pool is a value created by New and used by exactly one goroutine;
// there is no internal locking,
// and concurrent use requires external synchronization.
package pool

import (
	"fmt"
	"unsafe"

	"github.com/schets/compacting-object-pool/internal/bitops"
	"go.uber.org/zap"
)

const idxMask = uint8(mruCapacity - 1)

// Pool allocates and frees fixed-size, fixed-alignment objects.
//
// The zero value is not usable; construct with New.
type Pool struct {
	cfg        Config
	stride     uintptr
	metaOffset uintptr

	// MRU cache: current is the next pop target, held is the ring
	// buffer of everything else recently freed, stackHead is the ring
	// cursor. MRU cache state.
	current   unsafe.Pointer
	held      [mruCapacity]unsafe.Pointer
	stackHead uint8

	emptySlabs   slabList
	partialSlabs slabList
	fullSlabs    slabList

	// Streak counters: advisory telemetry only. Exposed
	// read-only via Stats and poolmetrics.
	allocStreak uint32
	evictStreak uint32
	loadStreak  uint32

	logger *zap.Logger
	live   liveSet
}

// New constructs a Pool for objects of cfg.Size bytes aligned to
// cfg.Align bytes. It returns ErrInvalidSize, ErrInvalidAlign, or
// ErrObjectTooLarge if the configuration can't be satisfied by a
// single 4096-byte slab holding 64 objects.
func New(cfg Config) (*Pool, error) {
	stride, metaOffset, err := cfg.validate()
	if err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Pool{
		cfg:        cfg,
		stride:     stride,
		metaOffset: metaOffset,
		logger:     logger,
		live:       newLiveSet(),
	}, nil
}

// Alloc returns a pointer to a fresh, zeroed-or-not (contents are
// whatever was last in the slot) object of Config.Size bytes aligned to
// Config.Align. It returns an error wrapping ErrOutOfMemory only when a
// fresh slab is needed and the OS page allocator fails; the error wraps
// the underlying pagealloc cause as well, so errors.Is and errors.As
// reach both (errors.Unwrap, which follows a single cause, returns nil).
func (p *Pool) Alloc() (unsafe.Pointer, error) {
	return p.allocImpl(true)
}

// TryAlloc is identical to Alloc except it never asks the OS for a new
// slab: it returns nil once the MRU cache and every existing slab are
// exhausted.
func (p *Pool) TryAlloc() unsafe.Pointer {
	slot, _ := p.allocImpl(false)
	return slot
}

func (p *Pool) allocImpl(osFallback bool) (unsafe.Pointer, error) {
	r := p.current
	p.allocStreak++

	if r != nil {
		idx := p.stackHead & idxMask
		p.current = p.held[idx]
		p.held[idx] = nil
		p.stackHead = (p.stackHead - 1) & idxMask
		p.debugRecordAlloc(r)
		return r, nil
	}

	if slot := p.getFromSlabList(); slot != nil {
		p.debugRecordAlloc(slot)
		return slot, nil
	}

	if !osFallback {
		return nil, nil
	}

	slot, err := p.createSlab()
	if err != nil {
		p.logger.Warn("pool: out of memory allocating a new slab",
			zap.Int("size", p.cfg.Size),
			zap.Int("align", p.cfg.Align),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %w", ErrOutOfMemory, err)
	}
	p.debugRecordAlloc(slot)
	return slot, nil
}

// Free returns a previously allocated slot to the pool. Freeing a
// pointer twice, or a pointer this pool never allocated, is undefined
// behavior in release builds; build with -tags poolcheck to turn it
// into a panic (see debugcheck_poolcheck.go).
func (p *Pool) Free(toRet unsafe.Pointer) {
	p.debugRecordFree(toRet)

	w := p.current
	p.current = toRet
	if w != nil {
		p.stackHead = (p.stackHead + 1) & idxMask
		old := p.held[p.stackHead]
		p.held[p.stackHead] = w
		if old != nil {
			p.evictItem(old)
		}
	}
}

// getFromSlabList picks a donor slab (partial preferred over full),
// takes one slot from it, bulk-loads the remainder into the MRU cache,
// and moves the now-drained donor onto emptySlabs.
func (p *Pool) getFromSlabList() unsafe.Pointer {
	list := &p.partialSlabs
	if list.empty() {
		list = &p.fullSlabs
		if list.empty() {
			return nil
		}
	}

	donor := list.head
	rval := p.takeFromSlab(donor)
	if donor.openMask != 0 {
		p.loadAll(donor)
	}

	list.unlink(donor)
	p.emptySlabs.pushFront(donor)
	return rval
}

// createSlab allocates a fresh page-aligned slab, reserves slot 0 for
// the immediate caller (handed back directly rather than pushed into
// the MRU cache only to be popped again at once), drains the remaining 63 slots into
// the MRU cache, and links the slab onto emptySlabs (it now has zero
// free slots).
func (p *Pool) createSlab() (unsafe.Pointer, error) {
	m, slot0, err := p.newSlab()
	if err != nil {
		return nil, err
	}

	p.emptySlabs.pushFront(m)
	p.loadAll(m)

	p.logger.Debug("pool: created slab",
		zap.Int("size", p.cfg.Size),
		zap.Int("align", p.cfg.Align),
	)
	return slot0, nil
}

// loadAll drains every free slot of m into the MRU cache in one
// dependency-free pass. Requires m.openMask != 0.
func (p *Pool) loadAll(m *slabMeta) {
	available := m.openMask
	m.openMask = 0
	base := p.baseOf(m)
	p.loadStreak++

	for {
		i := bitops.TakeFirst(&available)
		slot := p.slotAt(base, i)
		touch(slot)

		if available != 0 {
			p.stackHead = (p.stackHead + 1) & idxMask
			p.held[p.stackHead] = slot
		} else {
			p.current = slot
			break
		}
	}
}

// evictItem returns a displaced MRU entry to its owning slab and, if
// the slab's occupancy just crossed an empty/full boundary, moves it
// between lists.
func (p *Pool) evictItem(slot unsafe.Pointer) {
	p.evictStreak++

	m := p.slabOf(slot)
	base := p.baseOf(m)
	wasEmpty := m.openMask == 0

	p.returnToSlab(m, base, slot)
	nowFull := m.openMask == ^uint64(0)

	switch {
	case wasEmpty:
		p.emptySlabs.unlink(m)
		p.partialSlabs.pushBack(m)
	case nowFull:
		p.partialSlabs.unlink(m)
		p.fullSlabs.pushFront(m)
	}
}

// ClearCache drains the MRU cache into its slabs: idempotent, O(cache
// size). Used before Clean so slab bitmaps reflect reality.
func (p *Pool) ClearCache() {
	if p.current != nil {
		p.evictItem(p.current)
	}

	head := p.stackHead
	for p.held[head] != nil {
		p.evictItem(p.held[head])
		p.held[head] = nil
		head = (head - 1) & idxMask
	}

	p.stackHead = 0
	p.current = nil
	p.logger.Debug("pool: cache cleared")
}

// Clean releases every slab on the full list (every slot free) back to
// the OS. It does not touch the empty or partial lists.
func (p *Pool) Clean() error {
	released := 0
	for p.fullSlabs.head != nil {
		m := p.fullSlabs.head
		p.fullSlabs.unlink(m)
		if err := p.freeSlab(m); err != nil {
			return err
		}
		released++
	}
	if released > 0 {
		p.logger.Debug("pool: released full slabs", zap.Int("count", released))
	}
	return nil
}

// Close behaves like a destructor: ClearCache
// followed by releasing every slab on all three lists unconditionally.
// Outstanding allocations at Close time are a leak by contract, not a
// double-free risk — the pool never walks slot contents.
func (p *Pool) Close() error {
	p.ClearCache()

	var firstErr error
	for _, list := range [...]*slabList{&p.emptySlabs, &p.partialSlabs, &p.fullSlabs} {
		for list.head != nil {
			m := list.head
			list.unlink(m)
			if err := p.freeSlab(m); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// touch issues a single-word read of slot, discarded, to prefetch its
// cache line during loadAll. This has no semantic
// effect under the Go memory model and may be elided; it is kept here
// because eliding it would require the compiler to prove the read is
// unobservable, which it cannot do through an unsafe.Pointer.
func touch(slot unsafe.Pointer) {
	_ = *(*byte)(slot)
}
