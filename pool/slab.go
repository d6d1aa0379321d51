package pool

import (
	"unsafe"

	"github.com/schets/compacting-object-pool/internal/bitops"
	"github.com/schets/compacting-object-pool/pagealloc"
)

// pageSize is the slab layer's alignment unit; it mirrors
// pagealloc.PageSize and is what slabOf masks against. Kept as its own
// constant, rather than referencing pagealloc.PageSize everywhere, to
// keep the OS primitive and the arithmetic built on top of it in
// separate packages.
const pageSize = uintptr(pagealloc.PageSize)

// slabMeta is the trailing metadata record of a slab: the occupancy
// bitmap (bit i set iff slot i is free) and the intrusive list
// linkage. It always lives at the tail end of the slab's page, so that
// a slab's address space is entirely self-describing: members first,
// metadata last.
type slabMeta struct {
	openMask   uint64
	prev, next *slabMeta
}

func slabMetaSize() uintptr {
	return unsafe.Sizeof(slabMeta{})
}

// baseOf returns the page-aligned start address of the slab m belongs
// to, computed from m's own address and the pool's metaOffset.
func (p *Pool) baseOf(m *slabMeta) unsafe.Pointer {
	return unsafe.Pointer(uintptr(unsafe.Pointer(m)) - p.metaOffset)
}

// metaOf returns the metadata record for the slab whose page starts at
// base.
func (p *Pool) metaOf(base unsafe.Pointer) *slabMeta {
	return (*slabMeta)(unsafe.Pointer(uintptr(base) + p.metaOffset))
}

// slotAt returns a pointer to slot i within the slab whose page starts
// at base.
func (p *Pool) slotAt(base unsafe.Pointer, i int) unsafe.Pointer {
	return unsafe.Pointer(uintptr(base) + uintptr(i)*p.stride)
}

// slabOf recovers the owning slab's metadata from any slot pointer it
// handed out, by masking the low PAGE-1 bits.
// This is the core design primitive the whole allocator relies on: it
// requires every slab to originate from a page-aligned allocation.
func (p *Pool) slabOf(slot unsafe.Pointer) *slabMeta {
	base := uintptr(slot) &^ (pageSize - 1)
	return p.metaOf(unsafe.Pointer(base))
}

// slotIndex returns the slot index of slot within the slab whose page
// starts at base.
func (p *Pool) slotIndex(base, slot unsafe.Pointer) int {
	return int((uintptr(slot) - uintptr(base)) / p.stride)
}

// takeFromSlab requires m.openMask != 0.
func (p *Pool) takeFromSlab(m *slabMeta) unsafe.Pointer {
	i := bitops.TakeFirst(&m.openMask)
	return p.slotAt(p.baseOf(m), i)
}

// returnToSlab requires slot to belong to the slab owning m. This is a
// command (no return value) even though one .hpp variant's C++
// analogue declared (and never returned from) a non-void signature.
func (p *Pool) returnToSlab(m *slabMeta, base, slot unsafe.Pointer) {
	i := p.slotIndex(base, slot)
	m.openMask = bitops.SetBit(m.openMask, i)
}

// newSlab allocates a fresh page-aligned region, reserves slot 0 for
// the immediate caller (see pool.go's createSlab for why bit 0
// starts cleared), and returns the slab's metadata record plus the
// reserved slot. On OS allocation failure it returns a nil meta.
func (p *Pool) newSlab() (*slabMeta, unsafe.Pointer, error) {
	region, err := pagealloc.Alloc(int(pageSize))
	if err != nil {
		return nil, nil, err
	}

	base := unsafe.Pointer(&region[0])
	m := p.metaOf(base)
	*m = slabMeta{openMask: ^uint64(0) ^ 1}
	p.debugRegisterSlab(m)
	return m, p.slotAt(base, 0), nil
}

// freeSlab releases a slab's backing page back to the OS, whatever its
// occupancy. Clean calls it only for full-of-free slabs; Close calls it
// for every slab on all three lists.
func (p *Pool) freeSlab(m *slabMeta) error {
	p.debugUnregisterSlab(m)
	base := p.baseOf(m)
	region := unsafe.Slice((*byte)(base), int(pageSize))
	return pagealloc.Free(region)
}
