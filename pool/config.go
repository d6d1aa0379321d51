package pool

import "go.uber.org/zap"

// slotsPerSlab is the number of slots a single slab
// holds, one per bit of the occupancy bitmap.
const slotsPerSlab = 64

// mruCapacity is the size of the MRU ring. This is left as an
// open choice between 64 and 256, noting that the C++ original's
// stack_head index is only 6 bits wide (a 64-entry logical window)
// despite indexing a 256-entry buffer. This implementation picks 64 and
// sizes held accordingly.
const mruCapacity = 64

// Config parameterizes a Pool by object size and alignment, and
// optionally a logger for off-hot-path diagnostics.
type Config struct {
	// Size is the size in bytes of every object this pool allocates.
	Size int

	// Align is the required alignment in bytes. Must be a power of two.
	Align int

	// Logger receives diagnostics for slab creation, ClearCache, Clean,
	// and allocation failure. It is never consulted on the Alloc/Free
	// fast paths. A nil Logger disables diagnostics (zap.NewNop()).
	Logger *zap.Logger
}

func (c Config) validate() (stride uintptr, metaOffset uintptr, err error) {
	if c.Size <= 0 {
		return 0, 0, ErrInvalidSize
	}
	if c.Align <= 0 || c.Align&(c.Align-1) != 0 {
		return 0, 0, ErrInvalidAlign
	}

	stride = roundUp(uintptr(c.Size), uintptr(c.Align))
	metaSize := slabMetaSize()
	metaOffset = pageSize - metaSize

	if uintptr(slotsPerSlab)*stride+metaSize > pageSize {
		return 0, 0, ErrObjectTooLarge
	}
	return stride, metaOffset, nil
}

func roundUp(v, mult uintptr) uintptr {
	return (v + mult - 1) &^ (mult - 1)
}
