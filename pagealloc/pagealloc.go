// Package pagealloc provides the page-aligned allocation primitive the
// slab layer is built on.
//
// Treats OS-level aligned-page allocation as an assumed-available
// primitive (aligned_alloc(align=PAGE, size) / aligned_free) and places it
// out of scope for the allocator's algorithm. This package supplies a
// concrete implementation so the module is runnable: an anonymous,
// private mmap always returns memory aligned to the system page size,
// which for PageSize == 4096 is exactly what the slab layer requires.
package pagealloc

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// PageSize is the alignment unit used both for slab backing storage and
// for owner recovery by pointer masking. It is fixed at
// 4096, matching the C++ original; pool.slabOf derives its mask from
// it, and pageShift below must be changed along with it.
const PageSize = 4096

// pageShift is log2(PageSize), used by Size.Pages to convert a byte
// count to a page count by shifting instead of dividing.
const pageShift = 12

// Alloc reserves one page-aligned region of n bytes rounded up to a
// multiple of PageSize, via an anonymous private mmap. It returns
// the region as a byte slice backed by that mapping; the slice's
// underlying array starts exactly at the mapping's base address, so
// unsafe.Pointer(&region[0]) is page-aligned.
//
// n must be <= PageSize for the slab layer's purposes (one slab, one
// page) but this function does not itself enforce that; callers needing
// multi-page regions may pass larger n.
func Alloc(n int) ([]byte, error) {
	if n <= 0 {
		return nil, fmt.Errorf("pagealloc: invalid size %d", n)
	}

	region, err := unix.Mmap(
		-1, 0, int(Size(n).Bytes()),
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANONYMOUS,
	)
	if err != nil {
		return nil, fmt.Errorf("pagealloc: mmap %d bytes: %w", n, err)
	}
	return region, nil
}

// Free releases a region previously returned by Alloc. Calling Free
// twice on the same region, or on a slice not returned by Alloc, is
// undefined behavior (mirrors the C++ original's aligned_free contract).
func Free(region []byte) error {
	if len(region) == 0 {
		return nil
	}
	if err := unix.Munmap(region); err != nil {
		return fmt.Errorf("pagealloc: munmap: %w", err)
	}
	return nil
}
