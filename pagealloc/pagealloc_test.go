package pagealloc

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestAllocIsPageAligned(t *testing.T) {
	region, err := Alloc(PageSize)
	require.NoError(t, err)
	defer Free(region)

	addr := uintptr(unsafe.Pointer(&region[0]))
	require.Zero(t, addr%PageSize, "expected mmap'd region to be page-aligned, got %#x", addr)
	require.GreaterOrEqual(t, len(region), PageSize)
}

func TestAllocRoundsUpToPageSize(t *testing.T) {
	region, err := Alloc(1)
	require.NoError(t, err)
	defer Free(region)

	require.Equal(t, PageSize, len(region))
}

func TestFreeOfEmptyRegionIsNoop(t *testing.T) {
	require.NoError(t, Free(nil))
}

func TestAllocRejectsNonPositiveSize(t *testing.T) {
	_, err := Alloc(0)
	require.Error(t, err)

	_, err = Alloc(-1)
	require.Error(t, err)
}
