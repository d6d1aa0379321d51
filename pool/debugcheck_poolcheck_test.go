//go:build poolcheck

package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFreeForeignPointerPanics(t *testing.T) {
	p := newTestPool(t)
	other := newTestPool(t)

	slot, err := other.Alloc()
	if err != nil {
		t.Fatal(err)
	}

	assert.PanicsWithValue(t, ErrForeignPointer, func() {
		p.Free(slot)
	})
}

func TestFreeDoubleFreePanics(t *testing.T) {
	p := newTestPool(t)

	slot, err := p.Alloc()
	if err != nil {
		t.Fatal(err)
	}
	p.Free(slot)

	assert.PanicsWithValue(t, ErrDoubleFree, func() {
		p.Free(slot)
	})
}
