//go:build !poolcheck

package pool

import "unsafe"

// liveSet is a zero-size stand-in for the poolcheck build's live
// allocation tracker. Contract violations (double-free, foreign-pointer
// free) are undefined behavior in release builds.
type liveSet struct{}

func newLiveSet() liveSet { return liveSet{} }

func (p *Pool) debugRegisterSlab(m *slabMeta) {}

func (p *Pool) debugUnregisterSlab(m *slabMeta) {}

func (p *Pool) debugRecordAlloc(slot unsafe.Pointer) {}

func (p *Pool) debugRecordFree(slot unsafe.Pointer) {}
