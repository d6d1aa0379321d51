package pool

import "math/bits"

// slabList is a null-terminated intrusive doubly-linked list of slabs,
// threaded through slabMeta.prev/next. A plain head/tail pair is a
// more idiomatic Go shape than a circular list for this intrusive
// technique, and lets pushFront/pushBack express the
// splice-at-head-vs-tail policy directly without relying on a
// self-referential head->prev trick to locate "the tail".
type slabList struct {
	head, tail *slabMeta
}

func (l *slabList) empty() bool { return l.head == nil }

// pushFront splices s onto the head of the list. Used for slabs that
// just became full-of-free ("full branches go to top of
// list... better cache properties") so the next reload takes the
// hottest full slab first.
func (l *slabList) pushFront(s *slabMeta) {
	s.prev = nil
	s.next = l.head
	if l.head != nil {
		l.head.prev = s
	} else {
		l.tail = s
	}
	l.head = s
}

// pushBack splices s onto the tail of the list. Used for slabs that
// just transitioned out of empty ("empty slabs go to
// bottom of slab list so that slabs evicted from the top are likely to
// be full") so that a slab's slots have more time to cool before the
// allocator reloads from it again.
func (l *slabList) pushBack(s *slabMeta) {
	s.next = nil
	s.prev = l.tail
	if l.tail != nil {
		l.tail.next = s
	} else {
		l.head = s
	}
	l.tail = s
}

// unlink removes s from the list. s must currently be a member.
func (l *slabList) unlink(s *slabMeta) {
	if s.prev != nil {
		s.prev.next = s.next
	} else {
		l.head = s.next
	}
	if s.next != nil {
		s.next.prev = s.prev
	} else {
		l.tail = s.prev
	}
	s.prev, s.next = nil, nil
}

// len walks the list to count its members. Only used by tests and
// Stats(); never on the alloc/free fast paths.
func (l *slabList) len() int {
	n := 0
	for s := l.head; s != nil; s = s.next {
		n++
	}
	return n
}

// popcount returns the number of set bits in a slab's occupancy mask,
// i.e. the number of free slots it is currently holding.
func popcount(mask uint64) int {
	return bits.OnesCount64(mask)
}
