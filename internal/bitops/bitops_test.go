package bitops

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFirstSet(t *testing.T) {
	assert.Equal(t, 0, FirstSet(1))
	assert.Equal(t, 3, FirstSet(0b1000))
	assert.Equal(t, 0, FirstSet(0b1011))
	assert.Equal(t, 63, FirstSet(uint64(1)<<63))
}

func TestTakeFirst(t *testing.T) {
	w := uint64(0b1011)
	i := TakeFirst(&w)
	assert.Equal(t, 0, i)
	assert.Equal(t, uint64(0b1010), w)

	i = TakeFirst(&w)
	assert.Equal(t, 1, i)
	assert.Equal(t, uint64(0b1000), w)
}

func TestSetBit(t *testing.T) {
	assert.Equal(t, uint64(0b0101), SetBit(0b0001, 2))
	assert.Equal(t, uint64(1)<<63, SetBit(0, 63))
}

func TestTakeFirstThenSetBitRoundTrips(t *testing.T) {
	w := ^uint64(0)
	var taken []int
	for w != 0 {
		taken = append(taken, TakeFirst(&w))
	}
	assert.Equal(t, 64, len(taken))
	assert.Equal(t, uint64(0), w)

	for _, i := range taken {
		w = SetBit(w, i)
	}
	assert.Equal(t, ^uint64(0), w)
}
