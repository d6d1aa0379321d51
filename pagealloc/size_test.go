package pagealloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSizePages(t *testing.T) {
	assert.Equal(t, uint64(1), Size(1).Pages())
	assert.Equal(t, uint64(1), Size(PageSize).Pages())
	assert.Equal(t, uint64(2), Size(PageSize+1).Pages())
	assert.Equal(t, uint64(0), Size(0).Pages())
}

func TestSizeBytes(t *testing.T) {
	assert.Equal(t, uint64(PageSize), Size(1).Bytes())
	assert.Equal(t, uint64(2*PageSize), Size(PageSize+1).Bytes())
}

func TestSizeUnits(t *testing.T) {
	assert.Equal(t, Size(1024), Kb)
	assert.Equal(t, Size(1024*1024), Mb)
	assert.Equal(t, Size(1024*1024*1024), Gb)
}
