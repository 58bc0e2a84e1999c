package math

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAlignUp(t *testing.T) {
	assert.Equal(t, uint32(0), AlignUp(uint32(0), 8))
	assert.Equal(t, uint32(8), AlignUp(uint32(1), 8))
	assert.Equal(t, uint32(16), AlignUp(uint32(16), 8))
	assert.Equal(t, uint64(256), AlignUp(uint64(200), 256))
}
