package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentifiersRecycleReleasedIds(t *testing.T) {
	ids := NewIdentifiers()

	a := ids.Acquire("a")
	b := ids.Acquire("b")
	c := ids.Acquire("c")
	assert.Equal(t, []uint32{1, 2, 3}, []uint32{a, b, c})
	assert.Equal(t, "b", ids.Owner(b))
	assert.Equal(t, 3, ids.Live())

	assert.NoError(t, ids.Release(b))
	assert.Nil(t, ids.Owner(b))
	assert.Equal(t, 2, ids.Live())
	assert.Equal(t, b, ids.Acquire("d"))

	assert.Error(t, ids.Release(0))
	assert.Error(t, ids.Release(42))
	assert.NoError(t, ids.Release(a))
	assert.Error(t, ids.Release(a))
	assert.Nil(t, ids.Owner(0))
}
