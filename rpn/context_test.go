package rpn

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemory(t *testing.T) {
	assert := assert.New(t)

	var mem Memory
	_, ok := mem.Load()
	assert.False(ok)

	mem.Store(0)
	value, ok := mem.Load()
	assert.True(ok)
	assert.Equal(0.0, value)
}

func TestContext_Commit(t *testing.T) {
	assert := assert.New(t)

	ctx := NewContext()
	ctx.Memory.Store(3)
	ctx.Commit(1)
	ctx.Commit(2)

	assert.Equal([]float64{1, 2}, ctx.History.Results)
	assert.Equal(3.0, ctx.Memory.Value)
}

func TestHistory(t *testing.T) {
	assert := assert.New(t)

	var h History
	_, ok := h.Recent(1)
	assert.False(ok)

	h.Append(15)
	h.Append(6)
	h.Append(0)

	for n, expected := range map[int]float64{1: 0, 2: 6, 3: 15} {
		value, ok := h.Recent(n)
		assert.True(ok, n)
		assert.Equal(expected, value, n)
	}

	_, ok = h.Recent(0)
	assert.False(ok)
	_, ok = h.Recent(4)
	assert.False(ok)
}
