package fireheap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeapPopOrdersByTime(t *testing.T) {
	h := New[string, float64]()
	h.Push("c", 3)
	h.Push("a", 1)
	h.Push("b", 2)

	var order []string
	for h.Len() > 0 {
		key, _, ok := h.Pop()
		require.True(t, ok)
		order = append(order, key)
	}
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestHeapPeekDoesNotRemove(t *testing.T) {
	h := New[string, float64]()
	h.Push("a", 1)
	h.Push("b", 2)

	key, time, ok := h.Peek()
	require.True(t, ok)
	assert.Equal(t, "a", key)
	assert.Equal(t, 1.0, time)
	assert.Equal(t, 2, h.Len())
}

func TestHeapUpdateReordersByHandle(t *testing.T) {
	h := New[string, float64]()
	ha := h.Push("a", 1)
	h.Push("b", 2)

	h.Update(ha, 5)
	key, _, ok := h.Peek()
	require.True(t, ok)
	assert.Equal(t, "b", key)
}

func TestHeapDeleteByHandle(t *testing.T) {
	h := New[string, float64]()
	ha := h.Push("a", 1)
	h.Push("b", 2)

	h.Delete(ha)
	assert.False(t, ha.Valid())
	assert.Equal(t, 1, h.Len())

	key, _, ok := h.Peek()
	require.True(t, ok)
	assert.Equal(t, "b", key)
}

func TestHeapEmptyPopAndPeek(t *testing.T) {
	h := New[string, float64]()
	_, _, ok := h.Peek()
	assert.False(t, ok)
	_, _, ok = h.Pop()
	assert.False(t, ok)
}

func TestHeapEachVisitsAllEntries(t *testing.T) {
	h := New[string, float64]()
	h.Push("a", 1)
	h.Push("b", 2)

	seen := make(map[string]float64)
	h.Each(func(key string, time float64) { seen[key] = time })
	assert.Equal(t, map[string]float64{"a": 1, "b": 2}, seen)
}

func TestHeapResetEmpties(t *testing.T) {
	h := New[string, float64]()
	h.Push("a", 1)
	h.Reset()
	assert.Equal(t, 0, h.Len())
}
