package prefixsum

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFenwickTreeFindLandsInCorrectBucket(t *testing.T) {
	f := NewFenwickTree[string](4)
	f.Insert("a", 1)
	f.Insert("b", 2)
	f.Insert("c", 3)

	key, ok := f.Find(0.5)
	require.True(t, ok)
	assert.Equal(t, "a", key)

	key, ok = f.Find(1.5)
	require.True(t, ok)
	assert.Equal(t, "b", key)

	key, ok = f.Find(6)
	require.True(t, ok)
	assert.Equal(t, "c", key)
}

func TestFenwickTreeUpdateChangesWeight(t *testing.T) {
	f := NewFenwickTree[string](4)
	f.Insert("a", 1)
	f.Insert("b", 1)
	f.Update("a", 100)

	assert.Equal(t, 100.0, f.Weight("a"))
	key, ok := f.Find(50)
	require.True(t, ok)
	assert.Equal(t, "a", key)
}

func TestFenwickTreeRemoveFreesPositionForReuse(t *testing.T) {
	f := NewFenwickTree[string](2)
	f.Insert("a", 1)
	f.Insert("b", 2)
	f.Remove("a")
	assert.False(t, f.Contains("a"))
	assert.Equal(t, 1, f.Len())

	f.Insert("c", 5)
	assert.Equal(t, 2, f.Len())
	assert.Equal(t, 7.0, f.Total())
}

func TestFenwickTreeGrowsBeyondInitialCapacity(t *testing.T) {
	f := NewFenwickTree[int](1)
	for i := 0; i < 50; i++ {
		f.Insert(i, 1)
	}
	assert.Equal(t, 50, f.Len())
	assert.Equal(t, 50.0, f.Total())
	key, ok := f.Find(25.5)
	assert.True(t, ok)
	assert.GreaterOrEqual(t, key, 0)
}

func TestFenwickTreeEmptyFind(t *testing.T) {
	f := NewFenwickTree[string](4)
	_, ok := f.Find(1)
	assert.False(t, ok)
}
