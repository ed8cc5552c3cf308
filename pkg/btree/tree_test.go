package btree

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intCapability() Capability[int, string] {
	return Capability[int, string]{
		Compare: func(a, b int) int { return a - b },
	}
}

func newIntTree(t *testing.T, degree int) *Tree[int, string] {
	t.Helper()
	pool := NewNodePool[int, string](4096, 0)
	tree, err := New(degree, intCapability(), pool, 0)
	require.NoError(t, err)
	return tree
}

func TestNewRejectsDegreeOutOfRange(t *testing.T) {
	pool := NewNodePool[int, string](16, 0)
	_, err := New(2, intCapability(), pool, 0)
	assert.ErrorIs(t, err, ErrInvalidDegree)

	_, err = New(1025, intCapability(), pool, 0)
	assert.ErrorIs(t, err, ErrInvalidDegree)

	_, err = New(3, intCapability(), pool, 0)
	assert.NoError(t, err)
}

func TestNewRejectsMissingCompare(t *testing.T) {
	pool := NewNodePool[int, string](16, 0)
	_, err := New(3, Capability[int, string]{}, pool, 0)
	assert.ErrorIs(t, err, ErrNullPointer)
}

func TestEmptyTree(t *testing.T) {
	tree := newIntTree(t, 3)
	assert.True(t, tree.IsEmpty())
	assert.Equal(t, 0, tree.Len())
	assert.Equal(t, 0, tree.Height())

	_, ok := tree.Search(1)
	assert.False(t, ok)
	assert.False(t, tree.Contains(1))
}

func TestInsertAndSearch(t *testing.T) {
	tree := newIntTree(t, 3)
	require.NoError(t, tree.Insert(10, "ten"))
	require.NoError(t, tree.Insert(20, "twenty"))
	require.NoError(t, tree.Insert(5, "five"))

	v, ok := tree.Search(10)
	assert.True(t, ok)
	assert.Equal(t, "ten", v)

	v, ok = tree.Search(5)
	assert.True(t, ok)
	assert.Equal(t, "five", v)

	_, ok = tree.Search(99)
	assert.False(t, ok)

	assert.Equal(t, 3, tree.Len())
	assert.Equal(t, 1, tree.Height())
}

func TestInsertDuplicateRejectedByDefault(t *testing.T) {
	tree := newIntTree(t, 3)
	require.NoError(t, tree.Insert(1, "a"))
	err := tree.Insert(1, "b")
	assert.ErrorIs(t, err, ErrDuplicateKey)
	assert.Equal(t, 1, tree.Len())

	v, _ := tree.Search(1)
	assert.Equal(t, "a", v)
}

func TestInsertDuplicateAllowed(t *testing.T) {
	pool := NewNodePool[int, string](4096, 0)
	tree, err := New(3, intCapability(), pool, AllowDuplicates)
	require.NoError(t, err)

	require.NoError(t, tree.Insert(1, "first"))
	require.NoError(t, tree.Insert(1, "second"))
	require.NoError(t, tree.Insert(1, "third"))
	assert.Equal(t, 3, tree.Len())

	// Ascending iteration over an equal-key run preserves insertion
	// order (ties break left on descent, new entries append right).
	it := tree.Iter()
	var vals []string
	for it.Next() {
		vals = append(vals, it.Value())
	}
	require.NoError(t, it.Err())
	assert.Equal(t, []string{"first", "second", "third"}, vals)
}

func TestHeightGrowsWithSplits(t *testing.T) {
	tree := newIntTree(t, 3)
	// degree 3 -> maxKeys = 5; the 6th insert forces the root to split.
	for i := 0; i < 5; i++ {
		require.NoError(t, tree.Insert(i, "v"))
	}
	assert.Equal(t, 1, tree.Height())

	require.NoError(t, tree.Insert(5, "v"))
	assert.Equal(t, 2, tree.Height())
}

func TestInsertLargeAscendingSequence(t *testing.T) {
	tree := newIntTree(t, 4)
	const n = 2000
	for i := 0; i < n; i++ {
		require.NoError(t, tree.Insert(i, "v"))
	}
	assert.Equal(t, n, tree.Len())
	for i := 0; i < n; i++ {
		v, ok := tree.Search(i)
		require.True(t, ok)
		assert.Equal(t, "v", v)
	}
	assertOrdered(t, tree)
}

func TestInsertRandomSequence(t *testing.T) {
	tree := newIntTree(t, 5)
	r := rand.New(rand.NewSource(42))
	keys := r.Perm(1500)
	for _, k := range keys {
		require.NoError(t, tree.Insert(k, "v"))
	}
	assert.Equal(t, len(keys), tree.Len())
	assertOrdered(t, tree)
}

func TestDeleteMissingKey(t *testing.T) {
	tree := newIntTree(t, 3)
	err := tree.Delete(1)
	assert.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, tree.Insert(1, "a"))
	err = tree.Delete(2)
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestDeleteCollapsesToEmpty(t *testing.T) {
	tree := newIntTree(t, 3)
	require.NoError(t, tree.Insert(1, "a"))
	require.NoError(t, tree.Delete(1))
	assert.True(t, tree.IsEmpty())
	assert.Equal(t, 0, tree.Height())
	assert.Equal(t, 0, tree.Len())
}

func TestDeleteShrinksHeight(t *testing.T) {
	tree := newIntTree(t, 3)
	for i := 0; i < 6; i++ {
		require.NoError(t, tree.Insert(i, "v"))
	}
	require.Equal(t, 2, tree.Height())

	for i := 5; i >= 1; i-- {
		require.NoError(t, tree.Delete(i))
	}
	assert.Equal(t, 1, tree.Height())
	assert.Equal(t, 1, tree.Len())
}

func TestDeleteAllAscending(t *testing.T) {
	tree := newIntTree(t, 4)
	const n = 1000
	for i := 0; i < n; i++ {
		require.NoError(t, tree.Insert(i, "v"))
	}
	for i := 0; i < n; i++ {
		require.NoError(t, tree.Delete(i))
		assertOrdered(t, tree)
	}
	assert.True(t, tree.IsEmpty())
}

func TestDeleteRandomOrder(t *testing.T) {
	tree := newIntTree(t, 3)
	r := rand.New(rand.NewSource(7))
	keys := r.Perm(800)
	for _, k := range keys {
		require.NoError(t, tree.Insert(k, "v"))
	}

	deleteOrder := r.Perm(800)
	for _, k := range deleteOrder {
		require.NoError(t, tree.Delete(k))
	}
	assert.True(t, tree.IsEmpty())
	assert.Equal(t, 0, tree.NodeCount())
}

func TestRangeSearchInclusive(t *testing.T) {
	tree := newIntTree(t, 4)
	for i := 0; i < 100; i++ {
		require.NoError(t, tree.Insert(i, "v"))
	}

	pairs, err := tree.RangeSearch(10, 20, 0)
	require.NoError(t, err)
	assert.Len(t, pairs, 11)
	assert.Equal(t, 10, pairs[0].Key)
	assert.Equal(t, 20, pairs[len(pairs)-1].Key)
}

func TestRangeSearchMaxN(t *testing.T) {
	tree := newIntTree(t, 4)
	for i := 0; i < 100; i++ {
		require.NoError(t, tree.Insert(i, "v"))
	}

	pairs, err := tree.RangeSearch(0, 99, 5)
	require.NoError(t, err)
	assert.Len(t, pairs, 5)
}

func TestRangeIterExclusiveBounds(t *testing.T) {
	tree := newIntTree(t, 3)
	for i := 0; i < 20; i++ {
		require.NoError(t, tree.Insert(i, "v"))
	}

	it := tree.RangeIter(5, 10, false, false, false)
	var keys []int
	for it.Next() {
		keys = append(keys, it.Key())
	}
	require.NoError(t, it.Err())
	assert.Equal(t, []int{6, 7, 8, 9}, keys)
}

func TestReverseIter(t *testing.T) {
	tree := newIntTree(t, 3)
	for i := 0; i < 10; i++ {
		require.NoError(t, tree.Insert(i, "v"))
	}

	it := tree.ReverseIter()
	var keys []int
	for it.Next() {
		keys = append(keys, it.Key())
	}
	require.NoError(t, it.Err())
	assert.Equal(t, []int{9, 8, 7, 6, 5, 4, 3, 2, 1, 0}, keys)
}

func TestIteratorInvalidatedByMutation(t *testing.T) {
	tree := newIntTree(t, 3)
	for i := 0; i < 10; i++ {
		require.NoError(t, tree.Insert(i, "v"))
	}

	it := tree.Iter()
	assert.True(t, it.Next())

	require.NoError(t, tree.Insert(100, "late"))

	assert.False(t, it.Next())
	assert.ErrorIs(t, it.Err(), ErrInvalidOperation)
}

func TestBulkInsertRequiresSortedInput(t *testing.T) {
	tree := newIntTree(t, 3)
	err := tree.BulkInsert([]Pair[int, string]{
		{Key: 2, Value: "b"},
		{Key: 1, Value: "a"},
	})
	assert.ErrorIs(t, err, ErrInvalidOperation)
	assert.Equal(t, 0, tree.Len())
}

func TestBulkInsertSortedInput(t *testing.T) {
	tree := newIntTree(t, 4)
	pairs := make([]Pair[int, string], 0, 500)
	for i := 0; i < 500; i++ {
		pairs = append(pairs, Pair[int, string]{Key: i, Value: "v"})
	}
	require.NoError(t, tree.BulkInsert(pairs))
	assert.Equal(t, 500, tree.Len())
	assertOrdered(t, tree)
}

func TestClearRunsDestructorsAndFreesNodes(t *testing.T) {
	pool := NewNodePool[int, string](4096, 0)
	var destroyed []int
	cap := intCapability()
	cap.DestroyKey = func(k int) { destroyed = append(destroyed, k) }
	tree, err := New(3, cap, pool, 0)
	require.NoError(t, err)

	for i := 0; i < 50; i++ {
		require.NoError(t, tree.Insert(i, "v"))
	}
	tree.Clear()

	assert.True(t, tree.IsEmpty())
	assert.Equal(t, 0, tree.NodeCount())
	assert.Len(t, destroyed, 50)
}

func TestAllocationFailureLeavesTreeUnchanged(t *testing.T) {
	// degree 3 -> maxKeys = 5; filling the root to capacity costs no
	// extra allocations (they just append into the existing leaf), so a
	// pool of 1 block is enough until the 6th insert forces a split.
	pool := NewNodePool[int, string](1, 0)
	tree, err := New(3, intCapability(), pool, 0)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		require.NoError(t, tree.Insert(i, "v"))
	}
	assert.Equal(t, 1, tree.NodeCount())

	pool.FailNextAlloc()
	err = tree.Insert(5, "overflow")
	assert.ErrorIs(t, err, ErrMemoryAllocation)
	assert.Equal(t, 5, tree.Len())
	assert.ErrorIs(t, tree.LastError(), ErrMemoryAllocation)
}

func TestStatsReflectShape(t *testing.T) {
	tree := newIntTree(t, 3)
	for i := 0; i < 30; i++ {
		require.NoError(t, tree.Insert(i, "v"))
	}
	stats := tree.Stats()
	assert.Equal(t, 30, stats.KeyCount)
	assert.Equal(t, tree.Height(), stats.Height)
	assert.Equal(t, 3, stats.Degree)
	assert.Equal(t, tree.NodeCount(), stats.NodeCount)
	assert.True(t, stats.Pool.UsedBlocks > 0)
}

// assertOrdered walks the tree forward and confirms strictly ascending
// keys, matching the count reported by Len.
func assertOrdered(t *testing.T, tree *Tree[int, string]) {
	t.Helper()
	it := tree.Iter()
	count := 0
	prev := -1
	first := true
	for it.Next() {
		k := it.Key()
		if !first {
			assert.Greater(t, k, prev)
		}
		prev = k
		first = false
		count++
	}
	require.NoError(t, it.Err())
	assert.Equal(t, tree.Len(), count)
}
