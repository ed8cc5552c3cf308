package btree

import "github.com/freyjadb/freyjadb/pkg/btree/pool"

// Stats is a snapshot of a tree's structural and memory counters.
type Stats struct {
	KeyCount   int
	NodeCount  int
	Height     int
	Degree     int
	MaxKeys    int
	MinKeys    int
	Pool       pool.Stats
	KeySize    uintptr
	ValueSize  uintptr
	KeyAlign   uintptr
	ValueAlign uintptr
}

// Stats returns a snapshot of the tree's current shape and its pool's
// occupancy.
func (t *Tree[K, V]) Stats() Stats {
	if t.flags&ThreadSafe != 0 {
		t.mu.RLock()
		defer t.mu.RUnlock()
	}
	return Stats{
		KeyCount:   t.keyCount,
		NodeCount:  t.nodeCount,
		Height:     t.height,
		Degree:     t.degree,
		MaxKeys:    t.maxKeys,
		MinKeys:    t.minKeys,
		Pool:       t.pool.Stats(),
		KeySize:    t.capability.SizeOf(RoleKey),
		ValueSize:  t.capability.SizeOf(RoleValue),
		KeyAlign:   t.capability.AlignOf(RoleKey),
		ValueAlign: t.capability.AlignOf(RoleValue),
	}
}
