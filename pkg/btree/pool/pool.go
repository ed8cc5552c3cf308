// Package pool implements a fixed-capacity slab allocator for tree nodes.
//
// Blocks are reserved once, up front, as a single contiguous slice; Alloc
// and Free hand indices into that slice back and forth over an intrusive
// free list so steady-state insert/delete churn does not touch the Go
// allocator or GC at all.
package pool

import "sync"

// Flags controls allocation and bookkeeping behavior of a Pool.
type Flags uint8

const (
	// ZeroMemory clears a block's previous contents on every Alloc.
	ZeroMemory Flags = 1 << iota
	// ThreadSafe guards Alloc/Free/Reset/Stats with a mutex. Off by
	// default since trees are single-writer per spec.
	ThreadSafe
	// TrackStats maintains the running Stats counters. Cheap, but off
	// unless this flag is passed, so callers that don't care can skip the
	// bookkeeping.
	TrackStats
)

// Stats reports slab occupancy and allocation traffic.
type Stats struct {
	UsedBlocks int
	FreeBlocks int
	PeakUsed   int
	AllocCount uint64
	FreeCount  uint64
}

// Pool is a fixed-capacity arena of T. Zero value is not usable; construct
// with New.
type Pool[T any] struct {
	blocks    []T
	free      []int32
	allocated []bool
	flags     Flags
	mu        sync.Mutex
	stats     Stats
	failNext  bool
}

// New reserves capacity blocks up front. A capacity below 1 is raised
// to 1.
func New[T any](capacity int, flags Flags) *Pool[T] {
	if capacity <= 0 {
		capacity = 1
	}
	p := &Pool[T]{
		blocks:    make([]T, capacity),
		free:      make([]int32, capacity),
		allocated: make([]bool, capacity),
		flags:     flags,
	}
	for i := range p.free {
		p.free[i] = int32(i)
	}
	if flags&TrackStats != 0 {
		p.stats.FreeBlocks = capacity
	}
	return p
}

func (p *Pool[T]) lock() {
	if p.flags&ThreadSafe != 0 {
		p.mu.Lock()
	}
}

func (p *Pool[T]) unlock() {
	if p.flags&ThreadSafe != 0 {
		p.mu.Unlock()
	}
}

// Alloc reserves one block and returns its index, a pointer into the
// arena, and whether the allocation succeeded. A false return means the
// pool is exhausted (or a forced failure from FailNextAlloc is pending).
func (p *Pool[T]) Alloc() (int32, *T, bool) {
	p.lock()
	defer p.unlock()

	if p.failNext {
		p.failNext = false
		return -1, nil, false
	}
	if len(p.free) == 0 {
		return -1, nil, false
	}

	idx := p.free[len(p.free)-1]
	p.free = p.free[:len(p.free)-1]
	p.allocated[idx] = true

	if p.flags&ZeroMemory != 0 {
		var zero T
		p.blocks[idx] = zero
	}
	if p.flags&TrackStats != 0 {
		p.stats.AllocCount++
		p.stats.UsedBlocks++
		p.stats.FreeBlocks--
		if p.stats.UsedBlocks > p.stats.PeakUsed {
			p.stats.PeakUsed = p.stats.UsedBlocks
		}
	}
	return idx, &p.blocks[idx], true
}

// Free releases idx back to the pool. Indices outside the arena, or not
// currently allocated, are silently ignored.
func (p *Pool[T]) Free(idx int32) {
	p.lock()
	defer p.unlock()

	if idx < 0 || int(idx) >= len(p.blocks) || !p.allocated[idx] {
		return
	}
	p.allocated[idx] = false
	p.free = append(p.free, idx)
	if p.flags&TrackStats != 0 {
		p.stats.FreeCount++
		p.stats.UsedBlocks--
		p.stats.FreeBlocks++
	}
}

// Contains reports whether idx lies within the pool's reserved region.
func (p *Pool[T]) Contains(idx int32) bool {
	return idx >= 0 && int(idx) < len(p.blocks)
}

// Get returns a pointer to block idx, or nil if idx is out of range.
func (p *Pool[T]) Get(idx int32) *T {
	if !p.Contains(idx) {
		return nil
	}
	return &p.blocks[idx]
}

// Reset returns every block to the free list in one pass, regardless of
// current allocation state.
func (p *Pool[T]) Reset() {
	p.lock()
	defer p.unlock()

	p.free = p.free[:0]
	for i := range p.blocks {
		p.allocated[i] = false
		p.free = append(p.free, int32(i))
	}
	if p.flags&TrackStats != 0 {
		p.stats.UsedBlocks = 0
		p.stats.FreeBlocks = len(p.blocks)
	}
}

// Stats returns a snapshot of the pool's occupancy counters.
func (p *Pool[T]) Stats() Stats {
	p.lock()
	defer p.unlock()
	return p.stats
}

// Capacity returns the fixed number of blocks the pool was created with.
func (p *Pool[T]) Capacity() int {
	return len(p.blocks)
}

// FailNextAlloc forces the next Alloc call to report exhaustion, without
// actually touching the free list. Used by tests to exercise allocation
// failure paths deterministically.
func (p *Pool[T]) FailNextAlloc() {
	p.lock()
	defer p.unlock()
	p.failNext = true
}
