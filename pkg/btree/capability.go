package btree

import "unsafe"

// Role distinguishes the key half of a pair from the value half, for the
// size/alignment introspection hooks below.
type Role int

const (
	RoleKey Role = iota
	RoleValue
)

// Capability bundles the type-specific behavior a Tree needs but Go's type
// system can't derive on its own: ordering, and optional copy/destroy
// hooks for types that need more than a plain assignment when they're
// placed into or evicted from a node slot.
//
// Compare is required. Every other field is optional; a nil hook falls
// back to straight Go assignment (copy) or a no-op (destroy).
type Capability[K, V any] struct {
	// Compare returns <0, 0, >0 as a < b, a == b, a > b.
	Compare func(a, b K) int

	// CopyKey/CopyValue place src into *dst. Override this when K or V
	// needs a defensive copy (e.g. a key backed by a slice the caller
	// might mutate after Insert returns).
	CopyKey   func(dst *K, src K)
	CopyValue func(dst *V, src V)

	// DestroyKey/DestroyValue run when a key or value is evicted from the
	// tree for good (removed by Delete, or overwritten by Clear) — never
	// when a payload is merely relocated within the tree by a split,
	// merge, or rotation.
	DestroyKey   func(k K)
	DestroyValue func(v V)
}

// SizeOf reports unsafe.Sizeof for K or V. Diagnostic only: Go's slices
// already guarantee safe, correctly-aligned storage for generic elements,
// so this never feeds back into actual memory placement.
func (c Capability[K, V]) SizeOf(role Role) uintptr {
	var k K
	var v V
	if role == RoleKey {
		return unsafe.Sizeof(k)
	}
	return unsafe.Sizeof(v)
}

// AlignOf reports unsafe.Alignof for K or V. Diagnostic only, see SizeOf.
func (c Capability[K, V]) AlignOf(role Role) uintptr {
	var k K
	var v V
	if role == RoleKey {
		return unsafe.Alignof(k)
	}
	return unsafe.Alignof(v)
}

// capabilityOps adapts a Capability with its optional hooks defaulted, so
// node-level code never has to nil-check.
type capabilityOps[K, V any] struct {
	cp Capability[K, V]
}

func (c capabilityOps[K, V]) copyKey(dst *K, src K) {
	if c.cp.CopyKey != nil {
		c.cp.CopyKey(dst, src)
		return
	}
	*dst = src
}

func (c capabilityOps[K, V]) copyValue(dst *V, src V) {
	if c.cp.CopyValue != nil {
		c.cp.CopyValue(dst, src)
		return
	}
	*dst = src
}

func (c capabilityOps[K, V]) destroyKey(k K) {
	if c.cp.DestroyKey != nil {
		c.cp.DestroyKey(k)
	}
}

func (c capabilityOps[K, V]) destroyValue(v V) {
	if c.cp.DestroyValue != nil {
		c.cp.DestroyValue(v)
	}
}
