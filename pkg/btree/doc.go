// Package btree is a generic, in-memory ordered key/value store built as
// a classic B-Tree: every node carries real key/value payload, splits and
// merges are pre-emptive (a full child is split before descent, a
// minimal child is topped up before descent), and nodes live in a slab
// pool addressed by arena index instead of by pointer.
//
// It does not provide durability, crash recovery, or concurrent writers;
// ThreadSafe only serializes callers against each other, it does not make
// the engine lock-free or wait-free. See pkg/store for a durable,
// write-ahead-logged store built on top of an ordered index that embeds
// this package.
package btree
