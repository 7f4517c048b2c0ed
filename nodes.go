// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package ldd

// NodeID is the index of a node in the node table of an Engine. The two
// constants 0 and 1 are reserved: 0 is the empty set and 1 is the set that
// contains only the empty vector. Both are never collected.
type NodeID uint64

const (
	// False is the empty set.
	False NodeID = 0
	// True is the set containing the empty vector.
	True NodeID = 1
)

// node is a record in the node table. Sibling lists are strictly increasing
// by value. Nodes are immutable while they are live.
type node struct {
	value uint32 // Symbol stored at this level
	down  NodeID // Sub-diagram for the vectors with this value at this level
	right NodeID // Next sibling, with a strictly larger value
	chain NodeID // Next node in the same bucket of the unique table, 0 if last
}

// ************************************************************

// Free nodes are kept on a stack of ids (e.free) and the marking bits used
// during a garbage collection are stored in a bitset (e.marks), so that the
// chain field of a node is only ever used for unique table buckets.

func (e *Engine) ismarked(n NodeID) bool {
	return e.marks.Test(uint(n))
}

func (e *Engine) marknode(n NodeID) {
	e.marks.Set(uint(n))
}

func (e *Engine) unmarknode(n NodeID) {
	e.marks.Clear(uint(n))
}
