// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package ldd

// _MAXSTEP is the largest Fibonacci step such that fib(_MAXSTEP) fits in a
// signed 64 bits integer. It is the default (and maximal) value for Maxstep.
const _MAXSTEP int = 92

// _MINSTEP is the smallest initial step accepted for the node table. With
// fib(6) == 8 slots, a full table always holds more live nodes than the growth
// threshold fib(step-1), so a collection on a full table can always make room.
const _MINSTEP int = 6

// _DEFAULTSTEP is the default Fibonacci step for the initial size of the node
// table (832 040 nodes).
const _DEFAULTSTEP int = 30

// _DEFAULTCACHEDIFF is the default difference between the Fibonacci steps of
// the operation cache and of the node table.
const _DEFAULTCACHEDIFF int = 1

// _DEFAULTSTACKSTEP is the default Fibonacci step for the initial capacity of
// the operand stack.
const _DEFAULTSTACKSTEP int = 22

// makenode is the canonicalizing node constructor and the only place where
// nodes are allocated. It returns right when down is the empty set, so that
// an empty down edge is never stored. Otherwise it returns the unique node
// with the triple (value, down, right), creating it if needed. When there are
// no free nodes left, we garbage collect (and possibly resize the tables)
// using down and right as extra roots, since they may not be reachable from
// any registered root yet.
func (e *Engine) makenode(value uint32, down, right NodeID) NodeID {
	if down == 0 {
		return right
	}
	if right > 1 && value >= e.nodes[right].value {
		e.fail(ErrOrder, "bad order %d %d", value, e.nodes[right].value)
	}
	if _DEBUG {
		e.uniqueAccess++
	}
	h := hash(value, uint64(down), uint64(right))
	slot := h % uint64(len(e.unique))
	for res := e.unique[slot]; res != 0; res = e.nodes[res].chain {
		n := e.nodes[res]
		if n.value == value && n.down == down && n.right == right {
			if _DEBUG {
				e.uniqueHit++
			}
			return res
		}
		if _DEBUG {
			e.uniqueChain++
		}
	}
	if _DEBUG {
		e.uniqueMiss++
	}
	if len(e.free) == 0 {
		e.gbc(down, right)
		if len(e.free) == 0 {
			e.fail(ErrTableFull, "no free node after collection (%d nodes)", len(e.nodes))
		}
		// the unique table may have been resized
		slot = h % uint64(len(e.unique))
	}
	res := e.free[len(e.free)-1]
	e.free = e.free[:len(e.free)-1]
	e.nodes[res] = node{
		value: value,
		down:  down,
		right: right,
		chain: e.unique[slot],
	}
	e.unique[slot] = res
	e.produced++
	return res
}
