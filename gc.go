// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package ldd

// gcstat stores status information about garbage collections. We keep the
// most recent collections in history, at most _HISTORY of them.
type gcstat struct {
	collections int       // Total number of garbage collections
	resizes     int       // Number of collections that resized the tables
	history     []GCPoint // Snapshot of GC stats at the last occurrences, oldest first
}

const _HISTORY = 64

// GCPoint records the state of the node table at one garbage collection.
type GCPoint struct {
	Nodes   int  // Size of the node table before the collection
	Used    int  // Number of live nodes found during the mark phase
	Resized bool // Whether the tables were resized
}

// *************************************************************************

// The operand stack holds the intermediate results of a computation that are
// not yet reachable from a live handle and must survive a garbage collection.
// A result is pushed before any call that may allocate nodes and popped as
// soon as it is consumed.

func (e *Engine) pushref(n NodeID) NodeID {
	if len(e.stack) == cap(e.stack) {
		e.stackstep++
		stack := make([]NodeID, len(e.stack), fibsize(e.stackstep))
		copy(stack, e.stack)
		e.stack = stack
		e.log.Debug("ldd operand stack resized", "capacity", cap(e.stack))
	}
	e.stack = append(e.stack, n)
	return n
}

func (e *Engine) popref(k int) {
	if k > len(e.stack) {
		e.fail(ErrUnderflow, "popping %d from a stack of size %d", k, len(e.stack))
	}
	e.stack = e.stack[:len(e.stack)-k]
}

// frame returns the current height of the operand stack, so that a function
// can release all the values it pushed with a single call to unwind.
func (e *Engine) frame() int {
	return len(e.stack)
}

func (e *Engine) unwind(frame int) {
	if frame > len(e.stack) {
		e.fail(ErrUnderflow, "unwinding to %d a stack of size %d", frame, len(e.stack))
	}
	e.stack = e.stack[:frame]
}

// *************************************************************************

// markrec marks all the nodes reachable from n. We loop on the right siblings
// and only recurse on down edges, so that the depth of recursion is bounded by
// the length of vectors.
func (e *Engine) markrec(n NodeID) {
	for n > 1 && !e.ismarked(n) {
		e.marknode(n)
		e.used++
		e.markrec(e.nodes[n].down)
		n = e.nodes[n].right
	}
}

// gbc is the garbage collector called for reclaiming memory, inside a call to
// makenode, when there are no free nodes available. Nodes a and b are extra
// roots. The roots of the collection are the nodes referenced by a live
// handle, the nodes on the operand stack and the nodes created while loading
// a diagram. Allocated nodes that are not reclaimed never move.
func (e *Engine) gbc(a, b NodeID) {
	e.used = 0
	e.markrec(a)
	e.markrec(b)
	for h := e.roots; h != nil; h = h.next {
		e.markrec(h.root)
		e.markrec(h.pid)
	}
	for _, n := range e.stack {
		e.markrec(n)
	}
	for _, n := range e.loading {
		e.markrec(n)
	}
	if e.sat != nil {
		for _, n := range e.sat.tags {
			e.markrec(n)
		}
	}

	size := len(e.nodes)
	resize := e.step < e.maxstep && (e.used > fib(e.step-1) || e.used >= size-2)
	e.gcstat.collections++
	if len(e.gcstat.history) == _HISTORY {
		copy(e.gcstat.history, e.gcstat.history[1:])
		e.gcstat.history = e.gcstat.history[:_HISTORY-1]
	}
	e.gcstat.history = append(e.gcstat.history, GCPoint{
		Nodes:   size,
		Used:    e.used,
		Resized: resize,
	})
	e.log.Debug("ldd garbage collection",
		"used", e.used,
		"nodes", size)

	if resize {
		e.noderesize()
	} else {
		e.cacheclean(len(e.opcache.table))
		e.sweep()
	}
	if _DEBUG {
		e.checkCanonical()
	}
}

// sweep walks the chains of the unique table. Unmarked nodes are unlinked and
// returned to the free stack, marked nodes are unmarked and kept in place.
func (e *Engine) sweep() {
	for k := range e.unique {
		head, tail := False, False
		n := e.unique[k]
		for n != 0 {
			if n == 1 {
				e.fail(ErrCorrupt, "constant node in bucket %d of the unique table", k)
			}
			next := e.nodes[n].chain
			if e.ismarked(n) {
				e.unmarknode(n)
				e.nodes[n].chain = 0
				if tail == 0 {
					head = n
				} else {
					e.nodes[tail].chain = n
				}
				tail = n
			} else {
				e.nodes[n] = node{}
				e.free = append(e.free, n)
			}
			n = next
		}
		e.unique[k] = head
	}
}

// noderesize grows the node table by one Fibonacci step. The unique table is
// rebuilt from scratch, by rehashing every marked node, and the operation cache
// is rehashed to its new size, keeping only the entries that refer to live
// nodes.
func (e *Engine) noderesize() {
	oldsize := len(e.nodes)
	e.step++
	copied := e.cacheclean(e.cachesize())
	e.log.Debug("ldd operation cache migrated",
		"cache", len(e.opcache.table),
		"copied", copied)

	nodesize := fib(e.step)
	nodes := make([]node, nodesize)
	copy(nodes, e.nodes)
	e.nodes = nodes
	e.unique = make([]NodeID, fib(e.step+1))
	e.free = e.free[:0]
	for k := nodesize - 1; k >= oldsize; k-- {
		e.free = append(e.free, NodeID(k))
	}
	for k := oldsize - 1; k > 1; k-- {
		n := NodeID(k)
		if !e.ismarked(n) {
			e.nodes[n] = node{}
			e.free = append(e.free, n)
			continue
		}
		e.unmarknode(n)
		slot := e.nodehash(n) % uint64(len(e.unique))
		e.nodes[n].chain = e.unique[slot]
		e.unique[slot] = n
	}
	e.gcstat.resizes++
	e.log.Debug("ldd node table resized",
		"nodes", len(e.nodes),
		"unique", len(e.unique))
}
