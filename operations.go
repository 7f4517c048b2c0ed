// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package ldd

import (
	"github.com/RoaringBitmap/roaring/v2/roaring64"
)

// All the operations below work on diagrams encoding sets of vectors with the
// same length. They recurse on the values at the current level of their
// operands, like a merge of two sorted lists. Operands are supposed to be
// reachable from a root of the garbage collector; intermediate results are
// pushed on the operand stack before any call that may allocate nodes.

func (e *Engine) union(a, b NodeID) NodeID {
	if a == b {
		return a
	}
	if a == 0 {
		return b
	}
	if b == 0 {
		return a
	}
	if a == 1 || b == 1 {
		e.fail(ErrMissingCase, "union of vectors with different lengths")
	}
	// union is commutative
	if b < a {
		a, b = b, a
	}
	k := cacheKey{op: opUnion, a: a, b: b}
	if res, ok := e.lookup(k); ok {
		return res
	}
	na, nb := e.nodes[a], e.nodes[b]
	var res NodeID
	switch {
	case na.value < nb.value:
		res = e.makenode(na.value, na.down, e.union(na.right, b))
	case na.value == nb.value:
		down := e.pushref(e.union(na.down, nb.down))
		res = e.makenode(na.value, down, e.union(na.right, nb.right))
		e.popref(1)
	default:
		res = e.makenode(nb.value, nb.down, e.union(a, nb.right))
	}
	return e.store(k, res)
}

func (e *Engine) minus(a, b NodeID) NodeID {
	if a == b || a == 0 {
		return 0
	}
	if b == 0 {
		return a
	}
	if a == 1 || b == 1 {
		e.fail(ErrMissingCase, "difference of vectors with different lengths")
	}
	k := cacheKey{op: opMinus, a: a, b: b}
	if res, ok := e.lookup(k); ok {
		return res
	}
	na, nb := e.nodes[a], e.nodes[b]
	var res NodeID
	switch {
	case na.value < nb.value:
		res = e.makenode(na.value, na.down, e.minus(na.right, b))
	case na.value == nb.value:
		down := e.pushref(e.minus(na.down, nb.down))
		res = e.makenode(na.value, down, e.minus(na.right, nb.right))
		e.popref(1)
	default:
		res = e.minus(a, nb.right)
	}
	return e.store(k, res)
}

func (e *Engine) intersect(a, b NodeID) NodeID {
	if a == b {
		return a
	}
	if a == 0 || b == 0 {
		return 0
	}
	if a == 1 || b == 1 {
		e.fail(ErrMissingCase, "intersection of vectors with different lengths")
	}
	if b < a {
		a, b = b, a
	}
	k := cacheKey{op: opIntersect, a: a, b: b}
	if res, ok := e.lookup(k); ok {
		return res
	}
	na, nb := e.nodes[a], e.nodes[b]
	var res NodeID
	switch {
	case na.value == nb.value:
		down := e.pushref(e.intersect(na.down, nb.down))
		res = e.makenode(na.value, down, e.intersect(na.right, nb.right))
		e.popref(1)
	case na.value < nb.value:
		res = e.intersect(na.right, b)
	default:
		res = e.intersect(a, nb.right)
	}
	return e.store(k, res)
}

// member returns true if vec belongs to the set encoded by n.
func (e *Engine) member(n NodeID, vec []uint32) bool {
	for k, v := range vec {
		for n > 1 && e.nodes[n].value < v {
			n = e.nodes[n].right
		}
		if n <= 1 {
			if n == 1 {
				e.fail(ErrLength, "vector longer than the diagram (%d levels)", k)
			}
			return false
		}
		if e.nodes[n].value != v {
			return false
		}
		n = e.nodes[n].down
	}
	if n > 1 {
		e.fail(ErrLength, "vector shorter than the diagram (%d levels)", len(vec))
	}
	return n == 1
}

// put returns the union of n with the singleton {vec}. We set isnew to true
// if vec was not in n. Nodes along the path of vec are only rebuilt when they
// change.
func (e *Engine) put(n NodeID, vec []uint32, isnew *bool) NodeID {
	if len(vec) == 0 {
		if n > 1 {
			e.fail(ErrLength, "vector shorter than the diagram")
		}
		if n == 0 {
			*isnew = true
		}
		return True
	}
	if n == 1 {
		e.fail(ErrLength, "vector longer than the diagram")
	}
	if n > 1 {
		nd := e.nodes[n]
		if nd.value < vec[0] {
			right := e.put(nd.right, vec, isnew)
			if right == nd.right {
				return n
			}
			return e.makenode(nd.value, nd.down, right)
		}
		if nd.value == vec[0] {
			down := e.put(nd.down, vec[1:], isnew)
			if down == nd.down {
				return n
			}
			return e.makenode(nd.value, down, nd.right)
		}
	}
	return e.makenode(vec[0], e.put(False, vec[1:], isnew), n)
}

// enum calls f on every vector of n in lexicographic order. The same slice is
// reused for every call. We stop at the first error returned by f.
func (e *Engine) enum(n NodeID, vec []int, idx int, f func([]int) error) error {
	if idx == len(vec) {
		if n > 1 {
			e.fail(ErrLength, "diagram longer than %d levels", len(vec))
		}
		if n == 1 {
			return f(vec)
		}
		return nil
	}
	for n > 1 {
		nd := e.nodes[n]
		vec[idx] = int(nd.value)
		if err := e.enum(nd.down, vec, idx+1, f); err != nil {
			return err
		}
		n = nd.right
	}
	if n != 0 {
		e.fail(ErrLength, "diagram shorter than %d levels", len(vec))
	}
	return nil
}

// count returns the number of vectors in n. The result is exact only up to
// 2^53 elements.
func (e *Engine) count(n NodeID) float64 {
	if n <= 1 {
		return float64(n)
	}
	if res, ok := e.lookupCount(n); ok {
		return res
	}
	nd := e.nodes[n]
	return e.storeCount(n, e.count(nd.down)+e.count(nd.right))
}

// nodecount returns the number of nodes reachable from n, including the two
// constants. A constant diagram has only one node.
func (e *Engine) nodecount(n NodeID) uint64 {
	if n <= 1 {
		return 1
	}
	visited := roaring64.New()
	e.visit(n, visited)
	return visited.GetCardinality() + 2
}

func (e *Engine) visit(n NodeID, visited *roaring64.Bitmap) {
	for n > 1 && visited.CheckedAdd(uint64(n)) {
		e.visit(e.nodes[n].down, visited)
		n = e.nodes[n].right
	}
}

// example returns the smallest vector of n in lexicographic order.
func (e *Engine) example(n NodeID, length int) []int {
	if n == 0 {
		return nil
	}
	vec := make([]int, length)
	for k := range vec {
		if n <= 1 {
			e.fail(ErrLength, "diagram shorter than %d levels", length)
		}
		vec[k] = int(e.nodes[n].value)
		n = e.nodes[n].down
	}
	if n != 1 {
		e.fail(ErrLength, "diagram longer than %d levels", length)
	}
	return vec
}
