// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package ldd

import (
	"fmt"
)

// checklevels returns an error if levels is not a strictly increasing list of
// values in [0..size).
func checklevels(levels []int, size int) error {
	for k, l := range levels {
		if l < 0 || l >= size {
			return fmt.Errorf("level %d not in [0..%d)", l, size)
		}
		if k > 0 && l <= levels[k-1] {
			return fmt.Errorf("levels not strictly increasing (%d after %d)", l, levels[k-1])
		}
	}
	return nil
}

// projid returns the projection id of levels, that is a diagram with a single
// vector equal to levels. It is used to identify the shape of a projection in
// the operation cache and is compared like any other diagram.
func (e *Engine) projid(levels []int) NodeID {
	pid := True
	for k := len(levels) - 1; k >= 0; k-- {
		pid = e.makenode(uint32(levels[k]), pid, False)
	}
	return pid
}

// singleton returns the diagram with the single vector vec.
func (e *Engine) singleton(vec []uint32) NodeID {
	isnew := false
	return e.put(False, vec, &isnew)
}

// ************************************************************

// project removes the levels of n that are not in proj, where idx is the level
// of n and pid is the projection id of proj. Vectors that only differ on the
// removed levels collapse together.
func (e *Engine) project(pid, n NodeID, idx int, proj []int) NodeID {
	if n == 0 {
		return False
	}
	if len(proj) == 0 {
		return True
	}
	if n == 1 {
		e.fail(ErrMissingCase, "projection on level %d beyond the diagram", proj[0])
	}
	k := cacheKey{op: opProject, level: int32(idx), proj: pid, a: n}
	if res, ok := e.lookup(k); ok {
		return res
	}
	var res NodeID
	if proj[0] == idx {
		nd := e.nodes[n]
		right := e.pushref(e.project(pid, nd.right, idx, proj))
		down := e.project(e.nodes[pid].down, nd.down, idx+1, proj[1:])
		res = e.makenode(nd.value, down, right)
		e.popref(1)
	} else {
		for m := n; m > 1; m = e.nodes[m].right {
			e.pushref(res)
			tmp := e.pushref(e.project(pid, e.nodes[m].down, idx+1, proj))
			res = e.union(res, tmp)
			e.popref(2)
		}
	}
	return e.store(k, res)
}

// copymatch returns the vectors of n that are equal to pattern on the levels
// in proj, where pid is the projection id of proj and pattern is a singleton
// with one value for every level in proj.
func (e *Engine) copymatch(pid, n, pattern NodeID, idx int, proj []int) NodeID {
	if n <= 1 || len(proj) == 0 {
		return n
	}
	k := cacheKey{op: opCopyMatch, level: int32(idx), proj: pid, a: n, b: pattern}
	if res, ok := e.lookup(k); ok {
		return res
	}
	var res NodeID
	if proj[0] == idx {
		pv := e.nodes[pattern].value
		m := n
		for m > 1 && e.nodes[m].value < pv {
			m = e.nodes[m].right
		}
		if m > 1 && e.nodes[m].value == pv {
			down := e.copymatch(e.nodes[pid].down, e.nodes[m].down, e.nodes[pattern].down, idx+1, proj[1:])
			res = e.makenode(pv, down, False)
		}
	} else {
		for m := n; m > 1; m = e.nodes[m].right {
			e.pushref(res)
			tmp := e.copymatch(pid, e.nodes[m].down, pattern, idx+1, proj)
			tmp = e.pushref(e.makenode(e.nodes[m].value, tmp, False))
			res = e.union(res, tmp)
			e.popref(2)
		}
	}
	return e.store(k, res)
}

// universe returns the product of the values found at depth in src with the
// diagram dst. It is used, level after level starting from the last one, to
// build the product of all the values observed at each level of a set.
func (e *Engine) universe(dst, src NodeID, depth int) NodeID {
	if src == 0 {
		return False
	}
	if src == 1 {
		e.fail(ErrMissingCase, "universe at a depth beyond the diagram")
	}
	k := cacheKey{op: opUniverse, level: int32(depth), a: src, b: dst}
	if res, ok := e.lookup(k); ok {
		return res
	}
	f := e.frame()
	nd := e.nodes[src]
	right := e.pushref(e.universe(dst, nd.right, depth))
	var res NodeID
	if depth == 0 {
		res = e.makenode(nd.value, dst, False)
	} else {
		res = e.universe(dst, nd.down, depth-1)
	}
	e.pushref(res)
	res = e.union(res, right)
	e.unwind(f)
	return e.store(k, res)
}
