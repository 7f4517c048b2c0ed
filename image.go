// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package ldd

// A relation over the levels proj is encoded as a diagram with two levels for
// each level in proj: the value before the transition followed by the value
// after. Levels of a set that are not in proj are left unchanged by the image
// operations.

// next returns the image of set by rel, where idx is the level of set and pid
// is the projection id of proj.
func (e *Engine) next(pid, set, rel NodeID, idx int, proj []int) NodeID {
	if rel == 0 || set == 0 {
		return False
	}
	if len(proj) == 0 {
		return set
	}
	if rel == 1 || set == 1 {
		e.fail(ErrMissingCase, "image of vectors with different lengths")
	}
	if proj[0] == idx {
		// we skip the values that are not in both set and rel
		for e.nodes[set].value != e.nodes[rel].value {
			if e.nodes[set].value < e.nodes[rel].value {
				if set = e.nodes[set].right; set <= 1 {
					return False
				}
			} else {
				if rel = e.nodes[rel].right; rel <= 1 {
					return False
				}
			}
		}
	}
	k := cacheKey{op: opNext, level: int32(idx), proj: pid, a: set, b: rel}
	if res, ok := e.lookup(k); ok {
		return res
	}
	var res NodeID
	if proj[0] == idx {
		res = e.next(pid, e.nodes[set].right, e.nodes[rel].right, idx, proj)
		down := e.nodes[set].down
		for r := e.nodes[rel].down; r > 1; r = e.nodes[r].right {
			e.pushref(res)
			tmp := e.next(e.nodes[pid].down, down, e.nodes[r].down, idx+1, proj[1:])
			tmp = e.pushref(e.makenode(e.nodes[r].value, tmp, False))
			res = e.union(res, tmp)
			e.popref(2)
		}
	} else {
		nd := e.nodes[set]
		right := e.pushref(e.next(pid, nd.right, rel, idx, proj))
		res = e.makenode(nd.value, e.next(pid, nd.down, rel, idx+1, proj), right)
		e.popref(1)
	}
	return e.store(k, res)
}

// prev returns the pre-image of set by rel. The result may contain vectors
// that are not reachable, it is usually intersected with a universe.
func (e *Engine) prev(pid, set, rel NodeID, idx int, proj []int) NodeID {
	if rel == 0 || set == 0 {
		return False
	}
	if len(proj) == 0 {
		return set
	}
	if rel == 1 || set == 1 {
		e.fail(ErrMissingCase, "pre-image of vectors with different lengths")
	}
	k := cacheKey{op: opPrev, level: int32(idx), proj: pid, a: set, b: rel}
	if res, ok := e.lookup(k); ok {
		return res
	}
	var res NodeID
	if proj[0] == idx {
		f := e.frame()
		right := e.pushref(e.prev(pid, set, e.nodes[rel].right, idx, proj))
		value := e.nodes[rel].value
		r, s := e.nodes[rel].down, set
		for r > 1 && s > 1 {
			switch {
			case e.nodes[r].value < e.nodes[s].value:
				r = e.nodes[r].right
			case e.nodes[s].value < e.nodes[r].value:
				s = e.nodes[s].right
			default:
				e.pushref(res)
				tmp := e.pushref(e.prev(e.nodes[pid].down, e.nodes[s].down, e.nodes[r].down, idx+1, proj[1:]))
				res = e.union(res, tmp)
				e.popref(2)
				r = e.nodes[r].right
				s = e.nodes[s].right
			}
		}
		res = e.makenode(value, res, right)
		e.unwind(f)
	} else {
		nd := e.nodes[set]
		right := e.pushref(e.prev(pid, nd.right, rel, idx, proj))
		res = e.makenode(nd.value, e.prev(pid, nd.down, rel, idx+1, proj), right)
		e.popref(1)
	}
	return e.store(k, res)
}
