// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package ldd

// saturation holds the state of a least fixpoint computation. Relations are
// grouped by their top level, the first level in their projection.
type saturation struct {
	rels []*Relation // transition groups
	sets []*Set      // projected sets passed to expanders, one for each group
	top  [][]int     // top[l] lists the groups whose top level is l
	tag  NodeID      // identifies the current value of all the relations
	tags []NodeID    // every tag built during the computation, roots of the collector
}

// relationTag returns a node that identifies the root and the projection of
// every relation in rels, so that a change in one relation gives a new tag.
func (e *Engine) relationTag(rels []*Relation) NodeID {
	tag := False
	for k := len(rels) - 1; k >= 0; k-- {
		tag = e.makenode(uint32(2*k+1), rels[k].pid, tag)
		tag = e.makenode(uint32(2*k), rels[k].root, tag)
	}
	return tag
}

// leastFixpoint returns the set of vectors reachable from src using the
// relations in rels, following the "general basic saturation" strategy.
// Relations with an expander are completed lazily, each time we reach new
// vectors at their top level.
func (e *Engine) leastFixpoint(dst *Set, src NodeID, rels []*Relation) {
	if e.sat != nil {
		e.fail(ErrReentrant, "least fixpoint called from an expander")
	}
	size := dst.dom.size
	sat := &saturation{
		rels: rels,
		sets: make([]*Set, len(rels)),
		top:  make([][]int, size),
	}
	f := e.frame()
	e.pushref(src)
	sat.tag = e.pushref(e.relationTag(rels))
	sat.tags = append(sat.tags, sat.tag)
	e.sat = sat
	defer func() {
		for _, s := range sat.sets {
			if s != nil {
				s.Destroy()
			}
		}
		e.sat = nil
	}()
	for grp, rel := range rels {
		sat.sets[grp] = dst.dom.newSet(rel.proj, false)
		if len(rel.proj) == 0 {
			continue
		}
		top := rel.proj[0]
		sat.top[top] = append(sat.top[top], grp)
	}
	e.log.Debug("ldd least fixpoint", "relations", len(rels), "levels", size)

	dst.root = e.saturate(0, src)
	e.unwind(f)

	// groups with an empty projection have no top level and are never
	// expanded during saturation
	for grp, rel := range rels {
		if len(rel.proj) == 0 && rel.expander != nil {
			sat.sets[grp].root = e.project(True, dst.root, 0, nil)
			rel.expander.Expand(rel, sat.sets[grp])
			sat.sets[grp].root = False
		}
	}
}

// saturate returns the least fixpoint of n, a diagram at level idx, for the
// relations whose top level is greater or equal than idx.
func (e *Engine) saturate(idx int, n NodeID) NodeID {
	if n <= 1 {
		return n
	}
	k := cacheKey{op: opSat, level: int32(idx), a: n, b: e.sat.tag}
	if res, ok := e.lookup(k); ok {
		return res
	}
	res := False
	for m := n; m > 1; m = e.nodes[m].right {
		e.pushref(res)
		tmp := e.saturate(idx+1, e.nodes[m].down)
		tmp = e.pushref(e.makenode(e.nodes[m].value, tmp, False))
		res = e.union(res, tmp)
		e.popref(2)
	}
	e.pushref(res)
	res = e.fixpoint(idx, res)
	e.popref(1)
	return e.store(k, res)
}

// fixpoint applies the relations whose top level is level until set does not
// change anymore. Canonicity ensures that this test is exact.
func (e *Engine) fixpoint(level int, set NodeID) NodeID {
	if set == 0 {
		return False
	}
	if set == 1 {
		e.fail(ErrMissingCase, "fixpoint on a diagram shorter than %d levels", level)
	}
	groups := e.sat.top[level]
	for {
		old := set
		f := e.frame()
		e.pushref(old)
		for _, grp := range groups {
			rel := e.sat.rels[grp]
			e.pushref(set)
			if rel.expander != nil {
				e.expand(grp, set, level)
			}
			set = e.applyFixpoint(rel.pid, set, rel.root, level, rel.proj)
			e.popref(1)
		}
		e.unwind(f)
		if set == old {
			return set
		}
	}
}

// expand calls the expander of group grp with the projection of set on the
// levels of the relation.
func (e *Engine) expand(grp int, set NodeID, level int) {
	rel, ps := e.sat.rels[grp], e.sat.sets[grp]
	ps.root = e.project(rel.pid, set, level, rel.proj)
	before := rel.root
	rel.expander.Expand(rel, ps)
	ps.root = False
	if rel.root != before {
		e.sat.tag = e.relationTag(e.sat.rels)
		e.sat.tags = append(e.sat.tags, e.sat.tag)
	}
}

// applyFixpoint adds to set the image by rel of every branch of set matching
// rel at level idx. The images are saturated.
func (e *Engine) applyFixpoint(pid, set, rel NodeID, idx int, proj []int) NodeID {
	res := set
	f := e.frame()
	e.pushref(rel)
	for set > 1 && rel > 1 {
		switch {
		case e.nodes[set].value < e.nodes[rel].value:
			set = e.nodes[set].right
		case e.nodes[rel].value < e.nodes[set].value:
			rel = e.nodes[rel].right
		default:
			// the branch of res with the same value, it may have grown
			branch := res
			for e.nodes[branch].value != e.nodes[rel].value {
				branch = e.nodes[branch].right
			}
			down := e.pushref(e.nodes[branch].down)
			for r := e.nodes[rel].down; r > 1; r = e.nodes[r].right {
				e.pushref(res)
				tmp := e.satRelProd(e.nodes[pid].down, down, e.nodes[r].down, idx+1, proj[1:])
				tmp = e.pushref(e.makenode(e.nodes[r].value, tmp, False))
				res = e.union(res, tmp)
				e.popref(2)
			}
			e.popref(1)
			set = e.nodes[set].right
			rel = e.nodes[rel].right
		}
	}
	e.unwind(f)
	return res
}

// satRelProd returns the saturated image of set by rel, where idx is the level
// of set.
func (e *Engine) satRelProd(pid, set, rel NodeID, idx int, proj []int) NodeID {
	if len(proj) == 0 {
		return set
	}
	if set == 0 || rel == 0 {
		return False
	}
	if set == 1 || rel == 1 {
		e.fail(ErrMissingCase, "relational product of vectors with different lengths")
	}
	k := cacheKey{op: opRelprod, level: int32(idx), proj: pid, a: set, b: rel, c: e.sat.tag}
	if res, ok := e.lookup(k); ok {
		return res
	}
	var res NodeID
	if proj[0] == idx {
		res = e.applyRelProd(pid, set, rel, idx, proj)
	} else {
		res = e.copyLevelSat(pid, set, rel, idx, proj)
	}
	e.pushref(res)
	res = e.saturate(idx, res)
	e.popref(1)
	return e.store(k, res)
}

// copyLevelSat handles the levels of set that are not in the projection of
// rel: values are kept and we recurse on every branch.
func (e *Engine) copyLevelSat(pid, set, rel NodeID, idx int, proj []int) NodeID {
	res := False
	for ; set > 1; set = e.nodes[set].right {
		e.pushref(res)
		tmp := e.satRelProd(pid, e.nodes[set].down, rel, idx+1, proj)
		tmp = e.pushref(e.makenode(e.nodes[set].value, tmp, False))
		res = e.union(res, tmp)
		e.popref(2)
	}
	return res
}

// applyRelProd handles the levels of set that are in the projection of rel:
// for every matching value, we take the union of the images of the branch.
func (e *Engine) applyRelProd(pid, set, rel NodeID, idx int, proj []int) NodeID {
	res := False
	for set > 1 && rel > 1 {
		switch {
		case e.nodes[set].value < e.nodes[rel].value:
			set = e.nodes[set].right
		case e.nodes[rel].value < e.nodes[set].value:
			rel = e.nodes[rel].right
		default:
			for r := e.nodes[rel].down; r > 1; r = e.nodes[r].right {
				e.pushref(res)
				tmp := e.satRelProd(e.nodes[pid].down, e.nodes[set].down, e.nodes[r].down, idx+1, proj[1:])
				tmp = e.pushref(e.makenode(e.nodes[r].value, tmp, False))
				res = e.union(res, tmp)
				e.popref(2)
			}
			set = e.nodes[set].right
			rel = e.nodes[rel].right
		}
	}
	return res
}
