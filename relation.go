// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package ldd

import (
	"math/big"
)

// Expander is the interface of the objects used to complete a relation on
// demand during a least fixpoint computation. Expand is called with the
// relation and with the set of vectors, projected on the levels of the
// relation, reached so far. It should add to rel the transitions from the
// vectors in set. Expand may use any operation of the engine except
// LeastFixpoint.
type Expander interface {
	Expand(rel *Relation, set *Set)
}

// ExpandFunc is an adapter to use ordinary functions as an Expander.
type ExpandFunc func(rel *Relation, set *Set)

// Expand calls f(rel, set).
func (f ExpandFunc) Expand(rel *Relation, set *Set) {
	f(rel, set)
}

// ************************************************************

// Relation is a transition relation over a subset of the levels of a domain
// (its projection). A transition is a pair of vectors (src, dst) with one value
// for each level in the projection; levels outside the projection are left
// unchanged by the relation. Like sets, relations must be destroyed when they
// are not needed anymore.
type Relation struct {
	handle
	dom      *Domain
	proj     []int
	expander Expander
}

// NewRelation returns an empty relation over the given levels of the domain.
// Levels must be strictly increasing and in the interval [0..size).
func (d *Domain) NewRelation(levels []int) (*Relation, error) {
	if err := checklevels(levels, d.size); err != nil {
		return nil, err
	}
	r := &Relation{dom: d, proj: append([]int{}, levels...)}
	d.e.register(&r.handle)
	r.pid = d.e.projid(r.proj)
	return r, nil
}

// SetExpander sets the expander used to complete r during LeastFixpoint. A nil
// value removes the expander.
func (r *Relation) SetExpander(x Expander) {
	r.expander = x
}

// Destroy unregisters r. Destroying a relation twice has no effect.
func (r *Relation) Destroy() {
	r.dom.e.unregister(&r.handle)
}

// Domain returns the domain of r.
func (r *Relation) Domain() *Domain {
	return r.dom
}

// Levels returns the projection of r.
func (r *Relation) Levels() []int {
	return levelsof(r.proj, 0)
}

// Root returns the diagram of r.
func (r *Relation) Root() NodeID {
	return r.root
}

func (r *Relation) check() *Engine {
	e := r.dom.e
	if !r.live {
		e.fail(ErrDestroyed, "operation on a destroyed relation")
	}
	return e
}

// Add inserts the transition (src, dst) in r. Both vectors must have the length
// of the projection of r.
func (r *Relation) Add(src, dst []int) {
	e := r.check()
	if len(src) != len(r.proj) || len(dst) != len(r.proj) {
		e.fail(ErrLength, "transition of length (%d,%d) in a relation of length %d", len(src), len(dst), len(r.proj))
	}
	vec := make([]int, 2*len(r.proj))
	for k := range r.proj {
		vec[2*k] = src[k]
		vec[2*k+1] = dst[k]
	}
	isnew := false
	r.root = e.put(r.root, e.vector(vec), &isnew)
}

// IsEmpty returns true if r has no transitions.
func (r *Relation) IsEmpty() bool {
	r.check()
	return r.root == False
}

// Cardinality returns the number of transitions in r.
func (r *Relation) Cardinality() float64 {
	return r.check().count(r.root)
}

// NodeCount returns the number of nodes in the diagram of r.
func (r *Relation) NodeCount() uint64 {
	return r.check().nodecount(r.root)
}

// Count returns both the number of nodes and the number of transitions of r.
func (r *Relation) Count() (uint64, *big.Int) {
	e := r.check()
	return e.nodecount(r.root), bigcount(e.count(r.root))
}

// ************************************************************

// Projection is a reusable list of levels, used with CopyMatchProj. It keeps
// its projection id alive until it is destroyed.
type Projection struct {
	handle
	dom    *Domain
	levels []int
}

// NewProjection returns a projection over the given levels of the domain.
// Levels must be strictly increasing and in the interval [0..size).
func (d *Domain) NewProjection(levels []int) (*Projection, error) {
	if err := checklevels(levels, d.size); err != nil {
		return nil, err
	}
	p := &Projection{dom: d, levels: append([]int{}, levels...)}
	d.e.register(&p.handle)
	p.pid = d.e.projid(p.levels)
	return p, nil
}

// Levels returns the list of levels of p.
func (p *Projection) Levels() []int {
	return levelsof(p.levels, 0)
}

// Destroy unregisters p. Destroying a projection twice has no effect.
func (p *Projection) Destroy() {
	p.dom.e.unregister(&p.handle)
}
