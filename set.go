// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package ldd

import (
	"fmt"
	"math"
	"math/big"
)

// Set is a mutable set of vectors over a domain. A full set contains vectors
// of length the size of the domain; a projected set contains vectors whose
// positions are a subset of the levels of the domain (its projection). Sets
// must be destroyed when they are not needed anymore, since their diagram is
// a root of the garbage collector until then.
//
// Operations that combine two sets check that they have the same projection
// and raise a fatal ErrProjection error otherwise. All the operations raise a
// fatal ErrDestroyed error when used on a destroyed handle.
type Set struct {
	handle
	dom  *Domain
	full bool
	proj []int // levels of a projected set, nil if full
}

// NewSet returns an empty set of vectors with the length of the domain.
func (d *Domain) NewSet() *Set {
	return d.newSet(nil, true)
}

// NewProjectedSet returns an empty set of vectors over the given levels of the
// domain. Levels must be strictly increasing and in the interval [0..size).
func (d *Domain) NewProjectedSet(levels []int) (*Set, error) {
	if err := checklevels(levels, d.size); err != nil {
		return nil, err
	}
	return d.newSet(levels, false), nil
}

func (d *Domain) newSet(levels []int, full bool) *Set {
	s := &Set{dom: d, full: full}
	if !full {
		s.proj = append([]int{}, levels...)
	}
	d.e.register(&s.handle)
	s.pid = d.e.projid(s.proj)
	return s
}

// Destroy unregisters s. The nodes of s may be reclaimed by the next garbage
// collection. Destroying a set twice has no effect.
func (s *Set) Destroy() {
	s.dom.e.unregister(&s.handle)
}

// Domain returns the domain of s.
func (s *Set) Domain() *Domain {
	return s.dom
}

// IsFull returns true if s is not projected.
func (s *Set) IsFull() bool {
	return s.full
}

// Levels returns the list of levels of s.
func (s *Set) Levels() []int {
	if s.full {
		return levelsof(nil, s.dom.size)
	}
	return levelsof(s.proj, 0)
}

// Len returns the length of the vectors in s.
func (s *Set) Len() int {
	if s.full {
		return s.dom.size
	}
	return len(s.proj)
}

// Root returns the diagram of s. Two sets with the same projection are equal
// if and only if they have the same root.
func (s *Set) Root() NodeID {
	return s.root
}

// ************************************************************

// check returns the engine of s after checking that s and all the sets in
// others are live and have the same projection.
func (s *Set) check(others ...*Set) *Engine {
	e := s.dom.e
	if !s.live {
		e.fail(ErrDestroyed, "operation on a destroyed set")
	}
	for _, t := range others {
		if !t.live {
			e.fail(ErrDestroyed, "operation on a destroyed set")
		}
		if t.dom.e != e {
			e.fail(ErrProjection, "sets from different engines")
		}
		if t.full != s.full || t.pid != s.pid || t.Len() != s.Len() {
			e.fail(ErrProjection, "sets with projections %v and %v", s.Levels(), t.Levels())
		}
	}
	return e
}

// checkfull is like check but also requires all the sets to be full.
func (s *Set) checkfull(others ...*Set) *Engine {
	e := s.check(others...)
	if !s.full {
		e.fail(ErrProjection, "operation on a projected set")
	}
	return e
}

func (s *Set) checkrel(rel *Relation) {
	e := s.dom.e
	if !rel.live {
		e.fail(ErrDestroyed, "operation on a destroyed relation")
	}
	if rel.dom.e != e || rel.dom.size != s.dom.size {
		e.fail(ErrProjection, "relation over a different domain")
	}
}

// ************************************************************

// Add inserts vec in s and returns true if it was not already in s. The length
// of vec must be the length of s.
func (s *Set) Add(vec []int) bool {
	e := s.check()
	if len(vec) != s.Len() {
		e.fail(ErrLength, "adding a vector of length %d to a set of length %d", len(vec), s.Len())
	}
	isnew := false
	s.root = e.put(s.root, e.vector(vec), &isnew)
	return isnew
}

// Member returns true if vec is in s.
func (s *Set) Member(vec []int) bool {
	e := s.check()
	if len(vec) != s.Len() {
		e.fail(ErrLength, "testing a vector of length %d in a set of length %d", len(vec), s.Len())
	}
	return e.member(s.root, e.vector(vec))
}

// IsEmpty returns true if s has no elements.
func (s *Set) IsEmpty() bool {
	s.check()
	return s.root == False
}

// Equal returns true if s and t have the same elements.
func (s *Set) Equal(t *Set) bool {
	s.check(t)
	return s.root == t.root
}

// Clear removes all the elements of s.
func (s *Set) Clear() {
	s.check()
	s.root = False
}

// Copy replaces the content of s with the one of src.
func (s *Set) Copy(src *Set) {
	s.check(src)
	s.root = src.root
}

// Union adds all the elements of src to s.
func (s *Set) Union(src *Set) {
	e := s.check(src)
	s.root = e.union(s.root, src.root)
}

// Minus removes all the elements of src from s.
func (s *Set) Minus(src *Set) {
	e := s.check(src)
	s.root = e.minus(s.root, src.root)
}

// Intersect removes from s all the elements that are not in src.
func (s *Set) Intersect(src *Set) {
	e := s.check(src)
	s.root = e.intersect(s.root, src.root)
}

// ************************************************************

// Enum iterates through the elements of s in lexicographic order and calls f
// on each of them. The slice passed to f is reused between calls and must be
// copied if it is kept. We stop and return an error if f returns an error at
// some point. It is safe to modify s (or any other set) in f.
func (s *Set) Enum(f func([]int) error) error {
	e := s.check()
	fr := e.frame()
	defer e.unwind(fr)
	return e.enum(e.pushref(s.root), make([]int, s.Len()), 0, f)
}

// EnumMatch is like Enum but only iterates on the elements of s that are
// equal to match on the given levels. The set s must be full.
func (s *Set) EnumMatch(levels, match []int, f func([]int) error) error {
	e := s.checkfull()
	if err := checkmatch(levels, match, s.dom.size); err != nil {
		return err
	}
	fr := e.frame()
	defer e.unwind(fr)
	pattern := e.pushref(e.singleton(e.vector(match)))
	pid := e.pushref(e.projid(levels))
	res := e.pushref(e.copymatch(pid, s.root, pattern, 0, levels))
	return e.enum(res, make([]int, s.Len()), 0, f)
}

func checkmatch(levels, match []int, size int) error {
	if len(levels) != len(match) {
		return fmt.Errorf("%d levels for a pattern of length %d", len(levels), len(match))
	}
	return checklevels(levels, size)
}

// Example returns the smallest element of s in lexicographic order. The
// boolean is false if s is empty.
func (s *Set) Example() ([]int, bool) {
	e := s.check()
	if s.root == False {
		return nil, false
	}
	return e.example(s.root, s.Len()), true
}

// Cardinality returns the number of elements in s. The result is only exact
// up to 2^53 elements.
func (s *Set) Cardinality() float64 {
	return s.check().count(s.root)
}

// NodeCount returns the number of nodes in the diagram of s, including the two
// constant nodes when s is not constant.
func (s *Set) NodeCount() uint64 {
	return s.check().nodecount(s.root)
}

// Count returns both the number of nodes and the number of elements of s.
func (s *Set) Count() (uint64, *big.Int) {
	e := s.check()
	return e.nodecount(s.root), bigcount(e.count(s.root))
}

func bigcount(c float64) *big.Int {
	if math.IsInf(c, 1) {
		c = math.MaxFloat64
	}
	res, _ := new(big.Float).SetFloat64(c).Int(nil)
	return res
}

// ************************************************************

// Project replaces the content of s with the projection of src on the levels
// of s. The set src must be full. If s is also full, this is a copy.
func (s *Set) Project(src *Set) {
	e := src.checkfull()
	s.check()
	if e != s.dom.e || src.dom.size != s.dom.size {
		e.fail(ErrProjection, "projection on a different domain")
	}
	if s.full {
		s.root = src.root
		return
	}
	s.root = e.project(s.pid, src.root, 0, s.proj)
}

// Next replaces the content of s with the image of src by rel. Both sets must
// be full.
func (s *Set) Next(src *Set, rel *Relation) {
	e := s.checkfull(src)
	s.checkrel(rel)
	s.root = e.next(rel.pid, src.root, rel.root, 0, rel.proj)
}

// Prev replaces the content of s with the pre-image of src by rel, restricted
// to the elements of univ. All sets must be full.
func (s *Set) Prev(src *Set, rel *Relation, univ *Set) {
	e := s.checkfull(src, univ)
	s.checkrel(rel)
	fr := e.frame()
	res := e.pushref(e.prev(rel.pid, src.root, rel.root, 0, rel.proj))
	s.root = e.intersect(res, univ.root)
	e.unwind(fr)
}

// CopyMatch replaces the content of s with the elements of src that are equal
// to match on the given levels. Both sets must be full. We return an error if
// levels and match do not have the same length or if levels is not a strictly
// increasing list of levels of the domain.
func (s *Set) CopyMatch(src *Set, levels, match []int) error {
	e := s.checkfull(src)
	if err := checkmatch(levels, match, s.dom.size); err != nil {
		return err
	}
	fr := e.frame()
	pattern := e.pushref(e.singleton(e.vector(match)))
	pid := e.pushref(e.projid(levels))
	s.root = e.copymatch(pid, src.root, pattern, 0, levels)
	e.unwind(fr)
	return nil
}

// CopyMatchProj is like CopyMatch but uses a projection created beforehand
// with NewProjection, which avoids building a projection id at each call.
func (s *Set) CopyMatchProj(src *Set, p *Projection, match []int) {
	e := s.checkfull(src)
	if !p.live {
		e.fail(ErrDestroyed, "operation on a destroyed projection")
	}
	if p.dom.e != e || p.dom.size != s.dom.size {
		e.fail(ErrProjection, "projection over a different domain")
	}
	if len(match) != len(p.levels) {
		e.fail(ErrLength, "pattern of length %d for a projection of length %d", len(match), len(p.levels))
	}
	fr := e.frame()
	pattern := e.pushref(e.singleton(e.vector(match)))
	s.root = e.copymatch(p.pid, src.root, pattern, 0, p.levels)
	e.unwind(fr)
}

// Universe replaces the content of s with the product, for every level of s,
// of the values found at this level in src. The set src must be full.
func (s *Set) Universe(src *Set) {
	e := src.checkfull()
	s.check()
	if e != s.dom.e || src.dom.size != s.dom.size {
		e.fail(ErrProjection, "universe over a different domain")
	}
	levels := s.Levels()
	fr := e.frame()
	res := True
	for k := len(levels) - 1; k >= 0; k-- {
		e.pushref(res)
		res = e.universe(res, src.root, levels[k])
	}
	s.root = res
	e.unwind(fr)
}

// LeastFixpoint replaces the content of s with the set of all the vectors
// reachable from src using the relations in rels. Relations with an expander
// are completed during the computation. Both sets must be full and the method
// cannot be called from an expander (ErrReentrant).
func (s *Set) LeastFixpoint(src *Set, rels ...*Relation) {
	e := s.checkfull(src)
	for _, rel := range rels {
		s.checkrel(rel)
	}
	e.leastFixpoint(s, src.root, rels)
}
