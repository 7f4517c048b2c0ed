// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

// Package models defines small systems, given by a list of transition groups
// over vectors of integers, used to exercise symbolic reachability.
package models

import (
	"fmt"

	"github.com/dalzilio/ldd"
)

// Group is a transition group: it only reads and writes the given levels.
// Next returns the successors of a vector projected on these levels.
type Group struct {
	Levels []int
	Next   func(src []int) [][]int
}

// Model is a system with vectors of length Size, whose values are in
// [0..Values), and an initial vector.
type Model struct {
	Name    string
	Size    int
	Values  int
	Initial []int
	Groups  []Group
}

// Build returns the initial set and the relations of m over domain d. When
// lazy is true, relations are empty and are completed by an expander during
// LeastFixpoint; otherwise every transition is added from the start.
func (m *Model) Build(d *ldd.Domain, lazy bool) (*ldd.Set, []*ldd.Relation, error) {
	if d.Size() != m.Size {
		return nil, nil, fmt.Errorf("model %s needs a domain of size %d, not %d", m.Name, m.Size, d.Size())
	}
	init := d.NewSet()
	init.Add(m.Initial)
	rels := make([]*ldd.Relation, 0, len(m.Groups))
	for _, g := range m.Groups {
		rel, err := d.NewRelation(g.Levels)
		if err != nil {
			init.Destroy()
			for _, r := range rels {
				r.Destroy()
			}
			return nil, nil, err
		}
		next := g.Next
		if lazy {
			rel.SetExpander(ldd.ExpandFunc(func(rel *ldd.Relation, set *ldd.Set) {
				_ = set.Enum(func(src []int) error {
					for _, dst := range next(src) {
						rel.Add(src, dst)
					}
					return nil
				})
			}))
		} else {
			m.product(len(g.Levels), func(src []int) {
				for _, dst := range next(src) {
					rel.Add(src, dst)
				}
			})
		}
		rels = append(rels, rel)
	}
	return init, rels, nil
}

// product calls f on every vector of length n with values in [0..Values).
func (m *Model) product(n int, f func([]int)) {
	vec := make([]int, n)
	var rec func(k int)
	rec = func(k int) {
		if k == n {
			f(vec)
			return
		}
		for v := 0; v < m.Values; v++ {
			vec[k] = v
			rec(k + 1)
		}
	}
	rec(0)
}

// Reachable computes the reachable vectors of m with an explicit breadth-first
// search. The keys of the result are the vectors formatted with fmt.Sprint.
func (m *Model) Reachable() map[string][]int {
	key := func(v []int) string { return fmt.Sprint(v) }
	seen := map[string][]int{key(m.Initial): append([]int{}, m.Initial...)}
	todo := [][]int{m.Initial}
	for len(todo) > 0 {
		v := todo[0]
		todo = todo[1:]
		for _, g := range m.Groups {
			src := make([]int, len(g.Levels))
			for k, l := range g.Levels {
				src[k] = v[l]
			}
			for _, dst := range g.Next(src) {
				w := append([]int{}, v...)
				for k, l := range g.Levels {
					w[l] = dst[k]
				}
				if _, ok := seen[key(w)]; !ok {
					seen[key(w)] = w
					todo = append(todo, w)
				}
			}
		}
	}
	return seen
}
