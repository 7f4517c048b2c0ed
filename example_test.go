// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package ldd_test

import (
	"bytes"
	"fmt"
	"log"

	"github.com/dalzilio/ldd"
)

// This example shows the basic usage of the package: create a domain, add
// vectors to a set and compute the image of the set by a relation.
func Example_basic() {
	// Create a new engine with an initial node table of fib(16) = 987 nodes.
	e, err := ldd.New(ldd.Nodestep(16))
	if err != nil {
		log.Fatal(err)
	}
	// Vectors in d have three levels.
	d, _ := e.NewDomain(3)
	s := d.NewSet()
	s.Add([]int{0, 0, 0})
	s.Add([]int{0, 1, 0})
	s.Add([]int{1, 0, 0})
	// r increments the value at level 1, when it is 0, and leaves the other
	// levels unchanged.
	r, _ := d.NewRelation([]int{1})
	r.Add([]int{0}, []int{1})
	next := d.NewSet()
	next.Next(s, r)
	_ = next.Enum(func(vec []int) error {
		fmt.Println(vec)
		return nil
	})
	fmt.Printf("Number of nodes: %d\n", s.NodeCount())
	// Output:
	// [0 1 0]
	// [1 1 0]
	// Number of nodes: 8
}

// This example shows how to compute the set of reachable states of a system
// using saturation, where the relation is discovered on the fly.
func Example_leastFixpoint() {
	e, _ := ldd.New(ldd.Nodestep(16))
	d, _ := e.NewDomain(2)
	init := d.NewSet()
	init.Add([]int{0, 0})
	// a counter modulo 4 on level 0
	r, _ := d.NewRelation([]int{0})
	r.SetExpander(ldd.ExpandFunc(func(rel *ldd.Relation, set *ldd.Set) {
		_ = set.Enum(func(vec []int) error {
			rel.Add(vec, []int{(vec[0] + 1) % 4})
			return nil
		})
	}))
	reach := d.NewSet()
	reach.LeastFixpoint(init, r)
	fmt.Printf("Reachable: %.0f\n", reach.Cardinality())
	fmt.Printf("Transitions: %.0f\n", r.Cardinality())
	// Output:
	// Reachable: 4
	// Transitions: 4
}

// This example shows how to save a set and load it back, possibly in
// another engine.
func Example_persistence() {
	e, _ := ldd.New(ldd.Nodestep(16))
	d, _ := e.NewDomain(2)
	s := d.NewSet()
	s.Add([]int{4, 2})
	var buf bytes.Buffer
	if err := s.Save(&buf, ldd.WithCompression(ldd.CompressionZstd)); err != nil {
		log.Fatal(err)
	}
	other, _ := ldd.New(ldd.Nodestep(16))
	od, _ := other.NewDomain(2)
	loaded, err := od.LoadSet(&buf, ldd.WithCompression(ldd.CompressionZstd))
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(loaded.Member([]int{4, 2}))
	// Output:
	// true
}
