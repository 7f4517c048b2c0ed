// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

/*
Package ldd defines a concrete type for List Decision Diagrams (LDD), a data
structure used to efficiently represent sets of vectors of integers with a
fixed length, and transition relations between such vectors. It is typically
used for the symbolic exploration of the state space of concurrent systems.

# Basics

All the diagrams are stored in an Engine, created using the function New. An
Engine holds a table of nodes, with 64 bits identifiers, where each node has a
value, a down edge (to the vectors that have this value at the current level)
and a right edge (to the next sibling, with a greater value). The two constant
nodes 0 and 1 are the empty set and the set containing only the empty vector.
Nodes are hash-consed, so two diagrams are equal if and only if they have the
same identifier.

Vectors have a fixed length, defined by a Domain. Each position in a vector is
called a level, in the interval [0..Size). A Set is a mutable set of vectors
over a domain, possibly projected on a subset of its levels. A Relation is a
set of transitions over a subset of the levels of a domain. Sets and relations
are handles on a diagram; operations, such as Union or Next, replace the
diagram of their receiver.

	e, _ := ldd.New(ldd.Nodestep(20))
	d, _ := e.NewDomain(3)
	s := d.NewSet()
	s.Add([]int{0, 1, 2})

# Symbolic reachability

The method LeastFixpoint computes the set of vectors reachable from an initial
set using a list of relations, following the saturation strategy. Relations
can be completed lazily during the computation, using an Expander.

# Automatic memory management

We take care of the node table resizing and of memory management directly in
the library. Unused nodes are reclaimed by a mark and sweep garbage collector
that is called when the node table is full. The roots of the collection are
the sets, relations and projections that have not been destroyed (using their
Destroy method).

# Errors

The violation of an invariant of the engine, like using vectors of the wrong
length, is a fatal error: we panic with a value of type *FatalError, that
wraps one of the sentinel errors such as ErrLength. Use Catch to recover such
errors. An engine should not be used after a fatal error.

# Use of build tags

To get access to better statistics about the unique table, and to check the
canonicity of the node table after each garbage collection, you can compile
your executable with the build tag `debug`.
*/
package ldd
