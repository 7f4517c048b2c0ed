// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package ldd

import (
	"fmt"
	"math"
)

// Domain is a set of vectors of integers with a fixed length, its size. Each
// position in a vector is called a level, in the interval [0..size). All the
// sets and relations created from a domain share the nodes of its Engine.
type Domain struct {
	e    *Engine
	size int
}

// NewDomain returns a domain of vectors of length size.
func (e *Engine) NewDomain(size int) (*Domain, error) {
	if size < 0 {
		return nil, fmt.Errorf("negative domain size %d", size)
	}
	return &Domain{e: e, size: size}, nil
}

// Size returns the length of the vectors in d.
func (d *Domain) Size() int {
	return d.size
}

// Engine returns the engine that stores the diagrams of d.
func (d *Domain) Engine() *Engine {
	return d.e
}

// ************************************************************

// handle is an element in the registry of live sets, relations and
// projections. The nodes referenced by a handle are roots of the garbage
// collector until the handle is destroyed.
type handle struct {
	root       NodeID // current diagram
	pid        NodeID // projection id
	prev, next *handle
	live       bool
}

func (e *Engine) register(h *handle) {
	h.pid = True
	h.next = e.roots
	h.prev = nil
	if e.roots != nil {
		e.roots.prev = h
	}
	e.roots = h
	h.live = true
}

func (e *Engine) unregister(h *handle) {
	if !h.live {
		return
	}
	if e.roots == h {
		e.roots = h.next
	}
	if h.prev != nil {
		h.prev.next = h.next
	}
	if h.next != nil {
		h.next.prev = h.prev
	}
	h.prev, h.next = nil, nil
	h.live = false
}

// ************************************************************

// vector converts a vector of ints into the values stored in nodes.
func (e *Engine) vector(vec []int) []uint32 {
	res := make([]uint32, len(vec))
	for k, v := range vec {
		if v < 0 || uint64(v) > math.MaxUint32 {
			e.fail(ErrValue, "value %d at position %d", v, k)
		}
		res[k] = uint32(v)
	}
	return res
}

// levelsof returns a copy of levels, or the list of all the levels in a domain
// of size n when levels is nil.
func levelsof(levels []int, n int) []int {
	if levels == nil {
		res := make([]int, n)
		for k := range res {
			res[k] = k
		}
		return res
	}
	return append([]int{}, levels...)
}
