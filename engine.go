// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package ldd

import (
	"log/slog"

	"github.com/bits-and-blooms/bitset"
)

// Engine is the structure holding the shared state of all the decision
// diagrams built over one or more domains: the node table and its unique
// table, the operation cache, the operand stack used to protect intermediate
// results during garbage collection, and the registry of live handles. An
// Engine is not safe for concurrent use.
type Engine struct {
	nodes     []node         // Node table. Constants are always kept at index 0 and 1
	unique    []NodeID       // Buckets of the unique table, 0 is the end of a chain
	free      []NodeID       // Stack of free nodes
	marks     *bitset.BitSet // Marking bits used during garbage collection
	step      int            // Current Fibonacci step of the node table
	maxstep   int            // Maximal step of the node table
	cachediff int            // Difference between the steps of the cache and of the node table
	stackstep int            // Current Fibonacci step of the operand stack capacity
	used      int            // Number of live nodes found during the last mark phase
	stack     []NodeID       // Operand stack, every entry is a root of the garbage collector
	loading   []NodeID       // Nodes created while loading a diagram, also used as roots
	roots     *handle        // Doubly linked list of the live handles
	sat       *saturation    // State of the least fixpoint computation, nil if none is running
	log       *slog.Logger   // Destination of diagnostics

	opcache     // Operation cache
	engineStats // Information about the engine
	gcstat      // Information about garbage collections
}

// engineStats stores status information about an Engine.
type engineStats struct {
	produced     int // Total number of new nodes ever produced
	uniqueAccess int // accesses to the unique node table
	uniqueChain  int // iterations through the chains in the unique node table
	uniqueHit    int // entries actually found in the unique node table
	uniqueMiss   int // entries not found in the unique node table
}

// New returns a new Engine. The initial size of the tables can be changed
// using configuration options, like Nodestep or Cachediff. The tables grow
// automatically during computations. We return an error if the configuration
// values are out of range.
func New(options ...Option) (*Engine, error) {
	config := makeconfigs()
	for _, f := range options {
		f(config)
	}
	if err := config.check(); err != nil {
		return nil, err
	}
	e := &Engine{
		step:      config.step,
		maxstep:   config.maxstep,
		cachediff: config.cachediff,
		stackstep: config.stackstep,
		log:       config.logger,
	}
	if e.log == nil {
		e.log = slog.Default()
	}
	nodesize := fib(e.step)
	e.nodes = make([]node, nodesize)
	e.unique = make([]NodeID, fib(e.step+1))
	e.marks = bitset.New(uint(nodesize))
	// we pop free nodes from the end, so that smaller ids are used first
	e.free = make([]NodeID, 0, nodesize)
	for k := nodesize - 1; k > 1; k-- {
		e.free = append(e.free, NodeID(k))
	}
	e.stack = make([]NodeID, 0, fib(e.stackstep))
	e.cacheinit(e.cachesize())
	e.log.Debug("created ldd engine",
		"nodes", len(e.nodes),
		"unique", len(e.unique),
		"cache", len(e.opcache.table),
		"stack", cap(e.stack))
	return e, nil
}

// cachesize returns the size of the operation cache for the current step of
// the node table.
func (e *Engine) cachesize() int {
	return fibsize(e.step + e.cachediff)
}

// Collect forces a garbage collection. All the nodes that are not reachable
// from a live handle are reclaimed and cache entries referring to them are
// dropped. The node table may grow if it is too crowded.
func (e *Engine) Collect() {
	e.gbc(False, False)
}
