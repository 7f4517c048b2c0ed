// Copyright 2021. Silvano DAL ZILIO.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not
// use this file except in compliance with the License. You may obtain a copy of
// the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
// WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
// License for the specific language governing permissions and limitations under
// the License.

package ldd

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"unsafe"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
	"github.com/dustin/go-humanize"
)

// Statistics is a snapshot of the status of an Engine.
type Statistics struct {
	Step        int // Fibonacci step of the node table
	Nodes       int // Size of the node table, including the two constants
	Free        int // Number of free nodes
	Produced    int // Total number of new nodes ever produced
	Collections int // Number of garbage collections
	Resizes     int // Number of garbage collections that resized the tables
	UniqueSize  int // Number of buckets in the unique table
	CacheSize   int // Number of entries in the operation cache
	CacheHits   int // Number of lookups found in the operation cache
	CacheMisses int // Number of lookups not found in the operation cache
	StackDepth  int // Current height of the operand stack
	Handles     int // Number of live sets, relations and projections

	History []GCPoint // Last garbage collections, oldest first
}

// Used returns the number of allocated nodes, not counting the constants.
func (s Statistics) Used() int {
	return s.Nodes - 2 - s.Free
}

// Memory returns an estimation of the memory used by the tables, in bytes.
func (s Statistics) Memory() uint64 {
	return uint64(s.Nodes)*uint64(unsafe.Sizeof(node{})) +
		uint64(s.UniqueSize)*uint64(unsafe.Sizeof(NodeID(0))) +
		uint64(s.CacheSize)*uint64(unsafe.Sizeof(cacheEntry{}))
}

// Snapshot returns the current statistics of e.
func (e *Engine) Snapshot() Statistics {
	handles := 0
	for h := e.roots; h != nil; h = h.next {
		handles++
	}
	return Statistics{
		Step:        e.step,
		Nodes:       len(e.nodes),
		Free:        len(e.free),
		Produced:    e.produced,
		Collections: e.gcstat.collections,
		Resizes:     e.gcstat.resizes,
		UniqueSize:  len(e.unique),
		CacheSize:   len(e.opcache.table),
		CacheHits:   e.opHit,
		CacheMisses: e.opMiss,
		StackDepth:  len(e.stack),
		Handles:     handles,
		History:     append([]GCPoint(nil), e.gcstat.history...),
	}
}

// Stats returns a textual description of the statistics of e.
func (e *Engine) Stats() string {
	s := e.Snapshot()
	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Step:\t%d\n", s.Step)
	fmt.Fprintf(w, "Allocated:\t%s\t(%s)\n", humanize.Comma(int64(s.Nodes)), humanize.IBytes(s.Memory()))
	fmt.Fprintf(w, "Produced:\t%s\n", humanize.Comma(int64(s.Produced)))
	r := float64(s.Free) / float64(s.Nodes) * 100
	fmt.Fprintf(w, "Free:\t%s\t(%.3g %%)\n", humanize.Comma(int64(s.Free)), r)
	fmt.Fprintf(w, "Used:\t%s\t(%.3g %%)\n", humanize.Comma(int64(s.Used())), 100.0-r)
	fmt.Fprintf(w, "# of GC:\t%d\t(%d resizes)\n", s.Collections, s.Resizes)
	fmt.Fprintf(w, "Unique table:\t%s\n", humanize.Comma(int64(s.UniqueSize)))
	fmt.Fprintf(w, "Op cache:\t%s\n", humanize.Comma(int64(s.CacheSize)))
	hits := 0.0
	if lookups := s.CacheHits + s.CacheMisses; lookups > 0 {
		hits = float64(s.CacheHits) / float64(lookups) * 100
	}
	fmt.Fprintf(w, "Cache hits:\t%s\t(%.3g %%)\n", humanize.Comma(int64(s.CacheHits)), hits)
	fmt.Fprintf(w, "Handles:\t%d\n", s.Handles)
	if _DEBUG {
		fmt.Fprintf(w, "Unique access:\t%d\n", e.uniqueAccess)
		fmt.Fprintf(w, "Unique chain:\t%d\n", e.uniqueChain)
		fmt.Fprintf(w, "Unique hit:\t%d\n", e.uniqueHit)
		fmt.Fprintf(w, "Unique miss:\t%d\n", e.uniqueMiss)
	}
	w.Flush()
	return strings.TrimSuffix(sb.String(), "\n")
}

// ******************************************************************************************************

// Print returns a one-line description of node n.
func (e *Engine) Print(n NodeID) string {
	switch {
	case n == False:
		return "False"
	case n == True:
		return "True"
	case n >= NodeID(len(e.nodes)):
		return fmt.Sprintf("Error (%d not a valid index)", n)
	}
	nd := e.nodes[n]
	return fmt.Sprintf("(%d: %d ↓ %d → %d)", n, nd.value, nd.down, nd.right)
}

// ******************************************************************************************************

// Dot writes a description of the diagram of s in the DOT format. Each list of
// siblings is drawn as one record, with an edge from each value to the list of
// its successors.
func (s *Set) Dot(w io.Writer) error {
	return s.check().dot(w, "setbdd", s.root)
}

// Dot writes a description of the diagram of r in the DOT format.
func (r *Relation) Dot(w io.Writer) error {
	return r.check().dot(w, "relbdd", r.root)
}

func (e *Engine) dot(out io.Writer, name string, n NodeID) error {
	w := bufio.NewWriter(out)
	fmt.Fprintf(w, "digraph %s {\nnode [shape=record];\n", name)
	visited := roaring64.New()
	trueprinted := false
	var draw func(n NodeID)
	draw = func(n NodeID) {
		switch {
		case n == False:
			fmt.Fprintf(w, " n0 [shape=record,label=\"<f0> False\"]\n")
		case n == True:
			if !trueprinted {
				fmt.Fprintf(w, " n1 [shape=record,label=\"<f0> True\"]\n")
				trueprinted = true
			}
		case visited.CheckedAdd(uint64(n)):
			fmt.Fprintf(w, " n%d [shape=record,label=\"", n)
			for x, i := n, 0; x != 0; x, i = e.nodes[x].right, i+1 {
				if i > 0 {
					fmt.Fprint(w, "|")
				}
				fmt.Fprintf(w, "<f%d> %d", i, e.nodes[x].value)
			}
			fmt.Fprintf(w, "\"];\n")
			for x, i := n, 0; x != 0; x, i = e.nodes[x].right, i+1 {
				fmt.Fprintf(w, "   n%d:f%d -> n%d:f0;\n", n, i, e.nodes[x].down)
			}
			for x := n; x != 0; x = e.nodes[x].right {
				draw(e.nodes[x].down)
			}
		}
	}
	draw(n)
	fmt.Fprintf(w, "}\n")
	return w.Flush()
}
