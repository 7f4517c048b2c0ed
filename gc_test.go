// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package ldd

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildSets computes the same unions on a domain of the given engine and
// returns the elements of the result.
func buildSets(t *testing.T, d *Domain) ([]string, float64) {
	r := rand.New(rand.NewSource(7))
	res := d.NewSet()
	for k := 0; k < 20; k++ {
		s := setOf(d, randomVectors(r, 30, d.Size(), 6))
		res.Union(s)
		s.Destroy()
	}
	return elements(t, res), res.Cardinality()
}

func TestCollectionPreservesResults(t *testing.T) {
	small := testDomain(t, 6, Nodestep(6))
	large := testDomain(t, 6, Nodestep(20))
	se, sc := buildSets(t, small)
	le, lc := buildSets(t, large)
	assert.Equal(t, le, se)
	assert.Equal(t, lc, sc)
	assert.Greater(t, small.e.collections, 0)
	assert.Greater(t, small.e.resizes, 0)
	assert.Equal(t, min(small.e.collections, _HISTORY), len(small.e.history))
}

func TestCollectionHistory(t *testing.T) {
	d := testDomain(t, 3)
	e := d.e
	s := d.NewSet()
	s.Add([]int{1, 2, 3})
	for k := 0; k < 3*_HISTORY; k++ {
		e.Collect()
	}
	st := e.Snapshot()
	assert.Equal(t, 3*_HISTORY, st.Collections)
	require.Len(t, st.History, _HISTORY)
	last := st.History[len(st.History)-1]
	assert.Equal(t, len(e.nodes), last.Nodes)
	assert.Equal(t, st.Used(), last.Used)
	assert.GreaterOrEqual(t, last.Used, 3)

	// the snapshot does not share the history of the engine
	st.History[0].Nodes = -1
	assert.NotEqual(t, -1, e.history[0].Nodes)
}

func TestCollect(t *testing.T) {
	d := testDomain(t, 3)
	e := d.e
	s := d.NewSet()
	s.Add([]int{1, 2, 3})
	tmp := d.NewSet()
	tmp.Add([]int{4, 5, 6})
	free := len(e.free)
	tmp.Destroy()
	e.Collect()
	assert.Equal(t, free+3, len(e.free), "nodes of a destroyed set are reclaimed")
	assert.True(t, s.Member([]int{1, 2, 3}))
	assert.Equal(t, uint64(5), s.NodeCount())
	assert.Zero(t, e.marks.Count(), "marks are cleared after a collection")

	// the cache does not keep entries on reclaimed nodes
	a, b := d.NewSet(), d.NewSet()
	a.Add([]int{7, 7, 7})
	b.Add([]int{8, 8, 8})
	a.Union(b)
	a.Minus(s)
	assert.Positive(t, e.Snapshot().CacheMisses)
	a.Destroy()
	b.Destroy()
	e.Collect()
	freed := make(map[NodeID]bool)
	for _, n := range e.free {
		freed[n] = true
	}
	for _, entry := range e.opcache.table {
		if entry.op == opUnused {
			continue
		}
		for _, n := range []NodeID{entry.a, entry.b, entry.c, entry.proj, entry.res} {
			assert.False(t, freed[n], "entry %v refers to free node %d", entry.op, n)
		}
	}
}

func TestTableFull(t *testing.T) {
	d := testDomain(t, 3, Nodestep(6), Maxstep(6))
	s := d.NewSet()
	err := Catch(func() {
		for k := 0; k < 20; k++ {
			s.Add([]int{0, 0, k})
		}
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTableFull)
}

func TestStackRootsSurvive(t *testing.T) {
	d := testDomain(t, 2, Nodestep(6))
	e := d.e
	fr := e.frame()
	isnew := false
	n := e.pushref(e.put(False, []uint32{7, 7}, &isnew))
	// fill the table with garbage
	for k := 0; k < 50; k++ {
		e.put(False, []uint32{uint32(k), 1}, &isnew)
	}
	e.Collect()
	assert.True(t, e.member(n, []uint32{7, 7}))
	e.unwind(fr)
}
