// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package ldd

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testEngine returns an engine with small tables, so that garbage collections
// and resizing happen in the tests.
func testEngine(t testing.TB, options ...Option) *Engine {
	t.Helper()
	e, err := New(append([]Option{Nodestep(10), Stackstep(6)}, options...)...)
	require.NoError(t, err)
	return e
}

func testDomain(t testing.TB, size int, options ...Option) *Domain {
	t.Helper()
	d, err := testEngine(t, options...).NewDomain(size)
	require.NoError(t, err)
	return d
}

//********************************************************************************************

func TestFib(t *testing.T) {
	var fibTests = []struct {
		n, expected int
	}{
		{-3, 0},
		{0, 0},
		{1, 1},
		{2, 1},
		{6, 8},
		{10, 55},
		{30, 832040},
		{92, 7540113804746346429},
		{100, 7540113804746346429},
	}
	for _, tt := range fibTests {
		assert.Equal(t, tt.expected, fib(tt.n), "fib(%d)", tt.n)
	}
	assert.Equal(t, 1, fibsize(0))
	assert.Equal(t, 13, fibsize(7))
}

func TestMakenode(t *testing.T) {
	e := testEngine(t)
	assert.Equal(t, True, e.makenode(3, False, True), "empty down edge is elided")
	assert.Equal(t, False, e.makenode(3, False, False))

	a := e.makenode(3, True, False)
	b := e.makenode(3, True, False)
	assert.Equal(t, a, b, "nodes are unique")
	assert.Greater(t, a, True)
	c := e.makenode(1, True, a)
	assert.NotEqual(t, a, c)
	assert.Equal(t, uint32(1), e.nodes[c].value)
	assert.Equal(t, a, e.nodes[c].right)
	assert.Equal(t, 2, e.produced)
}

func TestMakenodeOrder(t *testing.T) {
	e := testEngine(t)
	a := e.makenode(3, True, False)
	for _, v := range []uint32{3, 4} {
		err := Catch(func() { e.makenode(v, True, a) })
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrOrder), "value %d before 3", v)
		var fe *FatalError
		require.ErrorAs(t, err, &fe)
		assert.Contains(t, fe.Error(), "bad sibling order")
	}
}

func TestCatchPropagates(t *testing.T) {
	assert.NoError(t, Catch(func() {}))
	assert.PanicsWithValue(t, "boom", func() {
		_ = Catch(func() { panic("boom") })
	})
}

func TestStack(t *testing.T) {
	e := testEngine(t)
	capacity := cap(e.stack)
	fr := e.frame()
	for k := 0; k <= capacity; k++ {
		e.pushref(True)
	}
	assert.Greater(t, cap(e.stack), capacity, "operand stack grows")
	e.popref(1)
	assert.Equal(t, fr+capacity, e.frame())
	e.unwind(fr)
	assert.Equal(t, fr, e.frame())
	err := Catch(func() { e.popref(1) })
	assert.ErrorIs(t, err, ErrUnderflow)
}

func TestConfigCheck(t *testing.T) {
	var configTests = []struct {
		name    string
		options []Option
	}{
		{"small step", []Option{Nodestep(_MINSTEP - 1)}},
		{"large step", []Option{Nodestep(_MAXSTEP + 1)}},
		{"max below step", []Option{Nodestep(12), Maxstep(11)}},
		{"stack step", []Option{Stackstep(0)}},
	}
	for _, tt := range configTests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.options...)
			assert.Error(t, err)
		})
	}
	e := testEngine(t, Cachediff(-2))
	assert.Equal(t, fibsize(8), len(e.opcache.table))
}

func TestCacheValidation(t *testing.T) {
	e := testEngine(t)
	assert.Equal(t, "copy-match", opCopyMatch.String())
	assert.Equal(t, "unknown", opcode(99).String())
	err := Catch(func() { e.valid(&cacheEntry{cacheKey: cacheKey{op: opcode(99)}}) })
	assert.ErrorIs(t, err, ErrMissingCase)
	assert.Contains(t, err.Error(), "unknown")
}
