// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package ldd

// functions for Fibonacci sizing of tables

// fib returns the n-th Fibonacci number, with fib(0) == 0 and fib(1) == 1. We
// use it to compute the size of the node table, the unique table and the
// operation cache from a "step" value. Growing by one step multiplies the size
// of a table by roughly 1.618, which is gentler than doubling. The value of n is
// clamped to [0.._MAXSTEP] so that the result always fits in an int.
func fib(n int) int {
	if n < 0 {
		n = 0
	}
	if n > _MAXSTEP {
		n = _MAXSTEP
	}
	a, b := 0, 1
	for ; n > 0; n-- {
		a, b = b, a+b
	}
	return a
}

// fibsize returns fib(n) but never less than 1, which is the size we use for
// tables that must always have at least one slot.
func fibsize(n int) int {
	if r := fib(n); r > 0 {
		return r
	}
	return 1
}
