// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package ldd

import (
	"errors"
	"fmt"
)

// Sentinel errors wrapped by a FatalError. Use errors.Is to test for them.
var (
	ErrCorrupt     = errors.New("data corruption")
	ErrOrder       = errors.New("bad sibling order")
	ErrUnderflow   = errors.New("operand stack underflow")
	ErrTableFull   = errors.New("node table full at maximum size")
	ErrLength      = errors.New("non-uniform vector length")
	ErrMissingCase = errors.New("missing case")
	ErrMalformed   = errors.New("malformed diagram stream")
	ErrProjection  = errors.New("incompatible projections")
	ErrReentrant   = errors.New("saturation already running")
	ErrDestroyed   = errors.New("use of a destroyed handle")
	ErrValue       = errors.New("negative value in vector")
)

// FatalError is the value carried by the panics raised by an Engine when one of
// its invariants is violated. Every invariant is needed by all the other
// operations, so the Engine must not be used anymore after such an error.
type FatalError struct {
	Err error  // One of the sentinel errors, like ErrOrder
	Msg string // Context of the failure
}

func (f *FatalError) Error() string {
	if f.Msg == "" {
		return f.Err.Error()
	}
	return f.Err.Error() + ": " + f.Msg
}

func (f *FatalError) Unwrap() error {
	return f.Err
}

// fail logs a fatal condition and panics with a *FatalError.
func (e *Engine) fail(err error, format string, a ...interface{}) {
	fe := &FatalError{Err: err, Msg: fmt.Sprintf(format, a...)}
	e.log.Error("fatal ldd error", "error", fe)
	panic(fe)
}

// Catch calls f and returns the *FatalError raised during the call, if any.
// Other panics are propagated.
func Catch(f func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fe, ok := r.(*FatalError)
			if !ok {
				panic(r)
			}
			err = fe
		}
	}()
	f()
	return nil
}
