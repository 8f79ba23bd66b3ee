package gomap

import (
	"errors"
	"fmt"
)

var (
	// ErrNotRepresentable is returned by Marshaler implementations, and
	// reported for Go kinds such as channels and functions, when a value has
	// no tree form.
	ErrNotRepresentable = errors.New("type not representable")
	ErrCycle            = errors.New("circular reference")
	ErrBadTag           = errors.New("bad struct tag")
	ErrEnum             = errors.New("bad enum")

	ErrKindMismatch = errors.New("kind mismatch")
	ErrMissingField = errors.New("missing field")
	ErrUnknownField = errors.New("unknown field")
	ErrOverflow     = errors.New("value out of range")
	ErrDepth        = errors.New("nesting too deep")
	ErrTarget       = errors.New("bad target")
)

// SerializeError reports a Go value which could not be turned into a tree.
type SerializeError struct {
	Path string
	Msg  string
	Err  error
}

func (e *SerializeError) Error() string {
	msg := e.Msg
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Path != "" {
		return fmt.Sprintf("serialize error at %s: %s", e.Path, msg)
	}
	return fmt.Sprintf("serialize error: %s", msg)
}

func (e *SerializeError) Unwrap() error {
	return e.Err
}

// MaterializeError reports a tree which does not fit its target. Path is
// the location in the tree, Expected and Actual name the kinds involved
// when the error is a mismatch.
type MaterializeError struct {
	Path     string
	Expected string
	Actual   string
	Msg      string
	Err      error
}

func (e *MaterializeError) Error() string {
	msg := e.Msg
	if msg == "" && e.Expected != "" {
		msg = fmt.Sprintf("expected %s, got %s", e.Expected, e.Actual)
	}
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Path != "" {
		return fmt.Sprintf("materialize error at %s: %s", e.Path, msg)
	}
	return fmt.Sprintf("materialize error: %s", msg)
}

func (e *MaterializeError) Unwrap() error {
	return e.Err
}

func mismatch(expected, actual string) *MaterializeError {
	return &MaterializeError{Expected: expected, Actual: actual, Err: ErrKindMismatch}
}
