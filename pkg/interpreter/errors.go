package interpreter

import (
	"errors"
	"fmt"

	"github.com/mikekucharski/COMP603-2015/pkg/ast"
)

var (
	// ErrOutOfBounds reports a cell access with the cursor outside the tape.
	ErrOutOfBounds = errors.New("cursor out of bounds")
	// ErrUnexpectedEOF reports input exhaustion under EOFError.
	ErrUnexpectedEOF = errors.New("unexpected end of input")
)

// RuntimeError carries the machine position at the point of failure.
type RuntimeError struct {
	Err    error
	Cursor int
	Span   ast.Span
}

func (e *RuntimeError) Error() string {
	if e == nil || e.Err == nil {
		return ""
	}
	if e.Span.Start.IsValid() {
		return fmt.Sprintf("interpreter: %s at %s (cursor %d)", e.Err, e.Span.Start, e.Cursor)
	}
	return fmt.Sprintf("interpreter: %s (cursor %d)", e.Err, e.Cursor)
}

func (e *RuntimeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
