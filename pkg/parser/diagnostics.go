package parser

import (
	"errors"
	"fmt"

	"github.com/mikekucharski/COMP603-2015/pkg/ast"
)

// ErrorKind classifies parse failures.
type ErrorKind string

const (
	UnbalancedLoop ErrorKind = "UnbalancedLoop"
)

// ErrUnbalancedLoop matches every *ParseError of kind UnbalancedLoop.
var ErrUnbalancedLoop = errors.New("parser: unbalanced loop")

// SourceLocation captures a source span for parser diagnostics.
type SourceLocation struct {
	Line      int
	Column    int
	EndLine   int
	EndColumn int
}

// ParseError includes a message plus a best-effort source location.
type ParseError struct {
	Kind     ErrorKind
	Message  string
	Location SourceLocation
}

func (e *ParseError) Error() string {
	return e.Message
}

func (e *ParseError) Is(target error) bool {
	return target == ErrUnbalancedLoop && e.Kind == UnbalancedLoop
}

func unmatchedOpen(at ast.Position) *ParseError {
	return &ParseError{
		Kind:     UnbalancedLoop,
		Message:  "parser: unmatched '[' (loop is never closed)",
		Location: locationFor(at),
	}
}

func strayClose(at ast.Position) *ParseError {
	return &ParseError{
		Kind:     UnbalancedLoop,
		Message:  "parser: unexpected ']' with no matching '['",
		Location: locationFor(at),
	}
}

func locationFor(at ast.Position) SourceLocation {
	return SourceLocation{
		Line:      at.Line,
		Column:    at.Column,
		EndLine:   at.Line,
		EndColumn: at.Column + 1,
	}
}

func readError(err error) error {
	return fmt.Errorf("parser: read: %w", err)
}
