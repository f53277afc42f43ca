package driver

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mikekucharski/COMP603-2015/pkg/interpreter"
	"github.com/mikekucharski/COMP603-2015/pkg/parser"
)

// DiagnosticSeverity captures parser diagnostic levels.
type DiagnosticSeverity string

const (
	SeverityError   DiagnosticSeverity = "error"
	SeverityWarning DiagnosticSeverity = "warning"
)

// DiagnosticLocation references a source span for diagnostics.
type DiagnosticLocation struct {
	Path      string
	Line      int
	Column    int
	EndLine   int
	EndColumn int
}

// ParserDiagnostic represents a structured parser diagnostic.
type ParserDiagnostic struct {
	Severity DiagnosticSeverity
	Message  string
	Location DiagnosticLocation
}

// ParserDiagnosticError wraps a diagnostic for error handling.
type ParserDiagnosticError struct {
	Diagnostic ParserDiagnostic
	Err        error
}

func (e *ParserDiagnosticError) Error() string {
	return DescribeParserDiagnostic(e.Diagnostic)
}

func (e *ParserDiagnosticError) Unwrap() error {
	return e.Err
}

// DiagnosticFromError extracts a parser diagnostic from err. The second
// result is false when err did not come from the parser.
func DiagnosticFromError(path string, err error) (ParserDiagnostic, bool) {
	var parseErr *parser.ParseError
	if !errors.As(err, &parseErr) {
		return ParserDiagnostic{}, false
	}
	return ParserDiagnostic{
		Severity: SeverityError,
		Message:  parseErr.Message,
		Location: DiagnosticLocation{
			Path:      path,
			Line:      parseErr.Location.Line,
			Column:    parseErr.Location.Column,
			EndLine:   parseErr.Location.EndLine,
			EndColumn: parseErr.Location.EndColumn,
		},
	}, true
}

// DescribeParserDiagnostic formats a parser diagnostic for CLI output.
func DescribeParserDiagnostic(diag ParserDiagnostic) string {
	message := strings.TrimSpace(diag.Message)
	if strings.HasPrefix(message, "parser:") {
		message = strings.TrimSpace(strings.TrimPrefix(message, "parser:"))
	}
	location := formatDiagnosticLocation(diag.Location)
	prefix := "parser: "
	if diag.Severity == SeverityWarning {
		prefix = "warning: parser: "
	}
	if location != "" {
		return fmt.Sprintf("%s%s %s", prefix, location, message)
	}
	return fmt.Sprintf("%s%s", prefix, message)
}

// DescribeRuntimeError formats an interpreter failure as
// "runtime: path:line:col message (cursor N)".
func DescribeRuntimeError(path string, err error) string {
	var rtErr *interpreter.RuntimeError
	if !errors.As(err, &rtErr) {
		message := strings.TrimPrefix(err.Error(), "interpreter: ")
		if path != "" {
			return fmt.Sprintf("runtime: %s %s", path, message)
		}
		return "runtime: " + message
	}
	location := formatDiagnosticLocation(DiagnosticLocation{
		Path:   path,
		Line:   rtErr.Span.Start.Line,
		Column: rtErr.Span.Start.Column,
	})
	if location == "" {
		return fmt.Sprintf("runtime: %s (cursor %d)", rtErr.Err, rtErr.Cursor)
	}
	return fmt.Sprintf("runtime: %s %s (cursor %d)", location, rtErr.Err, rtErr.Cursor)
}

func formatDiagnosticLocation(loc DiagnosticLocation) string {
	path := strings.TrimSpace(loc.Path)
	line := loc.Line
	column := loc.Column
	switch {
	case path != "" && line > 0 && column > 0:
		return fmt.Sprintf("%s:%d:%d", path, line, column)
	case path != "" && line > 0:
		return fmt.Sprintf("%s:%d", path, line)
	case path != "":
		return path
	case line > 0 && column > 0:
		return fmt.Sprintf("line %d, column %d", line, column)
	case line > 0:
		return fmt.Sprintf("line %d", line)
	default:
		return ""
	}
}
