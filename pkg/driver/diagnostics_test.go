package driver

import (
	"errors"
	"testing"

	"github.com/mikekucharski/COMP603-2015/pkg/interpreter"
	"github.com/mikekucharski/COMP603-2015/pkg/parser"
)

func TestDescribeParserDiagnostic(t *testing.T) {
	cases := []struct {
		name string
		diag ParserDiagnostic
		want string
	}{
		{
			name: "full location",
			diag: ParserDiagnostic{Severity: SeverityError, Message: "parser: unexpected ']'", Location: DiagnosticLocation{Path: "a.bf", Line: 3, Column: 7}},
			want: "parser: a.bf:3:7 unexpected ']'",
		},
		{
			name: "line only",
			diag: ParserDiagnostic{Message: "oops", Location: DiagnosticLocation{Path: "a.bf", Line: 2}},
			want: "parser: a.bf:2 oops",
		},
		{
			name: "no path",
			diag: ParserDiagnostic{Message: "oops", Location: DiagnosticLocation{Line: 2, Column: 4}},
			want: "parser: line 2, column 4 oops",
		},
		{
			name: "warning",
			diag: ParserDiagnostic{Severity: SeverityWarning, Message: "odd"},
			want: "warning: parser: odd",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DescribeParserDiagnostic(tc.diag); got != tc.want {
				t.Fatalf("DescribeParserDiagnostic = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestDiagnosticFromError(t *testing.T) {
	_, err := parser.ParseString("++]")
	diag, ok := DiagnosticFromError("x.bf", err)
	if !ok {
		t.Fatalf("expected a parser diagnostic from %v", err)
	}
	if diag.Location != (DiagnosticLocation{Path: "x.bf", Line: 1, Column: 3, EndLine: 1, EndColumn: 4}) {
		t.Fatalf("Location = %#v", diag.Location)
	}
	if _, ok := DiagnosticFromError("x.bf", errors.New("other")); ok {
		t.Fatalf("plain errors are not parser diagnostics")
	}
}

func TestDescribeRuntimeError(t *testing.T) {
	program, err := parser.ParseString("\n <.")
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	runErr := interpreter.New(interpreter.Options{}).Run(program)
	if got, want := DescribeRuntimeError("x.bf", runErr), "runtime: x.bf:2:3 cursor out of bounds (cursor -1)"; got != want {
		t.Fatalf("DescribeRuntimeError = %q, want %q", got, want)
	}
	if got, want := DescribeRuntimeError("x.bf", errors.New("interpreter: write output: closed")), "runtime: x.bf write output: closed"; got != want {
		t.Fatalf("DescribeRuntimeError = %q, want %q", got, want)
	}
}
