package parser

import (
	"fmt"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"

	"github.com/mikekucharski/COMP603-2015/pkg/ast"
)

func checkSpan(t testing.TB, label string, span ast.Span, startLine, startCol, endLine, endCol int) {
	t.Helper()
	if span.Start.Line != startLine || span.Start.Column != startCol {
		t.Fatalf("%s start span mismatch: got (%d,%d), want (%d,%d)", label, span.Start.Line, span.Start.Column, startLine, startCol)
	}
	if span.End.Line != endLine || span.End.Column != endCol {
		t.Fatalf("%s end span mismatch: got (%d,%d), want (%d,%d)", label, span.End.Line, span.End.Column, endLine, endCol)
	}
}

// shape renders a tree without spans: commands as Name*Count, loops as
// [ ... ].
func shape(node ast.Node) string {
	var b strings.Builder
	writeShape(&b, node)
	return strings.TrimSpace(b.String())
}

func writeShape(b *strings.Builder, node ast.Node) {
	switch n := node.(type) {
	case *ast.CommandNode:
		fmt.Fprintf(b, "%s*%d ", n.Command, n.Count)
	case *ast.Loop:
		b.WriteString("[ ")
		for _, child := range n.Children {
			writeShape(b, child)
		}
		b.WriteString("] ")
	case *ast.Program:
		for _, child := range n.Children {
			writeShape(b, child)
		}
	default:
		fmt.Fprintf(b, "?%T ", node)
	}
}

func assertShape(t testing.TB, got ast.Node, want ast.Node) {
	t.Helper()
	if shape(got) != shape(want) {
		t.Fatalf("tree mismatch\nexpected: %s\n   actual: %s\n%s", shape(want), shape(got), spew.Sdump(got))
	}
}

func mustParse(t testing.TB, src string) *ast.Program {
	t.Helper()
	program, err := ParseString(src)
	if err != nil {
		t.Fatalf("ParseString(%q) returned error: %v", src, err)
	}
	return program
}
