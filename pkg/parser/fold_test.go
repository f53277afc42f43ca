package parser

import (
	"testing"

	"github.com/mikekucharski/COMP603-2015/pkg/ast"
)

func TestFoldLoopRewritesSingleStepClear(t *testing.T) {
	for _, child := range []*ast.CommandNode{ast.Inc(1), ast.Dec(1)} {
		loop := ast.Lp(child)
		span := ast.Span{
			Start: ast.Position{Offset: 0, Line: 1, Column: 1},
			End:   ast.Position{Offset: 3, Line: 1, Column: 4},
		}
		ast.SetSpan(loop, span)

		node, folded := FoldLoop(loop)
		if !folded {
			t.Fatalf("loop over %s was not folded", child.Command)
		}
		zero, ok := node.(*ast.CommandNode)
		if !ok || zero.Command != ast.Zero || zero.Count != 1 {
			t.Fatalf("folded node = %#v, want Zero*1", node)
		}
		if zero.Span() != span {
			t.Fatalf("folded span = %+v, want %+v", zero.Span(), span)
		}
	}
}

func TestFoldLoopLeavesOtherLoopsAlone(t *testing.T) {
	cases := map[string]*ast.Loop{
		"empty":        ast.Lp(),
		"count two":    ast.Lp(ast.Inc(2)),
		"two children": ast.Lp(ast.Dec(1), ast.Inc(1)),
		"shift":        ast.Lp(ast.Right(1)),
		"input":        ast.Lp(ast.In(1)),
		"zero child":   ast.Lp(ast.Clear()),
		"nested":       ast.Lp(ast.Lp(ast.Dec(1))),
	}
	for name, loop := range cases {
		node, folded := FoldLoop(loop)
		if folded {
			t.Fatalf("%s: loop was folded", name)
		}
		if node != ast.Node(loop) {
			t.Fatalf("%s: FoldLoop returned a different node", name)
		}
	}
}
