package parser

import "github.com/mikekucharski/COMP603-2015/pkg/ast"

// FoldLoop rewrites a loop whose only child is a single '+' or '-' into a
// Zero command carrying the loop's span. Any other loop is returned as is.
func FoldLoop(loop *ast.Loop) (ast.Node, bool) {
	if loop == nil || loop.Len() != 1 {
		return loop, false
	}
	child, ok := loop.Children[0].(*ast.CommandNode)
	if !ok || child.Count != 1 {
		return loop, false
	}
	if child.Command != ast.Increment && child.Command != ast.Decrement {
		return loop, false
	}
	zero := ast.NewCommandNode(ast.Zero, 1)
	ast.SetSpan(zero, loop.Span())
	return zero, true
}
