// Package printer re-serialises an AST in canonical source form. A folded
// clear is always printed as "[+]", so printing is not an inverse of
// parsing, but parsing the printed text and printing again is stable.
package printer

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/mikekucharski/COMP603-2015/pkg/ast"
)

const zeroIdiom = "[+]"

type printer struct {
	out *bufio.Writer
}

// Print writes node to w. A Program is followed by a newline.
func Print(w io.Writer, node ast.Node) error {
	p := &printer{out: bufio.NewWriter(w)}
	if err := p.visit(node); err != nil {
		return err
	}
	return p.out.Flush()
}

// String returns the canonical text for node.
func String(node ast.Node) string {
	var buf bytes.Buffer
	if err := Print(&buf, node); err != nil {
		return ""
	}
	return buf.String()
}

func (p *printer) visit(node ast.Node) error {
	switch n := node.(type) {
	case *ast.CommandNode:
		return p.visitCommand(n)
	case *ast.Loop:
		return p.visitLoop(n)
	case *ast.Program:
		return p.visitProgram(n)
	default:
		return fmt.Errorf("printer: unsupported node %T", node)
	}
}

func (p *printer) visitCommand(n *ast.CommandNode) error {
	if n.Command == ast.Zero {
		_, err := p.out.WriteString(zeroIdiom)
		return err
	}
	sym, ok := n.Command.Symbol()
	if !ok {
		return fmt.Errorf("printer: unknown command %s", n.Command)
	}
	for i := 0; i < n.Count; i++ {
		if err := p.out.WriteByte(sym); err != nil {
			return err
		}
	}
	return nil
}

func (p *printer) visitLoop(n *ast.Loop) error {
	if err := p.out.WriteByte('['); err != nil {
		return err
	}
	if err := ast.Walk(n.Children, p.visit); err != nil {
		return err
	}
	return p.out.WriteByte(']')
}

func (p *printer) visitProgram(n *ast.Program) error {
	if err := ast.Walk(n.Children, p.visit); err != nil {
		return err
	}
	return p.out.WriteByte('\n')
}
