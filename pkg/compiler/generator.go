package compiler

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/mikekucharski/COMP603-2015/pkg/ast"
)

type generator struct {
	opts     Options
	dialect  dialect
	buf      bytes.Buffer
	depth    int
	warnings []string
	uses     usage
}

// usage summarises what a program does to its cells.
type usage struct {
	commands map[ast.Command]bool
	// wraps is set when some cell may pass 255 or drop below 0.
	wraps bool
}

func newGenerator(opts Options, d dialect) *generator {
	return &generator{
		opts:    opts,
		dialect: d,
		uses:    usage{commands: make(map[ast.Command]bool)},
	}
}

// collect records which commands occur so dialects can warn about
// behaviour that differs from the interpreter.
func (g *generator) collect(program *ast.Program) {
	straight := 0
	ast.Inspect(program, func(node ast.Node, depth int) bool {
		cmd, ok := node.(*ast.CommandNode)
		if !ok {
			return true
		}
		g.uses.commands[cmd.Command] = true
		switch cmd.Command {
		case ast.Decrement:
			g.uses.wraps = true
		case ast.Increment:
			// top-level increments (depth 1) run once, so only their sum matters
			if depth > 1 {
				g.uses.wraps = true
			} else {
				straight += cmd.Count
			}
		}
		return true
	})
	if straight > 255 {
		g.uses.wraps = true
	}
	g.warnings = append(g.warnings, g.dialect.warnings(g.opts, g.uses)...)
}

func (g *generator) render(program *ast.Program) ([]byte, error) {
	if err := g.visit(program); err != nil {
		return nil, err
	}
	return g.dialect.finish(g.buf.Bytes())
}

func (g *generator) visit(node ast.Node) error {
	switch n := node.(type) {
	case *ast.CommandNode:
		return g.visitCommand(n)
	case *ast.Loop:
		return g.visitLoop(n)
	case *ast.Program:
		return g.visitProgram(n)
	default:
		return fmt.Errorf("compiler: unsupported node %T", node)
	}
}

func (g *generator) visitCommand(n *ast.CommandNode) error {
	switch n.Command {
	case ast.Increment:
		g.line(g.dialect.add(n.Count))
	case ast.Decrement:
		g.line(g.dialect.sub(n.Count))
	case ast.ShiftLeft:
		g.line(g.dialect.left(n.Count))
	case ast.ShiftRight:
		g.line(g.dialect.right(n.Count))
	case ast.Input:
		for i := 0; i < n.Count; i++ {
			g.lines(g.dialect.input())
		}
	case ast.Output:
		for i := 0; i < n.Count; i++ {
			g.line(g.dialect.output())
		}
	case ast.Zero:
		g.line(g.dialect.zero())
	default:
		return fmt.Errorf("compiler: unknown command %s", n.Command)
	}
	return nil
}

func (g *generator) visitLoop(n *ast.Loop) error {
	open, end := g.dialect.loop()
	g.line(open)
	g.depth++
	if err := ast.Walk(n.Children, g.visit); err != nil {
		return err
	}
	g.depth--
	g.line(end)
	return nil
}

func (g *generator) visitProgram(n *ast.Program) error {
	g.depth = 0
	g.lines(g.dialect.preamble(g.opts))
	g.depth = g.dialect.bodyDepth()
	if err := ast.Walk(n.Children, g.visit); err != nil {
		return err
	}
	g.depth = 0
	g.lines(g.dialect.closing())
	return nil
}

func (g *generator) line(text string) {
	g.buf.WriteString(strings.Repeat(g.dialect.indent(), g.depth))
	g.buf.WriteString(text)
	g.buf.WriteByte('\n')
}

// lines writes a block whose own relative indentation is preserved.
func (g *generator) lines(block []string) {
	for _, text := range block {
		if text == "" {
			g.buf.WriteByte('\n')
			continue
		}
		g.line(text)
	}
}
