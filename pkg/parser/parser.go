// Package parser turns tape-language source into an AST. Scanning is fused
// into a recursive-descent parser with one byte of lookahead: runs of
// identical operations collapse into a single CommandNode, and a loop
// that only clears the current cell is folded into a Zero command.
package parser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mikekucharski/COMP603-2015/pkg/ast"
)

// Options configures a Parser.
type Options struct {
	// Lenient keeps the historical behaviour for malformed nesting: a loop
	// still open at end of input is closed implicitly, and a stray ']' at
	// the top level ends the parse without an error.
	Lenient bool
	// Path is recorded on the resulting Program.
	Path string
}

type Parser struct {
	opts Options
	in   *bufio.Reader
	pos  ast.Position
}

func New(opts Options) *Parser {
	return &Parser{opts: opts}
}

// Parse reads r to the end in strict mode.
func Parse(r io.Reader) (*ast.Program, error) {
	return New(Options{}).Parse(r)
}

func ParseString(src string) (*ast.Program, error) {
	return Parse(strings.NewReader(src))
}

// Parse builds a fresh Program from r.
func (p *Parser) Parse(r io.Reader) (*ast.Program, error) {
	program := ast.NewProgram()
	program.Path = p.opts.Path
	if err := p.ParseInto(r, program); err != nil {
		return nil, err
	}
	return program, nil
}

// ParseInto appends the nodes read from r to container. For a *ast.Loop
// container a ']' ends the loop; for a *ast.Program it is stray.
func (p *Parser) ParseInto(r io.Reader, container ast.Container) error {
	if p == nil {
		return fmt.Errorf("parser: nil parser")
	}
	if container == nil {
		return fmt.Errorf("parser: nil container")
	}
	if br, ok := r.(*bufio.Reader); ok {
		p.in = br
	} else {
		p.in = bufio.NewReader(r)
	}
	p.pos = ast.Position{Offset: 0, Line: 1, Column: 1}
	defer func() { p.in = nil }()

	_, nested := container.(*ast.Loop)
	closed, err := p.parseBlock(container, nested)
	if err != nil {
		return err
	}
	if nested && !closed && !p.opts.Lenient {
		at := container.Span().Start
		if !at.IsValid() {
			// a fresh loop has no span; point at the start of the input
			at = ast.Position{Line: 1, Column: 1}
		}
		return unmatchedOpen(at)
	}
	return nil
}

// parseBlock consumes input into container until end of input or a ']'.
// It reports whether a ']' was consumed.
func (p *Parser) parseBlock(container ast.Container, nested bool) (bool, error) {
	for {
		start := p.pos
		ch, err := p.next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return false, nil
			}
			return false, readError(err)
		}

		if cmd, ok := ast.CommandForSymbol(ch); ok {
			count := 1
			for {
				ahead, err := p.in.Peek(1)
				if err != nil || ahead[0] != ch {
					break
				}
				if _, err := p.next(); err != nil {
					return false, readError(err)
				}
				count++
			}
			node := ast.NewCommandNode(cmd, count)
			ast.SetSpan(node, ast.Span{Start: start, End: p.pos})
			container.Append(node)
			continue
		}

		switch ch {
		case '[':
			loop := ast.NewLoop()
			closed, err := p.parseBlock(loop, true)
			if err != nil {
				return false, err
			}
			if !closed && !p.opts.Lenient {
				return false, unmatchedOpen(start)
			}
			ast.SetSpan(loop, ast.Span{Start: start, End: p.pos})
			folded, _ := FoldLoop(loop)
			container.Append(folded)
		case ']':
			if !nested && !p.opts.Lenient {
				return false, strayClose(start)
			}
			return true, nil
		}
	}
}

func (p *Parser) next() (byte, error) {
	ch, err := p.in.ReadByte()
	if err != nil {
		return 0, err
	}
	p.pos.Offset++
	if ch == '\n' {
		p.pos.Line++
		p.pos.Column = 1
	} else {
		p.pos.Column++
	}
	return ch, nil
}
