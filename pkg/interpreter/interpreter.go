package interpreter

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mikekucharski/COMP603-2015/pkg/ast"
)

const DefaultTapeSize = 30000

type Options struct {
	// TapeSize is the number of cells; values below 1 select DefaultTapeSize.
	TapeSize int
	EOF      EOFPolicy
	// Input defaults to an empty stream and Output to io.Discard.
	Input  io.Reader
	Output io.Writer
}

type Interpreter struct {
	eof    EOFPolicy
	tape   []byte
	cursor int
	in     *bufio.Reader
	out    *bufio.Writer
}

func New(opts Options) *Interpreter {
	size := opts.TapeSize
	if size <= 0 {
		size = DefaultTapeSize
	}
	input := opts.Input
	if input == nil {
		input = strings.NewReader("")
	}
	output := opts.Output
	if output == nil {
		output = io.Discard
	}
	return &Interpreter{
		eof:  opts.EOF,
		tape: make([]byte, size),
		in:   bufio.NewReader(input),
		out:  bufio.NewWriter(output),
	}
}

// Run executes program on a freshly zeroed tape with the cursor at 0.
// Buffered output is flushed before returning, even on error.
func (i *Interpreter) Run(program *ast.Program) error {
	if program == nil {
		return fmt.Errorf("interpreter: missing program")
	}
	return i.Exec(program)
}

// Exec executes node against the current machine state. Only a Program
// node resets the tape.
func (i *Interpreter) Exec(node ast.Node) (err error) {
	defer func() {
		if flushErr := i.flush(); err == nil {
			err = flushErr
		}
	}()
	return i.visit(node)
}

func (i *Interpreter) visit(node ast.Node) error {
	switch n := node.(type) {
	case *ast.CommandNode:
		return i.visitCommand(n)
	case *ast.Loop:
		return i.visitLoop(n)
	case *ast.Program:
		return i.visitProgram(n)
	default:
		return fmt.Errorf("interpreter: unsupported node %T", node)
	}
}

func (i *Interpreter) visitProgram(n *ast.Program) error {
	clear(i.tape)
	i.cursor = 0
	return ast.Walk(n.Children, i.visit)
}

func (i *Interpreter) visitLoop(n *ast.Loop) error {
	for {
		cell, err := i.cell(n)
		if err != nil {
			return err
		}
		if *cell == 0 {
			return nil
		}
		if err := ast.Walk(n.Children, i.visit); err != nil {
			return err
		}
	}
}

func (i *Interpreter) visitCommand(n *ast.CommandNode) error {
	switch n.Command {
	case ast.ShiftLeft:
		i.cursor -= n.Count
		return nil
	case ast.ShiftRight:
		i.cursor += n.Count
		return nil
	}

	cell, err := i.cell(n)
	if err != nil {
		return err
	}
	switch n.Command {
	case ast.Increment:
		*cell += byte(n.Count)
	case ast.Decrement:
		*cell -= byte(n.Count)
	case ast.Zero:
		*cell = 0
	case ast.Input:
		for k := 0; k < n.Count; k++ {
			if err := i.read(n, cell); err != nil {
				return err
			}
		}
	case ast.Output:
		for k := 0; k < n.Count; k++ {
			if err := i.out.WriteByte(*cell); err != nil {
				return fmt.Errorf("interpreter: write output: %w", err)
			}
		}
	default:
		return fmt.Errorf("interpreter: unknown command %s", n.Command)
	}
	return nil
}

func (i *Interpreter) read(node ast.Node, cell *byte) error {
	if err := i.flush(); err != nil {
		return err
	}
	c, err := i.in.ReadByte()
	if err == nil {
		*cell = c
		return nil
	}
	if !errors.Is(err, io.EOF) {
		return fmt.Errorf("interpreter: read input: %w", err)
	}
	switch i.eof {
	case EOFZero:
		*cell = 0
	case EOFError:
		return i.fail(node, ErrUnexpectedEOF)
	}
	return nil
}

func (i *Interpreter) cell(node ast.Node) (*byte, error) {
	if i.cursor < 0 || i.cursor >= len(i.tape) {
		return nil, i.fail(node, ErrOutOfBounds)
	}
	return &i.tape[i.cursor], nil
}

func (i *Interpreter) fail(node ast.Node, err error) error {
	return &RuntimeError{Err: err, Cursor: i.cursor, Span: node.Span()}
}

func (i *Interpreter) flush() error {
	if err := i.out.Flush(); err != nil {
		return fmt.Errorf("interpreter: write output: %w", err)
	}
	return nil
}

// Cell returns the value at index, or 0 outside the tape.
func (i *Interpreter) Cell(index int) byte {
	if index < 0 || index >= len(i.tape) {
		return 0
	}
	return i.tape[index]
}

func (i *Interpreter) SetCell(index int, value byte) error {
	if index < 0 || index >= len(i.tape) {
		return &RuntimeError{Err: ErrOutOfBounds, Cursor: index}
	}
	i.tape[index] = value
	return nil
}

func (i *Interpreter) Cursor() int {
	return i.cursor
}

// SetCursor moves the cursor without a bounds check; out of range
// positions fail on the next cell access.
func (i *Interpreter) SetCursor(index int) {
	i.cursor = index
}

// Tape returns a copy of the cell array.
func (i *Interpreter) Tape() []byte {
	out := make([]byte, len(i.tape))
	copy(out, i.tape)
	return out
}
