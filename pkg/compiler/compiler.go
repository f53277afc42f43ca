// Package compiler translates a parsed program into source code for another
// language. The emitted program runs the same tape machine as the
// interpreter: a fixed array of cells, one cursor, console input and
// output.
package compiler

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/mikekucharski/COMP603-2015/pkg/ast"
)

// Target selects the emitted language.
type Target string

const (
	TargetJava Target = "java"
	TargetGo   Target = "go"
)

const (
	DefaultClassName = "Helloworld"
	DefaultTapeSize  = 30000
)

// ParseTarget accepts a target name as written on the command line.
func ParseTarget(value string) (Target, error) {
	switch Target(strings.ToLower(strings.TrimSpace(value))) {
	case "", TargetJava:
		return TargetJava, nil
	case TargetGo, "golang":
		return TargetGo, nil
	default:
		return "", fmt.Errorf("compiler: unknown target %q (expected java or go)", value)
	}
}

type Options struct {
	Target Target
	// ClassName names the generated Java class.
	ClassName string
	// PackageName is the Go package clause; only "main" produces a
	// runnable program.
	PackageName string
	TapeSize    int
}

type Result struct {
	Files    map[string][]byte
	Warnings []string
}

type Compiler struct {
	opts Options
}

func New(opts Options) *Compiler {
	if opts.Target == "" {
		opts.Target = TargetJava
	}
	if opts.ClassName == "" {
		opts.ClassName = DefaultClassName
	} else {
		opts.ClassName = javaIdent(opts.ClassName)
	}
	if opts.PackageName == "" {
		opts.PackageName = "main"
	}
	if opts.TapeSize <= 0 {
		opts.TapeSize = DefaultTapeSize
	}
	return &Compiler{opts: opts}
}

func (c *Compiler) Options() Options {
	return c.opts
}

// Compile renders program into a single source file keyed by its file name.
func (c *Compiler) Compile(program *ast.Program) (*Result, error) {
	if program == nil {
		return nil, fmt.Errorf("compiler: missing program")
	}
	d, err := dialectFor(c.opts.Target)
	if err != nil {
		return nil, err
	}
	gen := newGenerator(c.opts, d)
	gen.collect(program)
	src, err := gen.render(program)
	if err != nil {
		return nil, err
	}
	return &Result{
		Files:    map[string][]byte{d.fileName(c.opts): src},
		Warnings: gen.warnings,
	}, nil
}

// Emit writes the generated source for program to w.
func (c *Compiler) Emit(w io.Writer, program *ast.Program) error {
	result, err := c.Compile(program)
	if err != nil {
		return err
	}
	for _, data := range result.Files {
		if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
			return fmt.Errorf("compiler: write output: %w", err)
		}
	}
	return nil
}

func (r *Result) Write(dir string) error {
	if r == nil {
		return fmt.Errorf("compiler: nil result")
	}
	return writeFiles(dir, r.Files)
}
