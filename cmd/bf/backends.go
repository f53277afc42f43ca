package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mikekucharski/COMP603-2015/pkg/ast"
	"github.com/mikekucharski/COMP603-2015/pkg/compiler"
	"github.com/mikekucharski/COMP603-2015/pkg/driver"
	"github.com/mikekucharski/COMP603-2015/pkg/interpreter"
	"github.com/mikekucharski/COMP603-2015/pkg/printer"
)

type runFlags struct {
	input   string
	eof     string
	lenient bool
}

type compileFlags struct {
	target    string
	outDir    string
	className string
	pkg       string
}

// each runs fn over every job and keeps going after a failure. Failures
// are written to stderr as they happen.
func (a *app) each(jobs []job, fn func(job) error) error {
	failed := false
	for _, j := range jobs {
		if err := fn(j); err != nil {
			fmt.Fprintln(a.stderr, err)
			failed = true
		}
	}
	if failed {
		return errReported
	}
	return nil
}

func (a *app) load(j job, lenient bool) (*driver.Program, error) {
	program, err := a.loader(lenient).Load(j.path)
	if err != nil {
		return nil, err
	}
	stats := ast.Collect(program.AST)
	a.log.Debug("parsed program",
		"path", program.Path,
		"commands", stats.Commands,
		"loops", stats.Loops,
		"zeros", stats.Zeros,
		"depth", stats.MaxDepth,
	)
	return program, nil
}

func (a *app) execRun(j job, flags runFlags) error {
	program, err := a.load(j, flags.lenient)
	if err != nil {
		return err
	}

	opts := a.cfg.InterpreterOptions()
	if flags.eof != "" {
		policy, err := interpreter.ParseEOFPolicy(flags.eof)
		if err != nil {
			return err
		}
		opts.EOF = policy
	}
	opts.Output = a.stdout
	opts.Input = a.stdin

	inputPath := flags.input
	if inputPath == "" && j.target != nil && j.target.Input != "" {
		inputPath = a.manifest.ResolvePath(j.target.Input)
	}
	if inputPath != "" {
		f, err := os.Open(inputPath)
		if err != nil {
			return fmt.Errorf("open input %s: %w", inputPath, err)
		}
		defer f.Close()
		opts.Input = f
	}

	a.log.Debug("running", "path", program.Path, "tape", opts.TapeSize, "eof", opts.EOF.String())
	if err := interpreter.New(opts).Run(program.AST); err != nil {
		return errors.New(driver.DescribeRuntimeError(program.Path, err))
	}
	return nil
}

func (a *app) execPrint(j job, lenient bool) error {
	program, err := a.load(j, lenient)
	if err != nil {
		return err
	}
	if err := printer.Print(a.stdout, program.AST); err != nil {
		return fmt.Errorf("print %s: %w", program.Path, err)
	}
	return nil
}

func (a *app) execCompile(j job, flags compileFlags, many bool) error {
	program, err := a.load(j, false)
	if err != nil {
		return err
	}

	opts := a.cfg.CompilerOptions()
	targetName := flags.target
	if targetName == "" && j.target != nil {
		targetName = j.target.CompileTarget
	}
	if targetName != "" {
		target, err := compiler.ParseTarget(targetName)
		if err != nil {
			return err
		}
		opts.Target = target
	}
	perFile := false
	switch {
	case flags.className != "":
		opts.ClassName = flags.className
	case j.target != nil && j.target.ClassName != "":
		opts.ClassName = j.target.ClassName
	case opts.ClassName == "":
		opts.ClassName = compiler.ClassNameFor(program.Path)
		perFile = true
	}
	if flags.pkg != "" {
		opts.PackageName = flags.pkg
	}

	result, err := compiler.New(opts).Compile(program.AST)
	if err != nil {
		return err
	}
	for _, warning := range result.Warnings {
		fmt.Fprintf(a.stderr, "warning: compiler: %s: %s\n", program.Path, warning)
	}

	if flags.outDir == "" {
		for _, data := range result.Files {
			if _, err := a.stdout.Write(data); err != nil {
				return fmt.Errorf("write %s: %w", program.Path, err)
			}
		}
		return nil
	}

	dir := flags.outDir
	if many && (opts.Target == compiler.TargetGo || !perFile) {
		// the output file name would be shared, so each program gets its own directory
		dir = filepath.Join(dir, stem(program.Path))
	}
	if err := result.Write(dir); err != nil {
		return err
	}
	for name := range result.Files {
		a.log.Debug("wrote", "file", filepath.Join(dir, name))
	}
	return nil
}

func (a *app) execCheck(j job, lenient bool) error {
	program, err := a.load(j, lenient)
	if err != nil {
		return err
	}
	ast.Inspect(program.AST, func(node ast.Node, _ int) bool {
		if loop, ok := node.(*ast.Loop); ok && loop.Len() == 0 {
			start := loop.Span().Start
			fmt.Fprintln(a.stderr, driver.DescribeParserDiagnostic(driver.ParserDiagnostic{
				Severity: driver.SeverityWarning,
				Message:  "empty loop never terminates when entered with a nonzero cell",
				Location: driver.DiagnosticLocation{Path: program.Path, Line: start.Line, Column: start.Column},
			}))
		}
		return true
	})
	stats := ast.Collect(program.AST)
	fmt.Fprintf(a.stdout, "%s: ok (%d commands, %d operations, %d loops, %d cleared, max depth %d)\n",
		program.Path, stats.Commands, stats.Operations, stats.Loops, stats.Zeros, stats.MaxDepth)
	return nil
}

func stem(path string) string {
	base := filepath.Base(strings.TrimPrefix(path, "@"))
	return strings.TrimSuffix(base, filepath.Ext(base))
}
