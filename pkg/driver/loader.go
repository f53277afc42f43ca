package driver

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mikekucharski/COMP603-2015/pkg/ast"
	"github.com/mikekucharski/COMP603-2015/pkg/parser"
)

// Program is one parsed input file.
type Program struct {
	// Path is the name the program was requested by, used in diagnostics.
	Path string
	// File is the resolved location on disk; empty for stream input.
	File string
	AST  *ast.Program
}

type LoaderOptions struct {
	Parser parser.Options
	// Lockfile and CacheDir resolve @source/path references.
	Lockfile *Lockfile
	CacheDir string
}

// Loader opens program files and parses each into a fresh Program.
type Loader struct {
	opts LoaderOptions
}

func NewLoader(opts LoaderOptions) *Loader {
	return &Loader{opts: opts}
}

// Load reads and parses the program at path. Parse failures come back as
// *ParserDiagnosticError wrapping the parser's error.
func (l *Loader) Load(path string) (*Program, error) {
	if path == "" {
		return nil, fmt.Errorf("loader: empty path")
	}
	file, err := l.Resolve(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("loader: open %s: %w", path, err)
	}
	defer f.Close()

	program, err := l.LoadReader(path, f)
	if program != nil {
		program.File = file
	}
	return program, err
}

// LoadReader parses r as a program named path.
func (l *Loader) LoadReader(path string, r io.Reader) (*Program, error) {
	opts := l.opts.Parser
	opts.Path = path
	tree, err := parser.New(opts).Parse(r)
	if err != nil {
		if diag, ok := DiagnosticFromError(path, err); ok {
			return nil, &ParserDiagnosticError{Diagnostic: diag, Err: err}
		}
		return nil, err
	}
	return &Program{Path: path, AST: tree}, nil
}

// Resolve maps a requested path onto a file. Plain paths are made
// absolute; @name/rel references are looked up in the lockfile and
// resolved inside the cached copy of that source.
func (l *Loader) Resolve(path string) (string, error) {
	if !IsSourceRef(path) {
		abs, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("loader: resolve %s: %w", path, err)
		}
		return abs, nil
	}
	name, rel, err := ParseSourceRef(path)
	if err != nil {
		return "", err
	}
	if l.opts.Lockfile == nil {
		return "", fmt.Errorf("loader: %s: no %s found; run `bf deps install`", path, LockfileFileName)
	}
	entry := l.opts.Lockfile.Find(name)
	if entry == nil {
		return "", fmt.Errorf("loader: %s: source %q is not installed", path, name)
	}
	if l.opts.CacheDir == "" {
		return "", fmt.Errorf("loader: %s: no cache directory configured", path)
	}
	return filepath.Join(SourceDir(l.opts.CacheDir, entry.Name, entry.Version), filepath.FromSlash(rel)), nil
}
