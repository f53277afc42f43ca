package driver

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mikekucharski/COMP603-2015/pkg/ast"
	"github.com/mikekucharski/COMP603-2015/pkg/parser"
)

func writeProgram(t *testing.T, path, src string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoaderLoadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "add.bf")
	writeProgram(t, path, "+++++[>+++++<-]>.")

	program, err := NewLoader(LoaderOptions{}).Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if program.Path != path || program.File != path || program.AST.Path != path {
		t.Fatalf("paths unexpected: %#v", program)
	}
	stats := ast.Collect(program.AST)
	if stats.Loops != 1 || stats.Commands != 7 {
		t.Fatalf("stats = %#v", stats)
	}
}

func TestLoaderFreshProgramPerFile(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.bf")
	b := filepath.Join(dir, "b.bf")
	writeProgram(t, a, "+")
	writeProgram(t, b, "-")
	loader := NewLoader(LoaderOptions{})
	first, err := loader.Load(a)
	if err != nil {
		t.Fatalf("Load a: %v", err)
	}
	second, err := loader.Load(b)
	if err != nil {
		t.Fatalf("Load b: %v", err)
	}
	if first.AST == second.AST || first.AST.Len() != 1 || second.AST.Len() != 1 {
		t.Fatalf("expected independent programs")
	}
}

func TestLoaderMissingFile(t *testing.T) {
	_, err := NewLoader(LoaderOptions{}).Load(filepath.Join(t.TempDir(), "nope.bf"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected ErrNotExist, got %v", err)
	}
}

func TestLoaderParseDiagnostics(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.bf")
	writeProgram(t, path, "+\n+[")

	_, err := NewLoader(LoaderOptions{}).Load(path)
	if !errors.Is(err, parser.ErrUnbalancedLoop) {
		t.Fatalf("expected ErrUnbalancedLoop, got %v", err)
	}
	var diagErr *ParserDiagnosticError
	if !errors.As(err, &diagErr) {
		t.Fatalf("expected *ParserDiagnosticError, got %T", err)
	}
	want := "parser: " + path + ":2:2 unmatched '[' (loop is never closed)"
	if got := err.Error(); got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}

	lenient, err := NewLoader(LoaderOptions{Parser: parser.Options{Lenient: true}}).Load(path)
	if err != nil {
		t.Fatalf("lenient Load: %v", err)
	}
	if lenient.AST.Len() != 3 {
		t.Fatalf("lenient program children = %d, want 3", lenient.AST.Len())
	}
}

func TestLoaderResolvesSourceRefs(t *testing.T) {
	cache := t.TempDir()
	lock := NewLockfile("demo", "bf")
	lock.Upsert(&LockedSource{Name: "classics", Version: "v1@abc", Source: "git+x@abc", Checksum: "00"})
	writeProgram(t, filepath.Join(SourceDir(cache, "classics", "v1@abc"), "echo", "cat.bf"), ",[.,]")

	loader := NewLoader(LoaderOptions{Lockfile: lock, CacheDir: cache})
	program, err := loader.Load("@classics/echo/cat.bf")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if program.Path != "@classics/echo/cat.bf" {
		t.Fatalf("Path = %q", program.Path)
	}
	if !strings.HasPrefix(program.File, cache) {
		t.Fatalf("File %q not inside cache %q", program.File, cache)
	}

	cases := map[string]string{
		"@missing/a.bf":     "not installed",
		"@classics":         "must look like @name/path",
		"@classics/../x.bf": "escapes",
	}
	for ref, fragment := range cases {
		if _, err := loader.Resolve(ref); err == nil || !strings.Contains(err.Error(), fragment) {
			t.Fatalf("Resolve(%q) = %v, want error containing %q", ref, err, fragment)
		}
	}

	if _, err := NewLoader(LoaderOptions{}).Resolve("@classics/a.bf"); err == nil || !strings.Contains(err.Error(), "bf deps install") {
		t.Fatalf("expected missing lockfile error, got %v", err)
	}
}

func TestLoadReader(t *testing.T) {
	program, err := NewLoader(LoaderOptions{}).LoadReader("<stdin>", strings.NewReader("[-]"))
	if err != nil {
		t.Fatalf("LoadReader: %v", err)
	}
	if program.File != "" || program.Path != "<stdin>" {
		t.Fatalf("program = %#v", program)
	}
	if stats := ast.Collect(program.AST); stats.Zeros != 1 {
		t.Fatalf("stats = %#v", stats)
	}
}
