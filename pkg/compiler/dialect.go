package compiler

import (
	"fmt"
	"go/format"

	"github.com/mikekucharski/COMP603-2015/pkg/ast"
)

// dialect supplies the statement forms for one target language. The
// generator owns traversal and indentation.
type dialect interface {
	fileName(opts Options) string
	indent() string
	bodyDepth() int
	preamble(opts Options) []string
	closing() []string

	add(n int) string
	sub(n int) string
	left(n int) string
	right(n int) string
	input() []string
	output() string
	zero() string
	loop() (open, end string)

	warnings(opts Options, uses usage) []string
	finish(src []byte) ([]byte, error)
}

func dialectFor(target Target) (dialect, error) {
	switch target {
	case TargetJava:
		return javaDialect{}, nil
	case TargetGo:
		return goDialect{}, nil
	default:
		return nil, fmt.Errorf("compiler: unknown target %q", target)
	}
}

type javaDialect struct{}

func (javaDialect) fileName(opts Options) string { return opts.ClassName + ".java" }
func (javaDialect) indent() string               { return "    " }
func (javaDialect) bodyDepth() int               { return 2 }

func (javaDialect) preamble(opts Options) []string {
	return []string{
		"import java.util.Scanner;",
		"",
		fmt.Sprintf("class %s {", opts.ClassName),
		"    public static void main(String[] args) {",
		fmt.Sprintf("        char[] box = new char[%d];", opts.TapeSize),
		"        int i = 0;",
		"        Scanner s = new Scanner(System.in);",
	}
}

func (javaDialect) closing() []string {
	return []string{"    }", "}"}
}

func (javaDialect) add(n int) string   { return fmt.Sprintf("box[i] += %d;", n) }
func (javaDialect) sub(n int) string   { return fmt.Sprintf("box[i] -= %d;", n) }
func (javaDialect) left(n int) string  { return fmt.Sprintf("i -= %d;", n) }
func (javaDialect) right(n int) string { return fmt.Sprintf("i += %d;", n) }
func (javaDialect) input() []string    { return []string{"box[i] = s.next().charAt(0);"} }
func (javaDialect) output() string     { return "System.out.print(box[i]);" }
func (javaDialect) zero() string       { return "box[i] = 0;" }

func (javaDialect) loop() (string, string) {
	return "while (box[i] != 0) {", "}"
}

func (javaDialect) warnings(opts Options, uses usage) []string {
	var out []string
	if uses.commands[ast.Input] {
		out = append(out, fmt.Sprintf("%s.java: input reads whitespace-separated tokens, so spaces and newlines are never stored", opts.ClassName))
	}
	if uses.wraps {
		out = append(out, fmt.Sprintf("%s.java: cells are 16-bit chars, so values below 0 or above 255 do not wrap as bytes", opts.ClassName))
	}
	return out
}

func (javaDialect) finish(src []byte) ([]byte, error) { return src, nil }

type goDialect struct{}

func (goDialect) fileName(Options) string { return "main.go" }
func (goDialect) indent() string          { return "\t" }
func (goDialect) bodyDepth() int          { return 1 }

func (goDialect) preamble(opts Options) []string {
	return []string{
		"package " + opts.PackageName,
		"",
		"import (",
		"\t\"bufio\"",
		"\t\"os\"",
		")",
		"",
		fmt.Sprintf("var box [%d]byte", opts.TapeSize),
		"var i int",
		"var in = bufio.NewReader(os.Stdin)",
		"var out = bufio.NewWriter(os.Stdout)",
		"",
		"func main() {",
		"\tdefer out.Flush()",
	}
}

func (goDialect) closing() []string { return []string{"}"} }

// Cells are bytes, so counts are reduced mod 256 to keep constants in range.
func (goDialect) add(n int) string   { return fmt.Sprintf("box[i] += %d", n%256) }
func (goDialect) sub(n int) string   { return fmt.Sprintf("box[i] -= %d", n%256) }
func (goDialect) left(n int) string  { return fmt.Sprintf("i -= %d", n) }
func (goDialect) right(n int) string { return fmt.Sprintf("i += %d", n) }

func (goDialect) input() []string {
	return []string{
		"out.Flush()",
		"if c, err := in.ReadByte(); err == nil {",
		"\tbox[i] = c",
		"}",
	}
}

func (goDialect) output() string { return "out.WriteByte(box[i])" }
func (goDialect) zero() string   { return "box[i] = 0" }

func (goDialect) loop() (string, string) {
	return "for box[i] != 0 {", "}"
}

func (goDialect) warnings(Options, usage) []string { return nil }

func (goDialect) finish(src []byte) ([]byte, error) {
	out, err := format.Source(src)
	if err != nil {
		return nil, fmt.Errorf("compiler: format generated source: %w", err)
	}
	return out, nil
}
