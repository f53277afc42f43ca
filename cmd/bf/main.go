package main

import (
	"errors"
	"fmt"
	"io"
	"os"
)

const cliToolVersion = "bf 0.1.0-dev"

// exitError carries a process exit code out of a command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

// errReported marks a failure whose diagnostics were already written.
var errReported = errors.New("failure already reported")

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := newRootCmd(stdin, stdout, stderr)
	if args == nil {
		// cobra falls back to os.Args when given nil
		args = []string{}
	}
	root.SetArgs(args)
	err := root.Execute()
	if err == nil {
		return 0
	}
	code := 1
	var exitErr *exitError
	if errors.As(err, &exitErr) {
		code = exitErr.code
	}
	if !errors.Is(err, errReported) {
		fmt.Fprintf(stderr, "bf: %v\n", err)
	}
	return code
}
