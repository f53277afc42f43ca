package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mikekucharski/COMP603-2015/pkg/driver"
)

func (f *runFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.input, "input", "", "read program input from `file` instead of stdin")
	cmd.Flags().StringVar(&f.eof, "eof", "", "what ',' does at end of input: leave, zero or error")
	cmd.Flags().BoolVar(&f.lenient, "lenient", false, "close unbalanced loops at end of input instead of failing")
}

// resolveJobs reports a missing input as "bf: No input files." followed by
// usage, with exit status 1.
func (a *app) resolveJobs(cmd *cobra.Command, args []string) ([]job, error) {
	jobs, err := a.jobs(args)
	if err == errNoInputFiles {
		fmt.Fprintf(a.stderr, "bf: %v\n", err)
		fmt.Fprint(a.stderr, cmd.UsageString())
		return nil, &exitError{code: 1, err: errReported}
	}
	return jobs, err
}

func (a *app) runDefault(cmd *cobra.Command, args []string, flags runFlags) error {
	jobs, err := a.resolveJobs(cmd, args)
	if err != nil {
		return err
	}
	return a.each(jobs, func(j job) error {
		switch j.backend() {
		case driver.BackendPrint:
			return a.execPrint(j, flags.lenient)
		case driver.BackendCompile:
			return a.execCompile(j, compileFlags{}, len(jobs) > 1)
		default:
			return a.execRun(j, flags)
		}
	})
}

func newRunCmd(a *app) *cobra.Command {
	var flags runFlags
	cmd := &cobra.Command{
		Use:   "run [file|target|@source/path]...",
		Short: "Execute programs on the tape interpreter",
		RunE: func(cmd *cobra.Command, args []string) error {
			jobs, err := a.resolveJobs(cmd, args)
			if err != nil {
				return err
			}
			return a.each(jobs, func(j job) error { return a.execRun(j, flags) })
		},
	}
	flags.register(cmd)
	return cmd
}

func newPrintCmd(a *app) *cobra.Command {
	var lenient bool
	cmd := &cobra.Command{
		Use:   "print [file|target|@source/path]...",
		Short: "Print the canonical form of programs",
		RunE: func(cmd *cobra.Command, args []string) error {
			jobs, err := a.resolveJobs(cmd, args)
			if err != nil {
				return err
			}
			return a.each(jobs, func(j job) error { return a.execPrint(j, lenient) })
		},
	}
	cmd.Flags().BoolVar(&lenient, "lenient", false, "close unbalanced loops at end of input instead of failing")
	return cmd
}

func newCompileCmd(a *app) *cobra.Command {
	var flags compileFlags
	cmd := &cobra.Command{
		Use:   "compile [file|target|@source/path]...",
		Short: "Translate programs to Java or Go source",
		Long: `compile writes one source file per program. Without -o the source goes to
stdout. Java classes are named after the program file unless --class or the
config sets a name.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			jobs, err := a.resolveJobs(cmd, args)
			if err != nil {
				return err
			}
			return a.each(jobs, func(j job) error { return a.execCompile(j, flags, len(jobs) > 1) })
		},
	}
	cmd.Flags().StringVarP(&flags.target, "target", "t", "", "target language: java or go")
	cmd.Flags().StringVarP(&flags.outDir, "out", "o", "", "write generated files into `dir`")
	cmd.Flags().StringVar(&flags.className, "class", "", "Java class name")
	cmd.Flags().StringVar(&flags.pkg, "package", "", "Go package clause")
	return cmd
}

func newCheckCmd(a *app) *cobra.Command {
	var lenient bool
	cmd := &cobra.Command{
		Use:   "check [file|target|@source/path]...",
		Short: "Parse programs and report diagnostics and statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			jobs, err := a.resolveJobs(cmd, args)
			if err != nil {
				return err
			}
			return a.each(jobs, func(j job) error { return a.execCheck(j, lenient) })
		},
	}
	cmd.Flags().BoolVar(&lenient, "lenient", false, "close unbalanced loops at end of input instead of failing")
	return cmd
}
