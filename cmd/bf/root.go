package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mikekucharski/COMP603-2015/pkg/driver"
)

// app holds the state shared by every subcommand of one invocation.
type app struct {
	stdin  *bufio.Reader
	stdout io.Writer
	stderr io.Writer

	cfgFile string
	verbose bool

	cfg      *driver.Config
	manifest *driver.Manifest
	log      *slog.Logger
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	a := &app{
		stdin:  bufio.NewReader(stdin),
		stdout: stdout,
		stderr: stderr,
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	var flags runFlags

	root := &cobra.Command{
		Use:   "bf [file|target|@source/path]...",
		Short: "Parse, run, print and compile tape-machine programs",
		Long: `bf parses programs written in the eight-symbol tape language and hands
each one to a backend:

  run      execute on a 30000-cell tape
  print    re-emit the canonical form
  compile  translate to Java or Go source
  check    report diagnostics and statistics

With no subcommand each argument runs with the backend its manifest target
selects (run by default). With no arguments the first target in bf.yml is used.`,
		Version:       cliToolVersion,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runDefault(cmd, args, flags)
		},
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetVersionTemplate("{{.Version}}\n")
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		fmt.Fprintln(stderr, cmd.UsageString())
		return &exitError{code: 2, err: err}
	})

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "tool config file (default: bf.toml next to bf.yml, or in the working directory)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log each step to stderr")
	flags.register(root)

	root.AddCommand(
		newRunCmd(a),
		newPrintCmd(a),
		newCompileCmd(a),
		newCheckCmd(a),
		newDepsCmd(a),
	)
	return root
}

// setup loads the optional manifest and the tool config. Flags applied by
// each subcommand override the config afterwards.
func (a *app) setup() error {
	if a.verbose {
		a.log = slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	manifest, err := a.findManifest()
	if err != nil {
		return err
	}
	a.manifest = manifest

	cfgPath := a.cfgFile
	if cfgPath == "" {
		cfgPath = a.defaultConfigPath()
	}
	if cfgPath == "" {
		a.cfg = driver.DefaultConfig()
		a.log.Debug("using default config")
		return nil
	}
	cfg, err := driver.LoadConfig(cfgPath)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log.Debug("loaded config", "path", cfgPath)
	return nil
}

func (a *app) findManifest() (*driver.Manifest, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("determine working directory: %w", err)
	}
	path, err := driver.FindManifest(cwd)
	if errors.Is(err, driver.ErrManifestNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	manifest, err := driver.LoadManifest(path)
	if err != nil {
		return nil, err
	}
	a.log.Debug("loaded manifest", "path", manifest.Path, "targets", len(manifest.TargetOrder), "sources", len(manifest.Sources))
	return manifest, nil
}

func (a *app) defaultConfigPath() string {
	var candidates []string
	if a.manifest != nil {
		candidates = append(candidates, filepath.Join(a.manifest.Dir(), driver.ConfigFileName))
	}
	candidates = append(candidates, driver.ConfigFileName)
	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}

func (a *app) lockfile() *driver.Lockfile {
	if a.manifest == nil {
		return nil
	}
	lock, err := driver.LoadLockfile(a.manifest.LockfilePath())
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			a.log.Debug("ignoring unreadable lockfile", "path", a.manifest.LockfilePath(), "error", err)
		}
		return nil
	}
	return lock
}

func (a *app) loader(lenient bool) *driver.Loader {
	opts := driver.LoaderOptions{Parser: a.cfg.ParserOptions(), Lockfile: a.lockfile()}
	if lenient {
		opts.Parser.Lenient = true
	}
	if opts.Lockfile != nil {
		if dir, err := a.cfg.CacheDir(); err == nil {
			opts.CacheDir = dir
		}
	}
	return driver.NewLoader(opts)
}
