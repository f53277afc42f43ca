package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mikekucharski/COMP603-2015/pkg/driver"
)

func newDepsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deps",
		Short: "Install program sources declared in bf.yml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return fmt.Errorf("bf deps requires a subcommand (install, update)")
		},
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "install",
			Short: "Fetch missing sources and write bf.lock",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.depsInstall(nil, false)
			},
		},
		&cobra.Command{
			Use:   "update [source]...",
			Short: "Refetch the named sources, or all of them",
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.depsInstall(args, true)
			},
		},
	)
	return cmd
}

// depsInstall resolves sources against bf.lock. With refresh set, the lock
// entries for names (or every entry when names is empty) are dropped first
// so those sources are fetched again.
func (a *app) depsInstall(names []string, refresh bool) error {
	if a.manifest == nil {
		return fmt.Errorf("unable to locate %s: %w", driver.ManifestFileName, driver.ErrManifestNotFound)
	}
	manifest := a.manifest
	cacheDir, err := a.cfg.CacheDir()
	if err != nil {
		return fmt.Errorf("resolve cache directory: %w", err)
	}

	fmt.Fprintf(a.stdout, "Manifest: %s\n", manifest.Path)
	fmt.Fprintf(a.stdout, "Project: %s\n", manifest.Name)
	fmt.Fprintf(a.stdout, "Sources: %d\n", len(manifest.Sources))
	fmt.Fprintf(a.stdout, "Cache directory: %s\n", cacheDir)

	lockPath := manifest.LockfilePath()
	lock, err := driver.LoadLockfile(lockPath)
	lockCreated := false
	switch {
	case err == nil:
		if lock.Root != manifest.Name {
			return fmt.Errorf("lockfile root %q does not match manifest name %q", lock.Root, manifest.Name)
		}
	case errors.Is(err, os.ErrNotExist):
		lock = driver.NewLockfile(manifest.Name, cliToolVersion)
		lockCreated = true
	default:
		return fmt.Errorf("failed to read lockfile: %w", err)
	}
	lock.Path = lockPath
	lock.Tool = cliToolVersion

	refreshed := false
	if refresh {
		if refreshed, err = dropLocked(manifest, lock, names); err != nil {
			return err
		}
	}

	installer := newSourceInstaller(manifest, cacheDir)
	changed, logs, err := installer.Install(lock)
	for _, line := range logs {
		fmt.Fprintln(a.stdout, line)
	}
	if err != nil {
		return fmt.Errorf("failed to install sources: %w", err)
	}

	if changed || refreshed || lockCreated {
		action := "Updated"
		if lockCreated {
			action = "Created"
		}
		if err := driver.WriteLockfile(lock, lockPath); err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "%s %s: %s\n", action, driver.LockfileFileName, lock.Path)
	} else {
		fmt.Fprintf(a.stdout, "%s already up to date: %s\n", driver.LockfileFileName, lock.Path)
	}

	fmt.Fprintln(a.stdout, "Sources installed.")
	return nil
}

// dropLocked removes lock entries so Install fetches them again. Names
// must be declared in the manifest.
func dropLocked(manifest *driver.Manifest, lock *driver.Lockfile, names []string) (bool, error) {
	if len(names) == 0 {
		dropped := len(lock.Sources) > 0
		lock.Sources = lock.Sources[:0]
		return dropped, nil
	}
	var unknown []string
	drop := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, ok := manifest.Sources[name]; !ok {
			unknown = append(unknown, name)
			continue
		}
		if entry := lock.Find(name); entry != nil {
			drop[entry.Name] = struct{}{}
		}
	}
	if len(unknown) > 0 {
		return false, fmt.Errorf("sources not declared in %s: %s", driver.ManifestFileName, strings.Join(unknown, ", "))
	}
	kept := lock.Sources[:0]
	for _, src := range lock.Sources {
		if _, ok := drop[src.Name]; ok {
			continue
		}
		kept = append(kept, src)
	}
	lock.Sources = kept
	return len(drop) > 0, nil
}
