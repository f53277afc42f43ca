package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/mikekucharski/COMP603-2015/pkg/driver"
)

type sourceFetcher interface {
	Fetch(name string, spec *driver.SourceSpec) (*driver.LockedSource, error)
}

// sourceInstaller brings the cache and the lockfile in line with the
// sources declared in a manifest.
type sourceInstaller struct {
	manifest *driver.Manifest
	cacheDir string
	git      sourceFetcher
	path     sourceFetcher
	logs     []string
}

func newSourceInstaller(manifest *driver.Manifest, cacheDir string) *sourceInstaller {
	return &sourceInstaller{
		manifest: manifest,
		cacheDir: cacheDir,
		git:      newGitFetcher(cacheDir),
		path:     &pathFetcher{cacheDir: cacheDir, manifest: manifest},
		logs:     []string{},
	}
}

// Install fetches every declared source that is missing from the lockfile
// or the cache and drops lock entries the manifest no longer declares.
func (i *sourceInstaller) Install(lock *driver.Lockfile) (bool, []string, error) {
	if lock == nil {
		return false, nil, fmt.Errorf("installer: nil lockfile")
	}
	names := make([]string, 0, len(i.manifest.Sources))
	for name := range i.manifest.Sources {
		names = append(names, name)
	}
	sort.Strings(names)

	changed := false
	declared := make(map[string]struct{}, len(names))
	for _, name := range names {
		spec := i.manifest.Sources[name]
		if existing := lock.Find(name); existing != nil && i.installed(existing) {
			declared[existing.Name] = struct{}{}
			i.logf("Using %s %s", existing.Name, existing.Version)
			continue
		}
		entry, err := i.fetch(name, spec)
		if err != nil {
			return false, i.logs, err
		}
		if lock.Upsert(entry) {
			changed = true
		}
		declared[entry.Name] = struct{}{}
		i.logf("Installed %s %s (%s)", entry.Name, entry.Version, entry.Source)
	}

	kept := lock.Sources[:0]
	for _, src := range lock.Sources {
		if _, ok := declared[src.Name]; !ok {
			i.logf("Removed %s %s", src.Name, src.Version)
			changed = true
			continue
		}
		kept = append(kept, src)
	}
	lock.Sources = kept
	return changed, i.logs, nil
}

func (i *sourceInstaller) fetch(name string, spec *driver.SourceSpec) (*driver.LockedSource, error) {
	if spec == nil {
		return nil, fmt.Errorf("installer: source %q has no specification", name)
	}
	switch {
	case spec.Path != "":
		return i.path.Fetch(name, spec)
	case spec.Git != "":
		return i.git.Fetch(name, spec)
	default:
		return nil, fmt.Errorf("installer: source %q must specify git or path", name)
	}
}

func (i *sourceInstaller) installed(entry *driver.LockedSource) bool {
	if entry.Version == "" {
		return false
	}
	info, err := os.Stat(driver.SourceDir(i.cacheDir, entry.Name, entry.Version))
	return err == nil && info.IsDir()
}

func (i *sourceInstaller) logf(format string, args ...any) {
	i.logs = append(i.logs, fmt.Sprintf(format, args...))
}
