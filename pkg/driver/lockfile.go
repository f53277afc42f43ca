package driver

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Lockfile models the bf.lock contents.
type Lockfile struct {
	Path      string
	Root      string
	Generated string
	Tool      string
	Sources   []*LockedSource
}

// LockedSource pins one fetched program source.
type LockedSource struct {
	Name     string
	Version  string
	Source   string
	Checksum string
}

// NewLockfile constructs a lockfile with metadata seeded for the provided root.
func NewLockfile(root, tool string) *Lockfile {
	return &Lockfile{
		Root:      sanitizeSegment(root),
		Generated: time.Now().UTC().Format(time.RFC3339),
		Tool:      strings.TrimSpace(tool),
		Sources:   []*LockedSource{},
	}
}

// LoadLockfile parses bf.lock from disk.
func LoadLockfile(path string) (*Lockfile, error) {
	if path == "" {
		return nil, fmt.Errorf("lockfile: empty path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("lockfile: resolve %s: %w", path, err)
	}
	file, err := os.Open(abs)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var raw lockfileDisk
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("lockfile: parse %s: %w", abs, err)
	}

	lock := raw.toLockfile()
	lock.Path = abs
	return lock, nil
}

// WriteLockfile serialises the lockfile back to disk, refreshing metadata.
func WriteLockfile(lock *Lockfile, path string) error {
	if lock == nil {
		return fmt.Errorf("lockfile: nil lockfile")
	}
	if path == "" {
		if lock.Path == "" {
			return fmt.Errorf("lockfile: missing path")
		}
		path = lock.Path
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("lockfile: resolve %s: %w", path, err)
	}

	if lock.Generated == "" {
		lock.Generated = time.Now().UTC().Format(time.RFC3339)
	}
	lock.Path = abs
	lock.normalize()

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(lock.toDisk()); err != nil {
		return fmt.Errorf("lockfile: marshal %s: %w", abs, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("lockfile: encoder close: %w", err)
	}
	if err := os.WriteFile(abs, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("lockfile: write %s: %w", abs, err)
	}
	return nil
}

// Find returns the entry for name, matching the sanitized form.
func (l *Lockfile) Find(name string) *LockedSource {
	if l == nil {
		return nil
	}
	key := sanitizeSegment(name)
	for _, src := range l.Sources {
		if src != nil && src.Name == key {
			return src
		}
	}
	return nil
}

// Upsert replaces the entry with the same name or appends a new one. It
// reports whether the lockfile changed.
func (l *Lockfile) Upsert(entry *LockedSource) bool {
	if l == nil || entry == nil {
		return false
	}
	entry.Name = sanitizeSegment(entry.Name)
	for idx, existing := range l.Sources {
		if existing == nil || existing.Name != entry.Name {
			continue
		}
		if *existing == *entry {
			return false
		}
		l.Sources[idx] = entry
		return true
	}
	l.Sources = append(l.Sources, entry)
	l.normalize()
	return true
}

func (l *Lockfile) normalize() {
	if l == nil {
		return
	}
	l.Root = sanitizeSegment(l.Root)
	l.Tool = strings.TrimSpace(l.Tool)
	out := l.Sources[:0]
	for _, src := range l.Sources {
		if src == nil {
			continue
		}
		src.Name = sanitizeSegment(src.Name)
		src.Version = strings.TrimSpace(src.Version)
		src.Source = strings.TrimSpace(src.Source)
		src.Checksum = strings.TrimSpace(src.Checksum)
		out = append(out, src)
	}
	l.Sources = out
	sort.SliceStable(l.Sources, func(i, j int) bool {
		return l.Sources[i].Name < l.Sources[j].Name
	})
}

func (l *Lockfile) toDisk() lockfileDisk {
	sources := make([]lockfileSource, 0, len(l.Sources))
	for _, src := range l.Sources {
		if src == nil {
			continue
		}
		sources = append(sources, lockfileSource{
			Name:     src.Name,
			Version:  src.Version,
			Source:   src.Source,
			Checksum: src.Checksum,
		})
	}
	return lockfileDisk{
		Root:      l.Root,
		Generated: l.Generated,
		Tool:      l.Tool,
		Sources:   sources,
	}
}

type lockfileDisk struct {
	Root      string           `yaml:"root"`
	Generated string           `yaml:"generated"`
	Tool      string           `yaml:"tool"`
	Sources   []lockfileSource `yaml:"sources"`
}

type lockfileSource struct {
	Name     string `yaml:"name"`
	Version  string `yaml:"version"`
	Source   string `yaml:"source"`
	Checksum string `yaml:"checksum"`
}

func (d lockfileDisk) toLockfile() *Lockfile {
	lock := &Lockfile{
		Root:      d.Root,
		Generated: strings.TrimSpace(d.Generated),
		Tool:      d.Tool,
		Sources:   make([]*LockedSource, 0, len(d.Sources)),
	}
	for _, src := range d.Sources {
		lock.Sources = append(lock.Sources, &LockedSource{
			Name:     src.Name,
			Version:  src.Version,
			Source:   src.Source,
			Checksum: src.Checksum,
		})
	}
	lock.normalize()
	return lock
}
