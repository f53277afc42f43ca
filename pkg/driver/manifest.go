package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	ManifestFileName = "bf.yml"
	LockfileFileName = "bf.lock"
	ConfigFileName   = "bf.toml"
)

// Manifest represents the parsed contents of bf.yml.
type Manifest struct {
	Path        string
	Name        string
	Version     string
	Targets     map[string]*TargetSpec
	TargetOrder []string
	Sources     map[string]*SourceSpec

	targetEntries []manifestTargetEntry
}

// Backend names the tree consumer a target feeds its program to.
type Backend string

const (
	BackendRun     Backend = "run"
	BackendPrint   Backend = "print"
	BackendCompile Backend = "compile"
)

func (b Backend) IsValid() bool {
	switch b {
	case BackendRun, BackendPrint, BackendCompile:
		return true
	default:
		return false
	}
}

// TargetSpec describes one runnable program declared in the manifest.
type TargetSpec struct {
	Name          string
	OriginalName  string
	Main          string
	Backend       Backend
	Input         string
	CompileTarget string
	ClassName     string
}

type manifestTargetEntry struct {
	sanitized string
	spec      *TargetSpec
}

// SourceSpec describes a named collection of programs fetched by
// `bf deps install`.
type SourceSpec struct {
	Git    string
	Rev    string
	Tag    string
	Branch string
	Path   string
}

// ValidationError aggregates manifest validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "manifest: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("manifest validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

var (
	ErrNoTarget         = errors.New("manifest: no targets defined")
	ErrManifestNotFound = errors.New(ManifestFileName + " not found")
)

// LoadManifest parses bf.yml from disk, returning a validated manifest.
func LoadManifest(path string) (*Manifest, error) {
	if path == "" {
		return nil, fmt.Errorf("manifest: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("manifest: open %s: %w", absPath, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var raw manifestFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("manifest: %s is empty", absPath)
		}
		return nil, fmt.Errorf("manifest: parse %s: %w", absPath, err)
	}

	manifest := raw.toManifest(absPath)
	if err := manifest.validate(); err != nil {
		return nil, err
	}
	return manifest, nil
}

// FindManifest walks up from start until it finds bf.yml.
func FindManifest(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("manifest: resolve start directory %q: %w", start, err)
	}
	if info, statErr := os.Stat(dir); statErr == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	origin := dir
	for {
		candidate := filepath.Join(dir, ManifestFileName)
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no %s found from %s upwards: %w", ManifestFileName, origin, ErrManifestNotFound)
		}
		dir = parent
	}
}

// Dir is the directory relative paths in the manifest are resolved from.
func (m *Manifest) Dir() string {
	if m == nil || m.Path == "" {
		return ""
	}
	return filepath.Dir(m.Path)
}

// ResolvePath anchors a manifest-relative path. Source references
// (@name/...) and absolute paths are returned unchanged.
func (m *Manifest) ResolvePath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" || IsSourceRef(path) || filepath.IsAbs(path) || m.Dir() == "" {
		return path
	}
	return filepath.Join(m.Dir(), path)
}

func (m *Manifest) LockfilePath() string {
	return filepath.Join(m.Dir(), LockfileFileName)
}

func (m *Manifest) validate() error {
	var errs ValidationError
	if m.Name == "" {
		errs.Issues = append(errs.Issues, "name must be provided")
	}

	targetNames := make(map[string]string, len(m.targetEntries))
	for _, entry := range m.targetEntries {
		target := entry.spec
		if target == nil {
			continue
		}
		if other, exists := targetNames[entry.sanitized]; exists {
			errs.Issues = append(errs.Issues, fmt.Sprintf("targets %q and %q collide after sanitization", other, target.OriginalName))
		} else {
			targetNames[entry.sanitized] = target.OriginalName
		}
		if target.Main == "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("target %q requires a main program path", target.OriginalName))
		}
		if !target.Backend.IsValid() {
			errs.Issues = append(errs.Issues, fmt.Sprintf("target %q has unsupported backend %q", target.OriginalName, target.Backend))
		}
		switch strings.ToLower(target.CompileTarget) {
		case "", "java", "go", "golang":
		default:
			errs.Issues = append(errs.Issues, fmt.Sprintf("target %q has unsupported compile_target %q", target.OriginalName, target.CompileTarget))
		}
		if target.Backend != BackendCompile && (target.CompileTarget != "" || target.ClassName != "") {
			errs.Issues = append(errs.Issues, fmt.Sprintf("target %q sets compiler options without backend compile", target.OriginalName))
		}
		if target.Backend != BackendRun && target.Input != "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("target %q sets input without backend run", target.OriginalName))
		}
	}

	for name, source := range m.Sources {
		if source == nil {
			continue
		}
		if strings.ContainsAny(name, `/\@`) {
			errs.Issues = append(errs.Issues, fmt.Sprintf("sources.%s: name must not contain '/', '\\' or '@'", name))
		}
		for _, issue := range source.validate() {
			errs.Issues = append(errs.Issues, fmt.Sprintf("sources.%s: %s", name, issue))
		}
	}

	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

func (s *SourceSpec) validate() []string {
	var errs []string
	switch {
	case s.Git == "" && s.Path == "":
		errs = append(errs, "must specify git or path")
	case s.Git != "" && s.Path != "":
		errs = append(errs, "git and path sources are mutually exclusive")
	}
	pins := 0
	for _, pin := range []string{s.Rev, s.Tag, s.Branch} {
		if pin != "" {
			pins++
		}
	}
	if s.Git != "" && pins == 0 {
		errs = append(errs, "git sources require rev, tag, or branch")
	}
	if pins > 1 {
		errs = append(errs, "specify only one of rev, tag, or branch")
	}
	if s.Path != "" && pins > 0 {
		errs = append(errs, "path sources cannot pin a revision")
	}
	return errs
}

// DefaultTarget returns the first target in manifest order.
func (m *Manifest) DefaultTarget() (*TargetSpec, error) {
	if m == nil {
		return nil, ErrNoTarget
	}
	for _, entry := range m.targetEntries {
		if entry.spec != nil {
			return entry.spec, nil
		}
	}
	return nil, ErrNoTarget
}

// FindTarget looks up a target by sanitized or original name.
func (m *Manifest) FindTarget(name string) (*TargetSpec, bool) {
	if m == nil {
		return nil, false
	}
	key := sanitizeSegment(name)
	if key != "" {
		if target, ok := m.Targets[key]; ok && target != nil {
			return target, true
		}
	}
	for _, entry := range m.targetEntries {
		if entry.spec == nil {
			continue
		}
		if strings.EqualFold(entry.spec.OriginalName, strings.TrimSpace(name)) {
			return entry.spec, true
		}
	}
	return nil, false
}

type manifestFile struct {
	Name    string    `yaml:"name"`
	Version string    `yaml:"version"`
	Targets targetMap `yaml:"targets"`
	Sources sourceMap `yaml:"sources"`
}

type targetYAML struct {
	Main          string `yaml:"main"`
	Backend       string `yaml:"backend"`
	Input         string `yaml:"input"`
	CompileTarget string `yaml:"compile_target"`
	ClassName     string `yaml:"class_name"`
}

type targetMap struct {
	items []targetMapEntry
}

type targetMapEntry struct {
	name string
	spec *targetYAML
}

// UnmarshalYAML keeps declaration order so the first target is the
// default. A scalar value is shorthand for {main: value}.
func (tm *targetMap) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == 0 || (value.Kind == yaml.ScalarNode && value.Tag == "!!null") {
		tm.items = nil
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("manifest: targets must be a mapping")
	}
	items := make([]targetMapEntry, 0, len(value.Content)/2)
	for i := 0; i < len(value.Content); i += 2 {
		keyNode := value.Content[i]
		valueNode := value.Content[i+1]

		var key string
		if err := keyNode.Decode(&key); err != nil {
			return err
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("manifest: targets must not use empty keys")
		}
		entry := new(targetYAML)
		switch valueNode.Kind {
		case yaml.ScalarNode:
			if err := valueNode.Decode(&entry.Main); err != nil {
				return fmt.Errorf("manifest: target %q: %w", key, err)
			}
		case yaml.MappingNode:
			if err := valueNode.Decode(entry); err != nil {
				return fmt.Errorf("manifest: target %q: %w", key, err)
			}
		default:
			return fmt.Errorf("manifest: target %q: expected string or mapping, found %s", key, valueNode.ShortTag())
		}
		items = append(items, targetMapEntry{name: key, spec: entry})
	}
	tm.items = items
	return nil
}

type sourceMap map[string]*SourceSpec

func (sm *sourceMap) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == 0 || (value.Kind == yaml.ScalarNode && value.Tag == "!!null") {
		*sm = make(sourceMap)
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("manifest: sources must be a mapping")
	}
	result := make(sourceMap, len(value.Content)/2)
	for i := 0; i < len(value.Content); i += 2 {
		var key string
		if err := value.Content[i].Decode(&key); err != nil {
			return err
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("manifest: source names must be non-empty")
		}
		var raw struct {
			Git    string `yaml:"git"`
			Rev    string `yaml:"rev"`
			Tag    string `yaml:"tag"`
			Branch string `yaml:"branch"`
			Path   string `yaml:"path"`
		}
		valNode := value.Content[i+1]
		if valNode.Kind != yaml.MappingNode {
			return fmt.Errorf("manifest: source %q: expected mapping, found %s", key, valNode.ShortTag())
		}
		if err := valNode.Decode(&raw); err != nil {
			return fmt.Errorf("manifest: source %q: %w", key, err)
		}
		result[key] = &SourceSpec{
			Git:    strings.TrimSpace(raw.Git),
			Rev:    strings.TrimSpace(raw.Rev),
			Tag:    strings.TrimSpace(raw.Tag),
			Branch: strings.TrimSpace(raw.Branch),
			Path:   strings.TrimSpace(raw.Path),
		}
	}
	*sm = result
	return nil
}

func (mf manifestFile) toManifest(path string) *Manifest {
	capacity := len(mf.Targets.items)
	result := &Manifest{
		Path:          path,
		Name:          sanitizeSegment(mf.Name),
		Version:       strings.TrimSpace(mf.Version),
		Targets:       make(map[string]*TargetSpec, capacity),
		TargetOrder:   make([]string, 0, capacity),
		Sources:       make(map[string]*SourceSpec, len(mf.Sources)),
		targetEntries: make([]manifestTargetEntry, 0, capacity),
	}
	for name, source := range mf.Sources {
		if source == nil {
			continue
		}
		copy := *source
		result.Sources[name] = &copy
	}

	for _, item := range mf.Targets.items {
		if item.spec == nil {
			continue
		}
		original := strings.TrimSpace(item.name)
		sanitized := sanitizeSegment(original)
		backend := Backend(strings.ToLower(strings.TrimSpace(item.spec.Backend)))
		if backend == "" {
			backend = BackendRun
		}
		spec := &TargetSpec{
			Name:          sanitized,
			OriginalName:  original,
			Main:          strings.TrimSpace(item.spec.Main),
			Backend:       backend,
			Input:         strings.TrimSpace(item.spec.Input),
			CompileTarget: strings.TrimSpace(item.spec.CompileTarget),
			ClassName:     strings.TrimSpace(item.spec.ClassName),
		}
		if _, exists := result.Targets[sanitized]; !exists {
			result.Targets[sanitized] = spec
			result.TargetOrder = append(result.TargetOrder, sanitized)
		}
		result.targetEntries = append(result.targetEntries, manifestTargetEntry{
			sanitized: sanitized,
			spec:      spec,
		})
	}
	return result
}

func sanitizeSegment(seg string) string {
	seg = strings.TrimSpace(seg)
	seg = strings.ReplaceAll(seg, "-", "_")
	return seg
}
