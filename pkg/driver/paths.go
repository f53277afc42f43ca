package driver

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

const homeEnv = "BF_HOME"

// DefaultCacheDir returns $BF_HOME, falling back to ~/.bf.
func DefaultCacheDir() (string, error) {
	if home := strings.TrimSpace(os.Getenv(homeEnv)); home != "" {
		abs, err := filepath.Abs(home)
		if err != nil {
			return "", fmt.Errorf("resolve %s %q: %w", homeEnv, home, err)
		}
		return abs, nil
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve user home: %w", err)
	}
	return filepath.Join(userHome, ".bf"), nil
}

// SourceDir is where an installed source version lives inside the cache.
func SourceDir(cacheDir, name, version string) string {
	return filepath.Join(cacheDir, "src", sanitizeSegment(name), SanitizePathSegment(version))
}

// SanitizePathSegment maps an arbitrary revision label onto a single safe
// directory name.
func SanitizePathSegment(segment string) string {
	segment = strings.TrimSpace(segment)
	if segment == "" {
		return "head"
	}
	var b strings.Builder
	for _, r := range segment {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '.' || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	result := b.String()
	if result == "" || result == "." || result == ".." {
		return "head"
	}
	return result
}

// IsSourceRef reports whether p names a program inside an installed
// source, written @name/relative/path.
func IsSourceRef(p string) bool {
	return strings.HasPrefix(strings.TrimSpace(p), "@")
}

// ParseSourceRef splits @name/relative/path. The relative part may not
// climb out of the source directory.
func ParseSourceRef(ref string) (string, string, error) {
	ref = strings.TrimSpace(ref)
	if !strings.HasPrefix(ref, "@") {
		return "", "", fmt.Errorf("loader: %q is not a source reference", ref)
	}
	name, rel, ok := strings.Cut(strings.TrimPrefix(ref, "@"), "/")
	if !ok || name == "" || rel == "" {
		return "", "", fmt.Errorf("loader: source reference %q must look like @name/path", ref)
	}
	clean := path.Clean(rel)
	if clean == ".." || strings.HasPrefix(clean, "../") || path.IsAbs(clean) {
		return "", "", fmt.Errorf("loader: source reference %q escapes the source directory", ref)
	}
	return name, clean, nil
}
