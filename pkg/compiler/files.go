package compiler

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

func writeFiles(dir string, files map[string][]byte) error {
	if dir == "" {
		return fmt.Errorf("compiler: empty output dir")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("compiler: create output dir: %w", err)
	}
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, files[name], 0o644); err != nil {
			return fmt.Errorf("compiler: write %s: %w", name, err)
		}
	}
	return nil
}
