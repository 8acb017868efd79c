package config

import (
	"os"
	"path/filepath"
	"strings"
)

type Loader interface {
	Load() (map[string]any, error)
}

// securePaths normalizes candidate paths and drops relative paths that
// climb out of the working directory.
func securePaths(paths []string) []string {
	resolved := make([]string, 0, len(paths))
	for _, path := range paths {
		if path == "" {
			continue
		}
		if filepath.IsAbs(path) {
			resolved = append(resolved, filepath.Clean(path))
			continue
		}
		clean := filepath.Clean(path)
		if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
			continue
		}
		abs, err := filepath.Abs(clean)
		if err != nil {
			continue
		}
		resolved = append(resolved, abs)
	}
	return resolved
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
