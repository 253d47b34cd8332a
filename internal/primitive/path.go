package primitive

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ResolvePath makes raw absolute. Relative paths are joined to baseDir.
func ResolvePath(raw, baseDir string) string {
	if filepath.IsAbs(raw) {
		return filepath.Clean(raw)
	}

	return filepath.Join(baseDir, raw)
}

// ExistingPath resolves raw and requires it to name a regular file.
func ExistingPath(raw, baseDir string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", ErrEmptyPath
	}

	p := ResolvePath(raw, baseDir)

	info, err := os.Stat(p)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrPathNotFound, p)
	}

	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%w: %s", ErrNotAFile, p)
	}

	return p, nil
}

// PlannedPath resolves raw without requiring it to exist.
func PlannedPath(raw, baseDir string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", ErrEmptyPath
	}

	return ResolvePath(raw, baseDir), nil
}

// DisplayPath returns abs relative to cwd when it lies inside cwd, and abs
// itself otherwise.
func DisplayPath(abs, cwd string) string {
	if cwd == "" {
		return abs
	}

	rel, err := filepath.Rel(cwd, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return abs
	}

	return rel
}

// DirExists reports whether p is an existing directory.
func DirExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}
