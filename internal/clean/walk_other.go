//go:build !windows

package clean

import (
	"io/fs"
	"os"
	"path/filepath"
)

// isReparsePoint reports whether path is a symlink. WalkDir never follows
// links, so this only guards the root itself.
func isReparsePoint(path string) bool {
	info, err := os.Lstat(path)
	return err == nil && info.Mode()&fs.ModeSymlink != 0
}

func longPath(path string) string { return path }

func normalizePath(path string) string {
	return filepath.Clean(path)
}
