//go:build windows

package clean

import "os"

// accessible reports whether path can be opened for reading and writing.
// Read-only and locked files fail the open.
func accessible(path string) bool {
	f, err := os.OpenFile(longPath(path), os.O_RDWR, 0)
	if err != nil {
		return false
	}
	f.Close()
	return true
}
