//go:build !windows

package clean

import "golang.org/x/sys/unix"

// accessible reports whether the current user may read and write path.
func accessible(path string) bool {
	return unix.Access(path, unix.R_OK|unix.W_OK) == nil
}
