//go:build !windows

package proc

import "golang.org/x/sys/unix"

// errNoSuchProcess is what kill(2) reports for a PID that already exited.
var errNoSuchProcess error = unix.ESRCH
