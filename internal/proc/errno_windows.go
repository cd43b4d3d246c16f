//go:build windows

package proc

import "golang.org/x/sys/windows"

// errNoSuchProcess is what OpenProcess reports for a PID that no longer exists.
var errNoSuchProcess error = windows.ERROR_INVALID_PARAMETER
