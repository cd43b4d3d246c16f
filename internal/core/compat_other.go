//go:build !windows

package core

import (
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v4/host"
)

// PlatformString returns a human-readable OS description for view headers,
// e.g. "ubuntu 24.04 (linux)". Falls back to GOOS when host info is unavailable.
func PlatformString() string {
	platform, _, version, err := host.PlatformInformation()
	if err != nil || platform == "" {
		return runtime.GOOS
	}
	return strings.TrimSpace(platform+" "+version) + " (" + runtime.GOOS + ")"
}
