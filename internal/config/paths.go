package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Target is a category of files the cleaner scans.
type Target struct {
	// Name is the unique identifier for this target.
	Name string

	// Paths is the list of filesystem roots to scan recursively.
	Paths []string

	// Description is a human-readable description.
	Description string
}

// homeDir returns the user's home directory, or "" when unknown.
func homeDir() string {
	h, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return h
}

// localAppData returns the local app data directory.
func localAppData() string {
	if l := os.Getenv("LOCALAPPDATA"); l != "" {
		return l
	}
	return filepath.Join(homeDir(), "AppData", "Local")
}

// winDir returns the Windows directory (e.g., C:\Windows).
// Falls back to C:\Windows only if %WINDIR% is not set.
func winDir() string {
	if w := os.Getenv("WINDIR"); w != "" {
		return w
	}
	return `C:\Windows`
}

// userCacheDir returns the per-user cache root, falling back to ~/.cache.
func userCacheDir() string {
	if d, err := os.UserCacheDir(); err == nil {
		return d
	}
	return filepath.Join(homeDir(), ".cache")
}

// TempRoots returns the fixed temp roots for goos: the OS temp directory
// plus one platform-specific second root.
func TempRoots(goos string) []string {
	roots := []string{os.TempDir()}
	switch goos {
	case "windows":
		roots = append(roots, filepath.Join(winDir(), "Temp"))
	case "darwin":
		roots = append(roots, "/private/var/tmp")
	default:
		roots = append(roots, "/var/tmp")
	}
	return roots
}

// CacheRoots returns the fixed cache roots for goos: the user cache
// directory plus one platform-specific second root.
func CacheRoots(goos string) []string {
	roots := []string{userCacheDir()}
	switch goos {
	case "windows":
		roots = append(roots, filepath.Join(localAppData(), "Temp"))
	case "darwin":
		roots = append(roots, "/Library/Caches")
	default:
		roots = append(roots, "/var/cache")
	}
	return roots
}

// GetTargets returns the temp and cache targets for the running OS, using
// the configured roots when set.
func GetTargets(cfg *Config) (temp, cache Target) {
	temp = Target{
		Name:        "Temp",
		Paths:       DedupeRoots(cfg.TempRoots),
		Description: "Temporary files",
	}
	cache = Target{
		Name:        "Cache",
		Paths:       DedupeRoots(cfg.CacheRoots),
		Description: "Application and system caches",
	}
	return temp, cache
}

// DedupeRoots cleans each root and drops repeats and empty entries.
// Comparison is case-insensitive on Windows, where %TEMP% often points at
// %LOCALAPPDATA%\Temp.
func DedupeRoots(roots []string) []string {
	seen := make(map[string]bool)
	var unique []string
	for _, r := range roots {
		if strings.TrimSpace(r) == "" {
			continue
		}
		cleaned := filepath.Clean(r)
		key := cleaned
		if runtime.GOOS == "windows" {
			key = strings.ToLower(cleaned)
		}
		if !seen[key] {
			seen[key] = true
			unique = append(unique, cleaned)
		}
	}
	return unique
}

// GetNeverDeletePaths returns roots the cleaner must refuse to scan even when
// configured, so a bad config can never point it at the OS itself.
func GetNeverDeletePaths(goos string) []string {
	switch goos {
	case "windows":
		w := winDir()
		return []string{
			w,
			filepath.Join(w, "System32"),
			filepath.Join(w, "SysWOW64"),
			filepath.Join(w, "WinSxS"),
			os.Getenv("PROGRAMFILES"),
			os.Getenv("PROGRAMDATA"),
		}
	default:
		return []string{"/", "/bin", "/boot", "/etc", "/lib", "/sbin", "/usr", "/var", homeDir()}
	}
}

// IsProtectedRoot reports whether root is one of GetNeverDeletePaths.
func IsProtectedRoot(goos, root string) bool {
	cleaned := filepath.Clean(root)
	for _, p := range GetNeverDeletePaths(goos) {
		if p == "" {
			continue
		}
		if goos == "windows" {
			if strings.EqualFold(filepath.Clean(p), cleaned) {
				return true
			}
			continue
		}
		if filepath.Clean(p) == cleaned {
			return true
		}
	}
	return false
}
