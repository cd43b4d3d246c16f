package config

import (
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	conf, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if conf.WhitelistFile != "config/whitelist.json" {
		t.Errorf("WhitelistFile = %q", conf.WhitelistFile)
	}
	if conf.TerminateTimeout != 3*time.Second {
		t.Errorf("TerminateTimeout = %v, want 3s", conf.TerminateTimeout)
	}
	if conf.MemoryFloorMB != 1 {
		t.Errorf("MemoryFloorMB = %v, want 1", conf.MemoryFloorMB)
	}
	if len(conf.TempRoots) == 0 || len(conf.CacheRoots) == 0 {
		t.Errorf("default roots missing: temp=%v cache=%v", conf.TempRoots, conf.CacheRoots)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "custom.json")
	body := `{
    "whitelist_file": "wl.json",
    "temp_roots": ["/a", "/a/", "/b"],
    "terminate_timeout": "5s",
    "max_files": 100
}`
	if err := os.WriteFile(file, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	conf, err := Load(file)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if conf.WhitelistFile != "wl.json" {
		t.Errorf("WhitelistFile = %q", conf.WhitelistFile)
	}
	if conf.TerminateTimeout != 5*time.Second {
		t.Errorf("TerminateTimeout = %v", conf.TerminateTimeout)
	}
	if conf.MaxFiles != 100 {
		t.Errorf("MaxFiles = %d", conf.MaxFiles)
	}
	want := []string{filepath.Clean("/a"), filepath.Clean("/b")}
	if !slices.Equal(conf.TempRoots, want) {
		t.Errorf("TempRoots = %v, want %v", conf.TempRoots, want)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("Load() of a missing explicit file should fail")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CLEANPC_TERMINATE_TIMEOUT", "7s")
	t.Setenv("CLEANPC_TOP_PROCESSES", "5")

	conf, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if conf.TerminateTimeout != 7*time.Second {
		t.Errorf("TerminateTimeout = %v, want 7s", conf.TerminateTimeout)
	}
	if conf.TopProcesses != 5 {
		t.Errorf("TopProcesses = %d, want 5", conf.TopProcesses)
	}
}

func TestDedupeRoots(t *testing.T) {
	got := DedupeRoots([]string{"", "/tmp", "/tmp/", " ", "/var/tmp"})
	want := []string{filepath.Clean("/tmp"), filepath.Clean("/var/tmp")}
	if !slices.Equal(got, want) {
		t.Errorf("DedupeRoots() = %v, want %v", got, want)
	}
}

func TestGetTargets(t *testing.T) {
	a, b := t.TempDir(), t.TempDir()
	temp, cache := GetTargets(&Config{TempRoots: []string{a, a}, CacheRoots: []string{b}})
	if temp.Name != "Temp" || !slices.Equal(temp.Paths, []string{a}) {
		t.Errorf("temp target = %+v", temp)
	}
	if cache.Name != "Cache" || !slices.Equal(cache.Paths, []string{b}) {
		t.Errorf("cache target = %+v", cache)
	}
}

func TestPlatformRoots(t *testing.T) {
	for _, goos := range []string{"windows", "linux", "darwin"} {
		if n := len(TempRoots(goos)); n != 2 {
			t.Errorf("TempRoots(%s) has %d entries, want 2", goos, n)
		}
		if n := len(CacheRoots(goos)); n != 2 {
			t.Errorf("CacheRoots(%s) has %d entries, want 2", goos, n)
		}
	}
	if got := TempRoots("linux")[1]; got != "/var/tmp" {
		t.Errorf("linux second temp root = %q", got)
	}
	if got := CacheRoots("linux")[1]; got != "/var/cache" {
		t.Errorf("linux second cache root = %q", got)
	}
}

func TestIsProtectedRoot(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix paths")
	}
	if !IsProtectedRoot("linux", "/usr/") {
		t.Error("/usr should be protected")
	}
	if IsProtectedRoot("linux", "/tmp") {
		t.Error("/tmp should not be protected")
	}
}
