package clean

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/klauspost/compress/gzip"

	"github.com/lakshaymaurya-felt/cleanpc/internal/proc"
	"github.com/lakshaymaurya-felt/cleanpc/internal/whitelist"
)

// allow is a fixed whitelist.
type allow map[string]bool

func (a allow) IsWhitelisted(name string) bool { return a[name] }

func writeFile(t *testing.T, path string, size int) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, bytes.Repeat([]byte("x"), size), 0o644); err != nil {
		t.Fatal(err)
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// tree builds root/{a.tmp, sub/b.tmp, sub/deep/c.tmp} and returns the paths.
func tree(t *testing.T, root string) []string {
	t.Helper()
	paths := []string{
		filepath.Join(root, "a.tmp"),
		filepath.Join(root, "sub", "b.tmp"),
		filepath.Join(root, "sub", "deep", "c.tmp"),
	}
	for _, p := range paths {
		writeFile(t, p, 10)
	}
	return paths
}

// ─── Files ───────────────────────────────────────────────────────────────────

func TestAnalyzeTempFilesCountsEveryFile(t *testing.T) {
	root := t.TempDir()
	paths := tree(t, root)

	a := NewAnalyzer(allow{}, &proc.MockTable{}, Options{TempRoots: []string{root}})
	r := a.AnalyzeTempFiles(context.Background())

	if r.Err != nil {
		t.Fatalf("Err = %v", r.Err)
	}
	if r.Count() != len(paths) {
		t.Errorf("Count() = %d, want %d", r.Count(), len(paths))
	}
	if r.Bytes() != 30 {
		t.Errorf("Bytes() = %d, want 30", r.Bytes())
	}
	got := r.Details()
	slices.Sort(got)
	want := slices.Clone(paths)
	slices.Sort(want)
	if !slices.Equal(got, want) {
		t.Errorf("Details() = %v, want %v", got, want)
	}
}

func TestDuplicateAndMissingRoots(t *testing.T) {
	root := t.TempDir()
	tree(t, root)
	roots := []string{root, root + string(filepath.Separator), filepath.Join(root, "absent")}

	a := NewAnalyzer(allow{}, &proc.MockTable{}, Options{TempRoots: roots})
	if n := a.AnalyzeTempFiles(context.Background()).Count(); n != 3 {
		t.Errorf("Count() = %d, want 3", n)
	}
}

func TestSymlinkedDirectoryNotFollowed(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	writeFile(t, filepath.Join(outside, "keep.bin"), 5)
	if err := os.Symlink(outside, filepath.Join(root, "link")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	writeFile(t, filepath.Join(root, "a.tmp"), 5)

	c := NewCleaner(allow{}, &proc.MockTable{}, Options{TempRoots: []string{root}})
	r := c.CleanTempFiles(context.Background())
	if r.Count() != 1 {
		t.Errorf("Count() = %d, want 1", r.Count())
	}
	if !exists(filepath.Join(outside, "keep.bin")) {
		t.Error("file behind a symlink was removed")
	}
}

func TestMaxFilesCapsAnalysis(t *testing.T) {
	root := t.TempDir()
	tree(t, root)

	a := NewAnalyzer(allow{}, &proc.MockTable{}, Options{TempRoots: []string{root}, MaxFiles: 2})
	if n := a.AnalyzeTempFiles(context.Background()).Count(); n != 2 {
		t.Errorf("Count() = %d, want 2", n)
	}
}

func TestCleanTempFilesLeavesNothing(t *testing.T) {
	root := t.TempDir()
	paths := tree(t, root)
	opts := Options{TempRoots: []string{root}}
	ctx := context.Background()

	r := NewCleaner(allow{}, &proc.MockTable{}, opts).CleanTempFiles(ctx)
	if r.Count() != len(paths) {
		t.Errorf("removed %d files, want %d", r.Count(), len(paths))
	}
	for _, p := range paths {
		if exists(p) {
			t.Errorf("%s still exists", p)
		}
	}
	if n := NewAnalyzer(allow{}, &proc.MockTable{}, opts).AnalyzeTempFiles(ctx).Count(); n != 0 {
		t.Errorf("analysis after clean = %d, want 0", n)
	}
}

func TestDryRunRemovesNothing(t *testing.T) {
	root := t.TempDir()
	paths := tree(t, root)

	c := NewCleaner(allow{}, &proc.MockTable{}, Options{TempRoots: []string{root}, DryRun: true})
	r := c.CleanTempFiles(context.Background())
	if r.Count() != len(paths) {
		t.Errorf("Count() = %d, want %d", r.Count(), len(paths))
	}
	for _, p := range paths {
		if !exists(p) {
			t.Errorf("dry run removed %s", p)
		}
	}
}

func TestPreservedByRunningProcessName(t *testing.T) {
	root := t.TempDir()
	owned := filepath.Join(root, "STEAM", "htmlcache", "index.bin")
	loose := filepath.Join(root, "other", "junk.tmp")
	writeFile(t, owned, 10)
	writeFile(t, loose, 10)

	table := &proc.MockTable{Procs: []proc.Process{{PID: 10, Name: "steam.exe"}}}
	c := NewCleaner(allow{"steam.exe": true}, table, Options{TempRoots: []string{root}})
	r := c.CleanTempFiles(context.Background())

	if !exists(owned) {
		t.Error("file under a running whitelisted process's directory was removed")
	}
	if exists(loose) {
		t.Error("unrelated file was kept")
	}
	if got := r.Reasons()[ReasonPreserved]; got != 1 {
		t.Errorf("preserved = %d, want 1", got)
	}
}

func TestNotPreservedWhenProcessNotRunning(t *testing.T) {
	root := t.TempDir()
	owned := filepath.Join(root, "steam", "index.bin")
	writeFile(t, owned, 10)

	c := NewCleaner(allow{"steam.exe": true}, &proc.MockTable{}, Options{TempRoots: []string{root}})
	c.CleanTempFiles(context.Background())
	if exists(owned) {
		t.Error("file kept although its process is not running")
	}
}

func TestNotPreservedWhenProcessNotWhitelisted(t *testing.T) {
	root := t.TempDir()
	owned := filepath.Join(root, "steam", "index.bin")
	writeFile(t, owned, 10)

	table := &proc.MockTable{Procs: []proc.Process{{PID: 10, Name: "steam.exe"}}}
	a := NewAnalyzer(allow{}, table, Options{TempRoots: []string{root}})
	if n := a.AnalyzeTempFiles(context.Background()).Count(); n != 1 {
		t.Errorf("Count() = %d, want 1", n)
	}
}

func TestPreservedByOpenFile(t *testing.T) {
	root := t.TempDir()
	held := filepath.Join(root, "lock.db")
	free := filepath.Join(root, "stale.db")
	writeFile(t, held, 10)
	writeFile(t, free, 10)

	table := &proc.MockTable{
		Procs: []proc.Process{{PID: 7, Name: "syncd"}, {PID: 8, Name: "guarded"}},
		Files: map[int32][]string{7: {held}},
		// A permission failure on one process must not stop the snapshot.
		FilesErr: map[int32]error{8: proc.ErrAccessDenied},
	}
	c := NewCleaner(allow{"syncd": true, "guarded": true}, table, Options{TempRoots: []string{root}})
	r := c.CleanTempFiles(context.Background())

	if !exists(held) {
		t.Error("open file of a whitelisted process was removed")
	}
	if exists(free) {
		t.Error("unheld file was kept")
	}
	if r.Count() != 1 {
		t.Errorf("Count() = %d, want 1", r.Count())
	}
}

func TestProcessListFailurePreservesNothing(t *testing.T) {
	root := t.TempDir()
	tree(t, root)

	table := &proc.MockTable{ListErr: errors.New("boom")}
	a := NewAnalyzer(allow{}, table, Options{TempRoots: []string{root}})
	r := a.AnalyzeTempFiles(context.Background())
	if r.Err != nil || r.Count() != 3 {
		t.Errorf("Count() = %d, Err = %v; want 3, nil", r.Count(), r.Err)
	}
}

func TestAnalyzeCacheTruncatesMB(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "one.bin"), 1<<20)
	writeFile(t, filepath.Join(root, "two.bin"), 1<<20-1)

	a := NewAnalyzer(allow{}, &proc.MockTable{}, Options{CacheRoots: []string{root}})
	r := a.AnalyzeCache(context.Background())
	if r.MB() != 1 {
		t.Errorf("MB() = %d, want 1", r.MB())
	}
}

func TestCleanCacheReportsFreedMB(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", "blob"), 2<<20)

	c := NewCleaner(allow{}, &proc.MockTable{}, Options{CacheRoots: []string{root}})
	r := c.CleanCache(context.Background())
	if r.MB() != 2 {
		t.Errorf("MB() = %d, want 2", r.MB())
	}
}

func TestCancelledContextAborts(t *testing.T) {
	root := t.TempDir()
	tree(t, root)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewCleaner(allow{}, &proc.MockTable{}, Options{TempRoots: []string{root}})
	r := c.CleanTempFiles(ctx)
	if !errors.Is(r.Err, context.Canceled) {
		t.Errorf("Err = %v, want context.Canceled", r.Err)
	}
}

func TestTerminateCancelledContextSendsNothing(t *testing.T) {
	table := processTable()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewCleaner(allow{}, table, Options{SelfPID: 100})
	r := c.TerminateUnnecessaryProcesses(ctx)
	if !errors.Is(r.Err, context.Canceled) {
		t.Errorf("Err = %v, want context.Canceled", r.Err)
	}
	if got := table.Terminated(); len(got) != 0 {
		t.Errorf("terminate requests sent after cancel: %v", got)
	}
	if r.Count() != 0 {
		t.Errorf("Count() = %d, want 0", r.Count())
	}
}

// ─── Processes ───────────────────────────────────────────────────────────────

func processTable() *proc.MockTable {
	return &proc.MockTable{Procs: []proc.Process{
		{PID: 1, PPID: 0, Name: "init"},
		{PID: 50, PPID: 1, Name: "shell"},
		{PID: 100, PPID: 50, Name: "cleanpc"},
		{PID: 200, PPID: 1, Name: "chrome"},
		{PID: 201, PPID: 200, Name: "chrome"},
		{PID: 300, PPID: 1, Name: "explorer.exe"},
	}}
}

func TestAnalyzeUnnecessaryProcesses(t *testing.T) {
	a := NewAnalyzer(allow{"explorer.exe": true}, processTable(), Options{})
	r := a.AnalyzeUnnecessaryProcesses(context.Background())

	if r.Count() != 5 {
		t.Errorf("Count() = %d, want 5", r.Count())
	}
	listing := r.Listing()
	if len(listing) != 6 {
		t.Fatalf("Listing() has %d entries, want 6", len(listing))
	}
	if !slices.Contains(listing, "explorer.exe (PID: 300)") {
		t.Errorf("Listing() = %v, missing whitelisted process", listing)
	}
}

func TestAnalyzeUnnecessaryProcessesListFailure(t *testing.T) {
	a := NewAnalyzer(allow{}, &proc.MockTable{ListErr: errors.New("boom")}, Options{})
	r := a.AnalyzeUnnecessaryProcesses(context.Background())
	if r.Err == nil || r.Summary == "" {
		t.Errorf("Err = %v, Summary = %q; want both set", r.Err, r.Summary)
	}
	if r.Count() != 0 {
		t.Errorf("Count() = %d, want 0", r.Count())
	}
}

func TestTerminateSkipsWhitelistAndAncestry(t *testing.T) {
	table := processTable()
	c := NewCleaner(allow{"explorer.exe": true, "init": true}, table, Options{SelfPID: 100})
	r := c.TerminateUnnecessaryProcesses(context.Background())

	got := table.Terminated()
	slices.Sort(got)
	if want := []int32{200, 201}; !slices.Equal(got, want) {
		t.Errorf("terminated %v, want %v", got, want)
	}
	if r.Count() != 2 {
		t.Errorf("Count() = %d, want 2", r.Count())
	}
	reasons := r.Reasons()
	if reasons[ReasonWhitelisted] != 2 || reasons[ReasonSelf] != 2 {
		t.Errorf("Reasons() = %v", reasons)
	}
}

func TestTerminateRecordsSkipsAndFailures(t *testing.T) {
	table := &proc.MockTable{
		Procs: []proc.Process{
			{PID: 10, Name: "slow"},
			{PID: 11, Name: "locked"},
			{PID: 12, Name: "gone"},
			{PID: 13, Name: "weird"},
			{PID: 14, Name: "fine"},
		},
		TerminateErr: map[int32]error{
			10: proc.ErrTimeout,
			11: proc.ErrAccessDenied,
			12: proc.ErrNotFound,
			13: errors.New("unexpected"),
		},
	}
	c := NewCleaner(allow{}, table, Options{SelfPID: 999})
	r := c.TerminateUnnecessaryProcesses(context.Background())

	if r.Count() != 1 {
		t.Errorf("Count() = %d, want 1", r.Count())
	}
	if r.Skipped() != 3 || r.Failed() != 1 {
		t.Errorf("Skipped() = %d, Failed() = %d; want 3, 1", r.Skipped(), r.Failed())
	}
	want := map[string]int{ReasonTimeout: 1, ReasonAccessDenied: 1, ReasonNotFound: 1, ReasonIO: 1}
	for reason, n := range want {
		if r.Reasons()[reason] != n {
			t.Errorf("Reasons()[%q] = %d, want %d", reason, r.Reasons()[reason], n)
		}
	}
}

func TestTerminateDryRunSendsNothing(t *testing.T) {
	table := processTable()
	c := NewCleaner(allow{}, table, Options{SelfPID: 100, DryRun: true})
	r := c.TerminateUnnecessaryProcesses(context.Background())

	if len(table.Terminated()) != 0 {
		t.Errorf("dry run terminated %v", table.Terminated())
	}
	if r.Count() != 3 {
		t.Errorf("Count() = %d, want 3", r.Count())
	}
}

func TestTerminateWithWhitelistManager(t *testing.T) {
	wl := whitelist.Open(filepath.Join(t.TempDir(), "whitelist.json"), whitelist.WithDefaults("init"))
	wl.Add("chrome")

	table := processTable()
	c := NewCleaner(wl, table, Options{SelfPID: 100})
	c.TerminateUnnecessaryProcesses(context.Background())

	if got := table.Terminated(); !slices.Equal(got, []int32{300}) {
		t.Errorf("terminated %v, want [300]", got)
	}
}

// ─── Optimize ────────────────────────────────────────────────────────────────

func TestOptimizeCacheCompresses(t *testing.T) {
	root := t.TempDir()
	plain := filepath.Join(root, "data.json")
	content := bytes.Repeat([]byte(`{"k":"v"}`), 1000)
	if err := os.WriteFile(plain, content, 0o644); err != nil {
		t.Fatal(err)
	}
	already := filepath.Join(root, "old.gz")
	writeFile(t, already, 10)

	c := NewCleaner(allow{}, &proc.MockTable{}, Options{CacheRoots: []string{root}})
	r := c.OptimizeCache(context.Background())

	if r.Count() != 1 {
		t.Fatalf("Count() = %d, want 1", r.Count())
	}
	if r.Summary != "Cache optimized: 1 files compressed." {
		t.Errorf("Summary = %q", r.Summary)
	}
	if r.Reasons()[ReasonCompressed] != 1 {
		t.Errorf("Reasons() = %v", r.Reasons())
	}
	if exists(plain) {
		t.Error("original still exists")
	}
	if r.Bytes() <= 0 {
		t.Errorf("Bytes() = %d, want positive savings", r.Bytes())
	}

	f, err := os.Open(plain + ".gz")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	zr, err := gzip.NewReader(f)
	if err != nil {
		t.Fatal(err)
	}
	got, err := io.ReadAll(zr)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, content) {
		t.Error("decompressed content differs")
	}
	if zr.Name != "data.json" {
		t.Errorf("gzip name = %q", zr.Name)
	}
}

func TestOptimizeCacheDryRun(t *testing.T) {
	root := t.TempDir()
	plain := filepath.Join(root, "data.bin")
	writeFile(t, plain, 100)

	c := NewCleaner(allow{}, &proc.MockTable{}, Options{CacheRoots: []string{root}, DryRun: true})
	r := c.OptimizeCache(context.Background())
	if r.Count() != 1 || !exists(plain) || exists(plain+".gz") {
		t.Errorf("dry run touched files: count=%d", r.Count())
	}
}

func TestOptimizeCacheEmpty(t *testing.T) {
	c := NewCleaner(allow{}, &proc.MockTable{}, Options{CacheRoots: []string{t.TempDir()}})
	if got := c.OptimizeCache(context.Background()).Summary; got != "Cache optimized: 0 files compressed." {
		t.Errorf("Summary = %q", got)
	}
}

func TestCompressFileCleansUpOnFailure(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "missing.bin")
	info := fakeInfo{}
	if _, err := compressFile(missing, info); err == nil {
		t.Fatal("compressFile() of a missing file succeeded")
	}
	if exists(missing + ".gz") {
		t.Error("partial archive left behind")
	}
}

type fakeInfo struct{ os.FileInfo }

func (fakeInfo) Size() int64 { return 0 }
