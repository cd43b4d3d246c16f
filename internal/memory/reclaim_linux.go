//go:build linux

package memory

import (
	"context"
	"fmt"
	"os"

	"github.com/shirou/gopsutil/v4/mem"
	"golang.org/x/sys/unix"

	"github.com/lakshaymaurya-felt/cleanpc/internal/core"
	"github.com/lakshaymaurya-felt/cleanpc/internal/proc"
)

// dropCachesPath is the kernel knob that drops clean page cache, dentries
// and inodes when "3" is written to it.
var dropCachesPath = "/proc/sys/vm/drop_caches"

type pageCacheReclaimer struct{}

func systemReclaimer() Reclaimer {
	return pageCacheReclaimer{}
}

// Reclaim flushes dirty pages and drops the page cache. Requires root.
func (pageCacheReclaimer) Reclaim(ctx context.Context, _ []proc.Process) Result {
	before := freeMemory(ctx)

	unix.Sync()
	if err := os.WriteFile(dropCachesPath, []byte("3"), 0o200); err != nil {
		if os.IsPermission(err) {
			return Result{Supported: true, Message: "Dropping caches requires root privileges."}
		}
		return Result{Supported: true, Message: fmt.Sprintf("Could not drop caches: %v", err)}
	}

	res := Result{Supported: true}
	res.FreedBytes = freed(before, freeMemory(ctx))
	res.Message = fmt.Sprintf("Page cache dropped, %s freed.", core.FormatSize(int64(res.FreedBytes)))
	return res
}

func freeMemory(ctx context.Context) uint64 {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return 0
	}
	return vm.Free
}
