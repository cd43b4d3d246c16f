//go:build windows

package memory

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/yusufpapurcu/wmi"
	"golang.org/x/sys/windows"

	"github.com/lakshaymaurya-felt/cleanpc/internal/core"
	"github.com/lakshaymaurya-felt/cleanpc/internal/proc"
)

// ─── Psapi Syscalls ──────────────────────────────────────────────────────────

var (
	modPsapi            = windows.NewLazySystemDLL("psapi.dll")
	procEmptyWorkingSet = modPsapi.NewProc("EmptyWorkingSet")
)

// win32OperatingSystem mirrors the WMI class fields we read.
// FreePhysicalMemory is in kilobytes.
type win32OperatingSystem struct {
	FreePhysicalMemory uint64
}

type workingSetReclaimer struct{}

func systemReclaimer() Reclaimer {
	return workingSetReclaimer{}
}

// Reclaim calls EmptyWorkingSet on every process it can open and measures
// the change in free physical memory through WMI.
func (workingSetReclaimer) Reclaim(ctx context.Context, procs []proc.Process) Result {
	if err := procEmptyWorkingSet.Find(); err != nil {
		return Result{Message: fmt.Sprintf("EmptyWorkingSet unavailable: %v", err)}
	}

	before, beforeErr := freePhysicalMemory()
	trimmed := 0
	for _, p := range procs {
		if ctx.Err() != nil {
			break
		}
		if trimWorkingSet(uint32(p.PID)) {
			trimmed++
		}
	}

	res := Result{Supported: true, Count: trimmed}
	after, afterErr := freePhysicalMemory()
	if beforeErr != nil || afterErr != nil {
		log.Debug().AnErr("before", beforeErr).AnErr("after", afterErr).Msg("WMI free memory unavailable")
		res.Message = fmt.Sprintf("Memory optimized: %d processes trimmed.", trimmed)
		return res
	}
	res.FreedBytes = freed(before, after)
	res.Message = fmt.Sprintf("Memory optimized: %d processes trimmed, %s freed.",
		trimmed, core.FormatSize(int64(res.FreedBytes)))
	return res
}

func trimWorkingSet(pid uint32) bool {
	h, err := windows.OpenProcess(windows.PROCESS_QUERY_INFORMATION|windows.PROCESS_SET_QUOTA, false, pid)
	if err != nil {
		return false
	}
	defer windows.CloseHandle(h)

	ret, _, _ := procEmptyWorkingSet.Call(uintptr(h))
	return ret != 0
}

// freePhysicalMemory returns free physical memory in bytes.
func freePhysicalMemory() (uint64, error) {
	var dst []win32OperatingSystem
	q := wmi.CreateQuery(&dst, "", "Win32_OperatingSystem")
	if err := wmi.Query(q, &dst); err != nil {
		return 0, fmt.Errorf("query Win32_OperatingSystem: %w", err)
	}
	if len(dst) == 0 {
		return 0, fmt.Errorf("query Win32_OperatingSystem: no rows")
	}
	return dst[0].FreePhysicalMemory * 1024, nil
}
