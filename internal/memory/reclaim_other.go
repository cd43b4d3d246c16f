//go:build !windows && !linux

package memory

import (
	"context"
	"fmt"
	"runtime"

	"github.com/lakshaymaurya-felt/cleanpc/internal/proc"
)

type unsupportedReclaimer struct{}

func systemReclaimer() Reclaimer {
	return unsupportedReclaimer{}
}

func (unsupportedReclaimer) Reclaim(context.Context, []proc.Process) Result {
	return Result{Message: fmt.Sprintf("Memory optimization is not supported on %s.", runtime.GOOS)}
}
