package clean

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"github.com/rs/zerolog/log"

	"github.com/lakshaymaurya-felt/cleanpc/internal/config"
)

// errStop ends a walk early without reporting an error.
var errStop = errors.New("stop walk")

// visitFunc is called once per regular file. Returning errStop ends the walk.
type visitFunc func(path string, info fs.FileInfo) error

// walkRoots calls visit for every regular file under each root. Duplicate
// roots are walked once. Missing, non-directory and protected roots are
// skipped. Unreadable entries below a root are skipped and never abort the
// walk.
func walkRoots(ctx context.Context, roots []string, visit visitFunc) error {
	for _, root := range config.DedupeRoots(roots) {
		if config.IsProtectedRoot(runtime.GOOS, root) {
			log.Warn().Str("root", root).Msg("refusing to scan protected root")
			continue
		}
		info, err := os.Stat(root)
		if err != nil || !info.IsDir() {
			log.Debug().Str("root", root).Err(err).Msg("root not scannable")
			continue
		}
		err = walkRoot(ctx, root, visit)
		if errors.Is(err, errStop) {
			return nil
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func walkRoot(ctx context.Context, root string, visit visitFunc) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			log.Debug().Str("path", path).Err(err).Msg("unreadable entry")
			if d != nil && d.IsDir() && path != root {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != root && isReparsePoint(path) {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			// Vanished between listing and stat.
			return nil
		}
		return visit(path, info)
	})
}
