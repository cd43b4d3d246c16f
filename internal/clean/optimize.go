package clean

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// OptimizeCache gzips every accessible, non-preserved cache file into a
// sibling "<file>.gz" and removes the original. Files already ending in .gz
// are left alone. Bytes() is the space saved.
func (c *Cleaner) OptimizeCache(ctx context.Context) *Report {
	r := newReport("optimize-cache")
	keep := NewPreserver(ctx, c.table, c.policy)
	err := scanFiles(ctx, r, c.opts.CacheRoots, keep, 0, func(path string, info fs.FileInfo) bool {
		if strings.HasSuffix(strings.ToLower(path), ".gz") {
			r.skip(path, ReasonCompressed, nil)
			return false
		}
		if !accessible(path) {
			r.skip(path, ReasonNotAccessible, nil)
			return false
		}
		if c.opts.DryRun {
			r.done(path, 0)
			return true
		}
		saved, err := compressFile(path, info)
		if err != nil {
			r.record(path, err)
			return false
		}
		r.done(path, saved)
		return true
	})
	if err != nil {
		return r.abort(err, "optimize interrupted")
	}
	r.Summary = fmt.Sprintf("Cache optimized: %d files compressed.", r.Count())
	return r.finish()
}

// compressFile writes path+".gz" and removes path. On any failure the
// partial archive is removed and the original is kept. It returns the bytes
// saved, which may be negative for incompressible data.
func compressFile(path string, info fs.FileInfo) (int64, error) {
	dst := path + ".gz"
	written, err := writeGzip(path, dst, info)
	if err != nil {
		_ = os.Remove(longPath(dst))
		return 0, err
	}
	if err := os.Remove(longPath(path)); err != nil {
		_ = os.Remove(longPath(dst))
		return 0, fmt.Errorf("remove original: %w", err)
	}
	return info.Size() - written, nil
}

func writeGzip(src, dst string, info fs.FileInfo) (int64, error) {
	in, err := os.Open(longPath(src))
	if err != nil {
		return 0, err
	}
	defer in.Close()

	out, err := os.OpenFile(longPath(dst), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, err
	}

	zw, err := gzip.NewWriterLevel(out, gzip.BestCompression)
	if err != nil {
		out.Close()
		return 0, err
	}
	zw.Name = filepath.Base(src)
	zw.ModTime = info.ModTime()

	if _, err := io.Copy(zw, in); err != nil {
		zw.Close()
		out.Close()
		return 0, fmt.Errorf("compress: %w", err)
	}
	if err := zw.Close(); err != nil {
		out.Close()
		return 0, fmt.Errorf("compress: %w", err)
	}

	st, err := out.Stat()
	if err != nil {
		out.Close()
		return 0, err
	}
	if err := out.Close(); err != nil {
		return 0, err
	}
	return st.Size(), nil
}
