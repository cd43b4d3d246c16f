package cmd

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/lakshaymaurya-felt/cleanpc/internal/clean"
	"github.com/lakshaymaurya-felt/cleanpc/internal/ui"
)

// printReport writes headline (or the pass error) followed by a one-line
// breakdown of skips. With list set, the given targets follow, one per line.
func printReport(out io.Writer, r *clean.Report, headline string, list []string) {
	if r.Err != nil {
		fmt.Fprintln(out, ui.Error(r.Summary))
		return
	}
	fmt.Fprintln(out, ui.Success(headline))

	if reasons := r.Reasons(); len(reasons) > 0 {
		keys := make([]string, 0, len(reasons))
		for k := range reasons {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%d %s", reasons[k], k))
		}
		fmt.Fprintln(out, ui.MutedStyle.Render("    skipped: "+strings.Join(parts, ", ")))
	}

	for _, t := range list {
		fmt.Fprintln(out, ui.MutedStyle.Render("    "+ui.IconBullet+" ")+t)
	}
}

// plural returns "1 file" / "2 files", "2 processes".
func plural(n int, word string) string {
	switch {
	case n == 1:
		return fmt.Sprintf("%d %s", n, word)
	case strings.HasSuffix(word, "s"):
		return fmt.Sprintf("%d %ses", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
