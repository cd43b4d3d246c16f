package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/cleanpc/internal/core"
	"github.com/lakshaymaurya-felt/cleanpc/internal/ui"
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Compress cache files in place",
	Long: `Gzip every accessible cache file into a sibling .gz file and remove the
original. Files already ending in .gz and files used by running whitelisted
processes are left alone.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		r, err := ui.RunTask(commandContext(cmd), "Compressing cache…", newCleaner().OptimizeCache)
		if err != nil {
			return interrupted(err)
		}

		summary := r.Summary
		if r.Err == nil && !dryRun && r.Count() > 0 {
			summary += fmt.Sprintf(" Saved %s.", core.FormatSize(r.Bytes()))
		}
		if dryRun && r.Err == nil {
			summary = fmt.Sprintf("Would compress %s.", plural(r.Count(), "file"))
		}
		list, _ := cmd.Flags().GetBool("list")
		var targets []string
		if list {
			targets = r.Details()
		}
		printReport(out, r, summary, targets)
		return nil
	},
}

func init() {
	optimizeCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview which files would be compressed")
	optimizeCmd.Flags().Bool("list", false, "List every compressed file")
}
