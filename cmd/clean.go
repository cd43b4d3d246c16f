package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/cleanpc/internal/core"
	"github.com/lakshaymaurya-felt/cleanpc/internal/ui"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove temp files, caches and background processes",
	Long: `Delete temp and cache files and terminate non-whitelisted processes.
Files used by running whitelisted processes are kept. With no category flag
every category is cleaned; terminating processes also needs --yes.`,
	Args: cobra.NoArgs,
	RunE: runClean,
}

func init() {
	addCategoryFlags(cleanCmd)
	cleanCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview the cleanup without deleting or terminating")
	cleanCmd.Flags().BoolP("yes", "y", false, "Confirm terminating non-whitelisted processes")
	cleanCmd.Flags().Bool("list", false, "List every file or process affected")
}

func runClean(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	out := cmd.OutOrStdout()
	cats := readCategories(cmd)
	yes, _ := cmd.Flags().GetBool("yes")
	list, _ := cmd.Flags().GetBool("list")
	c := newCleaner()

	verb := "Removed"
	if dryRun {
		verb = "Would remove"
		fmt.Fprintln(out, ui.Title("Clean (dry run)"))
	} else {
		fmt.Fprintln(out, ui.Title("Clean"))
	}

	pick := func(targets []string) []string {
		if list {
			return targets
		}
		return nil
	}

	if cats.temp {
		r, err := ui.RunTask(ctx, "Removing temp files…", c.CleanTempFiles)
		if err != nil {
			return interrupted(err)
		}
		printReport(out, r, fmt.Sprintf("%s %s from temp (%s)",
			verb, plural(r.Count(), "file"), core.FormatSize(r.Bytes())), pick(r.Details()))
	}

	if cats.cache {
		r, err := ui.RunTask(ctx, "Removing cache files…", c.CleanCache)
		if err != nil {
			return interrupted(err)
		}
		printReport(out, r, fmt.Sprintf("%s %d MB of cache (%s)",
			verb, r.MB(), plural(r.Count(), "file")), pick(r.Details()))
	}

	if cats.processes {
		if !yes && !dryRun {
			fmt.Fprintln(out, ui.Warn("Skipping processes: pass --yes to terminate non-whitelisted processes"))
			return nil
		}
		r, err := ui.RunTask(ctx, "Terminating processes…", c.TerminateUnnecessaryProcesses)
		if err != nil {
			return interrupted(err)
		}
		headline := fmt.Sprintf("Terminated %s", plural(r.Count(), "process"))
		if dryRun {
			headline = fmt.Sprintf("Would terminate %s", plural(r.Count(), "process"))
		}
		printReport(out, r, headline, pick(r.Details()))
	}
	return nil
}
