package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/cleanpc/internal/config"
	"github.com/lakshaymaurya-felt/cleanpc/internal/core"
	"github.com/lakshaymaurya-felt/cleanpc/internal/ui"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Report what a clean would remove",
	Long: `Count temp files, cache data and non-whitelisted processes without
changing anything. With no category flag every category is analyzed.`,
	Args: cobra.NoArgs,
	RunE: runAnalyze,
}

func init() {
	addCategoryFlags(analyzeCmd)
	analyzeCmd.Flags().Bool("list", false, "List every file or process found")
}

// ─── Categories ──────────────────────────────────────────────────────────────

type categories struct {
	temp      bool
	cache     bool
	processes bool
}

func addCategoryFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("temp", false, "Temporary files only")
	cmd.Flags().Bool("cache", false, "Cache files only")
	cmd.Flags().Bool("processes", false, "Running processes only")
}

// readCategories returns the selected categories, or all of them when none
// was given.
func readCategories(cmd *cobra.Command) categories {
	var c categories
	c.temp, _ = cmd.Flags().GetBool("temp")
	c.cache, _ = cmd.Flags().GetBool("cache")
	c.processes, _ = cmd.Flags().GetBool("processes")
	if !c.temp && !c.cache && !c.processes {
		return categories{temp: true, cache: true, processes: true}
	}
	return c
}

// ─── Run ─────────────────────────────────────────────────────────────────────

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	out := cmd.OutOrStdout()
	cats := readCategories(cmd)
	list, _ := cmd.Flags().GetBool("list")
	a := newAnalyzer()

	pick := func(targets []string) []string {
		if list {
			return targets
		}
		return nil
	}

	fmt.Fprintln(out, ui.Title("Analysis"))
	tempTarget, cacheTarget := config.GetTargets(conf)

	if cats.temp {
		r, err := ui.RunTask(ctx, "Scanning temp files…", a.AnalyzeTempFiles)
		if err != nil {
			return interrupted(err)
		}
		printReport(out, r, fmt.Sprintf("Temp files: %s (%s)",
			plural(r.Count(), "file"), core.FormatSize(r.Bytes())), pick(r.Details()))
		if list {
			printTarget(out, tempTarget)
		}
	}

	if cats.cache {
		r, err := ui.RunTask(ctx, "Scanning caches…", a.AnalyzeCache)
		if err != nil {
			return interrupted(err)
		}
		printReport(out, r, fmt.Sprintf("Cache: %d MB in %s",
			r.MB(), plural(r.Count(), "file")), pick(r.Details()))
		if list {
			printTarget(out, cacheTarget)
		}
	}

	if cats.processes {
		r, err := ui.RunTask(ctx, "Reading process table…", a.AnalyzeUnnecessaryProcesses)
		if err != nil {
			return interrupted(err)
		}
		printReport(out, r, fmt.Sprintf("Unnecessary processes: %d of %d running",
			r.Count(), len(r.Items)), pick(r.Listing()))
	}
	return nil
}

func printTarget(out io.Writer, t config.Target) {
	fmt.Fprintln(out, ui.MutedStyle.Render(fmt.Sprintf("    %s roots (%s):", t.Name, t.Description)))
	for _, p := range t.Paths {
		fmt.Fprintln(out, ui.MutedStyle.Render("      "+p))
	}
}

// interrupted turns a ctrl+c during a task into a short error.
func interrupted(err error) error {
	if errors.Is(err, ui.ErrInterrupted) {
		return errors.New("interrupted by user")
	}
	return err
}
