package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/cleanpc/internal/status"
	"github.com/lakshaymaurya-felt/cleanpc/internal/ui"
)

var memoryCmd = &cobra.Command{
	Use:   "memory",
	Short: "Show memory usage and reclaim memory",
	Long: `Open a live memory dashboard with the largest processes. Press o in the
dashboard to ask the OS to reclaim memory. With --print, or when output is
not a terminal, a one-shot report is printed instead.`,
	Args: cobra.NoArgs,
	RunE: runMemory,
}

func init() {
	memoryCmd.Flags().Bool("print", false, "Print a one-shot report instead of the dashboard")
	memoryCmd.Flags().Bool("optimize", false, "Reclaim memory and print the result")
	memoryCmd.Flags().Int("top", 0, "Number of processes to show (default from config)")
}

func runMemory(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	out := cmd.OutOrStdout()
	mgr := newMemoryManager()

	top, _ := cmd.Flags().GetInt("top")
	if top <= 0 {
		top = conf.TopProcesses
	}

	if optimize, _ := cmd.Flags().GetBool("optimize"); optimize {
		res, err := ui.RunTask(ctx, "Reclaiming memory…", mgr.Optimize)
		if err != nil {
			return interrupted(err)
		}
		if res.Supported {
			fmt.Fprintln(out, ui.Success(res.Message))
		} else {
			fmt.Fprintln(out, ui.Warn(res.Message))
		}
		return nil
	}

	if printOnly, _ := cmd.Flags().GetBool("print"); printOnly || !ui.OutputInteractive() {
		stats, err := mgr.FormattedStats(ctx)
		if err != nil {
			return err
		}
		usage, err := mgr.Usage(ctx)
		if err != nil {
			return err
		}

		fmt.Fprintln(out, ui.Title("Memory"))
		fmt.Fprintf(out, "  Total      %s\n", stats.Total)
		fmt.Fprintf(out, "  Used       %s  (%s)\n", stats.Used, stats.Percent)
		fmt.Fprintf(out, "  Available  %s\n", stats.Available)
		fmt.Fprintln(out)
		fmt.Fprintln(out, ui.HeaderStyle.Render(fmt.Sprintf("  Top %d processes by memory", top)))
		for i, p := range usage {
			if i == top {
				break
			}
			fmt.Fprintf(out, "  %-7d %-30s %9.1f MB  %5.1f%%\n",
				p.PID, ui.Truncate(p.Name, 30), p.MemoryMB, p.MemoryPercent)
		}
		return nil
	}

	initTuiLog()
	model := status.NewStatusModel(mgr, conf.RefreshInterval, top)
	_, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}
