package cmd

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/cleanpc/internal/manage"
	"github.com/lakshaymaurya-felt/cleanpc/internal/proc"
	"github.com/lakshaymaurya-felt/cleanpc/internal/ui"
)

var whitelistCmd = &cobra.Command{
	Use:   "whitelist",
	Short: "Manage protected processes",
	Long: `Whitelisted processes are never terminated, and files they use are never
deleted or compressed. Built-in entries protect core OS processes and cannot
be removed.`,
}

var whitelistListCmd = &cobra.Command{
	Use:   "list",
	Short: "List protected processes",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, ui.Title("Protected by you"))
		user := wl.Processes()
		if len(user) == 0 {
			fmt.Fprintln(out, ui.MutedStyle.Render("  (none)"))
		}
		for _, n := range user {
			fmt.Fprintln(out, "  "+ui.IconBullet+" "+n)
		}

		if all, _ := cmd.Flags().GetBool("all"); all {
			fmt.Fprintln(out)
			fmt.Fprintln(out, ui.Title("Built-in"))
			for _, n := range wl.Defaults() {
				fmt.Fprintln(out, ui.MutedStyle.Render("  "+ui.IconBullet+" "+n))
			}
		}
	},
}

var whitelistAddCmd = &cobra.Command{
	Use:   "add NAME...",
	Short: "Protect one or more process names",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		var failed []string
		for _, name := range args {
			switch {
			case wl.IsDefault(name):
				fmt.Fprintln(out, ui.Warn(name+" is already protected (built-in)"))
			case wl.Add(name):
				fmt.Fprintln(out, ui.Success("Protected "+name))
			case wl.IsWhitelisted(name):
				fmt.Fprintln(out, ui.Warn(name+" is already protected"))
			default:
				failed = append(failed, name)
			}
		}
		if len(failed) > 0 {
			return fmt.Errorf("could not add %s", strings.Join(failed, ", "))
		}
		return nil
	},
}

var whitelistRemoveCmd = &cobra.Command{
	Use:   "remove NAME...",
	Short: "Stop protecting one or more process names",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		var failed []string
		for _, name := range args {
			switch {
			case wl.IsDefault(name):
				fmt.Fprintln(out, ui.Error(name+" is built-in and cannot be removed"))
				failed = append(failed, name)
			case wl.Remove(name):
				fmt.Fprintln(out, ui.Success("Removed "+name))
			default:
				fmt.Fprintln(out, ui.Warn(name+" was not on the whitelist"))
			}
		}
		if len(failed) > 0 {
			return fmt.Errorf("could not remove %s", strings.Join(failed, ", "))
		}
		return nil
	},
}

var whitelistCheckCmd = &cobra.Command{
	Use:   "check NAME...",
	Short: "Show whether process names are protected",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		for _, name := range args {
			switch {
			case wl.IsDefault(name):
				fmt.Fprintln(out, ui.Success(name+": protected (built-in)"))
			case wl.IsWhitelisted(name):
				fmt.Fprintln(out, ui.Success(name+": protected"))
			default:
				fmt.Fprintln(out, ui.MutedStyle.Render(ui.IconBullet+" "+name+": not protected"))
			}
		}
	},
}

var whitelistManageCmd = &cobra.Command{
	Use:   "manage",
	Short: "Interactive whitelist manager",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !ui.OutputInteractive() {
			return fmt.Errorf("manage needs a terminal; use list/add/remove instead")
		}
		initTuiLog()
		model := manage.New(wl, proc.NewSystem(), manage.DefaultPollInterval)
		_, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
		return err
	},
}

func init() {
	whitelistListCmd.Flags().Bool("all", false, "Also list built-in entries")

	whitelistCmd.AddCommand(whitelistListCmd)
	whitelistCmd.AddCommand(whitelistAddCmd)
	whitelistCmd.AddCommand(whitelistRemoveCmd)
	whitelistCmd.AddCommand(whitelistCheckCmd)
	whitelistCmd.AddCommand(whitelistManageCmd)
}
