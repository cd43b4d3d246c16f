package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/cleanpc/internal/clean"
	"github.com/lakshaymaurya-felt/cleanpc/internal/config"
	"github.com/lakshaymaurya-felt/cleanpc/internal/memory"
	"github.com/lakshaymaurya-felt/cleanpc/internal/proc"
	"github.com/lakshaymaurya-felt/cleanpc/internal/whitelist"
)

var (
	// Global flags
	debug         bool
	dryRun        bool
	configFile    string
	whitelistFile string

	// Loaded in PersistentPreRunE
	conf *config.Config
	wl   *whitelist.Manager

	// Version info populated from main
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo sets build-time version information.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

var rootCmd = &cobra.Command{
	Use:   "cleanpc",
	Short: "Clean temp files, caches and background processes",
	Long: `cleanpc - a small system cleaner.

Reports and removes temporary files, cache data and non-essential running
processes. Processes on the whitelist, and the files they are using, are
never touched.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Show detailed operation logs")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default ./cleanpc.json or ./config/cleanpc.json)")
	rootCmd.PersistentFlags().StringVar(&whitelistFile, "whitelist-file", "", "Whitelist store (default config/whitelist.json)")

	// Register all subcommands
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(optimizeCmd)
	rootCmd.AddCommand(memoryCmd)
	rootCmd.AddCommand(whitelistCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup configures logging, loads the config and opens the whitelist once
// for every subcommand.
func setup(cmd *cobra.Command, args []string) error {
	initLog(cmd, args)

	c, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if whitelistFile != "" {
		c.WhitelistFile = whitelistFile
	}
	conf = c
	wl = whitelist.Open(conf.WhitelistFile)
	return nil
}

// ─── Component wiring ────────────────────────────────────────────────────────

func cleanOptions() clean.Options {
	return clean.Options{
		TempRoots:        conf.TempRoots,
		CacheRoots:       conf.CacheRoots,
		TerminateTimeout: conf.TerminateTimeout,
		MaxFiles:         conf.MaxFiles,
		DryRun:           dryRun,
	}
}

func newAnalyzer() *clean.Analyzer {
	return clean.NewAnalyzer(wl, proc.NewSystem(), cleanOptions())
}

func newCleaner() *clean.Cleaner {
	return clean.NewCleaner(wl, proc.NewSystem(), cleanOptions())
}

func newMemoryManager() *memory.Manager {
	return memory.NewManager(proc.NewSystem(), memory.WithFloorMB(conf.MemoryFloorMB))
}

// commandContext returns the command's context, or Background when run
// outside ExecuteContext.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func versionString() string {
	return fmt.Sprintf("cleanpc %s (%s) built %s", appVersion, appCommit, appDate)
}
