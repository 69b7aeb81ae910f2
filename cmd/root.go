package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kebairia/foldup/internal/logger"
)

var (
	// configFile is the path to the YAML configuration, shared by all
	// subcommands.
	configFile string

	rootCmd = &cobra.Command{
		Use:   "foldup",
		Short: "Personal folder backup utility",
		Long: `foldup compresses a configured set of folders into dated archives
in a local staging area, then relocates each finished archive to a
(possibly slow or removable) destination.`,
		SilenceUsage: true,
	}
)

// Execute runs the root command. It exits non-zero on configuration
// errors and size-gate aborts; per-folder backup failures are reported in
// the run summary and leave the exit code at zero.
func Execute() {
	log, err := logger.Init()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: logger init: %v\n", err)
		os.Exit(1)
	}

	if err := rootCmd.Execute(); err != nil {
		log.Error("command failed", "error", err.Error())
		logger.Cleanup()
		os.Exit(1)
	}
	logger.Cleanup()
}

func init() {
	rootCmd.PersistentFlags().
		StringVarP(&configFile, "config", "c", "./configs/config.yaml", "path to YAML config file")
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(recentCmd)
}
