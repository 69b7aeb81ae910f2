package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kebairia/foldup/internal/config"
	"github.com/kebairia/foldup/internal/logger"
	"github.com/kebairia/foldup/internal/operations"
)

var recentLimit int

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List the most recent archives at the destination",
	RunE: func(cmd *cobra.Command, args []string) error {
		var cfg config.Config
		if err := cfg.Load(configFile); err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		recent, err := operations.RecentBackups(cfg.Backup.DestinationDir, recentLimit)
		if err != nil {
			// Purely informational; an unreadable destination is a
			// warning, not a failure.
			logger.Global().Warn("could not list recent backups", "error", err.Error())
			return nil
		}
		for _, entry := range recent {
			fmt.Printf("%-50s %9.1f MB  %s\n",
				entry.Name, entry.SizeMB, entry.ModTime.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

func init() {
	recentCmd.Flags().
		IntVarP(&recentLimit, "limit", "n", operations.DefaultRecentLimit, "maximum entries to list")
}
