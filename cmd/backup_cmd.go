package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kebairia/foldup/internal/operations"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Back up all configured folders",
	RunE: func(cmd *cobra.Command, args []string) error {
		runner, err := operations.NewRunner(configFile)
		if err != nil {
			return err
		}
		// Run returns an error only when the whole run was refused
		// (gate violation, staging failure). Individual folder
		// failures live in the summary and keep the exit code zero.
		if _, err := runner.Run(); err != nil {
			return err
		}
		return nil
	},
}
