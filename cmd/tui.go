package cmd

import (
	"fmt"

	"github.com/MMHameed52/Inventory-Tracker/internal/tui"

	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Start the interactive inventory browser (same as default)",
	Long: `Start the Terminal User Interface.
It lists uploaded files, shows their rows as a raw table and as a product
table with a sell action, uploads CSV files and adds products.

Note: This is the same as running the program without any commands.`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	logger := setupLogging(false)
	logger.Info("Starting TUI", "api", cfg.APIBaseURL)

	err := tui.Run(cmd.Context(), newClient(), tui.Options{
		StrictSchema: cfg.StrictSchema,
		BackupDir:    cfg.BackupDir,
		Logger:       logger,
	})
	if err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
