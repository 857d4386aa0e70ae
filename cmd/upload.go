package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file.csv>",
	Short: "Upload a CSV file to the backend",
	Long: `Upload a CSV file. The first line holds the column names; every other
non-blank line becomes one row. Values are split on commas without quoting.`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

func runUpload(cmd *cobra.Command, args []string) error {
	ctrl := newController(newClient())
	ctrl.SetFile(args[0])

	state, err := ctrl.UploadCsv(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", args[0], err)
	}

	uploaded := state.CsvList[len(state.CsvList)-1]
	log.Printf("Uploaded %s as file %s with columns %v", uploaded.FileName, uploaded.ID, state.HeaderKeys)
	return nil
}
