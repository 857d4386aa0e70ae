package cmd

import (
	"fmt"
	"log"

	"github.com/MMHameed52/Inventory-Tracker/internal/export"

	"github.com/spf13/cobra"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export <fileId>",
	Short: "Export an uploaded file to XLSX or CSV",
	Long: `Export the rows of an uploaded file. An .xlsx output holds the raw table
with every column; a .csv output holds the product view
(ProductID, ProductName, Barcode, Price, Qty).`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "inventory.xlsx", "Output file (.xlsx or .csv)")
}

func runExport(cmd *cobra.Command, args []string) error {
	state, err := selectFile(cmd, args[0])
	if err != nil {
		return err
	}

	if err := export.ToFile(exportOutput, state.SelectedCsvData); err != nil {
		return fmt.Errorf("failed to export file %s: %w", args[0], err)
	}
	log.Printf("Exported %d rows to %s", len(state.SelectedCsvData), exportOutput)
	return nil
}
