package cmd

import (
	"fmt"

	"github.com/MMHameed52/Inventory-Tracker/internal/controller"
	"github.com/MMHameed52/Inventory-Tracker/internal/models"

	"github.com/spf13/cobra"
)

var showProducts bool

var showCmd = &cobra.Command{
	Use:   "show <fileId>",
	Short: "Show the rows of an uploaded file",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().BoolVarP(&showProducts, "products", "p", false, "Show the product view with stock status")
}

func runShow(cmd *cobra.Command, args []string) error {
	state, err := selectFile(cmd, args[0])
	if err != nil {
		return err
	}

	if showProducts {
		fmt.Fprintln(cmd.OutOrStdout(), renderProducts(state.Products()))
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), renderRaw(state.HeaderKeys, state.SelectedCsvData))
	}
	return nil
}

// selectFile loads one dataset through a fresh controller. An empty
// dataset is reported as an error.
func selectFile(cmd *cobra.Command, id string) (controller.State, error) {
	ctrl := newController(newClient())
	state, err := ctrl.SelectCsv(cmd.Context(), models.FileID(id))
	if err != nil {
		return state, fmt.Errorf("failed to load file %s: %w", id, err)
	}
	if len(state.SelectedCsvData) == 0 {
		return state, fmt.Errorf("file %s has no rows", id)
	}
	return state, nil
}

func renderRaw(headers []string, data []models.Row) string {
	rows := make([][]string, 0, len(data))
	for _, record := range data {
		cells := make([]string, len(headers))
		for i, key := range headers {
			cells[i] = record.Cell(key)
		}
		rows = append(rows, cells)
	}
	return renderTable(headers, rows)
}

func renderProducts(products []models.Product) string {
	rows := make([][]string, 0, len(products))
	for _, p := range products {
		status := "In Stock"
		if p.OutOfStock() {
			status = "Out of Stock"
		}
		rows = append(rows, []string{p.ProductID, p.ProductName, p.Barcode, models.FormatPrice(p.Price), p.Qty, status})
	}
	headers := []string{models.ColProductID, models.ColProductName, models.ColBarcode, models.ColPrice, models.ColQty, "Status"}
	return renderTable(headers, rows)
}
