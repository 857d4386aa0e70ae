package cmd

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/MMHameed52/Inventory-Tracker/internal/controller"
	"github.com/MMHameed52/Inventory-Tracker/internal/models"

	"github.com/spf13/cobra"
)

var sellQty string

var sellCmd = &cobra.Command{
	Use:   "sell <fileId> <productId>",
	Short: "Sell a quantity of a product",
	Long: `Sell a product from an uploaded file. The quantity is asked for
interactively unless --qty is given; it must be a positive whole number no
larger than the available stock.`,
	Args: cobra.ExactArgs(2),
	RunE: runSell,
}

func init() {
	sellCmd.Flags().StringVarP(&sellQty, "qty", "q", "", "Quantity to sell (prompted when empty)")
}

func runSell(cmd *cobra.Command, args []string) error {
	ctrl := newController(newClient())

	state, err := ctrl.SelectCsv(cmd.Context(), models.FileID(args[0]))
	if err != nil {
		return fmt.Errorf("failed to load file %s: %w", args[0], err)
	}

	row, ok := findProduct(state.SelectedCsvData, args[1])
	if !ok {
		return fmt.Errorf("product %s not found in file %s", args[1], args[0])
	}
	if models.ProductFromRow(row).OutOfStock() {
		return fmt.Errorf("product %s is out of stock", args[1])
	}

	productID, _ := row.Get(models.ColProductID)
	available, _ := row.Get(models.ColQty)
	unitPrice, _ := row.Get(models.ColPrice)

	var prompter controller.Prompter = controller.PromptFunc(promptLine)
	if sellQty != "" {
		prompter = controller.Answer(sellQty)
	}

	state, err = ctrl.SellProduct(cmd.Context(), productID, available, unitPrice, prompter)
	if err != nil {
		return err
	}

	if row, ok := findProduct(state.SelectedCsvData, args[1]); ok {
		log.Printf("Remaining stock of %s: %s", row.String(models.ColProductName), row.String(models.ColQty))
	}
	return nil
}

func findProduct(rows []models.Row, productID string) (models.Row, bool) {
	for _, row := range rows {
		if row.String(models.ColProductID) == productID {
			return row, true
		}
	}
	return models.Row{}, false
}

// promptLine reads one answer from stdin. End of input counts as cancel.
func promptLine(message string) (string, bool) {
	fmt.Printf("%s: ", message)
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil && response == "" {
		return "", false
	}
	return strings.TrimSpace(response), true
}
