package cmd

import (
	"errors"
	"fmt"
	"log"

	"github.com/MMHameed52/Inventory-Tracker/internal/controller"
	"github.com/MMHameed52/Inventory-Tracker/internal/models"

	"github.com/spf13/cobra"
)

var (
	productName string
	barcode     string
	price       string
	quantity    string
)

var appendCmd = &cobra.Command{
	Use:   "append <fileId>",
	Short: "Add a product row to an uploaded file",
	Args:  cobra.ExactArgs(1),
	RunE:  runAppend,
}

func init() {
	appendCmd.Flags().StringVarP(&productName, "name", "n", "", "Product name (required)")
	appendCmd.Flags().StringVarP(&barcode, "barcode", "b", "", "Barcode (numeric)")
	appendCmd.Flags().StringVarP(&price, "price", "p", "", "Price, with or without $")
	appendCmd.Flags().StringVarP(&quantity, "qty", "q", "", "Quantity (numeric)")

	appendCmd.MarkFlagRequired("name")
}

func runAppend(cmd *cobra.Command, args []string) error {
	client := newClient()
	ctrl := newController(client)

	var state controller.State
	for _, field := range [][2]string{
		{models.ColProductName, productName},
		{models.ColBarcode, barcode},
		{models.ColPrice, price},
		{models.ColQty, quantity},
	} {
		var err error
		if state, err = ctrl.UpdateDraftField(field[0], field[1]); err != nil {
			return err
		}
	}

	fileID := models.FileID(args[0])
	if _, err := ctrl.SelectCsv(cmd.Context(), fileID); err != nil {
		return fmt.Errorf("failed to load file %s: %w", fileID, err)
	}
	if _, err := ctrl.AppendProduct(cmd.Context()); err == nil {
		return nil
	} else if !errors.Is(err, controller.ErrNoSelection) {
		return fmt.Errorf("failed to append to %s: %w", fileID, err)
	}

	// An empty file is never selected; send the draft directly.
	if err := client.AppendCsv(cmd.Context(), fileID, []models.ProductDraft{state.Draft}); err != nil {
		return fmt.Errorf("failed to append to %s: %w", fileID, err)
	}
	log.Println(controller.MsgAppended)
	return nil
}
