package csv

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/MMHameed52/Inventory-Tracker/internal/models"

	"github.com/jszwec/csvutil"
)

// EncodeProducts writes the product view as CSV with a header line.
func EncodeProducts(w io.Writer, products []models.Product) error {
	writer := csv.NewWriter(w)
	encoder := csvutil.NewEncoder(writer)

	if len(products) == 0 {
		if err := encoder.EncodeHeader(models.Product{}); err != nil {
			return fmt.Errorf("failed to encode CSV header: %w", err)
		}
	}
	for _, product := range products {
		if err := encoder.Encode(product); err != nil {
			return fmt.Errorf("failed to encode product %s: %w", product.ProductID, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// ProductsFromRows projects rows onto the product view.
func ProductsFromRows(rows []models.Row) []models.Product {
	products := make([]models.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, models.ProductFromRow(row))
	}
	return products
}
