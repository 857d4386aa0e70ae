// Package store persists uploaded datasets and sales for the reference
// backend. Every stored row carries a ProductID and a file_id column, placed
// before the columns of the original CSV.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MMHameed52/Inventory-Tracker/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrFileNotFound      = errors.New("store: file not found")
	ErrProductNotFound   = errors.New("store: product not found")
	ErrInsufficientStock = errors.New("store: insufficient stock")
)

// Sale is a recorded product sale.
type Sale struct {
	ID        string
	ProductID string
	FileID    models.FileID
	Quantity  int
	Price     decimal.Decimal
	Total     decimal.Decimal
	Remaining int
	SoldAt    time.Time
}

type Store interface {
	ListFiles(ctx context.Context) ([]models.CsvFile, error)
	CreateFile(ctx context.Context, fileName string, rows []models.Row) (models.FileID, error)
	Rows(ctx context.Context, fileID models.FileID) ([]models.Row, error)
	AppendRows(ctx context.Context, fileID models.FileID, rows []models.Row) error
	SellProduct(ctx context.Context, productID string, quantity int, price decimal.Decimal) (Sale, error)
	Close() error
}

func newFileID() models.FileID {
	return models.FileID(uuid.NewString())
}

// stampRow assigns a fresh ProductID and the owning file id to a row.
func stampRow(row models.Row, fileID models.FileID) (string, models.Row) {
	productID := uuid.NewString()
	out := row.Clone()
	out.Prepend(models.ColFileID, string(fileID))
	out.Prepend(models.ColProductID, productID)
	return productID, out
}

// applySale takes quantity off the row's Qty column.
func applySale(row models.Row, quantity int) (models.Row, int, error) {
	raw, _ := row.Get(models.ColQty)
	available, ok := models.ToFloat(raw)
	if !ok {
		return row, 0, fmt.Errorf("%w: quantity %q is not a number", ErrInsufficientStock, models.FormatValue(raw))
	}
	if float64(quantity) > available {
		return row, 0, fmt.Errorf("%w: %d requested, %s available", ErrInsufficientStock, quantity, models.FormatValue(raw))
	}

	remaining := int(available) - quantity
	out := row.Clone()
	out.Set(models.ColQty, remaining)
	return out, remaining, nil
}

func newSale(productID string, fileID models.FileID, quantity int, price decimal.Decimal, remaining int) Sale {
	return Sale{
		ID:        uuid.NewString(),
		ProductID: productID,
		FileID:    fileID,
		Quantity:  quantity,
		Price:     price,
		Total:     price.Mul(decimal.NewFromInt(int64(quantity))),
		Remaining: remaining,
		SoldAt:    time.Now().UTC(),
	}
}
