package store

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/MMHameed52/Inventory-Tracker/internal/models"

	"github.com/shopspring/decimal"
)

func openTestStore(t *testing.T) *SQLite {
	t.Helper()
	st, err := OpenSQLite(filepath.Join(t.TempDir(), "inventory.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func productRow(name, price string, qty any) models.Row {
	row := models.NewRow()
	row.Set(models.ColProductName, name)
	row.Set(models.ColPrice, price)
	row.Set(models.ColQty, qty)
	return row
}

func TestSQLiteCreateAndReadRows(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	id, err := st.CreateFile(ctx, "stock.csv", []models.Row{productRow("Tea", "2.50", "5"), productRow("Rice", "4", "0")})
	if err != nil {
		t.Fatalf("CreateFile: %v", err)
	}

	files, err := st.ListFiles(ctx)
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	if len(files) != 1 || files[0].ID != id || files[0].FileName != "stock.csv" {
		t.Fatalf("unexpected files %+v", files)
	}

	rows, err := st.Rows(ctx, id)
	if err != nil {
		t.Fatalf("Rows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d", len(rows))
	}
	want := []string{models.ColProductID, models.ColFileID, models.ColProductName, models.ColPrice, models.ColQty}
	if !reflect.DeepEqual(rows[0].Keys(), want) {
		t.Fatalf("keys = %v", rows[0].Keys())
	}
	if rows[0].String(models.ColFileID) != string(id) || rows[1].String(models.ColProductName) != "Rice" {
		t.Fatalf("unexpected rows %+v", rows)
	}
}

func TestSQLiteAppendRowsKeepsOrder(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	id, err := st.CreateFile(ctx, "stock.csv", []models.Row{productRow("Tea", "2", "5")})
	if err != nil {
		t.Fatal(err)
	}
	if err := st.AppendRows(ctx, id, []models.Row{productRow("Coffee", "6", "1")}); err != nil {
		t.Fatalf("AppendRows: %v", err)
	}

	rows, err := st.Rows(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 || rows[1].String(models.ColProductName) != "Coffee" {
		t.Fatalf("unexpected rows %+v", rows)
	}

	if err := st.AppendRows(ctx, "missing", nil); !errors.Is(err, ErrFileNotFound) {
		t.Fatalf("expected ErrFileNotFound, got %v", err)
	}
	if _, err := st.Rows(ctx, "missing"); !errors.Is(err, ErrFileNotFound) {
		t.Fatalf("expected ErrFileNotFound, got %v", err)
	}
}

func TestSQLiteSellProduct(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	id, err := st.CreateFile(ctx, "stock.csv", []models.Row{productRow("Tea", "2.50", "5")})
	if err != nil {
		t.Fatal(err)
	}
	rows, _ := st.Rows(ctx, id)
	productID := rows[0].String(models.ColProductID)

	sale, err := st.SellProduct(ctx, productID, 3, decimal.RequireFromString("2.50"))
	if err != nil {
		t.Fatalf("SellProduct: %v", err)
	}
	if sale.Remaining != 2 || sale.FileID != id {
		t.Fatalf("unexpected sale %+v", sale)
	}
	if !sale.Total.Equal(decimal.RequireFromString("7.5")) {
		t.Fatalf("total = %s", sale.Total)
	}

	rows, _ = st.Rows(ctx, id)
	if rows[0].String(models.ColQty) != "2" {
		t.Fatalf("qty = %s", rows[0].String(models.ColQty))
	}

	if _, err := st.SellProduct(ctx, productID, 3, decimal.NewFromInt(1)); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	if _, err := st.SellProduct(ctx, "nope", 1, decimal.NewFromInt(1)); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}
