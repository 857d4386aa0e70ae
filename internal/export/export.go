// Package export writes a dataset to a spreadsheet or CSV file.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/MMHameed52/Inventory-Tracker/internal/csv"
	"github.com/MMHameed52/Inventory-Tracker/internal/models"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Inventory"

// Headers returns the column order of a dataset: the first row's keys,
// followed by any key that only later rows carry.
func Headers(rows []models.Row) []string {
	var headers []string
	seen := map[string]struct{}{}
	for _, row := range rows {
		for _, key := range row.Keys() {
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			headers = append(headers, key)
		}
	}
	return headers
}

// WriteXLSX writes the raw table: one header row, then one row per record.
// Numeric cells stay numeric; unset cells stay empty.
func WriteXLSX(w io.Writer, rows []models.Row) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return err
	}

	headers := Headers(rows)
	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return err
		}
	}

	for r, row := range rows {
		for col, header := range headers {
			value, ok := row.Get(header)
			if !ok || value == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheetName, cell, cellValue(value)); err != nil {
				return fmt.Errorf("write %s: %w", cell, err)
			}
		}
	}

	if len(headers) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(headers), 1)
		_ = f.SetPanes(sheetName, &excelize.Panes{
			Freeze:      true,
			YSplit:      1,
			TopLeftCell: "A2",
			ActivePane:  "bottomLeft",
		})
		_ = f.AutoFilter(sheetName, "A1:"+last, nil)
	}

	_, err := f.WriteTo(w)
	return err
}

// WriteCSV writes the product view of rows.
func WriteCSV(w io.Writer, rows []models.Row) error {
	return csv.EncodeProducts(w, csv.ProductsFromRows(rows))
}

// ToFile picks the format from the extension of path (.xlsx or .csv).
func ToFile(path string, rows []models.Row) error {
	var write func(io.Writer, []models.Row) error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		write = WriteXLSX
	case ".csv":
		write = WriteCSV
	default:
		return fmt.Errorf("unsupported export format %q: use .xlsx or .csv", filepath.Ext(path))
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	if err := write(out, rows); err != nil {
		out.Close()
		os.Remove(path)
		return fmt.Errorf("export: %w", err)
	}
	return out.Close()
}

func cellValue(v any) any {
	if n, ok := v.(interface{ Float64() (float64, error) }); ok {
		if f, err := n.Float64(); err == nil {
			return f
		}
	}
	switch v.(type) {
	case string, float64, float32, int, int32, int64, bool:
		return v
	}
	return models.FormatValue(v)
}
