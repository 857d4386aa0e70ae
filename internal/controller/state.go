package controller

import (
	"github.com/MMHameed52/Inventory-Tracker/internal/models"
)

// State is a snapshot of everything the client shows. Snapshots returned by
// the Controller never share slices with its internal state.
type State struct {
	CsvList         []models.CsvFile
	SelectedCsvData []models.Row
	HeaderKeys      []string
	Loading         bool
	Draft           models.ProductDraft

	// SelectedFile is the path that UploadCsv reads.
	SelectedFile string
	// SelectedFileID is the dataset currently shown in SelectedCsvData.
	SelectedFileID models.FileID
}

func (s State) clone() State {
	out := s
	out.CsvList = append([]models.CsvFile(nil), s.CsvList...)
	out.HeaderKeys = append([]string(nil), s.HeaderKeys...)
	if s.SelectedCsvData != nil {
		out.SelectedCsvData = make([]models.Row, len(s.SelectedCsvData))
		for i, row := range s.SelectedCsvData {
			out.SelectedCsvData[i] = row.Clone()
		}
	}
	return out
}

// Products projects the selected rows onto the product view.
func (s State) Products() []models.Product {
	products := make([]models.Product, 0, len(s.SelectedCsvData))
	for _, row := range s.SelectedCsvData {
		products = append(products, models.ProductFromRow(row))
	}
	return products
}
