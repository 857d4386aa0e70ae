package backup

import (
	"context"

	"github.com/MMHameed52/Inventory-Tracker/internal/api"
	"github.com/MMHameed52/Inventory-Tracker/internal/models"
)

type remote struct {
	client *api.Client
}

// Remote backs up and restores through the inventory HTTP API.
func Remote(client *api.Client) Source {
	return remote{client: client}
}

func (r remote) ListFiles(ctx context.Context) ([]models.CsvFile, error) {
	return r.client.ListCsv(ctx)
}

func (r remote) Rows(ctx context.Context, fileID models.FileID) ([]models.Row, error) {
	return r.client.CsvData(ctx, fileID)
}

func (r remote) CreateFile(ctx context.Context, fileName string, rows []models.Row) (models.FileID, error) {
	return r.client.UploadCsv(ctx, rows, fileName)
}
