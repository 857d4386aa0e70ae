package backup

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/MMHameed52/Inventory-Tracker/internal/api"
	"github.com/MMHameed52/Inventory-Tracker/internal/models"
	"github.com/MMHameed52/Inventory-Tracker/internal/server"
	"github.com/MMHameed52/Inventory-Tracker/internal/store"
)

func seedStore(t *testing.T) (*store.SQLite, models.FileID) {
	t.Helper()
	st, err := store.OpenSQLite(filepath.Join(t.TempDir(), "inventory.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })

	tea := models.NewRow()
	tea.Set(models.ColProductName, "Tea")
	tea.Set(models.ColQty, "5")
	rice := models.NewRow()
	rice.Set(models.ColProductName, "Rice")
	rice.Set(models.ColQty, "2")

	id, err := st.CreateFile(context.Background(), "my_stock.csv", []models.Row{tea, rice})
	if err != nil {
		t.Fatal(err)
	}
	return st, id
}

func TestBackupAndRestore(t *testing.T) {
	for _, format := range []string{FormatJSON, FormatBSON} {
		t.Run(format, func(t *testing.T) {
			st, id := seedStore(t)
			svc := NewService(st)
			ctx := context.Background()

			path, err := svc.BackupByID(ctx, id, t.TempDir(), format)
			if err != nil {
				t.Fatalf("BackupByID: %v", err)
			}
			if err := svc.ValidateBackupFile(path, format); err != nil {
				t.Fatalf("ValidateBackupFile: %v", err)
			}

			name, ok := DatasetNameFromBackup(path)
			if !ok || name != "my_stock.csv" {
				t.Fatalf("name = %q ok=%v", name, ok)
			}

			newID, count, err := svc.Restore(ctx, path, format, name)
			if err != nil {
				t.Fatalf("Restore: %v", err)
			}
			if count != 2 || newID == id {
				t.Fatalf("unexpected restore result %s %d", newID, count)
			}

			rows, err := st.Rows(ctx, newID)
			if err != nil {
				t.Fatal(err)
			}
			if len(rows) != 2 || rows[1].String(models.ColProductName) != "Rice" {
				t.Fatalf("unexpected rows %+v", rows)
			}
			if rows[0].String(models.ColFileID) != string(newID) {
				t.Fatalf("restored row kept old file id %s", rows[0].String(models.ColFileID))
			}
		})
	}
}

func TestBackupAll(t *testing.T) {
	st, _ := seedStore(t)
	files, err := NewService(st).BackupAll(context.Background(), t.TempDir(), FormatJSON)
	if err != nil {
		t.Fatalf("BackupAll: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("files = %v", files)
	}
	data, err := os.ReadFile(files[0])
	if err != nil {
		t.Fatal(err)
	}
	if lines := strings.Count(string(data), "\n"); lines != 2 {
		t.Fatalf("expected 2 JSON lines, got %d", lines)
	}
}

func TestInvalidFormat(t *testing.T) {
	st, id := seedStore(t)
	if _, err := NewService(st).BackupByID(context.Background(), id, t.TempDir(), "xml"); err == nil {
		t.Fatal("expected invalid format error")
	}
}

func TestDatasetNameFromBackupRejectsOtherNames(t *testing.T) {
	if _, ok := DatasetNameFromBackup("notes.json"); ok {
		t.Fatal("expected no match")
	}
}

func TestRemoteBackupAndRestore(t *testing.T) {
	st, id := seedStore(t)
	ts := httptest.NewServer(server.New(st, slog.New(slog.NewTextHandler(io.Discard, nil)), nil).Handler())
	defer ts.Close()

	client := api.NewClient(ts.URL, nil)
	svc := NewService(Remote(client))
	ctx := context.Background()

	path, err := svc.BackupByID(ctx, id, t.TempDir(), FormatBSON)
	if err != nil {
		t.Fatalf("BackupByID: %v", err)
	}
	newID, count, err := svc.Restore(ctx, path, FormatBSON, "copy.csv")
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if count != 2 {
		t.Fatalf("count = %d", count)
	}

	files, err := client.ListCsv(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 || files[1].ID != newID || files[1].FileName != "copy.csv" {
		t.Fatalf("files = %+v", files)
	}
}

func TestBackupUnknownDataset(t *testing.T) {
	st, _ := seedStore(t)
	_, err := NewService(st).BackupByID(context.Background(), "missing", t.TempDir(), FormatJSON)
	if !errors.Is(err, ErrDatasetNotFound) {
		t.Fatalf("expected ErrDatasetNotFound, got %v", err)
	}
}
