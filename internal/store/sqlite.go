package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/MMHameed52/Inventory-Tracker/internal/models"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS csv_files (
  id TEXT PRIMARY KEY,
  file_name TEXT NOT NULL,
  created_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS csv_rows (
  product_id TEXT PRIMARY KEY,
  file_id TEXT NOT NULL REFERENCES csv_files(id),
  position INTEGER NOT NULL,
  data TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_csv_rows_file ON csv_rows(file_id, position);

CREATE TABLE IF NOT EXISTS sales (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  file_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  price TEXT NOT NULL,
  total TEXT NOT NULL,
  sold_at TIMESTAMP NOT NULL
);
`

// SQLite is a Store backed by an embedded SQLite database. Rows are kept as
// JSON text so their column order survives.
type SQLite struct {
	db *sql.DB
}

func OpenSQLite(path string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	return &SQLite{db: db}, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) ListFiles(ctx context.Context) ([]models.CsvFile, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, file_name FROM csv_files ORDER BY created_at, rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	files := make([]models.CsvFile, 0)
	for rows.Next() {
		var f models.CsvFile
		var id string
		if err := rows.Scan(&id, &f.FileName); err != nil {
			return nil, err
		}
		f.ID = models.FileID(id)
		files = append(files, f)
	}
	return files, rows.Err()
}

func (s *SQLite) CreateFile(ctx context.Context, fileName string, rows []models.Row) (models.FileID, error) {
	fileID := newFileID()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO csv_files (id, file_name, created_at) VALUES (?, ?, ?)`,
		string(fileID), fileName, time.Now().UTC(),
	); err != nil {
		return "", fmt.Errorf("insert file: %w", err)
	}
	if err := insertRows(ctx, tx, fileID, 0, rows); err != nil {
		return "", err
	}
	if err := tx.Commit(); err != nil {
		return "", err
	}
	return fileID, nil
}

func (s *SQLite) Rows(ctx context.Context, fileID models.FileID) ([]models.Row, error) {
	if err := fileExists(ctx, s.db, fileID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT data FROM csv_rows WHERE file_id = ? ORDER BY position`, string(fileID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.Row, 0)
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var row models.Row
		if err := json.Unmarshal([]byte(data), &row); err != nil {
			return nil, fmt.Errorf("decode stored row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (s *SQLite) AppendRows(ctx context.Context, fileID models.FileID, rows []models.Row) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fileExists(ctx, tx, fileID); err != nil {
		return err
	}

	var next int
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(position) + 1, 0) FROM csv_rows WHERE file_id = ?`, string(fileID),
	).Scan(&next); err != nil {
		return err
	}
	if err := insertRows(ctx, tx, fileID, next, rows); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLite) SellProduct(ctx context.Context, productID string, quantity int, price decimal.Decimal) (Sale, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Sale{}, err
	}
	defer tx.Rollback()

	var fileID, data string
	err = tx.QueryRowContext(ctx,
		`SELECT file_id, data FROM csv_rows WHERE product_id = ?`, productID,
	).Scan(&fileID, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return Sale{}, ErrProductNotFound
	}
	if err != nil {
		return Sale{}, err
	}

	var row models.Row
	if err := json.Unmarshal([]byte(data), &row); err != nil {
		return Sale{}, fmt.Errorf("decode stored row: %w", err)
	}
	updated, remaining, err := applySale(row, quantity)
	if err != nil {
		return Sale{}, err
	}
	blob, err := json.Marshal(updated)
	if err != nil {
		return Sale{}, err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE csv_rows SET data = ? WHERE product_id = ?`, string(blob), productID,
	); err != nil {
		return Sale{}, fmt.Errorf("update stock: %w", err)
	}

	sale := newSale(productID, models.FileID(fileID), quantity, price, remaining)
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO sales (id, product_id, file_id, quantity, price, total, sold_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sale.ID, sale.ProductID, fileID, sale.Quantity, sale.Price.String(), sale.Total.String(), sale.SoldAt,
	); err != nil {
		return Sale{}, fmt.Errorf("insert sale: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Sale{}, err
	}
	return sale, nil
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func fileExists(ctx context.Context, q querier, fileID models.FileID) error {
	var one int
	err := q.QueryRowContext(ctx, `SELECT 1 FROM csv_files WHERE id = ?`, string(fileID)).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrFileNotFound
	}
	return err
}

func insertRows(ctx context.Context, tx *sql.Tx, fileID models.FileID, start int, rows []models.Row) error {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO csv_rows (product_id, file_id, position, data) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, row := range rows {
		productID, stamped := stampRow(row, fileID)
		blob, err := json.Marshal(stamped)
		if err != nil {
			return fmt.Errorf("encode row %d: %w", i+1, err)
		}
		if _, err := stmt.ExecContext(ctx, productID, string(fileID), start+i, string(blob)); err != nil {
			return fmt.Errorf("insert row %d: %w", i+1, err)
		}
	}
	return nil
}
