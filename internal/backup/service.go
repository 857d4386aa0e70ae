package backup

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/MMHameed52/Inventory-Tracker/internal/models"
	"github.com/MMHameed52/Inventory-Tracker/internal/store"

	"go.mongodb.org/mongo-driver/bson"
)

var ErrDatasetNotFound = errors.New("dataset not found")

const (
	FormatJSON = "json"
	FormatBSON = "bson"
)

var (
	backupNamePattern = regexp.MustCompile(`^backup_(.+)_\d{8}_\d{6}\.(json|bson)$`)
	unsafeNameChars   = regexp.MustCompile(`[^A-Za-z0-9._-]+`)
)

// Source is where datasets are read from and restored into. A store.Store
// satisfies it directly; Remote adapts the HTTP client.
type Source interface {
	ListFiles(ctx context.Context) ([]models.CsvFile, error)
	Rows(ctx context.Context, fileID models.FileID) ([]models.Row, error)
	CreateFile(ctx context.Context, fileName string, rows []models.Row) (models.FileID, error)
}

type Service struct {
	source Source
}

func NewService(source Source) *Service {
	return &Service{source: source}
}

// BackupFile writes every row of one dataset to
// backup_<name>_<timestamp>.<format> inside outputDir.
func (s *Service) BackupFile(ctx context.Context, file models.CsvFile, outputDir, format string) (string, error) {
	if err := validateFormat(format); err != nil {
		return "", err
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	rows, err := s.source.Rows(ctx, file.ID)
	if err != nil {
		return "", fmt.Errorf("failed to read rows of %s: %w", file.FileName, err)
	}

	timestamp := time.Now().Format("20060102_150405")
	name := unsafeNameChars.ReplaceAllString(file.FileName, "-")
	path := filepath.Join(outputDir, fmt.Sprintf("backup_%s_%s.%s", name, timestamp, format))

	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create backup file: %w", err)
	}

	if err := writeRows(out, rows, format); err != nil {
		out.Close()
		os.Remove(path)
		return "", fmt.Errorf("backup failed: %w", err)
	}
	if err := out.Close(); err != nil {
		return "", err
	}
	return path, nil
}

// BackupByID backs up the dataset with the given id.
func (s *Service) BackupByID(ctx context.Context, fileID models.FileID, outputDir, format string) (string, error) {
	files, err := s.source.ListFiles(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list files: %w", err)
	}
	for _, f := range files {
		if f.ID == fileID {
			return s.BackupFile(ctx, f, outputDir, format)
		}
	}
	return "", fmt.Errorf("%w: %s", ErrDatasetNotFound, fileID)
}

// BackupAll backs up every dataset, stopping at the first failure.
func (s *Service) BackupAll(ctx context.Context, outputDir, format string) ([]string, error) {
	files, err := s.source.ListFiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no datasets found")
	}

	var backupFiles []string
	for _, f := range files {
		path, err := s.BackupFile(ctx, f, outputDir, format)
		if err != nil {
			return backupFiles, fmt.Errorf("failed to backup %s: %w", f.FileName, err)
		}
		backupFiles = append(backupFiles, path)
	}
	return backupFiles, nil
}

// Restore loads a backup file into a new dataset named fileName. Stored
// ProductID and file_id columns are replaced by fresh ones.
func (s *Service) Restore(ctx context.Context, inputFile, format, fileName string) (models.FileID, int, error) {
	in, err := os.Open(inputFile)
	if err != nil {
		return "", 0, fmt.Errorf("failed to open backup file: %w", err)
	}
	defer in.Close()

	rows, err := readRows(in, format)
	if err != nil {
		return "", 0, fmt.Errorf("restore failed: %w", err)
	}

	id, err := s.source.CreateFile(ctx, fileName, rows)
	if err != nil {
		return "", 0, fmt.Errorf("restore failed: %w", err)
	}
	return id, len(rows), nil
}

func (s *Service) ValidateBackupFile(filename, expectedFormat string) error {
	if err := validateFormat(expectedFormat); err != nil {
		return err
	}

	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("cannot open backup file: %w", err)
	}
	defer file.Close()

	fileInfo, err := file.Stat()
	if err != nil {
		return fmt.Errorf("cannot get file info: %w", err)
	}
	if fileInfo.Size() == 0 {
		return fmt.Errorf("backup file is empty")
	}

	extension := filepath.Ext(filename)
	if extension != "."+expectedFormat {
		return fmt.Errorf("expected %s file but got %s", strings.ToUpper(expectedFormat), extension)
	}
	return nil
}

// DatasetNameFromBackup recovers the dataset name from a file written by
// BackupFile. ok is false for any other file name.
func DatasetNameFromBackup(path string) (string, bool) {
	m := backupNamePattern.FindStringSubmatch(filepath.Base(path))
	if m == nil {
		return "", false
	}
	return m[1], true
}

func validateFormat(format string) error {
	if format != FormatJSON && format != FormatBSON {
		return fmt.Errorf("invalid format: %s. Use 'bson' or 'json'", format)
	}
	return nil
}

func writeRows(w io.Writer, rows []models.Row, format string) error {
	buf := bufio.NewWriter(w)
	for _, row := range rows {
		var data []byte
		var err error
		if format == FormatJSON {
			data, err = json.Marshal(row)
			if err != nil {
				return fmt.Errorf("failed to marshal to JSON: %w", err)
			}
			data = append(data, '\n')
		} else {
			data, err = bson.Marshal(store.RowToBSON(row))
			if err != nil {
				return fmt.Errorf("failed to marshal to BSON: %w", err)
			}
		}
		if _, err := buf.Write(data); err != nil {
			return fmt.Errorf("failed to write backup data: %w", err)
		}
	}
	return buf.Flush()
}

func readRows(r io.Reader, format string) ([]models.Row, error) {
	if err := validateFormat(format); err != nil {
		return nil, err
	}

	var rows []models.Row
	if format == FormatJSON {
		decoder := json.NewDecoder(r)
		for {
			var row models.Row
			if err := decoder.Decode(&row); errors.Is(err, io.EOF) {
				break
			} else if err != nil {
				return nil, fmt.Errorf("failed to decode JSON: %w", err)
			}
			rows = append(rows, row)
		}
		return rows, nil
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read BSON data: %w", err)
	}
	for len(data) > 0 {
		if len(data) < 4 {
			return nil, fmt.Errorf("truncated BSON document")
		}
		docSize := int(data[0]) | int(data[1])<<8 | int(data[2])<<16 | int(data[3])<<24
		if docSize < 5 || len(data) < docSize {
			return nil, fmt.Errorf("truncated BSON document")
		}

		var doc bson.D
		if err := bson.Unmarshal(data[:docSize], &doc); err != nil {
			return nil, fmt.Errorf("failed to unmarshal BSON: %w", err)
		}
		rows = append(rows, store.RowFromBSON(doc))
		data = data[docSize:]
	}
	return rows, nil
}
