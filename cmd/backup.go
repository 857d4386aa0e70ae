package cmd

import (
	"fmt"
	"log"

	"github.com/MMHameed52/Inventory-Tracker/internal/backup"
	"github.com/MMHameed52/Inventory-Tracker/internal/models"

	"github.com/spf13/cobra"
)

var (
	outputDir    string
	backupFormat string
	backupFileID string
	useStore     bool
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Backup uploaded files",
	Long: `Backup uploaded files to JSON lines or BSON files named
backup_<file name>_<timestamp>.<format>. Files are read through the backend
API, or straight from the storage backend with --direct.`,
	RunE: runBackup,
}

func init() {
	backupCmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory for backup files (default from INVENTORY_BACKUP_DIR)")
	backupCmd.Flags().StringVarP(&backupFormat, "format", "f", backup.FormatJSON, "Backup format: bson or json")
	backupCmd.Flags().StringVarP(&backupFileID, "file", "i", "", "Specific file id to backup (if empty, backs up all files)")
	backupCmd.Flags().BoolVar(&useStore, "direct", false, "Read from the storage backend instead of the API")
	addStoreFlags(backupCmd)
}

// backupSource is the API client, or the storage backend with --direct.
// The returned func releases it.
func backupSource() (backup.Source, func(), error) {
	if !useStore {
		return backup.Remote(newClient()), func() {}, nil
	}
	st, err := openStore()
	if err != nil {
		return nil, nil, err
	}
	return st, func() { st.Close() }, nil
}

func runBackup(cmd *cobra.Command, args []string) error {
	if backupFormat != backup.FormatBSON && backupFormat != backup.FormatJSON {
		return fmt.Errorf("invalid format: %s. Use 'bson' or 'json'", backupFormat)
	}
	dir := firstNonEmpty(outputDir, cfg.BackupDir)

	source, release, err := backupSource()
	if err != nil {
		return err
	}
	defer release()

	backupService := backup.NewService(source)

	if backupFileID != "" {
		log.Printf("Starting backup of file '%s' to %s format...", backupFileID, backupFormat)
		backupFile, err := backupService.BackupByID(cmd.Context(), models.FileID(backupFileID), dir, backupFormat)
		if err != nil {
			return fmt.Errorf("backup failed: %w", err)
		}
		log.Printf("Backup completed successfully: %s", backupFile)
		return nil
	}

	log.Printf("Starting backup of all files to %s format...", backupFormat)
	backupFiles, err := backupService.BackupAll(cmd.Context(), dir, backupFormat)
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}

	log.Printf("Backup completed successfully. Created %d backup files:", len(backupFiles))
	for _, file := range backupFiles {
		log.Printf("  - %s", file)
	}
	return nil
}
