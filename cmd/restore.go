package cmd

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/MMHameed52/Inventory-Tracker/internal/backup"

	"github.com/spf13/cobra"
)

var (
	inputFile        string
	restoreFormat    string
	restoreName      string
	skipConfirmation bool
)

var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Restore an uploaded file from backup",
	Long: `Restore a JSON lines or BSON backup as a new uploaded file. Restored rows
get new product ids.`,
	RunE: runRestore,
}

func init() {
	restoreCmd.Flags().StringVarP(&inputFile, "input", "i", "", "Input backup file to restore (required)")
	restoreCmd.Flags().StringVarP(&restoreFormat, "format", "f", "", "Backup format: bson or json (auto-detected if not specified)")
	restoreCmd.Flags().StringVarP(&restoreName, "name", "n", "", "File name of the restored dataset (defaults to the name in the backup file name)")
	restoreCmd.Flags().BoolVar(&skipConfirmation, "yes", false, "Skip confirmation prompts")
	restoreCmd.Flags().BoolVar(&useStore, "direct", false, "Write to the storage backend instead of the API")
	addStoreFlags(restoreCmd)

	restoreCmd.MarkFlagRequired("input")
}

func runRestore(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(inputFile); os.IsNotExist(err) {
		return fmt.Errorf("backup file does not exist: %s", inputFile)
	}

	format := restoreFormat
	if format == "" {
		extension := filepath.Ext(inputFile)
		switch extension {
		case ".bson":
			format = backup.FormatBSON
		case ".json":
			format = backup.FormatJSON
		default:
			return fmt.Errorf("cannot auto-detect format from extension '%s'. Please specify --format", extension)
		}
	}

	name := restoreName
	if name == "" {
		var ok bool
		if name, ok = backup.DatasetNameFromBackup(inputFile); !ok {
			return fmt.Errorf("cannot determine file name from %s. Please specify --name", filepath.Base(inputFile))
		}
	}

	source, release, err := backupSource()
	if err != nil {
		return err
	}
	defer release()

	backupService := backup.NewService(source)
	if err := backupService.ValidateBackupFile(inputFile, format); err != nil {
		return fmt.Errorf("backup file validation failed: %w", err)
	}

	if !skipConfirmation {
		log.Printf("About to restore:")
		log.Printf("  Source file: %s", inputFile)
		log.Printf("  New file name: %s", name)
		log.Printf("  Format: %s", format)

		if !confirmAction("Do you want to continue?") {
			log.Println("Restore cancelled")
			return nil
		}
	}

	log.Printf("Starting restore of '%s' from %s...", name, inputFile)
	fileID, count, err := backupService.Restore(cmd.Context(), inputFile, format, name)
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}

	log.Printf("Restore completed successfully: %d rows restored as file %s", count, fileID)
	return nil
}

func confirmAction(message string) bool {
	fmt.Printf("%s (y/N): ", message)
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}
