package cmd

import (
	"fmt"
	"log"

	"github.com/MMHameed52/Inventory-Tracker/internal/server"
	"github.com/MMHameed52/Inventory-Tracker/internal/store"

	"github.com/spf13/cobra"
)

var (
	listenAddr string
	storeKind  string
	dbPath     string
	dbURI      string
	dbName     string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the inventory backend",
	Long: `Run an HTTP backend serving /csv-list, /csv-data/{fileId}, /upload-csv,
/append-csv/{fileId} and /sell-product. Data is kept in SQLite by default or
in MongoDB with --store mongo.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&listenAddr, "addr", "a", "", "Listen address (default from INVENTORY_LISTEN_ADDR)")
	addStoreFlags(serveCmd)
}

func addStoreFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&storeKind, "store", "", "Storage backend: sqlite or mongo (default from INVENTORY_STORE)")
	cmd.Flags().StringVar(&dbPath, "db-path", "", "SQLite database file (default from INVENTORY_DB_PATH)")
	cmd.Flags().StringVarP(&dbURI, "db-uri", "u", "", "MongoDB connection URI (default from DB_URI)")
	cmd.Flags().StringVarP(&dbName, "database", "d", "", "MongoDB database name (default from DB_NAME)")
}

// openStore opens the storage backend selected by flags and configuration.
func openStore() (store.Store, error) {
	kind := firstNonEmpty(storeKind, cfg.Store)
	switch kind {
	case "sqlite":
		path := firstNonEmpty(dbPath, cfg.DBPath)
		st, err := store.OpenSQLite(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database %s: %w", path, err)
		}
		log.Printf("Using SQLite database %s", path)
		return st, nil
	case "mongo":
		st, err := store.NewMongoDB(firstNonEmpty(dbURI, cfg.DBURI), firstNonEmpty(dbName, cfg.DBName))
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		return st, nil
	default:
		return nil, fmt.Errorf("invalid store: %s. Use 'sqlite' or 'mongo'", kind)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	logger := setupLogging(true)
	srv := server.New(st, logger, cfg.CORSOrigins)
	return srv.ListenAndServe(cmd.Context(), firstNonEmpty(listenAddr, cfg.ListenAddr))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
