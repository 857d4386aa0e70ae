package cmd

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/MMHameed52/Inventory-Tracker/internal/api"
	"github.com/MMHameed52/Inventory-Tracker/internal/config"
	"github.com/MMHameed52/Inventory-Tracker/internal/controller"
	"github.com/MMHameed52/Inventory-Tracker/internal/logging"

	"github.com/spf13/cobra"
)

var (
	cfg          config.Config
	apiURL       string
	logFile      string
	strictSchema bool
	verbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "inventory",
	Short: "Upload CSV inventories, browse them and sell products",
	Long: `Inventory Tracker uploads CSV files to an inventory backend, lists the
uploaded files, shows their rows and records product sales.

Running it without a command starts the interactive terminal interface.`,
	SilenceUsage: true,
	RunE:         runTUI,
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	logging.Close()
	if err != nil {
		log.Fatal(err)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "Backend base URL (default from INVENTORY_API_URL)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Diagnostic log file (default from INVENTORY_LOG_FILE)")
	rootCmd.PersistentFlags().BoolVar(&strictSchema, "strict", false, "Reject datasets whose rows do not share the same columns")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Also write diagnostics to stderr")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(appendCmd)
	rootCmd.AddCommand(sellCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(restoreCmd)
}

func initConfig() {
	loaded, err := config.Load()
	if err != nil {
		log.Printf("Error loading configuration: %v", err)
	}
	cfg = loaded

	if apiURL != "" {
		cfg.APIBaseURL = apiURL
	}
	if logFile != "" {
		cfg.LogFile = logFile
	}
	if strictSchema {
		cfg.StrictSchema = true
	}
}

// setupLogging starts the diagnostic logger. Terminal UI sessions log to
// the file only.
func setupLogging(toStderr bool) *slog.Logger {
	return logging.Setup(cfg.LogFile, toStderr)
}

func newClient() *api.Client {
	timeout := time.Duration(cfg.HTTPTimeoutMs) * time.Millisecond
	return api.NewClient(cfg.APIBaseURL, &http.Client{Timeout: timeout})
}

// newController builds a controller whose acknowledgments are printed.
func newController(client *api.Client) *controller.Controller {
	return controller.New(client,
		controller.WithLogger(setupLogging(verbose)),
		controller.WithStrictSchema(cfg.StrictSchema),
		controller.WithNotifier(controller.NotifierFunc(func(message string) {
			log.Println(message)
		})),
	)
}
