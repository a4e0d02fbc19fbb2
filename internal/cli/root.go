package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"tradelytics/internal/config"
	"tradelytics/internal/feed"
	"tradelytics/internal/logging"
	"tradelytics/internal/store"
	"tradelytics/internal/trading"
)

// Version information
const (
	Version = "0.1.0"
)

// App holds the application dependencies.
type App struct {
	Config  *config.Config
	Logger  zerolog.Logger
	Store   store.KeyValueStore
	Service *trading.Service
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	rootCmd := &cobra.Command{
		Use:   "tradelytics",
		Short: "Personal trading performance analytics",
		Long: "Tradelytics reconciles trade records from manual entry, broker CSV\n" +
			"exports and JSON feeds into one canonical set, then computes\n" +
			"performance metrics and multi-dimensional breakdowns.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			kv, err := store.NewSQLiteStore(cfg.Data.DBPath)
			if err != nil {
				return err
			}
			app.Store = kv

			loader := feed.NewLoader(cfg.Data.Candidates, logging.WithComponent(logger, "feed"))
			app.Service = trading.NewService(kv, loader, logging.WithComponent(logger, "trading"), cfg.Analytics.CommissionPerUnit)
			return app.Service.Load(cmd.Context())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.Store != nil {
				app.Store.Close()
			}
		},
	}

	rootCmd.PersistentFlags().Bool("json", false, "Output in JSON format")

	addReportCommands(rootCmd, app)
	addTradeCommands(rootCmd, app)
	addDataCommands(rootCmd, app)
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			NewOutput(cmd).Printf("tradelytics %s\n", Version)
		},
	}
}
