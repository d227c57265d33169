// Package cli provides the command-line interface for the put screener.
package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"put-screener/internal/config"
	"put-screener/internal/logging"
	"put-screener/internal/marketdata"
	"put-screener/internal/store"
)

// Version information
const Version = "0.1.0"

// App holds the application dependencies.
type App struct {
	Config   *config.Config
	Logger   zerolog.Logger
	Provider marketdata.Provider
	Store    store.WatchlistStore
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	app.Provider = marketdata.NewClient(
		cfg.Credentials.MarketData.Token,
		cfg.Credentials.MarketData.BaseURL,
		logger,
	)

	watchStore, err := store.NewSQLiteStore(cfg.Storage.DBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize store, watchlist commands unavailable")
	} else {
		app.Store = watchStore
		logger.Debug().Str("path", cfg.Storage.DBPath).Msg("SQLite store initialized")
	}

	rootCmd := &cobra.Command{
		Use:   "putscan",
		Short: "Cash-secured put screener",
		Long: `putscan screens exchange-listed put options for cash-secured
put-selling opportunities, ranks them by a composite score, and tracks
opened positions to a win/loss outcome.

Use 'putscan help <command>' for more information about a command.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")

	rootCmd.AddCommand(newQuoteCmd(app))
	rootCmd.AddCommand(newScanCmd(app))
	rootCmd.AddCommand(newWatchCmd(app))

	return rootCmd
}
