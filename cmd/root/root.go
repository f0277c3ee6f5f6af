// Package root contains the root command for the application
package root

import (
	"context"

	"github.com/ruslany/expense-tracker/internal/config"
	"github.com/ruslany/expense-tracker/internal/database"
	"github.com/ruslany/expense-tracker/internal/logging"

	"github.com/spf13/cobra"
)

var (
	// Log is the shared logger instance for commands
	Log logging.Logger = &logging.MockLogger{}

	// Cfg is the loaded application configuration
	Cfg *config.Config

	// DatabasePath overrides the configured database location when set
	DatabasePath string

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "expense-tracker",
		Short: "A personal expense tracker with CSV import, categorization and transaction splitting.",
		Long: `expense-tracker imports CSV exports from financial institutions into a
normalized transaction store, deduplicates re-imported rows, auto-categorizes by
keyword, and supports splitting a transaction into parts that sum to the original.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			Cfg = cfg
			Log = logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)
			if DatabasePath != "" {
				Cfg.Database.Path = DatabasePath
			}
			return nil
		},
	}
)

// Init initializes the root command and all persistent flags
func Init() {
	Cmd.PersistentFlags().StringVar(&DatabasePath, "db", "", "Database file path (overrides configuration)")
}

// OpenStore opens the configured database and syncs the category seed
// file into it. Callers own closing the returned store.
func OpenStore(ctx context.Context) (*database.Store, error) {
	store, err := database.Open(Cfg.Database.Path, Log)
	if err != nil {
		return nil, err
	}
	if err := store.SeedCategoriesFromFile(ctx, Cfg.Categories.SeedFile); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}
