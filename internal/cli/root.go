package cli

import (
	"gexstore/config"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// App holds the dependencies shared by all commands.
type App struct {
	Cfg *config.Config
	Log *zap.Logger

	onConflict string
}

// NewRootCommand creates the root command for the gexstore CLI.
func NewRootCommand(cfg *config.Config, log *zap.Logger) *cobra.Command {
	app := &App{Cfg: cfg, Log: log}

	cmd := &cobra.Command{
		Use:           "gexstore",
		Short:         "Ingest and query per-ticker gamma-exposure levels",
		Long:          "gexstore merges TV-style gex codes from manual entry, text exports,\nExcel workbooks and remote spreadsheets into a single record store.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&app.onConflict, "on-conflict", cfg.Import.OnConflict,
		"what to do when a record already exists (prompt|skip|overwrite|abort)")

	cmd.AddCommand(newAddCommand(app))
	cmd.AddCommand(newImportCommand(app))
	cmd.AddCommand(newSyncCommand(app))
	cmd.AddCommand(newServeCommand(app))
	cmd.AddCommand(newOHLCCommand(app))
	cmd.AddCommand(newQueryCommand(app))
	cmd.AddCommand(newDeleteCommand(app))
	cmd.AddCommand(newTickersCommand(app))

	return cmd
}
