package cli

import (
	"fmt"

	"gexstore/pkg/sheets"

	"github.com/spf13/cobra"
)

// newSyncCommand creates the sync command for one-shot remote
// synchronization.
func newSyncCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Incrementally sync from the configured remote spreadsheets",
		Long: `Synchronize the store against the configured remote spreadsheets.

Each sheet title is a ticker. Only rows at or after the ticker's latest
stored date are imported, so re-running against unchanged sheets writes
nothing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(app.Cfg.Sheets.Spreadsheets) == 0 {
				return fmt.Errorf("no spreadsheets configured under sheets.spreadsheets")
			}

			store, err := app.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			pl, err := app.pipeline(store)
			if err != nil {
				return err
			}

			client := sheets.NewClient(
				app.Cfg.Sheets.BaseURL,
				app.Cfg.Sheets.Key(app.Cfg.Log.Environment),
				app.Cfg.Sheets.Timeout,
			)

			sum, err := pl.SyncRemote(cmd.Context(), client, app.Cfg.Sheets.Spreadsheets)
			if err != nil {
				return err
			}
			printSummary(cmd, sum)
			return nil
		},
	}

	return cmd
}
