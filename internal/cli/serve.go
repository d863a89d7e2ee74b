package cli

import (
	"context"
	"fmt"
	"time"

	"gexstore/internal/autosync"
	"gexstore/internal/ingest"
	"gexstore/pkg/sheets"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// newServeCommand creates the serve command: a headless daemon that syncs
// the remote spreadsheets at startup and at every UTC midnight.
func newServeCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the scheduled remote sync daemon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(app.Cfg.Sheets.Spreadsheets) == 0 {
				return fmt.Errorf("no spreadsheets configured under sheets.spreadsheets")
			}

			store, err := app.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			// Headless runs cannot prompt; incoming data wins.
			pl := ingest.New(store, ingest.Static{Decision: ingest.DecisionOverwrite}, app.Log)
			client := sheets.NewClient(
				app.Cfg.Sheets.BaseURL,
				app.Cfg.Sheets.Key(app.Cfg.Log.Environment),
				app.Cfg.Sheets.Timeout,
			)

			sched := &autosync.Scheduler{
				Run: func() {
					ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
					defer cancel()
					if _, err := pl.SyncRemote(ctx, client, app.Cfg.Sheets.Spreadsheets); err != nil {
						app.Log.Error("scheduled sync failed", zap.Error(err))
					}
				},
			}
			sched.Start()

			<-cmd.Context().Done()
			return nil
		},
	}

	return cmd
}
