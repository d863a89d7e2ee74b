package cli

import (
	"time"

	"github.com/spf13/cobra"
)

// newAddCommand creates the add command for single manual entries.
func newAddCommand(app *App) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "add <code>",
		Short: "Ingest one gex code",
		Long: `Ingest a single gex code string.

The --date flag supplies the fallback date; a date embedded in the code
("TSLA 20240315 093000 TSLA: ...") always wins over it.

Example:
  gexstore add --date 2024-03-01 "TSLA: Gamma Flip, 250.25, Call Wall, 260"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := app.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			pl, err := app.pipeline(store)
			if err != nil {
				return err
			}

			sum, err := pl.ImportSingle(cmd.Context(), date, args[0])
			if err != nil {
				return err
			}
			printSummary(cmd, sum)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", time.Now().UTC().Format("2006-01-02"),
		"fallback date for the code (YYYY-MM-DD)")

	return cmd
}
