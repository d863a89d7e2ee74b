package cli

import (
	"fmt"

	"gexstore/pkg/prices"

	"github.com/spf13/cobra"
)

// newOHLCCommand creates the ohlc command which refreshes daily price
// candles from the time-series provider.
func newOHLCCommand(app *App) *cobra.Command {
	var (
		ticker string
		date   string
		from   string
		to     string
	)

	cmd := &cobra.Command{
		Use:   "ohlc",
		Short: "Refresh daily OHLC records from the price provider",
		Long: `Refresh Open/High/Low/Close records.

With --date, every stored ticker (or just --ticker) is updated for that day.
With --from and --to, the given --ticker is updated for each trading day in
the range. Existing OHLC records for a refreshed day are replaced.

Example:
  gexstore ohlc --date 2024-03-01
  gexstore ohlc --ticker TSLA --from 2024-01-01 --to 2024-03-01`,
		Args: cobra.NoArgs,
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
			client := prices.NewClient(app.Cfg.Prices.BaseURL, app.Cfg.Prices.Timeout)

			switch {
			case date != "":
				day, err := parseDate(date)
				if err != nil {
					return err
				}
				tickers := []string{ticker}
				if ticker == "" {
					tickers, err = store.DistinctTickers(cmd.Context())
					if err != nil {
						return err
					}
				}
				n, err := pl.UpdateOHLC(cmd.Context(), client, tickers, day)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "updated OHLC for %d ticker(s) on %s\n", n, day.Format("2006-01-02"))
				return nil

			case from != "" && to != "":
				if ticker == "" {
					return fmt.Errorf("--ticker is required with --from/--to")
				}
				start, err := parseDate(from)
				if err != nil {
					return err
				}
				end, err := parseDate(to)
				if err != nil {
					return err
				}
				n, err := pl.UpdateOHLCRange(cmd.Context(), client, ticker, start, end)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "updated %d day(s) of OHLC for %s\n", n, ticker)
				return nil

			default:
				return fmt.Errorf("either --date or both --from and --to are required")
			}
		},
	}

	cmd.Flags().StringVar(&ticker, "ticker", "", "ticker to update (default: all stored tickers with --date)")
	cmd.Flags().StringVar(&date, "date", "", "single day to refresh (YYYY-MM-DD)")
	cmd.Flags().StringVar(&from, "from", "", "range start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "range end, inclusive (YYYY-MM-DD)")

	return cmd
}
