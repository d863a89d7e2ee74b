package cli

import (
	"fmt"
	"text/tabwriter"

	"gexstore/pkg/storage"

	"github.com/spf13/cobra"
)

// newQueryCommand creates the query command over the record store.
func newQueryCommand(app *App) *cobra.Command {
	var (
		ticker string
		from   string
		to     string
	)

	cmd := &cobra.Command{
		Use:   "query",
		Short: "List stored records, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := storage.Filter{Ticker: ticker}
			if from != "" && to != "" {
				start, err := parseDate(from)
				if err != nil {
					return err
				}
				end, err := parseDate(to)
				if err != nil {
					return err
				}
				f.From, f.To = start, end
			}

			store, err := app.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.Query(cmd.Context(), f)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TICKER\tDATE\tLABEL\tVALUE")
			for _, r := range records {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Ticker, r.Date.Format("2006-01-02"), r.Label, r.Value)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&ticker, "ticker", "", "exact ticker filter")
	cmd.Flags().StringVar(&from, "from", "", "range start (YYYY-MM-DD, needs --to)")
	cmd.Flags().StringVar(&to, "to", "", "range end, inclusive (YYYY-MM-DD, needs --from)")

	return cmd
}

// newTickersCommand lists every distinct ticker in the store.
func newTickersCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tickers",
		Short: "List stored tickers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := app.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			tickers, err := store.DistinctTickers(cmd.Context())
			if err != nil {
				return err
			}
			for _, t := range tickers {
				fmt.Fprintln(cmd.OutOrStdout(), t)
			}
			return nil
		},
	}
}
