package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newDeleteCommand creates the delete command. The full tuple is required so
// a stale value never deletes a record that was overwritten since.
func newDeleteCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <ticker> <date> <label> <value>",
		Short: "Delete one stored record",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := parseDate(args[1])
			if err != nil {
				return err
			}

			store, err := app.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Delete(cmd.Context(), args[0], day, args[2], args[3]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "deleted")
			return nil
		},
	}

	return cmd
}
