package cli

import (
	"fmt"

	"gexstore/internal/ingest"

	"github.com/spf13/cobra"
)

// printSummary writes the one-line end-of-run message every import finishes
// with.
func printSummary(cmd *cobra.Command, sum *ingest.Summary) {
	if sum.Aborted {
		fmt.Fprintf(cmd.OutOrStdout(), "aborted after writing %d record(s)\n", sum.Written)
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d record(s)\n", sum.Written)
}
