package cli

import (
	"os"
	"path/filepath"
	"strings"

	"gexstore/internal/ingest"

	"github.com/spf13/cobra"
)

// newImportCommand creates the import command for text exports and Excel
// workbooks. The file extension picks the shape.
func newImportCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Bulk import gex codes from a text export or Excel workbook",
		Long: `Import gex codes from a file.

.xlsx/.xlsm/.xls files are read as workbooks: each sheet name is the ticker
and each row must carry a "TV Code" column. Any other file is read as a text
export: one code per line, date-heading lines apply to the code lines below
them, and a YYYYMMDD token in the filename seeds the date.

Example:
  gexstore import 20251212_TV\ Code.txt
  gexstore import levels.xlsx --on-conflict overwrite`,
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

			var sum *ingest.Summary
			switch strings.ToLower(filepath.Ext(args[0])) {
			case ".xlsx", ".xlsm", ".xls":
				sum, err = pl.ImportWorkbook(cmd.Context(), args[0])
			default:
				f, openErr := os.Open(args[0])
				if openErr != nil {
					return openErr
				}
				defer f.Close()
				sum, err = pl.ImportText(cmd.Context(), f, args[0])
			}
			if err != nil {
				return err
			}
			printSummary(cmd, sum)
			return nil
		},
	}

	return cmd
}
