package ingest

import (
	"context"
	"errors"
	"strings"
	"time"

	"gexstore/internal/gex"
	"gexstore/pkg/storage"

	"go.uber.org/zap"
)

// dateColumn is the optional per-row date column of workbook and remote
// sheets. An embedded date inside the code wins over it.
const dateColumn = "Date"

// importRows feeds the header-plus-data rows of one sheet through the run.
// The sheet is skipped with a warning when the reserved code column is
// missing. Rows with no resolvable date are skipped silently; rows older
// than the watermark (when set) are filtered out before parsing.
func (p *Pipeline) importRows(ctx context.Context, run *Run, ticker string, rows [][]string, watermark *time.Time) error {
	if len(rows) == 0 {
		return nil
	}

	codeCol, dateCol := -1, -1
	for i, h := range rows[0] {
		switch strings.TrimSpace(h) {
		case storage.LabelCode:
			codeCol = i
		case dateColumn:
			dateCol = i
		}
	}
	if codeCol < 0 {
		p.Log.Warn("sheet has no code column, skipped",
			zap.String("ticker", ticker),
			zap.String("column", storage.LabelCode))
		return nil
	}

	for _, row := range rows[1:] {
		if run.aborted {
			return ErrAborted
		}

		code := strings.TrimSpace(cell(row, codeCol))
		if code == "" {
			continue
		}

		date, ok := gex.EmbeddedDate(code)
		if !ok && dateCol >= 0 {
			if d, err := gex.ResolveDate("", cell(row, dateCol)); err == nil {
				date, ok = d, true
			}
		}
		if !ok {
			continue
		}
		if watermark != nil && date.Before(*watermark) {
			continue
		}

		if _, err := p.importCode(ctx, run, date.Format("2006-01-02"), code); err != nil {
			if errors.Is(err, ErrAborted) {
				return err
			}
			if isItemError(err) {
				p.Log.Warn("skipping row",
					zap.String("ticker", ticker),
					zap.String("code", code),
					zap.Error(err))
				continue
			}
			return err
		}
	}
	return nil
}

// cell reads a column from a possibly short row.
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
