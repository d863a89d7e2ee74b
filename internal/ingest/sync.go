package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// SheetSource exposes the sheets of remote spreadsheets. Implemented by
// sheets.Client; faked in tests.
type SheetSource interface {
	ListSheets(ctx context.Context, spreadsheetID string) ([]string, error)
	ReadSheet(ctx context.Context, spreadsheetID, title string) ([][]string, error)
}

// SyncRemote incrementally synchronizes the store against remote
// spreadsheets, in the order given. Each sheet title is a ticker; the
// ticker's high-watermark (its latest stored date) filters the sheet's rows
// so already-imported history is never re-parsed. The watermark day itself is
// re-offered, keeping same-day corrections subject to conflict resolution.
// An unreachable spreadsheet or sheet is skipped with a warning.
func (p *Pipeline) SyncRemote(ctx context.Context, src SheetSource, spreadsheetIDs []string) (*Summary, error) {
	run := newRun(p.Store, p.Resolver, p.Log)

	for _, id := range spreadsheetIDs {
		if run.aborted {
			break
		}
		titles, err := src.ListSheets(ctx, id)
		if err != nil {
			p.Log.Warn("cannot open spreadsheet, skipped",
				zap.String("spreadsheet", id),
				zap.Error(fmt.Errorf("%w: %v", ErrSourceUnavailable, err)))
			continue
		}

		for _, title := range titles {
			if run.aborted {
				break
			}
			ticker := strings.TrimSpace(title)

			watermark, err := p.Store.MaxDate(ctx, ticker)
			if err != nil {
				return run.summary(), fmt.Errorf("watermark for %s: %w", ticker, err)
			}

			rows, err := src.ReadSheet(ctx, id, title)
			if err != nil {
				p.Log.Warn("unreadable sheet, skipped",
					zap.String("spreadsheet", id),
					zap.String("sheet", title),
					zap.Error(fmt.Errorf("%w: %v", ErrSourceUnavailable, err)))
				continue
			}

			if err := p.importRows(ctx, run, ticker, rows, watermark); err != nil {
				if errors.Is(err, ErrAborted) {
					break
				}
				return run.summary(), err
			}
		}
	}

	sum := run.summary()
	p.logSummary("remote sync", sum)
	return sum, nil
}
