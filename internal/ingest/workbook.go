package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// ImportWorkbook ingests an Excel workbook where each sheet name is the
// ticker context for its rows. An unreadable sheet logs a warning and the
// run continues with the next one.
func (p *Pipeline) ImportWorkbook(ctx context.Context, path string) (*Summary, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open workbook %s: %v", ErrSourceUnavailable, path, err)
	}
	defer f.Close()

	run := newRun(p.Store, p.Resolver, p.Log)

	for _, sheet := range f.GetSheetList() {
		if run.aborted {
			break
		}
		rows, err := f.GetRows(sheet)
		if err != nil {
			p.Log.Warn("unreadable sheet, skipped", zap.String("sheet", sheet), zap.Error(err))
			continue
		}
		if err := p.importRows(ctx, run, strings.TrimSpace(sheet), rows, nil); err != nil {
			if errors.Is(err, ErrAborted) {
				break
			}
			return run.summary(), err
		}
	}

	sum := run.summary()
	p.logSummary("workbook import", sum)
	return sum, nil
}
