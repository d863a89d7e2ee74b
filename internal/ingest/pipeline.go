// Package ingest merges gex codes from manual entry, text exports, workbooks
// and remote spreadsheets into the record store, reconciling duplicate keys
// through a per-run conflict policy.
package ingest

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gexstore/internal/gex"
	"gexstore/pkg/storage"

	"go.uber.org/zap"
)

// Pipeline runs ingestion invocations against one store. Each Import/Sync
// call is an independent run with fresh conflict state.
type Pipeline struct {
	Store    storage.Store
	Resolver Resolver
	Log      *zap.Logger
}

func New(store storage.Store, resolver Resolver, log *zap.Logger) *Pipeline {
	return &Pipeline{Store: store, Resolver: resolver, Log: log}
}

// fileDateRe matches the date prefix of export filenames like
// "20251212_TV Code.txt".
var fileDateRe = regexp.MustCompile(`(\d{8})`)

// ImportSingle ingests one manually entered (date, code) pair. Parse errors
// are returned to the caller; the summary is valid either way.
func (p *Pipeline) ImportSingle(ctx context.Context, rawDate, code string) (*Summary, error) {
	run := newRun(p.Store, p.Resolver, p.Log)
	ticker, err := p.importCode(ctx, run, rawDate, code)

	sum := run.summary()
	sum.Ticker = ticker
	p.logSummary("single entry", sum)

	if err != nil && !errors.Is(err, ErrAborted) {
		return sum, err
	}
	return sum, nil
}

// ImportText ingests a loosely structured text export: one item per
// non-empty line, where a line containing ':' is a gex code and any other
// line is tried as a date heading that applies to the code lines after it.
// A YYYYMMDD token in the filename seeds the current date; when no date was
// ever established, today is used.
func (p *Pipeline) ImportText(ctx context.Context, r io.Reader, filename string) (*Summary, error) {
	run := newRun(p.Store, p.Resolver, p.Log)

	currentDate := ""
	if m := fileDateRe.FindStringSubmatch(filepath.Base(filename)); m != nil {
		if t, err := time.Parse("20060102", m[1]); err == nil {
			currentDate = t.Format("2006-01-02")
		}
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if run.aborted {
			break
		}

		if !strings.Contains(line, ":") {
			// Legacy date headings carry a suffix after '_'.
			token := strings.SplitN(line, "_", 2)[0]
			if _, err := gex.ResolveDate("", token); err == nil {
				currentDate = token
			}
			continue
		}

		useDate := currentDate
		if useDate == "" {
			useDate = time.Now().UTC().Format("2006-01-02")
		}
		if _, err := p.importCode(ctx, run, useDate, line); err != nil {
			if errors.Is(err, ErrAborted) {
				break
			}
			if isItemError(err) {
				p.Log.Warn("skipping line", zap.String("line", line), zap.Error(err))
				continue
			}
			return run.summary(), err
		}
	}
	if err := scanner.Err(); err != nil {
		return run.summary(), fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	sum := run.summary()
	p.logSummary("text import", sum)
	return sum, nil
}

// importCode is the shared loop body of every import shape: resolve the
// date, preserve the verbatim code under the reserved label, then write one
// record per decoded pair until done or the run aborts.
func (p *Pipeline) importCode(ctx context.Context, run *Run, rawDate, code string) (string, error) {
	if run.aborted {
		return "", ErrAborted
	}

	parsed, err := gex.Parse(rawDate, code)
	if err != nil {
		return "", err
	}

	// The verbatim copy goes in before any metric record, so the original
	// input survives even when the body decodes to zero pairs.
	if err := run.write(ctx, parsed.Ticker, parsed.Date, storage.LabelCode, parsed.Raw); err != nil {
		return parsed.Ticker, err
	}
	for _, pair := range parsed.Pairs {
		if err := run.write(ctx, parsed.Ticker, parsed.Date, pair.Label, storage.FormatValue(pair.Value)); err != nil {
			return parsed.Ticker, err
		}
	}
	return parsed.Ticker, nil
}

// isItemError reports whether err is a per-item failure that should skip the
// item and keep the run going.
func isItemError(err error) bool {
	return errors.Is(err, gex.ErrMalformedCode) || errors.Is(err, gex.ErrInvalidDate)
}

func (p *Pipeline) logSummary(kind string, sum *Summary) {
	p.Log.Info("import finished",
		zap.String("kind", kind),
		zap.Int("written", sum.Written),
		zap.Bool("aborted", sum.Aborted),
	)
}
