package ingest

import (
	"context"
	"fmt"
	"time"

	"gexstore/pkg/prices"
	"gexstore/pkg/storage"

	"go.uber.org/zap"
)

// PriceSource provides daily OHLC candles. Implemented by prices.Client.
type PriceSource interface {
	DailyRange(ctx context.Context, symbol string, start, end time.Time) ([]prices.Candle, error)
}

// UpdateOHLC refreshes the Open/High/Low/Close records of every given ticker
// for one day. Existing OHLC records for that day are replaced wholesale.
// It returns the number of tickers that had data for the day.
func (p *Pipeline) UpdateOHLC(ctx context.Context, src PriceSource, tickers []string, day time.Time) (int, error) {
	day = storage.Day(day)
	run := newRun(p.Store, p.Resolver, p.Log)

	updated := 0
	for _, ticker := range tickers {
		candles, err := src.DailyRange(ctx, prices.Symbol(ticker), day, day.Add(24*time.Hour))
		if err != nil {
			p.Log.Warn("no price data", zap.String("ticker", ticker), zap.Error(err))
			continue
		}
		if len(candles) == 0 {
			continue
		}
		if err := p.writeCandle(ctx, run, ticker, candles[0]); err != nil {
			return updated, err
		}
		updated++
	}
	return updated, nil
}

// UpdateOHLCRange refreshes one ticker's OHLC records for every trading day
// in the inclusive [from, to] range and returns the number of days written.
func (p *Pipeline) UpdateOHLCRange(ctx context.Context, src PriceSource, ticker string, from, to time.Time) (int, error) {
	candles, err := src.DailyRange(ctx, prices.Symbol(ticker), storage.Day(from), storage.Day(to).Add(24*time.Hour))
	if err != nil {
		return 0, fmt.Errorf("fetch %s: %w", ticker, err)
	}

	run := newRun(p.Store, p.Resolver, p.Log)
	days := 0
	for _, candle := range candles {
		if err := p.writeCandle(ctx, run, ticker, candle); err != nil {
			// Earlier days are already committed; report how far we got.
			return days, err
		}
		days++
	}
	return days, nil
}

// writeCandle replaces the day's OHLC labels with the candle's values. The
// delete-then-insert keeps the natural key unique without engaging conflict
// resolution for price refreshes.
func (p *Pipeline) writeCandle(ctx context.Context, run *Run, ticker string, c prices.Candle) error {
	if err := p.Store.DeleteLabels(ctx, ticker, c.Date, storage.OHLCLabels); err != nil {
		return fmt.Errorf("clear ohlc for %s: %w", ticker, err)
	}
	values := []float64{c.Open, c.High, c.Low, c.Close}
	for i, label := range storage.OHLCLabels {
		if err := run.write(ctx, ticker, c.Date, label, storage.FormatValue(values[i])); err != nil {
			return err
		}
	}
	return nil
}
