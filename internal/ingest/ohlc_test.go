package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"gexstore/pkg/prices"
	"gexstore/pkg/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePrices struct {
	candles map[string][]prices.Candle
}

func (f *fakePrices) DailyRange(_ context.Context, symbol string, start, end time.Time) ([]prices.Candle, error) {
	candles, ok := f.candles[symbol]
	if !ok {
		return nil, errors.New("unknown symbol")
	}
	var out []prices.Candle
	for _, c := range candles {
		if !c.Date.Before(start) && c.Date.Before(end) {
			out = append(out, c)
		}
	}
	return out, nil
}

func TestUpdateOHLCWritesFourLabels(t *testing.T) {
	store := storage.NewMemoryStore()
	pl := newTestPipeline(store, Static{Decision: DecisionOverwrite})
	src := &fakePrices{candles: map[string][]prices.Candle{
		"TSLA": {{Date: day("2024-03-01"), Open: 250, High: 260, Low: 245, Close: 255}},
	}}

	n, err := pl.UpdateOHLC(context.Background(), src, []string{"TSLA"}, day("2024-03-01"))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	records := store.All()
	require.Len(t, records, 4)
	assert.Equal(t, "250", findRecord(t, records, "Open").Value)
	assert.Equal(t, "260", findRecord(t, records, "High").Value)
	assert.Equal(t, "245", findRecord(t, records, "Low").Value)
	assert.Equal(t, "255", findRecord(t, records, "Close").Value)
}

func TestUpdateOHLCReplacesExistingDay(t *testing.T) {
	store := storage.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Insert(ctx, &storage.Record{
		Ticker: "TSLA", Date: day("2024-03-01"), Label: "Close", Value: "1",
	}))

	pl := newTestPipeline(store, Static{Decision: DecisionOverwrite})
	src := &fakePrices{candles: map[string][]prices.Candle{
		"TSLA": {{Date: day("2024-03-01"), Open: 250, High: 260, Low: 245, Close: 255}},
	}}

	_, err := pl.UpdateOHLC(ctx, src, []string{"TSLA"}, day("2024-03-01"))
	require.NoError(t, err)

	records := store.All()
	require.Len(t, records, 4, "stale OHLC records are replaced, not duplicated")
	assert.Equal(t, "255", findRecord(t, records, "Close").Value)
}

func TestUpdateOHLCSkipsTickersWithoutData(t *testing.T) {
	store := storage.NewMemoryStore()
	pl := newTestPipeline(store, Static{Decision: DecisionOverwrite})
	src := &fakePrices{candles: map[string][]prices.Candle{
		"TSLA": {{Date: day("2024-03-01"), Open: 250, High: 260, Low: 245, Close: 255}},
	}}

	n, err := pl.UpdateOHLC(context.Background(), src, []string{"UNKNOWN", "TSLA"}, day("2024-03-01"))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestUpdateOHLCRangeCountsDays(t *testing.T) {
	store := storage.NewMemoryStore()
	pl := newTestPipeline(store, Static{Decision: DecisionOverwrite})
	src := &fakePrices{candles: map[string][]prices.Candle{
		"^SPX": {
			{Date: day("2024-03-01"), Open: 1, High: 2, Low: 0.5, Close: 1.5},
			{Date: day("2024-03-04"), Open: 2, High: 3, Low: 1.5, Close: 2.5},
		},
	}}

	n, err := pl.UpdateOHLCRange(context.Background(), src, "SPX", day("2024-03-01"), day("2024-03-04"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Len(t, store.All(), 8)
}

// flakyStore fails DeleteLabels after a set number of calls.
type flakyStore struct {
	*storage.MemoryStore
	failAfter int
	calls     int
}

func (f *flakyStore) DeleteLabels(ctx context.Context, ticker string, date time.Time, labels []string) error {
	f.calls++
	if f.calls > f.failAfter {
		return errors.New("connection reset")
	}
	return f.MemoryStore.DeleteLabels(ctx, ticker, date, labels)
}

func TestUpdateOHLCRangeReportsPartialProgress(t *testing.T) {
	store := &flakyStore{MemoryStore: storage.NewMemoryStore(), failAfter: 1}
	pl := newTestPipeline(store, Static{Decision: DecisionOverwrite})
	src := &fakePrices{candles: map[string][]prices.Candle{
		"TSLA": {
			{Date: day("2024-03-01"), Open: 1, High: 2, Low: 0.5, Close: 1.5},
			{Date: day("2024-03-04"), Open: 2, High: 3, Low: 1.5, Close: 2.5},
		},
	}}

	n, err := pl.UpdateOHLCRange(context.Background(), src, "TSLA", day("2024-03-01"), day("2024-03-04"))
	require.Error(t, err)
	assert.Equal(t, 1, n, "committed days are reported even when the run fails")
	assert.Len(t, store.All(), 4)
}
