package ingest

import (
	"context"
	"testing"
	"time"

	"gexstore/pkg/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// scriptResolver replays a fixed sequence of answers and records how often
// it was consulted. The last answer repeats once the script runs out.
type scripted struct {
	d   Decision
	all bool
}

type scriptResolver struct {
	answers []scripted
	calls   int
}

func (s *scriptResolver) Resolve(string, time.Time, string) (Decision, bool, error) {
	i := s.calls
	s.calls++
	if i >= len(s.answers) {
		i = len(s.answers) - 1
	}
	return s.answers[i].d, s.answers[i].all, nil
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestWriteInsertsFreshKey(t *testing.T) {
	store := storage.NewMemoryStore()
	run := newRun(store, Static{Decision: DecisionAbort}, zap.NewNop())

	err := run.write(context.Background(), "TSLA", day("2024-03-01"), "Call Wall", "260")
	require.NoError(t, err)
	assert.Equal(t, 1, run.written)
	assert.Len(t, store.All(), 1)
}

func TestWriteOverwriteUpdatesInPlace(t *testing.T) {
	store := storage.NewMemoryStore()
	run := newRun(store, Static{Decision: DecisionOverwrite}, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, run.write(ctx, "TSLA", day("2024-03-01"), "Call Wall", "260"))
	require.NoError(t, run.write(ctx, "TSLA", day("2024-03-01"), "Call Wall", "265"))

	records := store.All()
	require.Len(t, records, 1)
	assert.Equal(t, "265", records[0].Value)
	assert.Equal(t, 2, run.written, "overwrite counts as written")
}

func TestWriteSkipPreservesExisting(t *testing.T) {
	store := storage.NewMemoryStore()
	run := newRun(store, Static{Decision: DecisionSkip}, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, run.write(ctx, "TSLA", day("2024-03-01"), "Call Wall", "260"))
	require.NoError(t, run.write(ctx, "TSLA", day("2024-03-01"), "Call Wall", "999"))

	records := store.All()
	require.Len(t, records, 1)
	assert.Equal(t, "260", records[0].Value)
	assert.Equal(t, 1, run.written, "skip counts as neither success nor failure")
}

func TestStickyDecisionReused(t *testing.T) {
	store := storage.NewMemoryStore()
	res := &scriptResolver{answers: []scripted{{DecisionOverwrite, true}}}
	run := newRun(store, res, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, run.write(ctx, "TSLA", day("2024-03-01"), "A", "1"))
	require.NoError(t, run.write(ctx, "TSLA", day("2024-03-01"), "B", "2"))
	// Two conflicts, one question.
	require.NoError(t, run.write(ctx, "TSLA", day("2024-03-01"), "A", "10"))
	require.NoError(t, run.write(ctx, "TSLA", day("2024-03-01"), "B", "20"))

	assert.Equal(t, 1, res.calls)
	records := store.All()
	require.Len(t, records, 2)
	assert.Equal(t, "10", records[0].Value)
	assert.Equal(t, "20", records[1].Value)
}

func TestNonStickyAsksEveryConflict(t *testing.T) {
	store := storage.NewMemoryStore()
	res := &scriptResolver{answers: []scripted{{DecisionSkip, false}, {DecisionOverwrite, false}}}
	run := newRun(store, res, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, run.write(ctx, "TSLA", day("2024-03-01"), "A", "1"))
	require.NoError(t, run.write(ctx, "TSLA", day("2024-03-01"), "A", "2")) // skipped
	require.NoError(t, run.write(ctx, "TSLA", day("2024-03-01"), "A", "3")) // overwritten

	assert.Equal(t, 2, res.calls)
	records := store.All()
	require.Len(t, records, 1)
	assert.Equal(t, "3", records[0].Value)
}

func TestAbortStopsFurtherWrites(t *testing.T) {
	store := storage.NewMemoryStore()
	res := &scriptResolver{answers: []scripted{{DecisionAbort, false}}}
	run := newRun(store, res, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, run.write(ctx, "TSLA", day("2024-03-01"), "A", "1"))
	require.ErrorIs(t, run.write(ctx, "TSLA", day("2024-03-01"), "A", "2"), ErrAborted)

	// Even a fresh key is refused once aborted, and the resolver is not
	// consulted again.
	require.ErrorIs(t, run.write(ctx, "TSLA", day("2024-03-01"), "B", "3"), ErrAborted)
	assert.Equal(t, 1, res.calls)

	assert.True(t, run.aborted)
	assert.Len(t, store.All(), 1)
}
