package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gexstore/pkg/storage"

	"go.uber.org/zap"
)

// ErrAborted is returned once a run's conflict resolution chose Abort. No
// further writes happen for that run.
var ErrAborted = errors.New("import aborted")

// ErrSourceUnavailable marks an unreadable workbook or remote source.
var ErrSourceUnavailable = errors.New("source unavailable")

// Decision is the outcome of conflict resolution for one duplicate key.
type Decision int

const (
	DecisionUnset Decision = iota
	DecisionSkip
	DecisionOverwrite
	DecisionAbort
)

func (d Decision) String() string {
	switch d {
	case DecisionSkip:
		return "skip"
	case DecisionOverwrite:
		return "overwrite"
	case DecisionAbort:
		return "abort"
	default:
		return "unset"
	}
}

// Resolver decides what to do when a write collides with an existing record.
// applyAll makes the decision sticky for the remainder of the run.
type Resolver interface {
	Resolve(ticker string, date time.Time, label string) (d Decision, applyAll bool, err error)
}

// Static is a non-interactive Resolver that always answers the same decision,
// for headless runs and tests.
type Static struct {
	Decision Decision
}

func (s Static) Resolve(string, time.Time, string) (Decision, bool, error) {
	return s.Decision, true, nil
}

// Summary is what a finished run reports to its caller.
type Summary struct {
	Written int
	Aborted bool
	// Ticker is the last parsed ticker, advisory only; the CLI uses it to
	// pre-fill the query filter after a single entry.
	Ticker string
}

// Run carries the state of one ingestion invocation: the conflict decision,
// its sticky bit, and the written count. A Run is never shared between
// invocations, so decisions cannot leak across imports.
type Run struct {
	store    storage.Store
	resolver Resolver
	log      *zap.Logger

	decision Decision
	sticky   bool
	written  int
	aborted  bool
}

func newRun(store storage.Store, resolver Resolver, log *zap.Logger) *Run {
	return &Run{store: store, resolver: resolver, log: log}
}

// write inserts one record, routing key collisions through conflict
// resolution. Overwrites and fresh inserts count as written; skips do not.
func (r *Run) write(ctx context.Context, ticker string, date time.Time, label, value string) error {
	if r.aborted {
		return ErrAborted
	}

	id, exists, err := r.store.Find(ctx, ticker, date, label)
	if err != nil {
		return fmt.Errorf("store lookup: %w", err)
	}

	if !exists {
		rec := &storage.Record{Ticker: ticker, Date: date, Label: label, Value: value}
		if err := r.store.Insert(ctx, rec); err != nil {
			return fmt.Errorf("store insert: %w", err)
		}
		r.written++
		return nil
	}

	decision := r.decision
	if !r.sticky || decision == DecisionUnset {
		d, applyAll, err := r.resolver.Resolve(ticker, date, label)
		if err != nil {
			return fmt.Errorf("conflict resolution: %w", err)
		}
		r.decision = d
		r.sticky = applyAll
		decision = d
	}

	switch decision {
	case DecisionOverwrite:
		if err := r.store.UpdateValue(ctx, id, value); err != nil {
			return fmt.Errorf("store update: %w", err)
		}
		r.written++
	case DecisionAbort:
		r.aborted = true
		return ErrAborted
	default:
		// Skip (or an unset answer): existing value wins, nothing written.
	}
	return nil
}

func (r *Run) summary() *Summary {
	return &Summary{Written: r.written, Aborted: r.aborted}
}
