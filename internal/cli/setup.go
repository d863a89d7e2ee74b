package cli

import (
	"bufio"
	"fmt"
	"os"
	"time"

	"gexstore/internal/gex"
	"gexstore/internal/ingest"
	"gexstore/pkg/storage"
	"gexstore/pkg/storage/postgres"
)

// openStore connects to Postgres, creating and migrating the database when
// needed.
func (a *App) openStore() (*postgres.Client, error) {
	client, err := postgres.Initialize(a.Cfg.Postgres, a.Cfg.Log.Environment, true)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return client, nil
}

// resolver builds the conflict policy selected by --on-conflict.
func (a *App) resolver() (ingest.Resolver, error) {
	switch a.onConflict {
	case "prompt":
		return &promptResolver{in: bufio.NewReader(os.Stdin), out: os.Stdout}, nil
	case "skip":
		return ingest.Static{Decision: ingest.DecisionSkip}, nil
	case "overwrite":
		return ingest.Static{Decision: ingest.DecisionOverwrite}, nil
	case "abort":
		return ingest.Static{Decision: ingest.DecisionAbort}, nil
	default:
		return nil, fmt.Errorf("invalid --on-conflict %q: must be prompt, skip, overwrite or abort", a.onConflict)
	}
}

func (a *App) pipeline(store storage.Store) (*ingest.Pipeline, error) {
	res, err := a.resolver()
	if err != nil {
		return nil, err
	}
	return ingest.New(store, res, a.Log), nil
}

// parseDate parses a CLI-supplied date, accepting the same formats as
// code fallback dates.
func parseDate(s string) (time.Time, error) {
	return gex.ResolveDate("", s)
}
