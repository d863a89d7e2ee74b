package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"gexstore/internal/ingest"
)

// promptResolver asks the user what to do with a duplicate record. It is the
// interactive implementation of ingest.Resolver, and the only point where an
// import run blocks on external input.
type promptResolver struct {
	in  *bufio.Reader
	out io.Writer
}

func (p *promptResolver) Resolve(ticker string, date time.Time, label string) (ingest.Decision, bool, error) {
	fmt.Fprintf(p.out, "%s - %s - %s already exists.\n", ticker, date.Format("2006-01-02"), label)

	var decision ingest.Decision
	for {
		fmt.Fprint(p.out, "[o]verwrite / [s]kip / [a]bort: ")
		answer, err := p.readLine()
		if err != nil {
			// Closed stdin means nobody can answer; stop the run.
			return ingest.DecisionAbort, true, nil
		}
		switch answer {
		case "o", "overwrite":
			decision = ingest.DecisionOverwrite
		case "s", "skip":
			decision = ingest.DecisionSkip
		case "a", "abort":
			return ingest.DecisionAbort, true, nil
		default:
			continue
		}
		break
	}

	fmt.Fprint(p.out, "apply to all remaining conflicts? [y/N]: ")
	answer, err := p.readLine()
	if err != nil {
		return decision, false, nil
	}
	applyAll := answer == "y" || answer == "yes"
	return decision, applyAll, nil
}

func (p *promptResolver) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.ToLower(strings.TrimSpace(line)), nil
}
