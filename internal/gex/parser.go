// Package gex parses TV-style encoded gamma-exposure strings into canonical
// (ticker, date, label, value) tuples.
//
// A code looks like "TSLA: Gamma Flip, 250.25, Call Wall, 260", optionally
// prefixed with "TSLA 20240315 093000" carrying an embedded date. Labels may
// be joined with '&' to share one value ("Call Wall&Put Wall, 100").
package gex

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrMalformedCode means no ticker token could be found in the code.
	ErrMalformedCode = errors.New("malformed gex code")
	// ErrInvalidDate means neither the embedded nor the fallback date parsed.
	ErrInvalidDate = errors.New("invalid date")
)

var (
	tickerRe   = regexp.MustCompile(`([A-Za-z.]+):`)
	embeddedRe = regexp.MustCompile(`^[A-Za-z.]+\s+(\d{8})\b`)
	bodySepRe  = regexp.MustCompile(`,\s*`)
)

// Pair is one decoded metric: a label and its price level.
type Pair struct {
	Label string
	Value float64
}

// Code is a fully decoded gex code.
type Code struct {
	Ticker string
	Date   time.Time
	Raw    string // trimmed verbatim input, preserved under the reserved label
	Pairs  []Pair
}

// Parse decodes one gex code string. rawDate is the caller-supplied fallback
// date (a date or date-time string); an embedded date in the code wins over
// it. The pair walk is lenient: a token whose following token is not numeric
// is dropped alone and the walk continues one token later, so a single stray
// token never discards the rest of the code.
func Parse(rawDate, code string) (*Code, error) {
	m := tickerRe.FindStringSubmatchIndex(code)
	if m == nil {
		return nil, fmt.Errorf("%w: %q", ErrMalformedCode, code)
	}
	ticker := strings.ToUpper(code[m[2]:m[3]])

	date, err := ResolveDate(code, rawDate)
	if err != nil {
		return nil, err
	}

	parsed := &Code{
		Ticker: ticker,
		Date:   date,
		Raw:    strings.TrimSpace(code),
	}

	body := strings.TrimSpace(code[m[1]:])
	if body == "" {
		return parsed, nil
	}

	tokens := bodySepRe.Split(body, -1)
	for i := 0; i < len(tokens)-1; {
		value, err := strconv.ParseFloat(strings.TrimSpace(tokens[i+1]), 64)
		if err != nil {
			// Stray token: skip it alone, not the pair. Downstream data
			// depends on this exact recovery.
			i++
			continue
		}
		for _, label := range strings.Split(tokens[i], "&") {
			parsed.Pairs = append(parsed.Pairs, Pair{Label: strings.TrimSpace(label), Value: value})
		}
		i += 2
	}
	return parsed, nil
}

// fallbackLayouts are the accepted formats for caller-supplied dates.
var fallbackLayouts = []string{"2006-01-02", "2006-1-2", "2006/01/02", "20060102"}

// ResolveDate picks the effective date for a code. An embedded
// "TICKER YYYYMMDD ..." prefix always wins; otherwise the first
// whitespace-delimited token of fallback is parsed, so date-time strings like
// "2024-03-01 09:30:00" resolve to their date portion.
func ResolveDate(code, fallback string) (time.Time, error) {
	if m := embeddedRe.FindStringSubmatch(code); m != nil {
		t, err := time.Parse("20060102", m[1])
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: embedded %q", ErrInvalidDate, m[1])
		}
		return day(t), nil
	}

	fields := strings.Fields(fallback)
	if len(fields) == 0 {
		return time.Time{}, fmt.Errorf("%w: empty fallback", ErrInvalidDate)
	}
	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, fields[0]); err == nil {
			return day(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, fields[0])
}

// EmbeddedDate reports the date carried inside the code itself, if any.
func EmbeddedDate(code string) (time.Time, bool) {
	m := embeddedRe.FindStringSubmatch(code)
	if m == nil {
		return time.Time{}, false
	}
	t, err := time.Parse("20060102", m[1])
	if err != nil {
		return time.Time{}, false
	}
	return day(t), true
}

func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
