package gex

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseTickerAndPairs(t *testing.T) {
	parsed, err := Parse("2024-03-01", "TSLA: Gamma Flip, 250.25, Call Wall, 260")
	require.NoError(t, err)

	assert.Equal(t, "TSLA", parsed.Ticker)
	assert.Equal(t, date(2024, 3, 1), parsed.Date)
	assert.Equal(t, "TSLA: Gamma Flip, 250.25, Call Wall, 260", parsed.Raw)
	require.Equal(t, []Pair{
		{Label: "Gamma Flip", Value: 250.25},
		{Label: "Call Wall", Value: 260},
	}, parsed.Pairs)
}

func TestParseUppercasesTicker(t *testing.T) {
	parsed, err := Parse("2024-03-01", "brk.b: Call Wall, 410")
	require.NoError(t, err)
	assert.Equal(t, "BRK.B", parsed.Ticker)
}

func TestParseFansOutJoinedLabels(t *testing.T) {
	parsed, err := Parse("2024-03-01", "SPY: Call Wall&Put Wall, 100")
	require.NoError(t, err)
	require.Equal(t, []Pair{
		{Label: "Call Wall", Value: 100},
		{Label: "Put Wall", Value: 100},
	}, parsed.Pairs)
}

func TestParseLenientTokenSkip(t *testing.T) {
	// "noise" is followed by a non-numeric token, so it is dropped alone and
	// the walk resumes one token later.
	parsed, err := Parse("2024-03-01", "AAPL: noise, Call Wall, 190.5")
	require.NoError(t, err)
	require.Equal(t, []Pair{{Label: "Call Wall", Value: 190.5}}, parsed.Pairs)
}

func TestParseOddTrailingToken(t *testing.T) {
	parsed, err := Parse("2024-03-01", "AAPL: Call Wall, 190.5, dangling")
	require.NoError(t, err)
	require.Equal(t, []Pair{{Label: "Call Wall", Value: 190.5}}, parsed.Pairs)
}

func TestParseEmptyBody(t *testing.T) {
	parsed, err := Parse("2024-03-01", "AAPL:")
	require.NoError(t, err)
	assert.Empty(t, parsed.Pairs)
	assert.Equal(t, "AAPL:", parsed.Raw)
}

func TestParseMalformedCode(t *testing.T) {
	_, err := Parse("2024-03-01", "no ticker token in here")
	require.ErrorIs(t, err, ErrMalformedCode)
}

func TestParseEmbeddedDate(t *testing.T) {
	parsed, err := Parse("2024-03-01", "AAPL 20240115 093000 AAPL: Call Wall, 190.5")
	require.NoError(t, err)

	assert.Equal(t, "AAPL", parsed.Ticker)
	assert.Equal(t, date(2024, 1, 15), parsed.Date, "embedded date must win over the fallback")
	require.Equal(t, []Pair{{Label: "Call Wall", Value: 190.5}}, parsed.Pairs)
}

func TestParseTrimsVerbatim(t *testing.T) {
	parsed, err := Parse("2024-03-01", "  QQQ: Gamma Flip, 430  ")
	require.NoError(t, err)
	assert.Equal(t, "QQQ: Gamma Flip, 430", parsed.Raw)
}

func TestResolveDateFallback(t *testing.T) {
	got, err := ResolveDate("QQQ: Gamma Flip, 430", "2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, date(2024, 3, 1), got)
}

func TestResolveDateFallbackWithTime(t *testing.T) {
	// Callers may pass raw date-time strings; only the date portion counts.
	got, err := ResolveDate("QQQ: Gamma Flip, 430", "2024-03-01 09:30:00")
	require.NoError(t, err)
	assert.Equal(t, date(2024, 3, 1), got)
}

func TestResolveDateInvalid(t *testing.T) {
	_, err := ResolveDate("QQQ: Gamma Flip, 430", "not-a-date")
	require.ErrorIs(t, err, ErrInvalidDate)

	_, err = ResolveDate("QQQ: Gamma Flip, 430", "")
	require.ErrorIs(t, err, ErrInvalidDate)
}

func TestEmbeddedDate(t *testing.T) {
	got, ok := EmbeddedDate("TSLA 20240315 093000 TSLA: Call Wall, 180")
	require.True(t, ok)
	assert.Equal(t, date(2024, 3, 15), got)

	_, ok = EmbeddedDate("TSLA: Call Wall, 180")
	assert.False(t, ok)
}
