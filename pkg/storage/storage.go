package storage

import (
	"context"
	"strconv"
	"time"
)

// LabelCode is the reserved label under which the verbatim encoded string of
// every imported code is preserved, independently of the metric records
// derived from it.
const LabelCode = "TV Code"

// OHLCLabels are the labels written by the price updater. They are replaced
// wholesale for a (ticker, day) rather than reconciled record by record.
var OHLCLabels = []string{"Open", "High", "Low", "Close"}

// Record is one stored data point, keyed by (ticker, date, label).
// Metric values are float64 rendered with FormatValue; the LabelCode record
// carries the raw encoded string instead.
type Record struct {
	ID uint `gorm:"primaryKey"`

	// unique natural key
	Ticker string    `gorm:"type:text;not null;index:idx_record_ticker;index:idx_ticker_date_label,unique"`
	Date   time.Time `gorm:"type:date;not null;index:idx_ticker_date_label,unique"`
	Label  string    `gorm:"type:text;not null;index:idx_ticker_date_label,unique"`

	Value string `gorm:"type:text;not null"`

	RecordedAt time.Time `gorm:"autoCreateTime"`
}

// TableName overrides the default table name for GORM.
func (Record) TableName() string {
	return "gex_record"
}

// Filter narrows a Query. Zero-value fields are ignored; From and To are
// inclusive and only applied when both are set.
type Filter struct {
	Ticker string
	From   time.Time
	To     time.Time
}

// Store is the persistence contract the ingestion engine needs. All
// operations are synchronous and atomic at single-record granularity.
type Store interface {
	// Find reports the id of the record with this natural key, if any.
	Find(ctx context.Context, ticker string, date time.Time, label string) (uint, bool, error)
	Insert(ctx context.Context, rec *Record) error
	UpdateValue(ctx context.Context, id uint, value string) error
	// Delete removes the record matching the full tuple, value included.
	Delete(ctx context.Context, ticker string, date time.Time, label, value string) error
	// Query returns matching records ordered newest date first.
	Query(ctx context.Context, f Filter) ([]Record, error)
	DistinctTickers(ctx context.Context) ([]string, error)
	// MaxDate returns the latest stored date for a ticker, or nil when the
	// ticker has no records.
	MaxDate(ctx context.Context, ticker string) (*time.Time, error)
	// DeleteLabels removes every record for the ticker and day whose label is
	// in labels.
	DeleteLabels(ctx context.Context, ticker string, date time.Time, labels []string) error
}

// Day truncates t to day granularity at UTC midnight. All dates entering the
// store go through this so that date equality is calendar equality.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// FormatValue renders a metric value the way it is stored.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
