package storage

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store used by tests and dry runs. It enforces
// the same (ticker, date, label) uniqueness as the Postgres implementation.
type MemoryStore struct {
	mu      sync.Mutex
	nextID  uint
	records []Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1}
}

func (m *MemoryStore) Find(_ context.Context, ticker string, date time.Time, label string) (uint, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.records {
		if r.Ticker == ticker && r.Date.Equal(Day(date)) && r.Label == label {
			return r.ID, true, nil
		}
	}
	return 0, false, nil
}

func (m *MemoryStore) Insert(_ context.Context, rec *Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *rec
	cp.ID = m.nextID
	cp.Date = Day(cp.Date)
	cp.RecordedAt = time.Now()
	m.nextID++
	m.records = append(m.records, cp)
	rec.ID = cp.ID
	return nil
}

func (m *MemoryStore) UpdateValue(_ context.Context, id uint, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.records {
		if m.records[i].ID == id {
			m.records[i].Value = value
			return nil
		}
	}
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, ticker string, date time.Time, label, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	day := Day(date)
	kept := m.records[:0]
	for _, r := range m.records {
		if r.Ticker == ticker && r.Date.Equal(day) && r.Label == label && r.Value == value {
			continue
		}
		kept = append(kept, r)
	}
	m.records = kept
	return nil
}

func (m *MemoryStore) Query(_ context.Context, f Filter) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Record
	for _, r := range m.records {
		if f.Ticker != "" && r.Ticker != f.Ticker {
			continue
		}
		if !f.From.IsZero() && !f.To.IsZero() {
			if r.Date.Before(Day(f.From)) || r.Date.After(Day(f.To)) {
				continue
			}
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (m *MemoryStore) DistinctTickers(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := map[string]bool{}
	var out []string
	for _, r := range m.records {
		if !seen[r.Ticker] {
			seen[r.Ticker] = true
			out = append(out, r.Ticker)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (m *MemoryStore) MaxDate(_ context.Context, ticker string) (*time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var max *time.Time
	for _, r := range m.records {
		if r.Ticker != ticker {
			continue
		}
		d := r.Date
		if max == nil || d.After(*max) {
			max = &d
		}
	}
	return max, nil
}

func (m *MemoryStore) DeleteLabels(_ context.Context, ticker string, date time.Time, labels []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	day := Day(date)
	match := map[string]bool{}
	for _, l := range labels {
		match[l] = true
	}
	kept := m.records[:0]
	for _, r := range m.records {
		if r.Ticker == ticker && r.Date.Equal(day) && match[r.Label] {
			continue
		}
		kept = append(kept, r)
	}
	m.records = kept
	return nil
}

// All returns a copy of every stored record, insertion order. Test helper.
func (m *MemoryStore) All() []Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]Record, len(m.records))
	copy(cp, m.records)
	return cp
}
