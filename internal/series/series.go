// Package series holds parsed rows sorted by their date key, with range
// filtering and nearest-prior-date rate lookups.
package series

import (
	"fmt"
	"sort"
	"time"

	"ratecli/internal/dtformat"
	"ratecli/internal/fields"
)

// KeyMode selects how row keys are compared for deduplication and lookup.
type KeyMode int

const (
	// KeyByDate keys rows by calendar day.
	KeyByDate KeyMode = iota
	// KeyByDatetime keys rows by the full timestamp.
	KeyByDatetime
)

// ParseKeyMode maps a config value onto a KeyMode.
func ParseKeyMode(s string) (KeyMode, error) {
	switch s {
	case "", "date":
		return KeyByDate, nil
	case "datetime":
		return KeyByDatetime, nil
	default:
		return KeyByDate, fmt.Errorf("unknown key mode %q", s)
	}
}

func (m KeyMode) String() string {
	if m == KeyByDatetime {
		return "datetime"
	}
	return "date"
}

func (m KeyMode) normalize(t time.Time) time.Time {
	if m == KeyByDatetime {
		return t.UTC()
	}
	return dateOf(t)
}

func dateOf(t time.Time) time.Time {
	y, mo, d := t.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
}

// Row is one parsed line. Fields keep the original column order; the key
// column holds a date field.
type Row struct {
	Key      time.Time
	KeyIndex int
	Fields   []fields.Field
}

// Values returns every field except the key.
func (r Row) Values() []fields.Field {
	values := make([]fields.Field, 0, len(r.Fields))
	for i, f := range r.Fields {
		if i != r.KeyIndex {
			values = append(values, f)
		}
	}
	return values
}

// Entry is a keyed row: one per distinct key.
type Entry struct {
	Key time.Time
	Row Row
}

// Series is immutable once built. rows holds every row in stable key order;
// entries holds one row per key (the last one seen) and index maps a key to
// its entry position.
type Series struct {
	mode    KeyMode
	rows    []Row
	entries []Entry
	index   map[time.Time]int
}

// Build parses the key of every record with format, converts the other
// columns per kinds and sorts the rows by key. Equal keys keep their input
// order, and the keyed view keeps the last of them.
func Build(records [][]string, keyIndex int, format dtformat.DatetimeFormat, kinds []fields.Kind, mode KeyMode) (*Series, error) {
	rows := make([]Row, 0, len(records))
	for i, record := range records {
		row, err := parseRow(record, keyIndex, format, kinds)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Key.Before(rows[j].Key)
	})

	return fromSortedRows(rows, mode), nil
}

func parseRow(record []string, keyIndex int, format dtformat.DatetimeFormat, kinds []fields.Kind) (Row, error) {
	key, err := fields.ResolveIndex(keyIndex, len(record))
	if err != nil {
		return Row{}, err
	}

	ts, err := dtformat.ParseDatetime(record[key], format)
	if err != nil {
		return Row{}, err
	}

	row := Row{Key: ts, KeyIndex: key, Fields: make([]fields.Field, len(record))}
	for col, raw := range record {
		if col == key {
			row.Fields[col] = fields.Date(ts)
			continue
		}
		kind := fields.KindText
		if col < len(kinds) && kinds[col] != fields.KindDate {
			kind = kinds[col]
		}
		f, err := fields.Convert(raw, kind)
		if err != nil {
			return Row{}, fmt.Errorf("column %d: %w", col, err)
		}
		row.Fields[col] = f
	}
	return row, nil
}

// fromSortedRows keys rows that are already sorted.
func fromSortedRows(rows []Row, mode KeyMode) *Series {
	s := &Series{
		mode:    mode,
		rows:    rows,
		entries: make([]Entry, 0, len(rows)),
		index:   make(map[time.Time]int, len(rows)),
	}
	for _, row := range rows {
		key := mode.normalize(row.Key)
		if pos, ok := s.index[key]; ok {
			s.entries[pos].Row = row
			continue
		}
		s.index[key] = len(s.entries)
		s.entries = append(s.entries, Entry{Key: key, Row: row})
	}
	return s
}

// Mode returns the key mode the series was built with.
func (s *Series) Mode() KeyMode { return s.mode }

// KeyOf normalises t the way the series keys its entries.
func (s *Series) KeyOf(t time.Time) time.Time { return s.mode.normalize(t) }

// Len returns the number of distinct keys.
func (s *Series) Len() int { return len(s.entries) }

// Rows returns every row in key order, duplicates included.
func (s *Series) Rows() []Row {
	out := make([]Row, len(s.rows))
	copy(out, s.rows)
	return out
}

// Entries returns one entry per key in ascending key order.
func (s *Series) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Lookup returns the row stored under t's key.
func (s *Series) Lookup(t time.Time) (Row, bool) {
	pos, ok := s.index[s.mode.normalize(t)]
	if !ok {
		return Row{}, false
	}
	return s.entries[pos].Row, true
}

// First returns the entry with the smallest key.
func (s *Series) First() (Entry, bool) {
	if len(s.entries) == 0 {
		return Entry{}, false
	}
	return s.entries[0], true
}

// Last returns the entry with the largest key.
func (s *Series) Last() (Entry, bool) {
	if len(s.entries) == 0 {
		return Entry{}, false
	}
	return s.entries[len(s.entries)-1], true
}
