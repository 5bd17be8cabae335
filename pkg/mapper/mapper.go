// Package mapper converts between spreadsheet rows and festival records.
//
// Every kind has a declarative column table (see Columns). Numbers fall
// back to 0 and dates fall back to "now". Blank rows decode to nil. The
// only row-level failure is an enum value outside of its closed set,
// reported as *RowError.
package mapper

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/artsfest/festsync/pkg/festival"
	"github.com/artsfest/festsync/pkg/sheets"
)

// Mapper holds the clock used for date fallbacks.
type Mapper struct {
	now func() time.Time
}

// Option configures a Mapper.
type Option func(*Mapper)

// OptClock replaces time.Now, mostly for tests.
func OptClock(fn func() time.Time) Option {
	return func(m *Mapper) {
		if fn != nil {
			m.now = fn
		}
	}
}

// New creates a Mapper that uses the current UTC time for missing dates.
func New(opts ...Option) *Mapper {
	res := &Mapper{
		now: func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(res)
	}
	return res
}

// Now returns the mapper's notion of the current time.
func (m *Mapper) Now() time.Time {
	return m.now()
}

// ToRow projects a record onto the canonical column order. It never fails:
// missing values become empty strings or zeros.
func (m *Mapper) ToRow(rec festival.Record) []any {
	cols := tables[rec.Kind()]
	res := make([]any, len(cols))
	for i, c := range cols {
		res[i] = c.get(rec)
	}
	return res
}

// FromRow decodes a row laid out in canonical order. It returns nil, nil
// for a blank or missing row.
func (m *Mapper) FromRow(k festival.Kind, row []string) (festival.Record, error) {
	return m.Decode(Canonical(k), row)
}

// Decode builds a new record from a row laid out according to l. Dates
// that are absent or unreadable are set to now.
func (m *Mapper) Decode(l *Layout, row []string) (festival.Record, error) {
	if sheets.IsBlankRow(row) {
		return nil, nil
	}
	res := l.kind.New()
	for _, p := range l.cols {
		if err := p.col.set(m, res, cellAt(row, p.pos)); err != nil {
			return nil, &RowError{Column: p.col.Header, Err: err}
		}
	}
	fillDates(res.Base(), m.now())
	return res, nil
}

// Apply copies the non-bookkeeping columns present in l onto an existing
// record. Columns missing from the sheet keep their stored values.
func (m *Mapper) Apply(rec festival.Record, l *Layout, row []string) error {
	if rec.Kind() != l.kind {
		return fmt.Errorf("cannot apply %s layout to %s record",
			l.kind, rec.Kind())
	}
	for _, p := range l.cols {
		if p.col.Bookkeeping {
			continue
		}
		if err := p.col.set(m, rec, cellAt(row, p.pos)); err != nil {
			return &RowError{Column: p.col.Header, Err: err}
		}
	}
	return nil
}

// FromDocument decodes a field-keyed document, such as the output of the
// sheet analyzer, into a record. Unknown fields are ignored. A document
// without any known field decodes to nil.
func (m *Mapper) FromDocument(
	k festival.Kind,
	doc map[string]any,
) (festival.Record, error) {
	cols, ok := tables[k]
	if !ok {
		return nil, fmt.Errorf("unknown kind %q", k)
	}
	res := k.New()
	var found bool
	for _, c := range cols {
		v, ok := doc[c.Field]
		if !ok {
			continue
		}
		s := docString(v)
		if !c.Bookkeeping && strings.TrimSpace(s) != "" {
			found = true
		}
		if err := c.set(m, res, s); err != nil {
			return nil, &RowError{Column: c.Header, Err: err}
		}
	}
	if !found {
		return nil, nil
	}
	fillDates(res.Base(), m.now())
	return res, nil
}

// ApplyDocument copies the non-bookkeeping fields present in doc onto an
// existing record.
func (m *Mapper) ApplyDocument(rec festival.Record, doc map[string]any) error {
	for _, c := range tables[rec.Kind()] {
		v, ok := doc[c.Field]
		if !ok || c.Bookkeeping {
			continue
		}
		if err := c.set(m, rec, docString(v)); err != nil {
			return &RowError{Column: c.Header, Err: err}
		}
	}
	return nil
}

// Cells converts a row of arbitrary cell values to strings.
func Cells(row []any) []string {
	res := make([]string, len(row))
	for i, v := range row {
		res[i] = docString(v)
	}
	return res
}

// RowError tells which column made a row unusable.
type RowError struct {
	Column string
	Err    error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("column %q: %v", e.Column, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"1/2/2006 15:04:05",
	"1/2/2006",
	"02/01/2006",
}

func (m *Mapper) parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return m.now()
	}
	for _, l := range dateLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t.UTC()
		}
	}
	return m.now()
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func fillDates(meta *festival.Meta, now time.Time) {
	if meta.CreatedAt.IsZero() {
		meta.CreatedAt = now
	}
	if meta.UpdatedAt.IsZero() {
		meta.UpdatedAt = now
	}
}

func cellAt(row []string, pos int) string {
	if pos < 0 || pos >= len(row) {
		return ""
	}
	return row[pos]
}

func docString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	case time.Time:
		return formatDate(t)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}
