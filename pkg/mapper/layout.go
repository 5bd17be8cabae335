package mapper

import (
	"fmt"
	"strings"

	"github.com/artsfest/festsync/pkg/festival"
)

// Layout binds the columns of a kind to their positions in an actual
// header row.
type Layout struct {
	kind  festival.Kind
	cols  []placed
	width int
}

type placed struct {
	col Column
	pos int
}

// Canonical returns the layout written by exports: every column, in
// table order, starting at column A.
func Canonical(k festival.Kind) *Layout {
	cols := tables[k]
	res := &Layout{kind: k, width: len(cols)}
	res.cols = make([]placed, len(cols))
	for i, c := range cols {
		res.cols[i] = placed{col: c, pos: i}
	}
	return res
}

// NewLayout validates a header row read from a sheet. Blank titles are
// ignored. Every other title must name a known column of the kind, at
// most once, in canonical relative order, and all natural-key columns
// must be present.
func NewLayout(k festival.Kind, header []string) (*Layout, error) {
	cols, ok := tables[k]
	if !ok {
		return nil, fmt.Errorf("unknown kind %q", k)
	}

	res := &Layout{kind: k, width: len(header)}
	seen := make(map[int]string)
	last := -1
	for pos, title := range header {
		title = strings.TrimSpace(title)
		if title == "" {
			continue
		}
		idx := -1
		for i := range cols {
			if cols[i].matches(title) {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, &HeaderError{
				Kind:   k,
				Header: header,
				Reason: fmt.Sprintf("unknown column %q", title),
			}
		}
		if prev, dup := seen[idx]; dup {
			return nil, &HeaderError{
				Kind:   k,
				Header: header,
				Reason: fmt.Sprintf("column %q duplicates %q", title, prev),
			}
		}
		if idx < last {
			return nil, &HeaderError{
				Kind:   k,
				Header: header,
				Reason: fmt.Sprintf("column %q is out of order", title),
			}
		}
		seen[idx] = title
		last = idx
		res.cols = append(res.cols, placed{col: cols[idx], pos: pos})
	}

	for i := range cols {
		if _, ok := seen[i]; cols[i].Key && !ok {
			return nil, &HeaderError{
				Kind:   k,
				Header: header,
				Reason: fmt.Sprintf("missing key column %q", cols[i].Header),
			}
		}
	}
	return res, nil
}

// Kind returns the kind the layout belongs to.
func (l *Layout) Kind() festival.Kind {
	return l.kind
}

// Width is the number of header cells, blank ones included.
func (l *Layout) Width() int {
	return l.width
}

// Position returns the zero-based column index of a field, or -1.
func (l *Layout) Position(field string) int {
	for _, p := range l.cols {
		if p.col.Field == field {
			return p.pos
		}
	}
	return -1
}

// IsCanonical reports whether every column of the kind sits at its
// canonical position, as written by exports. Titles may still be aliases.
func (l *Layout) IsCanonical() bool {
	cols := tables[l.kind]
	if len(l.cols) != len(cols) {
		return false
	}
	for i, p := range l.cols {
		if p.pos != i {
			return false
		}
	}
	return true
}

// Has reports whether the layout contains a field.
func (l *Layout) Has(field string) bool {
	return l.Position(field) >= 0
}

// Headers returns canonical titles of the recognized columns in sheet
// order.
func (l *Layout) Headers() []string {
	res := make([]string, len(l.cols))
	for i, p := range l.cols {
		res[i] = p.col.Header
	}
	return res
}

// HeaderError means a sheet's header row does not describe the kind.
type HeaderError struct {
	Kind   festival.Kind
	Header []string
	Reason string
}

func (e *HeaderError) Error() string {
	return fmt.Sprintf("header of %s sheet: %s", e.Kind, e.Reason)
}
