package iotesting

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/artsfest/festsync/internal/iosheets"
	"github.com/artsfest/festsync/pkg/sheets"
)

// MemSheet is an in-memory sheets.Spreadsheet. Cells are stored as
// strings, the way a spreadsheet returns formatted values. Reads and
// writes are counted so tests can check API call volume.
type MemSheet struct {
	mu     sync.Mutex
	title  string
	order  []string
	sheets map[string][][]string

	// Reads counts Describe, ListSheets and GetValues calls.
	Reads int
	// Writes counts AddSheet, UpdateValues, ClearValues and AppendValues.
	Writes int

	// FailUpdate makes UpdateValues return an error when set.
	FailUpdate error
}

var _ sheets.Spreadsheet = (*MemSheet)(nil)

// NewMemSheet creates a spreadsheet without sheets.
func NewMemSheet(title string) *MemSheet {
	return &MemSheet{title: title, sheets: make(map[string][][]string)}
}

// SetRows replaces the content of a sheet, creating it when needed.
// It does not count as a write.
func (m *MemSheet) SetRows(name string, rows [][]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sheets[name]; !ok {
		m.order = append(m.order, name)
	}
	grid := make([][]string, len(rows))
	for i := range rows {
		grid[i] = slices.Clone(rows[i])
	}
	m.sheets[name] = grid
}

// Rows returns a copy of a sheet's content with trailing empty rows
// dropped. It does not count as a read.
func (m *MemSheet) Rows(name string) [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, _ := sheets.ParseRange("")
	return sheets.Slice(m.sheets[name], b)
}

// ResetCounters sets Reads and Writes back to zero.
func (m *MemSheet) ResetCounters() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Reads, m.Writes = 0, 0
}

func (m *MemSheet) Describe(context.Context) (*sheets.Info, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Reads++
	res := &sheets.Info{Title: m.title}
	for _, name := range m.order {
		grid := m.sheets[name]
		cols := 26
		for _, row := range grid {
			cols = max(cols, len(row))
		}
		res.Sheets = append(res.Sheets, sheets.SheetInfo{
			Title:       name,
			RowCount:    max(1000, len(grid)),
			ColumnCount: cols,
		})
	}
	return res, nil
}

func (m *MemSheet) ListSheets(context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Reads++
	return slices.Clone(m.order), nil
}

func (m *MemSheet) AddSheet(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Writes++
	if _, ok := m.sheets[name]; ok {
		return iosheets.RequestError("addSheet", name,
			fmt.Errorf("sheet %q already exists", name))
	}
	m.order = append(m.order, name)
	m.sheets[name] = nil
	return nil
}

func (m *MemSheet) GetValues(
	_ context.Context,
	sheet, a1 string,
) ([][]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Reads++
	grid, b, err := m.lookup(sheet, a1)
	if err != nil {
		return nil, err
	}
	return sheets.Slice(grid, b), nil
}

func (m *MemSheet) UpdateValues(
	_ context.Context,
	sheet, a1 string,
	rows [][]any,
) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Writes++
	if m.FailUpdate != nil {
		return m.FailUpdate
	}
	grid, b, err := m.lookup(sheet, a1)
	if err != nil {
		return err
	}
	for i, row := range rows {
		r := b.StartRow + i
		for len(grid) < r {
			grid = append(grid, nil)
		}
		cells := grid[r-1]
		for j, v := range row {
			c := b.StartCol + j
			for len(cells) <= c {
				cells = append(cells, "")
			}
			cells[c] = cellString(v)
		}
		grid[r-1] = cells
	}
	m.sheets[sheet] = grid
	return nil
}

func (m *MemSheet) ClearValues(_ context.Context, sheet, a1 string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Writes++
	grid, b, err := m.lookup(sheet, a1)
	if err != nil {
		return err
	}
	for r := b.StartRow; r <= len(grid); r++ {
		if b.EndRow > 0 && r > b.EndRow {
			break
		}
		cells := grid[r-1]
		for c := b.StartCol; c < len(cells); c++ {
			if b.EndCol >= 0 && c > b.EndCol {
				break
			}
			cells[c] = ""
		}
	}
	return nil
}

func (m *MemSheet) AppendValues(
	_ context.Context,
	sheet string,
	rows [][]any,
) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Writes++
	grid, ok := m.sheets[sheet]
	if !ok {
		return iosheets.NotFoundError(sheet, "", nil)
	}
	b, _ := sheets.ParseRange("")
	last := len(sheets.Slice(grid, b))
	grid = grid[:min(last, len(grid))]
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = cellString(v)
		}
		grid = append(grid, cells)
	}
	m.sheets[sheet] = grid
	return nil
}

func (m *MemSheet) lookup(
	sheet, a1 string,
) ([][]string, sheets.Bounds, error) {
	grid, ok := m.sheets[sheet]
	if !ok {
		return nil, sheets.Bounds{}, iosheets.NotFoundError(sheet, "", nil)
	}
	b, err := sheets.ParseRange(a1)
	if err != nil {
		return nil, sheets.Bounds{}, iosheets.RequestError("range", sheet, err)
	}
	return grid, b, nil
}

func cellString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}
