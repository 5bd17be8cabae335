// Package ioanalyze inspects spreadsheets that do not follow the canonical
// layout and turns their rows into field-keyed documents through an
// explicit column mapping. It only reads the spreadsheet and never touches
// the database.
package ioanalyze

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/artsfest/festsync/pkg/lifecycle"
	"github.com/artsfest/festsync/pkg/sheets"
)

// SampleSize is the number of data rows shown per sheet.
const SampleSize = 3

// Analyzer implements lifecycle.Analyzer.
type Analyzer struct {
	sheet sheets.Spreadsheet
	now   func() time.Time
}

var _ lifecycle.Analyzer = (*Analyzer)(nil)

// Option configures an Analyzer.
type Option func(*Analyzer)

// OptClock replaces time.Now for the timestamps of mapped documents.
func OptClock(now func() time.Time) Option {
	return func(a *Analyzer) {
		a.now = now
	}
}

// New creates an Analyzer for a spreadsheet.
func New(sheet sheets.Spreadsheet, opts ...Option) *Analyzer {
	res := &Analyzer{sheet: sheet, now: time.Now}
	for _, opt := range opts {
		opt(res)
	}
	return res
}

// Analyze describes every sheet: its grid size, header row, number of
// data rows and a few sample rows.
func (a *Analyzer) Analyze(ctx context.Context) (*lifecycle.Report, error) {
	info, err := a.sheet.Describe(ctx)
	if err != nil {
		return nil, err
	}

	res := &lifecycle.Report{
		Title:  info.Title,
		Sheets: make([]lifecycle.SheetReport, 0, len(info.Sheets)),
	}
	for _, sh := range info.Sheets {
		grid, err := a.sheet.GetValues(ctx, sh.Title, "")
		if err != nil {
			return nil, err
		}
		res.Sheets = append(res.Sheets, sheetReport(sh, grid))
	}

	slog.Info("Spreadsheet analyzed",
		"title", res.Title, "sheets", len(res.Sheets))
	return res, nil
}

func sheetReport(sh sheets.SheetInfo, grid [][]string) lifecycle.SheetReport {
	res := lifecycle.SheetReport{
		Name:        sh.Title,
		RowCount:    sh.RowCount,
		ColumnCount: sh.ColumnCount,
		Headers:     []string{},
		SampleData:  [][]string{},
		IsEmpty:     len(grid) == 0,
	}
	if res.IsEmpty {
		return res
	}

	res.Headers = grid[0]
	res.HasHeaders = !sheets.IsBlankRow(grid[0])
	data := grid[1:]
	res.DataRowCount = len(data)
	res.SampleData = data[:min(SampleSize, len(data))]
	return res
}

// MapSheet builds one document per non-blank data row of a sheet. mapping
// goes from document field to column header; headers are matched ignoring
// case and surrounding spaces. A document holds only the mapped cells
// that are not blank, plus createdAt and updatedAt set to now.
func (a *Analyzer) MapSheet(
	ctx context.Context,
	sheet string,
	mapping map[string]string,
) (*lifecycle.Mapped, error) {
	grid, err := a.sheet.GetValues(ctx, sheet, "")
	if err != nil {
		return nil, err
	}
	res := &lifecycle.Mapped{Headers: []string{}, Data: []map[string]any{}}
	if len(grid) == 0 {
		return res, nil
	}
	res.Headers = grid[0]

	pos := make(map[string]int, len(grid[0]))
	for i, h := range grid[0] {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, ok := pos[key]; !ok && key != "" {
			pos[key] = i
		}
	}

	fields := make([]string, 0, len(mapping))
	var missing []string
	for field, header := range mapping {
		if _, ok := pos[strings.ToLower(strings.TrimSpace(header))]; !ok {
			missing = append(missing, header)
			continue
		}
		fields = append(fields, field)
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return nil, MappingError(sheet, missing, grid[0])
	}

	stamp := a.now().UTC().Format(time.RFC3339)
	for _, row := range grid[1:] {
		if sheets.IsBlankRow(row) {
			continue
		}
		doc := make(map[string]any, len(fields)+2)
		for _, field := range fields {
			i := pos[strings.ToLower(strings.TrimSpace(mapping[field]))]
			if i >= len(row) {
				continue
			}
			if v := strings.TrimSpace(row[i]); v != "" {
				doc[field] = v
			}
		}
		doc["createdAt"] = stamp
		doc["updatedAt"] = stamp
		res.Data = append(res.Data, doc)
	}
	return res, nil
}
