package lifecycle

import (
	"context"
)

// Analyzer inspects spreadsheets that do not follow the canonical layout
// and converts their rows through an explicit column mapping. It never
// writes anywhere.
type Analyzer interface {
	// Analyze describes every sheet of the spreadsheet.
	Analyze(ctx context.Context) (*Report, error)

	// MapSheet reads a sheet and builds one document per data row using
	// mapping, which goes from record field to column header.
	MapSheet(
		ctx context.Context,
		sheet string,
		mapping map[string]string,
	) (*Mapped, error)
}

// Report is the result of Analyze.
type Report struct {
	Title  string        `json:"title"`
	Sheets []SheetReport `json:"sheets"`
}

// SheetReport describes the structure of one sheet.
type SheetReport struct {
	Name         string     `json:"name"`
	RowCount     int        `json:"rowCount"`
	ColumnCount  int        `json:"columnCount"`
	Headers      []string   `json:"headers"`
	DataRowCount int        `json:"dataRowCount"`
	SampleData   [][]string `json:"sampleData"`
	IsEmpty      bool       `json:"isEmpty"`
	HasHeaders   bool       `json:"hasHeaders"`
}

// Mapped is the result of MapSheet.
type Mapped struct {
	Headers []string         `json:"headers"`
	Data    []map[string]any `json:"data"`
}
