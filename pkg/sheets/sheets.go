// Package sheets defines the contract of a spreadsheet backend bound to one
// spreadsheet document, plus A1-notation helpers shared by implementations.
//
// Implementations live in internal/iosheets (Google Sheets) and
// internal/ioxlsx (local workbook). Every call is a single attempt: there is
// no retry at this layer.
package sheets

import "context"

// Spreadsheet is a row/column store addressed by sheet name and A1 range.
type Spreadsheet interface {
	// Describe returns the document title and the properties of each sheet.
	Describe(ctx context.Context) (*Info, error)

	// ListSheets returns the names of all sheets in document order.
	ListSheets(ctx context.Context) ([]string, error)

	// AddSheet creates an empty sheet.
	AddSheet(ctx context.Context, name string) error

	// GetValues reads a range as formatted strings. Rows may be ragged:
	// trailing empty cells are not returned. An empty a1 reads the whole
	// sheet.
	GetValues(ctx context.Context, sheet, a1 string) ([][]string, error)

	// UpdateValues writes rows starting at the top-left cell of a1.
	UpdateValues(ctx context.Context, sheet, a1 string, rows [][]any) error

	// ClearValues empties every cell of the range.
	ClearValues(ctx context.Context, sheet, a1 string) error

	// AppendValues adds rows after the last non-empty row of the sheet.
	AppendValues(ctx context.Context, sheet string, rows [][]any) error
}

// Info describes a spreadsheet document.
type Info struct {
	Title  string
	Sheets []SheetInfo
}

// SheetInfo holds grid properties of a single sheet.
type SheetInfo struct {
	Title       string
	RowCount    int
	ColumnCount int
}
