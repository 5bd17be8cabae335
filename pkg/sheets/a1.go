package sheets

import (
	"fmt"
	"strings"
)

// ColumnName converts a zero-based column index to its letter form:
// 0 -> A, 25 -> Z, 26 -> AA.
func ColumnName(idx int) string {
	if idx < 0 {
		return ""
	}
	var res []byte
	for n := idx + 1; n > 0; n = (n - 1) / 26 {
		res = append([]byte{byte('A' + (n-1)%26)}, res...)
	}
	return string(res)
}

// Cell returns the A1 name of a cell from zero-based column and one-based
// row, e.g. Cell(0, 2) == "A2".
func Cell(col, row int) string {
	return fmt.Sprintf("%s%d", ColumnName(col), row)
}

// Span returns an open-ended range covering columns [0, width) from
// startRow down to the end of the sheet, e.g. Span(2, 9) == "A2:I".
func Span(startRow, width int) string {
	if width < 1 {
		width = 1
	}
	return fmt.Sprintf("A%d:%s", startRow, ColumnName(width-1))
}

// HeaderRow covers the first row of a sheet from column A to its last
// used column.
const HeaderRow = "A1:1"

// Range joins a sheet name and an A1 range into a fully qualified range.
// The sheet name is always quoted so names with spaces or punctuation are
// safe.
func Range(sheet, a1 string) string {
	quoted := "'" + strings.ReplaceAll(sheet, "'", "''") + "'"
	if a1 == "" {
		return quoted
	}
	return quoted + "!" + a1
}

// IsBlankRow reports whether every cell of the row is empty after trimming.
func IsBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// ColumnIndex converts column letters to a zero-based index: A -> 0,
// AA -> 26. It returns -1 for anything that is not a column name.
func ColumnIndex(name string) int {
	if name == "" {
		return -1
	}
	res := 0
	for _, r := range strings.ToUpper(name) {
		if r < 'A' || r > 'Z' {
			return -1
		}
		res = res*26 + int(r-'A'+1)
	}
	return res - 1
}

// Bounds is a parsed A1 range. Columns are zero-based, rows are one-based.
// EndRow of 0 means "to the last row", EndCol of -1 means "to the last
// column".
type Bounds struct {
	StartCol, StartRow int
	EndCol, EndRow     int
}

// ParseRange parses ranges such as "A2:I", "B3:D10" or "C5". An empty
// string covers the whole sheet. Sheet prefixes are not accepted.
func ParseRange(a1 string) (Bounds, error) {
	a1 = strings.TrimSpace(a1)
	if a1 == "" {
		return Bounds{StartCol: 0, StartRow: 1, EndCol: -1}, nil
	}
	from, to, isSpan := strings.Cut(a1, ":")
	sc, sr, err := parseCell(from)
	if err != nil || sc < 0 {
		return Bounds{}, fmt.Errorf("bad range %q", a1)
	}
	if sr == 0 {
		sr = 1
	}
	if !isSpan {
		return Bounds{StartCol: sc, StartRow: sr, EndCol: sc, EndRow: sr}, nil
	}
	ec, er, err := parseCell(to)
	if err != nil || (ec >= 0 && ec < sc) || (er > 0 && er < sr) {
		return Bounds{}, fmt.Errorf("bad range %q", a1)
	}
	return Bounds{StartCol: sc, StartRow: sr, EndCol: ec, EndRow: er}, nil
}

// parseCell splits "B12" into column 1 and row 12. Missing parts are
// returned as -1 (column) and 0 (row).
func parseCell(s string) (col, row int, err error) {
	i := 0
	for i < len(s) && (s[i] < '0' || s[i] > '9') {
		i++
	}
	letters, digits := s[:i], s[i:]
	if letters == "" && digits == "" {
		return 0, 0, fmt.Errorf("empty cell reference")
	}
	col = -1
	if letters != "" {
		if col = ColumnIndex(letters); col < 0 {
			return 0, 0, fmt.Errorf("bad column %q", letters)
		}
	}
	if digits != "" {
		if _, err = fmt.Sscanf(digits, "%d", &row); err != nil || row < 1 {
			return 0, 0, fmt.Errorf("bad row %q", digits)
		}
	}
	return col, row, nil
}

// Slice cuts the part of a ragged grid covered by b. Rows of the result
// keep their ragged ends, trailing empty rows are dropped.
func Slice(grid [][]string, b Bounds) [][]string {
	var res [][]string
	for r := b.StartRow; r <= len(grid); r++ {
		if b.EndRow > 0 && r > b.EndRow {
			break
		}
		row := grid[r-1]
		var cells []string
		if b.StartCol < len(row) {
			end := len(row)
			if b.EndCol >= 0 && b.EndCol+1 < end {
				end = b.EndCol + 1
			}
			cells = append(cells, row[b.StartCol:end]...)
		}
		res = append(res, trimRight(cells))
	}
	for len(res) > 0 && len(res[len(res)-1]) == 0 {
		res = res[:len(res)-1]
	}
	return res
}

func trimRight(row []string) []string {
	end := len(row)
	for end > 0 && row[end-1] == "" {
		end--
	}
	return row[:end]
}
