// Package ioxlsx implements sheets.Spreadsheet over a local .xlsx workbook.
// It lets the sync engine run without Google credentials: for demos, for
// offline festivals and in tests. The workbook is saved after every write.
package ioxlsx

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/artsfest/festsync/internal/iosheets"
	"github.com/artsfest/festsync/pkg/sheets"
	"github.com/xuri/excelize/v2"
)

// defaultSheet is the sheet excelize puts into every new workbook.
const defaultSheet = "Sheet1"

type workbook struct {
	mu    sync.Mutex
	path  string
	f     *excelize.File
	fresh bool
}

// New opens the workbook at path. A missing file is created on the first
// write, so a brand-new festival can start from nothing.
func New(path string) (sheets.Spreadsheet, error) {
	res := workbook{path: path}

	f, err := excelize.OpenFile(path)
	switch {
	case err == nil:
		res.f = f
	case errors.Is(err, os.ErrNotExist):
		res.f = excelize.NewFile()
		res.fresh = true
		slog.Info("Workbook does not exist, it will be created", "path", path)
	default:
		return nil, OpenError(path, err)
	}
	return &res, nil
}

func (w *workbook) Describe(context.Context) (*sheets.Info, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	title := strings.TrimSuffix(filepath.Base(w.path), filepath.Ext(w.path))
	res := &sheets.Info{Title: title}
	for _, name := range w.sheetList() {
		rows, err := w.f.GetRows(name)
		if err != nil {
			return nil, iosheets.RequestError("describe", name, err)
		}
		cols := 0
		for _, row := range rows {
			cols = max(cols, len(row))
		}
		res.Sheets = append(res.Sheets, sheets.SheetInfo{
			Title:       name,
			RowCount:    len(rows),
			ColumnCount: cols,
		})
	}
	return res, nil
}

func (w *workbook) ListSheets(context.Context) ([]string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.sheetList(), nil
}

func (w *workbook) AddSheet(_ context.Context, name string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if idx, _ := w.f.GetSheetIndex(name); idx >= 0 {
		return iosheets.RequestError("addSheet", name,
			errors.New("sheet already exists"))
	}

	if w.fresh {
		// a new workbook has only the placeholder sheet, reuse it
		if err := w.f.SetSheetName(defaultSheet, name); err != nil {
			return iosheets.RequestError("addSheet", name, err)
		}
		w.fresh = false
		return w.save()
	}

	if _, err := w.f.NewSheet(name); err != nil {
		return iosheets.RequestError("addSheet", name, err)
	}
	return w.save()
}

func (w *workbook) GetValues(
	_ context.Context,
	sheet, a1 string,
) ([][]string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	grid, b, err := w.lookup(sheet, a1)
	if err != nil {
		return nil, err
	}
	return sheets.Slice(grid, b), nil
}

func (w *workbook) UpdateValues(
	_ context.Context,
	sheet, a1 string,
	rows [][]any,
) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	_, b, err := w.lookup(sheet, a1)
	if err != nil {
		return err
	}
	if err = w.writeRows(sheet, b.StartCol, b.StartRow, rows); err != nil {
		return err
	}
	return w.save()
}

func (w *workbook) ClearValues(_ context.Context, sheet, a1 string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	grid, b, err := w.lookup(sheet, a1)
	if err != nil {
		return err
	}
	for r := b.StartRow; r <= len(grid); r++ {
		if b.EndRow > 0 && r > b.EndRow {
			break
		}
		for c := b.StartCol; c < len(grid[r-1]); c++ {
			if b.EndCol >= 0 && c > b.EndCol {
				break
			}
			if err = w.f.SetCellValue(sheet, sheets.Cell(c, r), nil); err != nil {
				return iosheets.RequestError("clearValues", sheet, err)
			}
		}
	}
	return w.save()
}

func (w *workbook) AppendValues(
	_ context.Context,
	sheet string,
	rows [][]any,
) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	grid, b, err := w.lookup(sheet, "")
	if err != nil {
		return err
	}
	last := len(sheets.Slice(grid, b))
	if err = w.writeRows(sheet, 0, last+1, rows); err != nil {
		return err
	}
	return w.save()
}

func (w *workbook) writeRows(sheet string, col, row int, rows [][]any) error {
	for i := range rows {
		cells := rows[i]
		err := w.f.SetSheetRow(sheet, sheets.Cell(col, row+i), &cells)
		if err != nil {
			return iosheets.RequestError("updateValues", sheet, err)
		}
	}
	return nil
}

func (w *workbook) lookup(
	sheet, a1 string,
) ([][]string, sheets.Bounds, error) {
	if idx, _ := w.f.GetSheetIndex(sheet); idx < 0 || w.fresh {
		return nil, sheets.Bounds{}, iosheets.NotFoundError(
			w.path+" (sheet "+sheet+")", "", errors.New("no such sheet"),
		)
	}
	b, err := sheets.ParseRange(a1)
	if err != nil {
		return nil, sheets.Bounds{}, iosheets.RequestError("range", sheet, err)
	}
	grid, err := w.f.GetRows(sheet)
	if err != nil {
		return nil, sheets.Bounds{}, iosheets.RequestError("getValues", sheet, err)
	}
	return grid, b, nil
}

// sheetList hides the placeholder sheet of a workbook that was never
// written.
func (w *workbook) sheetList() []string {
	if w.fresh {
		return []string{}
	}
	return w.f.GetSheetList()
}

func (w *workbook) save() error {
	if dir := filepath.Dir(w.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return SaveError(w.path, err)
		}
	}
	if err := w.f.SaveAs(w.path); err != nil {
		return SaveError(w.path, err)
	}
	return nil
}
