package ioxlsx

import (
	"fmt"

	"github.com/artsfest/festsync/pkg/errcode"
	"github.com/gnames/gn"
)

func OpenError(path string, err error) error {
	msg := `Cannot open workbook <em>%s</em>

<em>Possible causes:</em>
  - The file is not an .xlsx workbook
  - The file is open and locked by another program

<em>How to fix:</em>
  Check <em>sheets.workbook_path</em> in the config file`

	return &gn.Error{
		Code: errcode.WorkbookOpenError,
		Msg:  msg,
		Vars: []any{path},
		Err:  fmt.Errorf("open workbook %s: %w", path, err),
	}
}

func SaveError(path string, err error) error {
	msg := "Cannot save workbook <em>%s</em>"

	return &gn.Error{
		Code: errcode.WorkbookSaveError,
		Msg:  msg,
		Vars: []any{path},
		Err:  fmt.Errorf("save workbook %s: %w", path, err),
	}
}
