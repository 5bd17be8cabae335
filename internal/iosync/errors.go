package iosync

import (
	"errors"
	"fmt"

	"github.com/artsfest/festsync/pkg/errcode"
	"github.com/artsfest/festsync/pkg/festival"
	"github.com/artsfest/festsync/pkg/mapper"
	"github.com/gnames/gn"
)

// HeaderError means row 1 of a sheet does not describe the kind. Nothing
// is read past the header in that case.
func HeaderError(sheet string, err error) error {
	msg := `Unexpected header row in sheet <em>%s</em>

<em>Expected columns, in this order:</em>
  %s

<em>How to fix:</em>
  1. Fix the header row in the spreadsheet
  2. Or use <em>festsync analyze map</em> with an explicit mapping`

	expected := ""
	var hErr *mapper.HeaderError
	if errors.As(err, &hErr) {
		expected = fmt.Sprintf("%q", mapper.Headers(hErr.Kind))
	}

	return &gn.Error{
		Code: errcode.SyncHeaderError,
		Msg:  msg,
		Vars: []any{sheet, expected},
		Err:  fmt.Errorf("header of sheet %s: %w", sheet, err),
	}
}

func InsertError(k festival.Kind, row int, err error) error {
	msg := `Cannot insert <em>%s</em> row %d, the sync stopped

<em>How to fix:</em>
  Resolve the database problem and run the sync again,
  rows that were already synced will be matched`

	return &gn.Error{
		Code: errcode.SyncInsertError,
		Msg:  msg,
		Vars: []any{k, row},
		Err:  fmt.Errorf("insert %s row %d: %w", k, row, err),
	}
}

func UpdateError(k festival.Kind, row int, err error) error {
	msg := `Cannot update <em>%s</em> from row %d, the sync stopped`

	return &gn.Error{
		Code: errcode.SyncUpdateError,
		Msg:  msg,
		Vars: []any{k, row},
		Err:  fmt.Errorf("update %s row %d: %w", k, row, err),
	}
}

func WriteBackError(k festival.Kind, row int, err error) error {
	msg := `Record from <em>%s</em> row %d was saved, but its id
could not be written back to the sheet, the sync stopped

<em>How to fix:</em>
  Prefer <em>festsync import</em> when the spreadsheet quota is low,
  it matches rows without writing ids back`

	return &gn.Error{
		Code: errcode.SyncWriteBackError,
		Msg:  msg,
		Vars: []any{k, row},
		Err:  fmt.Errorf("write back id of %s row %d: %w", k, row, err),
	}
}
