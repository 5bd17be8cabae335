package ioanalyze

import (
	"fmt"
	"strings"

	"github.com/artsfest/festsync/pkg/errcode"
	"github.com/gnames/gn"
)

// MappingError means the mapping names headers the sheet does not have.
func MappingError(sheet string, missing, available []string) error {
	msg := `Mapping does not fit sheet <em>%s</em>

<em>Headers not found:</em>
  %s

<em>Headers in the sheet:</em>
  %s`

	miss := strings.Join(missing, ", ")
	return &gn.Error{
		Code: errcode.AnalyzeMappingError,
		Msg:  msg,
		Vars: []any{sheet, miss, strings.Join(available, ", ")},
		Err:  fmt.Errorf("sheet %s has no headers %s", sheet, miss),
	}
}

// TemplateError means a mapping file cannot be used.
func TemplateError(path string, err error) error {
	msg := `Cannot read mapping file <em>%s</em>

<em>How to fix:</em>
  Generate a valid file with <em>festsync analyze template --type TYPE</em>`

	return &gn.Error{
		Code: errcode.AnalyzeTemplateError,
		Msg:  msg,
		Vars: []any{path},
		Err:  fmt.Errorf("mapping file %s: %w", path, err),
	}
}
