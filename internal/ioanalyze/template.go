package ioanalyze

import (
	"fmt"
	"os"

	"github.com/artsfest/festsync/pkg/festival"
	"github.com/artsfest/festsync/pkg/mapper"
	"gopkg.in/yaml.v3"
)

// MappingFile is the YAML form of a column mapping used by
// "festsync analyze map".
type MappingFile struct {
	// Type is the entity type the mapped documents are imported as.
	Type string `yaml:"type"`
	// Sheet is the name of the sheet to read.
	Sheet string `yaml:"sheet"`
	// Mapping goes from record field to column header.
	Mapping map[string]string `yaml:"mapping"`
}

// Template returns a mapping file for a kind, with every data field
// mapped to its canonical header. Operators edit the headers to match
// their sheet.
func Template(k festival.Kind) ([]byte, error) {
	cols := mapper.Columns(k)
	if cols == nil {
		return nil, fmt.Errorf("unknown entity type %q", k)
	}

	mf := MappingFile{
		Type:    string(k),
		Sheet:   k.SheetName(),
		Mapping: make(map[string]string),
	}
	for _, c := range cols {
		if c.Bookkeeping {
			continue
		}
		mf.Mapping[c.Field] = c.Header
	}
	return yaml.Marshal(mf)
}

// ReadMappingFile loads and checks a mapping file.
func ReadMappingFile(path string) (*MappingFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, TemplateError(path, err)
	}

	var res MappingFile
	if err = yaml.Unmarshal(data, &res); err != nil {
		return nil, TemplateError(path, err)
	}
	if _, err = festival.ParseKind(res.Type); err != nil {
		return nil, TemplateError(path, err)
	}
	if res.Sheet == "" {
		return nil, TemplateError(path, fmt.Errorf("sheet is not set"))
	}
	if len(res.Mapping) == 0 {
		return nil, TemplateError(path, fmt.Errorf("mapping is empty"))
	}
	return &res, nil
}
