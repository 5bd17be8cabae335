package mapper

import (
	"strconv"
	"strings"

	"github.com/artsfest/festsync/pkg/festival"
	"github.com/gnames/gnlib"
)

// Column describes one spreadsheet column of a kind: its title, the JSON
// field it feeds, and how to read and write it on a record.
type Column struct {
	// Header is the canonical title written to row 1.
	Header string
	// Aliases are alternative titles accepted when reading a sheet.
	Aliases []string
	// Field is the JSON name of the record field.
	Field string
	// Bookkeeping marks database-owned columns (ID and timestamps). They
	// are optional in imported sheets and never merged into stored records.
	Bookkeeping bool
	// Key marks natural-key columns, which every layout must contain.
	Key bool

	get func(festival.Record) any
	set func(*Mapper, festival.Record, string) error
}

func (c Column) matches(title string) bool {
	if strings.EqualFold(c.Header, title) {
		return true
	}
	for _, v := range c.Aliases {
		if strings.EqualFold(v, title) {
			return true
		}
	}
	return false
}

func (c Column) asKey() Column {
	c.Key = true
	return c
}

// Columns returns the column table of a kind in canonical order.
func Columns(k festival.Kind) []Column {
	cols, ok := tables[k]
	if !ok {
		return nil
	}
	res := make([]Column, len(cols))
	copy(res, cols)
	return res
}

// Headers returns the canonical header row of a kind.
func Headers(k festival.Kind) []string {
	cols := tables[k]
	res := make([]string, len(cols))
	for i := range cols {
		res[i] = cols[i].Header
	}
	return res
}

var tables = map[festival.Kind][]Column{
	festival.KindTeams: {
		idColumn,
		text("Name", "name",
			func(r *festival.Team) *string { return &r.Name },
			"Team", "Team Name").asKey(),
		text("Color", "color",
			func(r *festival.Team) *string { return &r.Color },
			"Colour"),
		text("Description", "description",
			func(r *festival.Team) *string { return &r.Description }),
		text("Captain", "captain",
			func(r *festival.Team) *string { return &r.Captain }),
		number("Members", "memberCount",
			func(r *festival.Team) *int { return &r.MemberCount },
			"Member Count"),
		number("Points", "points",
			func(r *festival.Team) *int { return &r.Points }),
		createdColumn,
		updatedColumn,
	},
	festival.KindCandidates: {
		idColumn,
		text("Chest Number", "chestNumber",
			func(r *festival.Candidate) *string { return &r.ChestNumber },
			"Chest No", "Chest").asKey(),
		text("Name", "name",
			func(r *festival.Candidate) *string { return &r.Name },
			"Candidate Name"),
		text("Team", "team",
			func(r *festival.Candidate) *string { return &r.Team },
			"Team Code"),
		choice("Section", "section",
			func(r *festival.Candidate) *festival.Section { return &r.Section },
			festival.ParseSection),
		number("Points", "points",
			func(r *festival.Candidate) *int { return &r.Points }),
		createdColumn,
		updatedColumn,
	},
	festival.KindProgrammes: {
		idColumn,
		text("Code", "code",
			func(r *festival.Programme) *string { return &r.Code },
			"Programme Code", "Program Code").asKey(),
		text("Programme Name", "name",
			func(r *festival.Programme) *string { return &r.Name },
			"Program Name", "Name"),
		choice("Category", "category",
			func(r *festival.Programme) *festival.Category { return &r.Category },
			festival.ParseCategory),
		choice("Section", "section",
			func(r *festival.Programme) *festival.Section { return &r.Section },
			festival.ParseSection),
		choice("Position Type", "positionType",
			func(r *festival.Programme) *festival.PositionType {
				return &r.PositionType
			},
			festival.ParsePositionType, "Type"),
		choice("Status", "status",
			func(r *festival.Programme) *festival.Status { return &r.Status },
			festival.ParseStatus),
		createdColumn,
		updatedColumn,
	},
	festival.KindResults: {
		idColumn,
		text("Programme Code", "programmeCode",
			func(r *festival.Result) *string { return &r.ProgrammeCode },
			"Program Code", "Code").asKey(),
		text("Chest Number", "chestNumber",
			func(r *festival.Result) *string { return &r.ChestNumber },
			"Chest No", "Chest").asKey(),
		number("Position", "position",
			func(r *festival.Result) *int { return &r.Position },
			"Place"),
		choice("Grade", "grade",
			func(r *festival.Result) *festival.Grade { return &r.Grade },
			festival.ParseGrade),
		number("Points", "points",
			func(r *festival.Result) *int { return &r.Points }),
		createdColumn,
		updatedColumn,
	},
	festival.KindBasic: {
		idColumn,
		text("Key", "key",
			func(r *festival.Info) *string { return &r.Key },
			"Setting", "Field").asKey(),
		text("Value", "value",
			func(r *festival.Info) *string { return &r.Value }),
		createdColumn,
		updatedColumn,
	},
}

var idColumn = Column{
	Header:      "ID",
	Aliases:     []string{"_id", "Id"},
	Field:       "id",
	Bookkeeping: true,
	get: func(r festival.Record) any {
		return r.Base().ID
	},
	set: func(_ *Mapper, r festival.Record, s string) error {
		r.Base().ID = strings.TrimSpace(s)
		return nil
	},
}

var createdColumn = Column{
	Header:      "Created At",
	Aliases:     []string{"Created"},
	Field:       "createdAt",
	Bookkeeping: true,
	get: func(r festival.Record) any {
		return formatDate(r.Base().CreatedAt)
	},
	set: func(m *Mapper, r festival.Record, s string) error {
		r.Base().CreatedAt = m.parseDate(s)
		return nil
	},
}

var updatedColumn = Column{
	Header:      "Updated At",
	Aliases:     []string{"Updated"},
	Field:       "updatedAt",
	Bookkeeping: true,
	get: func(r festival.Record) any {
		return formatDate(r.Base().UpdatedAt)
	},
	set: func(m *Mapper, r festival.Record, s string) error {
		r.Base().UpdatedAt = m.parseDate(s)
		return nil
	},
}

func text[T festival.Record](
	header, field string,
	ptr func(T) *string,
	aliases ...string,
) Column {
	return Column{
		Header:  header,
		Aliases: aliases,
		Field:   field,
		get: func(r festival.Record) any {
			return *ptr(r.(T))
		},
		set: func(_ *Mapper, r festival.Record, s string) error {
			*ptr(r.(T)) = cleanText(s)
			return nil
		},
	}
}

func number[T festival.Record](
	header, field string,
	ptr func(T) *int,
	aliases ...string,
) Column {
	return Column{
		Header:  header,
		Aliases: aliases,
		Field:   field,
		get: func(r festival.Record) any {
			return *ptr(r.(T))
		},
		set: func(_ *Mapper, r festival.Record, s string) error {
			*ptr(r.(T)) = parseCount(s)
			return nil
		},
	}
}

func choice[T festival.Record, E ~string](
	header, field string,
	ptr func(T) *E,
	parse func(string) (E, error),
	aliases ...string,
) Column {
	return Column{
		Header:  header,
		Aliases: aliases,
		Field:   field,
		get: func(r festival.Record) any {
			return string(*ptr(r.(T)))
		},
		set: func(_ *Mapper, r festival.Record, s string) error {
			v, err := parse(s)
			if err != nil {
				return err
			}
			*ptr(r.(T)) = v
			return nil
		},
	}
}

func cleanText(s string) string {
	return gnlib.FixUtf8(strings.TrimSpace(s))
}

// parseCount reads a non-negative integer. Anything else becomes 0.
func parseCount(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	s = strings.ReplaceAll(s, ",", "")
	i, err := strconv.Atoi(s)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return 0
		}
		i = int(f)
	}
	if i < 0 {
		return 0
	}
	return i
}
