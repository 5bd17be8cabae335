// Package festival defines the canonical records exchanged between the
// festival spreadsheet and the database.
//
// This package has no I/O dependencies. Records are plain structs; the
// Record interface gives the sync engine uniform access to identifiers,
// timestamps and natural keys without knowing the concrete type.
package festival

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
	"time"
)

// Kind is the closed set of entity types the sync engine understands.
type Kind string

const (
	// KindBasic holds festival-wide settings as key/value rows.
	KindBasic      Kind = "basic"
	KindTeams      Kind = "teams"
	KindCandidates Kind = "candidates"
	KindProgrammes Kind = "programmes"
	KindResults    Kind = "results"
)

// Kinds returns all supported kinds in a stable order.
func Kinds() []Kind {
	return []Kind{
		KindBasic, KindTeams, KindCandidates, KindProgrammes, KindResults,
	}
}

// ParseKind converts user input (API payload, CLI flag) into a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(Kinds(), k) {
		return k, nil
	}
	return "", fmt.Errorf("unknown entity type %q", s)
}

// SheetName returns the name of the sheet that stores records of the kind.
func (k Kind) SheetName() string {
	switch k {
	case KindProgrammes:
		return "program"
	default:
		return string(k)
	}
}

// Collection returns the database table that stores records of the kind.
func (k Kind) Collection() string {
	switch k {
	case KindBasic:
		return "festival_info"
	default:
		return string(k)
	}
}

// New returns an empty record of the kind.
func (k Kind) New() Record {
	switch k {
	case KindBasic:
		return &Info{}
	case KindTeams:
		return &Team{}
	case KindCandidates:
		return &Candidate{}
	case KindProgrammes:
		return &Programme{}
	case KindResults:
		return &Result{}
	default:
		panic(fmt.Sprintf("festival: no record type for kind %q", k))
	}
}

// Meta carries the database-owned part of every record.
type Meta struct {
	// ID is generated by the database. Empty means "not stored yet".
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Base gives access to the embedded Meta.
func (m *Meta) Base() *Meta {
	return m
}

// Record is implemented by every canonical entity.
type Record interface {
	Kind() Kind
	Base() *Meta

	// NaturalKey returns the business key used when no stored identifier
	// is trusted. Empty means the record cannot be matched.
	NaturalKey() string

	// Normalize brings key fields to their canonical form.
	Normalize()

	// Validate checks the fields a bulk import must not admit blank.
	Validate() error

	Clone() Record
}

// SameContent reports whether two records carry the same business data,
// ignoring identifiers and timestamps.
func SameContent(a, b Record) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind() != b.Kind() {
		return false
	}
	ac, bc := a.Clone(), b.Clone()
	*ac.Base() = Meta{}
	*bc.Base() = Meta{}
	return reflect.DeepEqual(ac, bc)
}

// MissingFieldsError lists required fields that were blank.
type MissingFieldsError struct {
	Kind   Kind
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("%s record is missing %s",
		e.Kind, strings.Join(e.Fields, ", "))
}

func checkRequired(k Kind, pairs ...string) error {
	var missing []string
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			missing = append(missing, pairs[i])
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &MissingFieldsError{Kind: k, Fields: missing}
}
