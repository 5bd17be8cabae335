package festival

import (
	"fmt"
	"slices"
	"strings"
)

// Section is the age group a candidate or programme belongs to.
type Section string

const (
	SectionSenior    Section = "senior"
	SectionJunior    Section = "junior"
	SectionSubJunior Section = "sub-junior"
	SectionGeneral   Section = "general"
)

// Category separates stage/arts programmes from sports.
type Category string

const (
	CategoryArts   Category = "arts"
	CategorySports Category = "sports"
)

// PositionType tells whether a programme is contested individually or by
// groups.
type PositionType string

const (
	PositionIndividual PositionType = "individual"
	PositionGroup      PositionType = "group"
	PositionGeneral    PositionType = "general"
)

// Status is the lifecycle state of a programme.
type Status string

const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusCompleted Status = "completed"
)

// Grade is the judges' grade attached to a result.
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
)

// EnumError is returned when a value is outside of the closed set.
type EnumError struct {
	Field   string
	Value   string
	Allowed []string
}

func (e *EnumError) Error() string {
	return fmt.Sprintf("%s %q is not one of %s",
		e.Field, e.Value, strings.Join(e.Allowed, ", "))
}

// ParseSection accepts "Sub Junior", "sub_junior", "SUB-JUNIOR" and so on.
// Blank input returns an empty Section.
func ParseSection(s string) (Section, error) {
	return parseEnum("section", s, normalizeLower,
		SectionSenior, SectionJunior, SectionSubJunior, SectionGeneral)
}

func ParseCategory(s string) (Category, error) {
	return parseEnum("category", s, normalizeLower,
		CategoryArts, CategorySports)
}

func ParsePositionType(s string) (PositionType, error) {
	return parseEnum("positionType", s, normalizeLower,
		PositionIndividual, PositionGroup, PositionGeneral)
}

func ParseStatus(s string) (Status, error) {
	return parseEnum("status", s, normalizeLower,
		StatusActive, StatusInactive, StatusCompleted)
}

func ParseGrade(s string) (Grade, error) {
	return parseEnum("grade", s, strings.ToUpper, GradeA, GradeB, GradeC)
}

func normalizeLower(s string) string {
	s = strings.ToLower(s)
	s = strings.NewReplacer("_", "-", " ", "-").Replace(s)
	return s
}

func parseEnum[E ~string](
	field, s string,
	norm func(string) string,
	allowed ...E,
) (E, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	v := E(norm(s))
	if slices.Contains(allowed, v) {
		return v, nil
	}
	names := make([]string, len(allowed))
	for i := range allowed {
		names[i] = string(allowed[i])
	}
	return "", &EnumError{Field: field, Value: s, Allowed: names}
}
