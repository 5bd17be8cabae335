package festival

import (
	"strings"
)

// Team is one of the competing houses.
type Team struct {
	Meta
	// Name is stored in its canonical uppercase form, e.g. "SUMUD".
	Name        string `json:"name"`
	Color       string `json:"color"`
	Description string `json:"description"`
	Captain     string `json:"captain"`
	MemberCount int    `json:"memberCount"`
	Points      int    `json:"points"`
}

func (t *Team) Kind() Kind { return KindTeams }

func (t *Team) NaturalKey() string {
	return NormalizeTeamName(t.Name)
}

func (t *Team) Normalize() {
	t.Name = NormalizeTeamName(t.Name)
}

func (t *Team) Validate() error {
	return checkRequired(KindTeams, "name", t.Name)
}

func (t *Team) Clone() Record {
	res := *t
	return &res
}

// Candidate is a participant registered under a team.
type Candidate struct {
	Meta
	ChestNumber string  `json:"chestNumber"`
	Name        string  `json:"name"`
	Team        string  `json:"team"`
	Section     Section `json:"section"`
	Points      int     `json:"points"`
}

func (c *Candidate) Kind() Kind { return KindCandidates }

func (c *Candidate) NaturalKey() string {
	return strings.TrimSpace(c.ChestNumber)
}

func (c *Candidate) Normalize() {
	c.ChestNumber = strings.TrimSpace(c.ChestNumber)
	c.Team = strings.TrimSpace(c.Team)
}

// Validate rejects participant rows that would end up as garbage
// documents: name, chest number, team and section are all required.
func (c *Candidate) Validate() error {
	return checkRequired(KindCandidates,
		"name", c.Name,
		"chestNumber", c.ChestNumber,
		"team", c.Team,
		"section", string(c.Section),
	)
}

func (c *Candidate) Clone() Record {
	res := *c
	return &res
}

// Programme is a contest item of the festival.
type Programme struct {
	Meta
	Code         string       `json:"code"`
	Name         string       `json:"name"`
	Category     Category     `json:"category"`
	Section      Section      `json:"section"`
	PositionType PositionType `json:"positionType"`
	Status       Status       `json:"status"`
}

func (p *Programme) Kind() Kind { return KindProgrammes }

func (p *Programme) NaturalKey() string {
	return strings.TrimSpace(p.Code)
}

func (p *Programme) Normalize() {
	p.Code = strings.TrimSpace(p.Code)
}

func (p *Programme) Validate() error {
	return checkRequired(KindProgrammes, "code", p.Code)
}

func (p *Programme) Clone() Record {
	res := *p
	return &res
}

// Result is the placement of a candidate in a programme.
type Result struct {
	Meta
	ProgrammeCode string `json:"programmeCode"`
	ChestNumber   string `json:"chestNumber"`
	// Position is 1 for first place; 0 means unplaced.
	Position int   `json:"position"`
	Grade    Grade `json:"grade"`
	Points   int   `json:"points"`
}

func (r *Result) Kind() Kind { return KindResults }

func (r *Result) NaturalKey() string {
	code := strings.TrimSpace(r.ProgrammeCode)
	chest := strings.TrimSpace(r.ChestNumber)
	if code == "" || chest == "" {
		return ""
	}
	return code + "/" + chest
}

func (r *Result) Normalize() {
	r.ProgrammeCode = strings.TrimSpace(r.ProgrammeCode)
	r.ChestNumber = strings.TrimSpace(r.ChestNumber)
}

func (r *Result) Validate() error {
	return checkRequired(KindResults,
		"programmeCode", r.ProgrammeCode,
		"chestNumber", r.ChestNumber,
	)
}

func (r *Result) Clone() Record {
	res := *r
	return &res
}

// Info is one festival-wide setting from the "basic" sheet.
type Info struct {
	Meta
	Key   string `json:"key"`
	Value string `json:"value"`
}

func (i *Info) Kind() Kind { return KindBasic }

func (i *Info) NaturalKey() string {
	return strings.ToLower(strings.TrimSpace(i.Key))
}

func (i *Info) Normalize() {
	i.Key = strings.ToLower(strings.TrimSpace(i.Key))
}

func (i *Info) Validate() error {
	return checkRequired(KindBasic, "key", i.Key)
}

func (i *Info) Clone() Record {
	res := *i
	return &res
}
