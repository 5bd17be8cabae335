package mapper_test

import (
	"errors"
	"testing"
	"time"

	"github.com/artsfest/festsync/pkg/festival"
	"github.com/artsfest/festsync/pkg/mapper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)

func newMapper() *mapper.Mapper {
	return mapper.New(mapper.OptClock(func() time.Time { return fixedNow }))
}

func TestHeaders(t *testing.T) {
	for _, k := range festival.Kinds() {
		hs := mapper.Headers(k)
		require.NotEmpty(t, hs, k)
		assert.Equal(t, "ID", hs[0], k)
		assert.Equal(t, "Updated At", hs[len(hs)-1], k)
	}
	assert.Equal(t,
		[]string{
			"ID", "Name", "Color", "Description", "Captain",
			"Members", "Points", "Created At", "Updated At",
		},
		mapper.Headers(festival.KindTeams),
	)
	assert.Nil(t, mapper.Headers("users"))
}

func TestRoundTrip(t *testing.T) {
	created := time.Date(2024, 12, 1, 8, 0, 0, 0, time.UTC)
	recs := []festival.Record{
		&festival.Team{
			Meta: festival.Meta{
				ID: "t1", CreatedAt: created, UpdatedAt: created,
			},
			Name: "SUMUD", Color: "Red", Description: "first house",
			Captain: "Ameen", MemberCount: 40, Points: 120,
		},
		&festival.Candidate{
			Meta: festival.Meta{
				ID: "c1", CreatedAt: created, UpdatedAt: created,
			},
			ChestNumber: "101", Name: "Ali", Team: "SUMUD",
			Section: festival.SectionSenior, Points: 5,
		},
		&festival.Programme{
			Meta: festival.Meta{
				ID: "p1", CreatedAt: created, UpdatedAt: created,
			},
			Code: "P1", Name: "Chess", Category: festival.CategorySports,
			Section: festival.SectionJunior, PositionType: festival.PositionIndividual,
			Status: festival.StatusActive,
		},
		&festival.Result{
			Meta: festival.Meta{
				ID: "r1", CreatedAt: created, UpdatedAt: created,
			},
			ProgrammeCode: "P1", ChestNumber: "101", Position: 1,
			Grade: festival.GradeA, Points: 10,
		},
		&festival.Info{
			Meta: festival.Meta{
				ID: "i1", CreatedAt: created, UpdatedAt: created,
			},
			Key: "venue", Value: "Main Hall",
		},
	}

	m := newMapper()
	for _, rec := range recs {
		row := m.ToRow(rec)
		assert.Len(t, row, len(mapper.Headers(rec.Kind())))
		res, err := m.FromRow(rec.Kind(), mapper.Cells(row))
		require.NoError(t, err, rec.Kind())
		require.NotNil(t, res, rec.Kind())
		assert.True(t, festival.SameContent(rec, res), rec.Kind())
		assert.Equal(t, rec.Base().ID, res.Base().ID)
		assert.True(t, created.Equal(res.Base().CreatedAt))
		assert.True(t, created.Equal(res.Base().UpdatedAt))
	}
}

func TestToRowZeroDates(t *testing.T) {
	m := newMapper()
	row := m.ToRow(&festival.Info{Key: "theme"})
	assert.Equal(t, []any{"", "theme", "", "", ""}, row)
}

func TestFromRowBlank(t *testing.T) {
	m := newMapper()
	for _, row := range [][]string{nil, {}, {"", " ", ""}} {
		res, err := m.FromRow(festival.KindTeams, row)
		assert.NoError(t, err)
		assert.Nil(t, res)
	}
}

func TestFromRowFallbacks(t *testing.T) {
	m := newMapper()
	row := []string{"", " SUMUD ", "Red", "", "", "many", "-3", "yesterday"}
	res, err := m.FromRow(festival.KindTeams, row)
	require.NoError(t, err)
	team := res.(*festival.Team)
	assert.Equal(t, "SUMUD", team.Name)
	assert.Equal(t, 0, team.MemberCount)
	assert.Equal(t, 0, team.Points)
	assert.True(t, fixedNow.Equal(team.CreatedAt))
	assert.True(t, fixedNow.Equal(team.UpdatedAt))

	res, err = m.FromRow(festival.KindTeams,
		[]string{"", "INTIFADA", "", "", "", "1,200", "7.9", "2024-03-01"})
	require.NoError(t, err)
	team = res.(*festival.Team)
	assert.Equal(t, 1200, team.MemberCount)
	assert.Equal(t, 7, team.Points)
	assert.Equal(t, 2024, team.CreatedAt.Year())
}

func TestFromRowEnumRejected(t *testing.T) {
	m := newMapper()
	row := []string{"", "201", "Sara", "AQSA", "middle"}
	res, err := m.FromRow(festival.KindCandidates, row)
	assert.Nil(t, res)
	require.Error(t, err)

	var rowErr *mapper.RowError
	require.True(t, errors.As(err, &rowErr))
	assert.Equal(t, "Section", rowErr.Column)

	var enumErr *festival.EnumError
	assert.True(t, errors.As(err, &enumErr))
}

func TestNewLayout(t *testing.T) {
	tests := []struct {
		msg    string
		kind   festival.Kind
		header []string
		isErr  bool
	}{
		{"canonical", festival.KindTeams,
			mapper.Headers(festival.KindTeams), false},
		{"no bookkeeping", festival.KindProgrammes,
			[]string{"Code", "Programme Name", "Category", "Section",
				"Position Type", "Status"}, false},
		{"aliases and case", festival.KindCandidates,
			[]string{"id", "chest no", "NAME", "team code"}, false},
		{"trailing blanks", festival.KindBasic,
			[]string{"Key", "Value", "", ""}, false},
		{"unknown column", festival.KindTeams,
			[]string{"Name", "Mascot"}, true},
		{"duplicate", festival.KindTeams,
			[]string{"Name", "Team"}, true},
		{"out of order", festival.KindCandidates,
			[]string{"Name", "Chest Number"}, true},
		{"missing key", festival.KindResults,
			[]string{"Programme Code", "Position"}, true},
		{"empty", festival.KindTeams, nil, true},
	}

	for _, v := range tests {
		l, err := mapper.NewLayout(v.kind, v.header)
		if v.isErr {
			var hErr *mapper.HeaderError
			assert.True(t, errors.As(err, &hErr), v.msg)
			continue
		}
		require.NoError(t, err, v.msg)
		assert.Equal(t, v.kind, l.Kind(), v.msg)
	}
}

func TestLayoutIsCanonical(t *testing.T) {
	tests := []struct {
		msg    string
		kind   festival.Kind
		header []string
		want   bool
	}{
		{"export header", festival.KindTeams,
			mapper.Headers(festival.KindTeams), true},
		{"trailing blanks", festival.KindBasic,
			append(mapper.Headers(festival.KindBasic), "", ""), true},
		{"compact teams", festival.KindTeams,
			[]string{"Name", "Color"}, false},
		{"compact programmes", festival.KindProgrammes,
			[]string{"Code", "Programme Name", "Category", "Section",
				"Position Type", "Status"}, false},
		{"gap column", festival.KindBasic,
			[]string{"ID", "", "Key", "Value", "Created At", "Updated At"}, false},
	}

	for _, v := range tests {
		l, err := mapper.NewLayout(v.kind, v.header)
		require.NoError(t, err, v.msg)
		assert.Equal(t, v.want, l.IsCanonical(), v.msg)
	}
	assert.True(t, mapper.Canonical(festival.KindResults).IsCanonical())
}

func TestCompactProgrammeSheet(t *testing.T) {
	m := newMapper()
	l, err := mapper.NewLayout(festival.KindProgrammes,
		[]string{"Code", "Programme Name", "Category", "Section",
			"Position Type", "Status"})
	require.NoError(t, err)
	assert.False(t, l.Has("id"))
	assert.Equal(t, 0, l.Position("code"))

	res, err := m.Decode(l,
		[]string{"P100", "Chess", "sports", "senior", "individual", "active"})
	require.NoError(t, err)
	p := res.(*festival.Programme)
	assert.Equal(t, "P100", p.Code)
	assert.Equal(t, "Chess", p.Name)
	assert.Equal(t, festival.CategorySports, p.Category)
	assert.Equal(t, festival.SectionSenior, p.Section)
	assert.Equal(t, festival.PositionIndividual, p.PositionType)
	assert.Equal(t, festival.StatusActive, p.Status)
	assert.Empty(t, p.ID)
	assert.True(t, fixedNow.Equal(p.CreatedAt))
}

func TestApply(t *testing.T) {
	m := newMapper()
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	stored := &festival.Team{
		Meta:  festival.Meta{ID: "t9", CreatedAt: created, UpdatedAt: created},
		Name:  "SUMUD",
		Color: "Red", Captain: "Ameen", Points: 50,
	}
	l, err := mapper.NewLayout(festival.KindTeams,
		[]string{"ID", "Name", "Color", "Points", "Created At"})
	require.NoError(t, err)

	err = m.Apply(stored, l,
		[]string{"other-id", "SUMUD", "Blue", "75", "2020-01-01"})
	require.NoError(t, err)
	assert.Equal(t, "t9", stored.ID)
	assert.Equal(t, "Blue", stored.Color)
	assert.Equal(t, 75, stored.Points)
	assert.Equal(t, "Ameen", stored.Captain)
	assert.True(t, created.Equal(stored.CreatedAt))

	err = m.Apply(&festival.Info{}, l, nil)
	assert.Error(t, err)
}

func TestFromDocument(t *testing.T) {
	m := newMapper()
	res, err := m.FromDocument(festival.KindCandidates, map[string]any{
		"chestNumber": 305.0,
		"name":        "Hiba",
		"team":        "AQS",
		"section":     "Sub Junior",
		"extra":       "ignored",
	})
	require.NoError(t, err)
	c := res.(*festival.Candidate)
	assert.Equal(t, "305", c.ChestNumber)
	assert.Equal(t, festival.SectionSubJunior, c.Section)
	assert.True(t, fixedNow.Equal(c.UpdatedAt))

	res, err = m.FromDocument(festival.KindCandidates,
		map[string]any{"createdAt": "2024-01-01", "unknown": "x"})
	assert.NoError(t, err)
	assert.Nil(t, res)

	_, err = m.FromDocument("users", map[string]any{})
	assert.Error(t, err)
}

func TestApplyDocument(t *testing.T) {
	m := newMapper()
	team := &festival.Team{
		Meta:  festival.Meta{ID: "keep"},
		Name:  "SUMUD",
		Color: "green",
	}
	err := m.ApplyDocument(team, map[string]any{
		"id":     "other",
		"points": 12.0,
	})
	require.NoError(t, err)
	assert.Equal(t, "keep", team.ID)
	assert.Equal(t, "green", team.Color)
	assert.Equal(t, 12, team.Points)

	prog := &festival.Programme{Code: "P1"}
	err = m.ApplyDocument(prog, map[string]any{"status": "archived"})
	var rowErr *mapper.RowError
	assert.ErrorAs(t, err, &rowErr)
}
