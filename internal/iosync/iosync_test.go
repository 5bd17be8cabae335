package iosync_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/artsfest/festsync/internal/iosync"
	"github.com/artsfest/festsync/internal/iotesting"
	"github.com/artsfest/festsync/pkg/errcode"
	"github.com/artsfest/festsync/pkg/festival"
	"github.com/artsfest/festsync/pkg/mapper"
	"github.com/gnames/gn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)

func setup() (*iosync.Syncer, *iotesting.MemStore, *iotesting.MemSheet) {
	st := iotesting.NewMemStore()
	sh := iotesting.NewMemSheet("Festival 2025")
	m := mapper.New(mapper.OptClock(func() time.Time { return fixedNow }))
	return iosync.New(st, sh, iosync.OptMapper(m)), st, sh
}

func candidateHeader() []string {
	return mapper.Headers(festival.KindCandidates)
}

func errCode(t *testing.T, err error) gn.ErrorCode {
	t.Helper()
	var gnErr *gn.Error
	require.ErrorAs(t, err, &gnErr)
	return gnErr.Code
}

func TestEnsureSheet(t *testing.T) {
	ctx := context.Background()
	s, _, sh := setup()

	require.NoError(t, s.EnsureSheet(ctx, "program", festival.KindProgrammes))
	assert.Equal(t,
		[][]string{mapper.Headers(festival.KindProgrammes)},
		sh.Rows("program"),
	)
	writes := sh.Writes

	// second call only lists sheets
	require.NoError(t, s.EnsureSheet(ctx, "program", festival.KindProgrammes))
	assert.Equal(t, writes, sh.Writes)

	// an existing sheet keeps its content
	sh.SetRows("teams", [][]string{{"Custom"}})
	require.NoError(t, s.EnsureSheet(ctx, "teams", festival.KindTeams))
	assert.Equal(t, [][]string{{"Custom"}}, sh.Rows("teams"))
}

func TestExportOverwrites(t *testing.T) {
	ctx := context.Background()
	s, st, sh := setup()

	stale := [][]string{candidateHeader()}
	for range 5 {
		stale = append(stale, []string{"old", "999", "Stale", "X", "senior"})
	}
	sh.SetRows("candidates", stale)

	created := time.Date(2024, 12, 1, 8, 0, 0, 0, time.UTC)
	meta := festival.Meta{CreatedAt: created, UpdatedAt: created}
	st.Seed(
		&festival.Candidate{Meta: meta, ChestNumber: "101", Name: "Ali",
			Team: "SUMUD", Section: festival.SectionSenior},
		&festival.Candidate{Meta: meta, ChestNumber: "102", Name: "Hiba",
			Team: "AQSA", Section: festival.SectionJunior, Points: 3},
		&festival.Candidate{Meta: meta, ChestNumber: "103", Name: "Omar",
			Team: "INTIFADA", Section: festival.SectionSubJunior},
	)

	res, err := s.Export(ctx, festival.KindCandidates, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Count)

	rows := sh.Rows("candidates")
	require.Len(t, rows, 4)
	assert.Equal(t, candidateHeader(), rows[0])
	m := mapper.New()
	for i, rec := range st.All(festival.KindCandidates) {
		assert.Equal(t, mapper.Cells(m.ToRow(rec)), rows[i+1])
	}
}

func TestExportEmpty(t *testing.T) {
	ctx := context.Background()
	s, _, sh := setup()
	sh.SetRows("teams", [][]string{
		mapper.Headers(festival.KindTeams),
		{"x", "OLD"},
	})
	sh.ResetCounters()

	res, err := s.SyncToSheets(ctx, festival.KindTeams, []festival.Record{})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Count)
	assert.Equal(t, 1, sh.Writes, "only the clear happens")
	assert.Len(t, sh.Rows("teams"), 1)
}

func TestExportReplacesCompactHeader(t *testing.T) {
	tests := []struct {
		msg  string
		kind festival.Kind
		grid [][]string
	}{
		{"teams", festival.KindTeams, [][]string{
			{"Name", "Color"},
			{"SMD", "green"},
		}},
		{"programmes", festival.KindProgrammes, [][]string{
			{"Code", "Programme Name", "Category", "Section",
				"Position Type", "Status"},
			{"P100", "Chess", "sports", "senior", "individual", "active"},
		}},
	}

	for _, v := range tests {
		ctx := context.Background()
		s, st, sh := setup()
		name := v.kind.SheetName()
		sh.SetRows(name, v.grid)

		res, err := s.ImportFromSheets(ctx, v.kind)
		require.NoError(t, err, v.msg)
		require.Equal(t, 1, res.Inserted, v.msg)

		_, err = s.SyncToSheets(ctx, v.kind, nil)
		require.NoError(t, err, v.msg)

		stored := st.All(v.kind)
		require.Len(t, stored, 1, v.msg)
		rows := sh.Rows(name)
		require.Len(t, rows, 2, v.msg)
		assert.Equal(t, mapper.Headers(v.kind), rows[0], v.msg)
		assert.Equal(t, mapper.Cells(mapper.New().ToRow(stored[0])), rows[1], v.msg)

		// the exported sheet imports onto the same record
		res, err = s.ImportFromSheets(ctx, v.kind)
		require.NoError(t, err, v.msg)
		assert.Equal(t, 0, res.Inserted, v.msg)
		assert.Equal(t, 0, res.Skipped, v.msg)
		assert.Len(t, st.All(v.kind), 1, v.msg)
	}
}

func TestExportReplacesWideHeader(t *testing.T) {
	ctx := context.Background()
	s, _, sh := setup()
	header := append(mapper.Headers(festival.KindBasic), "Notes", "Owner")
	sh.SetRows("basic", [][]string{header, {"", "theme", "Unity", "", "", "x", "y"}})

	_, err := s.SyncToSheets(ctx, festival.KindBasic, []festival.Record{})
	require.NoError(t, err)
	assert.Equal(t,
		[][]string{mapper.Headers(festival.KindBasic)}, sh.Rows("basic"))
}

func TestSyncFromSheetsWriteBack(t *testing.T) {
	ctx := context.Background()
	s, st, sh := setup()
	sh.SetRows("teams", [][]string{
		mapper.Headers(festival.KindTeams),
		{"", "SUMUD", "green"},
	})

	res, err := s.SyncFromSheets(ctx, festival.KindTeams)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Inserted)
	assert.Equal(t, 0, res.Updated)

	stored := st.All(festival.KindTeams)
	require.Len(t, stored, 1)
	assert.NotEmpty(t, stored[0].Base().ID)
	assert.Equal(t, stored[0].Base().ID, sh.Rows("teams")[1][0])

	// the second run matches the written-back id
	res, err = s.SyncFromSheets(ctx, festival.KindTeams)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Inserted)
	assert.Equal(t, 1, res.Unchanged)
	assert.Zero(t, st.Touches, "id sync writes only changed content")
	assert.Len(t, st.All(festival.KindTeams), 1)
}

func TestSyncFromSheetsUpdateByID(t *testing.T) {
	ctx := context.Background()
	s, st, sh := setup()
	st.Seed(&festival.Team{
		Meta: festival.Meta{ID: "5f8c7a52-4b4e-4d8e-9a57-0a6f3c1d2e3f"},
		Name: "SUMUD", Points: 10,
	})
	sh.SetRows("teams", [][]string{
		mapper.Headers(festival.KindTeams),
		{"5f8c7a52-4b4e-4d8e-9a57-0a6f3c1d2e3f", "SUMUD", "", "", "", "", "25"},
		{"", "", ""},
		{"7d0b3c2e-1111-4a4a-8b8b-000000000000", "AQSA"},
	})

	res, err := s.SyncFromSheets(ctx, festival.KindTeams)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Updated)
	assert.Equal(t, 1, res.Unmatched)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, 0, res.Inserted)
	assert.Equal(t, 3, res.Total)
	assert.Empty(t, res.Quarantined)

	team := st.All(festival.KindTeams)[0].(*festival.Team)
	assert.Equal(t, 25, team.Points)
	assert.Equal(t, fixedNow, team.UpdatedAt)
}

func TestSyncFromSheetsAbortsOnWriteBack(t *testing.T) {
	ctx := context.Background()
	s, st, sh := setup()
	sh.SetRows("teams", [][]string{
		mapper.Headers(festival.KindTeams),
		{"", "SUMUD"},
		{"", "AQSA"},
	})
	sh.FailUpdate = errors.New("quota")

	res, err := s.SyncFromSheets(ctx, festival.KindTeams)
	assert.Equal(t, errcode.SyncWriteBackError, errCode(t, err))
	assert.Equal(t, 1, res.Inserted)
	assert.Equal(t, 1, st.Inserts, "remaining rows are not processed")
}

func TestSyncFromSheetsAbortsOnInsert(t *testing.T) {
	ctx := context.Background()
	s, st, sh := setup()
	sh.SetRows("teams", [][]string{
		mapper.Headers(festival.KindTeams),
		{"", "SUMUD"},
	})
	st.FailInsert = errors.New("connection lost")

	_, err := s.SyncFromSheets(ctx, festival.KindTeams)
	assert.Equal(t, errcode.SyncInsertError, errCode(t, err))
}

func TestSyncFromSheetsNeedsIDColumn(t *testing.T) {
	ctx := context.Background()
	s, _, sh := setup()
	sh.SetRows("teams", [][]string{{"Name", "Points"}, {"SUMUD", "1"}})

	_, err := s.SyncFromSheets(ctx, festival.KindTeams)
	assert.Equal(t, errcode.SyncHeaderError, errCode(t, err))
}

func TestSyncFromSheetsCreatesMissingSheet(t *testing.T) {
	ctx := context.Background()
	s, _, sh := setup()

	res, err := s.SyncFromSheets(ctx, festival.KindResults)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Total)
	assert.Equal(t,
		[][]string{mapper.Headers(festival.KindResults)},
		sh.Rows("results"),
	)
}

func TestImportIdempotent(t *testing.T) {
	ctx := context.Background()
	s, st, sh := setup()
	sh.SetRows("candidates", [][]string{
		candidateHeader(),
		{"", "101", "Ali", "SMD", "senior", "4"},
	})

	for i := range 2 {
		res, err := s.ImportFromSheets(ctx, festival.KindCandidates)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Imported(), i)
		assert.Equal(t, 0, res.Skipped, i)
		assert.Equal(t, 1, res.Total, i)
	}

	sh.SetRows("candidates", [][]string{
		candidateHeader(),
		{"", "101", "Ali Hasan", "SMD", "senior", "9"},
	})
	res, err := s.ImportFromSheets(ctx, festival.KindCandidates)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Updated)

	all := st.All(festival.KindCandidates)
	require.Len(t, all, 1)
	c := all[0].(*festival.Candidate)
	assert.Equal(t, "Ali Hasan", c.Name)
	assert.Equal(t, 9, c.Points)
	assert.Equal(t, 1, st.Inserts)
}

func TestImportCandidateStrict(t *testing.T) {
	ctx := context.Background()
	s, st, sh := setup()
	sh.SetRows("candidates", [][]string{
		candidateHeader(),
		{"", "", "Ali", "SUMUD", "senior"},
		{"", "102", "", "SUMUD", "senior"},
	})

	res, err := s.ImportFromSheets(ctx, festival.KindCandidates)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Imported())
	assert.Equal(t, 2, res.Skipped)
	assert.Equal(t, 2, res.Total)
	require.Len(t, res.Quarantined, 2)
	assert.Equal(t, 2, res.Quarantined[0].Row)
	assert.Equal(t, 3, res.Quarantined[1].Row)
	assert.Zero(t, st.Inserts+st.Updates)
}

func TestImportTeamAlias(t *testing.T) {
	ctx := context.Background()
	s, st, sh := setup()
	sh.SetRows("teams", [][]string{
		mapper.Headers(festival.KindTeams),
		{"", "SMD", "green"},
		{"", "sumud", "", "", "", "", "7"},
	})

	res, err := s.ImportFromSheets(ctx, festival.KindTeams)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Inserted)
	assert.Equal(t, 1, res.Updated)

	all := st.All(festival.KindTeams)
	require.Len(t, all, 1)
	team := all[0].(*festival.Team)
	assert.Equal(t, "SUMUD", team.Name)
	assert.Equal(t, 7, team.Points)
}

func TestTeamAliasAcrossMatchModes(t *testing.T) {
	ctx := context.Background()
	s, st, sh := setup()
	sh.SetRows("teams", [][]string{
		mapper.Headers(festival.KindTeams),
		{"", "SMD"},
	})

	res, err := s.SyncFromSheets(ctx, festival.KindTeams)
	require.NoError(t, err)
	require.Equal(t, 1, res.Inserted)
	all := st.All(festival.KindTeams)
	require.Len(t, all, 1)
	assert.Equal(t, "SUMUD", all[0].(*festival.Team).Name)

	sh.SetRows("teams", [][]string{
		mapper.Headers(festival.KindTeams),
		{"", "SMD", "green"},
	})
	res, err = s.ImportFromSheets(ctx, festival.KindTeams)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Inserted)
	assert.Equal(t, 1, res.Updated)

	all = st.All(festival.KindTeams)
	require.Len(t, all, 1)
	team := all[0].(*festival.Team)
	assert.Equal(t, "SUMUD", team.Name)
	assert.Equal(t, "green", team.Color)
}

func TestImportRefreshesUpdatedAt(t *testing.T) {
	ctx := context.Background()
	s, st, sh := setup()
	old := time.Date(2024, 12, 1, 8, 0, 0, 0, time.UTC)
	st.Seed(&festival.Team{
		Meta: festival.Meta{CreatedAt: old, UpdatedAt: old},
		Name: "SUMUD",
	})
	sh.SetRows("teams", [][]string{{"Name"}, {"sumud"}})

	res, err := s.ImportFromSheets(ctx, festival.KindTeams)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Unchanged)
	assert.Equal(t, 0, res.Updated)
	assert.Equal(t, 1, st.Touches)

	team := st.All(festival.KindTeams)[0]
	assert.Equal(t, fixedNow, team.Base().UpdatedAt)
	assert.Equal(t, old, team.Base().CreatedAt)
}

func TestImportIsQuotaSafe(t *testing.T) {
	ctx := context.Background()
	s, _, sh := setup()
	sh.SetRows("teams", [][]string{
		mapper.Headers(festival.KindTeams),
		{"", "SUMUD"},
		{"", "AQSA"},
		{"", "INT"},
	})
	sh.ResetCounters()

	res, err := s.ImportFromSheets(ctx, festival.KindTeams)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Inserted)
	assert.Equal(t, 0, sh.Writes)
	assert.Equal(t, 1, sh.Reads)
	assert.Empty(t, sh.Rows("teams")[1][0], "ids are not written back")
}

func TestImportMissingSheet(t *testing.T) {
	ctx := context.Background()
	s, _, sh := setup()

	_, err := s.ImportFromSheets(ctx, festival.KindTeams)
	assert.Equal(t, errcode.SheetNotFoundError, errCode(t, err))
	assert.Equal(t, 0, sh.Writes)
}

func TestImportProgrammeScenario(t *testing.T) {
	ctx := context.Background()
	s, st, sh := setup()
	sh.SetRows("program", [][]string{
		{"Code", "Programme Name", "Category", "Section", "Position Type", "Status"},
		{"P100", "Chess", "sports", "senior", "individual", "active"},
	})

	res, err := s.ImportFromSheets(ctx, festival.KindProgrammes)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Imported())
	assert.Equal(t, 0, res.Skipped)
	assert.Equal(t, 1, res.Total)

	rec, err := st.FindByKey(ctx, festival.KindProgrammes, "P100")
	require.NoError(t, err)
	require.NotNil(t, rec)
	prog := rec.(*festival.Programme)
	assert.Equal(t, festival.CategorySports, prog.Category)
	assert.Equal(t, fixedNow, prog.CreatedAt)
}

func TestImportQuarantinesBadEnum(t *testing.T) {
	ctx := context.Background()
	s, st, sh := setup()
	sh.SetRows("program", [][]string{
		{"Code", "Programme Name", "Status"},
		{"P1", "Chess", "archived"},
		{"P2", "Song", "active"},
	})

	res, err := s.ImportFromSheets(ctx, festival.KindProgrammes)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Inserted)
	assert.Equal(t, 1, res.Skipped)
	require.Len(t, res.Quarantined, 1)
	assert.Equal(t, 2, res.Quarantined[0].Row)
	assert.Contains(t, res.Quarantined[0].Reason, "archived")
	assert.Len(t, st.All(festival.KindProgrammes), 1)
}

func TestImportBadHeader(t *testing.T) {
	ctx := context.Background()
	s, st, sh := setup()
	sh.SetRows("teams", [][]string{
		{"Points", "Name"},
		{"3", "SUMUD"},
	})

	_, err := s.ImportFromSheets(ctx, festival.KindTeams)
	assert.Equal(t, errcode.SyncHeaderError, errCode(t, err))
	assert.Zero(t, st.Inserts)
}

func TestImportRecords(t *testing.T) {
	ctx := context.Background()
	s, st, _ := setup()
	st.Seed(&festival.Candidate{
		ChestNumber: "101", Name: "Ali", Team: "SUMUD",
		Section: festival.SectionSenior, Points: 1,
	})

	docs := []map[string]any{
		{"chestNumber": "101", "name": "Ali", "team": "SUMUD",
			"section": "senior", "points": 6.0},
		{"chestNumber": "102", "name": "Hiba", "team": "AQSA",
			"section": "junior"},
		{"chestNumber": "103", "name": "No Section", "team": "AQSA"},
		{"createdAt": "2025-01-01"},
	}

	res, err := s.ImportRecords(ctx, festival.KindCandidates, docs)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Updated)
	assert.Equal(t, 1, res.Inserted)
	assert.Equal(t, 2, res.Skipped)
	assert.Equal(t, 4, res.Total)
	require.Len(t, res.Quarantined, 1)
	assert.Equal(t, 3, res.Quarantined[0].Row)

	rec, err := st.FindByKey(ctx, festival.KindCandidates, "101")
	require.NoError(t, err)
	assert.Equal(t, 6, rec.(*festival.Candidate).Points)
}

func TestProgress(t *testing.T) {
	ctx := context.Background()
	st := iotesting.NewMemStore()
	sh := iotesting.NewMemSheet("Festival")
	sh.SetRows("teams", [][]string{
		mapper.Headers(festival.KindTeams),
		{"", "SUMUD"},
		{"", "AQSA"},
	})

	var calls []int
	s := iosync.New(st, sh, iosync.OptProgress(
		func(k festival.Kind, done, total int) {
			assert.Equal(t, festival.KindTeams, k)
			assert.Equal(t, 2, total)
			calls = append(calls, done)
		},
	))

	_, err := s.SyncFromSheets(ctx, festival.KindTeams)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, calls)
}
