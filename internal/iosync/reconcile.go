package iosync

import (
	"context"
	"errors"
	"log/slog"

	"github.com/artsfest/festsync/pkg/festival"
	"github.com/artsfest/festsync/pkg/lifecycle"
	"github.com/artsfest/festsync/pkg/mapper"
	"github.com/artsfest/festsync/pkg/sheets"
)

// MatchMode decides how an incoming row finds its stored record.
type MatchMode int

const (
	// ByID matches rows by the ID column. Rows without an id are inserted.
	ByID MatchMode = iota
	// ByNaturalKey ignores the ID column and matches rows by the business
	// key of the kind (team name, chest number, programme code...).
	ByNaturalKey
)

func (m MatchMode) String() string {
	if m == ByNaturalKey {
		return "natural-key"
	}
	return "id"
}

// Options parametrize Reconcile.
type Options struct {
	Kind  festival.Kind
	Match MatchMode

	// WriteBack writes the id of every inserted record into the ID cell of
	// its row, one spreadsheet write per row. Only used with ByID.
	WriteBack bool

	// Strict rejects rows that fail festival.Record.Validate.
	Strict bool
}

// item is one incoming row or document.
type item struct {
	// num is the one-based sheet row or document position.
	num int
	// rec is nil for a blank row.
	rec festival.Record
	// err is a conversion failure.
	err error
	// apply merges the incoming values onto a stored record.
	apply func(festival.Record) error
}

// Reconcile reads the kind's sheet with a single call and brings the
// database in line with its rows. Blank rows are skipped, unreadable or
// invalid rows are skipped and quarantined, a header that does not
// describe the kind fails the whole call. Database and write-back failures
// abort the remaining rows.
//
// With ByNaturalKey the spreadsheet is only read, never written.
func (s *Syncer) Reconcile(
	ctx context.Context,
	opts Options,
) (*lifecycle.SyncResult, error) {
	name := opts.Kind.SheetName()
	if opts.Match == ByID {
		if err := s.EnsureSheet(ctx, name, opts.Kind); err != nil {
			return nil, err
		}
	}

	grid, err := s.sheet.GetValues(ctx, name, "")
	if err != nil {
		return nil, err
	}
	if len(grid) == 0 {
		return &lifecycle.SyncResult{Kind: opts.Kind}, nil
	}

	layout, err := mapper.NewLayout(opts.Kind, grid[0])
	if err != nil {
		return nil, HeaderError(name, err)
	}
	idPos := layout.Position("id")
	if opts.Match == ByID && idPos < 0 {
		return nil, HeaderError(name, &mapper.HeaderError{
			Kind:   opts.Kind,
			Header: grid[0],
			Reason: `matching by id needs the "ID" column`,
		})
	}

	items := make([]item, 0, len(grid)-1)
	for i, row := range grid[1:] {
		rec, err := s.mapper.Decode(layout, row)
		items = append(items, item{
			num: i + 2,
			rec: rec,
			err: err,
			apply: func(stored festival.Record) error {
				return s.mapper.Apply(stored, layout, row)
			},
		})
	}

	var writeBack func(context.Context, int, string) error
	if opts.Match == ByID && opts.WriteBack {
		writeBack = func(ctx context.Context, num int, id string) error {
			cell := sheets.Cell(idPos, num)
			return s.sheet.UpdateValues(ctx, name, cell, [][]any{{id}})
		}
	}

	return s.run(ctx, opts, items, writeBack)
}

// ImportRecords implements lifecycle.Syncer. Documents are matched by
// natural key; candidates are validated strictly.
func (s *Syncer) ImportRecords(
	ctx context.Context,
	k festival.Kind,
	docs []map[string]any,
) (*lifecycle.SyncResult, error) {
	items := make([]item, len(docs))
	for i, doc := range docs {
		rec, err := s.mapper.FromDocument(k, doc)
		items[i] = item{
			num: i + 1,
			rec: rec,
			err: err,
			apply: func(stored festival.Record) error {
				return s.mapper.ApplyDocument(stored, doc)
			},
		}
	}
	opts := Options{
		Kind:   k,
		Match:  ByNaturalKey,
		Strict: k == festival.KindCandidates,
	}
	return s.run(ctx, opts, items, nil)
}

func (s *Syncer) run(
	ctx context.Context,
	opts Options,
	items []item,
	writeBack func(context.Context, int, string) error,
) (*lifecycle.SyncResult, error) {
	res := &lifecycle.SyncResult{Kind: opts.Kind, Total: len(items)}

	for i, it := range items {
		if err := s.one(ctx, opts, it, writeBack, res); err != nil {
			slog.Error("Sync aborted",
				"type", opts.Kind, "row", it.num, "error", err)
			return res, err
		}
		if s.progress != nil {
			s.progress(opts.Kind, i+1, len(items))
		}
	}

	slog.Info("Sync finished",
		"type", opts.Kind,
		"match", opts.Match.String(),
		"inserted", res.Inserted,
		"updated", res.Updated,
		"unchanged", res.Unchanged,
		"unmatched", res.Unmatched,
		"skipped", res.Skipped,
		"total", res.Total,
	)
	return res, nil
}

// one reconciles a single item. It returns an error only for failures
// that must stop the loop.
func (s *Syncer) one(
	ctx context.Context,
	opts Options,
	it item,
	writeBack func(context.Context, int, string) error,
	res *lifecycle.SyncResult,
) error {
	if it.err != nil {
		quarantine(res, it.num, it.err)
		return nil
	}
	if it.rec == nil {
		res.Skipped++
		return nil
	}

	rec := it.rec
	rec.Normalize()
	if opts.Match == ByNaturalKey {
		rec.Base().ID = ""
		if rec.NaturalKey() == "" {
			quarantine(res, it.num, errMissingKey)
			return nil
		}
	}
	if opts.Strict {
		if err := rec.Validate(); err != nil {
			quarantine(res, it.num, err)
			return nil
		}
	}

	stored, err := s.lookup(ctx, opts.Match, rec)
	if err != nil {
		return err
	}

	now := s.mapper.Now()
	switch {
	case stored != nil:
		return s.merge(ctx, opts, it, stored, res)
	case opts.Match == ByID && rec.Base().ID != "":
		slog.Warn("Row id not found in database",
			"type", opts.Kind, "row", it.num, "id", rec.Base().ID)
		res.Unmatched++
		return nil
	}

	if opts.Match == ByNaturalKey {
		rec.Base().CreatedAt = now
		rec.Base().UpdatedAt = now
	}
	id, err := s.store.Insert(ctx, rec)
	if err != nil {
		return InsertError(opts.Kind, it.num, err)
	}
	res.Inserted++

	if writeBack != nil {
		if err = writeBack(ctx, it.num, id); err != nil {
			return WriteBackError(opts.Kind, it.num, err)
		}
	}
	return nil
}

func (s *Syncer) lookup(
	ctx context.Context,
	match MatchMode,
	rec festival.Record,
) (festival.Record, error) {
	if match == ByNaturalKey {
		return s.store.FindByKey(ctx, rec.Kind(), rec.NaturalKey())
	}
	if id := rec.Base().ID; id != "" {
		return s.store.FindByID(ctx, rec.Kind(), id)
	}
	return nil, nil
}

func (s *Syncer) merge(
	ctx context.Context,
	opts Options,
	it item,
	stored festival.Record,
	res *lifecycle.SyncResult,
) error {
	if err := it.apply(stored); err != nil {
		quarantine(res, it.num, err)
		return nil
	}
	stored.Normalize()
	now := s.mapper.Now()
	stored.Base().UpdatedAt = now

	upd, err := s.store.Update(ctx, stored)
	if err != nil {
		return UpdateError(opts.Kind, it.num, err)
	}
	switch {
	case upd.Modified:
		res.Updated++
	case upd.Matched:
		// imports refresh updated_at of every matched record
		if opts.Match == ByNaturalKey {
			id := stored.Base().ID
			if _, err = s.store.Touch(ctx, opts.Kind, id, now); err != nil {
				return UpdateError(opts.Kind, it.num, err)
			}
		}
		res.Unchanged++
	default:
		// deleted between lookup and update
		res.Unmatched++
	}
	return nil
}

var errMissingKey = errors.New("natural key is blank")

func quarantine(res *lifecycle.SyncResult, num int, err error) {
	res.Skipped++
	res.Quarantined = append(res.Quarantined, lifecycle.Quarantine{
		Row:    num,
		Reason: err.Error(),
	})
	slog.Warn("Row skipped", "type", res.Kind, "row", num, "reason", err)
}
