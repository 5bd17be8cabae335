// Package iosync implements lifecycle.Syncer: it provisions sheets,
// exports database snapshots and reconciles sheet rows into the database.
//
// Every operation works sequentially, one spreadsheet or database call at a
// time, and makes a single attempt. A failed write aborts the operation;
// re-running is safe because rows are matched by id or natural key.
package iosync

import (
	"context"
	"log/slog"
	"slices"

	"github.com/artsfest/festsync/pkg/db"
	"github.com/artsfest/festsync/pkg/festival"
	"github.com/artsfest/festsync/pkg/lifecycle"
	"github.com/artsfest/festsync/pkg/mapper"
	"github.com/artsfest/festsync/pkg/sheets"
)

// ProgressFunc receives the number of processed rows of a reconciliation.
type ProgressFunc func(k festival.Kind, done, total int)

// Syncer moves records between one spreadsheet and one database.
type Syncer struct {
	store    db.Store
	sheet    sheets.Spreadsheet
	mapper   *mapper.Mapper
	progress ProgressFunc
}

var _ lifecycle.Syncer = (*Syncer)(nil)

// Option configures a Syncer.
type Option func(*Syncer)

// OptMapper sets the row mapper, usually to inject a clock.
func OptMapper(m *mapper.Mapper) Option {
	return func(s *Syncer) {
		if m != nil {
			s.mapper = m
		}
	}
}

// OptProgress sets a callback that is called after every processed row.
func OptProgress(fn ProgressFunc) Option {
	return func(s *Syncer) {
		s.progress = fn
	}
}

// New creates a Syncer. The store and the spreadsheet are owned by the
// caller.
func New(
	store db.Store,
	sheet sheets.Spreadsheet,
	opts ...Option,
) *Syncer {
	res := &Syncer{
		store:  store,
		sheet:  sheet,
		mapper: mapper.New(),
	}
	for _, opt := range opts {
		opt(res)
	}
	return res
}

// EnsureSheet creates the sheet with a header row for the kind unless a
// sheet with that name exists already. Existing sheets are not touched.
func (s *Syncer) EnsureSheet(
	ctx context.Context,
	name string,
	k festival.Kind,
) error {
	names, err := s.sheet.ListSheets(ctx)
	if err != nil {
		return err
	}
	if slices.Contains(names, name) {
		return nil
	}

	if err = s.sheet.AddSheet(ctx, name); err != nil {
		return err
	}
	if err = s.sheet.UpdateValues(ctx, name, "A1", [][]any{headerRow(k)}); err != nil {
		return err
	}

	slog.Info("Sheet created", "sheet", name, "type", k)
	return nil
}

// SyncToSheets implements lifecycle.Syncer.
func (s *Syncer) SyncToSheets(
	ctx context.Context,
	k festival.Kind,
	recs []festival.Record,
) (*lifecycle.ExportResult, error) {
	return s.Export(ctx, k, recs)
}

// SyncFromSheets implements lifecycle.Syncer.
func (s *Syncer) SyncFromSheets(
	ctx context.Context,
	k festival.Kind,
) (*lifecycle.SyncResult, error) {
	return s.Reconcile(ctx, Options{
		Kind:      k,
		Match:     ByID,
		WriteBack: true,
	})
}

// ImportFromSheets implements lifecycle.Syncer.
func (s *Syncer) ImportFromSheets(
	ctx context.Context,
	k festival.Kind,
) (*lifecycle.SyncResult, error) {
	return s.Reconcile(ctx, Options{
		Kind:   k,
		Match:  ByNaturalKey,
		Strict: k == festival.KindCandidates,
	})
}
