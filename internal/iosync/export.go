package iosync

import (
	"context"
	"log/slog"

	"github.com/artsfest/festsync/pkg/festival"
	"github.com/artsfest/festsync/pkg/lifecycle"
	"github.com/artsfest/festsync/pkg/mapper"
	"github.com/artsfest/festsync/pkg/sheets"
)

// Export overwrites the data rows of the kind's sheet with recs. When recs
// is nil all records of the kind are read from the store. Rows below the
// header are cleared first, so after a successful call the sheet holds
// exactly the exported records. A header row that does not place every
// column at its canonical position is replaced together with the rows.
// After a failure the sheet content is unknown and the export should be
// run again.
func (s *Syncer) Export(
	ctx context.Context,
	k festival.Kind,
	recs []festival.Record,
) (*lifecycle.ExportResult, error) {
	var err error
	name := k.SheetName()
	if err = s.EnsureSheet(ctx, name, k); err != nil {
		return nil, err
	}

	if recs == nil {
		if recs, err = s.store.Find(ctx, k); err != nil {
			return nil, err
		}
	}

	rows := make([][]any, len(recs))
	for i := range recs {
		rows[i] = s.mapper.ToRow(recs[i])
	}

	head, err := s.sheet.GetValues(ctx, name, sheets.HeaderRow)
	if err != nil {
		return nil, err
	}
	var header []string
	if len(head) > 0 {
		header = head[0]
	}

	width := len(mapper.Headers(k))
	from, start, data := 2, "A2", rows
	if !canonical(k, header) {
		slog.Warn("Replacing header row of sheet",
			"sheet", name, "header", header)
		from, start = 1, "A1"
		width = max(width, len(header))
		data = append([][]any{headerRow(k)}, rows...)
	}

	if err = s.sheet.ClearValues(ctx, name, sheets.Span(from, width)); err != nil {
		return nil, err
	}
	if len(data) > 0 {
		if err = s.sheet.UpdateValues(ctx, name, start, data); err != nil {
			return nil, err
		}
	}

	slog.Info("Exported records to sheet", "sheet", name, "count", len(rows))
	return &lifecycle.ExportResult{Kind: k, Count: len(rows)}, nil
}

// canonical reports whether rows written by ToRow line up with header.
func canonical(k festival.Kind, header []string) bool {
	l, err := mapper.NewLayout(k, header)
	return err == nil && l.IsCanonical()
}

func headerRow(k festival.Kind) []any {
	headers := mapper.Headers(k)
	res := make([]any, len(headers))
	for i := range headers {
		res[i] = headers[i]
	}
	return res
}
