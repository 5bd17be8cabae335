package lifecycle

import (
	"context"

	"github.com/artsfest/festsync/pkg/festival"
)

// Syncer moves festival records between the spreadsheet and the database.
//
// Operations run sequentially row by row. There is no retry and no
// locking: two concurrent calls for the same kind may interleave.
type Syncer interface {
	// SyncToSheets overwrites the data rows of the kind's sheet with a
	// projection of the database. When recs is nil, all records of the kind
	// are read from the database first.
	SyncToSheets(
		ctx context.Context,
		k festival.Kind,
		recs []festival.Record,
	) (*ExportResult, error)

	// SyncFromSheets imports the kind's sheet matching rows by their ID
	// column. Rows without an ID are inserted and the generated id is
	// written back into the sheet, one write per row.
	SyncFromSheets(ctx context.Context, k festival.Kind) (*SyncResult, error)

	// ImportFromSheets imports the kind's sheet matching rows by their
	// natural key. It never writes to the spreadsheet.
	ImportFromSheets(ctx context.Context, k festival.Kind) (*SyncResult, error)

	// ImportRecords imports field-keyed documents, such as the output of
	// Analyzer.MapSheet, matching them by natural key.
	ImportRecords(
		ctx context.Context,
		k festival.Kind,
		docs []map[string]any,
	) (*SyncResult, error)
}

// ExportResult summarizes SyncToSheets.
type ExportResult struct {
	Kind  festival.Kind `json:"type"`
	Count int           `json:"count"`
}

// SyncResult summarizes an import from the spreadsheet.
type SyncResult struct {
	Kind festival.Kind `json:"type"`

	// Inserted is the number of new database records.
	Inserted int `json:"inserted"`
	// Updated is the number of existing records whose content changed.
	Updated int `json:"updated"`
	// Unchanged is the number of matched records that needed no change.
	Unchanged int `json:"unchanged"`
	// Unmatched is the number of rows whose ID was not found.
	Unmatched int `json:"unmatched"`
	// Skipped is the number of blank, unreadable or invalid rows.
	Skipped int `json:"skipped"`
	// Total is the number of data rows seen.
	Total int `json:"total"`

	// Quarantined lists rows rejected for a reason other than being blank.
	Quarantined []Quarantine `json:"quarantined,omitempty"`
}

// Imported is the number of rows that ended up in the database, either as
// a new record or as a match of an existing one.
func (r *SyncResult) Imported() int {
	return r.Inserted + r.Updated + r.Unchanged
}

// Quarantine describes a rejected row.
type Quarantine struct {
	// Row is the one-based spreadsheet row, or the one-based position of
	// a document for ImportRecords.
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}
