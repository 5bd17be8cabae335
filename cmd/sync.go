/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"
	"time"

	"github.com/artsfest/festsync/pkg/festival"
	"github.com/artsfest/festsync/pkg/lifecycle"
	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/spf13/cobra"
)

// getSyncCmd returns the sync command with its "to" and "from"
// subcommands.
func getSyncCmd() *cobra.Command {
	syncCmd := &cobra.Command{
		Use:   "sync",
		Short: "Synchronize one entity type between the database and sheets",
		Long: `Sync moves records of one entity type between PostgreSQL and
the spreadsheet.

  festsync sync to --type teams     overwrite the "teams" sheet
  festsync sync from --type teams   import the "teams" sheet by ID

A missing sheet is created with the canonical header row.`,
	}

	syncCmd.AddCommand(getSyncToCmd(), getSyncFromCmd())
	return syncCmd
}

func getSyncToCmd() *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "to",
		Short: "Export database records into their sheet",
		Long: `Export replaces all data rows of the sheet with the current
database records. Rows that were only in the sheet are lost.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			k, err := parseKind(kind)
			if err != nil {
				return err
			}
			return runSyncTo(cmd.Context(), k)
		},
	}

	kindFlag(cmd, &kind)
	return cmd
}

func getSyncFromCmd() *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "from",
		Short: "Import sheet rows into the database matching them by ID",
		Long: `Import reads the sheet and matches rows by their ID column.
Rows with an ID update the record with that ID. Rows without an ID are
inserted and the new ID is written back into the sheet, one write per
row, so large imports may reach the Google Sheets write quota. Use
"festsync import" when the sheet must not be modified.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			k, err := parseKind(kind)
			if err != nil {
				return err
			}
			return runSyncFrom(cmd.Context(), k)
		},
	}

	kindFlag(cmd, &kind)
	return cmd
}

// getImportCmd returns the quota-safe import command.
func getImportCmd() *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import sheet rows by natural key without writing to the sheet",
		Long: `Import reads the sheet once and upserts its rows by their
natural key: team name, chest number, programme code, programme code
with chest number for results, and setting name for basic info.

The spreadsheet is never modified. Rows that cannot be converted are
skipped and listed with their row number.

Examples:
  festsync import --type candidates
  festsync import -t results`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			k, err := parseKind(kind)
			if err != nil {
				return err
			}
			return runImport(cmd.Context(), k)
		},
	}

	kindFlag(cmd, &kind)
	return cmd
}

func runSyncTo(ctx context.Context, k festival.Kind) error {
	start := time.Now()
	s, err := openSession(ctx)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	defer s.Close()

	res, err := s.syncer.SyncToSheets(ctx, k, nil)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	gn.Info("Exported <em>%s</em> %s to sheet <em>%s</em> in %s",
		humanize.Comma(int64(res.Count)), k, k.SheetName(),
		gnfmt.TimeString(time.Since(start).Seconds()))
	return nil
}

func runSyncFrom(ctx context.Context, k festival.Kind) error {
	start := time.Now()
	s, err := openSession(ctx)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	defer s.Close()

	res, err := s.syncer.SyncFromSheets(ctx, k)
	s.bar.finish()
	if err != nil {
		if res != nil {
			report(res, start)
		}
		gn.PrintErrorMessage(err)
		return err
	}

	report(res, start)
	return nil
}

func runImport(ctx context.Context, k festival.Kind) error {
	start := time.Now()
	s, err := openSession(ctx)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	defer s.Close()

	res, err := s.syncer.ImportFromSheets(ctx, k)
	s.bar.finish()
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	report(res, start)
	return nil
}

// report prints the summary of an import.
func report(res *lifecycle.SyncResult, start time.Time) {
	gn.Info("Processed <em>%s</em> %s rows in %s",
		humanize.Comma(int64(res.Total)), res.Kind,
		gnfmt.TimeString(time.Since(start).Seconds()))
	gn.Info("Inserted: %s, updated: %s, unchanged: %s",
		humanize.Comma(int64(res.Inserted)),
		humanize.Comma(int64(res.Updated)),
		humanize.Comma(int64(res.Unchanged)),
	)
	if res.Unmatched > 0 {
		gn.Warn("<warn>%s</warn> rows have an ID that is not in the database",
			humanize.Comma(int64(res.Unmatched)))
	}
	if res.Skipped > 0 {
		gn.Warn("Skipped <warn>%s</warn> rows", humanize.Comma(int64(res.Skipped)))
	}
	for _, v := range res.Quarantined {
		gn.Warn("  row %d: %s", v.Row, v.Reason)
	}
}
