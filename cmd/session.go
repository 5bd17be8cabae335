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
	"fmt"

	"github.com/artsfest/festsync/internal/iodb"
	"github.com/artsfest/festsync/internal/iosheets"
	"github.com/artsfest/festsync/internal/iostore"
	"github.com/artsfest/festsync/internal/iosync"
	"github.com/artsfest/festsync/internal/ioxlsx"
	"github.com/artsfest/festsync/pkg/config"
	"github.com/artsfest/festsync/pkg/db"
	"github.com/artsfest/festsync/pkg/festival"
	"github.com/artsfest/festsync/pkg/sheets"
	"github.com/cheggaaa/pb/v3"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

// openSheet creates the spreadsheet client of the configured backend.
func openSheet(ctx context.Context, cfg config.SheetsConfig) (sheets.Spreadsheet, error) {
	switch cfg.Backend {
	case "xlsx":
		if ok, missing := cfg.Status(); !ok {
			return nil, iosheets.NotConfiguredError(missing)
		}
		return ioxlsx.New(cfg.WorkbookPath)
	default:
		return iosheets.New(ctx, cfg)
	}
}

// connect opens the database. The caller closes the operator.
func connect(ctx context.Context) (db.Operator, error) {
	op := iodb.NewPgxOperator()
	if err := op.Connect(ctx, &cfg.Database); err != nil {
		return nil, err
	}
	return op, nil
}

// session bundles what the sync commands need.
type session struct {
	op     db.Operator
	sheet  sheets.Spreadsheet
	syncer *iosync.Syncer
	bar    *progress
}

func openSession(ctx context.Context) (*session, error) {
	sheet, err := openSheet(ctx, cfg.Sheets)
	if err != nil {
		return nil, err
	}

	op, err := connect(ctx)
	if err != nil {
		return nil, err
	}

	bar := &progress{}
	res := &session{
		op:    op,
		sheet: sheet,
		bar:   bar,
		syncer: iosync.New(
			iostore.New(op.Pool()),
			sheet,
			iosync.OptProgress(bar.update),
		),
	}
	return res, nil
}

func (s *session) Close() {
	s.bar.finish()
	_ = s.op.Close()
}

// progress shows a progress bar for row-by-row reconciliation.
type progress struct {
	bar *pb.ProgressBar
}

func (p *progress) update(k festival.Kind, done, total int) {
	if p.bar == nil {
		p.bar = newProgressBar(total, fmt.Sprintf("%s ", k))
	}
	p.bar.SetCurrent(int64(done))
}

func (p *progress) finish() {
	if p.bar != nil {
		p.bar.Finish()
		p.bar = nil
	}
}

// newProgressBar creates a new progress bar with consistent settings.
func newProgressBar(total int, prefix string) *pb.ProgressBar {
	bar := pb.Full.Start(total)
	bar.Set("prefix", prefix)
	bar.Set(pb.CleanOnFinish, true)
	return bar
}

// kindFlag adds the --type flag shared by the sync commands.
func kindFlag(cmd *cobra.Command, val *string) {
	cmd.Flags().StringVarP(val, "type", "t", "",
		"entity type: basic, teams, candidates, programmes, results")
	_ = cmd.MarkFlagRequired("type")
}

func parseKind(s string) (festival.Kind, error) {
	k, err := festival.ParseKind(s)
	if err != nil {
		gn.PrintErrorMessage(err)
		return "", err
	}
	return k, nil
}
