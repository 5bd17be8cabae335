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
	"strings"

	"github.com/artsfest/festsync/pkg/db"
	"github.com/artsfest/festsync/pkg/schema"
	"github.com/artsfest/festsync/pkg/sheets"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

// getStatusCmd returns the status command.
func getStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether the spreadsheet and the database are reachable",
		Long: `Status checks the configuration and tries to reach the
spreadsheet and the database. Names of missing settings are printed,
their values never are.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatus(cmd.Context())
		},
	}
}

func runStatus(ctx context.Context) error {
	gn.Info("Spreadsheet backend: <em>%s</em>", cfg.Sheets.Backend)

	configured, missing := cfg.Sheets.Status()
	if !configured {
		gn.Warn("Missing settings: <warn>%s</warn>", strings.Join(missing, ", "))
	} else {
		sheet, err := openSheet(ctx, cfg.Sheets)
		if err == nil {
			var title string
			title, err = sheetTitle(ctx, sheet)
			if err == nil {
				gn.Info("Spreadsheet <em>%s</em> is reachable", title)
			}
		}
		if err != nil {
			printSheetError(err)
		}
	}

	op, err := connect(ctx)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	defer op.Close()

	missing, err := missingTables(ctx, op)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	gn.Info("Database <em>%s</em> is reachable", cfg.Database.Database)
	if len(missing) > 0 {
		gn.Warn("Missing tables: <warn>%s</warn>, run 'festsync migrate' first",
			strings.Join(missing, ", "))
	}
	return nil
}

// missingTables lists festival tables that do not exist yet.
func missingTables(ctx context.Context, op db.Operator) ([]string, error) {
	var res []string
	for _, table := range schema.TableNames() {
		exists, err := op.TableExists(ctx, table)
		if err != nil {
			return nil, err
		}
		if !exists {
			res = append(res, table)
		}
	}
	return res, nil
}

func sheetTitle(ctx context.Context, sheet sheets.Spreadsheet) (string, error) {
	info, err := sheet.Describe(ctx)
	if err != nil {
		return "", err
	}
	return info.Title, nil
}
