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
	"os"
	"strings"

	"github.com/artsfest/festsync/internal/ioanalyze"
	"github.com/artsfest/festsync/internal/iofs"
	"github.com/artsfest/festsync/internal/iostore"
	"github.com/artsfest/festsync/internal/iosync"
	"github.com/artsfest/festsync/pkg/festival"
	"github.com/artsfest/festsync/pkg/lifecycle"
	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/spf13/cobra"
)

// getAnalyzeCmd returns the analyze command with the map and template
// subcommands.
func getAnalyzeCmd() *cobra.Command {
	var asJSON bool

	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "Describe the structure of every sheet in the spreadsheet",
		Long: `Analyze lists the sheets of the spreadsheet with their headers,
row counts and a few sample rows. It is the first step for importing a
spreadsheet that does not follow the festsync layout, for example a
registration form:

  festsync analyze
  festsync analyze template --type candidates > form.yaml
  (edit the column headers in form.yaml)
  festsync analyze map --mapping form.yaml --import

The spreadsheet is never modified.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAnalyze(cmd.Context(), asJSON)
		},
	}

	analyzeCmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	analyzeCmd.AddCommand(getMapCmd(), getTemplateCmd())
	return analyzeCmd
}

func getMapCmd() *cobra.Command {
	var sheet, mapping string
	var doImport bool

	cmd := &cobra.Command{
		Use:   "map",
		Short: "Convert sheet rows into records using a mapping file",
		Long: `Map reads a sheet and builds one record per data row from a
mapping file. The file names the entity type, the sheet and, for every
record field, the column header it is read from. Headers are matched
ignoring case and surrounding spaces.

Without --import the records are printed as JSON. With --import they are
upserted into the database by natural key.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMap(cmd.Context(), mapping, sheet, doImport)
		},
	}

	cmd.Flags().StringVarP(&mapping, "mapping", "m", "", "mapping file (YAML)")
	cmd.Flags().StringVarP(&sheet, "sheet", "s", "",
		"sheet to read, overrides the sheet of the mapping file")
	cmd.Flags().BoolVarP(&doImport, "import", "i", false,
		"import the records into the database")
	_ = cmd.MarkFlagRequired("mapping")
	return cmd
}

func getTemplateCmd() *cobra.Command {
	var kind, output string

	cmd := &cobra.Command{
		Use:   "template",
		Short: "Print a mapping file template for an entity type",
		RunE: func(_ *cobra.Command, _ []string) error {
			k, err := parseKind(kind)
			if err != nil {
				return err
			}
			return runTemplate(k, output)
		},
	}

	kindFlag(cmd, &kind)
	cmd.Flags().StringVarP(&output, "output", "o", "",
		"write the template to a file instead of STDOUT")
	return cmd
}

func runAnalyze(ctx context.Context, asJSON bool) error {
	sheet, err := openSheet(ctx, cfg.Sheets)
	if err != nil {
		printSheetError(err)
		return err
	}

	res, err := ioanalyze.New(sheet).Analyze(ctx)
	if err != nil {
		printSheetError(err)
		return err
	}

	if asJSON {
		return printJSON(res)
	}

	gn.Info("Spreadsheet <em>%s</em>", res.Title)
	for _, v := range res.Sheets {
		if v.IsEmpty {
			gn.Info("  %s: empty", v.Name)
			continue
		}
		gn.Info("  <em>%s</em>: %s data rows", v.Name,
			humanize.Comma(int64(v.DataRowCount)))
		fmt.Printf("    headers: %s\n", strings.Join(v.Headers, " | "))
		for _, row := range v.SampleData {
			fmt.Printf("    %s\n", strings.Join(row, " | "))
		}
	}
	return nil
}

func runMap(ctx context.Context, path, sheetName string, doImport bool) error {
	mf, err := ioanalyze.ReadMappingFile(path)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	if sheetName != "" {
		mf.Sheet = sheetName
	}
	k := festival.Kind(mf.Type)

	sheet, err := openSheet(ctx, cfg.Sheets)
	if err != nil {
		printSheetError(err)
		return err
	}

	mapped, err := ioanalyze.New(sheet).MapSheet(ctx, mf.Sheet, mf.Mapping)
	if err != nil {
		printSheetError(err)
		return err
	}

	if !doImport {
		return printJSON(mapped.Data)
	}

	op, err := connect(ctx)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	defer op.Close()

	s := iosync.New(iostore.New(op.Pool()), sheet)
	res, err := s.ImportRecords(ctx, k, mapped.Data)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	printImport(res)
	return nil
}

func runTemplate(k festival.Kind, output string) error {
	data, err := ioanalyze.Template(k)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if output == "" {
		fmt.Print(string(data))
		return nil
	}

	if err = iofs.WriteFile(output, data); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	gn.Info("Mapping template for %s saved to <em>%s</em>", k, output)
	return nil
}

func printImport(res *lifecycle.SyncResult) {
	gn.Info("Imported <em>%s</em> of %s %s records",
		humanize.Comma(int64(res.Imported())),
		humanize.Comma(int64(res.Total)), res.Kind)
	for _, v := range res.Quarantined {
		gn.Warn("  record %d: %s", v.Row, v.Reason)
	}
}

// printSheetError prints a spreadsheet failure followed by the steps
// that usually fix it.
func printSheetError(err error) {
	gn.PrintErrorMessage(err)
	for _, v := range ioanalyze.Suggestions(err, cfg.Sheets.ClientEmail) {
		gn.Info("  - %s", v)
	}
}

func printJSON(v any) error {
	enc := gnfmt.GNjson{Pretty: true}
	data, err := enc.Encode(v)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(append(data, '\n'))
	return err
}
