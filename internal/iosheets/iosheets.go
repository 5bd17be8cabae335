// Package iosheets implements sheets.Spreadsheet on top of the Google
// Sheets v4 API. The client is bound to one spreadsheet and authenticated
// once, at construction, with a service account.
package iosheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/artsfest/festsync/pkg/config"
	"github.com/artsfest/festsync/pkg/sheets"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

type googleSheet struct {
	srv   *gsheets.Service
	id    string
	email string
}

// New creates a Google Sheets client from configuration. Missing
// settings are reported as a not-configured error before any network
// call is made.
func New(ctx context.Context, cfg config.SheetsConfig) (sheets.Spreadsheet, error) {
	if ok, missing := cfg.Status(); !ok {
		return nil, NotConfiguredError(missing)
	}

	key := restoreNewlines(cfg.PrivateKey)
	if !strings.Contains(key, "PRIVATE KEY") {
		return nil, CredentialsError(cfg.ClientEmail,
			errors.New("private key is not in PEM format"))
	}

	conf := &jwt.Config{
		Email:        cfg.ClientEmail,
		PrivateKey:   []byte(key),
		PrivateKeyID: cfg.PrivateKeyID,
		Scopes:       []string{gsheets.SpreadsheetsScope},
		TokenURL:     google.JWTTokenURL,
	}

	srv, err := gsheets.NewService(ctx,
		option.WithTokenSource(conf.TokenSource(ctx)),
	)
	if err != nil {
		return nil, CredentialsError(cfg.ClientEmail, err)
	}

	slog.Info("Google Sheets client created",
		"spreadsheet", cfg.SpreadsheetID,
		"client_email", cfg.ClientEmail,
	)

	res := googleSheet{
		srv:   srv,
		id:    cfg.SpreadsheetID,
		email: cfg.ClientEmail,
	}
	return &res, nil
}

// restoreNewlines turns literal "\n" sequences, common in keys copied into
// environment variables, back into line breaks.
func restoreNewlines(key string) string {
	return strings.ReplaceAll(key, `\n`, "\n")
}

func (g *googleSheet) Describe(ctx context.Context) (*sheets.Info, error) {
	resp, err := g.srv.Spreadsheets.
		Get(g.id).
		Fields("properties(title),sheets(properties(title,gridProperties))").
		Context(ctx).
		Do()
	if err != nil {
		return nil, g.translate("describe", "", err)
	}

	res := &sheets.Info{}
	if resp.Properties != nil {
		res.Title = resp.Properties.Title
	}
	for _, sh := range resp.Sheets {
		if sh.Properties == nil {
			continue
		}
		info := sheets.SheetInfo{Title: sh.Properties.Title}
		if gp := sh.Properties.GridProperties; gp != nil {
			info.RowCount = int(gp.RowCount)
			info.ColumnCount = int(gp.ColumnCount)
		}
		res.Sheets = append(res.Sheets, info)
	}
	return res, nil
}

func (g *googleSheet) ListSheets(ctx context.Context) ([]string, error) {
	resp, err := g.srv.Spreadsheets.
		Get(g.id).
		Fields("sheets(properties(title))").
		Context(ctx).
		Do()
	if err != nil {
		return nil, g.translate("listSheets", "", err)
	}

	res := make([]string, 0, len(resp.Sheets))
	for _, sh := range resp.Sheets {
		if sh.Properties != nil {
			res = append(res, sh.Properties.Title)
		}
	}
	return res, nil
}

func (g *googleSheet) AddSheet(ctx context.Context, name string) error {
	req := &gsheets.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheets.Request{
			{
				AddSheet: &gsheets.AddSheetRequest{
					Properties: &gsheets.SheetProperties{Title: name},
				},
			},
		},
	}
	_, err := g.srv.Spreadsheets.BatchUpdate(g.id, req).Context(ctx).Do()
	if err != nil {
		return g.translate("addSheet", name, err)
	}
	return nil
}

func (g *googleSheet) GetValues(
	ctx context.Context,
	sheet, a1 string,
) ([][]string, error) {
	resp, err := g.srv.Spreadsheets.Values.
		Get(g.id, sheets.Range(sheet, a1)).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, g.translate("getValues", sheet, err)
	}

	res := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		cells := make([]string, len(row))
		for j, v := range row {
			if v != nil {
				cells[j] = fmt.Sprint(v)
			}
		}
		res[i] = cells
	}
	return res, nil
}

func (g *googleSheet) UpdateValues(
	ctx context.Context,
	sheet, a1 string,
	rows [][]any,
) error {
	vr := &gsheets.ValueRange{Values: rows}
	_, err := g.srv.Spreadsheets.Values.
		Update(g.id, sheets.Range(sheet, a1), vr).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return g.translate("updateValues", sheet, err)
	}
	return nil
}

func (g *googleSheet) ClearValues(ctx context.Context, sheet, a1 string) error {
	_, err := g.srv.Spreadsheets.Values.
		Clear(g.id, sheets.Range(sheet, a1), &gsheets.ClearValuesRequest{}).
		Context(ctx).
		Do()
	if err != nil {
		return g.translate("clearValues", sheet, err)
	}
	return nil
}

func (g *googleSheet) AppendValues(
	ctx context.Context,
	sheet string,
	rows [][]any,
) error {
	vr := &gsheets.ValueRange{Values: rows}
	_, err := g.srv.Spreadsheets.Values.
		Append(g.id, sheets.Range(sheet, ""), vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return g.translate("appendValues", sheet, err)
	}
	return nil
}

func (g *googleSheet) translate(op, sheet string, err error) error {
	target := g.id
	if sheet != "" {
		target = fmt.Sprintf("%s (sheet %q)", g.id, sheet)
	}
	return translateError(op, target, g.email, err)
}

// translateError maps Google API failures to the error taxonomy. The raw
// provider message stays in the wrapped error only.
func translateError(op, target, email string, err error) error {
	var gErr *googleapi.Error
	if !errors.As(err, &gErr) {
		return RequestError(op, target, err)
	}

	switch gErr.Code {
	case http.StatusNotFound:
		return NotFoundError(target, email, err)
	case http.StatusForbidden:
		return PermissionError(target, email, err)
	case http.StatusTooManyRequests:
		return QuotaError(op, err)
	default:
		return RequestError(op, target, err)
	}
}
