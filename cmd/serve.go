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
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/artsfest/festsync/internal/ioanalyze"
	"github.com/artsfest/festsync/internal/iohttp"
	"github.com/artsfest/festsync/internal/iostore"
	"github.com/artsfest/festsync/internal/iosync"
	"github.com/artsfest/festsync/pkg/config"
	"github.com/artsfest/festsync/pkg/lifecycle"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// getServeCmd returns the serve command.
func getServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve exposes the sync operations as a JSON API:

  POST /api/sync            {action: sync-to-sheets|sync-from-sheets, type}
  POST /api/simple-sync     {action: import-from-sheets, type}
  GET  /api/analyze-sheets
  POST /api/analyze-sheets  {action: import-sheet-data, sheetName, mapping}
  POST /api/import-data     {type, data}
  GET  /api/config-status

The server starts even when the spreadsheet is not configured; routes
that need it answer with the configuration error.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr != "" {
				cfg.Update([]config.Option{config.OptServerAddr(addr)})
			}
			return runServe(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address, e.g. :8080")
	return cmd
}

func runServe(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	op, err := connect(ctx)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	defer op.Close()

	var analyzer lifecycle.Analyzer
	sheet, sheetErr := openSheet(ctx, cfg.Sheets)
	if sheetErr != nil {
		slog.Warn("Spreadsheet is not available", "error", sheetErr)
		printSheetError(sheetErr)
	} else {
		analyzer = ioanalyze.New(sheet)
	}

	syncer := iosync.New(iostore.New(op.Pool()), sheet)
	h := iohttp.New(syncer, analyzer, cfg.Sheets, sheetErr)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           h.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		gn.Info("Listening on <em>%s</em>", cfg.Server.Addr)
		err := srv.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-gCtx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})

	if err = g.Wait(); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	gn.Info("Server stopped")
	return nil
}
