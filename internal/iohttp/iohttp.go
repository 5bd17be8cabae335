// Package iohttp exposes the sync engine as a JSON API. Every response
// carries a "success" flag; failures carry "error" and, when a remedy is
// known, "suggestions". Requests are not serialized: two concurrent syncs
// of the same type may interleave.
package iohttp

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/artsfest/festsync/internal/ioanalyze"
	"github.com/artsfest/festsync/pkg/config"
	"github.com/artsfest/festsync/pkg/errcode"
	"github.com/artsfest/festsync/pkg/lifecycle"
	"github.com/gnames/gn"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Handler bundles the dependencies of the API.
type Handler struct {
	syncer   lifecycle.Syncer
	analyzer lifecycle.Analyzer
	sheets   config.SheetsConfig

	// sheetErr is set when the spreadsheet client could not be created.
	// Routes that need the spreadsheet answer with it.
	sheetErr error
}

// New creates a Handler. analyzer may be nil when sheetErr is set; syncer
// is always required because imports of mapped documents do not need the
// spreadsheet.
func New(
	syncer lifecycle.Syncer,
	analyzer lifecycle.Analyzer,
	cfg config.SheetsConfig,
	sheetErr error,
) *Handler {
	return &Handler{
		syncer:   syncer,
		analyzer: analyzer,
		sheets:   cfg,
		sheetErr: sheetErr,
	}
}

// Router wires the handler into a chi router under /api.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Route("/api", func(r chi.Router) {
		r.Post("/sync", h.postSync)
		r.Post("/simple-sync", h.postSimpleSync)
		r.Get("/analyze-sheets", h.getAnalyze)
		r.Post("/analyze-sheets", h.postAnalyze)
		r.Post("/import-data", h.postImportData)
		r.Get("/config-status", h.getConfigStatus)
	})
	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		slog.Info("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// errorResponse is the body of every failed call.
type errorResponse struct {
	Success     bool     `json:"success"`
	Error       string   `json:"error"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// writeJSON writes a value as JSON with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeBadRequest(w http.ResponseWriter, format string, args ...any) {
	writeJSON(w, http.StatusBadRequest, errorResponse{
		Error: fmt.Sprintf(format, args...),
	})
}

// writeError reports a failed operation. Only the remediation headline of
// a *gn.Error reaches the client, never the wrapped provider error.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	slog.Error("Request failed", "error", err)
	writeJSON(w, statusOf(err), errorResponse{
		Error:       message(err),
		Suggestions: ioanalyze.Suggestions(err, h.sheets.ClientEmail),
	})
}

func statusOf(err error) int {
	var gnErr *gn.Error
	if !errors.As(err, &gnErr) {
		return http.StatusInternalServerError
	}
	switch gnErr.Code {
	case errcode.SheetsNotConfiguredError, errcode.SheetsCredentialsError:
		return http.StatusServiceUnavailable
	case errcode.SheetNotFoundError:
		return http.StatusNotFound
	case errcode.SheetPermissionError:
		return http.StatusForbidden
	case errcode.SheetQuotaError:
		return http.StatusTooManyRequests
	case errcode.SyncHeaderError, errcode.AnalyzeMappingError:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

var stripTags = strings.NewReplacer(
	"<em>", "", "</em>", "",
	"<warn>", "", "</warn>", "",
	"<title>", "", "</title>", "",
)

func message(err error) string {
	var gnErr *gn.Error
	if !errors.As(err, &gnErr) {
		return "internal error"
	}
	msg := fmt.Sprintf(gnErr.Msg, gnErr.Vars...)
	msg, _, _ = strings.Cut(msg, "\n")
	return stripTags.Replace(msg)
}
