package iohttp

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/artsfest/festsync/pkg/festival"
	"github.com/artsfest/festsync/pkg/lifecycle"
)

const (
	actionToSheets   = "sync-to-sheets"
	actionFromSheets = "sync-from-sheets"
	actionImport     = "import-from-sheets"
	actionSheetData  = "import-sheet-data"
)

type syncRequest struct {
	Action string `json:"action"`
	Type   string `json:"type"`
}

type syncResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Result  any    `json:"result"`
}

type importResponse struct {
	Success     bool                   `json:"success"`
	Message     string                 `json:"message"`
	Imported    int                    `json:"imported"`
	Skipped     int                    `json:"skipped"`
	Total       int                    `json:"total"`
	Quarantined []lifecycle.Quarantine `json:"quarantined,omitempty"`
}

type analyzeResponse struct {
	Success     bool              `json:"success"`
	Spreadsheet *lifecycle.Report `json:"spreadsheet"`
}

type sheetDataRequest struct {
	Action    string            `json:"action"`
	SheetName string            `json:"sheetName"`
	Mapping   map[string]string `json:"mapping"`
}

type sheetDataResponse struct {
	Success bool             `json:"success"`
	Data    []map[string]any `json:"data"`
	Headers []string         `json:"headers"`
}

type importDataRequest struct {
	Type string           `json:"type"`
	Data []map[string]any `json:"data"`
}

type configStatusResponse struct {
	Success    bool     `json:"success"`
	Configured bool     `json:"configured"`
	Backend    string   `json:"backend"`
	Missing    []string `json:"missing"`
}

// postSync handles POST /api/sync.
func (h *Handler) postSync(w http.ResponseWriter, r *http.Request) {
	var req syncRequest
	if !decode(w, r, &req) {
		return
	}
	k, ok := parseKind(w, req.Type)
	if !ok {
		return
	}
	if req.Action != actionToSheets && req.Action != actionFromSheets {
		writeBadRequest(w, "unknown action %q", req.Action)
		return
	}
	if h.sheetErr != nil {
		h.writeError(w, h.sheetErr)
		return
	}

	ctx := r.Context()
	if req.Action == actionToSheets {
		res, err := h.syncer.SyncToSheets(ctx, k, nil)
		if err != nil {
			h.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, syncResponse{
			Success: true,
			Message: fmt.Sprintf("Synced %d %s to sheets", res.Count, k),
			Result:  res,
		})
		return
	}

	res, err := h.syncer.SyncFromSheets(ctx, k)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, syncResponse{
		Success: true,
		Message: fmt.Sprintf("Synced %s from sheets: %d inserted, %d updated",
			k, res.Inserted, res.Updated),
		Result: res,
	})
}

// postSimpleSync handles POST /api/simple-sync, the quota-safe import.
func (h *Handler) postSimpleSync(w http.ResponseWriter, r *http.Request) {
	var req syncRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Action != actionImport {
		writeBadRequest(w, "unknown action %q", req.Action)
		return
	}
	k, ok := parseKind(w, req.Type)
	if !ok {
		return
	}
	if h.sheetErr != nil {
		h.writeError(w, h.sheetErr)
		return
	}

	res, err := h.syncer.ImportFromSheets(r.Context(), k)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, importSummary(k, res))
}

// getAnalyze handles GET /api/analyze-sheets.
func (h *Handler) getAnalyze(w http.ResponseWriter, r *http.Request) {
	if h.sheetErr != nil {
		h.writeError(w, h.sheetErr)
		return
	}
	res, err := h.analyzer.Analyze(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, analyzeResponse{Success: true, Spreadsheet: res})
}

// postAnalyze handles POST /api/analyze-sheets.
func (h *Handler) postAnalyze(w http.ResponseWriter, r *http.Request) {
	var req sheetDataRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Action != actionSheetData {
		writeBadRequest(w, "unknown action %q", req.Action)
		return
	}
	if req.SheetName == "" || len(req.Mapping) == 0 {
		writeBadRequest(w, "sheetName and mapping are required")
		return
	}
	if h.sheetErr != nil {
		h.writeError(w, h.sheetErr)
		return
	}

	res, err := h.analyzer.MapSheet(r.Context(), req.SheetName, req.Mapping)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sheetDataResponse{
		Success: true,
		Data:    res.Data,
		Headers: res.Headers,
	})
}

// postImportData handles POST /api/import-data: documents produced by the
// analyzer are imported by natural key.
func (h *Handler) postImportData(w http.ResponseWriter, r *http.Request) {
	var req importDataRequest
	if !decode(w, r, &req) {
		return
	}
	k, ok := parseKind(w, req.Type)
	if !ok {
		return
	}

	res, err := h.syncer.ImportRecords(r.Context(), k, req.Data)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, importSummary(k, res))
}

// getConfigStatus handles GET /api/config-status. It names missing
// settings but never returns their values.
func (h *Handler) getConfigStatus(w http.ResponseWriter, _ *http.Request) {
	configured, missing := h.sheets.Status()
	if missing == nil {
		missing = []string{}
	}
	writeJSON(w, http.StatusOK, configStatusResponse{
		Success:    true,
		Configured: configured,
		Backend:    h.sheets.Backend,
		Missing:    missing,
	})
}

func importSummary(k festival.Kind, res *lifecycle.SyncResult) importResponse {
	return importResponse{
		Success: true,
		Message: fmt.Sprintf("Imported %d of %d %s rows, %d skipped",
			res.Imported(), res.Total, k, res.Skipped),
		Imported:    res.Imported(),
		Skipped:     res.Skipped,
		Total:       res.Total,
		Quarantined: res.Quarantined,
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeBadRequest(w, "invalid JSON body: %v", err)
		return false
	}
	return true
}

func parseKind(w http.ResponseWriter, s string) (festival.Kind, bool) {
	k, err := festival.ParseKind(s)
	if err != nil {
		writeBadRequest(w, "%v", err)
		return "", false
	}
	return k, true
}
