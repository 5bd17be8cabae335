package config

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/gnames/gn"
)

// Update applies a slice of Option functions to the Config.
// This is the only way to modify a Config after creation.
// Invalid options are rejected with warnings - config remains in valid state.
func (c *Config) Update(opts []Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// ToOptions converts the Config to a slice of Option functions.
// Only includes persistent fields appropriate for config.yaml.
// Excludes runtime-only fields (HomeDir).
func (c *Config) ToOptions() []Option {
	var res []Option
	add := func(s string, fn func(string) Option) {
		if s != "" {
			res = append(res, fn(s))
		}
	}

	add(c.Database.URL, OptDatabaseURL)
	add(c.Database.Host, OptDatabaseHost)
	if c.Database.Port > 0 {
		res = append(res, OptDatabasePort(c.Database.Port))
	}
	add(c.Database.User, OptDatabaseUser)
	add(c.Database.Password, OptDatabasePassword)
	add(c.Database.Database, OptDatabaseDatabase)
	add(c.Database.SSLMode, OptDatabaseSSLMode)

	add(c.Sheets.Backend, OptSheetsBackend)
	add(c.Sheets.SpreadsheetID, OptSheetsSpreadsheetID)
	add(c.Sheets.ClientEmail, OptSheetsClientEmail)
	add(c.Sheets.PrivateKey, OptSheetsPrivateKey)
	add(c.Sheets.ProjectID, OptSheetsProjectID)
	add(c.Sheets.ClientID, OptSheetsClientID)
	add(c.Sheets.PrivateKeyID, OptSheetsPrivateKeyID)
	add(c.Sheets.WorkbookPath, OptSheetsWorkbookPath)

	add(c.Server.Addr, OptServerAddr)

	add(c.Log.Format, OptLogFormat)
	add(c.Log.Level, OptLogLevel)
	add(c.Log.Destination, OptLogDestination)
	return res
}

// Status reports whether the spreadsheet backend has everything it needs.
// Missing contains configuration keys, never their values.
func (s SheetsConfig) Status() (configured bool, missing []string) {
	if s.Backend == "xlsx" {
		if s.WorkbookPath == "" {
			missing = append(missing, "sheets.workbook_path")
		}
		return len(missing) == 0, missing
	}

	required := []struct{ key, val string }{
		{"GOOGLE_SPREADSHEET_ID", s.SpreadsheetID},
		{"GOOGLE_CLIENT_EMAIL", s.ClientEmail},
		{"GOOGLE_PRIVATE_KEY", s.PrivateKey},
	}
	for _, v := range required {
		if v.val == "" {
			missing = append(missing, v.key)
		}
	}
	return len(missing) == 0, missing
}

func isValidString(name, s string) bool {
	res := s != ""
	if !res {
		gn.Warn("<em>%s</em> cannot be empty, ignoring", name)
	}
	return res
}

func isValidInt(name string, i int) bool {
	res := i > 0
	if !res {
		gn.Warn("<em>%s</em> has to be positive number, ignoring %d", name, i)
	}
	return res
}

func isValidEnum(name, val string) bool {
	s := struct{}{}
	data := map[string]map[string]struct{}{
		"Database.SSLMode": {"disable": s, "require": s,
			"verify-ca": s, "verify-full": s},
		"Sheets.Backend":  {"google": s, "xlsx": s},
		"Log.Level":       {"debug": s, "info": s, "warn": s, "error": s},
		"Log.Format":      {"json": s, "text": s, "tint": s},
		"Log.Destination": {"file": s, "stderr": s, "stdout": s},
	}
	if _, ok := data[name][val]; ok {
		return true
	}

	vals := slices.Sorted(maps.Keys(data[name]))
	var lines []string
	for _, v := range vals {
		lines = append(lines, fmt.Sprintf("  * %s", v))
	}
	gn.Warn(
		"<em>%s</em> does not support '%s' as a value. "+
			"Valid values are: \n%s\nIgnoring...",
		name, val, strings.Join(lines, "\n"),
	)
	return false
}
