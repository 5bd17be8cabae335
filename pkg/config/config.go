// Package config provides configuration management for festsync.
//
// This package has no I/O dependencies (no file operations, no network calls).
// Validation functions may write user-facing warnings via gn.Warn().
//
// # Configuration Sources
//
// Precedence (highest to lowest): CLI flags > env vars > config.yaml > defaults
//
// # Design Principles
//
// - Default config (from New()) is always valid - no validation needed
// - All mutations go through Option functions - the only way to modify Config
// - Invalid options are rejected with gn.Warn() - config remains in valid state
// - ToOptions() converts persistent fields (those in config.yaml)
//
// # Persistent vs Runtime Fields
//
// Persistent fields (in ToOptions, config.yaml, and env vars):
//   - Database: url, host, port, user, password, database, ssl_mode
//   - Sheets: backend, spreadsheet_id, client_email, private_key,
//     project_id, client_id, private_key_id, workbook_path
//   - Server: addr
//   - Log: level, format, destination
//
// Runtime-only fields:
//   - HomeDir (set once at startup)
//
// # Environment Variables
//
// Use FESTSYNC_ prefix with underscores for nesting:
//
//	FESTSYNC_DATABASE_HOST=localhost
//	FESTSYNC_SHEETS_BACKEND=xlsx
//	FESTSYNC_LOG_LEVEL=debug
//
// Google service account variables are also read without the prefix
// (GOOGLE_SPREADSHEET_ID, GOOGLE_CLIENT_EMAIL, GOOGLE_PRIVATE_KEY,
// GOOGLE_PROJECT_ID, GOOGLE_CLIENT_ID, GOOGLE_PRIVATE_KEY_ID), as well as
// DATABASE_URL.
package config

// Config represents the complete festsync configuration.
type Config struct {
	// Database contains PostgreSQL connection settings.
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`

	// Sheets contains the spreadsheet backend settings.
	Sheets SheetsConfig `mapstructure:"sheets" yaml:"sheets"`

	// Server contains HTTP API settings.
	Server ServerConfig `mapstructure:"server" yaml:"server"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// HomeDir determines where config and logs directories reside.
	// It must be set by CLI during init, there is no default value for it.
	HomeDir string
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	// URL is a full connection string. When set, it takes precedence over
	// the individual fields below.
	URL string `mapstructure:"url" yaml:"url"`

	// Host is the PostgreSQL server hostname or IP address.
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the PostgreSQL server port number.
	Port int `mapstructure:"port" yaml:"port"`

	// User is the PostgreSQL database username.
	User string `mapstructure:"user" yaml:"user"`

	// Password is the PostgreSQL database password.
	Password string `mapstructure:"password" yaml:"password"`

	// Database is the PostgreSQL database name to connect to.
	Database string `mapstructure:"database" yaml:"database"`

	// SSLMode specifies the SSL connection mode.
	// Valid values: "disable", "require", "verify-ca", "verify-full"
	SSLMode string `mapstructure:"ssl_mode" yaml:"ssl_mode"`
}

// SheetsConfig describes the spreadsheet the festival data lives in.
type SheetsConfig struct {
	// Backend is "google" for Google Sheets or "xlsx" for a local workbook.
	Backend string `mapstructure:"backend" yaml:"backend"`

	// SpreadsheetID is the id part of the Google Sheets URL.
	SpreadsheetID string `mapstructure:"spreadsheet_id" yaml:"spreadsheet_id"`

	// ClientEmail is the service account email. The spreadsheet must be
	// shared with it.
	ClientEmail string `mapstructure:"client_email" yaml:"client_email"`

	// PrivateKey is the PEM private key of the service account. Escaped
	// "\n" sequences are accepted.
	PrivateKey string `mapstructure:"private_key" yaml:"private_key"`

	ProjectID    string `mapstructure:"project_id"     yaml:"project_id"`
	ClientID     string `mapstructure:"client_id"      yaml:"client_id"`
	PrivateKeyID string `mapstructure:"private_key_id" yaml:"private_key_id"`

	// WorkbookPath is the .xlsx file used by the "xlsx" backend.
	WorkbookPath string `mapstructure:"workbook_path" yaml:"workbook_path"`
}

// ServerConfig contains HTTP API settings.
type ServerConfig struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string `mapstructure:"addr" yaml:"addr"`
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json', 'text' or 'tint' (user-facing and colored).
	Format string `mapstructure:"format"      yaml:"format"`
	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level"       yaml:"level"`
	// Destination can be a log file (to default place), STDERR or STDOUT
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// New creates a Config with sensible default values.
// The returned config is always valid and ready to use.
// Default values can be overridden using Option functions via Update().
func New() *Config {
	res := &Config{
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "postgres",
			Password: "postgres",
			Database: "festival",
			SSLMode:  "disable",
		},
		Sheets: SheetsConfig{
			Backend: "google",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Log: LogConfig{
			Format:      "json",
			Level:       "info",
			Destination: "file",
		},
	}

	return res
}
