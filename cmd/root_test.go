package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/artsfest/festsync/internal/iofs"
	"github.com/artsfest/festsync/pkg/config"
	"github.com/artsfest/festsync/pkg/errcode"
	"github.com/gnames/gn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGetRootCmd_Exists verifies getRootCmd returns
// a valid command with all subcommands.
func TestGetRootCmd_Exists(t *testing.T) {
	cmd := getRootCmd()
	require.NotNil(t, cmd, "Root command should exist")
	assert.Equal(t, "festsync", cmd.Use)

	var names []string
	for _, v := range cmd.Commands() {
		names = append(names, v.Name())
	}
	for _, v := range []string{
		"migrate", "sync", "import", "analyze", "status", "serve",
	} {
		assert.Contains(t, names, v)
	}
}

// TestGetRootCmd_ShortVersionFlag verifies -V prints version and build
// without loading configuration.
func TestGetRootCmd_ShortVersionFlag(t *testing.T) {
	cmd := getRootCmd()
	cmd.Version = "version: v1.2.3\nbuild:   abc123"

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"-V"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "v1.2.3")
	assert.Contains(t, buf.String(), "abc123")
}

// TestGetRootCmd_HelpText verifies help text content.
func TestGetRootCmd_HelpText(t *testing.T) {
	cmd := getRootCmd()

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--help"})

	require.NoError(t, cmd.Execute())
	help := buf.String()
	assert.Contains(t, help, "Google Sheets")
	assert.Contains(t, help, "GOOGLE_PRIVATE_KEY")
	assert.Contains(t, help, "DATABASE_URL")
}

func TestEnvName(t *testing.T) {
	assert.Equal(t, "FESTSYNC_DATABASE_HOST", envName("database.host"))
	assert.Equal(t, "FESTSYNC_SHEETS_SPREADSHEET_ID",
		envName("sheets.spreadsheet_id"))
}

func writeConfig(t *testing.T, home, content string) {
	t.Helper()
	require.NoError(t, iofs.EnsureDirs(home))
	require.NoError(t,
		os.WriteFile(config.ConfigFilePath(home), []byte(content), 0644))
}

// TestInitConfig_Precedence checks that env vars override the config file
// and that Google variables are read without the prefix.
func TestInitConfig_Precedence(t *testing.T) {
	home := t.TempDir()
	writeConfig(t, home, iofs.ConfigYAML)

	t.Setenv("FESTSYNC_DATABASE_HOST", "db.festival.org")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/fest")
	t.Setenv("GOOGLE_SPREADSHEET_ID", "sheet-id")
	t.Setenv("GOOGLE_CLIENT_EMAIL", "bot@festival.iam.gserviceaccount.com")
	t.Setenv("FESTSYNC_LOG_LEVEL", "debug")

	res, err := initConfig(home)
	require.NoError(t, err)
	assert.Equal(t, "db.festival.org", res.Database.Host)
	assert.Equal(t, "postgres://u:p@db:5432/fest", res.Database.URL)
	assert.Equal(t, 5432, res.Database.Port, "from config.yaml")
	assert.Equal(t, "sheet-id", res.Sheets.SpreadsheetID)
	assert.Equal(t, "bot@festival.iam.gserviceaccount.com", res.Sheets.ClientEmail)
	assert.Equal(t, "debug", res.Log.Level)
	assert.Equal(t, "google", res.Sheets.Backend)
}

// TestInitConfig_PrefixWins checks the order of bound variables.
func TestInitConfig_PrefixWins(t *testing.T) {
	home := t.TempDir()
	writeConfig(t, home, "sheets:\n  backend: xlsx\n")

	t.Setenv("FESTSYNC_SHEETS_SPREADSHEET_ID", "prefixed")
	t.Setenv("GOOGLE_SPREADSHEET_ID", "plain")

	res, err := initConfig(home)
	require.NoError(t, err)
	assert.Equal(t, "prefixed", res.Sheets.SpreadsheetID)
	assert.Equal(t, "xlsx", res.Sheets.Backend)
}

func TestInitConfig_BadFile(t *testing.T) {
	home := t.TempDir()
	writeConfig(t, home, "database: [")

	_, err := initConfig(home)
	var gnErr *gn.Error
	require.ErrorAs(t, err, &gnErr)
	assert.Equal(t, errcode.ReadFileError, gnErr.Code)
	assert.Equal(t, []any{config.ConfigFilePath(home)}, gnErr.Vars)

	_, err = initConfig(t.TempDir())
	require.ErrorAs(t, err, &gnErr)
	assert.Equal(t, errcode.ReadFileError, gnErr.Code, "missing config file")
}

// TestLoadEnvFiles_Unreadable fails on an env path that exists but cannot
// be read as a file.
func TestLoadEnvFiles_Unreadable(t *testing.T) {
	dir := t.TempDir()
	err := loadEnvFiles(filepath.Join(dir, ".env.local"), dir)

	var gnErr *gn.Error
	require.ErrorAs(t, err, &gnErr)
	assert.Equal(t, errcode.ReadFileError, gnErr.Code)
	assert.Equal(t, []any{dir}, gnErr.Vars)
}

// TestLoadEnvFiles checks that .env.local wins over .env and that the
// real environment wins over both.
func TestLoadEnvFiles(t *testing.T) {
	dir := t.TempDir()
	local := filepath.Join(dir, ".env.local")
	env := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(local,
		[]byte("FESTSYNC_TEST_A=local\n"), 0644))
	require.NoError(t, os.WriteFile(env,
		[]byte("FESTSYNC_TEST_A=env\nFESTSYNC_TEST_B=env\nFESTSYNC_TEST_C=env\n"),
		0644))

	t.Setenv("FESTSYNC_TEST_C", "real")
	// registered for cleanup, then removed so the files can set them
	t.Setenv("FESTSYNC_TEST_A", "")
	t.Setenv("FESTSYNC_TEST_B", "")
	require.NoError(t, os.Unsetenv("FESTSYNC_TEST_A"))
	require.NoError(t, os.Unsetenv("FESTSYNC_TEST_B"))

	missing := filepath.Join(dir, "none.env")
	require.NoError(t, loadEnvFiles(local, env, missing))

	assert.Equal(t, "local", os.Getenv("FESTSYNC_TEST_A"))
	assert.Equal(t, "env", os.Getenv("FESTSYNC_TEST_B"))
	assert.Equal(t, "real", os.Getenv("FESTSYNC_TEST_C"))
}
