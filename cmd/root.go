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
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/artsfest/festsync/internal/iofs"
	"github.com/artsfest/festsync/internal/iologger"
	app "github.com/artsfest/festsync/pkg"
	"github.com/artsfest/festsync/pkg/config"
	"github.com/gnames/gn"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	homeDir string
	cfg     *config.Config
)

// envFiles are loaded from the working directory, the first one wins.
// Variables already present in the environment are never overridden.
var envFiles = []string{".env.local", ".env"}

// getRootCmd returns the root command with all subcommands attached.
func getRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Version: fmt.Sprintf("version: %s\nbuild:   %s", app.Version, app.Build),
		Use:     "festsync",
		Short:   "Synchronize festival data between Google Sheets and PostgreSQL",
		Long: `festsync keeps the data of an arts festival (teams, candidates,
programmes, results and general settings) in sync between a Google
Sheets spreadsheet, edited by organizers, and the PostgreSQL database
behind the festival app.

Configuration is read from ~/.config/festsync/config.yaml, from FESTSYNC_*
environment variables, and from .env.local or .env in the working
directory. Google service account settings (GOOGLE_SPREADSHEET_ID,
GOOGLE_CLIENT_EMAIL, GOOGLE_PRIVATE_KEY) and DATABASE_URL are read
without the prefix.`,
		PersistentPreRunE: bootstrap,
		SilenceErrors:     true,
		SilenceUsage:      true,
	}

	rootCmd.SetVersionTemplate("{{.Version}}\n")
	rootCmd.Flags().BoolP("version", "V", false, "version for festsync")

	rootCmd.AddCommand(
		getMigrateCmd(),
		getSyncCmd(),
		getImportCmd(),
		getAnalyzeCmd(),
		getStatusCmd(),
		getServeCmd(),
	)
	return rootCmd
}

func bootstrap(_ *cobra.Command, _ []string) error {
	var err error
	homeDir, err = os.UserHomeDir()
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureDirs(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	// logs go to the file until the user's settings are known
	defaultLog := config.LogConfig{
		Format:      "json",
		Level:       "info",
		Destination: "file",
	}
	if err = iologger.Init(config.LogDir(homeDir), defaultLog); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureConfigFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = loadEnvFiles(envFiles...); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	var cfgViper *config.Config
	if cfgViper, err = initConfig(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	cfg = config.New()
	cfg.Update(cfgViper.ToOptions())
	cfg.Update([]config.Option{config.OptHomeDir(homeDir)})

	if err = iologger.Init(config.LogDir(cfg.HomeDir), cfg.Log); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	slog.Info("Configuration loaded",
		"config_file", config.ConfigFilePath(homeDir),
		"backend", cfg.Sheets.Backend,
	)
	return nil
}

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := getRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func loadEnvFiles(paths ...string) error {
	for _, v := range paths {
		err := godotenv.Load(v)
		if err == nil {
			slog.Info("Environment file loaded", "path", v)
			continue
		}
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		return iofs.ReadFileError(v, err)
	}
	return nil
}

func initConfig(home string) (*config.Config, error) {
	var err error
	cfgPath := config.ConfigFilePath(home)
	v := viper.New()
	v.SetConfigFile(cfgPath)

	initEnvVars(v)

	if err = v.ReadInConfig(); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	var res config.Config
	if err = v.Unmarshal(&res); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	return &res, nil
}

// initEnvVars binds the environment variables festsync reads. They are
// listed one by one so it is clear which variables are allowed; they match
// the fields of config.ToOptions().
func initEnvVars(v *viper.Viper) {
	v.SetEnvPrefix(config.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	bind := func(key string, aliases ...string) {
		names := append([]string{envName(key)}, aliases...)
		_ = v.BindEnv(append([]string{key}, names...)...)
	}

	// Database configuration
	bind("database.url", "DATABASE_URL")
	bind("database.host")
	bind("database.port")
	bind("database.user")
	bind("database.password")
	bind("database.database")
	bind("database.ssl_mode")

	// Spreadsheet configuration
	bind("sheets.backend")
	bind("sheets.spreadsheet_id", "GOOGLE_SPREADSHEET_ID")
	bind("sheets.client_email", "GOOGLE_CLIENT_EMAIL")
	bind("sheets.private_key", "GOOGLE_PRIVATE_KEY")
	bind("sheets.project_id", "GOOGLE_PROJECT_ID")
	bind("sheets.client_id", "GOOGLE_CLIENT_ID")
	bind("sheets.private_key_id", "GOOGLE_PRIVATE_KEY_ID")
	bind("sheets.workbook_path")

	// Server configuration
	bind("server.addr")

	// Log configuration
	bind("log.level")
	bind("log.format")
	bind("log.destination")
}

// envName converts a config key into its prefixed variable name, e.g.
// "database.host" into "FESTSYNC_DATABASE_HOST".
func envName(key string) string {
	key = strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
	return config.EnvPrefix + "_" + key
}
