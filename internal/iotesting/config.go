// Package iotesting provides shared test utilities: configuration for
// integration tests and in-memory fakes of the database store and of a
// spreadsheet.
package iotesting

import (
	"os"
	"strings"

	"github.com/artsfest/festsync/pkg/config"
	"github.com/spf13/viper"
)

const (
	// TestDatabaseName is the database name used for all integration tests.
	// This ensures tests never accidentally run against production databases.
	TestDatabaseName = "festsync_test"
)

// GetTestConfig returns a configuration suitable for integration tests.
// Database settings are read from FESTSYNC_DATABASE_* environment
// variables on top of defaults, and the database name is forced to
// TestDatabaseName. TEST_DATABASE_URL, when set, is used verbatim.
func GetTestConfig() *config.Config {
	v := viper.New()
	v.SetEnvPrefix(config.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := config.New()
	var opts []config.Option
	if s := v.GetString("database.host"); s != "" {
		opts = append(opts, config.OptDatabaseHost(s))
	}
	if i := v.GetInt("database.port"); i > 0 {
		opts = append(opts, config.OptDatabasePort(i))
	}
	if s := v.GetString("database.user"); s != "" {
		opts = append(opts, config.OptDatabaseUser(s))
	}
	if s := v.GetString("database.password"); s != "" {
		opts = append(opts, config.OptDatabasePassword(s))
	}
	if s := os.Getenv("TEST_DATABASE_URL"); s != "" {
		opts = append(opts, config.OptDatabaseURL(s))
	}
	opts = append(opts,
		config.OptDatabaseDatabase(TestDatabaseName),
		config.OptLogDestination("stderr"),
	)
	cfg.Update(opts)
	return cfg
}

// GetTestDatabaseConfig returns only the database configuration for tests.
func GetTestDatabaseConfig() *config.DatabaseConfig {
	cfg := GetTestConfig()
	return &cfg.Database
}
