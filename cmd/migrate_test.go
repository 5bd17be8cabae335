package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGetMigrateCmd verifies the migrate command and its flags.
func TestGetMigrateCmd(t *testing.T) {
	cmd := getMigrateCmd()
	require.NotNil(t, cmd, "Migrate command should exist")
	assert.Equal(t, "migrate", cmd.Use)
	assert.Contains(t, cmd.Short, "schema")
	assert.Contains(t, cmd.Long, "GORM AutoMigrate")
	assert.NotNil(t, cmd.RunE)

	flag := cmd.Flags().Lookup("force")
	require.NotNil(t, flag, "--force flag should exist")
	assert.Equal(t, "f", flag.Shorthand)
	assert.Equal(t, "false", flag.DefValue)
}
