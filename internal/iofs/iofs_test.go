package iofs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/artsfest/festsync/pkg/errcode"
	"github.com/gnames/gn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// TestEnsureDirs verifies all required directories are created and
// repeated calls succeed.
func TestEnsureDirs(t *testing.T) {
	tmpDir := t.TempDir()

	for range 3 {
		require.NoError(t, EnsureDirs(tmpDir))
	}

	dirs := []string{
		filepath.Join(tmpDir, ".config", "festsync"),
		filepath.Join(tmpDir, ".local", "share", "festsync", "logs"),
	}
	for _, v := range dirs {
		info, err := os.Stat(v)
		require.NoError(t, err)
		assert.True(t, info.IsDir(), v)
		assert.Equal(t, os.FileMode(0755), info.Mode().Perm(), v)
	}
}

// TestTouchDir_ExistingDirectory verifies existing directory
// is not modified.
func TestTouchDir_ExistingDirectory(t *testing.T) {
	existingDir := filepath.Join(t.TempDir(), "existing")
	require.NoError(t, os.MkdirAll(existingDir, 0700))

	require.NoError(t, touchDir(existingDir))

	info, err := os.Stat(existingDir)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0700), info.Mode().Perm())
}

func TestEnsureConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, EnsureDirs(tmpDir))
	require.NoError(t, EnsureConfigFile(tmpDir))

	configPath := filepath.Join(tmpDir, ".config", "festsync", "config.yaml")
	content, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Equal(t, ConfigYAML, string(content))

	// an existing file is kept
	custom := "database:\n  host: myhost\n"
	require.NoError(t, os.WriteFile(configPath, []byte(custom), 0644))
	require.NoError(t, EnsureConfigFile(tmpDir))
	content, err = os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Equal(t, custom, string(content))
}

// TestConfigYAML_Embedded verifies the embedded config parses and does
// not carry credentials.
func TestConfigYAML_Embedded(t *testing.T) {
	var res map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(ConfigYAML), &res))
	for _, v := range []string{"database", "sheets", "server", "log"} {
		assert.Contains(t, res, v)
	}

	sheets := res["sheets"].(map[string]any)
	assert.Equal(t, "google", sheets["backend"])
	assert.NotContains(t, sheets, "private_key")
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "teams.yaml")
	require.NoError(t, WriteFile(path, []byte("type: teams\n")))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "type: teams\n", string(content))

	err = WriteFile(path, []byte("type: results\n"))
	var gnErr *gn.Error
	require.ErrorAs(t, err, &gnErr)
	assert.Equal(t, errcode.CopyFileError, gnErr.Code)
}
