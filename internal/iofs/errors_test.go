package iofs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/artsfest/festsync/pkg/config"
	"github.com/artsfest/festsync/pkg/errcode"
	"github.com/gnames/gn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func asGnError(t *testing.T, err error) *gn.Error {
	t.Helper()
	var gnErr *gn.Error
	require.ErrorAs(t, err, &gnErr)
	return gnErr
}

// TestWriteFile_Exists checks the error a second template export gets.
func TestWriteFile_Exists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "candidates.yaml")
	require.NoError(t, WriteFile(path, []byte("type: candidates\n")))

	err := WriteFile(path, []byte("type: teams\n"))
	gnErr := asGnError(t, err)
	assert.Equal(t, errcode.CopyFileError, gnErr.Code)
	assert.Equal(t, []any{path}, gnErr.Vars)
	assert.Contains(t, gnErr.Msg, "Cannot write")
	assert.True(t, errors.Is(err, os.ErrExist))
	assert.Contains(t, err.Error(), "iofs.WriteFile")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "type: candidates\n", string(content), "file is kept")
}

func TestWriteFile_NoDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "teams.yaml")

	err := WriteFile(path, []byte("type: teams\n"))
	assert.Equal(t, errcode.CopyFileError, asGnError(t, err).Code)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

// TestEnsureConfigFile_NoConfigDir covers a config write attempted before
// EnsureDirs.
func TestEnsureConfigFile_NoConfigDir(t *testing.T) {
	home := t.TempDir()

	err := EnsureConfigFile(home)
	gnErr := asGnError(t, err)
	assert.Equal(t, errcode.CopyFileError, gnErr.Code)
	assert.Equal(t, []any{config.ConfigFilePath(home)}, gnErr.Vars)
	assert.Contains(t, err.Error(), "iofs.EnsureConfigFile")
}

// TestTouchDir_UnderFile fails because a regular file blocks the path.
func TestTouchDir_UnderFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "festsync.log")
	require.NoError(t, os.WriteFile(file, nil, 0644))
	dir := filepath.Join(file, "logs")

	err := touchDir(dir)
	gnErr := asGnError(t, err)
	assert.Equal(t, errcode.CreateDirError, gnErr.Code)
	assert.Equal(t, []any{dir}, gnErr.Vars)
	assert.Contains(t, err.Error(), "iofs.touchDir")
	assert.Contains(t, err.Error(), "cannot create directory")
}

func TestEnsureDirs_HomeIsFile(t *testing.T) {
	home := filepath.Join(t.TempDir(), "home")
	require.NoError(t, os.WriteFile(home, []byte("not a dir"), 0644))

	err := EnsureDirs(home)
	gnErr := asGnError(t, err)
	assert.Equal(t, errcode.CreateDirError, gnErr.Code)
	assert.Equal(t, []any{config.ConfigDir(home)}, gnErr.Vars)
}

// TestReadFileError wraps the cause with the path, as the config loader
// and the .env loader use it.
func TestReadFileError(t *testing.T) {
	path := filepath.Join("home", ".config", "festsync", "config.yaml")
	cause := &os.PathError{Op: "open", Path: path, Err: os.ErrPermission}

	err := ReadFileError(path, cause)
	gnErr := asGnError(t, err)
	assert.Equal(t, errcode.ReadFileError, gnErr.Code)
	assert.Equal(t, []any{path}, gnErr.Vars)
	assert.True(t, errors.Is(err, os.ErrPermission))
	assert.Contains(t, err.Error(), "cannot read "+path)
}
