// Package iofs prepares the directories and files festsync keeps in the
// user's home directory.
package iofs

import (
	_ "embed"
	"os"

	"github.com/artsfest/festsync/pkg/config"
)

// ConfigYAML is the documented default configuration.
//
//go:embed config.yaml
var ConfigYAML string

// EnsureDirs creates the config and log directories.
func EnsureDirs(homeDir string) error {
	dirs := []string{
		config.ConfigDir(homeDir),
		config.LogDir(homeDir),
	}
	for _, v := range dirs {
		if err := touchDir(v); err != nil {
			return err
		}
	}
	return nil
}

func touchDir(dir string) error {
	info, err := os.Stat(dir)
	if err == nil && info.IsDir() {
		return nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return CreateDirError(dir, err)
	}

	return nil
}

// EnsureConfigFile writes the default config.yaml unless one exists.
func EnsureConfigFile(homeDir string) error {
	configPath := config.ConfigFilePath(homeDir)

	if _, err := os.Stat(configPath); err == nil {
		return nil
	}

	if err := os.WriteFile(configPath, []byte(ConfigYAML), 0644); err != nil {
		return CopyFileError(configPath, err)
	}

	return nil
}

// WriteFile saves generated content, such as a mapping template, refusing
// to overwrite an existing file.
func WriteFile(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return CopyFileError(path, err)
	}
	if _, err = f.Write(data); err != nil {
		f.Close()
		return CopyFileError(path, err)
	}
	if err = f.Close(); err != nil {
		return CopyFileError(path, err)
	}
	return nil
}
