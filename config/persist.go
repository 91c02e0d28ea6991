package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/teranos/tempex/errors"
	"github.com/teranos/tempex/logger"
)

// WriteDefault writes the effective default configuration to path as TOML,
// rotating any existing file into .back1/.back2/.back3 first.
func WriteDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return errors.Wrap(err, "creating config directory")
	}
	if err := createBackup(path); err != nil {
		return errors.Wrap(err, "backing up existing config")
	}

	v := viper.New()
	SetDefaults(v)
	data, err := toml.Marshal(v.AllSettings())
	if err != nil {
		return errors.Wrap(err, "marshaling config")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}

	logger.Logger.Infow("Wrote default configuration", logger.FieldDocPath, path)
	return nil
}

// createBackup rotates existing backups (.back3 dropped, .back2 -> .back3,
// .back1 -> .back2, current -> .back1) before a write.
func createBackup(configPath string) error {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil
	}

	back3 := configPath + ".back3"
	back2 := configPath + ".back2"
	back1 := configPath + ".back1"

	if err := os.Remove(back3); err != nil && !os.IsNotExist(err) {
		logger.Logger.Warnw("Failed to delete old backup", logger.FieldDocPath, back3, logger.FieldError, err)
	}
	if _, err := os.Stat(back2); err == nil {
		if err := os.Rename(back2, back3); err != nil {
			return errors.Wrap(err, "rotating .back2 to .back3")
		}
	}
	if _, err := os.Stat(back1); err == nil {
		if err := os.Rename(back1, back2); err != nil {
			return errors.Wrap(err, "rotating .back1 to .back2")
		}
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		return errors.Wrap(err, "reading config for backup")
	}
	if err := os.WriteFile(back1, content, 0o644); err != nil {
		return errors.Wrap(err, "creating .back1")
	}
	return nil
}
