package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/teranos/tempex/errors"
)

var globalConfig *Config
var viperInstance *viper.Viper

// Load reads the tempex configuration, caching it for the process lifetime.
func Load() (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	v := initViper()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}

	globalConfig = &cfg
	return globalConfig, nil
}

// GetViper returns the viper instance for advanced configuration access.
func GetViper() *viper.Viper {
	return initViper()
}

// LoadFromFile loads configuration from a specific file, bypassing the
// search path and environment binding.
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")

	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "reading config file %s", configPath)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrapf(err, "unmarshaling config from %s", configPath)
	}
	return &cfg, nil
}

// Reset clears the cached configuration (useful for testing).
func Reset() {
	globalConfig = nil
	viperInstance = nil
}

// initViper initializes viper with defaults, config files and TEMPEX_* env
// variables.
func initViper() *viper.Viper {
	if viperInstance != nil {
		return viperInstance
	}

	v := viper.New()

	v.SetEnvPrefix("TEMPEX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)
	mergeConfigFiles(v)

	viperInstance = v
	return v
}

// findProjectConfig searches for tempex.toml by walking up the directory
// tree from the working directory.
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		path := filepath.Join(dir, "tempex.toml")
		if _, err := os.Stat(path); err == nil {
			return path
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// mergeConfigFiles merges configuration files in precedence order, lowest
// first: system < user < project. Environment variables override all files.
func mergeConfigFiles(v *viper.Viper) {
	configPaths := []string{
		"/etc/tempex/config.toml",
		filepath.Join(userDir(), "tempex.toml"),
	}
	if project := findProjectConfig(); project != "" {
		configPaths = append(configPaths, project)
	}

	for _, configPath := range configPaths {
		if _, err := os.Stat(configPath); err != nil {
			continue
		}
		temp := viper.New()
		temp.SetConfigFile(configPath)
		temp.SetConfigType("toml")
		if err := temp.ReadInConfig(); err != nil {
			continue
		}
		for key, value := range temp.AllSettings() {
			v.Set(key, value)
		}
	}
}
