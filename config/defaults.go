package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// SetDefaults configures default values for all configuration options.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("models.path", filepath.Join(userDir(), "models.bin"))

	v.SetDefault("cache.path", filepath.Join(userDir(), "cache.db"))
	v.SetDefault("cache.disabled", false)

	v.SetDefault("annotator.timeout_seconds", 60)
	v.SetDefault("annotator.requests_per_second", 0.0)

	// All feature groups on, matching features.DefaultGroups.
	v.SetDefault("features.token", true)
	v.SetDefault("features.shape", true)
	v.SetDefault("features.affix", true)
	v.SetDefault("features.context", true)
	v.SetDefault("features.gazetteer", true)
	v.SetDefault("features.syntax", true)

	v.SetDefault("resolver.precedence", "timex")

	v.SetDefault("batch.workers", 4)
}

// userDir is ~/.tempex, or the working directory when the home directory
// cannot be determined.
func userDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".tempex"
	}
	return filepath.Join(home, ".tempex")
}
