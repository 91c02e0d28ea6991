// Package config loads tempex configuration from TOML files and TEMPEX_*
// environment variables, with viper handling precedence.
package config

import (
	"time"

	"github.com/teranos/tempex/features"
	"github.com/teranos/tempex/resolve"
)

// Config is the full tempex configuration tree.
type Config struct {
	Models    ModelsConfig    `mapstructure:"models"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Annotator AnnotatorConfig `mapstructure:"annotator"`
	Features  features.Groups `mapstructure:"features"`
	Resolver  ResolverConfig  `mapstructure:"resolver"`
	Batch     BatchConfig     `mapstructure:"batch"`
}

// ModelsConfig locates the trained model bundle.
type ModelsConfig struct {
	Path string `mapstructure:"path"`
}

// CacheConfig configures the annotation cache. An empty path keeps the
// cache memory-only; Disabled skips caching entirely.
type CacheConfig struct {
	Path     string `mapstructure:"path"`
	Disabled bool   `mapstructure:"disabled"`
}

// AnnotatorConfig bounds calls into the linguistic annotator.
type AnnotatorConfig struct {
	TimeoutSeconds int `mapstructure:"timeout_seconds"` // per-document ceiling (default: 60)

	// RequestsPerSecond rate-limits annotator calls; 0 = unlimited. Only
	// meaningful for annotators backed by an external service.
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
}

// ResolverConfig selects the overlap policy between mention types.
type ResolverConfig struct {
	Precedence string `mapstructure:"precedence"` // "timex" or "event"
}

// BatchConfig configures the concurrent document runner.
type BatchConfig struct {
	Workers int `mapstructure:"workers"`
}

// Timeout returns the annotator timeout as a duration.
func (a AnnotatorConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// ResolvePrecedence converts the configured string to the resolver's type.
func (r ResolverConfig) ResolvePrecedence() resolve.Precedence {
	return resolve.Precedence(r.Precedence)
}
