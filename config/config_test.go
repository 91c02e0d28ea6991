package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/tempex/features"
	"github.com/teranos/tempex/resolve"
)

func TestLoadFromFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tempex.toml")
	content := `
[models]
path = "custom/models.bin"

[resolver]
precedence = "event"

[batch]
workers = 8

[features]
syntax = false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "custom/models.bin", cfg.Models.Path)
	assert.Equal(t, resolve.PrecedenceEvent, cfg.Resolver.ResolvePrecedence())
	assert.Equal(t, 8, cfg.Batch.Workers)

	// One group off, the rest keep their defaults.
	want := features.DefaultGroups()
	want.Syntax = false
	assert.Equal(t, want, cfg.Features)

	// Untouched sections keep defaults.
	assert.Equal(t, 60, cfg.Annotator.TimeoutSeconds)
	assert.False(t, cfg.Cache.Disabled)
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
}

func TestDefaultsRoundTripThroughWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tempex.toml")
	require.NoError(t, WriteDefault(path))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "timex", cfg.Resolver.Precedence)
	assert.Equal(t, 4, cfg.Batch.Workers)
	assert.Equal(t, features.DefaultGroups(), cfg.Features)
}

func TestWriteDefaultRotatesBackups(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tempex.toml")
	require.NoError(t, os.WriteFile(path, []byte("# original\n"), 0o644))

	require.NoError(t, WriteDefault(path))

	backup, err := os.ReadFile(path + ".back1")
	require.NoError(t, err)
	assert.Equal(t, "# original\n", string(backup))

	// A second write pushes the first backup down a slot.
	require.NoError(t, WriteDefault(path))
	_, err = os.Stat(path + ".back2")
	assert.NoError(t, err)
}

func TestResetClearsCache(t *testing.T) {
	t.Cleanup(Reset)

	cfg, err := Load()
	require.NoError(t, err)
	again, err := Load()
	require.NoError(t, err)
	assert.Same(t, cfg, again)

	Reset()
	fresh, err := Load()
	require.NoError(t, err)
	assert.NotSame(t, cfg, fresh)
}
