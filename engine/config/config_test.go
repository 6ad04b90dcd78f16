package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/marionette/engine/core"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestParseOverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
[application]
log_level = "debug"
max_ticks = 120

[model]
mesh = "hero.md5mesh"
animation = "hero.md5anim"
instances = 3

[sync]
enabled = false
`))
	require.NoError(t, err)

	assert.Equal(t, "Marionette", cfg.Application.Name)
	assert.Equal(t, "debug", cfg.Application.LogLevel)
	assert.Equal(t, 60, cfg.Application.TargetFPS)
	assert.Equal(t, 120, cfg.Application.MaxTicks)
	assert.Equal(t, "hero.md5mesh", cfg.Model.Mesh)
	assert.Equal(t, 3, cfg.Model.Instances)
	assert.True(t, cfg.Model.NormalizeNormals)
	assert.False(t, cfg.Sync.Enabled)
	assert.Equal(t, 1.0, cfg.Sync.Interval)
}

func TestParseRejects(t *testing.T) {
	tests := map[string]string{
		"unknown key":    "[model]\nmeshes = 2\n",
		"bad level":      "[application]\nlog_level = \"loud\"\n",
		"no instances":   "[model]\ninstances = 0\n",
		"zero interval":  "[sync]\ninterval = 0.0\n",
		"negative ticks": "[application]\nmax_ticks = -1\n",
		"not toml":       "[model\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[model]\nspacing = 3.5\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, float32(3.5), cfg.Model.Spacing)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, core.ErrFile)
}

func TestFrameBudget(t *testing.T) {
	cfg := Default()
	assert.InDelta(t, 1.0/60.0, cfg.FrameBudget(), 1e-12)

	cfg.Application.TargetFPS = 0
	assert.Zero(t, cfg.FrameBudget())
}
