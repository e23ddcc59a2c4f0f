package config_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/spritebatch/internal/config"
)

func TestShallowMergeYAML_ReplacesWholeSections(t *testing.T) {
	overlay := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, overlay, `
render:
  steps: 4
  path_template: "out/%s-%s.png"
`)

	cfg := config.Default()
	cfg.Render.Target = "Hero"
	cfg.Logging.Level = "warn"
	require.NoError(t, config.ShallowMergeYAML(cfg, overlay))

	assert.Equal(t, 4, cfg.Render.Steps)
	assert.Equal(t, "out/%s-%s.png", cfg.Render.PathTemplate)
	// The render section is replaced, not merged.
	assert.Empty(t, cfg.Render.Target)
	assert.Empty(t, cfg.Render.FrameNames)
	// Sections absent from the overlay are untouched.
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "blender", cfg.Blender.Binary)
}

func TestShallowMergeYAML_IgnoresUnknownKeys(t *testing.T) {
	overlay := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, overlay, "plugins:\n  foo: bar\noutput:\n  default_format: json\n")

	cfg := config.Default()
	require.NoError(t, config.ShallowMergeYAML(cfg, overlay))
	assert.Equal(t, "json", cfg.Output.DefaultFormat)
}

func TestShallowMergeYAML_EmptyFile(t *testing.T) {
	overlay := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, overlay, "# nothing here\n")

	cfg := config.Default()
	require.NoError(t, config.ShallowMergeYAML(cfg, overlay))
	assert.Equal(t, config.Default(), cfg)
}

func TestShallowMergeYAML_Errors(t *testing.T) {
	t.Run("nil target", func(t *testing.T) {
		require.Error(t, config.ShallowMergeYAML(nil, "whatever.yaml"))
	})

	t.Run("missing file", func(t *testing.T) {
		err := config.ShallowMergeYAML(config.Default(), filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "reading overlay file")
	})

	t.Run("malformed yaml", func(t *testing.T) {
		overlay := filepath.Join(t.TempDir(), "config.yaml")
		writeFile(t, overlay, "render: [unclosed")
		require.Error(t, config.ShallowMergeYAML(config.Default(), overlay))
	})

	t.Run("wrong section type", func(t *testing.T) {
		overlay := filepath.Join(t.TempDir(), "config.yaml")
		writeFile(t, overlay, "render:\n  steps: many\n")
		err := config.ShallowMergeYAML(config.Default(), overlay)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `"render"`)
	})
}
