package config_test

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/spritebatch/internal/blender"
	"github.com/rshade/spritebatch/internal/config"
	"github.com/rshade/spritebatch/internal/sprite"
)

// setupHome points SPRITEBATCH_HOME at a temp dir and resets the global config.
func setupHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv(config.EnvHome, home)
	t.Setenv(config.EnvLogLevel, "")
	t.Setenv(config.EnvLogFormat, "")
	t.Setenv(config.EnvBlender, "")
	t.Setenv(config.EnvProjectDir, "")
	t.Setenv(config.EnvCacheDir, "")
	config.ResetGlobalConfigForTest()
	t.Cleanup(config.ResetGlobalConfigForTest)
	return home
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestDefault(t *testing.T) {
	cfg := config.Default()

	assert.Equal(t, 8, cfg.Render.Steps)
	assert.Equal(t, "ABCDEFGH", cfg.Render.FrameNames)
	assert.Equal(t, "sprites/sprite%s%d.png", cfg.Render.PathTemplate)
	assert.False(t, cfg.Render.CustomFrameNames)
	assert.Equal(t, "yaw", cfg.Render.Mode)
	assert.Equal(t, "clamp", cfg.Render.FramePolicy)
	assert.Equal(t, "strict", cfg.Render.AnglePolicy)
	assert.Zero(t, cfg.Render.PhaseOffsetDegrees)
	assert.Equal(t, "blender", cfg.Blender.Binary)
	assert.Equal(t, blender.DefaultRenderTimeout, cfg.Blender.RenderTimeout)
	assert.True(t, cfg.Blender.SceneCache)
	assert.Equal(t, 24*time.Hour, cfg.Blender.SceneCacheTTL)
	assert.Equal(t, "table", cfg.Output.DefaultFormat)
	assert.Equal(t, "info", cfg.Logging.Level)
	require.NoError(t, cfg.Validate())
}

func TestNew_NoFile(t *testing.T) {
	home := setupHome(t)

	cfg := config.New()
	assert.Equal(t, filepath.Join(home, "config.yaml"), cfg.ConfigPath())
	assert.Equal(t, config.DefaultSteps, cfg.Render.Steps)
}

func TestNew_LoadsFile(t *testing.T) {
	home := setupHome(t)
	writeFile(t, filepath.Join(home, "config.yaml"), `
render:
  steps: 16
  frame_names: "idle,walk"
  custom_frame_names: true
blender:
  render_timeout: 5m
`)

	cfg := config.New()
	assert.Equal(t, 16, cfg.Render.Steps)
	assert.True(t, cfg.Render.CustomFrameNames)
	assert.Equal(t, "idle,walk", cfg.Render.FrameNames)
	assert.Equal(t, 5*time.Minute, cfg.Blender.RenderTimeout)
	// Fields not in the file keep their defaults.
	assert.Equal(t, config.DefaultPathTemplate, cfg.Render.PathTemplate)
	assert.Equal(t, "blender", cfg.Blender.Binary)
}

func TestNew_EnvOverrides(t *testing.T) {
	home := setupHome(t)
	writeFile(t, filepath.Join(home, "config.yaml"), "logging:\n  level: warn\n")
	t.Setenv(config.EnvLogLevel, "debug")
	t.Setenv(config.EnvLogFormat, "json")
	t.Setenv(config.EnvBlender, "/opt/blender/blender")

	cfg := config.New()
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "/opt/blender/blender", cfg.Blender.Binary)
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	cfg := config.Default()
	cfg.SetConfigPath(path)
	start, end := 3, 9
	cfg.Render.FrameStart = &start
	cfg.Render.FrameEnd = &end
	cfg.Render.Target = "Armature"
	cfg.Blender.QueryTimeout = 45 * time.Second
	require.NoError(t, cfg.Save())

	loaded := config.Default()
	loaded.SetConfigPath(path)
	require.NoError(t, loaded.Load())
	require.NotNil(t, loaded.Render.FrameStart)
	require.NotNil(t, loaded.Render.FrameEnd)
	assert.Equal(t, 3, *loaded.Render.FrameStart)
	assert.Equal(t, 9, *loaded.Render.FrameEnd)
	assert.Equal(t, "Armature", loaded.Render.Target)
	assert.Equal(t, 45*time.Second, loaded.Blender.QueryTimeout)
}

func TestSave_NoPath(t *testing.T) {
	require.Error(t, config.Default().Save())
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "render: [unclosed")

	cfg := config.Default()
	cfg.SetConfigPath(path)
	require.Error(t, cfg.Load())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(*config.Config) {}},
		{
			name:    "zero steps",
			mutate:  func(c *config.Config) { c.Render.Steps = 0 },
			wantErr: "render.steps",
		},
		{
			name:    "bad template",
			mutate:  func(c *config.Config) { c.Render.PathTemplate = "out/%s.png" },
			wantErr: "render.path_template",
		},
		{
			name:    "bad mode",
			mutate:  func(c *config.Config) { c.Render.Mode = "pitch" },
			wantErr: "render.mode",
		},
		{
			name:    "bad frame policy",
			mutate:  func(c *config.Config) { c.Render.FramePolicy = "loose" },
			wantErr: "render.frame_policy",
		},
		{
			name:    "bad angle policy",
			mutate:  func(c *config.Config) { c.Render.AnglePolicy = "loose" },
			wantErr: "render.angle_policy",
		},
		{
			name: "custom names without names",
			mutate: func(c *config.Config) {
				c.Render.CustomFrameNames = true
				c.Render.FrameNames = ""
			},
			wantErr: "render.frame_names",
		},
		{
			name: "inverted range",
			mutate: func(c *config.Config) {
				s, e := 5, 2
				c.Render.FrameStart, c.Render.FrameEnd = &s, &e
			},
			wantErr: "render.frame_end",
		},
		{
			name:    "negative cache ttl",
			mutate:  func(c *config.Config) { c.Blender.SceneCacheTTL = -time.Second },
			wantErr: "blender.scene_cache_ttl",
		},
		{
			name:    "bad output format",
			mutate:  func(c *config.Config) { c.Output.DefaultFormat = "xml" },
			wantErr: "output.default_format",
		},
		{
			name:    "bad log level",
			mutate:  func(c *config.Config) { c.Logging.Level = "loud" },
			wantErr: "logging.level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_ReportsAllErrors(t *testing.T) {
	cfg := config.Default()
	cfg.Render.Steps = -1
	cfg.Output.DefaultFormat = "xml"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "render.steps")
	assert.Contains(t, err.Error(), "output.default_format")
}

func TestBatchSpec_GeneratedNames(t *testing.T) {
	cfg := config.Default()
	cfg.Render.Steps = 4
	cfg.Render.PhaseOffsetDegrees = -90

	spec, err := cfg.BatchSpec(10, 12)
	require.NoError(t, err)

	assert.Equal(t, 10, spec.FrameStart)
	assert.Equal(t, 12, spec.FrameEnd)
	assert.Equal(t, 4, spec.StepCount)
	assert.Equal(t, []string{"A", "B", "C"}, spec.FrameNames)
	assert.Equal(t, []string{"1", "2", "3", "4"}, spec.AngleNames)
	assert.InDelta(t, -math.Pi/2, spec.PhaseOffset, 1e-12)
	assert.Equal(t, sprite.PolicyClamp, spec.FramePolicy)
	assert.Equal(t, sprite.PolicyStrict, spec.AnglePolicy)

	plan, err := sprite.Validate(spec)
	require.NoError(t, err)
	assert.Equal(t, 12, plan.Len())
}

func TestBatchSpec_CustomNames(t *testing.T) {
	cfg := config.Default()
	cfg.Render.CustomFrameNames = true
	cfg.Render.FrameNames = "idle,walk,run"
	cfg.Render.Steps = 2
	cfg.Render.AngleNames = "NS"
	cfg.Render.PathTemplate = "out/%s_%s.png"

	spec, err := cfg.BatchSpec(1, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"idle", "walk", "run"}, spec.FrameNames)
	assert.Equal(t, []string{"N", "S"}, spec.AngleNames)
}

func TestBatchSpec_BadPolicy(t *testing.T) {
	cfg := config.Default()
	cfg.Render.AnglePolicy = "loose"

	_, err := cfg.BatchSpec(1, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, sprite.ErrInvalidPolicy))
}

func TestBlenderOptions(t *testing.T) {
	cfg := config.Default()
	cfg.Render.Mode = "orbit"
	cfg.Blender.BlendFile = "scene.blend"

	opts, err := cfg.BlenderOptions()
	require.NoError(t, err)
	assert.Equal(t, blender.ModeOrbit, opts.Mode)
	assert.Equal(t, "scene.blend", opts.BlendFile)
	assert.Equal(t, "blender", opts.Binary)
}

func TestGetGlobalConfig_Singleton(t *testing.T) {
	setupHome(t)

	first := config.GetGlobalConfig()
	second := config.GetGlobalConfig()
	assert.Same(t, first, second)
	assert.Equal(t, "table", config.GetDefaultOutputFormat())
}

func TestGetCacheDir(t *testing.T) {
	home := setupHome(t)

	dir, err := config.GetCacheDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "cache"), dir)

	override := t.TempDir()
	t.Setenv(config.EnvCacheDir, override)
	dir, err = config.GetCacheDir()
	require.NoError(t, err)
	assert.Equal(t, override, dir)
}

func TestEnsureLogDir(t *testing.T) {
	home := setupHome(t)
	logFile := filepath.Join(home, "logs", "spritebatch.log")
	writeFile(t, filepath.Join(home, "config.yaml"), "logging:\n  level: info\n  file: "+logFile+"\n")

	require.NoError(t, config.EnsureLogDir())
	info, err := os.Stat(filepath.Dir(logFile))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	lc := config.GetLoggingConfig()
	logCfg := lc.ToLoggingConfig()
	assert.Equal(t, "file", logCfg.Output)
	assert.Equal(t, logFile, logCfg.File)
}

func TestToLoggingConfig_Stderr(t *testing.T) {
	lc := config.LoggingConfig{Level: "debug", Format: "json"}
	got := lc.ToLoggingConfig()
	assert.Equal(t, "stderr", got.Output)
	assert.Equal(t, "debug", got.Level)
	assert.Equal(t, "json", got.Format)
}

func TestLoadFile(t *testing.T) {
	setupHome(t)
	path := filepath.Join(t.TempDir(), "batch.yaml")
	writeFile(t, path, "render:\n  steps: 3\n  angle_names: \"N,E,S\"\n")
	t.Setenv(config.EnvBlender, "/env/blender")

	cfg, err := config.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Render.Steps)
	assert.Equal(t, "N,E,S", cfg.Render.AngleNames)
	assert.Equal(t, "/env/blender", cfg.Blender.Binary)
	assert.Equal(t, path, cfg.ConfigPath())

	_, err = config.LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestClone(t *testing.T) {
	start := 4
	cfg := config.Default()
	cfg.Render.FrameStart = &start

	clone := cfg.Clone()
	*clone.Render.FrameStart = 10
	clone.Render.Steps = 2

	assert.Equal(t, 4, *cfg.Render.FrameStart)
	assert.Equal(t, config.DefaultSteps, cfg.Render.Steps)
}
