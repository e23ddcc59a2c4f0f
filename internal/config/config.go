// Package config loads, validates and persists spritebatch configuration.
//
// Configuration lives in ~/.spritebatch/config.yaml (or $SPRITEBATCH_HOME),
// optionally overlaid by a project-local .spritebatch/config.yaml, and is
// finally overridden by environment variables and CLI flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/rshade/spritebatch/internal/blender"
	"github.com/rshade/spritebatch/internal/cache"
	"github.com/rshade/spritebatch/internal/sprite"
)

// Defaults mirror the original add-on's property defaults.
const (
	DefaultSteps        = 8
	DefaultFrameNames   = "ABCDEFGH"
	DefaultPathTemplate = "sprites/sprite%s%d.png"
	DefaultFormat       = "table"
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "console"
)

// Output format names.
const (
	FormatTable  = "table"
	FormatJSON   = "json"
	FormatNDJSON = "ndjson"
)

// configFileName is the config file name in both global and project directories.
const configFileName = "config.yaml"

// Config is the full spritebatch configuration.
type Config struct {
	Render  RenderConfig  `yaml:"render"`
	Blender BlenderConfig `yaml:"blender"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`

	configPath string
}

// RenderConfig describes the batch: names, range, rotation and output paths.
type RenderConfig struct {
	// PathTemplate is a two-slot format: frame name, then angle name.
	PathTemplate string `yaml:"path_template"`
	// Steps is the number of rotation angles per frame.
	Steps int `yaml:"steps"`
	// CustomFrameNames selects FrameNames; otherwise names are generated A, B, C...
	CustomFrameNames bool   `yaml:"custom_frame_names"`
	FrameNames       string `yaml:"frame_names"`
	// AngleNames defaults to 1..Steps when empty.
	AngleNames string `yaml:"angle_names,omitempty"`
	// FrameStart and FrameEnd default to the blend file's scene range.
	FrameStart *int `yaml:"frame_start,omitempty"`
	FrameEnd   *int `yaml:"frame_end,omitempty"`
	// Target is the object to rotate; in orbit mode empty means the scene camera.
	Target             string  `yaml:"target,omitempty"`
	Mode               string  `yaml:"mode"`
	PhaseOffsetDegrees float64 `yaml:"phase_offset_degrees"`
	FramePolicy        string  `yaml:"frame_policy"`
	AnglePolicy        string  `yaml:"angle_policy"`
	SkipExisting       bool    `yaml:"skip_existing"`
	// Manifest, when set, is where the JSON shot manifest is written.
	Manifest string `yaml:"manifest,omitempty"`
}

// BlenderConfig locates the host renderer and the scene.
type BlenderConfig struct {
	Binary        string        `yaml:"binary"`
	BlendFile     string        `yaml:"blend_file,omitempty"`
	RenderTimeout time.Duration `yaml:"render_timeout"`
	QueryTimeout  time.Duration `yaml:"query_timeout"`
	// SceneCache keeps scene query results under the config dir, keyed by
	// the blend file's path, size and mtime.
	SceneCache    bool          `yaml:"scene_cache"`
	SceneCacheTTL time.Duration `yaml:"scene_cache_ttl"`
}

// OutputConfig controls how plans and summaries are printed.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format"`
}

// LoggingConfig controls log level, format and destination.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file,omitempty"`
}

// Default returns a Config populated with default values only.
func Default() *Config {
	return &Config{
		Render: RenderConfig{
			PathTemplate:       DefaultPathTemplate,
			Steps:              DefaultSteps,
			FrameNames:         DefaultFrameNames,
			Mode:               string(blender.ModeYaw),
			PhaseOffsetDegrees: sprite.DefaultPhaseOffsetDegrees,
			FramePolicy:        string(sprite.DefaultFramePolicy),
			AnglePolicy:        string(sprite.DefaultAnglePolicy),
		},
		Blender: BlenderConfig{
			Binary:        blender.DefaultBinary,
			RenderTimeout: blender.DefaultRenderTimeout,
			QueryTimeout:  blender.DefaultQueryTimeout,
			SceneCache:    true,
			SceneCacheTTL: cache.DefaultTTL,
		},
		Output: OutputConfig{DefaultFormat: DefaultFormat},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// New returns the defaults overlaid with the global config file, if present,
// and environment overrides. A malformed config file is reported on stderr
// and ignored so that "config init --force" can still repair it.
func New() *Config {
	cfg := Default()

	dir, err := GetConfigDir()
	if err == nil {
		cfg.configPath = filepath.Join(dir, configFileName)
		if loadErr := cfg.Load(); loadErr != nil && !errors.Is(loadErr, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "Warning: ignoring config file %s: %v\n", cfg.configPath, loadErr)
		}
	}

	cfg.applyEnv()
	return cfg
}

// LoadFile returns the defaults overlaid with the file at path and
// environment overrides. Unlike New, a missing or malformed file is an error.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	cfg.configPath = path
	if err := cfg.Load(); err != nil {
		return nil, err
	}
	cfg.applyEnv()
	return cfg, nil
}

// Clone returns a copy of c that can be modified without affecting c.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Render.FrameStart != nil {
		v := *c.Render.FrameStart
		clone.Render.FrameStart = &v
	}
	if c.Render.FrameEnd != nil {
		v := *c.Render.FrameEnd
		clone.Render.FrameEnd = &v
	}
	return &clone
}

// applyEnv applies SPRITEBATCH_* environment overrides.
func (c *Config) applyEnv() {
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv(EnvBlender); v != "" {
		c.Blender.Binary = v
	}
}

// ConfigPath returns the file Load and Save use.
func (c *Config) ConfigPath() string { return c.configPath }

// SetConfigPath changes the file Load and Save use.
func (c *Config) SetConfigPath(path string) { c.configPath = path }

// Load reads the config file onto c. Fields absent from the file keep their values.
func (c *Config) Load() error {
	data, err := os.ReadFile(c.configPath)
	if err != nil {
		return err
	}
	if err = yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing %s: %w", c.configPath, err)
	}
	return nil
}

// Save writes c to its config file, creating the directory if needed.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.New("config path not set")
	}
	if err := os.MkdirAll(filepath.Dir(c.configPath), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err = os.WriteFile(c.configPath, data, 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", c.configPath, err)
	}
	return nil
}

// Validate checks values that can be checked without a scene.
func (c *Config) Validate() error {
	var errs []error

	if c.Render.Steps <= 0 {
		errs = append(errs, fmt.Errorf("render.steps must be positive, got %d", c.Render.Steps))
	}
	if _, err := sprite.ParseTemplate(c.Render.PathTemplate); err != nil {
		errs = append(errs, fmt.Errorf("render.path_template: %w", err))
	}
	if _, err := blender.ParseMode(c.Render.Mode); err != nil {
		errs = append(errs, fmt.Errorf("render.mode: %w", err))
	}
	if _, err := sprite.ParseShortagePolicy(c.Render.FramePolicy); err != nil {
		errs = append(errs, fmt.Errorf("render.frame_policy: %w", err))
	}
	if _, err := sprite.ParseShortagePolicy(c.Render.AnglePolicy); err != nil {
		errs = append(errs, fmt.Errorf("render.angle_policy: %w", err))
	}
	if c.Render.CustomFrameNames && c.Render.FrameNames == "" {
		errs = append(errs, errors.New("render.frame_names must be set when custom_frame_names is true"))
	}
	if c.Render.FrameStart != nil && c.Render.FrameEnd != nil && *c.Render.FrameEnd < *c.Render.FrameStart {
		errs = append(errs, fmt.Errorf("render.frame_end %d is before render.frame_start %d",
			*c.Render.FrameEnd, *c.Render.FrameStart))
	}
	if c.Blender.RenderTimeout < 0 || c.Blender.QueryTimeout < 0 {
		errs = append(errs, errors.New("blender timeouts must not be negative"))
	}
	if c.Blender.SceneCacheTTL < 0 {
		errs = append(errs, errors.New("blender.scene_cache_ttl must not be negative"))
	}
	switch c.Output.DefaultFormat {
	case FormatTable, FormatJSON, FormatNDJSON:
	default:
		errs = append(errs, fmt.Errorf("output.default_format: unsupported format %q", c.Output.DefaultFormat))
	}
	if _, err := zerolog.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("logging.level: %w", err))
	}

	return errors.Join(errs...)
}

// BatchSpec builds a sprite.BatchSpec for the resolved frame range.
func (c *Config) BatchSpec(frameStart, frameEnd int) (sprite.BatchSpec, error) {
	framePolicy, err := sprite.ParseShortagePolicy(c.Render.FramePolicy)
	if err != nil {
		return sprite.BatchSpec{}, err
	}
	anglePolicy, err := sprite.ParseShortagePolicy(c.Render.AnglePolicy)
	if err != nil {
		return sprite.BatchSpec{}, err
	}

	frameNames := sprite.GenerateFrameNames(frameEnd - frameStart + 1)
	if c.Render.CustomFrameNames {
		frameNames = sprite.ParseNames(c.Render.FrameNames)
	}
	angleNames := sprite.GenerateAngleNames(c.Render.Steps)
	if c.Render.AngleNames != "" {
		angleNames = sprite.ParseNames(c.Render.AngleNames)
	}

	return sprite.BatchSpec{
		FrameStart:   frameStart,
		FrameEnd:     frameEnd,
		StepCount:    c.Render.Steps,
		FrameNames:   frameNames,
		AngleNames:   angleNames,
		PathTemplate: c.Render.PathTemplate,
		PhaseOffset:  sprite.DegreesToRadians(c.Render.PhaseOffsetDegrees),
		FramePolicy:  framePolicy,
		AnglePolicy:  anglePolicy,
	}, nil
}

// BlenderOptions converts the blender section to adapter options.
func (c *Config) BlenderOptions() (blender.Options, error) {
	mode, err := blender.ParseMode(c.Render.Mode)
	if err != nil {
		return blender.Options{}, err
	}
	return blender.Options{
		Binary:        c.Blender.Binary,
		BlendFile:     c.Blender.BlendFile,
		Mode:          mode,
		RenderTimeout: c.Blender.RenderTimeout,
		QueryTimeout:  c.Blender.QueryTimeout,
	}, nil
}
