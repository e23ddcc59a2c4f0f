package config

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/rshade/spritebatch/internal/logging"
)

// ErrNoProject is returned by FindProject when no ancestor holds a .spritebatch directory.
var ErrNoProject = errors.New("no .spritebatch project directory found")

// resolvedProjectDir holds the resolved project directory path for use
// by other config functions during the lifetime of a CLI invocation.
var (
	resolvedProjectDir   string       //nolint:gochecknoglobals // Set once at startup, read by config loaders
	resolvedProjectDirMu sync.RWMutex //nolint:gochecknoglobals // Protects resolvedProjectDir
)

// SetResolvedProjectDir stores the resolved project directory for use by other config functions.
func SetResolvedProjectDir(dir string) {
	resolvedProjectDirMu.Lock()
	defer resolvedProjectDirMu.Unlock()
	resolvedProjectDir = dir
}

// GetResolvedProjectDir returns the stored resolved project directory.
func GetResolvedProjectDir() string {
	resolvedProjectDirMu.RLock()
	defer resolvedProjectDirMu.RUnlock()
	return resolvedProjectDir
}

// FindProject walks up from startDir looking for a directory that contains
// a .spritebatch directory and returns that directory.
func FindProject(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}
	for {
		info, statErr := os.Stat(filepath.Join(dir, configDirName))
		switch {
		case statErr == nil && info.IsDir():
			return dir, nil
		case statErr != nil && !errors.Is(statErr, fs.ErrNotExist):
			return "", statErr
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNoProject
		}
		dir = parent
	}
}

// ResolveProjectDir determines the project-local .spritebatch directory path.
// It checks (in order):
//  1. flagValue (--project-dir CLI flag)
//  2. SPRITEBATCH_PROJECT_DIR env var
//  3. FindProject(startDir) walk-up
//
// Returns the absolute path to $PROJECT/.spritebatch/ or "" if no project was found.
// The directory is never created here.
func ResolveProjectDir(ctx context.Context, flagValue, startDir string) string {
	if flagValue != "" {
		return toAbsProjectDir(ctx, flagValue)
	}

	if envDir := os.Getenv(EnvProjectDir); envDir != "" {
		return toAbsProjectDir(ctx, envDir)
	}

	projectRoot, err := FindProject(startDir)
	if err != nil {
		if !errors.Is(err, ErrNoProject) {
			logger := logging.FromContext(ctx)
			logger.Warn().
				Str("component", "config").
				Err(err).
				Str("start_dir", startDir).
				Msg("unexpected error during project discovery")
		}
		return ""
	}

	// The global config directory is not a project overlay.
	abs := toAbsProjectDir(ctx, projectRoot)
	if globalDir, dirErr := GetConfigDir(); dirErr == nil {
		if globalAbs, absErr := filepath.Abs(globalDir); absErr == nil && globalAbs == abs {
			return ""
		}
	}
	return abs
}

// NewWithProjectDir creates a Config by loading the global config and then
// shallow-merging the project-local config on top. Merge failures are logged
// and the global config is returned.
func NewWithProjectDir(ctx context.Context, projectDir string) *Config {
	cfg, err := newWithProjectDir(projectDir)
	if err != nil {
		logger := logging.FromContext(ctx)
		logger.Warn().
			Str("component", "config").
			Str("operation", "merge_project_config").
			Err(err).
			Str("project_dir", projectDir).
			Msg("failed to merge project config, using global config")
	}
	return cfg
}

func loadWithProjectDir(projectDir string) *Config {
	cfg, _ := newWithProjectDir(projectDir)
	return cfg
}

func newWithProjectDir(projectDir string) (*Config, error) {
	if projectDir == "" {
		return New(), nil
	}

	overlayPath := filepath.Join(projectDir, configFileName)
	if _, err := os.Stat(overlayPath); err != nil {
		return New(), nil
	}

	merged := New()
	if err := ShallowMergeYAML(merged, overlayPath); err != nil {
		return New(), err
	}
	// Environment overrides win over both files.
	merged.applyEnv()
	return merged, nil
}

// toAbsProjectDir converts dir to an absolute path and appends ".spritebatch"
// unless it already ends with it.
func toAbsProjectDir(ctx context.Context, dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		logger := logging.FromContext(ctx)
		logger.Warn().
			Str("component", "config").
			Err(err).
			Str("dir", dir).
			Msg("failed to resolve absolute path for project directory")
		abs = dir
	}

	if filepath.Base(abs) == configDirName {
		return abs
	}

	return filepath.Join(abs, configDirName)
}
