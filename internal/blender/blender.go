package blender

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"time"

	"github.com/Masterminds/semver/v3"

	"github.com/rshade/spritebatch/internal/logging"
)

// Default timeouts for Blender invocations.
const (
	DefaultRenderTimeout = 30 * time.Minute
	DefaultQueryTimeout  = 2 * time.Minute
)

// DefaultBinary is the Blender executable looked up in PATH.
const DefaultBinary = "blender"

// MinVersion is the oldest Blender release with the Python API used here.
const MinVersion = ">= 2.80"

// Mode selects how a rotation angle is applied to the scene.
type Mode string

const (
	// ModeYaw sets the target object's Z rotation.
	ModeYaw Mode = "yaw"
	// ModeOrbit moves the camera on a circle around the origin, keeping its height.
	ModeOrbit Mode = "orbit"
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeYaw, ModeOrbit:
		return m, nil
	case "":
		return ModeYaw, nil
	default:
		return "", fmt.Errorf("unknown rotation mode %q (expected %q or %q)", s, ModeYaw, ModeOrbit)
	}
}

// Options configures Blender invocations.
type Options struct {
	Binary        string        // Blender executable (default: "blender").
	BlendFile     string        // Scene file rendered for every shot.
	Mode          Mode          // How angles are applied.
	RenderTimeout time.Duration // Max time per shot (default: 30 minutes).
	QueryTimeout  time.Duration // Max time for scene queries (default: 2 minutes).
}

func (o Options) binary() string {
	if o.Binary == "" {
		return DefaultBinary
	}
	return o.Binary
}

// CommandRunner executes an external command and returns its stdout, stderr, and error.
// This interface enables testing without spawning real subprocesses.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (stdout []byte, stderr []byte, err error)
}

// execRunner is the default CommandRunner that uses exec.CommandContext.
type execRunner struct{}

func (r *execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = os.Environ()
	detachProcessGroup(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// Runner is the package-level CommandRunner. Replace in tests with a mock.
var Runner CommandRunner = &execRunner{} //nolint:gochecknoglobals // Required for test injection

// FindBinary locates the Blender executable. An explicit path is checked as
// given; a bare name is looked up in PATH.
func FindBinary(name string) (string, error) {
	if name == "" {
		name = DefaultBinary
	}
	path, err := exec.LookPath(name)
	if err != nil {
		return "", ErrBlenderNotFound
	}
	return path, nil
}

// versionPattern matches the first line of "blender --version", e.g. "Blender 4.1.0".
var versionPattern = regexp.MustCompile(`Blender (\d+\.\d+(?:\.\d+)?)`)

// Version runs "blender --version" and parses the release number.
func Version(ctx context.Context, opts Options) (*semver.Version, error) {
	stdout, err := runBlenderCommand(ctx, blenderCmdConfig{
		opts:           opts,
		timeout:        opts.QueryTimeout,
		defaultTimeout: DefaultQueryTimeout,
		args:           []string{"--version"},
		operation:      "version",
		logMessage:     "checking blender version",
		wrapErr:        QueryError,
	})
	if err != nil {
		return nil, err
	}

	m := versionPattern.FindSubmatch(stdout)
	if m == nil {
		return nil, fmt.Errorf("%w: cannot parse version from %q", ErrQueryFailed, tail(string(stdout)))
	}
	v, err := semver.NewVersion(string(m[1]))
	if err != nil {
		return nil, fmt.Errorf("parsing blender version %q: %w", m[1], err)
	}
	return v, nil
}

// CheckVersion returns ErrUnsupportedVersion if v does not satisfy MinVersion.
func CheckVersion(v *semver.Version) error {
	c, err := semver.NewConstraint(MinVersion)
	if err != nil {
		return fmt.Errorf("parsing version constraint: %w", err)
	}
	if !c.Check(v) {
		return fmt.Errorf("%w: found %s, need %s", ErrUnsupportedVersion, v, MinVersion)
	}
	return nil
}

// blenderCmdConfig holds the configuration for running a Blender command.
type blenderCmdConfig struct {
	opts           Options
	timeout        time.Duration
	defaultTimeout time.Duration
	args           []string
	operation      string
	logMessage     string
	wrapErr        func(string) error
}

// runBlenderCommand executes Blender with timeout, logging, and error handling.
func runBlenderCommand(ctx context.Context, cfg blenderCmdConfig) ([]byte, error) {
	log := logging.FromContext(ctx)

	timeout := cfg.timeout
	if timeout == 0 {
		timeout = cfg.defaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	log.Debug().
		Ctx(ctx).
		Str("component", "blender").
		Str("operation", cfg.operation).
		Str("blend_file", cfg.opts.BlendFile).
		Msg(cfg.logMessage)

	stdout, stderr, err := Runner.Run(ctx, cfg.opts.binary(), cfg.args...)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("blender %s timed out after %s", cfg.operation, timeout)
		}
		if ctx.Err() == context.Canceled {
			return nil, ctx.Err()
		}
		// Blender prints Python tracebacks to stdout and its own errors to stderr.
		return nil, cfg.wrapErr(string(stdout) + "\n" + string(stderr))
	}

	log.Debug().
		Ctx(ctx).
		Str("component", "blender").
		Int("output_bytes", len(stdout)).
		Msgf("blender %s completed", cfg.operation)

	return stdout, nil
}

// pythonArgs builds the argument list that runs script against the blend file
// in background mode. --python-exit-code makes script exceptions fail the process.
func pythonArgs(blendFile, script string) []string {
	return []string{"-b", blendFile, "--python-exit-code", "1", "--python-expr", script}
}
