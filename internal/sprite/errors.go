package sprite

import "fmt"

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Sentinel errors for batch configuration problems.
// These can be compared with errors.Is against any *ConfigError or *ConfigWarning.
var (
	// ErrInvalidFrameRange indicates FrameEnd is before FrameStart.
	ErrInvalidFrameRange = constError("invalid frame range")

	// ErrInvalidStepCount indicates a rotation step count of zero or less.
	ErrInvalidStepCount = constError("rotation step count must be positive")

	// ErrInsufficientAngleNames indicates fewer angle names than rotation steps.
	ErrInsufficientAngleNames = constError("not enough angle names for rotation steps")

	// ErrInsufficientFrameNames indicates fewer frame names than frames in the range.
	ErrInsufficientFrameNames = constError("not enough frame names for frame range")

	// ErrInvalidTemplate indicates a path template that cannot produce output paths.
	ErrInvalidTemplate = constError("invalid path template")

	// ErrEmptyName indicates a blank frame or angle name, which would make
	// output paths collide.
	ErrEmptyName = constError("empty frame or angle name")

	// ErrInvalidPolicy indicates an unknown shortage policy name.
	ErrInvalidPolicy = constError("invalid shortage policy")

	// ErrTargetNotFound indicates the object to rotate does not exist in the scene.
	ErrTargetNotFound = constError("target object not found")
)

// ConfigError is a fatal batch configuration problem. It is always reported
// before any rendering starts.
type ConfigError struct {
	// Err is the sentinel describing the class of problem.
	Err error
	// Detail carries the offending values.
	Detail string
}

// NewConfigError creates a ConfigError for the given sentinel with a formatted detail.
func NewConfigError(sentinel error, format string, args ...any) *ConfigError {
	return &ConfigError{Err: sentinel, Detail: fmt.Sprintf(format, args...)}
}

func (e *ConfigError) Error() string {
	if e.Detail == "" {
		return "configuration error: " + e.Err.Error()
	}
	return "configuration error: " + e.Err.Error() + ": " + e.Detail
}

func (e *ConfigError) Unwrap() error { return e.Err }

// ConfigWarning is a non-fatal configuration problem that was resolved by
// clamping the batch. Requested and Available carry the counts involved.
type ConfigWarning struct {
	Err       error
	Requested int
	Available int
}

func (w *ConfigWarning) Error() string {
	return fmt.Sprintf("%s: requested %d, available %d; batch truncated to %d",
		w.Err.Error(), w.Requested, w.Available, w.Available)
}

func (w *ConfigWarning) Unwrap() error { return w.Err }
