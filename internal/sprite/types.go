package sprite

import (
	"fmt"
	"math"
	"strings"
)

// Phase offsets for the first rotation step, in degrees.
const (
	// DefaultPhaseOffsetDegrees starts the first step at zero rotation (object yaw).
	DefaultPhaseOffsetDegrees = 0.0

	// LegacyPhaseOffsetDegrees turns the first step a quarter turn clockwise so that
	// an orbiting camera starting on the -Y axis faces the model's front.
	LegacyPhaseOffsetDegrees = -90.0
)

// ShortagePolicy decides what happens when a name scheme has fewer names than
// the batch needs.
type ShortagePolicy string

const (
	// PolicyStrict rejects the batch with a ConfigError.
	PolicyStrict ShortagePolicy = "strict"

	// PolicyClamp truncates the batch to the available names and reports a ConfigWarning.
	PolicyClamp ShortagePolicy = "clamp"
)

// Default policies for each name scheme.
const (
	DefaultFramePolicy = PolicyClamp
	DefaultAnglePolicy = PolicyStrict
)

// ParseShortagePolicy converts a policy name to a ShortagePolicy.
// An empty string yields the empty policy, meaning "use the default".
func ParseShortagePolicy(s string) (ShortagePolicy, error) {
	switch p := ShortagePolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "", PolicyStrict, PolicyClamp:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q (expected %q or %q)", ErrInvalidPolicy, s, PolicyStrict, PolicyClamp)
	}
}

// orDefault returns p, or def when p is unset.
func (p ShortagePolicy) orDefault(def ShortagePolicy) ShortagePolicy {
	if p == "" {
		return def
	}
	return p
}

// BatchSpec describes one render batch. It is built from user configuration
// immediately before a batch starts and treated as read-only afterwards.
type BatchSpec struct {
	// FrameStart and FrameEnd bound the frame range, inclusive.
	FrameStart int
	FrameEnd   int

	// StepCount is the number of evenly spaced rotation angles per frame.
	StepCount int

	// FrameNames names frames relative to FrameStart.
	FrameNames []string

	// AngleNames names rotation steps, in step order.
	AngleNames []string

	// PathTemplate is a two-slot format: frame name first, angle name second.
	PathTemplate string

	// PhaseOffset is added to every rotation angle, in radians.
	PhaseOffset float64

	// FramePolicy and AnglePolicy handle name shortages; empty means the default.
	FramePolicy ShortagePolicy
	AnglePolicy ShortagePolicy
}

// Shot is one unit of rendering work: a single frame seen from a single angle.
type Shot struct {
	// Ordinal is the zero-based position of the shot in the batch.
	Ordinal      int
	FrameIndex   int
	StepIndex    int
	AngleRadians float64
	FrameName    string
	AngleName    string
	OutputPath   string
}

// AngleDegrees returns the shot's rotation in degrees.
func (s Shot) AngleDegrees() float64 {
	return s.AngleRadians * 180 / math.Pi
}

// DegreesToRadians converts a phase offset from configuration units.
func DegreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
