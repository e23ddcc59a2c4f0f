package engine

import (
	"context"

	"github.com/rshade/spritebatch/internal/sprite"
)

// Target is the scene object whose orientation varies per rotation step.
// Depending on the host adapter this is an object's yaw or a camera's orbital
// position; either way it is keyed only by an angle in radians.
type Target interface {
	// Name identifies the target in logs.
	Name() string
	// Orientation returns the current angle in radians.
	Orientation(ctx context.Context) (float64, error)
	// SetOrientation applies an angle in radians.
	SetOrientation(ctx context.Context, radians float64) error
}

// Renderer writes one image for a shot to shot.OutputPath. Render blocks until
// the image is written; an in-flight render is not interrupted by cancellation.
type Renderer interface {
	Render(ctx context.Context, shot sprite.Shot) error
}

// TargetResolver looks up a Target by name. Unknown names yield a
// *sprite.ConfigError wrapping sprite.ErrTargetNotFound.
type TargetResolver interface {
	Resolve(ctx context.Context, name string) (Target, error)
}
