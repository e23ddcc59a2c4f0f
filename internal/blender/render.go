package blender

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rshade/spritebatch/internal/engine"
	"github.com/rshade/spritebatch/internal/sprite"
)

// Renderer renders shots by running Blender once per shot against the blend
// file, applying the target's current angle and the shot's frame first.
type Renderer struct {
	opts   Options
	target RotatedTarget
}

// RotatedTarget is a Target that knows how its angle is applied in the scene.
type RotatedTarget interface {
	engine.Target
	Mode() Mode
}

var (
	_ engine.Renderer = (*Renderer)(nil)
	_ RotatedTarget   = (*Object)(nil)
)

// NewRenderer creates a Renderer that rotates target.
func NewRenderer(opts Options, target RotatedTarget) (*Renderer, error) {
	if opts.BlendFile == "" {
		return nil, ErrNoBlendFile
	}
	if target == nil {
		return nil, engine.ErrNilTarget
	}
	return &Renderer{opts: opts, target: target}, nil
}

// Render writes the image for shot. The Blender process is not tied to ctx
// cancellation: a shot that has started always finishes, and the driver stops
// before the next one.
func (r *Renderer) Render(ctx context.Context, shot sprite.Shot) error {
	out, err := filepath.Abs(shot.OutputPath)
	if err != nil {
		return fmt.Errorf("resolving output path %s: %w", shot.OutputPath, err)
	}
	if mkdirErr := os.MkdirAll(filepath.Dir(out), 0o750); mkdirErr != nil {
		return fmt.Errorf("creating output directory: %w", mkdirErr)
	}

	angle, err := r.target.Orientation(ctx)
	if err != nil {
		return fmt.Errorf("reading %s orientation: %w", r.target.Name(), err)
	}
	script := renderScript(r.target.Name(), r.target.Mode(), angle, shot.FrameIndex, out)

	_, err = runBlenderCommand(context.WithoutCancel(ctx), blenderCmdConfig{
		opts:           r.opts,
		timeout:        r.opts.RenderTimeout,
		defaultTimeout: DefaultRenderTimeout,
		args:           pythonArgs(r.opts.BlendFile, script),
		operation:      "render",
		logMessage:     "rendering " + out,
		wrapErr:        RenderError,
	})
	return err
}

// renderScript builds the Python run inside Blender for one shot.
func renderScript(object string, mode Mode, angle float64, frame int, outPath string) string {
	var b strings.Builder
	b.WriteString("import bpy, math\n")
	b.WriteString("scene = bpy.context.scene\n")
	fmt.Fprintf(&b, "scene.frame_set(%d)\n", frame)
	fmt.Fprintf(&b, "obj = bpy.data.objects[%s]\n", pyString(object))
	fmt.Fprintf(&b, "angle = %s\n", pyFloat(angle))

	switch mode {
	case ModeOrbit:
		// Keep the camera's height and horizontal distance from the origin.
		b.WriteString("d = math.hypot(obj.location.x, obj.location.y)\n")
		b.WriteString("obj.location.x = math.cos(angle) * d\n")
		b.WriteString("obj.location.y = math.sin(angle) * d\n")
	default:
		b.WriteString("obj.rotation_euler[2] = angle\n")
	}

	fmt.Fprintf(&b, "scene.render.filepath = %s\n", pyString(outPath))
	b.WriteString("bpy.ops.render.render(animation=False, write_still=True)\n")
	return b.String()
}

// pyString quotes s as a Python string literal. Go's quoting escapes are a
// subset of Python's for the characters it emits.
func pyString(s string) string {
	return strconv.Quote(s)
}

// pyFloat formats f as a Python float literal.
func pyFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
