package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rshade/spritebatch/internal/engine/batch"
	"github.com/rshade/spritebatch/internal/logging"
	"github.com/rshade/spritebatch/internal/sprite"
)

// Common driver errors.
var (
	ErrNilTarget   = errors.New("render target cannot be nil")
	ErrNilRenderer = errors.New("renderer cannot be nil")
	ErrNilPlan     = errors.New("plan cannot be nil")
)

// BatchResult summarizes a driven batch. Aborted is set when the batch stopped
// early because its context was cancelled; that is not an error.
type BatchResult struct {
	ShotsTotal     int
	ShotsCompleted int
	ShotsSkipped   int
	Aborted        bool
	Elapsed        time.Duration
	// Shots lists every shot rendered or skipped, in order.
	Shots []ShotRecord
}

// ShotRecord is a finished shot and whether it was skipped.
type ShotRecord struct {
	sprite.Shot
	Skipped bool
}

// ProgressCallback is invoked after each shot with the shot just finished.
type ProgressCallback func(shot sprite.Shot, progress batch.ProgressSnapshot)

// Driver runs a Plan against a Target and Renderer, one shot at a time.
type Driver struct {
	target       Target
	renderer     Renderer
	onProgress   ProgressCallback
	skipExisting bool
}

// NewDriver creates a Driver for the given target and renderer.
func NewDriver(target Target, renderer Renderer) (*Driver, error) {
	if target == nil {
		return nil, ErrNilTarget
	}
	if renderer == nil {
		return nil, ErrNilRenderer
	}
	return &Driver{target: target, renderer: renderer}, nil
}

// WithProgressCallback sets a callback invoked after every shot.
func (d *Driver) WithProgressCallback(callback ProgressCallback) *Driver {
	d.onProgress = callback
	return d
}

// WithSkipExisting makes the driver skip shots whose output file already exists.
func (d *Driver) WithSkipExisting(skip bool) *Driver {
	d.skipExisting = skip
	return d
}

// Run renders every shot in plan in order. For each shot it applies the
// shot's angle to the target, invokes the renderer, then checks ctx. When ctx
// is cancelled the loop stops after the current render and returns a result
// with Aborted set and a nil error. A render failure stops the batch; renders
// are not retried. In every case the target's original orientation is
// restored before Run returns, and a restore failure is joined to the error.
func (d *Driver) Run(ctx context.Context, plan *sprite.Plan) (result BatchResult, err error) {
	if plan == nil {
		return BatchResult{}, ErrNilPlan
	}

	log := logging.ComponentLogger(*logging.FromContext(ctx), "engine")
	progress := batch.NewProgress(plan.Len())
	result.ShotsTotal = plan.Len()
	defer func() { result.Elapsed = progress.ElapsedTime() }()

	if ctx.Err() != nil {
		result.Aborted = true
		log.Warn().Ctx(ctx).Msg("batch cancelled before the first shot")
		return result, nil
	}

	original, err := d.target.Orientation(ctx)
	if err != nil {
		return result, fmt.Errorf("reading orientation of %s: %w", d.target.Name(), err)
	}
	defer func() {
		// Restore even when ctx is cancelled; the target must not be left rotated.
		if restoreErr := d.target.SetOrientation(context.WithoutCancel(ctx), original); restoreErr != nil {
			err = errors.Join(err, fmt.Errorf("restoring orientation of %s: %w", d.target.Name(), restoreErr))
		}
	}()

	log.Info().Ctx(ctx).
		Str("target", d.target.Name()).
		Int("shots", plan.Len()).
		Int("steps", plan.EffectiveSteps()).
		Int("frame_start", plan.Spec().FrameStart).
		Int("frame_end", plan.EffectiveFrameEnd()).
		Msg("starting batch")

	for shot := range plan.Shots() {
		skipped, shotErr := d.runShot(ctx, shot)
		if shotErr != nil {
			log.Error().Ctx(ctx).Err(shotErr).
				Int("frame", shot.FrameIndex).
				Str("angle_name", shot.AngleName).
				Msg("render failed")
			return result, shotErr
		}

		if skipped {
			progress.AddSkipped()
			result.ShotsSkipped++
		} else {
			progress.AddCompleted()
			result.ShotsCompleted++
		}
		result.Shots = append(result.Shots, ShotRecord{Shot: shot, Skipped: skipped})

		log.Info().Ctx(ctx).
			Int("frame", shot.FrameIndex).
			Str("angle_name", shot.AngleName).
			Float64("angle_rad", shot.AngleRadians).
			Str("path", shot.OutputPath).
			Bool("skipped", skipped).
			Msgf("%d:%s: %f", shot.FrameIndex, shot.AngleName, shot.AngleRadians)

		if d.onProgress != nil {
			d.onProgress(shot, progress.Snapshot())
		}

		if ctx.Err() != nil {
			result.Aborted = true
			log.Warn().Ctx(ctx).
				Int("completed", result.ShotsCompleted).
				Int("total", result.ShotsTotal).
				Msg("batch cancelled, stopping after current shot")
			break
		}
	}

	log.Info().Ctx(ctx).
		Int("completed", result.ShotsCompleted).
		Int("skipped", result.ShotsSkipped).
		Bool("aborted", result.Aborted).
		Msgf("rendered %d shots", result.ShotsCompleted)

	return result, nil
}

// runShot applies the shot's angle and renders it. It reports whether the
// shot was skipped because its output already existed.
func (d *Driver) runShot(ctx context.Context, shot sprite.Shot) (bool, error) {
	if d.skipExisting {
		if _, statErr := os.Stat(shot.OutputPath); statErr == nil {
			return true, nil
		}
	}

	if err := d.target.SetOrientation(ctx, shot.AngleRadians); err != nil {
		return false, fmt.Errorf("shot %d (frame %d, angle %s): setting orientation: %w",
			shot.Ordinal, shot.FrameIndex, shot.AngleName, err)
	}
	if err := d.renderer.Render(ctx, shot); err != nil {
		return false, fmt.Errorf("shot %d (frame %d, angle %s): %w",
			shot.Ordinal, shot.FrameIndex, shot.AngleName, err)
	}
	return false, nil
}
