package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/rshade/spritebatch/internal/blender"
	"github.com/rshade/spritebatch/internal/cache"
	"github.com/rshade/spritebatch/internal/config"
	"github.com/rshade/spritebatch/internal/sprite"
)

// batchFlags are the batch settings shared by render and plan. Flags override
// the configuration only when set on the command line.
type batchFlags struct {
	configPath   string
	blendFile    string
	blenderPath  string
	target       string
	mode         string
	steps        int
	frameStart   int
	frameEnd     int
	frameNames   string
	angleNames   string
	pathTemplate string
	phaseOffset  float64
	framePolicy  string
	anglePolicy  string
	noCache      bool
}

func (f *batchFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.configPath, "config", "", "config file to use instead of the global and project config")
	flags.StringVar(&f.blendFile, "blend", "", "blend file to render")
	flags.StringVar(&f.blenderPath, "blender", "", "blender executable (default: blender in PATH)")
	flags.StringVar(&f.target, "target", "", "object to rotate (orbit mode defaults to the scene camera)")
	flags.StringVar(&f.mode, "mode", "", "rotation mode: yaw turns the target, orbit moves it around the origin")
	flags.IntVar(&f.steps, "steps", 0, "number of rotation angles per frame")
	flags.IntVar(&f.frameStart, "frame-start", 0, "first frame (default: scene start)")
	flags.IntVar(&f.frameEnd, "frame-end", 0, "last frame, inclusive (default: scene end)")
	flags.StringVar(&f.frameNames, "frame-names", "",
		"frame names: one per character, or comma separated (default: A, B, C, ...)")
	flags.StringVar(&f.angleNames, "angle-names", "",
		"angle names: one per character, or comma separated (default: 1..steps)")
	flags.StringVar(&f.pathTemplate, "path", "", "output path template; first slot is the frame name, second the angle name")
	flags.Float64Var(&f.phaseOffset, "phase-offset", 0, "angle of step 0 in degrees")
	flags.StringVar(&f.framePolicy, "frame-policy", "", "too few frame names: clamp or strict")
	flags.StringVar(&f.anglePolicy, "angle-policy", "", "too few angle names: clamp or strict")
	flags.BoolVar(&f.noCache, "no-cache", false, "always query blender for the scene instead of using the scene cache")
}

// loadConfig returns a private copy of the effective configuration with
// command-line overrides applied.
func (f *batchFlags) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	if f.configPath != "" {
		loaded, err := config.LoadFile(f.configPath)
		if err != nil {
			return nil, configError(err)
		}
		cfg = loaded
	} else {
		cfg = config.GetGlobalConfig().Clone()
	}

	changed := cmd.Flags().Changed
	if changed("blend") {
		cfg.Blender.BlendFile = f.blendFile
	}
	if changed("blender") {
		cfg.Blender.Binary = f.blenderPath
	}
	if changed("target") {
		cfg.Render.Target = f.target
	}
	if changed("mode") {
		cfg.Render.Mode = f.mode
	}
	if changed("steps") {
		cfg.Render.Steps = f.steps
	}
	if changed("frame-start") {
		v := f.frameStart
		cfg.Render.FrameStart = &v
	}
	if changed("frame-end") {
		v := f.frameEnd
		cfg.Render.FrameEnd = &v
	}
	if changed("frame-names") {
		cfg.Render.CustomFrameNames = true
		cfg.Render.FrameNames = f.frameNames
	}
	if changed("angle-names") {
		cfg.Render.AngleNames = f.angleNames
	}
	if changed("path") {
		cfg.Render.PathTemplate = f.pathTemplate
	}
	if changed("phase-offset") {
		cfg.Render.PhaseOffsetDegrees = f.phaseOffset
	}
	if changed("frame-policy") {
		cfg.Render.FramePolicy = f.framePolicy
	}
	if changed("angle-policy") {
		cfg.Render.AnglePolicy = f.anglePolicy
	}
	if f.noCache {
		cfg.Blender.SceneCache = false
	}

	if err := cfg.Validate(); err != nil {
		return nil, configError(err)
	}
	return cfg, nil
}

// sceneRangeFunc reports the frame range stored in the scene.
type sceneRangeFunc func(ctx context.Context) (start, end int, err error)

// resolveFrameRange fills unset range bounds from the scene, when one is
// available. Without a scene the range defaults to the single frame start.
func resolveFrameRange(ctx context.Context, cfg *config.Config, scene sceneRangeFunc) (int, int, error) {
	start, end := 1, 0
	haveStart, haveEnd := cfg.Render.FrameStart != nil, cfg.Render.FrameEnd != nil
	if haveStart {
		start = *cfg.Render.FrameStart
	}
	if haveEnd {
		end = *cfg.Render.FrameEnd
	}

	if (!haveStart || !haveEnd) && scene != nil {
		sceneStart, sceneEnd, err := scene(ctx)
		if err != nil {
			return 0, 0, err
		}
		if !haveStart {
			start = sceneStart
		}
		if !haveEnd {
			end = sceneEnd
		}
		haveEnd = true
	}

	if !haveEnd {
		end = start
	}
	return start, end, nil
}

// newResolver creates a scene resolver, backed by the on-disk scene cache
// when enabled. A cache that cannot be opened is logged and skipped.
func newResolver(ctx context.Context, cfg *config.Config, opts blender.Options) *blender.Resolver {
	r := blender.NewResolver(opts)
	if !cfg.Blender.SceneCache {
		return r
	}

	dir, err := config.GetCacheDir()
	if err == nil {
		var store *cache.FileStore
		if store, err = cache.NewFileStore(dir, cfg.Blender.SceneCacheTTL); err == nil {
			return r.WithStore(store)
		}
	}
	logger.Warn().Ctx(ctx).Err(err).Msg("scene cache disabled")
	return r
}

// resolverSceneRange adapts a blender.Resolver to sceneRangeFunc.
func resolverSceneRange(r *blender.Resolver) sceneRangeFunc {
	return func(ctx context.Context) (int, int, error) {
		scene, err := r.Scene(ctx)
		if err != nil {
			return 0, 0, err
		}
		return scene.FrameStart, scene.FrameEnd, nil
	}
}

// buildPlan converts cfg to a validated plan for the given range.
func buildPlan(cfg *config.Config, start, end int) (*sprite.Plan, error) {
	spec, err := cfg.BatchSpec(start, end)
	if err != nil {
		return nil, configError(err)
	}
	plan, err := sprite.Validate(spec)
	if err != nil {
		return nil, err
	}
	return plan, nil
}

// printWarnings reports clamp warnings on stderr.
func printWarnings(cmd *cobra.Command, plan *sprite.Plan) {
	for _, w := range plan.Warnings {
		cmd.PrintErrf("Warning: %v\n", w)
		logger.Warn().Ctx(cmd.Context()).Err(w).
			Int("requested", w.Requested).
			Int("available", w.Available).
			Msg("batch truncated")
	}
}
