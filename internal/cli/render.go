package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rshade/spritebatch/internal/blender"
	"github.com/rshade/spritebatch/internal/config"
	"github.com/rshade/spritebatch/internal/engine"
	"github.com/rshade/spritebatch/internal/engine/batch"
	"github.com/rshade/spritebatch/internal/logging"
	"github.com/rshade/spritebatch/internal/sprite"
	"github.com/rshade/spritebatch/internal/tui"
)

// renderFlags holds the flags of the render command.
type renderFlags struct {
	batchFlags

	skipExisting bool
	manifest     string
	noTUI        bool
}

// NewRenderCmd creates the render command, which renders every shot of the
// batch through headless Blender.
func NewRenderCmd() *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render every frame from every angle",
		Long: `Renders the blend file once per frame and rotation angle, writing one image per shot.

The target object is turned (yaw mode) or moved around the origin (orbit mode)
in evenly spaced steps. Its original orientation is restored when the batch ends.
Press Ctrl-C to stop after the shot currently rendering; completed images are kept.`,
		Example: `  # Render 8 angles of each scene frame
  spritebatch render --blend knight.blend --target Knight

  # Render 16 named directions for frames 1-4
  spritebatch render --blend knight.blend --target Knight --steps 16 --frame-start 1 --frame-end 4

  # Resume a batch, skipping images that already exist
  spritebatch render --blend knight.blend --target Knight --skip-existing`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRender(cmd, &flags)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&flags.skipExisting, "skip-existing", false, "skip shots whose output image already exists")
	cmd.Flags().StringVar(&flags.manifest, "manifest", "", "write a JSON manifest of rendered shots to this path")
	cmd.Flags().BoolVar(&flags.noTUI, "no-tui", false, "disable the interactive progress view")

	return cmd
}

// renderJob is a fully resolved batch ready to run.
type renderJob struct {
	cfg    *config.Config
	plan   *sprite.Plan
	target *blender.Object
	driver *engine.Driver
}

func runRender(cmd *cobra.Command, flags *renderFlags) error {
	cfg, err := flags.loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("skip-existing") {
		cfg.Render.SkipExisting = flags.skipExisting
	}
	if cmd.Flags().Changed("manifest") {
		cfg.Render.Manifest = flags.manifest
	}

	// Configuration problems are reported before any rendering starts.
	job, err := prepareRender(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	printWarnings(cmd, job.plan)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var result engine.BatchResult
	if !flags.noTUI && isTerminal(cmd.OutOrStdout()) && isTerminal(os.Stdin) {
		result, err = runWithTUI(ctx, cmd, job)
	} else {
		result, err = job.driver.Run(ctx, job.plan)
	}

	if cfg.Render.Manifest != "" && (result.ShotsCompleted > 0 || result.ShotsSkipped > 0) {
		runID := logging.GetOrGenerateRunID(ctx)
		if saveErr := engine.NewManifest(runID, job.target.Name(), result).Save(cfg.Render.Manifest); saveErr != nil {
			logger.Error().Ctx(ctx).Err(saveErr).Str("path", cfg.Render.Manifest).Msg("writing manifest")
			if err == nil {
				err = saveErr
			}
		} else {
			cmd.PrintErrf("Manifest written to %s\n", cfg.Render.Manifest)
		}
	}

	printRenderSummary(cmd, result)
	return err
}

// prepareRender checks Blender, resolves the frame range and target, and
// validates the batch.
func prepareRender(ctx context.Context, cfg *config.Config) (*renderJob, error) {
	opts, err := cfg.BlenderOptions()
	if err != nil {
		return nil, configError(err)
	}
	if opts.BlendFile == "" {
		return nil, configError(blender.ErrNoBlendFile)
	}

	binary, err := blender.FindBinary(opts.Binary)
	if err != nil {
		return nil, err
	}
	opts.Binary = binary

	ver, err := blender.Version(ctx, opts)
	if err != nil {
		return nil, err
	}
	if err = blender.CheckVersion(ver); err != nil {
		return nil, err
	}
	logger.Debug().Ctx(ctx).Str("binary", binary).Str("version", ver.String()).Msg("using blender")

	resolver := newResolver(ctx, cfg, opts)
	start, end, err := resolveFrameRange(ctx, cfg, resolverSceneRange(resolver))
	if err != nil {
		return nil, err
	}

	plan, err := buildPlan(cfg, start, end)
	if err != nil {
		return nil, err
	}

	target, err := resolver.ResolveObject(ctx, cfg.Render.Target)
	if err != nil {
		return nil, err
	}

	renderer, err := blender.NewRenderer(opts, target)
	if err != nil {
		return nil, err
	}
	driver, err := engine.NewDriver(target, renderer)
	if err != nil {
		return nil, err
	}
	driver.WithSkipExisting(cfg.Render.SkipExisting)

	return &renderJob{cfg: cfg, plan: plan, target: target, driver: driver}, nil
}

// runWithTUI runs the driver and the progress view side by side. The view
// only observes progress; stopping from the view cancels the batch context.
func runWithTUI(ctx context.Context, cmd *cobra.Command, job *renderJob) (engine.BatchResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ctx = quietConsoleLogs(ctx)

	model := tui.NewRenderModel(job.target.Name(), job.plan.Len(), cancel)
	program := tea.NewProgram(model, tea.WithOutput(cmd.OutOrStdout()))

	job.driver.WithProgressCallback(func(shot sprite.Shot, progress batch.ProgressSnapshot) {
		program.Send(tui.ShotDoneMsg{Shot: shot, Progress: progress})
	})

	var (
		result engine.BatchResult
		runErr error
		g      errgroup.Group
	)
	g.Go(func() error {
		result, runErr = job.driver.Run(ctx, job.plan)
		program.Send(tui.BatchDoneMsg{Result: result, Err: runErr})
		return nil
	})
	g.Go(func() error {
		if _, err := program.Run(); err != nil {
			cancel()
			return fmt.Errorf("progress view: %w", err)
		}
		return nil
	})
	viewErr := g.Wait()

	if runErr != nil {
		return result, runErr
	}
	return result, viewErr
}

// quietConsoleLogs keeps only errors from a terminal logger while the progress
// view owns the screen. A file-backed logger keeps its level so the per-shot
// lines still reach the log file.
func quietConsoleLogs(ctx context.Context) context.Context {
	if logging.LogsToFile(ctx) {
		return ctx
	}
	quiet := logging.FromContext(ctx).Level(zerolog.ErrorLevel)
	return quiet.WithContext(ctx)
}

// summaryPrecision is the rounding applied to the elapsed time in the summary.
const summaryPrecision = 100 * time.Millisecond

// printRenderSummary writes the final shot counts.
func printRenderSummary(cmd *cobra.Command, result engine.BatchResult) {
	p := message.NewPrinter(language.English)
	out := cmd.OutOrStdout()

	switch {
	case result.Aborted:
		_, _ = p.Fprintf(out, "Aborted: rendered %d of %d shots", result.ShotsCompleted, result.ShotsTotal)
	default:
		_, _ = p.Fprintf(out, "Rendered %d of %d shots", result.ShotsCompleted, result.ShotsTotal)
	}
	if result.ShotsSkipped > 0 {
		_, _ = p.Fprintf(out, " (%d skipped)", result.ShotsSkipped)
	}
	_, _ = fmt.Fprintf(out, " in %s\n", result.Elapsed.Round(summaryPrecision))
}
