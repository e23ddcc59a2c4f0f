package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rshade/spritebatch/internal/config"
	"github.com/rshade/spritebatch/internal/engine"
	"github.com/rshade/spritebatch/internal/tui"
)

// planFlags holds the flags of the plan command.
type planFlags struct {
	batchFlags

	output  string
	summary bool
}

// NewPlanCmd creates the plan command, a dry run that lists every shot the
// batch would render without invoking the renderer.
func NewPlanCmd() *cobra.Command {
	var flags planFlags

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "List the shots a render would produce",
		Long: `Validates the batch and lists every shot in render order with its frame,
angle and output path. Nothing is rendered.

When the frame range is not given and a blend file is configured, the scene's
frame range is read from the blend file. Otherwise the range defaults to frame 1.`,
		Example: `  # Show the shots for frames 1-3 at 8 angles
  spritebatch plan --frame-start 1 --frame-end 3

  # Emit one JSON object per shot
  spritebatch plan --frame-start 1 --frame-end 3 --output ndjson

  # Show only a summary of the batch
  spritebatch plan --blend knight.blend --summary`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPlan(cmd, &flags)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output format: table, json or ndjson (default from config)")
	cmd.Flags().BoolVar(&flags.summary, "summary", false, "print only a summary of the batch")

	return cmd
}

func runPlan(cmd *cobra.Command, flags *planFlags) error {
	cfg, err := flags.loadConfig(cmd)
	if err != nil {
		return err
	}

	format := cfg.Output.DefaultFormat
	if flags.output != "" {
		format = flags.output
	}

	var scene sceneRangeFunc
	if cfg.Blender.BlendFile != "" {
		opts, optsErr := cfg.BlenderOptions()
		if optsErr != nil {
			return configError(optsErr)
		}
		scene = resolverSceneRange(newResolver(cmd.Context(), cfg, opts))
	}

	start, end, err := resolveFrameRange(cmd.Context(), cfg, scene)
	if err != nil {
		return err
	}
	plan, err := buildPlan(cfg, start, end)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if flags.summary {
		width := 0
		if isTerminal(out) {
			width = terminalWidth()
		}
		_, err = fmt.Fprintln(out, tui.RenderPlanSummary(engine.SummarizePlan(plan), cfg.Render.Target, width))
		return err
	}

	switch format {
	case config.FormatJSON:
		return engine.RenderPlanAsJSON(out, plan)
	case config.FormatNDJSON:
		return engine.RenderPlanAsNDJSON(out, plan)
	case config.FormatTable:
		return engine.RenderPlanAsTable(out, plan)
	default:
		return configError(fmt.Errorf("unsupported output format %q (expected table, json or ndjson)", format))
	}
}

// terminalWidth returns the width of stdout, or 0 when unknown.
func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 0
	}
	return width
}
