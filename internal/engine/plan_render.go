package engine

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rshade/spritebatch/internal/sprite"
)

// planTabPadding is the minimum padding between columns in the plan table.
const planTabPadding = 2

// PlanRow is one planned shot as rendered by the plan command.
type PlanRow struct {
	Ordinal      int     `json:"ordinal"`
	Frame        int     `json:"frame"`
	Step         int     `json:"step"`
	FrameName    string  `json:"frame_name"`
	AngleName    string  `json:"angle_name"`
	AngleRadians float64 `json:"angle_rad"`
	AngleDegrees float64 `json:"angle_deg"`
	Path         string  `json:"path"`
}

// PlanSummary is the header of the JSON plan output.
type PlanSummary struct {
	FrameStart int      `json:"frame_start"`
	FrameEnd   int      `json:"frame_end"`
	Steps      int      `json:"steps"`
	Shots      int      `json:"shots"`
	Template   string   `json:"path_template"`
	Warnings   []string `json:"warnings"`
}

// PlanJSONOutput is the top-level JSON plan document.
type PlanJSONOutput struct {
	Summary PlanSummary `json:"summary"`
	Shots   []PlanRow   `json:"shots"`
}

func newPlanRow(s sprite.Shot) PlanRow {
	return PlanRow{
		Ordinal:      s.Ordinal,
		Frame:        s.FrameIndex,
		Step:         s.StepIndex,
		FrameName:    s.FrameName,
		AngleName:    s.AngleName,
		AngleRadians: s.AngleRadians,
		AngleDegrees: s.AngleDegrees(),
		Path:         s.OutputPath,
	}
}

// SummarizePlan describes the effective batch of a validated plan.
func SummarizePlan(plan *sprite.Plan) PlanSummary {
	spec := plan.Spec()
	warnings := make([]string, 0, len(plan.Warnings))
	for _, w := range plan.Warnings {
		warnings = append(warnings, w.Error())
	}
	return PlanSummary{
		FrameStart: spec.FrameStart,
		FrameEnd:   plan.EffectiveFrameEnd(),
		Steps:      plan.EffectiveSteps(),
		Shots:      plan.Len(),
		Template:   spec.PathTemplate,
		Warnings:   warnings,
	}
}

// RenderPlanAsTable writes the planned shots as an aligned table followed by a total.
func RenderPlanAsTable(w io.Writer, plan *sprite.Plan) error {
	tw := tabwriter.NewWriter(w, 0, 0, planTabPadding, ' ', 0)

	if _, err := fmt.Fprintf(tw, "#\tFRAME\tNAME\tANGLE\tDEGREES\tPATH\n"); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if _, err := fmt.Fprintf(tw, "-\t-----\t----\t-----\t-------\t----\n"); err != nil {
		return fmt.Errorf("writing separator: %w", err)
	}

	for shot := range plan.Shots() {
		if _, err := fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%.2f\t%s\n",
			shot.Ordinal, shot.FrameIndex, shot.FrameName, shot.AngleName,
			shot.AngleDegrees(), shot.OutputPath,
		); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}

	if err := tw.Flush(); err != nil {
		return err
	}

	summary := SummarizePlan(plan)
	p := message.NewPrinter(language.English)
	if _, err := p.Fprintf(w, "\n%d shots: frames %d-%d, %d angles\n",
		summary.Shots, summary.FrameStart, summary.FrameEnd, summary.Steps); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}
	for _, warning := range summary.Warnings {
		if _, err := fmt.Fprintf(w, "warning: %s\n", warning); err != nil {
			return fmt.Errorf("writing warning: %w", err)
		}
	}
	return nil
}

// RenderPlanAsJSON writes the plan summary and every shot as one JSON document.
func RenderPlanAsJSON(w io.Writer, plan *sprite.Plan) error {
	output := PlanJSONOutput{
		Summary: SummarizePlan(plan),
		Shots:   make([]PlanRow, 0, plan.Len()),
	}
	for shot := range plan.Shots() {
		output.Shots = append(output.Shots, newPlanRow(shot))
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(output); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// RenderPlanAsNDJSON writes each planned shot as a separate JSON line.
func RenderPlanAsNDJSON(w io.Writer, plan *sprite.Plan) error {
	for shot := range plan.Shots() {
		data, err := json.Marshal(newPlanRow(shot))
		if err != nil {
			return fmt.Errorf("marshaling shot: %w", err)
		}
		if _, err = fmt.Fprintf(w, "%s\n", data); err != nil {
			return fmt.Errorf("writing NDJSON line: %w", err)
		}
	}
	return nil
}
