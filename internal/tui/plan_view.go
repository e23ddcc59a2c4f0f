package tui

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rshade/spritebatch/internal/engine"
)

// RenderPlanSummary renders a boxed summary of a plan for interactive terminals.
func RenderPlanSummary(summary engine.PlanSummary, target string, width int) string {
	p := message.NewPrinter(language.English)

	var content strings.Builder
	content.WriteString(HeaderStyle.Render("SPRITE BATCH"))
	content.WriteString("\n\n")

	row := func(label, value string) {
		content.WriteString(LabelStyle.Render(label))
		content.WriteString(ValueStyle.Render(value))
		content.WriteString("\n")
	}
	if target != "" {
		row("Target:    ", target)
	}
	row("Frames:    ", p.Sprintf("%d-%d", summary.FrameStart, summary.FrameEnd))
	row("Angles:    ", p.Sprintf("%d", summary.Steps))
	row("Shots:     ", p.Sprintf("%d", summary.Shots))
	row("Template:  ", summary.Template)

	for _, w := range summary.Warnings {
		content.WriteString(WarnStyle.Render("warning: " + w))
		content.WriteString("\n")
	}

	if width <= borderPadding {
		width = renderDefaultWidth
	}
	return BoxStyle.Width(width - borderPadding).Render(strings.TrimRight(content.String(), "\n"))
}
