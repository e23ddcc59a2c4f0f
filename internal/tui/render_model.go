package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rshade/spritebatch/internal/engine"
	"github.com/rshade/spritebatch/internal/engine/batch"
	"github.com/rshade/spritebatch/internal/sprite"
)

// RenderState is the lifecycle state of the render view.
type RenderState int

const (
	// RenderStateRunning means shots are being rendered.
	RenderStateRunning RenderState = iota
	// RenderStateStopping means cancellation was requested and the current shot is finishing.
	RenderStateStopping
	// RenderStateDone means the batch finished, was aborted, or failed.
	RenderStateDone
)

// Default dimensions for the render view.
const (
	renderDefaultWidth = 80
	maxBarWidth        = 60
	recentShotCount    = 5
	secondsPerMinute   = 60
)

// ShotDoneMsg reports a finished shot.
type ShotDoneMsg struct {
	Shot     sprite.Shot
	Progress batch.ProgressSnapshot
}

// BatchDoneMsg reports the end of the batch.
type BatchDoneMsg struct {
	Result engine.BatchResult
	Err    error
}

// RenderModel is the Bubble Tea model that shows batch progress. It never
// drives rendering itself; it observes ShotDoneMsg and BatchDoneMsg and asks
// the batch to stop through cancel.
type RenderModel struct {
	target string
	total  int
	cancel context.CancelFunc

	bar      progress.Model
	snapshot batch.ProgressSnapshot
	recent   []sprite.Shot

	state  RenderState
	result engine.BatchResult
	err    error

	width   int
	printer *message.Printer
}

// NewRenderModel creates a render view for a batch of total shots on target.
// cancel is called when the user asks to stop.
func NewRenderModel(target string, total int, cancel context.CancelFunc) *RenderModel {
	bar := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	bar.Width = maxBarWidth
	return &RenderModel{
		target:  target,
		total:   total,
		cancel:  cancel,
		bar:     bar,
		state:   RenderStateRunning,
		width:   renderDefaultWidth,
		printer: message.NewPrinter(language.English),
	}
}

// State returns the current view state.
func (m *RenderModel) State() RenderState { return m.state }

// Result returns the batch result once the view is done.
func (m *RenderModel) Result() (engine.BatchResult, error) { return m.result, m.err }

// Init initializes the model.
func (m *RenderModel) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model state.
func (m *RenderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.Width = min(maxBarWidth, max(msg.Width-borderPadding*2, 10))
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case ShotDoneMsg:
		m.snapshot = msg.Progress
		m.recent = append(m.recent, msg.Shot)
		if len(m.recent) > recentShotCount {
			m.recent = m.recent[len(m.recent)-recentShotCount:]
		}
		return m, nil

	case BatchDoneMsg:
		m.state = RenderStateDone
		m.result = msg.Result
		m.err = msg.Err
		return m, tea.Quit
	}

	return m, nil
}

// handleKeyMsg processes keyboard input. Quitting only requests a stop; the
// view stays up until the batch reports it has finished.
//
//nolint:exhaustive // Only quit keys are relevant while rendering.
func (m *RenderModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.requestStop()
	case tea.KeyRunes:
		if string(msg.Runes) == "q" {
			m.requestStop()
		}
	}
	return m, nil
}

func (m *RenderModel) requestStop() {
	if m.state != RenderStateRunning {
		return
	}
	m.state = RenderStateStopping
	if m.cancel != nil {
		m.cancel()
	}
}

// View renders the progress view.
func (m *RenderModel) View() string {
	var sections []string

	sections = append(sections, HeaderStyle.Render("RENDERING ")+ValueStyle.Render(m.target))

	percent := 0.0
	if m.total > 0 {
		percent = float64(m.snapshot.Done()) / float64(m.total)
	}
	counts := m.printer.Sprintf("%d/%d shots", m.snapshot.Done(), m.total)
	sections = append(sections, m.bar.ViewAs(percent)+" "+LabelStyle.Render(counts))

	sections = append(sections, m.renderStats())

	for _, shot := range m.recent {
		sections = append(sections, SubtleStyle.Render(
			fmt.Sprintf("  %s %s  %7.2f°  %s", shot.FrameName, shot.AngleName, shot.AngleDegrees(), shot.OutputPath)))
	}

	switch m.state {
	case RenderStateStopping:
		sections = append(sections, WarnStyle.Render("Stopping after the current shot..."))
	case RenderStateDone:
		sections = append(sections, m.renderOutcome())
	case RenderStateRunning:
		sections = append(sections, SubtleStyle.Render("q / ctrl+c: stop after current shot"))
	}

	return BoxStyle.Width(max(m.width-borderPadding, 20)).Render(lipgloss.JoinVertical(lipgloss.Left, sections...)) + "\n"
}

func (m *RenderModel) renderStats() string {
	var b strings.Builder
	b.WriteString(LabelStyle.Render("Elapsed: "))
	b.WriteString(ValueStyle.Render(m.snapshot.ElapsedTime.Round(time.Second).String()))
	if m.snapshot.Remaining > 0 {
		b.WriteString(LabelStyle.Render("   ETA: "))
		b.WriteString(ValueStyle.Render(m.snapshot.Remaining.Round(time.Second).String()))
	}
	if m.snapshot.ShotsPerSecond > 0 {
		b.WriteString(LabelStyle.Render("   Rate: "))
		b.WriteString(ValueStyle.Render(fmt.Sprintf("%.1f shots/min", m.snapshot.ShotsPerSecond*secondsPerMinute)))
	}
	if m.snapshot.SkippedShots > 0 {
		b.WriteString(LabelStyle.Render("   Skipped: "))
		b.WriteString(ValueStyle.Render(m.printer.Sprintf("%d", m.snapshot.SkippedShots)))
	}
	return b.String()
}

func (m *RenderModel) renderOutcome() string {
	switch {
	case m.err != nil:
		return ErrorStyle.Render("Error: " + m.err.Error())
	case m.result.Aborted:
		return WarnStyle.Render(m.printer.Sprintf("Aborted after %d of %d shots", m.result.ShotsCompleted, m.result.ShotsTotal))
	default:
		return OKStyle.Render(m.printer.Sprintf("Rendered %d shots", m.result.ShotsCompleted))
	}
}
