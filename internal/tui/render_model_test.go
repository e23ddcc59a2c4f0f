package tui

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/spritebatch/internal/engine"
	"github.com/rshade/spritebatch/internal/engine/batch"
	"github.com/rshade/spritebatch/internal/sprite"
)

func testShot(ordinal int) sprite.Shot {
	return sprite.Shot{
		Ordinal:    ordinal,
		FrameIndex: 1,
		StepIndex:  ordinal,
		FrameName:  "A",
		AngleName:  "1",
		OutputPath: "sprites/spriteA1.png",
	}
}

func TestNewRenderModel(t *testing.T) {
	m := NewRenderModel("Hero", 16, nil)

	require.NotNil(t, m)
	assert.Equal(t, RenderStateRunning, m.State())
	assert.Equal(t, 16, m.total)
	assert.Nil(t, m.Init())
}

func TestRenderModel_ShotDone(t *testing.T) {
	m := NewRenderModel("Hero", 8, nil)

	for i := range 7 {
		_, cmd := m.Update(ShotDoneMsg{
			Shot:     testShot(i),
			Progress: batch.ProgressSnapshot{TotalShots: 8, CompletedShots: i + 1},
		})
		assert.Nil(t, cmd)
	}

	assert.Equal(t, 7, m.snapshot.CompletedShots)
	assert.Len(t, m.recent, recentShotCount)
	assert.Equal(t, 6, m.recent[len(m.recent)-1].Ordinal)
	assert.Contains(t, m.View(), "7/8 shots")
}

func TestRenderModel_StopRequestCancelsOnce(t *testing.T) {
	calls := 0
	m := NewRenderModel("Hero", 8, func() { calls++ })

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.Nil(t, cmd, "stopping must not quit before the batch reports back")
	assert.Equal(t, RenderStateStopping, m.State())

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	assert.Equal(t, 1, calls)
	assert.Contains(t, m.View(), "Stopping after the current shot")
}

func TestRenderModel_BatchDone(t *testing.T) {
	tests := []struct {
		name string
		msg  BatchDoneMsg
		want string
	}{
		{
			name: "completed",
			msg:  BatchDoneMsg{Result: engine.BatchResult{ShotsTotal: 1200, ShotsCompleted: 1200}},
			want: "Rendered 1,200 shots",
		},
		{
			name: "aborted",
			msg:  BatchDoneMsg{Result: engine.BatchResult{ShotsTotal: 8, ShotsCompleted: 2, Aborted: true}},
			want: "Aborted after 2 of 8 shots",
		},
		{
			name: "failed",
			msg:  BatchDoneMsg{Err: errors.New("blender exited 1")},
			want: "Error: blender exited 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewRenderModel("Hero", tt.msg.Result.ShotsTotal, nil)
			_, cmd := m.Update(tt.msg)

			require.NotNil(t, cmd)
			assert.IsType(t, tea.QuitMsg{}, cmd())
			assert.Equal(t, RenderStateDone, m.State())
			assert.Contains(t, m.View(), tt.want)

			result, err := m.Result()
			assert.Equal(t, tt.msg.Result, result)
			assert.Equal(t, tt.msg.Err, err)
		})
	}
}

func TestRenderModel_WindowSize(t *testing.T) {
	m := NewRenderModel("Hero", 8, nil)
	m.Update(tea.WindowSizeMsg{Width: 40, Height: 10})

	assert.Equal(t, 40, m.width)
	assert.LessOrEqual(t, m.bar.Width, maxBarWidth)
}

func TestRenderModel_Stats(t *testing.T) {
	m := NewRenderModel("Hero", 8, nil)
	m.Update(ShotDoneMsg{
		Shot: testShot(0),
		Progress: batch.ProgressSnapshot{
			TotalShots:     8,
			CompletedShots: 2,
			SkippedShots:   1,
			ElapsedTime:    3 * time.Second,
			Remaining:      5 * time.Second,
			ShotsPerSecond: 0.5,
		},
	})

	view := m.View()
	assert.Contains(t, view, "3s")
	assert.Contains(t, view, "30.0 shots/min")
	assert.Contains(t, view, "ETA")
	assert.Contains(t, view, "Skipped")
}
