package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/spritebatch/internal/config"
)

func intPtr(v int) *int { return &v }

func TestResolveFrameRange(t *testing.T) {
	scene := func(context.Context) (int, int, error) { return 10, 40, nil }
	ctx := context.Background()

	tests := []struct {
		name      string
		start     *int
		end       *int
		scene     sceneRangeFunc
		wantStart int
		wantEnd   int
	}{
		{name: "explicit range ignores scene", start: intPtr(2), end: intPtr(5), scene: scene, wantStart: 2, wantEnd: 5},
		{name: "scene fills both", scene: scene, wantStart: 10, wantEnd: 40},
		{name: "scene fills end", start: intPtr(12), scene: scene, wantStart: 12, wantEnd: 40},
		{name: "scene fills start", end: intPtr(20), scene: scene, wantStart: 10, wantEnd: 20},
		{name: "no scene defaults to frame 1", wantStart: 1, wantEnd: 1},
		{name: "no scene single start", start: intPtr(7), wantStart: 7, wantEnd: 7},
		{name: "no scene end only", end: intPtr(4), wantStart: 1, wantEnd: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Render.FrameStart = tt.start
			cfg.Render.FrameEnd = tt.end

			start, end, err := resolveFrameRange(ctx, cfg, tt.scene)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}

func TestResolveFrameRange_SceneError(t *testing.T) {
	boom := errors.New("query failed")
	_, _, err := resolveFrameRange(context.Background(), config.Default(),
		func(context.Context) (int, int, error) { return 0, 0, boom })
	require.ErrorIs(t, err, boom)
}
