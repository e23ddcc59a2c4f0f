package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rshade/spritebatch/internal/cli"
	"github.com/rshade/spritebatch/internal/sprite"
	"github.com/rshade/spritebatch/pkg/version"
)

func TestMainComponents(t *testing.T) {
	t.Run("version available", func(t *testing.T) {
		assert.NotEmpty(t, version.GetVersion())
	})

	t.Run("cli root command", func(t *testing.T) {
		root := cli.NewRootCmd(version.GetVersion())
		assert.NotNil(t, root)
		assert.Equal(t, "spritebatch", root.Use)
	})
}

func TestExtractExitCode(t *testing.T) {
	configErr := sprite.NewConfigError(sprite.ErrInvalidStepCount, "step count %d", 0)

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil error returns 0", err: nil, want: 0},
		{name: "generic error", err: errors.New("boom"), want: 1},
		{name: "configuration error", err: configErr, want: 2},
		{name: "wrapped configuration error", err: fmt.Errorf("render: %w", configErr), want: 2},
		{name: "explicit exit error", err: &cli.ExitError{Code: 7, Err: errors.New("custom")}, want: 7},
		{
			name: "joined exit error",
			err:  errors.Join(errors.New("outer"), &cli.ExitError{Code: 3, Err: errors.New("inner")}),
			want: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractExitCode(tt.err))
		})
	}
}
