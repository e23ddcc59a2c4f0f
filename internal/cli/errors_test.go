package cli_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rshade/spritebatch/internal/cli"
	"github.com/rshade/spritebatch/internal/sprite"
)

func TestExitCodeFor(t *testing.T) {
	cfgErr := sprite.NewConfigError(sprite.ErrTargetNotFound, "%q", "Dragon")

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: cli.ExitCodeOK},
		{name: "plain", err: errors.New("boom"), want: cli.ExitCodeFailure},
		{name: "config error", err: cfgErr, want: cli.ExitCodeConfigError},
		{name: "wrapped config error", err: fmt.Errorf("resolve: %w", cfgErr), want: cli.ExitCodeConfigError},
		{name: "exit error", err: &cli.ExitError{Code: 4, Err: errors.New("x")}, want: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cli.ExitCodeFor(tt.err))
		})
	}
}

func TestExitError(t *testing.T) {
	inner := errors.New("inner")
	err := &cli.ExitError{Code: 2, Err: inner}

	assert.Equal(t, "inner", err.Error())
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, "exit status 3", (&cli.ExitError{Code: 3}).Error())
}
