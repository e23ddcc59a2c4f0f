package cli_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rshade/spritebatch/internal/blender"
	"github.com/rshade/spritebatch/internal/cli"
	"github.com/rshade/spritebatch/internal/config"
)

const sceneOutput = `Blender 4.1.0 (hash abc built 2024-03-25)
SPRITEBATCH_SCENE={"camera": "Camera", "frame_start": 1, "frame_end": 3, "objects": [{"name": "Knight", "type": "MESH", "yaw": 0.25, "x": 0, "y": 0}, {"name": "Camera", "type": "CAMERA", "yaw": 0, "x": 0, "y": -10}]}
`

// fakeBlender answers version, scene and render invocations without running Blender.
type fakeBlender struct {
	mu      sync.Mutex
	version string
	// failAt makes the Nth render (1-based) fail; 0 never fails.
	failAt  int
	renders []string
	queries int
}

func (f *fakeBlender) Run(_ context.Context, _ string, args ...string) ([]byte, []byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(args) > 0 && args[0] == "--version" {
		v := f.version
		if v == "" {
			v = "4.1.0"
		}
		return []byte("Blender " + v + "\n"), nil, nil
	}

	script := args[len(args)-1]
	if strings.Contains(script, "SPRITEBATCH_SCENE") {
		f.queries++
		return []byte(sceneOutput), nil, nil
	}

	f.renders = append(f.renders, script)
	if f.failAt > 0 && len(f.renders) == f.failAt {
		return nil, []byte("Error: out of memory"), errors.New("exit status 1")
	}
	return []byte("Saved: image\n"), nil, nil
}

func (f *fakeBlender) renderCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.renders)
}

// withFakeBlender installs a fake runner and returns it with a path that
// passes the executable lookup.
func withFakeBlender(t *testing.T, f *fakeBlender) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake blender executable is a shell script")
	}
	orig := blender.Runner
	blender.Runner = f
	t.Cleanup(func() { blender.Runner = orig })

	bin := filepath.Join(t.TempDir(), "blender")
	require.NoError(t, os.WriteFile(bin, []byte("#!/bin/sh\nexit 0\n"), 0o755))
	return bin
}

// setupCLITest isolates config and logging state for a command test.
func setupCLITest(t *testing.T) {
	t.Helper()
	t.Setenv(config.EnvHome, t.TempDir())
	t.Setenv(config.EnvProjectDir, t.TempDir())
	t.Setenv(config.EnvLogLevel, "error")
	t.Setenv(config.EnvLogFormat, "")
	t.Setenv(config.EnvBlender, "")
	t.Setenv(config.EnvCacheDir, "")
	config.ResetGlobalConfigForTest()
	t.Cleanup(config.ResetGlobalConfigForTest)
}

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := cli.NewRootCmd("test")
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}
