// Command spritebatch renders a scene from evenly spaced angles across a
// frame range and writes one sprite image per frame and angle.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/rshade/spritebatch/internal/cli"
	"github.com/rshade/spritebatch/pkg/version"
)

func main() {
	os.Exit(run())
}

func run() int {
	root := cli.NewRootCmd(version.GetVersion())
	err := root.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return extractExitCode(err)
}

// extractExitCode maps an Execute error to a process exit code.
func extractExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *cli.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return cli.ExitCodeFor(err)
}
