// Package blender drives a headless Blender binary as the host renderer for
// sprite batches. It resolves the target object, reports scene settings, and
// renders one shot per Blender invocation.
package blender

import (
	"errors"
	"fmt"
	"strings"
)

// blenderInstallURL is where users can download Blender.
const blenderInstallURL = "https://www.blender.org/download/"

// maxErrorOutput caps how much Blender output is embedded in an error.
const maxErrorOutput = 2048

// Sentinel errors for structured error handling across the Blender integration.
var (
	// ErrBlenderNotFound indicates the blender binary is not in PATH.
	ErrBlenderNotFound = fmt.Errorf(
		"blender not found in PATH; install from %s or set --blender", blenderInstallURL)

	// ErrUnsupportedVersion indicates a Blender release older than MinVersion.
	ErrUnsupportedVersion = errors.New("unsupported blender version")

	// ErrQueryFailed indicates the scene query script returned a non-zero exit code.
	ErrQueryFailed = errors.New("blender scene query failed")

	// ErrRenderFailed indicates a render invocation returned a non-zero exit code.
	ErrRenderFailed = errors.New("blender render failed")

	// ErrNoBlendFile indicates no .blend file was configured.
	ErrNoBlendFile = errors.New("no .blend file configured; set --blend or blender.blend_file")
)

// QueryError wraps ErrQueryFailed with Blender's output.
func QueryError(output string) error {
	return fmt.Errorf("%w: %s", ErrQueryFailed, tail(output))
}

// RenderError wraps ErrRenderFailed with Blender's output.
func RenderError(output string) error {
	return fmt.Errorf("%w: %s", ErrRenderFailed, tail(output))
}

// tail keeps the last maxErrorOutput bytes, where Blender prints tracebacks.
func tail(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > maxErrorOutput {
		return "..." + s[len(s)-maxErrorOutput:]
	}
	return s
}
