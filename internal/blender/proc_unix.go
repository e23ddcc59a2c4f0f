//go:build !windows

package blender

import (
	"os/exec"
	"syscall"
)

// detachProcessGroup puts Blender in its own process group so a terminal
// Ctrl-C reaches spritebatch only; the current render then runs to completion.
func detachProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}
