//go:build windows

package blender

import (
	"os/exec"
	"syscall"
)

// detachProcessGroup starts Blender in a new process group so console Ctrl-C
// events reach spritebatch only.
func detachProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP}
}
