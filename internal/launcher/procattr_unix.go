//go:build !windows

package launcher

import (
	"os/exec"
	"syscall"
)

// setProcAttr sets platform-specific process attributes for the spawned
// browser. On Unix, a new session detaches the browser from the bridge's
// controlling terminal so it survives the bridge exiting.
func setProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
}
