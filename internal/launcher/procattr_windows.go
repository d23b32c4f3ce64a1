//go:build windows

package launcher

import (
	"os/exec"
	"syscall"
)

// setProcAttr sets platform-specific process attributes for the spawned
// browser. On Windows, a new process group keeps console signals aimed at
// the bridge from reaching the browser.
func setProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP,
	}
}
