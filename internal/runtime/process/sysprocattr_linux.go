//go:build linux

package process

import (
	"os/exec"
	"syscall"
)

// configureCmdSysProcAttr kills the child when groo dies. The child stays in
// groo's process group so it keeps access to the terminal for stdin.
func configureCmdSysProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Pdeathsig: syscall.SIGKILL}
}
