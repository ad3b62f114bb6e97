//go:build windows

package process

import "os/exec"

func shellCommand(command string) *exec.Cmd {
	return exec.Command("cmd", "/C", command)
}
