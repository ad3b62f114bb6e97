//go:build !linux

package process

import "os/exec"

func configureCmdSysProcAttr(cmd *exec.Cmd) {}
