//go:build !windows

package process

import (
	"errors"
	"fmt"
	"os"
	"syscall"
)

// Stop sends SIGTERM to the shell.
func (p *processInstance) Stop() error {
	return p.signal(syscall.SIGTERM)
}

// Kill sends SIGKILL to the shell.
func (p *processInstance) Kill() error {
	return p.signal(syscall.SIGKILL)
}

func (p *processInstance) signal(sig syscall.Signal) error {
	if p.cmd.Process == nil || p.isDone() {
		return nil
	}
	if err := p.cmd.Process.Signal(sig); err != nil && !errors.Is(err, os.ErrProcessDone) && !errors.Is(err, syscall.ESRCH) {
		return fmt.Errorf("signal %s: %w", p.name, err)
	}
	return nil
}
