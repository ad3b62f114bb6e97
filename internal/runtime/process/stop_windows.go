//go:build windows

package process

import (
	"errors"
	"fmt"
	"os"
)

// Stop terminates the shell. Windows has no deliverable interrupt for
// arbitrary processes, so the graceful request is a plain kill.
func (p *processInstance) Stop() error {
	return p.Kill()
}

// Kill terminates the shell.
func (p *processInstance) Kill() error {
	if p.cmd.Process == nil || p.isDone() {
		return nil
	}
	if err := p.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("kill process %s: %w", p.name, err)
	}
	return nil
}
