//go:build !windows

package probe

import (
	"context"
	"errors"
	"strconv"
	"syscall"
)

func (s *System) lookupPort(ctx context.Context, port int) ([]int, error) {
	out, err := s.run(ctx, "lsof", "-nP", "-t", "-iTCP:"+strconv.Itoa(port), "-sTCP:LISTEN")
	pids := parsePIDs(out)
	if len(pids) > 0 {
		return pids, nil
	}
	return nil, err
}

// ProcessExists sends signal 0 to pid. EPERM means the process exists but
// belongs to another user.
func (s *System) ProcessExists(pid int) bool {
	if pid <= 0 {
		return false
	}
	err := syscall.Kill(pid, 0)
	return err == nil || errors.Is(err, syscall.EPERM)
}

// Signal delivers SIGTERM (graceful) or SIGKILL to pid.
func (s *System) Signal(pid int, graceful bool) bool {
	if pid <= 0 {
		return false
	}
	sig := syscall.SIGKILL
	if graceful {
		sig = syscall.SIGTERM
	}
	return syscall.Kill(pid, sig) == nil
}
