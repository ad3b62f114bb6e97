//go:build windows

package probe

import (
	"context"
	"strconv"
	"strings"
)

func (s *System) lookupPort(ctx context.Context, port int) ([]int, error) {
	out, err := s.run(ctx, "netstat", "-ano", "-p", "TCP")
	if err != nil {
		return nil, err
	}
	return parseNetstatPIDs(out, port), nil
}

// ProcessExists asks tasklist whether pid is present.
func (s *System) ProcessExists(pid int) bool {
	if pid <= 0 {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.cmdTimeout)
	defer cancel()
	out, err := s.run(ctx, "tasklist", "/FI", "PID eq "+strconv.Itoa(pid), "/NH", "/FO", "CSV")
	if err != nil {
		return false
	}
	return strings.Contains(string(out), "\""+strconv.Itoa(pid)+"\"")
}

// Signal runs taskkill, adding /F for a forceful kill.
func (s *System) Signal(pid int, graceful bool) bool {
	if pid <= 0 {
		return false
	}
	args := []string{"/PID", strconv.Itoa(pid)}
	if !graceful {
		args = append([]string{"/F"}, args...)
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.cmdTimeout)
	defer cancel()
	_, err := s.run(ctx, "taskkill", args...)
	return err == nil
}
