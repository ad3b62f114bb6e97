package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Paintersrp/groo/internal/probe"
)

const minConfirmInterval = 10 * time.Millisecond

// Terminate stops pid with escalation: a graceful signal, a grace period,
// then a forceful kill if the process is still alive. The kill is confirmed
// by polling for up to another grace period; ErrStillRunning is returned if
// the process survives.
func Terminate(ctx context.Context, p probe.Prober, pid int, grace time.Duration) error {
	if !p.ProcessExists(pid) {
		return nil
	}
	if !p.Signal(pid, true) {
		log.Debug("graceful signal not delivered", "pid", pid)
	}
	if err := sleepWithContext(ctx, grace); err != nil {
		return err
	}
	if !p.ProcessExists(pid) {
		return nil
	}

	log.Debug("escalating to forceful kill", "pid", pid)
	p.Signal(pid, false)

	interval := grace / 5
	if interval < minConfirmInterval {
		interval = minConfirmInterval
	}
	deadline := time.Now().Add(grace)
	for {
		if !p.ProcessExists(pid) {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("pid %d: %w", pid, ErrStillRunning)
		}
		if err := sleepWithContext(ctx, interval); err != nil {
			return err
		}
	}
}

// StopPort terminates every process listening on port and returns their
// pids. ErrNoProcess is returned when nothing listens there.
func StopPort(ctx context.Context, p probe.Prober, port int, grace time.Duration) ([]int, error) {
	pids := p.FindPIDsByPort(port)
	if len(pids) == 0 {
		return nil, fmt.Errorf("port %d: %w", port, ErrNoProcess)
	}
	var errs []error
	for _, pid := range pids {
		if err := Terminate(ctx, p, pid, grace); err != nil {
			errs = append(errs, err)
		}
	}
	return pids, errors.Join(errs...)
}
