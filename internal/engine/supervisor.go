package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Paintersrp/groo/internal/logmux"
	"github.com/Paintersrp/groo/internal/metrics"
	"github.com/Paintersrp/groo/internal/runtime"
)

// DefaultPollInterval paces exit detection in AwaitAll.
const DefaultPollInterval = 100 * time.Millisecond

// Supervisor launches a batch of services and watches them until they all
// exit or the caller cancels. It never restarts a process.
type Supervisor struct {
	runtime  runtime.Runtime
	mux      *logmux.Mux
	interval time.Duration
	events   chan<- Event
	onExit   func(runtime.Instance, runtime.ExitStatus)
}

// Option configures a Supervisor.
type Option func(*Supervisor)

// WithPollInterval overrides the exit polling period.
func WithPollInterval(d time.Duration) Option {
	return func(s *Supervisor) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithEvents publishes lifecycle events to ch.
func WithEvents(ch chan<- Event) Option {
	return func(s *Supervisor) {
		s.events = ch
	}
}

// WithExitHook registers fn to run after each observed exit, once the exit
// has been reported.
func WithExitHook(fn func(runtime.Instance, runtime.ExitStatus)) Option {
	return func(s *Supervisor) {
		s.onExit = fn
	}
}

// NewSupervisor constructs a supervisor starting services with rt and
// reporting through mux.
func NewSupervisor(rt runtime.Runtime, mux *logmux.Mux, opts ...Option) *Supervisor {
	s := &Supervisor{
		runtime:  rt,
		mux:      mux,
		interval: DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Launch starts every spec in order. A spec that fails to start is reported
// through the multiplexer and returned as a *SpawnError; the remaining specs
// are still started.
func (s *Supervisor) Launch(ctx context.Context, specs []runtime.Spec) ([]runtime.Instance, []error) {
	var (
		instances []runtime.Instance
		errs      []error
	)
	for _, spec := range specs {
		inst, err := s.runtime.Start(ctx, spec)
		if err != nil {
			spawnErr := &SpawnError{Service: spec.Name, Err: err}
			if s.mux != nil {
				s.mux.SpawnFailed(spec.Name, err)
			}
			metrics.IncrementSpawnFailure(spec.Name)
			sendEvent(s.events, Event{
				Service: spec.Name,
				Type:    EventTypeSpawnFailed,
				Message: "spawn failed",
				Err:     spawnErr,
				Reason:  ReasonStartFailure,
			})
			errs = append(errs, spawnErr)
			continue
		}
		metrics.IncrementSpawn(spec.Name)
		log.Debug("service spawned", "service", spec.Name, "pid", inst.PID(), "dir", spec.Dir)
		sendEvent(s.events, Event{
			Service: spec.Name,
			Type:    EventTypeSpawned,
			Message: "process started",
			PID:     inst.PID(),
			Reason:  ReasonInitialStart,
		})
		instances = append(instances, inst)
	}
	return instances, errs
}

// AwaitAll polls the instances until every one has exited, reporting each
// exit as it is observed. When ctx is done every remaining instance is asked
// to terminate and AwaitAll blocks until all of them have been reaped.
func (s *Supervisor) AwaitAll(ctx context.Context, instances []runtime.Instance) {
	remaining := append([]runtime.Instance(nil), instances...)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		remaining = s.reap(remaining, ReasonSelfExit)
		if len(remaining) == 0 {
			return
		}
		select {
		case <-ctx.Done():
			s.shutdown(remaining)
			return
		case <-ticker.C:
		}
	}
}

func (s *Supervisor) reap(instances []runtime.Instance, reason string) []runtime.Instance {
	running := instances[:0]
	for _, inst := range instances {
		status, exited := inst.ExitStatus()
		if !exited {
			running = append(running, inst)
			continue
		}
		s.reportExit(inst, status, reason)
	}
	return running
}

func (s *Supervisor) shutdown(instances []runtime.Instance) {
	for _, inst := range instances {
		sendEvent(s.events, Event{
			Service: inst.Name(),
			Type:    EventTypeStopping,
			Message: "terminating",
			PID:     inst.PID(),
			Reason:  ReasonShutdown,
		})
		if err := inst.Stop(); err != nil {
			log.Warn("Failed to signal service", "service", inst.Name(), "error", err)
		}
	}
	for _, inst := range instances {
		status, err := inst.Wait(context.Background())
		if err != nil {
			log.Debug("wait failed", "service", inst.Name(), "err", err)
		}
		s.reportExit(inst, status, ReasonShutdown)
	}
}

func (s *Supervisor) reportExit(inst runtime.Instance, status runtime.ExitStatus, reason string) {
	evt := Event{
		Service: inst.Name(),
		PID:     inst.PID(),
		Status:  status,
		Reason:  reason,
	}
	switch {
	case status.Success():
		evt.Type = EventTypeExited
		evt.Message = "Process exited"
		inst.Report(runtime.LogSourceStdout, evt.Message)
		metrics.ObserveExit(inst.Name(), metrics.OutcomeSuccess)
	case status.Signaled():
		evt.Type = EventTypeKilled
		evt.Message = "Process killed by signal: " + status.Signal
		inst.Report(runtime.LogSourceStderr, evt.Message)
		metrics.ObserveExit(inst.Name(), metrics.OutcomeSignal)
	default:
		evt.Type = EventTypeFailed
		evt.Message = fmt.Sprintf("Process exited with status: %d", status.Code)
		inst.Report(runtime.LogSourceStderr, evt.Message)
		metrics.ObserveExit(inst.Name(), metrics.OutcomeFailure)
	}
	sendEvent(s.events, evt)
	if s.onExit != nil {
		s.onExit(inst, status)
	}
	inst.Release()
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
