package process

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/Paintersrp/groo/internal/logmux"
	"github.com/Paintersrp/groo/internal/logstore"
	"github.com/Paintersrp/groo/internal/runtime"
)

// drainGrace bounds how long Release waits for output still held open by
// grandchildren of an exited shell. Draining itself is not cut short.
const drainGrace = 500 * time.Millisecond

// Runtime starts services as shell commands.
type Runtime struct {
	mux *logmux.Mux
}

// New constructs a runtime whose instances write through mux.
func New(mux *logmux.Mux) *Runtime {
	return &Runtime{mux: mux}
}

// Start truncates the service log file, launches the command and begins
// draining both output streams. ctx is only consulted before launching; the
// process is not tied to it.
func (r *Runtime) Start(ctx context.Context, spec runtime.Spec) (runtime.Instance, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if spec.Command == "" {
		return nil, fmt.Errorf("service %s has no command", spec.Name)
	}

	var logFile *os.File
	if spec.LogPath != "" {
		f, err := logstore.Create(spec.LogPath)
		if err != nil {
			return nil, err
		}
		logFile = f
	}
	sink := r.mux.Sink(spec.Name, logmux.ColorFor(spec.Index), fileOrNil(logFile))

	stdoutR, stdoutW, err := os.Pipe()
	if err != nil {
		_ = sink.Close()
		return nil, fmt.Errorf("service %s stdout: %w", spec.Name, err)
	}
	stderrR, stderrW, err := os.Pipe()
	if err != nil {
		closeAll(stdoutR, stdoutW)
		_ = sink.Close()
		return nil, fmt.Errorf("service %s stderr: %w", spec.Name, err)
	}

	cmd := shellCommand(spec.Command)
	cmd.Dir = spec.Dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = stdoutW
	cmd.Stderr = stderrW
	cmd.Env = append(os.Environ(), spec.Env...)
	configureCmdSysProcAttr(cmd)

	if err := cmd.Start(); err != nil {
		closeAll(stdoutR, stdoutW, stderrR, stderrW)
		_ = sink.Close()
		return nil, fmt.Errorf("start service %s: %w", spec.Name, err)
	}
	// The child holds its own copies of the write ends.
	closeAll(stdoutW, stderrW)

	inst := &processInstance{
		name:   spec.Name,
		cmd:    cmd,
		sink:   sink,
		done:   make(chan struct{}),
		drains: make(chan struct{}),
	}
	inst.holds.Store(2)

	var wg sync.WaitGroup
	wg.Add(2)
	go inst.drain(stdoutR, runtime.LogSourceStdout, &wg)
	go inst.drain(stderrR, runtime.LogSourceStderr, &wg)
	go func() {
		wg.Wait()
		close(inst.drains)
		inst.releaseSink()
	}()

	go func() {
		err := cmd.Wait()
		inst.finish(err)
	}()

	return inst, nil
}

type processInstance struct {
	name string
	cmd  *exec.Cmd
	sink *logmux.Sink

	done   chan struct{}
	drains chan struct{}

	mu      sync.Mutex
	status  runtime.ExitStatus
	exited  bool
	waitErr error

	// holds counts the drains and the supervisor; the log file closes when
	// both have let go.
	holds       atomic.Int32
	releaseOnce sync.Once
}

func (p *processInstance) Name() string {
	return p.name
}

func (p *processInstance) PID() int {
	if p.cmd.Process == nil {
		return 0
	}
	return p.cmd.Process.Pid
}

func (p *processInstance) Done() <-chan struct{} {
	return p.done
}

func (p *processInstance) ExitStatus() (runtime.ExitStatus, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status, p.exited
}

func (p *processInstance) Wait(ctx context.Context) (runtime.ExitStatus, error) {
	select {
	case <-p.done:
		p.mu.Lock()
		defer p.mu.Unlock()
		return p.status, p.waitErr
	case <-ctx.Done():
		return runtime.ExitStatus{}, ctx.Err()
	}
}

func (p *processInstance) Report(source, message string) {
	p.sink.Line(source, message)
}

// Release marks the instance finished. It waits up to the drain grace period
// for buffered output; streams still held open by grandchildren keep draining
// into the console and the log file, which closes once both streams end.
func (p *processInstance) Release() {
	p.releaseOnce.Do(func() {
		select {
		case <-p.drains:
		case <-time.After(drainGrace):
		}
		p.releaseSink()
	})
}

func (p *processInstance) releaseSink() {
	if p.holds.Add(-1) == 0 {
		_ = p.sink.Close()
	}
}

func (p *processInstance) drain(r *os.File, source string, wg *sync.WaitGroup) {
	defer wg.Done()
	defer r.Close()
	p.sink.Drain(r, source)
}

func (p *processInstance) finish(err error) {
	status := runtime.ExitStatus{Code: -1}
	var waitErr error
	if state := p.cmd.ProcessState; state != nil {
		status = exitStatusFrom(state)
	} else if err != nil {
		waitErr = err
	}

	p.mu.Lock()
	p.status = status
	p.exited = true
	p.waitErr = waitErr
	p.mu.Unlock()
	close(p.done)
}

func (p *processInstance) isDone() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

func exitStatusFrom(state *os.ProcessState) runtime.ExitStatus {
	status := runtime.ExitStatus{Code: state.ExitCode()}
	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		status.Signal = ws.Signal().String()
	}
	return status
}

func fileOrNil(f *os.File) io.WriteCloser {
	if f == nil {
		return nil
	}
	return f
}

func closeAll(files ...*os.File) {
	for _, f := range files {
		if f != nil {
			_ = f.Close()
		}
	}
}
