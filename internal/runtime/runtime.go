package runtime

import (
	"context"
	"fmt"
)

// Output stream identifiers carried alongside captured lines.
const (
	LogSourceStdout = "stdout"
	LogSourceStderr = "stderr"
	LogSourceSystem = "groo"
)

// Spec describes one dev server to launch.
type Spec struct {
	// Name is the service name used for prefixes and log files.
	Name string
	// Command is run through the platform shell.
	Command string
	// Dir is the working directory of the shell.
	Dir string
	// LogPath is truncated and then receives every captured line.
	LogPath string
	// Index selects the console colour.
	Index int
	// Env holds extra KEY=VALUE pairs appended to the inherited environment.
	Env []string
}

// ExitStatus describes how a process ended.
type ExitStatus struct {
	// Code is the exit code, or -1 when the process was killed by a signal.
	Code int
	// Signal names the terminating signal, if any.
	Signal string
}

// Success reports a clean zero exit.
func (s ExitStatus) Success() bool {
	return s.Code == 0 && s.Signal == ""
}

// Signaled reports whether a signal ended the process.
func (s ExitStatus) Signaled() bool {
	return s.Signal != ""
}

func (s ExitStatus) String() string {
	if s.Signaled() {
		return "signal: " + s.Signal
	}
	return fmt.Sprintf("exit status: %d", s.Code)
}

// Instance represents a single running service process.
type Instance interface {
	// Name returns the service name.
	Name() string

	// PID returns the operating system process id.
	PID() int

	// Done is closed once the process has been reaped.
	Done() <-chan struct{}

	// ExitStatus returns the exit status without blocking. The boolean is
	// false while the process is still running.
	ExitStatus() (ExitStatus, bool)

	// Stop requests graceful termination and returns immediately. It is
	// safe to call on an exited instance.
	Stop() error

	// Kill terminates the process forcefully.
	Kill() error

	// Wait blocks until the process has been reaped or ctx is done.
	Wait(ctx context.Context) (ExitStatus, error)

	// Report writes a supervisor message through the instance output.
	Report(source, message string)

	// Release frees the output resources once the instance is finished.
	Release()
}

// Runtime describes a backend capable of launching services.
type Runtime interface {
	// Start launches the provided service and returns a handle to the
	// running instance. A failure affects only this service.
	Start(ctx context.Context, spec Spec) (Instance, error)
}
