package probe

// Prober answers liveness questions about the local host. System is the real
// implementation; tests substitute fakes.
type Prober interface {
	// PortInUse reports whether something is listening on the TCP port.
	PortInUse(port int) bool
	// ProcessExists reports whether pid refers to a live process.
	ProcessExists(pid int) bool
	// FindPIDsByPort lists the processes listening on the TCP port.
	FindPIDsByPort(port int) []int
	// Signal asks pid to terminate, gracefully or forcefully. It reports
	// whether the signal was delivered.
	Signal(pid int, graceful bool) bool
}

// Checker decides whether a recorded service is still running.
type Checker struct {
	prober Prober
}

// NewChecker wraps the supplied prober.
func NewChecker(p Prober) *Checker {
	return &Checker{prober: p}
}

// Prober exposes the underlying prober.
func (c *Checker) Prober() Prober {
	return c.prober
}

// IsRunning reports liveness for a service record. A known port (> 0) is
// authoritative: the service is running iff something listens there,
// whatever the pid. Without a port the pid is checked instead.
func (c *Checker) IsRunning(port, pid int) bool {
	if port > 0 {
		return c.prober.PortInUse(port)
	}
	if pid <= 0 {
		return false
	}
	return c.prober.ProcessExists(pid)
}
