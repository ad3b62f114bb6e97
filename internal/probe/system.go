package probe

import (
	"context"
	"net"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

const (
	defaultDialTimeout    = 200 * time.Millisecond
	defaultCommandTimeout = 5 * time.Second
)

// System probes the real host using TCP dials, lsof/netstat and signals.
type System struct {
	dialTimeout time.Duration
	cmdTimeout  time.Duration
	dial        dialFunc
	run         runFunc
}

// NewSystem constructs a prober for the current host.
func NewSystem() *System {
	return &System{
		dialTimeout: defaultDialTimeout,
		cmdTimeout:  defaultCommandTimeout,
		dial:        (&net.Dialer{}).DialContext,
		run:         runCommand,
	}
}

// PortInUse reports whether the port accepts loopback connections or has a
// listening process according to the platform lookup tool.
func (s *System) PortInUse(port int) bool {
	if port <= 0 {
		return false
	}
	if acceptsConnections(s.dial, port, s.dialTimeout) {
		return true
	}
	return len(s.FindPIDsByPort(port)) > 0
}

// FindPIDsByPort lists the pids listening on port, or nil when none are found
// or the lookup tool is unavailable.
func (s *System) FindPIDsByPort(port int) []int {
	if port <= 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.cmdTimeout)
	defer cancel()
	pids, err := s.lookupPort(ctx, port)
	if err != nil {
		log.Debug("port lookup failed", "port", port, "err", err)
	}
	return pids
}

// parsePIDs reads one pid per line, ignoring blanks and junk, and returns the
// distinct pids in ascending order.
func parsePIDs(out []byte) []int {
	seen := make(map[int]struct{})
	var pids []int
	for _, line := range strings.Split(string(out), "\n") {
		pid, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil || pid <= 0 {
			continue
		}
		if _, ok := seen[pid]; ok {
			continue
		}
		seen[pid] = struct{}{}
		pids = append(pids, pid)
	}
	sort.Ints(pids)
	return pids
}

// parseNetstatPIDs extracts listening pids for port from `netstat -ano`.
func parseNetstatPIDs(out []byte, port int) []int {
	suffix := ":" + strconv.Itoa(port)
	var lines []string
	for _, line := range strings.Split(string(out), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 5 || !strings.EqualFold(fields[0], "TCP") {
			continue
		}
		if !strings.HasSuffix(fields[1], suffix) || !strings.EqualFold(fields[3], "LISTENING") {
			continue
		}
		lines = append(lines, fields[len(fields)-1])
	}
	return parsePIDs([]byte(strings.Join(lines, "\n")))
}
