package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeProber struct {
	mu sync.Mutex

	alive      map[int]bool
	ports      map[int][]int
	signals    []string
	dieOnTerm  map[int]bool
	dieOnKill  map[int]bool
	unkillable map[int]bool
}

func (f *fakeProber) PortInUse(port int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.ports[port]) > 0
}

func (f *fakeProber) ProcessExists(pid int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.alive[pid]
}

func (f *fakeProber) FindPIDsByPort(port int) []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ports[port]
}

func (f *fakeProber) Signal(pid int, graceful bool) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if graceful {
		f.signals = append(f.signals, "term")
		if f.dieOnTerm[pid] {
			f.alive[pid] = false
		}
		return true
	}
	f.signals = append(f.signals, "kill")
	if !f.unkillable[pid] {
		f.alive[pid] = false
	}
	return true
}

func (f *fakeProber) sent() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.signals...)
}

func TestTerminateGracefulExit(t *testing.T) {
	p := &fakeProber{alive: map[int]bool{7: true}, dieOnTerm: map[int]bool{7: true}}
	if err := Terminate(context.Background(), p, 7, 5*time.Millisecond); err != nil {
		t.Fatalf("terminate: %v", err)
	}
	if sent := p.sent(); len(sent) != 1 || sent[0] != "term" {
		t.Fatalf("expected only a graceful signal, got %v", sent)
	}
}

func TestTerminateEscalatesToKill(t *testing.T) {
	p := &fakeProber{alive: map[int]bool{7: true}}
	if err := Terminate(context.Background(), p, 7, 5*time.Millisecond); err != nil {
		t.Fatalf("terminate: %v", err)
	}
	if sent := p.sent(); len(sent) != 2 || sent[0] != "term" || sent[1] != "kill" {
		t.Fatalf("expected term then kill, got %v", sent)
	}
}

func TestTerminateReportsSurvivor(t *testing.T) {
	p := &fakeProber{alive: map[int]bool{7: true}, unkillable: map[int]bool{7: true}}
	err := Terminate(context.Background(), p, 7, 5*time.Millisecond)
	if !errors.Is(err, ErrStillRunning) {
		t.Fatalf("expected ErrStillRunning, got %v", err)
	}
}

func TestTerminateAlreadyGone(t *testing.T) {
	p := &fakeProber{alive: map[int]bool{}}
	if err := Terminate(context.Background(), p, 7, time.Second); err != nil {
		t.Fatalf("expected nil for a missing process, got %v", err)
	}
	if sent := p.sent(); len(sent) != 0 {
		t.Fatalf("expected no signals, got %v", sent)
	}
}

func TestTerminateHonoursContext(t *testing.T) {
	p := &fakeProber{alive: map[int]bool{7: true}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := Terminate(ctx, p, 7, time.Second); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestStopPort(t *testing.T) {
	p := &fakeProber{
		alive: map[int]bool{100: true, 101: true},
		ports: map[int][]int{3000: {100, 101}},
	}
	pids, err := StopPort(context.Background(), p, 3000, 5*time.Millisecond)
	if err != nil {
		t.Fatalf("stop port: %v", err)
	}
	if len(pids) != 2 {
		t.Fatalf("expected two pids, got %v", pids)
	}
	if p.ProcessExists(100) || p.ProcessExists(101) {
		t.Fatalf("expected both processes to be gone")
	}

	if _, err := StopPort(context.Background(), p, 4000, time.Millisecond); !errors.Is(err, ErrNoProcess) {
		t.Fatalf("expected ErrNoProcess for an idle port, got %v", err)
	}
}
