package probe

import "testing"

type fakeProber struct {
	ports map[int]bool
	pids  map[int]bool

	portChecks int
	pidChecks  int
}

func (f *fakeProber) PortInUse(port int) bool {
	f.portChecks++
	return f.ports[port]
}

func (f *fakeProber) ProcessExists(pid int) bool {
	f.pidChecks++
	return f.pids[pid]
}

func (f *fakeProber) FindPIDsByPort(int) []int { return nil }

func (f *fakeProber) Signal(int, bool) bool { return false }

func TestCheckerIsRunning(t *testing.T) {
	tests := []struct {
		name      string
		port, pid int
		ports     map[int]bool
		pids      map[int]bool
		want      bool
		wantPorts int
		wantPids  int
	}{
		{
			name: "port in use with dead pid",
			port: 3000, pid: 42,
			ports:     map[int]bool{3000: true},
			want:      true,
			wantPorts: 1,
		},
		{
			name: "port free with live pid",
			port: 3000, pid: 42,
			pids:      map[int]bool{42: true},
			want:      false,
			wantPorts: 1,
		},
		{
			name: "no port falls back to pid",
			pid:  42,
			pids: map[int]bool{42: true},
			want: true, wantPids: 1,
		},
		{
			name: "no port and dead pid",
			pid:  42,
			want: false, wantPids: 1,
		},
		{
			name: "nothing known",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeProber{ports: tt.ports, pids: tt.pids}
			checker := NewChecker(fake)
			if got := checker.IsRunning(tt.port, tt.pid); got != tt.want {
				t.Fatalf("expected IsRunning=%t, got %t", tt.want, got)
			}
			if fake.portChecks != tt.wantPorts {
				t.Fatalf("expected %d port checks, got %d", tt.wantPorts, fake.portChecks)
			}
			if fake.pidChecks != tt.wantPids {
				t.Fatalf("expected %d pid checks, got %d", tt.wantPids, fake.pidChecks)
			}
		})
	}
}
