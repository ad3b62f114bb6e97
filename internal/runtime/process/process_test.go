package process

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	stdruntime "runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Paintersrp/groo/internal/logmux"
	runtimelib "github.com/Paintersrp/groo/internal/runtime"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func skipOnWindows(t *testing.T) {
	t.Helper()
	if stdruntime.GOOS == "windows" {
		t.Skip("process runtime tests skipped on windows")
	}
}

func waitInstance(t *testing.T, inst runtimelib.Instance) runtimelib.ExitStatus {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	status, err := inst.Wait(ctx)
	if err != nil {
		t.Fatalf("wait: %v", err)
	}
	inst.Release()
	return status
}

func TestStartCapturesOutputAndExitCode(t *testing.T) {
	skipOnWindows(t)

	dir := t.TempDir()
	logPath := filepath.Join(dir, "logs", "api.log")
	var stdout, stderr syncBuffer
	rt := New(logmux.New(&stdout, &stderr))

	inst, err := rt.Start(context.Background(), runtimelib.Spec{
		Name:    "api",
		Command: "echo hello; echo oops >&2; pwd; exit 3",
		Dir:     dir,
		LogPath: logPath,
	})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if inst.PID() <= 0 {
		t.Fatalf("expected a pid, got %d", inst.PID())
	}

	status := waitInstance(t, inst)
	if status.Success() || status.Code != 3 || status.Signaled() {
		t.Fatalf("expected exit code 3, got %+v", status)
	}
	if got, ok := inst.ExitStatus(); !ok || got != status {
		t.Fatalf("expected ExitStatus to report the exit, got %+v %t", got, ok)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	log := string(data)
	for _, want := range []string{"[api] hello\n", "[api] oops\n"} {
		if !strings.Contains(log, want) {
			t.Fatalf("expected %q in log file:\n%s", want, log)
		}
	}
	resolved, _ := filepath.EvalSymlinks(dir)
	if !strings.Contains(log, "[api] "+dir) && !strings.Contains(log, "[api] "+resolved) {
		t.Fatalf("expected command to run in %s, log:\n%s", dir, log)
	}
	if !strings.Contains(stdout.String(), "hello") || strings.Contains(stdout.String(), "oops") {
		t.Fatalf("unexpected console stdout %q", stdout.String())
	}
	if !strings.Contains(stderr.String(), "oops") {
		t.Fatalf("expected stderr line on console stderr, got %q", stderr.String())
	}
}

func TestStartTruncatesPreviousSession(t *testing.T) {
	skipOnWindows(t)

	dir := t.TempDir()
	logPath := filepath.Join(dir, "web.log")
	if err := os.WriteFile(logPath, []byte("[web] stale\n"), 0o644); err != nil {
		t.Fatalf("seed log: %v", err)
	}

	rt := New(logmux.New(&syncBuffer{}, &syncBuffer{}))
	inst, err := rt.Start(context.Background(), runtimelib.Spec{Name: "web", Command: "echo fresh", Dir: dir, LogPath: logPath})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if status := waitInstance(t, inst); !status.Success() {
		t.Fatalf("expected success, got %+v", status)
	}

	data, _ := os.ReadFile(logPath)
	if string(data) != "[web] fresh\n" {
		t.Fatalf("expected only the new session, got %q", data)
	}
}

func TestLogFileKeepsOutputOfBackgroundWriters(t *testing.T) {
	skipOnWindows(t)

	dir := t.TempDir()
	logPath := filepath.Join(dir, "api.log")
	var stdout syncBuffer
	rt := New(logmux.New(&stdout, &syncBuffer{}))
	inst, err := rt.Start(context.Background(), runtimelib.Spec{
		Name:    "api",
		Command: "(sleep 1; echo late) & echo early",
		Dir:     dir,
		LogPath: logPath,
	})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if status := waitInstance(t, inst); !status.Success() {
		t.Fatalf("expected success, got %+v", status)
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		data, _ := os.ReadFile(logPath)
		if string(data) == "[api] early\n[api] late\n" {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("expected late output in log file, got %q (console %q)", data, stdout.String())
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func TestStopTerminatesProcess(t *testing.T) {
	skipOnWindows(t)

	rt := New(logmux.New(&syncBuffer{}, &syncBuffer{}))
	inst, err := rt.Start(context.Background(), runtimelib.Spec{Name: "slow", Command: "exec sleep 30", Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, exited := inst.ExitStatus(); exited {
		t.Fatalf("expected process to be running")
	}

	if err := inst.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
	status := waitInstance(t, inst)
	if !status.Signaled() {
		t.Fatalf("expected signal exit, got %+v", status)
	}
	if err := inst.Stop(); err != nil {
		t.Fatalf("stop after exit should be a no-op, got %v", err)
	}
}

func TestStartFailureIsReportedPerService(t *testing.T) {
	skipOnWindows(t)

	rt := New(logmux.New(&syncBuffer{}, &syncBuffer{}))
	_, err := rt.Start(context.Background(), runtimelib.Spec{
		Name:    "ghost",
		Command: "true",
		Dir:     filepath.Join(t.TempDir(), "missing"),
	})
	if err == nil || !strings.Contains(err.Error(), "ghost") {
		t.Fatalf("expected start error naming the service, got %v", err)
	}

	if _, err := rt.Start(context.Background(), runtimelib.Spec{Name: "empty"}); err == nil {
		t.Fatalf("expected error for empty command")
	}
}

func TestStartRespectsCancelledContext(t *testing.T) {
	rt := New(logmux.New(&syncBuffer{}, &syncBuffer{}))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := rt.Start(ctx, runtimelib.Spec{Name: "api", Command: "true"}); err == nil {
		t.Fatalf("expected error for cancelled context")
	}
}
