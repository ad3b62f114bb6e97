package logmux

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/Paintersrp/groo/internal/metrics"
	"github.com/Paintersrp/groo/internal/runtime"
)

var failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)

// Mux serialises the console output of every supervised service. Each line is
// written with a single call while holding the mux lock, so lines from
// different services never interleave mid-line.
type Mux struct {
	stdout io.Writer
	stderr io.Writer

	mu sync.Mutex
}

// New constructs a mux writing stdout lines to stdout and stderr lines to
// stderr.
func New(stdout, stderr io.Writer) *Mux {
	return &Mux{stdout: stdout, stderr: stderr}
}

// Sink binds a service to the mux. The sink owns file, which may be nil when
// the service has no log file.
func (m *Mux) Sink(name string, style lipgloss.Style, file io.WriteCloser) *Sink {
	return &Sink{
		mux:    m,
		name:   name,
		prefix: Prefix(name, style),
		file:   file,
	}
}

// SpawnFailed reports a service that could not be started.
func (m *Mux) SpawnFailed(name string, err error) {
	m.writeConsole(runtime.LogSourceStderr, failureStyle.Render(fmt.Sprintf("✗ Failed to start %s: %v", name, err)))
}

func (m *Mux) writeConsole(source, line string) {
	w := m.stdout
	if source == runtime.LogSourceStderr {
		w = m.stderr
	}
	if w == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, _ = io.WriteString(w, line+"\n")
}

// Sink delivers the lines of one service to the console and to its log file.
// Both output streams of a service share the sink, and therefore its file lock.
type Sink struct {
	mux    *Mux
	name   string
	prefix string

	mu         sync.Mutex
	file       io.WriteCloser
	closed     bool
	reportedIO bool
}

// Name returns the service name.
func (s *Sink) Name() string {
	return s.name
}

// Line emits one line of text captured from source.
func (s *Sink) Line(source, text string) {
	metrics.IncrementLogLine(s.name, source)
	s.mux.writeConsole(source, s.prefix+" "+text)
	s.appendFile(FormatLine(s.name, text))
}

func (s *Sink) appendFile(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil || s.closed {
		return
	}
	if _, err := io.WriteString(s.file, line+"\n"); err != nil {
		metrics.IncrementLogWriteFailure(s.name)
		if !s.reportedIO {
			s.reportedIO = true
			log.Debug("log file write failed", "service", s.name, "err", err)
		}
	}
}

// Drain reads r line by line until EOF or a read error, emitting each line.
// Invalid UTF-8 is replaced rather than rejected and a final unterminated
// line is still delivered.
func (s *Sink) Drain(r io.Reader, source string) {
	reader := bufio.NewReader(r)
	for {
		chunk, err := reader.ReadString('\n')
		if chunk != "" {
			s.Line(source, cleanLine(chunk))
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				log.Debug("output stream closed", "service", s.name, "source", source, "err", err)
			}
			return
		}
	}
}

// Close closes the log file. Later lines still reach the console.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.file == nil {
		s.closed = true
		return nil
	}
	s.closed = true
	return s.file.Close()
}

func cleanLine(chunk string) string {
	chunk = strings.TrimSuffix(chunk, "\n")
	chunk = strings.TrimSuffix(chunk, "\r")
	return strings.ToValidUTF8(chunk, "�")
}
