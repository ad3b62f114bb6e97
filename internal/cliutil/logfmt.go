package cliutil

import (
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"
)

// LogRecord is one service log line ready for JSON encoding.
type LogRecord struct {
	Timestamp time.Time `json:"ts"`
	Project   string    `json:"project,omitempty"`
	Service   string    `json:"service"`
	Level     string    `json:"level"`
	Message   string    `json:"msg"`
}

// NewLogRecord builds a record for a line read from a service log. The level
// is inferred from the text and defaults to info.
func NewLogRecord(project, service, line string, ts time.Time) LogRecord {
	level := inferLogLevel(line)
	if level == "" {
		level = "info"
	}
	if ts.IsZero() {
		ts = time.Now()
	}
	return LogRecord{
		Timestamp: ts,
		Project:   project,
		Service:   service,
		Level:     level,
		Message:   line,
	}
}

var levelTokenPattern = regexp.MustCompile(`(?i)\b(error|warn(?:ing)?|info|debug)\b`)

func inferLogLevel(message string) string {
	matches := levelTokenPattern.FindStringSubmatch(message)
	if len(matches) < 2 {
		return ""
	}
	switch token := strings.ToLower(matches[1]); token {
	case "warn", "warning":
		return "warn"
	default:
		return token
	}
}

// EncodeLogRecord writes record as one JSON line, reporting failures to
// stderr.
func EncodeLogRecord(enc *json.Encoder, stderr io.Writer, record LogRecord) {
	if enc == nil {
		return
	}
	if err := enc.Encode(&record); err != nil {
		fmt.Fprintf(stderr, "error: encode log: %v\n", err)
	}
}
