package cliutil

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestEncodeLogRecordInfersLevel(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		expected string
	}{
		{name: "errorToken", message: "[ERROR] failed to compile", expected: "error"},
		{name: "warnToken", message: "WARN port 3000 is in use", expected: "warn"},
		{name: "warningToken", message: "Warning: Extra attributes from the server", expected: "warn"},
		{name: "infoToken", message: "info  - ready on http://localhost:3000", expected: "info"},
		{name: "noTokenDefaults", message: "VITE v5.0.0  ready in 300 ms", expected: "info"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			var errBuf bytes.Buffer

			record := NewLogRecord("shop", "apps:web", tc.message, time.Unix(0, 0))
			EncodeLogRecord(json.NewEncoder(&out), &errBuf, record)

			if errBuf.Len() != 0 {
				t.Fatalf("unexpected stderr output: %s", errBuf.String())
			}

			var decoded LogRecord
			if err := json.Unmarshal(out.Bytes(), &decoded); err != nil {
				t.Fatalf("failed to unmarshal log record: %v", err)
			}
			if decoded.Level != tc.expected {
				t.Fatalf("expected level %q, got %q", tc.expected, decoded.Level)
			}
			if decoded.Service != "apps:web" || decoded.Project != "shop" {
				t.Fatalf("unexpected record %+v", decoded)
			}
		})
	}
}

func TestEncodeLogRecordUsesShortKeys(t *testing.T) {
	var out bytes.Buffer
	record := NewLogRecord("", "api", "hello", time.Unix(0, 0).UTC())
	EncodeLogRecord(json.NewEncoder(&out), &bytes.Buffer{}, record)

	line := out.String()
	if !strings.Contains(line, `"msg":"hello"`) || !strings.Contains(line, `"ts":"1970-01-01T00:00:00Z"`) {
		t.Fatalf("unexpected encoding %s", line)
	}
	if strings.Contains(line, "project") {
		t.Fatalf("expected empty project to be omitted, got %s", line)
	}
}

func TestNewLogRecordDefaultsTimestamp(t *testing.T) {
	record := NewLogRecord("", "api", "hello", time.Time{})
	if record.Timestamp.IsZero() {
		t.Fatalf("expected timestamp to be filled in")
	}
}
