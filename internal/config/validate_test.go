package config

import (
	"strings"
	"testing"
	"time"
)

func TestSettingsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Settings) {}},
		{
			name:    "zero poll interval",
			mutate:  func(s *Settings) { s.PollInterval = Duration{} },
			wantErr: "poll_interval",
		},
		{
			name:    "negative grace period",
			mutate:  func(s *Settings) { s.GracePeriod = Duration{-time.Second} },
			wantErr: "grace_period",
		},
		{
			name:    "negative settle delay",
			mutate:  func(s *Settings) { s.SettleDelay = Duration{-time.Second} },
			wantErr: "settle_delay",
		},
		{
			name:    "unknown runner",
			mutate:  func(s *Settings) { s.Runner = "cargo" },
			wantErr: "runner",
		},
		{
			name:    "metrics address without port",
			mutate:  func(s *Settings) { s.MetricsAddr = "localhost" },
			wantErr: "metrics_addr",
		},
		{
			name:    "metrics port out of range",
			mutate:  func(s *Settings) { s.MetricsAddr = ":70000" },
			wantErr: "metrics_addr",
		},
		{
			name:   "metrics address",
			mutate: func(s *Settings) { s.MetricsAddr = ":9464" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := Defaults()
			tt.mutate(&settings)
			err := settings.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("expected valid settings, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error mentioning %q, got %v", tt.wantErr, err)
			}
		})
	}
}
