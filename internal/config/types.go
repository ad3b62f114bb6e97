package config

import (
	"fmt"
	"time"
)

// Duration wraps time.Duration for YAML unmarshalling.
type Duration struct {
	time.Duration
}

// UnmarshalText parses Go duration strings such as "250ms" or "2s".
func (d *Duration) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		d.Duration = 0
		return nil
	}
	dur, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	d.Duration = dur
	return nil
}

// MarshalText renders the duration using time.Duration formatting.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

const (
	DefaultPollInterval = 100 * time.Millisecond
	DefaultGracePeriod  = 100 * time.Millisecond
	DefaultSettleDelay  = 500 * time.Millisecond
	DefaultTailLines    = 10
)

// Settings mirrors config.yaml in the groo config directory.
type Settings struct {
	// PollInterval paces the supervisor exit checks and log tailing.
	PollInterval Duration `yaml:"poll_interval"`
	// GracePeriod is how long a terminated process gets before SIGKILL.
	GracePeriod Duration `yaml:"grace_period"`
	// SettleDelay separates stopping and respawning during restart.
	SettleDelay Duration `yaml:"settle_delay"`
	TailLines   int      `yaml:"tail_lines"`
	MetricsAddr string   `yaml:"metrics_addr,omitempty"`
	// Runner overrides the package manager used to run dev scripts.
	Runner string `yaml:"runner,omitempty"`
}

// Defaults returns the built-in settings.
func Defaults() Settings {
	return Settings{
		PollInterval: Duration{DefaultPollInterval},
		GracePeriod:  Duration{DefaultGracePeriod},
		SettleDelay:  Duration{DefaultSettleDelay},
		TailLines:    DefaultTailLines,
	}
}

// ApplyDefaults fills zero values with the built-in settings.
func (s *Settings) ApplyDefaults() {
	def := Defaults()
	if s.PollInterval.Duration == 0 {
		s.PollInterval = def.PollInterval
	}
	if s.GracePeriod.Duration == 0 {
		s.GracePeriod = def.GracePeriod
	}
	if s.SettleDelay.Duration == 0 {
		s.SettleDelay = def.SettleDelay
	}
	if s.TailLines == 0 {
		s.TailLines = def.TailLines
	}
}
