package config

import (
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/docker/go-connections/nat"
)

var validRunners = map[string]struct{}{
	"npm":  {},
	"pnpm": {},
	"yarn": {},
	"bun":  {},
}

// Validate reports the first invalid setting.
func (s *Settings) Validate() error {
	if err := positiveDuration("poll_interval", s.PollInterval.Duration); err != nil {
		return err
	}
	if err := positiveDuration("grace_period", s.GracePeriod.Duration); err != nil {
		return err
	}
	if s.SettleDelay.Duration < 0 {
		return fmt.Errorf("settle_delay: must not be negative, got %s", s.SettleDelay.Duration)
	}
	if s.TailLines < 0 {
		return fmt.Errorf("tail_lines: must not be negative, got %d", s.TailLines)
	}
	if s.Runner != "" {
		if _, ok := validRunners[s.Runner]; !ok {
			return fmt.Errorf("runner: unsupported package manager %q", s.Runner)
		}
	}
	if s.MetricsAddr != "" {
		if err := validateListenAddr(s.MetricsAddr); err != nil {
			return fmt.Errorf("metrics_addr: %w", err)
		}
	}
	return nil
}

func positiveDuration(field string, d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("%s: must be positive, got %s", field, d)
	}
	return nil
}

func validateListenAddr(addr string) error {
	_, port, err := net.SplitHostPort(strings.TrimSpace(addr))
	if err != nil {
		return fmt.Errorf("invalid address %q: %w", addr, err)
	}
	if _, err := nat.ParsePort(port); err != nil {
		return fmt.Errorf("invalid port %q: %w", port, err)
	}
	return nil
}
