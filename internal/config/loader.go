package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadSettings reads settings from path, falling back to defaults when the
// file does not exist. GROO_* environment variables override file values.
func LoadSettings(path string) (Settings, error) {
	settings := Defaults()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := decodeSettings(data, &settings); err != nil {
			return Settings{}, fmt.Errorf("%s: decode: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return Settings{}, fmt.Errorf("open settings file: %w", err)
	}

	if err := applyEnv(&settings); err != nil {
		return Settings{}, err
	}
	settings.ApplyDefaults()
	if err := settings.Validate(); err != nil {
		return Settings{}, fmt.Errorf("%s: %w", path, err)
	}
	return settings, nil
}

func decodeSettings(data []byte, into *Settings) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(into); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Encode renders settings as YAML.
func (s Settings) Encode() ([]byte, error) {
	return yaml.Marshal(s)
}

func applyEnv(s *Settings) error {
	if value := os.Getenv("GROO_POLL_INTERVAL"); value != "" {
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("GROO_POLL_INTERVAL: %w", err)
		}
		s.PollInterval = Duration{d}
	}
	if value := os.Getenv("GROO_GRACE_PERIOD"); value != "" {
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("GROO_GRACE_PERIOD: %w", err)
		}
		s.GracePeriod = Duration{d}
	}
	if value := os.Getenv("GROO_SETTLE_DELAY"); value != "" {
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("GROO_SETTLE_DELAY: %w", err)
		}
		s.SettleDelay = Duration{d}
	}
	if value := os.Getenv("GROO_TAIL_LINES"); value != "" {
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("GROO_TAIL_LINES: %w", err)
		}
		s.TailLines = n
	}
	if value := os.Getenv("GROO_METRICS_ADDR"); value != "" {
		s.MetricsAddr = value
	}
	if value := os.Getenv("GROO_RUNNER"); value != "" {
		s.Runner = value
	}
	return nil
}
