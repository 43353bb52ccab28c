package config

import (
	"fmt"
	"regexp"
	"time"

	"github.com/MeKo-Tech/labelscan/internal/scan"
)

// Validate checks the configuration for values that would break a session.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	if len(c.Scan.PhaseMS) != 4 {
		return fmt.Errorf("phase_thresholds_ms needs exactly 4 entries, got %d", len(c.Scan.PhaseMS))
	}
	for i := 1; i < len(c.Scan.PhaseMS); i++ {
		if c.Scan.PhaseMS[i] <= c.Scan.PhaseMS[i-1] {
			return fmt.Errorf("phase_thresholds_ms must be strictly increasing")
		}
	}
	if c.Scan.MinValueLength < 1 {
		return fmt.Errorf("min_value_length must be at least 1")
	}
	if c.Scan.AcceptPattern != "" {
		if _, err := regexp.Compile(c.Scan.AcceptPattern); err != nil {
			return fmt.Errorf("invalid accept_pattern: %w", err)
		}
	}
	switch c.Output.Format {
	case "text", "json", "csv":
	default:
		return fmt.Errorf("invalid output format %q", c.Output.Format)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	return nil
}

// ScanConfig translates the file/env/flag representation into the scan core's
// session config, compiling the acceptance pattern into a predicate.
func (c *Config) ScanConfig() (scan.Config, error) {
	sc := scan.DefaultConfig()
	sc.MinValueLength = c.Scan.MinValueLength
	sc.DedupeWindow = time.Duration(c.Scan.DedupeWindowMS) * time.Millisecond
	for i := range sc.PhaseThresholds {
		sc.PhaseThresholds[i] = time.Duration(c.Scan.PhaseMS[i]) * time.Millisecond
	}
	sc.MotionThreshold = c.Scan.MotionThreshold
	sc.StablePatchSize = c.Scan.StablePatchSize
	sc.MinStableStreak = c.Scan.MinStableStreak
	sc.OCRThrottle = time.Duration(c.Scan.OCRThrottleMS) * time.Millisecond
	sc.OCRWhitelist = c.Scan.OCRWhitelist
	if c.Scan.AcceptPattern != "" {
		re, err := regexp.Compile(c.Scan.AcceptPattern)
		if err != nil {
			return scan.Config{}, fmt.Errorf("invalid accept_pattern: %w", err)
		}
		sc.Accept = re.MatchString
	}
	if err := sc.Validate(); err != nil {
		return scan.Config{}, err
	}
	return sc, nil
}
