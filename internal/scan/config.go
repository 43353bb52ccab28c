package scan

import (
	"errors"
	"time"

	"github.com/MeKo-Tech/labelscan/internal/enhance"
	"github.com/MeKo-Tech/labelscan/internal/roi"
)

// Config holds the session-start knobs of the scan core. Every empirically
// tuned constant lives here as a named default rather than a literal.
type Config struct {
	// MinValueLength rejects shorter decoded values as noise.
	MinValueLength int

	// DedupeWindow suppresses a repeat commit of the last value within this
	// window. A deliberate re-scan after the cooldown is re-added.
	DedupeWindow time.Duration

	// PhaseThresholds are the elapsed-time boundaries between phases 0..4.
	PhaseThresholds [4]time.Duration

	// MotionThreshold is the mean absolute patch difference (0-255 scale)
	// above which a frame counts as motion and resets the stable streak.
	MotionThreshold float64

	// StablePatchSize is the side of the square center patch sampled by the
	// stability gate.
	StablePatchSize int

	// MinStableStreak is the number of consecutive stable frames required
	// before any decode attempt runs.
	MinStableStreak int

	// OCRThrottle is the minimum interval between OCR launches.
	OCRThrottle time.Duration

	// OCRWhitelist constrains the OCR character set.
	OCRWhitelist string

	// Accept optionally filters normalized values (e.g. a required prefix).
	// Nil accepts everything that passes the length check.
	Accept func(string) bool

	Enhance enhance.Params
	ROI     roi.Params
}

// DefaultConfig returns the tuned session defaults.
func DefaultConfig() Config {
	return Config{
		MinValueLength:  6,
		DedupeWindow:    1200 * time.Millisecond,
		PhaseThresholds: [4]time.Duration{2 * time.Second, 5 * time.Second, 8 * time.Second, 12 * time.Second},
		MotionThreshold: 25,
		StablePatchSize: 32,
		MinStableStreak: 3,
		OCRThrottle:     1800 * time.Millisecond,
		OCRWhitelist:    "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789",
		Enhance:         enhance.DefaultParams(),
		ROI:             roi.DefaultParams(),
	}
}

// Validate reports configuration errors that would break the session loop.
func (c Config) Validate() error {
	if c.MinValueLength < 1 {
		return errors.New("scan: min value length must be at least 1")
	}
	if c.StablePatchSize < 1 {
		return errors.New("scan: stability patch size must be positive")
	}
	if c.MinStableStreak < 0 {
		return errors.New("scan: min stable streak must not be negative")
	}
	for i := 1; i < len(c.PhaseThresholds); i++ {
		if c.PhaseThresholds[i] <= c.PhaseThresholds[i-1] {
			return errors.New("scan: phase thresholds must be strictly increasing")
		}
	}
	return nil
}
