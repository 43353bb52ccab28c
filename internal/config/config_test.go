package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_Valid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }},
		{"wrong phase count", func(c *Config) { c.Scan.PhaseMS = []int{2000, 5000, 8000} }},
		{"non-increasing phases", func(c *Config) { c.Scan.PhaseMS = []int{2000, 5000, 5000, 12000} }},
		{"zero min length", func(c *Config) { c.Scan.MinValueLength = 0 }},
		{"bad accept pattern", func(c *Config) { c.Scan.AcceptPattern = "([" }},
		{"bad output format", func(c *Config) { c.Output.Format = "xml" }},
		{"bad port", func(c *Config) { c.Server.Port = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestScanConfig_Translation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Scan.MinValueLength = 8
	cfg.Scan.DedupeWindowMS = 900
	cfg.Scan.PhaseMS = []int{1000, 2000, 3000, 4000}
	cfg.Scan.OCRThrottleMS = 2500
	cfg.Scan.AcceptPattern = "^LBL"

	sc, err := cfg.ScanConfig()
	require.NoError(t, err)
	assert.Equal(t, 8, sc.MinValueLength)
	assert.Equal(t, 900*time.Millisecond, sc.DedupeWindow)
	assert.Equal(t, [4]time.Duration{
		time.Second, 2 * time.Second, 3 * time.Second, 4 * time.Second,
	}, sc.PhaseThresholds)
	assert.Equal(t, 2500*time.Millisecond, sc.OCRThrottle)

	require.NotNil(t, sc.Accept)
	assert.True(t, sc.Accept("LBL123456"))
	assert.False(t, sc.Accept("XYZ123456"))
}

func TestScanConfig_NoPatternMeansNilPredicate(t *testing.T) {
	sc, err := DefaultConfig().ScanConfig()
	require.NoError(t, err)
	assert.Nil(t, sc.Accept)
}
