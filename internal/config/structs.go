package config

// Config represents the complete configuration for the labelscan application.
// It covers all commands (image, pdf, serve) and supports loading from
// configuration files, environment variables, and command-line flags.
type Config struct {
	// Global settings
	LogLevel string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose  bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	// Scan core configuration
	Scan ScanConfig `mapstructure:"scan" yaml:"scan" json:"scan"`

	// Output configuration
	Output OutputConfig `mapstructure:"output" yaml:"output" json:"output"`

	// Server configuration (for serve command)
	Server ServerConfig `mapstructure:"server" yaml:"server" json:"server"`
}

// ScanConfig contains the session-start knobs of the scan core. Durations are
// in milliseconds to keep YAML and env representations simple.
type ScanConfig struct {
	MinValueLength  int     `mapstructure:"min_value_length" yaml:"min_value_length" json:"min_value_length"`
	DedupeWindowMS  int     `mapstructure:"dedupe_window_ms" yaml:"dedupe_window_ms" json:"dedupe_window_ms"`
	PhaseMS         []int   `mapstructure:"phase_thresholds_ms" yaml:"phase_thresholds_ms" json:"phase_thresholds_ms"`
	MotionThreshold float64 `mapstructure:"motion_threshold" yaml:"motion_threshold" json:"motion_threshold"`
	StablePatchSize int     `mapstructure:"stable_patch_size" yaml:"stable_patch_size" json:"stable_patch_size"`
	MinStableStreak int     `mapstructure:"min_stable_streak" yaml:"min_stable_streak" json:"min_stable_streak"`
	OCRThrottleMS   int     `mapstructure:"ocr_throttle_ms" yaml:"ocr_throttle_ms" json:"ocr_throttle_ms"`
	OCRWhitelist    string  `mapstructure:"ocr_whitelist" yaml:"ocr_whitelist" json:"ocr_whitelist"`

	// AcceptPattern, when non-empty, is a regular expression a normalized
	// value must match before it is committed (e.g. "^SN").
	AcceptPattern string `mapstructure:"accept_pattern" yaml:"accept_pattern" json:"accept_pattern"`
}

// OutputConfig contains result output settings for the CLI commands.
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format" json:"format"` // text, json, csv
	File   string `mapstructure:"file" yaml:"file" json:"file"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host            string `mapstructure:"host" yaml:"host" json:"host"`
	Port            int    `mapstructure:"port" yaml:"port" json:"port"`
	CORSOrigin      string `mapstructure:"cors_origin" yaml:"cors_origin" json:"cors_origin"`
	MaxUploadMB     int    `mapstructure:"max_upload_mb" yaml:"max_upload_mb" json:"max_upload_mb"`
	TimeoutSec      int    `mapstructure:"timeout_sec" yaml:"timeout_sec" json:"timeout_sec"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" json:"shutdown_timeout"`
}

// DefaultConfig returns a configuration with all defaults applied.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Scan: ScanConfig{
			MinValueLength:  6,
			DedupeWindowMS:  1200,
			PhaseMS:         []int{2000, 5000, 8000, 12000},
			MotionThreshold: 25,
			StablePatchSize: 32,
			MinStableStreak: 3,
			OCRThrottleMS:   1800,
			OCRWhitelist:    "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789",
		},
		Output: OutputConfig{
			Format: "text",
		},
		Server: ServerConfig{
			Host:            "localhost",
			Port:            8080,
			CORSOrigin:      "*",
			MaxUploadMB:     20,
			TimeoutSec:      30,
			ShutdownTimeout: 10,
		},
	}
}
