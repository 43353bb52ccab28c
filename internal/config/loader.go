package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the base name for configuration files (without extension).
	ConfigFileName = "labelscan"

	// EnvPrefix is the prefix for environment variables.
	EnvPrefix = "LABELSCAN"
)

// Loader handles loading configuration from files, environment variables and
// bound command-line flags, layered in that order of increasing precedence.
type Loader struct {
	v    *viper.Viper
	file string
}

// NewLoader creates a new configuration loader backed by the global viper
// instance so cobra flag bindings take effect.
func NewLoader() *Loader {
	return &Loader{v: viper.GetViper()}
}

// SetConfigFile points the loader at an explicit configuration file instead
// of the search paths.
func (l *Loader) SetConfigFile(path string) {
	l.file = path
}

// Load reads configuration, unmarshals and validates it. An explicit config
// file bypasses the name/path search entirely; viper's SetConfigName resets
// a previously set file, so the two modes must not mix.
func (l *Loader) Load() (*Config, error) {
	l.setupEnvironmentVariables()
	l.setDefaults()

	if l.file != "" {
		l.v.SetConfigFile(l.file)
		// An explicitly requested file must exist and parse.
		if err := l.v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		l.v.SetConfigName(ConfigFileName)
		l.v.SetConfigType("yaml")
		l.addConfigPaths()
		if err := l.v.ReadInConfig(); err != nil {
			// A missing config file is fine; defaults and env vars apply.
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// ConfigFileUsed returns the path of the config file viper loaded, if any.
func (l *Loader) ConfigFileUsed() string { return l.v.ConfigFileUsed() }

func (l *Loader) addConfigPaths() {
	l.v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		l.v.AddConfigPath(home)
		l.v.AddConfigPath(filepath.Join(home, ".config", "labelscan"))
	}
	l.v.AddConfigPath("/etc/labelscan")
}

func (l *Loader) setupEnvironmentVariables() {
	l.v.SetEnvPrefix(EnvPrefix)
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	l.v.AutomaticEnv()
}

func (l *Loader) setDefaults() {
	d := DefaultConfig()
	l.v.SetDefault("log_level", d.LogLevel)
	l.v.SetDefault("verbose", d.Verbose)

	l.v.SetDefault("scan.min_value_length", d.Scan.MinValueLength)
	l.v.SetDefault("scan.dedupe_window_ms", d.Scan.DedupeWindowMS)
	l.v.SetDefault("scan.phase_thresholds_ms", d.Scan.PhaseMS)
	l.v.SetDefault("scan.motion_threshold", d.Scan.MotionThreshold)
	l.v.SetDefault("scan.stable_patch_size", d.Scan.StablePatchSize)
	l.v.SetDefault("scan.min_stable_streak", d.Scan.MinStableStreak)
	l.v.SetDefault("scan.ocr_throttle_ms", d.Scan.OCRThrottleMS)
	l.v.SetDefault("scan.ocr_whitelist", d.Scan.OCRWhitelist)
	l.v.SetDefault("scan.accept_pattern", d.Scan.AcceptPattern)

	l.v.SetDefault("output.format", d.Output.Format)
	l.v.SetDefault("output.file", d.Output.File)

	l.v.SetDefault("server.host", d.Server.Host)
	l.v.SetDefault("server.port", d.Server.Port)
	l.v.SetDefault("server.cors_origin", d.Server.CORSOrigin)
	l.v.SetDefault("server.max_upload_mb", d.Server.MaxUploadMB)
	l.v.SetDefault("server.timeout_sec", d.Server.TimeoutSec)
	l.v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)
}
