// Package config manages configuration for Webcam Capture.
//
// Handles loading config from a TOML file, environment variables,
// and provides default values for all settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// =============================================================================
// Configuration struct
// =============================================================================

// Config holds all runtime configuration values.
type Config struct {
	Logging LoggingConfig `toml:"logging"`
	Camera  CameraConfig  `toml:"camera"`
	Preview PreviewConfig `toml:"preview"`
	Output  OutputConfig  `toml:"output"`
}

// LoggingConfig controls the log destination and level.
type LoggingConfig struct {
	Level      string `toml:"level"`
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"` // 0 keeps backups regardless of age
	Console    bool   `toml:"console"`      // also log to stderr
}

// CameraConfig selects and sizes the capture device.
type CameraConfig struct {
	Index             int  `toml:"index"`
	Width             int  `toml:"width"`  // 0 keeps the device default
	Height            int  `toml:"height"` // 0 keeps the device default
	KillDeviceHolders bool `toml:"kill_device_holders"`
}

// PreviewConfig controls the preview refresh.
type PreviewConfig struct {
	TickIntervalMS int `toml:"tick_interval_ms"`
}

// OutputConfig controls where captures go.
type OutputConfig struct {
	TabFile       string `toml:"tab_file"` // "" writes records to stdout
	WorkDirPrefix string `toml:"work_dir_prefix"`
}

// =============================================================================
// Defaults
// =============================================================================

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:      "INFO",
			File:       "./logs/webcam_capture.log",
			MaxSizeMB:  5,
			MaxBackups: 3,
			Console:    true,
		},
		Camera: CameraConfig{
			Index: 0,
		},
		Preview: PreviewConfig{
			TickIntervalMS: 40, // ~25 fps
		},
		Output: OutputConfig{
			WorkDirPrefix: "WebcamCapture-",
		},
	}
}

// =============================================================================
// Load
// =============================================================================

// ConfigPath returns the TOML file path to use, respecting env vars.
func ConfigPath() string {
	if p := os.Getenv("WEBCAM_CAPTURE_CONFIG"); p != "" {
		return p
	}
	return "./webcam_capture.toml"
}

// Load reads the TOML file at the given path (or the default/env path)
// and returns a fully populated Config. Missing tables or keys
// keep their DefaultConfig() values.
func Load(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		// No file is not an error
		cfg.applyEnv()
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("config: failed to parse %s: %w", path, err)
	}

	cfg.normalize()
	cfg.applyEnv()
	return cfg, nil
}

// applyEnv applies environment variable overrides.
func (c *Config) applyEnv() {
	if logFile := os.Getenv("WEBCAM_CAPTURE_LOG_FILE"); logFile != "" {
		c.Logging.File = logFile
	}
}

// normalize clamps values into their supported ranges.
func (c *Config) normalize() {
	c.Logging.Level = strings.ToUpper(strings.TrimSpace(c.Logging.Level))
	if c.Logging.MaxSizeMB < 1 {
		c.Logging.MaxSizeMB = 1
	}
	if c.Logging.MaxBackups < 1 {
		c.Logging.MaxBackups = 1
	}
	if c.Logging.MaxAgeDays < 0 {
		c.Logging.MaxAgeDays = 0
	}
	if c.Camera.Index < 0 {
		c.Camera.Index = 0
	}
	c.Camera.Width = clamp(c.Camera.Width, 0, 3840)
	c.Camera.Height = clamp(c.Camera.Height, 0, 2160)
	if c.Preview.TickIntervalMS == 0 {
		c.Preview.TickIntervalMS = 40
	}
	c.Preview.TickIntervalMS = clamp(c.Preview.TickIntervalMS, 10, 1000)
	if c.Output.WorkDirPrefix == "" {
		c.Output.WorkDirPrefix = "WebcamCapture-"
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// TickInterval returns the preview tick period.
func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.Preview.TickIntervalMS) * time.Millisecond
}

// =============================================================================
// Validate
// =============================================================================

// Validate checks whether the Config values are reasonable and returns
// warnings. Returns ok=false if any setting is critically problematic.
func (c *Config) Validate() (ok bool, warnings []string) {
	ok = true

	if (c.Camera.Width == 0) != (c.Camera.Height == 0) {
		warnings = append(warnings, "camera width and height must be set together; using device default")
	}

	switch c.Logging.Level {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
	default:
		warnings = append(warnings, fmt.Sprintf("unknown log level %q, using INFO", c.Logging.Level))
	}

	if c.Preview.TickIntervalMS > 200 {
		warnings = append(warnings, fmt.Sprintf("tick interval %dms gives a choppy preview", c.Preview.TickIntervalMS))
	}

	if c.Camera.KillDeviceHolders {
		warnings = append(warnings, fmt.Sprintf("kill_device_holders will terminate other processes using camera %d", c.Camera.Index))
	}

	if strings.ContainsAny(c.Output.WorkDirPrefix, `/\`) {
		ok = false
		warnings = append(warnings, "work_dir_prefix must not contain path separators")
	}

	return ok, warnings
}
