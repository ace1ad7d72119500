// Package hostconf loads the robohost configuration file.
package hostconf

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mvdh/robohost/pkg/device"
)

// DefaultPath is where the CLI looks for its configuration unless told
// otherwise.
const DefaultPath = "robohost.yaml"

type Config struct {
	Registry    string            `yaml:"registry"`
	RulesFile   string            `yaml:"rules_file"`
	DeviceGlob  string            `yaml:"device_glob"`
	Detect      DetectConfig      `yaml:"detect"`
	Calibration CalibrationConfig `yaml:"calibration"`
	Startup     StartupConfig     `yaml:"startup"`
}

type DetectConfig struct {
	IntervalMs int `yaml:"interval_ms"`
	TimeoutSec int `yaml:"timeout_sec"`
}

type CalibrationConfig struct {
	Source string `yaml:"source"` // source-of-truth tree
	Cache  string `yaml:"cache"`  // runtime cache tree
}

type StartupConfig struct {
	SettleSec int      `yaml:"settle_sec"`
	Command   []string `yaml:"command"`
	Required  []string `yaml:"required_devices"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Registry:   "devices.csv",
		RulesFile:  "99-robohost.rules",
		DeviceGlob: device.DefaultGlob,
		Detect: DetectConfig{
			IntervalMs: 1000,
			TimeoutSec: 30,
		},
		Calibration: CalibrationConfig{
			Source: "calibration",
			Cache:  defaultCacheDir(),
		},
		Startup: StartupConfig{
			Command:  []string{"python", "-m", "lerobot.teleoperate"},
			Required: []string{"tty_leader", "tty_follower"},
		},
	}
}

func defaultCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "robohost", "calibration")
	}
	return "calibration-cache"
}

// Load reads a YAML configuration file, applying defaults for anything
// omitted. A missing file yields the defaults; a malformed one is an error.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks configuration correctness. It does not mutate.
func (c *Config) Validate() error {
	if c.Registry == "" {
		return fmt.Errorf("registry path must not be empty")
	}
	if c.Detect.IntervalMs <= 0 {
		return fmt.Errorf("detect.interval_ms must be positive, got %d", c.Detect.IntervalMs)
	}
	if c.Detect.TimeoutSec <= 0 {
		return fmt.Errorf("detect.timeout_sec must be positive, got %d", c.Detect.TimeoutSec)
	}
	if len(c.Startup.Command) == 0 {
		return fmt.Errorf("startup.command must not be empty")
	}
	return nil
}

// DetectInterval returns the polling interval as a duration.
func (c *Config) DetectInterval() time.Duration {
	return time.Duration(c.Detect.IntervalMs) * time.Millisecond
}

// DetectTimeout returns the detection timeout as a duration.
func (c *Config) DetectTimeout() time.Duration {
	return time.Duration(c.Detect.TimeoutSec) * time.Second
}
