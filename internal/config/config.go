// Package config loads lifeboard settings from YAML and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"lifeboard/internal/logging"
)

// Config represents every tunable of the application.
type Config struct {
	DataDir  string   `yaml:"data_dir"`
	InMemory bool     `yaml:"in_memory"`
	Log      Log      `yaml:"log"`
	HTTP     HTTP     `yaml:"http"`
	Play     Play     `yaml:"play"`
	Defaults Defaults `yaml:"defaults"`
	View     View     `yaml:"view"`
}

// Log controls structured logging.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// HTTP configures the API server.
type HTTP struct {
	Addr string `yaml:"addr"`
}

// Play configures timed auto-advance.
type Play struct {
	Interval time.Duration `yaml:"interval"`
	// MaxIterations stops autoplay after this many generations; 0 means no limit.
	MaxIterations int `yaml:"max_iterations"`
}

// Defaults holds fallback arguments for evolution commands.
type Defaults struct {
	Steps         int `yaml:"steps"`
	MaxIterations int `yaml:"max_iterations"`
	// MaxSteps is the largest step count a single ahead request may ask for.
	MaxSteps int `yaml:"max_steps"`
}

// View configures the graphical viewer.
type View struct {
	Scale int `yaml:"scale"`
	TPS   int `yaml:"tps"`
}

// Default returns a Config populated with sensible defaults.
func Default() Config {
	return Config{
		DataDir:  defaultDataDir(),
		Log:      Log{Level: "info", Format: "auto"},
		HTTP:     HTTP{Addr: "127.0.0.1:8080"},
		Play:     Play{Interval: 700 * time.Millisecond},
		Defaults: Defaults{Steps: 5, MaxIterations: 50, MaxSteps: 10000},
		View:     View{Scale: 24, TPS: 60},
	}
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

func defaultDataDir() string {
	return filepath.Join(homeDir(), ".lifeboard", "data")
}

// DefaultPath is where Load looks when no explicit path is given.
func DefaultPath() string {
	return filepath.Join(homeDir(), ".lifeboard", "config.yaml")
}

// Load reads path over the defaults. An empty path means DefaultPath, which
// is allowed to be missing; an explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// WriteDefault writes the default configuration to path, creating its directory.
func WriteDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(Default())
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if !c.InMemory && c.DataDir == "" {
		return errors.New("data_dir is required unless in_memory is set")
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if _, err := logging.ParseFormat(c.Log.Format); err != nil {
		return err
	}
	if c.Play.Interval <= 0 {
		return fmt.Errorf("play.interval must be positive, got %s", c.Play.Interval)
	}
	if c.Play.MaxIterations < 0 {
		return fmt.Errorf("play.max_iterations must be non-negative, got %d", c.Play.MaxIterations)
	}
	if c.Defaults.Steps < 0 {
		return fmt.Errorf("defaults.steps must be non-negative, got %d", c.Defaults.Steps)
	}
	if c.Defaults.MaxSteps <= 0 {
		return fmt.Errorf("defaults.max_steps must be positive, got %d", c.Defaults.MaxSteps)
	}
	if c.Defaults.Steps > c.Defaults.MaxSteps {
		return fmt.Errorf("defaults.steps %d exceeds defaults.max_steps %d", c.Defaults.Steps, c.Defaults.MaxSteps)
	}
	if c.Defaults.MaxIterations <= 0 {
		return fmt.Errorf("defaults.max_iterations must be positive, got %d", c.Defaults.MaxIterations)
	}
	if c.View.Scale <= 0 || c.View.TPS <= 0 {
		return errors.New("view.scale and view.tps must be positive")
	}
	return nil
}

// Logging converts the log settings for the logging package.
func (c Config) Logging() logging.Config {
	return logging.Config{Level: c.Log.Level, Format: c.Log.Format}
}

// Bind attaches the global settings to the provided FlagSet. Values parsed
// into c only take effect through Merge.
func (c *Config) Bind(fs *pflag.FlagSet) {
	fs.StringVar(&c.DataDir, "data-dir", c.DataDir, "directory for the board database")
	fs.BoolVar(&c.InMemory, "in-memory", c.InMemory, "keep boards in memory only")
	fs.StringVar(&c.Log.Level, "log-level", c.Log.Level, "log level (debug, info, warn, error)")
	fs.StringVar(&c.Log.Format, "log-format", c.Log.Format, "log format (auto, text, json)")
	fs.StringVar(&c.HTTP.Addr, "addr", c.HTTP.Addr, "HTTP listen address")
	fs.DurationVar(&c.Play.Interval, "interval", c.Play.Interval, "auto-advance interval")
	fs.IntVar(&c.View.Scale, "scale", c.View.Scale, "pixels per cell")
	fs.IntVar(&c.View.TPS, "tps", c.View.TPS, "viewer ticks per second")
}

// Merge copies from flags every setting whose flag was set explicitly on fs.
func (c *Config) Merge(fs *pflag.FlagSet, flags *Config) error {
	overrides := map[string]func(){
		"data-dir":   func() { c.DataDir = flags.DataDir },
		"in-memory":  func() { c.InMemory = flags.InMemory },
		"log-level":  func() { c.Log.Level = flags.Log.Level },
		"log-format": func() { c.Log.Format = flags.Log.Format },
		"addr":       func() { c.HTTP.Addr = flags.HTTP.Addr },
		"interval":   func() { c.Play.Interval = flags.Play.Interval },
		"scale":      func() { c.View.Scale = flags.View.Scale },
		"tps":        func() { c.View.TPS = flags.View.TPS },
	}
	fs.Visit(func(f *pflag.Flag) {
		if apply, ok := overrides[f.Name]; ok {
			apply()
		}
	})
	return c.Validate()
}
