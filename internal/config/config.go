// Package config loads runtime settings from defaults, an optional YAML
// file (./drive.yaml or $XDG_CONFIG_HOME/drive/drive.yaml), DRIVE_*
// environment variables and bound command-line flags.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"

	"drive/internal/game"
)

const EnvPrefix = "DRIVE"

// Config is the resolved set of runtime settings.
type Config struct {
	// Seed for terrain and traffic. Zero picks one from the clock.
	Seed        uint64 `mapstructure:"seed"`
	WindowDepth int    `mapstructure:"window_depth"`
	// Straight keeps every tile straight.
	Straight bool `mapstructure:"straight"`
	// Signalled starts every tile straight and curves only on the turn keys.
	Signalled bool `mapstructure:"signalled"`

	Width  int     `mapstructure:"width"`
	Height int     `mapstructure:"height"`
	VSync  bool    `mapstructure:"vsync"`
	Volume float64 `mapstructure:"volume"`
	Mute   bool    `mapstructure:"mute"`

	Debug     bool   `mapstructure:"debug"`
	LogFormat string `mapstructure:"log_format"`
	LogFile   string `mapstructure:"log_file"`

	// Ticks bounds a headless run.
	Ticks int `mapstructure:"ticks"`
}

var (
	ErrWindowDepth = errors.New("window depth too small")
	ErrWindowSize  = errors.New("invalid window size")
	ErrLogFormat   = errors.New("unknown log format")
	ErrVolume      = errors.New("volume out of range")
	ErrTicks       = errors.New("ticks must not be negative")
	ErrTurnMode    = errors.New("straight and signalled are exclusive")
)

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var errs []error
	if c.WindowDepth < game.MinWindowDepth {
		errs = append(errs, fmt.Errorf("%w: %d < %d", ErrWindowDepth, c.WindowDepth, game.MinWindowDepth))
	}
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("%w: %dx%d", ErrWindowSize, c.Width, c.Height))
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("%w: %q", ErrLogFormat, c.LogFormat))
	}
	if c.Volume < 0 || c.Volume > 1 {
		errs = append(errs, fmt.Errorf("%w: %v", ErrVolume, c.Volume))
	}
	if c.Ticks < 0 {
		errs = append(errs, ErrTicks)
	}
	if c.Straight && c.Signalled {
		errs = append(errs, ErrTurnMode)
	}
	return errors.Join(errs...)
}

// ResolveSeed returns Seed, or a clock-derived seed when it is zero.
func (c *Config) ResolveSeed(now time.Time) uint64 {
	if c.Seed != 0 {
		return c.Seed
	}
	return uint64(now.UnixNano())
}

// Policy picks the tile-kind generator.
func (c *Config) Policy(seed uint64) game.TurnPolicy {
	switch {
	case c.Straight:
		return game.StraightPolicy{}
	case c.Signalled:
		return &game.SignalledTurns{}
	}
	return game.NewRandomTurns(seed)
}

// SetDefaults registers defaults on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("seed", 0)
	v.SetDefault("window_depth", game.DefaultWindowDepth)
	v.SetDefault("straight", false)
	v.SetDefault("signalled", false)
	v.SetDefault("width", 1280)
	v.SetDefault("height", 720)
	v.SetDefault("vsync", true)
	v.SetDefault("volume", 0.6)
	v.SetDefault("mute", false)
	v.SetDefault("debug", false)
	v.SetDefault("log_format", "text")
	v.SetDefault("log_file", "")
	v.SetDefault("ticks", 3600)
}

type Loader struct {
	v          *viper.Viper
	configFile string
}

type LoaderOption func(*Loader)

// WithConfigFile reads settings from an explicit YAML file.
func WithConfigFile(path string) LoaderOption {
	return func(l *Loader) { l.configFile = path }
}

// WithViper loads from v, typically one with flags already bound.
func WithViper(v *viper.Viper) LoaderOption {
	return func(l *Loader) { l.v = v }
}

func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{}
	for _, opt := range opts {
		opt(l)
	}
	if l.v == nil {
		l.v = viper.New()
	}
	return l
}

func (l *Loader) setupViper() {
	SetDefaults(l.v)
	l.v.SetEnvPrefix(EnvPrefix)
	l.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	l.v.AutomaticEnv()

	if l.configFile != "" {
		l.v.SetConfigFile(l.configFile)
		return
	}
	l.v.SetConfigName("drive")
	l.v.SetConfigType("yaml")
	l.v.AddConfigPath(".")
	l.v.AddConfigPath(filepath.Join(xdg.ConfigHome, "drive"))
}

// Load merges every source and validates the result. A missing default
// config file is not an error; a missing explicit one is.
func (l *Loader) Load() (*Config, error) {
	l.setupViper()
	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// ConfigFileUsed is empty when no file was read.
func (l *Loader) ConfigFileUsed() string { return l.v.ConfigFileUsed() }
