package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drive/internal/game"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "drive.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "")
	cfg, err := NewLoader(WithConfigFile(path)).Load()
	require.NoError(t, err)

	assert.Equal(t, game.DefaultWindowDepth, cfg.WindowDepth)
	assert.Equal(t, 1280, cfg.Width)
	assert.Equal(t, 720, cfg.Height)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Zero(t, cfg.Seed)
	assert.False(t, cfg.Straight)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
seed: 1234
window_depth: 9
straight: true
log_format: json
volume: 0.25
`)
	l := NewLoader(WithConfigFile(path))
	cfg, err := l.Load()
	require.NoError(t, err)

	assert.Equal(t, uint64(1234), cfg.Seed)
	assert.Equal(t, 9, cfg.WindowDepth)
	assert.True(t, cfg.Straight)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.InDelta(t, 0.25, cfg.Volume, 1e-9)
	assert.Equal(t, path, l.ConfigFileUsed())
	assert.IsType(t, game.StraightPolicy{}, cfg.Policy(1))
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "window_depth: 9\n")
	t.Setenv("DRIVE_WINDOW_DEPTH", "4")
	t.Setenv("DRIVE_SEED", "77")

	cfg, err := NewLoader(WithConfigFile(path)).Load()
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.WindowDepth)
	assert.Equal(t, uint64(77), cfg.Seed)
}

func TestLoadViperOverride(t *testing.T) {
	v := viper.New()
	v.Set("ticks", 10)
	cfg, err := NewLoader(WithViper(v), WithConfigFile(writeConfig(t, "ticks: 50\n"))).Load()
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Ticks)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := NewLoader(WithConfigFile(filepath.Join(t.TempDir(), "nope.yaml"))).Load()
	require.Error(t, err)
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := writeConfig(t, "window_depth: 1\nlog_format: xml\n")
	_, err := NewLoader(WithConfigFile(path)).Load()
	require.ErrorIs(t, err, ErrWindowDepth)
	require.ErrorIs(t, err, ErrLogFormat)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := func() Config {
		return Config{WindowDepth: game.MinWindowDepth, Width: 640, Height: 480, LogFormat: "text", Volume: 1}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{name: "Valid", mutate: func(*Config) {}},
		{name: "ShallowWindow", mutate: func(c *Config) { c.WindowDepth = game.MinWindowDepth - 1 }, want: ErrWindowDepth},
		{name: "ZeroWidth", mutate: func(c *Config) { c.Width = 0 }, want: ErrWindowSize},
		{name: "LoudVolume", mutate: func(c *Config) { c.Volume = 1.5 }, want: ErrVolume},
		{name: "NegativeTicks", mutate: func(c *Config) { c.Ticks = -1 }, want: ErrTicks},
		{name: "Format", mutate: func(c *Config) { c.LogFormat = "" }, want: ErrLogFormat},
		{name: "TwoTurnModes", mutate: func(c *Config) { c.Straight, c.Signalled = true, true }, want: ErrTurnMode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := valid()
			tt.mutate(&c)
			err := c.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestResolveSeed(t *testing.T) {
	t.Parallel()

	now := time.Unix(0, 987654321)
	assert.Equal(t, uint64(5), (&Config{Seed: 5}).ResolveSeed(now))
	assert.Equal(t, uint64(987654321), (&Config{}).ResolveSeed(now))
	assert.IsType(t, &game.RandomTurns{}, (&Config{}).Policy(3))
}

func TestPolicy(t *testing.T) {
	t.Parallel()

	assert.IsType(t, &game.RandomTurns{}, (&Config{}).Policy(3))
	assert.IsType(t, game.StraightPolicy{}, (&Config{Straight: true}).Policy(3))

	p := (&Config{Signalled: true}).Policy(3)
	require.Implements(t, (*game.TurnSignaller)(nil), p)
	assert.Equal(t, game.TileStraight, p.NextKind(0))
	p.(game.TurnSignaller).Signal(game.TileCurveLeft)
	assert.Equal(t, game.TileCurveLeft, p.NextKind(1))
}

func TestLoadSignalledFromEnv(t *testing.T) {
	t.Setenv("DRIVE_SIGNALLED", "true")
	cfg, err := NewLoader(WithConfigFile(writeConfig(t, "seed: 2\n"))).Load()
	require.NoError(t, err)
	assert.True(t, cfg.Signalled)
	assert.IsType(t, &game.SignalledTurns{}, cfg.Policy(2))
}
