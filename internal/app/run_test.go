package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drive/internal/config"
	"drive/internal/game"
	"drive/internal/logger"
)

func headlessConfig(ticks int) *config.Config {
	return &config.Config{
		Seed:        21,
		WindowDepth: game.DefaultWindowDepth,
		Straight:    true,
		Ticks:       ticks,
	}
}

func TestRunHeadless(t *testing.T) {
	t.Parallel()

	st, err := RunHeadless(context.Background(), headlessConfig(600), logger.Discard())
	require.NoError(t, err)
	assert.Equal(t, game.StateAutoDrive, st.State)
	assert.Equal(t, uint64(600), st.Ticks)
	assert.Positive(t, st.Tiles)
	assert.Zero(t, st.Crashes)
	assert.Equal(t, game.StartLives, st.Lives)
}

func TestRunHeadlessCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := RunHeadless(ctx, headlessConfig(600), logger.Discard())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunHeadlessRejectsShallowWindow(t *testing.T) {
	t.Parallel()

	cfg := headlessConfig(10)
	cfg.WindowDepth = 1
	_, err := RunHeadless(context.Background(), cfg, logger.Discard())
	assert.ErrorIs(t, err, game.ErrInvalidDepth)
}

func TestTitle(t *testing.T) {
	t.Parallel()

	assert.Contains(t, titleFor(game.Stats{State: game.StateStart}, game.CameraChase), "start")
	assert.Contains(t, titleFor(game.Stats{State: game.StateGameOver, Tiles: 12}, game.CameraChase), "12 tiles")
	got := titleFor(game.Stats{State: game.StateAutoDrive, Tiles: 3, Lives: 2, Distance: 150}, game.CameraHood)
	assert.Contains(t, got, "tiles 3")
	assert.Contains(t, got, "lives 2")
	assert.Contains(t, got, game.CameraHood.String())
}
