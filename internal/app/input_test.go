package app

import (
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/stretchr/testify/assert"

	"drive/internal/game"
)

type fakeKeys map[glfw.Key]bool

func (f fakeKeys) GetKey(k glfw.Key) glfw.Action {
	if f[k] {
		return glfw.Press
	}
	return glfw.Release
}

func TestInputBindings(t *testing.T) {
	t.Parallel()

	keys := fakeKeys{glfw.KeyA: true, glfw.KeyUp: true}
	in := NewInput(keys)

	assert.True(t, in.Pressed(game.KeyLeft))
	assert.True(t, in.Pressed(game.KeyUp))
	assert.False(t, in.Pressed(game.KeyRight))
	assert.False(t, in.Pressed(game.KeyStart))

	var _ game.Input = in
}

func TestInputTurnSignalBindings(t *testing.T) {
	t.Parallel()

	keys := fakeKeys{glfw.KeyQ: true}
	in := NewInput(keys)
	assert.True(t, in.Pressed(game.KeyTurnLeft))
	assert.False(t, in.Pressed(game.KeyTurnRight))

	keys[glfw.KeyQ], keys[glfw.KeyE] = false, true
	assert.False(t, in.Pressed(game.KeyTurnLeft))
	assert.True(t, in.Pressed(game.KeyTurnRight))
}

func TestInputJustPressed(t *testing.T) {
	t.Parallel()

	keys := fakeKeys{}
	in := NewInput(keys)

	assert.False(t, in.JustPressed(glfw.KeyEscape))
	keys[glfw.KeyEscape] = true
	assert.True(t, in.JustPressed(glfw.KeyEscape))
	assert.False(t, in.JustPressed(glfw.KeyEscape), "held")
	keys[glfw.KeyEscape] = false
	assert.False(t, in.JustPressed(glfw.KeyEscape))
	keys[glfw.KeyEscape] = true
	assert.True(t, in.JustPressed(glfw.KeyEscape))
}
