package app

import (
	"github.com/go-gl/glfw/v3.3/glfw"

	"drive/internal/game"
)

// keyBindings maps each control to every physical key that drives it.
var keyBindings = map[game.Key][]glfw.Key{
	game.KeyLeft:   {glfw.KeyLeft, glfw.KeyA},
	game.KeyRight:  {glfw.KeyRight, glfw.KeyD},
	game.KeyUp:     {glfw.KeyUp, glfw.KeyW},
	game.KeyDown:   {glfw.KeyDown, glfw.KeyS},
	game.KeyPause:  {glfw.KeyP},
	game.KeyCamera: {glfw.KeyC},
	game.KeyStart:  {glfw.KeySpace, glfw.KeyEnter},

	game.KeyTurnLeft:  {glfw.KeyQ},
	game.KeyTurnRight: {glfw.KeyE},
}

// keyReader is the part of *glfw.Window input needs.
type keyReader interface {
	GetKey(key glfw.Key) glfw.Action
}

// Input polls a window and satisfies game.Input.
type Input struct {
	window   keyReader
	prevKeys map[glfw.Key]bool
}

func NewInput(window keyReader) *Input {
	return &Input{
		window:   window,
		prevKeys: make(map[glfw.Key]bool),
	}
}

func (in *Input) Pressed(k game.Key) bool {
	for _, key := range keyBindings[k] {
		if in.window.GetKey(key) == glfw.Press {
			return true
		}
	}
	return false
}

// JustPressed is for keys outside the simulation, like quit.
func (in *Input) JustPressed(key glfw.Key) bool {
	down := in.window.GetKey(key) == glfw.Press
	jp := down && !in.prevKeys[key]
	in.prevKeys[key] = down
	return jp
}
