// Package app wires the simulation to a window, a renderer and audio.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"drive/internal/audio"
	"drive/internal/config"
	"drive/internal/game"
	"drive/internal/render"
)

const (
	tickDt = 1.0 / game.TickRate
	// Frames slower than this are treated as a stall, not caught up on.
	maxFrameDt = 0.1
	titleEvery = 30
)

func newSimulation(cfg *config.Config, log *slog.Logger) (*game.Simulation, uint64, error) {
	seed := cfg.ResolveSeed(time.Now())
	sim, err := game.NewSimulation(game.SimConfig{
		Seed:        seed,
		WindowDepth: cfg.WindowDepth,
		Policy:      cfg.Policy(seed),
		Logger:      log,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("simulation: %w", err)
	}
	return sim, seed, nil
}

// RunDesktop opens a window and plays until it is closed or Escape is
// pressed.
func RunDesktop(cfg *config.Config, log *slog.Logger) error {
	runtime.LockOSThread()

	window, err := initWindow(cfg.Width, cfg.Height, cfg.VSync)
	if err != nil {
		return err
	}
	defer glfw.Terminate()
	defer window.Destroy()

	if err := gl.Init(); err != nil {
		return fmt.Errorf("gl init: %w", err)
	}
	log.Info("opengl ready", "version", gl.GoStr(gl.GetString(gl.VERSION)))

	sim, seed, err := newSimulation(cfg, log)
	if err != nil {
		return err
	}
	log.Info("simulation ready", "seed", seed, "depth", cfg.WindowDepth)

	rend, err := render.NewRenderer(log.With("component", "render"))
	if err != nil {
		return fmt.Errorf("renderer: %w", err)
	}
	defer rend.Destroy()

	var sfx *audio.System
	if !cfg.Mute {
		sfx, err = audio.New(cfg.Volume, log.With("component", "audio"))
		if err != nil {
			log.Warn("audio init failed, continuing without sound", "err", err)
		} else {
			audio.Attach(sim.Bus, sfx)
		}
	}

	input := NewInput(window)
	prevState := sim.State()
	acc := 0.0
	frames := 0
	last := glfw.GetTime()
	for !window.ShouldClose() {
		now := glfw.GetTime()
		dt := min(now-last, maxFrameDt)
		last = now

		glfw.PollEvents()
		if input.JustPressed(glfw.KeyEscape) {
			window.SetShouldClose(true)
			continue
		}

		acc += dt
		for acc >= tickDt {
			acc -= tickDt
			if err := sim.Step(input); err != nil {
				return fmt.Errorf("step: %w", err)
			}
			state := sim.State()
			if state == game.StateAutoDrive && (prevState == game.StateStart || prevState == game.StateGameOver) {
				sfx.Play(audio.SoundStart, 1)
			}
			prevState = state
		}

		fbW, fbH := window.GetFramebufferSize()
		if fbW <= 0 || fbH <= 0 {
			continue
		}
		rend.Draw(sim, fbW, fbH)
		window.SwapBuffers()

		frames++
		if frames%titleEvery == 0 {
			window.SetTitle(titleFor(sim.Stats(), sim.Camera.Mode))
		}
	}

	st := sim.Stats()
	log.Info("session ended", "tiles", st.Tiles, "distance", st.Distance, "crashes", st.Crashes)
	return nil
}

func titleFor(st game.Stats, mode game.CameraMode) string {
	switch st.State {
	case game.StateStart:
		return windowTitle + " | press space to start"
	case game.StateGameOver:
		return fmt.Sprintf("%s | game over after %d tiles | space to restart", windowTitle, st.Tiles)
	case game.StatePause:
		return windowTitle + " | paused"
	}
	return fmt.Sprintf("%s | tiles %d | %.0fm | lives %d | %s cam", windowTitle, st.Tiles, st.Distance, st.Lives, mode)
}

// RunHeadless steps an auto-driven simulation for cfg.Ticks ticks, or until
// ctx is done, and reports where it got to.
func RunHeadless(ctx context.Context, cfg *config.Config, log *slog.Logger) (game.Stats, error) {
	sim, seed, err := newSimulation(cfg, log)
	if err != nil {
		return game.Stats{}, err
	}
	if err := sim.Start(); err != nil {
		return game.Stats{}, err
	}
	log.Info("headless run", "seed", seed, "ticks", cfg.Ticks)

	for i := 0; i < cfg.Ticks; i++ {
		if i%int(game.TickRate) == 0 {
			if err := ctx.Err(); err != nil {
				return sim.Stats(), err
			}
		}
		if err := sim.Step(nil); err != nil {
			return sim.Stats(), fmt.Errorf("tick %d: %w", i, err)
		}
	}
	return sim.Stats(), nil
}
