// Package audio plays procedural sound effects in response to simulation
// events.
package audio

import (
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/hajimehoshi/oto/v2"

	"drive/internal/game"
)

const (
	// Tiles between milestone chimes.
	MilestoneTiles = 10
	// Simultaneous effects beyond this are dropped to avoid clipping.
	maxVoices = 4
)

// System owns the output context. A nil *System plays nothing.
type System struct {
	ctx    *oto.Context
	ready  chan struct{}
	volume float64
	voices atomic.Int32
	log    *slog.Logger
}

// New opens the default output device.
func New(volume float64, log *slog.Logger) (*System, error) {
	ctx, ready, err := oto.NewContext(SampleRate, ChannelCount, oto.FormatFloat32LE)
	if err != nil {
		return nil, err
	}
	return &System{ctx: ctx, ready: ready, volume: clamp01(volume), log: log}, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

type soundReader struct {
	data []byte
	pos  int
}

func (r *soundReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	n := copy(p, r.data[r.pos:])
	r.pos += n
	return n, nil
}

// Play starts a sound and returns immediately.
func (s *System) Play(snd Sound, intensity float64) {
	if s == nil || s.volume <= 0 {
		return
	}
	select {
	case <-s.ready:
	default:
		return
	}
	if s.voices.Add(1) > maxVoices {
		s.voices.Add(-1)
		return
	}
	samples := Synthesize(snd, intensity)
	if len(samples) == 0 {
		s.voices.Add(-1)
		return
	}
	go func() {
		defer s.voices.Add(-1)
		player := s.ctx.NewPlayer(&soundReader{data: samples})
		player.SetVolume(s.volume)
		player.Play()
		for player.IsPlaying() {
			time.Sleep(10 * time.Millisecond)
		}
		if err := player.Close(); err != nil {
			s.log.Debug("close player", "sound", snd, "err", err)
		}
	}()
}

// Player is what Attach needs; *System satisfies it.
type Player interface {
	Play(snd Sound, intensity float64)
}

// Attach maps simulation events to sounds.
func Attach(bus *game.EventBus, p Player) {
	tiles := 0
	bus.Subscribe(game.EventCrash, func(game.Event) { p.Play(SoundCrash, 1) })
	bus.Subscribe(game.EventWallHit, func(e game.Event) {
		// Data is impact speed in hundredths.
		p.Play(SoundWallHit, float64(e.Data)/100/game.MaxPlayerSpeed)
	})
	bus.Subscribe(game.EventSplash, func(e game.Event) {
		p.Play(SoundSplash, 1/float64(max(e.Data, 1)))
	})
	bus.Subscribe(game.EventTilesProceeded, func(game.Event) {
		tiles++
		if tiles%MilestoneTiles == 0 {
			p.Play(SoundMilestone, 1)
		}
	})
	bus.Subscribe(game.EventNearMiss, func(game.Event) { p.Play(SoundHorn, 1) })
	bus.Subscribe(game.EventGameOver, func(game.Event) {
		tiles = 0
		p.Play(SoundGameOver, 1)
	})
}
