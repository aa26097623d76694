package game

import (
	"fmt"
	"io"
	"log/slog"

	"gonum.org/v1/gonum/spatial/r3"
)

const (
	nearMissRadius   = 3.0
	nearMissCooldown = int(TickRate)
)

type SimConfig struct {
	Seed        uint64
	WindowDepth int        // 0 means DefaultWindowDepth
	Policy      TurnPolicy // nil means RandomTurns from Seed
	Logger      *slog.Logger
}

// Simulation owns every piece of game state and advances it one fixed tick
// at a time. Renderers and audio read from it; nothing else writes to it.
type Simulation struct {
	Road      *Streamer
	Tracker   *CollisionTracker
	Car       *Car
	Camera    *Camera
	Signs     *SignSystem
	Traffic   *TrafficSystem
	Particles *ParticleSystem
	Bus       *EventBus
	Session   *GameSession

	// Clock is game time in seconds; it drives the day cycle.
	Clock float64

	depth    int
	turns    TurnSignaller
	log      *slog.Logger
	held     map[Key]bool
	gameOver bool
	nearMiss int
}

func NewSimulation(cfg SimConfig) (*Simulation, error) {
	if cfg.WindowDepth == 0 {
		cfg.WindowDepth = DefaultWindowDepth
	}
	if cfg.WindowDepth < MinWindowDepth {
		return nil, fmt.Errorf("%w: %d is below the minimum of %d", ErrInvalidDepth, cfg.WindowDepth, MinWindowDepth)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	bus := NewEventBus()
	road := NewStreamer(StreamerConfig{
		Seed:   cfg.Seed,
		Policy: cfg.Policy,
		Logger: cfg.Logger.With("component", "streamer"),
	})
	s := &Simulation{
		Road:      road,
		Tracker:   NewCollisionTracker(road, bus, cfg.Logger.With("component", "collision")),
		Camera:    NewCamera(),
		Signs:     NewSignSystem(cfg.Seed),
		Traffic:   NewTrafficSystem(cfg.Seed),
		Particles: NewParticleSystem(MaxParticles, cfg.Seed),
		Bus:       bus,
		Session:   NewGameSession(),
		Clock:     StartDayTime,
		depth:     cfg.WindowDepth,
		log:       cfg.Logger,
		held:      make(map[Key]bool),
	}
	s.turns, _ = cfg.Policy.(TurnSignaller)
	s.Tracker.AddListener(s.Signs)
	s.Tracker.AddListener(s.Traffic)
	s.subscribe()

	if err := s.reset(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Simulation) subscribe() {
	s.Bus.Subscribe(EventTilesProceeded, func(Event) {
		s.Session.Tiles++
	})
	s.Bus.Subscribe(EventCrash, func(e Event) {
		s.Session.Crashes++
		s.Camera.SetCrash(true)
	})
	s.Bus.Subscribe(EventWallHit, func(e Event) {
		speed := float64(e.Data) / 100
		s.Camera.AddShake(speed, 0.6)
		s.Particles.SpawnSparks(e.Pos, r3.Scale(-1, leftOf(s.Tracker.RoadYaw())), speed)
	})
	s.Bus.Subscribe(EventSplash, func(e Event) {
		s.Camera.AddShake(0.3, 0.3)
		s.Particles.SpawnSpray(e.Pos, e.Data)
	})
	s.Bus.Subscribe(EventRecovered, func(e Event) {
		s.Camera.SetCrash(false)
		if e.Data == 0 {
			return
		}
		if s.Session.LoseLife() {
			s.gameOver = true
		}
	})
}

// reset builds a fresh road and puts the car at its start.
func (s *Simulation) reset() error {
	if err := s.Road.Initialize(s.depth); err != nil {
		return fmt.Errorf("initialise road: %w", err)
	}
	s.Tracker.Reset()
	s.Signs.Populate(s.Road)
	s.Traffic.Cars = s.Traffic.Cars[:0]
	s.Particles.Clear()
	for i := 1; i < s.Road.Len(); i++ {
		s.Traffic.SignSpawn(s.Road, i)
	}

	head := s.Road.Head()
	first := head.Boundary[0]
	start := Pose{Position: midpoint(first.Mid(), first.Second), Yaw: head.Start.Yaw}
	if s.Car == nil {
		s.Car = NewCar(start)
	} else {
		s.Car.Place(start, AutoDriveSpeed)
	}
	s.Camera.SetCrash(false)
	s.Camera.Follow(s.Car)
	s.gameOver = false
	s.nearMiss = 0
	return nil
}

// Start begins a run, rebuilding the road if one was already played.
func (s *Simulation) Start() error {
	if s.Session.Ticks > 0 {
		if err := s.reset(); err != nil {
			return err
		}
	}
	s.Session.Begin()
	s.log.Info("run started", "lives", s.Session.Lives)
	return nil
}

func (s *Simulation) State() GameState { return s.Session.State }

// justPressed reports a key that went down since the previous tick.
func (s *Simulation) justPressed(in Input, k Key) bool {
	down := in != nil && in.Pressed(k)
	was := s.held[k]
	s.held[k] = down
	return down && !was
}

// Step advances one fixed tick.
func (s *Simulation) Step(in Input) error {
	pause := s.justPressed(in, KeyPause)
	if s.justPressed(in, KeyCamera) {
		s.Camera.Cycle()
	}
	start := s.justPressed(in, KeyStart)
	turnLeft := s.justPressed(in, KeyTurnLeft)
	turnRight := s.justPressed(in, KeyTurnRight)

	switch s.Session.State {
	case StateStart, StateGameOver:
		if start {
			return s.Start()
		}
		s.Camera.Follow(s.Car)
		return nil
	case StatePause:
		if pause {
			s.Session.TogglePause()
		}
		return nil
	case StateResume:
		s.Session.State = s.Session.resumed()
		return nil
	}
	if pause {
		s.Session.TogglePause()
		return nil
	}

	if s.turns != nil {
		switch {
		case turnLeft:
			s.turns.Signal(TileCurveLeft)
		case turnRight:
			s.turns.Signal(TileCurveRight)
		}
	}

	s.Session.Ticks++
	s.Clock += 1 / TickRate
	prev := s.Session.State
	var next GameState
	switch prev {
	case StateCrashingFall:
		next = s.Tracker.UpdateFall(s.Car, in)
	case StateCrashingCliff:
		next = s.Tracker.UpdateCliffCrash(s.Car, in)
	default:
		s.Tracker.AutoDrive(s.Car, in)
		s.Session.Distance += s.Car.Speed
		next = s.Tracker.UpdateCollisions(s.Car)
		s.checkNearMiss()
	}
	s.Traffic.Update(s.Road)
	s.Particles.Update(1 / TickRate)

	if s.gameOver {
		next = StateGameOver
		s.log.Info("game over",
			"tiles", s.Session.Tiles,
			"distance", s.Session.Distance,
			"crashes", s.Session.Crashes,
		)
		s.Bus.Emit(Event{Type: EventGameOver, Pos: s.Car.Position, Data: s.Session.Tiles})
	}
	if next != prev {
		s.log.Debug("state change", "from", prev.String(), "to", next.String())
	}
	s.Session.State = next

	s.Camera.Follow(s.Car)
	s.Camera.UpdateShake(1/TickRate, s.Session.Ticks)
	return nil
}

func (s *Simulation) checkNearMiss() {
	if s.nearMiss > 0 {
		s.nearMiss--
		return
	}
	if npc := s.Traffic.Near(s.Car.Position, nearMissRadius); npc != nil {
		s.nearMiss = nearMissCooldown
		s.Bus.Emit(Event{Type: EventNearMiss, Pos: npc.Position})
	}
}

// Light is the day-cycle lighting for the current game time.
func (s *Simulation) Light() Light { return SunCycleLight(s.Clock) }

// Stats is a snapshot for logs and the headless runner.
type Stats struct {
	State     GameState
	Ticks     uint64
	Tiles     int
	Distance  float64
	Crashes   int
	Lives     int
	Signs     int
	NPCs      int
	Particles int
}

func (s *Simulation) Stats() Stats {
	return Stats{
		State:     s.Session.State,
		Ticks:     s.Session.Ticks,
		Tiles:     s.Session.Tiles,
		Distance:  s.Session.Distance,
		Crashes:   s.Session.Crashes,
		Lives:     s.Session.Lives,
		Signs:     len(s.Signs.Signs),
		NPCs:      len(s.Traffic.Cars),
		Particles: len(s.Particles.P),
	}
}
