package game

type GameState int

const (
	StateStart         GameState = iota
	StatePause                   // frozen, no tick work
	StateResume                  // one-tick transition back to AutoDrive
	StateAutoDrive               // normal driving
	StateCrashingFall            // left the road on the water side
	StateCrashingCliff           // left the road on the cliff side
	StateGameOver                // out of lives
)

func (s GameState) String() string {
	switch s {
	case StateStart:
		return "start"
	case StatePause:
		return "pause"
	case StateResume:
		return "resume"
	case StateAutoDrive:
		return "autodrive"
	case StateCrashingFall:
		return "crashing-fall"
	case StateCrashingCliff:
		return "crashing-cliff"
	case StateGameOver:
		return "game-over"
	}
	return "unknown"
}

// Crashing reports whether a crash animation owns the car.
func (s GameState) Crashing() bool {
	return s == StateCrashingFall || s == StateCrashingCliff
}

type GameSession struct {
	State    GameState
	Lives    int
	Crashes  int
	Distance float64 // ground units driven while on the road
	Tiles    int     // tile boundaries crossed
	Ticks    uint64

	// State to return to when unpausing.
	resumeTo GameState
}

func NewGameSession() *GameSession {
	return &GameSession{
		State: StateStart,
		Lives: StartLives,
	}
}

// Begin starts a new run from the Start screen or after a game over.
func (s *GameSession) Begin() {
	*s = GameSession{State: StateAutoDrive, Lives: StartLives}
}

// TogglePause flips between Pause and the state that was active before it.
// Start and GameOver cannot be paused.
func (s *GameSession) TogglePause() {
	switch s.State {
	case StateStart, StateGameOver:
		return
	case StatePause:
		s.State = StateResume
	default:
		s.resumeTo = s.State
		s.State = StatePause
	}
}

// resumed returns the state a Resume tick hands back to.
func (s *GameSession) resumed() GameState {
	if s.resumeTo == StatePause || s.resumeTo == StateResume || s.resumeTo == StateStart {
		return StateAutoDrive
	}
	return s.resumeTo
}

// LoseLife records a lost life and reports whether the run is over.
func (s *GameSession) LoseLife() bool {
	if s.Lives > 0 {
		s.Lives--
	}
	return s.Lives == 0
}
