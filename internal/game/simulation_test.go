package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func newTestSimulation(t *testing.T) *Simulation {
	t.Helper()
	sim, err := NewSimulation(SimConfig{Seed: 21, WindowDepth: 6, Policy: StraightPolicy{}})
	require.NoError(t, err)
	return sim
}

func stepN(t *testing.T, sim *Simulation, in Input, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, sim.Step(in))
	}
}

func TestNewSimulation_RejectsShallowWindow(t *testing.T) {
	t.Parallel()

	_, err := NewSimulation(SimConfig{WindowDepth: 1})
	require.ErrorIs(t, err, ErrInvalidDepth)

	sim, err := NewSimulation(SimConfig{Seed: 5})
	require.NoError(t, err)
	assert.Equal(t, DefaultWindowDepth, sim.Road.Len())
}

func TestSimulation_WaitsForStart(t *testing.T) {
	t.Parallel()

	sim := newTestSimulation(t)
	start := sim.Car.Position
	stepN(t, sim, nil, 30)
	assert.Equal(t, StateStart, sim.State())
	assert.Equal(t, start, sim.Car.Position)

	stepN(t, sim, KeyState{KeyStart: true}, 1)
	assert.Equal(t, StateAutoDrive, sim.State())
}

func TestSimulation_DrivesAndStreams(t *testing.T) {
	t.Parallel()

	sim := newTestSimulation(t)
	require.NoError(t, sim.Start())
	clock := sim.Clock

	// 600 ticks at AutoDriveSpeed is 360 units: five tile boundaries.
	stepN(t, sim, nil, 600)
	st := sim.Stats()
	assert.Equal(t, StateAutoDrive, st.State)
	assert.Equal(t, uint64(600), st.Ticks)
	assert.Equal(t, 5, st.Tiles)
	assert.InDelta(t, 600*AutoDriveSpeed, st.Distance, 1e-6)
	assert.Zero(t, st.Crashes)
	assert.Equal(t, StartLives, st.Lives)
	assert.Equal(t, 6, sim.Road.Len())
	assert.InDelta(t, clock+600/TickRate, sim.Clock, 1e-9)

	for _, s := range sim.Signs.Signs {
		assert.Less(t, s.Tile, sim.Road.Len())
		assert.GreaterOrEqual(t, s.Tile, 0)
	}
}

func TestSimulation_PauseAndResume(t *testing.T) {
	t.Parallel()

	sim := newTestSimulation(t)
	require.NoError(t, sim.Start())
	stepN(t, sim, nil, 5)

	pause := KeyState{KeyPause: true}
	stepN(t, sim, pause, 1)
	require.Equal(t, StatePause, sim.State())
	pos := sim.Car.Position

	// Held key does not toggle again.
	stepN(t, sim, pause, 10)
	stepN(t, sim, nil, 10)
	assert.Equal(t, StatePause, sim.State())
	assert.Equal(t, pos, sim.Car.Position)

	stepN(t, sim, pause, 1)
	assert.Equal(t, StateResume, sim.State())
	stepN(t, sim, nil, 1)
	assert.Equal(t, StateAutoDrive, sim.State())
	stepN(t, sim, nil, 1)
	assert.NotEqual(t, pos, sim.Car.Position)
}

func TestSimulation_CameraCycles(t *testing.T) {
	t.Parallel()

	sim := newTestSimulation(t)
	require.NoError(t, sim.Start())
	assert.Equal(t, CameraChase, sim.Camera.Mode)

	cam := KeyState{KeyCamera: true}
	stepN(t, sim, cam, 1)
	assert.Equal(t, CameraHood, sim.Camera.Mode)
	stepN(t, sim, cam, 3)
	assert.Equal(t, CameraHood, sim.Camera.Mode)
	stepN(t, sim, nil, 1)
	stepN(t, sim, cam, 1)
	assert.Equal(t, CameraTopDown, sim.Camera.Mode)
}

// shoveIntoWater puts the car just off the water edge.
func shoveIntoWater(sim *Simulation) {
	right := r3.Scale(-1, leftOf(sim.Tracker.RoadYaw()))
	sim.Car.Position = r3.Add(sim.Tracker.RoadMid(), r3.Scale(RoadHalfWidth+3, right))
}

func TestSimulation_CrashCostsLivesUntilGameOver(t *testing.T) {
	t.Parallel()

	sim := newTestSimulation(t)
	var overs []Event
	sim.Bus.Subscribe(EventGameOver, func(e Event) { overs = append(overs, e) })
	require.NoError(t, sim.Start())

	steer := KeyState{KeyLeft: true}
	for life := StartLives; life > 0; life-- {
		stepN(t, sim, nil, 20)
		require.Equal(t, StateAutoDrive, sim.State())

		shoveIntoWater(sim)
		stepN(t, sim, nil, 1)
		require.Equal(t, StateCrashingFall, sim.State())
		assert.Equal(t, CameraCrash, sim.Camera.Mode)

		stepN(t, sim, nil, CrashRecoverTicks)
		require.Equal(t, StateCrashingFall, sim.State())
		stepN(t, sim, steer, 1)
		assert.Equal(t, life-1, sim.Session.Lives)
		if life > 1 {
			require.Equal(t, StateAutoDrive, sim.State())
			assert.Equal(t, CameraChase, sim.Camera.Mode)
		}
	}

	assert.Equal(t, StateGameOver, sim.State())
	assert.Equal(t, StartLives, sim.Session.Crashes)
	require.Len(t, overs, 1)

	// Frozen until restarted.
	pos := sim.Car.Position
	stepN(t, sim, nil, 10)
	assert.Equal(t, pos, sim.Car.Position)

	stepN(t, sim, KeyState{KeyStart: true}, 1)
	assert.Equal(t, StateAutoDrive, sim.State())
	assert.Equal(t, StartLives, sim.Session.Lives)
	assert.Zero(t, sim.Session.Crashes)
	assert.Equal(t, 6, sim.Road.Len())
}

func TestSimulation_RandomRoadLongRun(t *testing.T) {
	t.Parallel()

	sim, err := NewSimulation(SimConfig{Seed: 1337, WindowDepth: 5})
	require.NoError(t, err)
	require.NoError(t, sim.Start())

	for i := 0; i < 60*60; i++ {
		require.NoError(t, sim.Step(nil))
		require.Equal(t, StateAutoDrive, sim.State(), "tick %d", i)
		require.Equal(t, 5, sim.Road.Len())
	}
	assert.GreaterOrEqual(t, sim.Stats().Tiles, 30)
}

func TestSimulation_SplashSpraysParticles(t *testing.T) {
	t.Parallel()

	sim := newTestSimulation(t)
	var sprayed []int
	sim.Bus.Subscribe(EventSplash, func(Event) { sprayed = append(sprayed, len(sim.Particles.P)) })
	require.NoError(t, sim.Start())
	stepN(t, sim, nil, 20)

	shoveIntoWater(sim)
	stepN(t, sim, nil, CrashRecoverTicks)
	require.NotEmpty(t, sprayed)
	assert.Positive(t, sprayed[0])
	assert.Equal(t, len(sim.Particles.P), sim.Stats().Particles)
}

func TestSimulation_TurnKeysSignalNextTile(t *testing.T) {
	t.Parallel()

	sim, err := NewSimulation(SimConfig{Seed: 21, WindowDepth: 6, Policy: &SignalledTurns{}})
	require.NoError(t, err)
	require.NoError(t, sim.Start())

	tail := func() TileKind { return sim.Road.Tile(sim.Road.Len() - 1).Kind }
	untilTiles := func(n int) {
		for i := 0; sim.Session.Tiles < n; i++ {
			require.Less(t, i, 400, "no tile proceeded")
			require.NoError(t, sim.Step(nil))
		}
	}

	require.NoError(t, sim.Step(KeyState{KeyTurnLeft: true}))
	untilTiles(1)
	assert.Equal(t, TileCurveLeft, tail())

	// Consumed: the next tile is straight again.
	untilTiles(2)
	assert.Equal(t, TileStraight, tail())

	require.NoError(t, sim.Step(KeyState{KeyTurnRight: true}))
	untilTiles(3)
	assert.Equal(t, TileCurveRight, tail())
	untilTiles(4)
	assert.Equal(t, TileStraight, tail())
	assert.Equal(t, StateAutoDrive, sim.State())
}

func TestSimulation_TurnKeysIgnoredByFixedPolicy(t *testing.T) {
	t.Parallel()

	sim := newTestSimulation(t)
	require.NoError(t, sim.Start())
	require.NoError(t, sim.Step(KeyState{KeyTurnLeft: true}))
	stepN(t, sim, nil, 130)
	require.Equal(t, 1, sim.Session.Tiles)
	assert.Equal(t, TileStraight, sim.Road.Tile(sim.Road.Len()-1).Kind)
}
