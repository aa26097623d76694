package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGameSession_TogglePause(t *testing.T) {
	t.Parallel()

	s := NewGameSession()
	s.TogglePause()
	assert.Equal(t, StateStart, s.State, "start screen cannot pause")

	s.Begin()
	s.State = StateCrashingCliff
	s.TogglePause()
	assert.Equal(t, StatePause, s.State)
	s.TogglePause()
	assert.Equal(t, StateResume, s.State)
	assert.Equal(t, StateCrashingCliff, s.resumed())
}

func TestGameSession_LoseLife(t *testing.T) {
	t.Parallel()

	s := NewGameSession()
	for i := StartLives; i > 1; i-- {
		assert.False(t, s.LoseLife())
	}
	assert.True(t, s.LoseLife())
	assert.True(t, s.LoseLife())
	assert.Zero(t, s.Lives)
}

func TestGameState_String(t *testing.T) {
	t.Parallel()

	for st := StateStart; st <= StateGameOver; st++ {
		assert.NotEqual(t, "unknown", st.String())
	}
	assert.True(t, StateCrashingFall.Crashing())
	assert.False(t, StatePause.Crashing())
}

func TestCamera_CrashRestoresChoice(t *testing.T) {
	t.Parallel()

	c := NewCamera()
	c.Cycle()
	c.Cycle()
	assert.Equal(t, CameraTopDown, c.Mode)

	c.SetCrash(true)
	assert.Equal(t, CameraCrash, c.Mode)
	c.Cycle()
	assert.Equal(t, CameraCrash, c.Mode, "cycling during a crash only changes the choice")
	c.SetCrash(false)
	assert.Equal(t, CameraChase, c.Mode)
}

func TestCamera_FollowConverges(t *testing.T) {
	t.Parallel()

	c := NewCamera()
	car := NewCar(Pose{Position: vec(10, 0, 5)})
	c.Follow(car)
	assert.InDelta(t, 10-chaseDistance, c.Eye.X, 1e-9)
	assert.InDelta(t, chaseHeight, c.Eye.Y, 1e-9)

	car.Position.X += 20
	for i := 0; i < 200; i++ {
		c.Follow(car)
	}
	assert.InDelta(t, 30-chaseDistance, c.Eye.X, 1e-6)
	assert.InDelta(t, 34, c.At.X, 1e-6)
}

func TestCamera_ShakeDecays(t *testing.T) {
	t.Parallel()

	c := NewCamera()
	c.AddShake(1, 0.5)
	c.UpdateShake(0.1, 1)
	assert.LessOrEqual(t, c.ShakeX*c.ShakeX, 1.0)
	for i := 0; i < 10; i++ {
		c.UpdateShake(0.1, uint64(i))
	}
	c.UpdateShake(0.1, 99)
	assert.Zero(t, c.ShakeX)
	assert.Zero(t, c.ShakeIntensity)
}

func TestSunCycleLight(t *testing.T) {
	t.Parallel()

	noon := SunCycleLight(DayCyclePeriod * 0.25)
	midnight := SunCycleLight(DayCyclePeriod * 0.75)

	assert.InDelta(t, SunAmbientMax, noon.Ambient, 1e-6)
	assert.InDelta(t, SunAmbientMin, midnight.Ambient, 1e-6)
	assert.Zero(t, noon.Night)
	assert.InDelta(t, 1, midnight.Night, 1e-6)
	assert.Greater(t, noon.SunDir.Y, 0.0)
	assert.Less(t, midnight.SunDir.Y, 0.0)
	assert.Greater(t, noon.Sky[2], midnight.Sky[2])

	for i := 0; i < 100; i++ {
		l := SunCycleLight(float64(i) * DayCyclePeriod / 37)
		assert.InDelta(t, 1, l.SunDir.X*l.SunDir.X+l.SunDir.Y*l.SunDir.Y+l.SunDir.Z*l.SunDir.Z, 1e-9)
		assert.GreaterOrEqual(t, l.Ambient, float32(SunAmbientMin-1e-6))
		assert.LessOrEqual(t, l.Ambient, float32(SunAmbientMax+1e-6))
	}
}
