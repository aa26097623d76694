package game

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

type CameraMode int

const (
	CameraChase CameraMode = iota
	CameraHood
	CameraTopDown
	CameraCrash // set by the simulation while a crash plays out
)

func (m CameraMode) String() string {
	switch m {
	case CameraHood:
		return "hood"
	case CameraTopDown:
		return "top-down"
	case CameraCrash:
		return "crash"
	}
	return "chase"
}

const (
	chaseDistance  = 14.0
	chaseHeight    = 6.0
	hoodHeight     = 1.6
	topDownHeight  = 60.0
	crashOrbit     = 18.0
	crashHeight    = 9.0
	cameraFollow   = 0.12 // fraction of the gap closed per tick
	crashOrbitRate = 0.6  // degrees per tick
)

type Camera struct {
	Mode CameraMode
	Eye  r3.Vec
	At   r3.Vec
	Up   r3.Vec
	FOV  float64 // vertical, degrees

	// Player-selected mode, restored after a crash.
	chosen CameraMode
	orbit  float64

	// Screen shake.
	ShakeX, ShakeY float64 // current offset in world units
	ShakeTimer     float64 // remaining shake time, seconds
	ShakeIntensity float64 // max offset magnitude
}

func NewCamera() *Camera {
	return &Camera{Up: r3.Vec{Y: 1}, FOV: 60}
}

// Cycle steps through the player-selectable modes.
func (c *Camera) Cycle() {
	c.chosen = (c.chosen + 1) % CameraCrash
	if c.Mode != CameraCrash {
		c.Mode = c.chosen
	}
}

// SetCrash switches into or out of the crash view.
func (c *Camera) SetCrash(on bool) {
	if on {
		if c.Mode != CameraCrash {
			c.orbit = 0
		}
		c.Mode = CameraCrash
		return
	}
	c.Mode = c.chosen
}

// Follow moves the camera one tick toward its target for the current mode.
func (c *Camera) Follow(car *Car) {
	yaw := rad(car.Rotation.Yaw)
	fwd := heading2D(yaw)
	var eye, at r3.Vec
	snap := false
	switch c.Mode {
	case CameraHood:
		eye = r3.Add(car.Position, r3.Vec{Y: hoodHeight})
		at = r3.Add(eye, r3.Scale(10, fwd))
		snap = true
	case CameraTopDown:
		at = car.Position
		eye = r3.Add(car.Position, r3.Add(r3.Vec{Y: topDownHeight}, r3.Scale(-1, fwd)))
	case CameraCrash:
		c.orbit += crashOrbitRate
		a := yaw + math.Pi + rad(c.orbit)
		at = car.Position
		eye = r3.Add(car.Position, r3.Add(r3.Scale(crashOrbit, heading2D(a)), r3.Vec{Y: crashHeight}))
	default:
		at = r3.Add(car.Position, r3.Scale(4, fwd))
		eye = r3.Add(car.Position, r3.Add(r3.Scale(-chaseDistance, fwd), r3.Vec{Y: chaseHeight}))
	}
	if snap || c.Eye == (r3.Vec{}) {
		c.Eye, c.At = eye, at
		return
	}
	c.Eye = lerp3(c.Eye, eye, cameraFollow)
	c.At = lerp3(c.At, at, cameraFollow)
}

func lerp3(a, b r3.Vec, t float64) r3.Vec {
	return r3.Add(a, r3.Scale(t, r3.Sub(b, a)))
}

// AddShake triggers screen shake with given intensity and duration.
func (c *Camera) AddShake(intensity, duration float64) {
	if intensity > c.ShakeIntensity {
		c.ShakeIntensity = intensity
	}
	if duration > c.ShakeTimer {
		c.ShakeTimer = duration
	}
}

// UpdateShake decays shake and computes random offsets.
func (c *Camera) UpdateShake(dt float64, seed uint64) {
	if c.ShakeTimer <= 0 {
		c.ShakeX = 0
		c.ShakeY = 0
		c.ShakeIntensity = 0
		return
	}
	c.ShakeTimer = math.Max(c.ShakeTimer-dt, 0)
	t := c.ShakeTimer
	rr := NewRand(seed ^ uint64(t*10000))
	mag := c.ShakeIntensity * (t / (t + 0.08))
	c.ShakeX = rr.RangeF(-mag, mag)
	c.ShakeY = rr.RangeF(-mag, mag)
}

// EffectiveEye returns the eye position with shake applied across the view.
func (c *Camera) EffectiveEye() r3.Vec {
	view := unitFlat(r3.Sub(c.At, c.Eye))
	side := r3.Vec{X: -view.Z, Z: view.X}
	return r3.Add(c.Eye, r3.Add(r3.Scale(c.ShakeX, side), r3.Vec{Y: c.ShakeY}))
}
