package game

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// autoSteerDeg caps how fast the autopilot swings the nose toward the lane.
const autoSteerDeg = 3.0

// AutoDrive moves the car for one tick. With no steering keys held it
// follows the lane: toward the lane midpoint when that moved since the last
// tick, otherwise straight along the road. Holding left or right hands the
// wheel to the player; up and down change speed.
func (t *CollisionTracker) AutoDrive(car *Car, in Input) {
	if in != nil {
		if in.Pressed(KeyUp) {
			car.Speed = math.Min(car.Speed+PlayerAccel, MaxPlayerSpeed)
		}
		if in.Pressed(KeyDown) {
			car.Speed = math.Max(car.Speed-PlayerAccel, PlayerAccel)
		}
	}

	manual := in != nil && (in.Pressed(KeyLeft) || in.Pressed(KeyRight))
	switch {
	case manual:
		if in.Pressed(KeyLeft) {
			car.Rotation.Yaw += PlayerSteerDeg
		}
		if in.Pressed(KeyRight) {
			car.Rotation.Yaw -= PlayerSteerDeg
		}
		car.Advance(heading2D(rad(car.Rotation.Yaw)))
	case t.laneMid != t.prevLaneMid:
		want := yawOf(r3.Sub(t.laneMid, car.Position))
		cur := rad(car.Rotation.Yaw)
		step := rad(autoSteerDeg)
		d := clampF(angDiff(cur, want), -step, step)
		car.Rotation.Yaw = deg(cur + d)
		car.Advance(heading2D(cur + d))
	default:
		car.Rotation.Yaw = deg(t.roadYaw)
		car.Advance(t.roadDir)
	}
	car.Rotation.Pitch = 0
	car.Rotation.Roll = 0
	car.Position.Y = t.laneMid.Y
	t.prevLaneMid = t.laneMid
}
