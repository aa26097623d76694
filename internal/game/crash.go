package game

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// crashSearchTiles bounds the nearest-vertex search to the front of the
// window; a crashing car never gets further than that.
const crashSearchTiles = 3

// nearestTwo returns the two row vertices closest to p on the ground plane,
// in road order. ok is false when the window holds fewer than two.
func (t *CollisionTracker) nearestTwo(row func(*Tile) []r3.Vec, p r3.Vec) (a, b r3.Vec, ok bool) {
	type hit struct {
		seq int
		v   r3.Vec
		d   float64
	}
	best := [2]hit{{seq: -1, d: math.Inf(1)}, {seq: -1, d: math.Inf(1)}}
	seq := 0
	for i := 0; i < t.road.Len() && i < crashSearchTiles; i++ {
		tile := t.road.Tile(i)
		if tile == nil {
			break
		}
		for j, v := range row(tile) {
			if i > 0 && j == 0 {
				continue // seam vertex, already seen as the previous tile's last
			}
			d := dist2D(p, v)
			switch {
			case d < best[0].d:
				best[1] = best[0]
				best[0] = hit{seq, v, d}
			case d < best[1].d:
				best[1] = hit{seq, v, d}
			}
			seq++
		}
	}
	if best[1].seq < 0 {
		return r3.Vec{}, r3.Vec{}, false
	}
	if best[0].seq > best[1].seq {
		best[0], best[1] = best[1], best[0]
	}
	return best[0].v, best[1].v, true
}

func cliffRow(t *Tile) []r3.Vec { return t.CliffRow }
func waterRow(t *Tile) []r3.Vec { return t.WaterRow }

// lineDistance is the ground distance from p to the infinite line a-b.
func lineDistance(a, b, p r3.Vec) float64 {
	n := r2.Norm(r2.Sub(flat(b), flat(a)))
	if n == 0 {
		return dist2D(a, p)
	}
	return math.Abs(det(a, b, p)) / n
}

// wallStruck reports whether p is no longer strictly on lane's side of the
// line a-b. A point on the line counts.
func wallStruck(a, b, p, lane r3.Vec) bool {
	return det(a, b, p)*det(a, b, lane) <= 0
}

// UpdateCliffCrash runs one tick of the cliff-side crash. Until the wall is
// struck the car keeps rolling toward it and brakes. The wall line is the
// pair of cliff-row vertices nearest the car; it has been struck once the
// car is no longer on the lane's side of that line, a zero determinant
// counting as struck.
func (t *CollisionTracker) UpdateCliffCrash(car *Car, in Input) GameState {
	s := t.session
	if s == nil {
		return StateAutoDrive
	}
	s.Ticks++

	if !s.Hit {
		wall := leftOf(t.roadYaw)
		dir := unitFlat(r3.Add(t.roadDir, r3.Scale(CliffWallPull, wall)))
		car.Rotation.Yaw = deg(yawOf(dir))
		car.Advance(dir)
		car.Speed *= CliffApproachBrake

		a, b, ok := t.nearestTwo(cliffRow, car.Position)
		if !ok {
			return t.recover(car, false)
		}
		if wallStruck(a, b, car.Position, t.laneMid) {
			s.Hit = true
			s.ImpactSpeed = car.Speed
			t.log.Info("cliff wall hit", "speed", car.Speed, "ticks", s.Ticks)
			t.bus.Emit(Event{Type: EventWallHit, Pos: car.Position, Data: int(car.Speed * 100)})
			return StateCrashingCliff
		}

		dis := lineDistance(a, b, car.Position)
		budget := CliffSecondChanceTicks
		if dis > CliffSecondChanceDist && s.Ticks > budget/2 || s.Ticks > budget {
			t.log.Debug("cliff crash second chance", "distance", dis, "ticks", s.Ticks)
			return t.recover(car, false)
		}
		return StateCrashingCliff
	}

	car.Speed = math.Max(car.Speed-CliffSpeedDecay*car.Speed*car.Speed, 0)
	spin := CliffViolence * car.Speed
	car.Rotation.Yaw += spin
	car.Rotation.Roll += spin / 2

	if s.Ticks >= CrashRecoverTicks && anySteering(in) {
		return t.recover(car, true)
	}
	return StateCrashingCliff
}

// UpdateFall runs one tick of the water-side crash: the car rolls outward,
// keeps going forward, drifts sideways and falls until it meets the water
// row, where it bounces.
func (t *CollisionTracker) UpdateFall(car *Car, in Input) GameState {
	s := t.session
	if s == nil {
		return StateAutoDrive
	}
	s.Ticks++

	car.Rotation.Roll = approach(car.Rotation.Roll, -90, FallRollDeg)
	car.Advance(heading2D(rad(car.Rotation.Yaw)))
	car.Position = r3.Add(car.Position, r3.Scale(car.CentripetalVelocity, car.Left()))

	if s.Floating {
		car.VerticalVelocity = 0
	} else {
		car.VerticalVelocity -= Gravity
		car.Position.Y += car.VerticalVelocity
	}

	if a, b, ok := t.nearestTwo(waterRow, car.Position); ok {
		surface := a.Y
		if dist2D(b, car.Position) < dist2D(a, car.Position) {
			surface = b.Y
		}
		switch {
		case s.Floating:
			car.Position.Y = surface
		case car.Position.Y <= surface:
			t.bounce(car, s, surface)
		}
	}

	if s.Ticks >= CrashRecoverTicks && anySteering(in) {
		return t.recover(car, true)
	}
	return StateCrashingFall
}

// splashMin is the rebound speed below which the car settles on the surface
// from the next tick on.
const splashMin = 2 * Gravity

func (t *CollisionTracker) bounce(car *Car, s *CollisionSession, surface float64) {
	car.Position.Y = surface
	car.VerticalVelocity = -car.VerticalVelocity * BounceDamping
	car.Speed *= BounceSpeedFactor
	car.CentripetalVelocity *= 1 - BounceCentripetalLoss
	s.Floating = car.VerticalVelocity < splashMin
	s.Bounces++
	t.log.Debug("splash", "bounce", s.Bounces, "rebound", car.VerticalVelocity)
	t.bus.Emit(Event{Type: EventSplash, Pos: car.Position, Data: s.Bounces})
}
