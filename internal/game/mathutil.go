package game

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// splitmix64 is a fast, high-quality 64-bit mixer.
func splitmix64(x uint64) uint64 {
	x += 0x9E3779B97F4A7C15
	z := x
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func approach(cur, target, maxDelta float64) float64 {
	if cur < target {
		cur += maxDelta
		if cur > target {
			cur = target
		}
		return cur
	}
	if cur > target {
		cur -= maxDelta
		if cur < target {
			cur = target
		}
	}
	return cur
}

func angDiff(a, b float64) float64 {
	d := b - a
	for d <= -math.Pi {
		d += 2 * math.Pi
	}
	for d > math.Pi {
		d -= 2 * math.Pi
	}
	return d
}

func deg(rad float64) float64 { return rad * 180 / math.Pi }
func rad(deg float64) float64 { return deg * math.Pi / 180 }

// flat projects onto the ground plane. Ground coordinates are (x, z).
func flat(v r3.Vec) r2.Vec { return r2.Vec{X: v.X, Y: v.Z} }

// dist2D is the ground-plane distance used by every collision comparison.
func dist2D(a, b r3.Vec) float64 { return r2.Norm(r2.Sub(flat(a), flat(b))) }

func midpoint(a, b r3.Vec) r3.Vec { return r3.Scale(0.5, r3.Add(a, b)) }

// heading2D returns the unit ground direction for yaw (radians).
func heading2D(yaw float64) r3.Vec {
	return r3.Vec{X: math.Cos(yaw), Z: math.Sin(yaw)}
}

// leftOf returns the unit ground normal to the left of yaw.
func leftOf(yaw float64) r3.Vec {
	return r3.Vec{X: -math.Sin(yaw), Z: math.Cos(yaw)}
}

// unitFlat normalises v on the ground plane; the zero vector stays zero.
func unitFlat(v r3.Vec) r3.Vec {
	v.Y = 0
	n := r3.Norm(v)
	if n == 0 {
		return r3.Vec{}
	}
	return r3.Scale(1/n, v)
}

func yawOf(dir r3.Vec) float64 { return math.Atan2(dir.Z, dir.X) }

// det is the 2D cross product of (b-a) and (p-a) on the ground plane.
// Positive means p lies to the left of a→b.
func det(a, b, p r3.Vec) float64 {
	return r2.Cross(r2.Sub(flat(b), flat(a)), r2.Sub(flat(p), flat(a)))
}

// Rand is a tiny deterministic RNG (xorshift64*).
type Rand struct {
	s uint64
}

func NewRand(seed uint64) *Rand {
	if seed == 0 {
		seed = 1
	}
	return &Rand{s: splitmix64(seed)}
}

func (r *Rand) NextU64() uint64 {
	x := r.s
	x ^= x >> 12
	x ^= x << 25
	x ^= x >> 27
	r.s = x
	return x * 2685821657736338717
}

func (r *Rand) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.NextU64() % uint64(n))
}

func (r *Rand) Range(min, max int) int {
	if max <= min {
		return min
	}
	return min + r.Intn(max-min+1)
}

func (r *Rand) Float64() float64 {
	return float64(r.NextU64()>>11) * (1.0 / (1 << 53))
}

func (r *Rand) RangeF(min, max float64) float64 {
	if max <= min {
		return min
	}
	return min + (max-min)*r.Float64()
}

// Chance reports true pct percent of the time.
func (r *Rand) Chance(pct int) bool {
	return r.Intn(100) < pct
}
