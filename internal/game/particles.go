package game

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

type ParticleKind uint8

const (
	ParticleSpark ParticleKind = iota
	ParticleDebris
	ParticleSpray
)

const (
	MaxParticles = 600

	particleGravity = 18.0
	particleBounce  = 0.3
	particleAirDrag = 1.2
	sprayDrag       = 2.4
)

type Particle struct {
	Pos  r3.Vec
	Vel  r3.Vec
	Size float64

	Life    float64 // negative = delayed start
	MaxLife float64
	Kind    ParticleKind
}

// Fade is 1 at birth and 0 at death.
func (p *Particle) Fade() float64 {
	if p.MaxLife <= 0 {
		return 0
	}
	return 1 - clampF(p.Life/p.MaxLife, 0, 1)
}

type ParticleSystem struct {
	Max    int
	P      []Particle
	rng    *Rand
	ovrIdx int // circular overwrite index when full
}

func NewParticleSystem(maxParticles int, seed uint64) *ParticleSystem {
	if maxParticles <= 0 {
		maxParticles = MaxParticles
	}
	return &ParticleSystem{
		Max: maxParticles,
		P:   make([]Particle, 0, maxParticles),
		rng: NewRand(seed ^ 0xBEAD),
	}
}

func (ps *ParticleSystem) Clear() {
	ps.P = ps.P[:0]
	ps.ovrIdx = 0
}

func (ps *ParticleSystem) Add(p Particle) {
	if len(ps.P) < ps.Max {
		ps.P = append(ps.P, p)
		return
	}
	// Circular overwrite.
	if ps.ovrIdx >= ps.Max {
		ps.ovrIdx = 0
	}
	ps.P[ps.ovrIdx] = p
	ps.ovrIdx++
}

// scatter is a random direction in the cone around dir, tilted up by lift.
func (ps *ParticleSystem) scatter(dir r3.Vec, spread, lift float64) r3.Vec {
	yaw := yawOf(dir) + ps.rng.RangeF(-spread, spread)
	up := ps.rng.RangeF(lift*0.5, lift)
	return r3.Vec{X: math.Cos(yaw), Y: up, Z: math.Sin(yaw)}
}

// SpawnSparks throws sparks and body debris back off a wall hit. away points
// from the wall toward the road.
func (ps *ParticleSystem) SpawnSparks(at, away r3.Vec, speed float64) {
	intensity := clampF(speed/MaxPlayerSpeed, 0.2, 1)
	for range int(40 * intensity) {
		ps.Add(Particle{
			Pos:     at,
			Vel:     r3.Scale(ps.rng.RangeF(4, 14)*intensity, ps.scatter(away, 1.2, 1.2)),
			Size:    0.12,
			MaxLife: ps.rng.RangeF(0.2, 0.5),
			Kind:    ParticleSpark,
		})
	}
	for range int(12 * intensity) {
		ps.Add(Particle{
			Pos:     r3.Add(at, r3.Vec{Y: 0.5}),
			Vel:     r3.Scale(ps.rng.RangeF(2, 6), ps.scatter(away, 1.6, 1.5)),
			Size:    ps.rng.RangeF(0.2, 0.45),
			Life:    -ps.rng.RangeF(0, 0.05),
			MaxLife: ps.rng.RangeF(0.8, 1.6),
			Kind:    ParticleDebris,
		})
	}
}

// SpawnSpray throws a ring of water up from a splash. Later bounces are
// smaller.
func (ps *ParticleSystem) SpawnSpray(at r3.Vec, bounce int) {
	intensity := 1 / float64(max(bounce, 1))
	for range int(60 * intensity) {
		dir := r3.Vec{X: 1}
		ps.Add(Particle{
			Pos:     at,
			Vel:     r3.Scale(ps.rng.RangeF(1.5, 5)*intensity+1, ps.scatter(dir, math.Pi, 2.5)),
			Size:    ps.rng.RangeF(0.15, 0.35),
			MaxLife: ps.rng.RangeF(0.6, 1.2),
			Kind:    ParticleSpray,
		})
	}
}

// Update advances particles dt seconds. Particles land on the road plane
// or sink into the water.
func (ps *ParticleSystem) Update(dt float64) {
	if dt <= 0 {
		return
	}
	drag := math.Exp(-particleAirDrag * dt)
	spray := math.Exp(-sprayDrag * dt)

	for i := 0; i < len(ps.P); {
		p := &ps.P[i]
		p.Life += dt
		if p.Life >= p.MaxLife {
			ps.P[i] = ps.P[len(ps.P)-1]
			ps.P = ps.P[:len(ps.P)-1]
			continue
		}
		if p.Life < 0 {
			i++
			continue
		}

		d := drag
		if p.Kind == ParticleSpray {
			d = spray
		}
		p.Vel.X *= d
		p.Vel.Z *= d
		p.Vel.Y -= particleGravity * dt
		p.Pos = r3.Add(p.Pos, r3.Scale(dt, p.Vel))

		floor := 0.0
		if p.Kind == ParticleSpray {
			floor = WaterLevel
		}
		if p.Pos.Y < floor && p.Vel.Y < 0 {
			if p.Kind == ParticleSpray {
				// Sunk.
				p.Life = p.MaxLife
				continue
			}
			p.Pos.Y = floor
			p.Vel.Y = -p.Vel.Y * particleBounce
			p.Vel.X *= 0.5
			p.Vel.Z *= 0.5
		}
		i++
	}
}
