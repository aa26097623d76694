// Package scene turns simulation state into what a renderer draws: camera
// matrices, per-entity model matrices and the fixed meshes. It does no GL.
package scene

import (
	"github.com/go-gl/mathgl/mgl32"
	"gonum.org/v1/gonum/spatial/r3"

	"drive/internal/game"
)

const (
	NearPlane = 0.5
	FarPlane  = 1200.0

	// Water plane extent around the car.
	WaterSize  = 800.0
	WaterCells = 16
)

// Entity dimensions (width across, height, length along the heading).
var (
	CarSize  = mgl32.Vec3{2.0, 1.4, 4.2}
	NPCSize  = mgl32.Vec3{2.0, 1.6, 4.6}
	SignSize = mgl32.Vec3{0.3, 3.2, 2.4}
)

var (
	CarColor  = mgl32.Vec3{0.85, 0.12, 0.10}
	NPCColor  = mgl32.Vec3{0.20, 0.35, 0.80}
	SignColor = mgl32.Vec3{0.95, 0.80, 0.10}
	RoadColor = mgl32.Vec3{0.28, 0.28, 0.30}
	WaterTint = mgl32.Vec3{0.10, 0.30, 0.45}

	particleColors = [...]mgl32.Vec3{
		game.ParticleSpark:  {1.00, 0.78, 0.30},
		game.ParticleDebris: {0.55, 0.10, 0.08},
		game.ParticleSpray:  {0.80, 0.90, 0.95},
	}
)

func vec3(v r3.Vec) mgl32.Vec3 {
	return mgl32.Vec3{float32(v.X), float32(v.Y), float32(v.Z)}
}

// mirrorZ maps the game's ground plane, where left of the heading is +Z,
// onto the right-handed view space so that left stays on screen-left. It
// flips triangle winding, which the renderer compensates with a clockwise
// front face.
var mirrorZ = mgl32.Scale3D(1, 1, -1)

// View builds the camera matrix, shake included. World-space input stays in
// game coordinates.
func View(cam *game.Camera) mgl32.Mat4 {
	m := func(v r3.Vec) mgl32.Vec3 { return mirrorZ.Mul4x1(vec3(v).Vec4(1)).Vec3() }
	return mgl32.LookAtV(m(cam.EffectiveEye()), m(cam.At), m(cam.Up)).Mul4(mirrorZ)
}

func Projection(fovDeg float64, aspect float32) mgl32.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	return mgl32.Perspective(mgl32.DegToRad(float32(fovDeg)), aspect, NearPlane, FarPlane)
}

// Model places a mesh whose forward axis is +x. Yaw turns +x toward +z to
// match the ground-plane heading; roll banks about the forward axis.
func Model(t game.Transform) mgl32.Mat4 {
	r := t.Rotation
	m := mgl32.Translate3D(float32(t.Position.X), float32(t.Position.Y), float32(t.Position.Z))
	m = m.Mul4(mgl32.HomogRotate3DY(-mgl32.DegToRad(float32(r.Yaw))))
	m = m.Mul4(mgl32.HomogRotate3DZ(mgl32.DegToRad(float32(r.Pitch))))
	m = m.Mul4(mgl32.HomogRotate3DX(mgl32.DegToRad(float32(r.Roll))))
	return m
}

// ParticleModel scales the unit cube to the particle, shrinking it as it
// fades.
func ParticleModel(p *game.Particle) mgl32.Mat4 {
	size := float32(p.Size * (0.3 + 0.7*p.Fade()))
	m := mgl32.Translate3D(float32(p.Pos.X), float32(p.Pos.Y), float32(p.Pos.Z))
	return m.Mul4(mgl32.Scale3D(size, size, size))
}

// Instance is one fixed mesh to draw.
type Instance struct {
	Mesh  game.MeshKind
	Model mgl32.Mat4
	Color mgl32.Vec3
}

// Frame is everything needed to draw one frame.
type Frame struct {
	View       mgl32.Mat4
	Projection mgl32.Mat4
	Eye        mgl32.Vec3
	Light      game.Light
	Water      mgl32.Mat4
	Instances  []Instance
}

// BuildFrame snapshots the simulation. Instances are appended to buf[:0].
func BuildFrame(sim *game.Simulation, aspect float32, buf []Instance) Frame {
	f := Frame{
		View:       View(sim.Camera),
		Projection: Projection(sim.Camera.FOV, aspect),
		Eye:        vec3(sim.Camera.EffectiveEye()),
		Light:      sim.Light(),
		Instances:  buf[:0],
	}

	// The water plane follows the car, snapped to whole cells so its grid
	// does not swim.
	cell := float64(WaterSize / WaterCells)
	p := sim.Car.Position
	wx := float32(cell * float64(int(p.X/cell)))
	wz := float32(cell * float64(int(p.Z/cell)))
	f.Water = mgl32.Translate3D(wx, game.WaterLevel, wz)

	f.Instances = append(f.Instances, Instance{Mesh: game.MeshCar, Model: Model(sim.Car.Transform), Color: CarColor})
	for i := range sim.Traffic.Cars {
		c := &sim.Traffic.Cars[i]
		f.Instances = append(f.Instances, Instance{Mesh: c.Mesh, Model: Model(c.Transform), Color: NPCColor})
	}
	for i := range sim.Signs.Signs {
		s := &sim.Signs.Signs[i]
		f.Instances = append(f.Instances, Instance{Mesh: s.Mesh, Model: Model(s.Transform), Color: SignColor})
	}
	for i := range sim.Particles.P {
		p := &sim.Particles.P[i]
		if p.Life < 0 {
			continue
		}
		f.Instances = append(f.Instances, Instance{Mesh: game.MeshParticle, Model: ParticleModel(p), Color: particleColors[p.Kind]})
	}
	return f
}
