package game

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// MeshKind tells the renderer which fixed mesh draws an entity.
type MeshKind int

const (
	MeshNone MeshKind = iota
	MeshCar
	MeshNPCCar
	MeshSign
	MeshParticle
)

// Euler angles in degrees. Yaw turns on the ground plane, pitch tilts the
// nose up, roll banks.
type Euler struct {
	Yaw, Pitch, Roll float64
}

type Transform struct {
	Position r3.Vec
	Rotation Euler
}

// Entity is anything the renderer draws: a mesh plus a transform.
type Entity struct {
	Mesh MeshKind
	Transform
}

// Motion is the car-only state the crash code drives.
type Motion struct {
	Speed               float64 // units per tick along Direction
	VerticalVelocity    float64
	CentripetalVelocity float64 // sideways drift, positive to the left
}

type Car struct {
	Entity
	Motion
}

func NewCar(at Pose) *Car {
	c := &Car{Entity: Entity{Mesh: MeshCar}}
	c.Place(at, AutoDriveSpeed)
	return c
}

// Place puts the car on a pose with level attitude and the given speed.
func (c *Car) Place(at Pose, speed float64) {
	c.Position = at.Position
	c.Rotation = Euler{Yaw: deg(at.Yaw)}
	c.Motion = Motion{Speed: speed}
}

// Direction is the unit forward vector derived from yaw and pitch.
func (c *Car) Direction() r3.Vec {
	y := rad(c.Rotation.Yaw)
	p := rad(c.Rotation.Pitch)
	return r3.Vec{
		X: math.Cos(p) * math.Cos(y),
		Y: math.Sin(p),
		Z: math.Cos(p) * math.Sin(y),
	}
}

// Left is the unit ground vector to the car's left.
func (c *Car) Left() r3.Vec { return leftOf(rad(c.Rotation.Yaw)) }

// Advance moves the car along dir by its speed.
func (c *Car) Advance(dir r3.Vec) {
	c.Position = r3.Add(c.Position, r3.Scale(c.Speed, dir))
}
