package game

// Key identifies a control the simulation reacts to. The desktop layer maps
// physical keys onto these.
type Key int

const (
	KeyLeft Key = iota
	KeyRight
	KeyUp
	KeyDown
	KeyPause
	KeyCamera
	KeyStart
	KeyTurnLeft // next tile curves left; needs a TurnSignaller policy
	KeyTurnRight
)

// Input is a pressed-state table.
type Input interface {
	Pressed(k Key) bool
}

// KeyState is a plain map-backed Input, used headless and in tests.
type KeyState map[Key]bool

func (ks KeyState) Pressed(k Key) bool { return ks[k] }

// anySteering gates crash recovery.
func anySteering(in Input) bool {
	if in == nil {
		return false
	}
	return in.Pressed(KeyLeft) || in.Pressed(KeyRight) || in.Pressed(KeyUp) || in.Pressed(KeyDown)
}
