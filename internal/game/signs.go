package game

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// tileSlot pins a decoration to a window-relative tile index. Every window
// slide shifts it down by one; it dies when its tile is evicted.
type tileSlot struct {
	Tile  int
	Alive bool
}

func (s *tileSlot) shift() {
	s.Tile--
	if s.Tile < 0 {
		s.Alive = false
	}
}

// removeDead swap-removes every element alive reports false for.
func removeDead[T any](items []T, alive func(*T) bool) []T {
	for i := 0; i < len(items); {
		if !alive(&items[i]) {
			items[i] = items[len(items)-1]
			items = items[:len(items)-1]
		} else {
			i++
		}
	}
	return items
}

type RoadSign struct {
	Entity
	tileSlot
	Row int
}

// SignSystem scatters signs along the cliff edge of new tiles.
type SignSystem struct {
	Signs []RoadSign
	rng   *Rand
}

func NewSignSystem(seed uint64) *SignSystem {
	return &SignSystem{
		Signs: make([]RoadSign, 0, 16),
		rng:   NewRand(seed ^ 0x5165),
	}
}

func (ss *SignSystem) ShiftIndexes() {
	for i := range ss.Signs {
		ss.Signs[i].shift()
	}
	ss.Signs = removeDead(ss.Signs, func(s *RoadSign) bool { return s.Alive })
}

// SignSpawn maybe places one sign on the given tile, just outside the cliff
// edge and facing oncoming traffic.
func (ss *SignSystem) SignSpawn(road Road, tile int) {
	pairs := road.Pairs(tile)
	if len(pairs) < 2 || !ss.rng.Chance(SignChance) {
		return
	}
	row := ss.rng.Intn(len(pairs) - 1)
	p := pairs[row]
	out := unitFlat(r3.Sub(p.Second, p.First))
	pos := r3.Add(p.Second, r3.Scale(SignCliffOffset, out))
	along := unitFlat(r3.Sub(pairs[row+1].Second, p.Second))

	ss.Signs = append(ss.Signs, RoadSign{
		Entity: Entity{
			Mesh: MeshSign,
			Transform: Transform{
				Position: pos,
				Rotation: Euler{Yaw: deg(yawOf(along)) + 180},
			},
		},
		tileSlot: tileSlot{Tile: tile, Alive: true},
		Row:      row,
	})
}

// Populate runs SignSpawn over every tile but the head, for a fresh window.
func (ss *SignSystem) Populate(road Road) {
	ss.Signs = ss.Signs[:0]
	for i := 1; i < road.Len(); i++ {
		ss.SignSpawn(road, i)
	}
}
