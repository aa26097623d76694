package game

import "gonum.org/v1/gonum/spatial/r3"

// NPCCar drives the water-side lane toward the player, walking the boundary
// sequence backwards. Pair is the index of the pair it is heading for.
type NPCCar struct {
	Entity
	tileSlot
	Pair  int
	Speed float64
}

type TrafficSystem struct {
	Cars []NPCCar
	rng  *Rand
}

func NewTrafficSystem(seed uint64) *TrafficSystem {
	return &TrafficSystem{
		Cars: make([]NPCCar, 0, 16),
		rng:  NewRand(seed ^ 0xCAFE5EED),
	}
}

// oncomingLane is the lane point between the road centre and the water edge.
func oncomingLane(p BoundaryPair) r3.Vec { return midpoint(p.Mid(), p.First) }

func (ts *TrafficSystem) ShiftIndexes() {
	for i := range ts.Cars {
		ts.Cars[i].shift()
	}
	ts.Cars = removeDead(ts.Cars, func(c *NPCCar) bool { return c.Alive })
}

// SignSpawn maybe starts an NPC at the far end of the given tile.
func (ts *TrafficSystem) SignSpawn(road Road, tile int) {
	pairs := road.Pairs(tile)
	if len(pairs) < 2 || !ts.rng.Chance(NPCChance) {
		return
	}
	last := len(pairs) - 1
	pos := oncomingLane(pairs[last])
	dir := unitFlat(r3.Sub(oncomingLane(pairs[last-1]), pos))
	ts.Cars = append(ts.Cars, NPCCar{
		Entity: Entity{
			Mesh: MeshNPCCar,
			Transform: Transform{
				Position: pos,
				Rotation: Euler{Yaw: deg(yawOf(dir))},
			},
		},
		tileSlot: tileSlot{Tile: tile, Alive: true},
		Pair:     last - 1,
		Speed:    NPCSpeed * ts.rng.RangeF(0.8, 1.2),
	})
}

// Update moves every NPC one tick back along the road. Cars that run off the
// head of the window are dropped.
func (ts *TrafficSystem) Update(road Road) {
	for i := range ts.Cars {
		c := &ts.Cars[i]
		step := c.Speed
		for step > 0 && c.Alive {
			pairs := road.Pairs(c.Tile)
			if c.Pair < 0 || c.Pair >= len(pairs) {
				c.Alive = false
				break
			}
			target := oncomingLane(pairs[c.Pair])
			target.Y = c.Position.Y
			d := dist2D(c.Position, target)
			if d <= step {
				c.Position = target
				step -= d
				c.Pair--
				if c.Pair < 0 {
					c.Tile--
					c.Pair = len(road.Pairs(c.Tile)) - 1
					if c.Tile < 0 {
						c.Alive = false
					}
				}
				continue
			}
			dir := unitFlat(r3.Sub(target, c.Position))
			c.Position = r3.Add(c.Position, r3.Scale(step, dir))
			c.Rotation.Yaw = deg(yawOf(dir))
			step = 0
		}
	}
	ts.Cars = removeDead(ts.Cars, func(c *NPCCar) bool { return c.Alive })
}

// Near returns the live NPC closest to p within radius, or nil.
func (ts *TrafficSystem) Near(p r3.Vec, radius float64) *NPCCar {
	var best *NPCCar
	bestD := radius
	for i := range ts.Cars {
		if d := dist2D(p, ts.Cars[i].Position); d <= bestD {
			best, bestD = &ts.Cars[i], d
		}
	}
	return best
}
