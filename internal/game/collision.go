package game

import (
	"io"
	"log/slog"

	"gonum.org/v1/gonum/spatial/r3"
)

// Road is the boundary data the tracker walks. Streamer implements it.
type Road interface {
	Len() int
	Tile(i int) *Tile
	Pairs(i int) []BoundaryPair
	ProceedTiles() *Tile
}

// TileListener is told when the window slides: ShiftIndexes first, then
// SignSpawn with the window index of the new tail tile.
type TileListener interface {
	ShiftIndexes()
	SignSpawn(road Road, tile int)
}

type Side int

const (
	SideNone Side = iota
	SideWater
	SideCliff
)

func (s Side) String() string {
	switch s {
	case SideWater:
		return "water"
	case SideCliff:
		return "cliff"
	}
	return "none"
}

// CollisionSession is the state of one crash, from detection to recovery.
type CollisionSession struct {
	Side        Side
	ImpactSpeed float64
	Ticks       int
	Hit         bool // cliff: wall struck
	Closest     int  // pair index in the head tile when the crash began
	Bounces     int
	Floating    bool // water: rebound too weak to leave the surface again
}

// IsInside reports whether p projects onto the segment First→Second,
// closed at both ends. Ground plane only.
func IsInside(pair BoundaryPair, p r3.Vec) bool {
	seg := r3.Sub(pair.Second, pair.First)
	seg.Y = 0
	rel := r3.Sub(p, pair.First)
	rel.Y = 0
	proj := r3.Dot(rel, seg)
	return proj >= 0 && proj <= r3.Dot(seg, seg)
}

// ClassifySide picks the edge p left the road over: closer to First (the
// water edge) means water, anything else cliff.
func ClassifySide(pair BoundaryPair, p r3.Vec) Side {
	if dist2D(p, pair.First) < dist2D(p, pair.Second) {
		return SideWater
	}
	return SideCliff
}

// CollisionTracker follows the car along the boundary sequence, decides when
// it has left the road and runs the crash animations.
//
// The crash checks are discrete per tick. A car whose displacement in one
// tick exceeds its gap to the wall line can pass through it without a hit.
type CollisionTracker struct {
	road      Road
	listeners []TileListener
	bus       *EventBus
	log       *slog.Logger

	index       int
	isCollision bool
	session     *CollisionSession
	proceeded   int

	cur, next   BoundaryPair
	roadMid     r3.Vec
	laneMid     r3.Vec
	prevLaneMid r3.Vec
	roadDir     r3.Vec
	roadYaw     float64
}

func NewCollisionTracker(road Road, bus *EventBus, log *slog.Logger) *CollisionTracker {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &CollisionTracker{road: road, bus: bus, log: log}
}

func (t *CollisionTracker) AddListener(l TileListener) {
	t.listeners = append(t.listeners, l)
}

// Reset forgets all per-road state. Call after re-initialising the road.
func (t *CollisionTracker) Reset() {
	t.index = 0
	t.isCollision = false
	t.session = nil
	t.prevLaneMid = r3.Vec{}
	t.locate(t.headStart())
}

func (t *CollisionTracker) headStart() r3.Vec {
	if pairs := t.road.Pairs(0); len(pairs) > 0 {
		return pairs[0].Mid()
	}
	return r3.Vec{}
}

func (t *CollisionTracker) IsCollision() bool                     { return t.isCollision }
func (t *CollisionTracker) Session() *CollisionSession            { return t.session }
func (t *CollisionTracker) Index() int                            { return t.index }
func (t *CollisionTracker) Proceeded() int                        { return t.proceeded }
func (t *CollisionTracker) RoadMid() r3.Vec                       { return t.roadMid }
func (t *CollisionTracker) LaneMid() r3.Vec                       { return t.laneMid }
func (t *CollisionTracker) RoadDirection() r3.Vec                 { return t.roadDir }
func (t *CollisionTracker) RoadYaw() float64                      { return t.roadYaw }
func (t *CollisionTracker) Current() (BoundaryPair, BoundaryPair) { return t.cur, t.next }

// LanePose is where a respawned car goes.
func (t *CollisionTracker) LanePose() Pose {
	return Pose{Position: t.laneMid, Yaw: t.roadYaw}
}

// UpdateCollisions runs once per AutoDrive tick. It advances the closest
// pair, slides the tile window when the car crosses into the next tile,
// refreshes the road geometry and starts a crash when the car is off the
// road.
func (t *CollisionTracker) UpdateCollisions(car *Car) GameState {
	if !t.locate(car.Position) {
		return StateAutoDrive
	}
	if IsInside(t.cur, car.Position) {
		return StateAutoDrive
	}

	side := ClassifySide(t.cur, car.Position)
	t.isCollision = true
	t.session = &CollisionSession{
		Side:        side,
		ImpactSpeed: car.Speed,
		Closest:     t.index,
	}
	car.VerticalVelocity = 0
	car.CentripetalVelocity = 0
	if side == SideWater {
		car.CentripetalVelocity = -FallCentripetal
	}
	t.log.Info("car left the road", "side", side.String(), "speed", car.Speed, "pair", t.index)
	t.bus.Emit(Event{Type: EventCrash, Pos: car.Position, Data: int(side)})

	if side == SideWater {
		return StateCrashingFall
	}
	return StateCrashingCliff
}

// locate finds the closest pair to p starting near the last known index and
// refreshes the derived geometry. It reports false when there is no road.
func (t *CollisionTracker) locate(p r3.Vec) bool {
	for {
		pairs := t.road.Pairs(0)
		if len(pairs) == 0 {
			return false
		}
		start := clamp(t.index-1, 0, len(pairs)-1)
		best := start
		bestD := dist2D(p, pairs[start].First)
		for j := start + 1; j < len(pairs); j++ {
			d := dist2D(p, pairs[j].First)
			if d >= bestD {
				break
			}
			best, bestD = j, d
		}
		if best == len(pairs)-1 && t.road.Len() > 1 {
			if nxt := t.road.Pairs(1); len(nxt) > 0 && dist2D(p, nxt[0].First) < bestD {
				t.proceed()
				t.index = 0
				continue
			}
		}
		t.index = best
		t.cur = pairs[best]
		t.next = t.pairAfter(best)
		t.refreshGeometry()
		return true
	}
}

// pairAfter returns the pair following index i of the head tile. At the
// end of the window it is synthesised from the head tile's end pose.
func (t *CollisionTracker) pairAfter(i int) BoundaryPair {
	pairs := t.road.Pairs(0)
	if i+1 < len(pairs) {
		return pairs[i+1]
	}
	if nxt := t.road.Pairs(1); len(nxt) > 0 {
		return nxt[0]
	}
	end := t.road.Tile(0).End
	left := leftOf(end.Yaw)
	return BoundaryPair{
		First:  r3.Sub(end.Position, r3.Scale(RoadHalfWidth, left)),
		Second: r3.Add(end.Position, r3.Scale(RoadHalfWidth, left)),
	}
}

func (t *CollisionTracker) refreshGeometry() {
	t.roadMid = t.next.Mid()
	t.laneMid = midpoint(t.roadMid, t.next.Second)
	t.roadDir = unitFlat(r3.Sub(t.next.First, t.cur.First))
	t.roadYaw = yawOf(t.roadDir)
}

func (t *CollisionTracker) proceed() {
	evicted := t.road.ProceedTiles()
	t.proceeded++
	tail := t.road.Len() - 1
	for _, l := range t.listeners {
		l.ShiftIndexes()
		l.SignSpawn(t.road, tail)
	}
	ev := Event{Type: EventTilesProceeded}
	if evicted != nil {
		ev.Data = int(evicted.ID)
		ev.Pos = evicted.End.Position
	}
	t.bus.Emit(ev)
}

// recover puts the car back on the lane and ends the session. lifeLost is
// false for the cliff second chance.
func (t *CollisionTracker) recover(car *Car, lifeLost bool) GameState {
	t.locate(car.Position)
	speed := AutoDriveSpeed
	if !lifeLost {
		speed = car.Speed
	}
	car.Place(t.LanePose(), speed)
	t.prevLaneMid = t.laneMid
	t.isCollision = false
	t.session = nil

	data := 0
	if lifeLost {
		data = 1
	}
	t.log.Info("car recovered", "life_lost", lifeLost)
	t.bus.Emit(Event{Type: EventRecovered, Pos: car.Position, Data: data})
	return StateAutoDrive
}
