package game

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"

	"drive/internal/ring"
)

var ErrInvalidDepth = errors.New("window depth must be positive")

// TurnPolicy picks the kind of each tile after the first.
type TurnPolicy interface {
	NextKind(seq uint64) TileKind
}

// StraightPolicy never curves.
type StraightPolicy struct{}

func (StraightPolicy) NextKind(uint64) TileKind { return TileStraight }

// RandomTurns curves TurnChance percent of the time and keeps the net number
// of curves within ±MaxNetTurns so the road cannot fold back on itself.
type RandomTurns struct {
	rng *Rand
	net int
}

func NewRandomTurns(seed uint64) *RandomTurns {
	return &RandomTurns{rng: NewRand(seed ^ 0x7E57AB1E)}
}

func (p *RandomTurns) NextKind(uint64) TileKind {
	if !p.rng.Chance(TurnChance) {
		return TileStraight
	}
	left := p.rng.Intn(2) == 0
	if p.net >= MaxNetTurns {
		left = false
	} else if p.net <= -MaxNetTurns {
		left = true
	}
	if left {
		p.net++
		return TileCurveLeft
	}
	p.net--
	return TileCurveRight
}

// TurnSignaller is a TurnPolicy the player can steer. The simulation feeds
// it from KeyTurnLeft and KeyTurnRight.
type TurnSignaller interface {
	TurnPolicy
	Signal(k TileKind)
}

// SignalledTurns returns whatever was last signalled, once, then straight.
type SignalledTurns struct {
	next    TileKind
	pending bool
}

func (p *SignalledTurns) Signal(k TileKind) {
	p.next = k
	p.pending = true
}

func (p *SignalledTurns) NextKind(uint64) TileKind {
	if !p.pending {
		return TileStraight
	}
	p.pending = false
	return p.next
}

type StreamerConfig struct {
	Seed   uint64
	Policy TurnPolicy
	Start  Pose
	Logger *slog.Logger
}

// Streamer keeps a fixed-depth window of tiles and slides it forward one
// tile at a time. Head is the tile the car is on.
type Streamer struct {
	tiles  *ring.Buffer[*Tile]
	depth  int
	policy TurnPolicy
	rng    *Rand
	start  Pose
	log    *slog.Logger

	nextID     uint64
	generation uint64
}

func NewStreamer(cfg StreamerConfig) *Streamer {
	if cfg.Policy == nil {
		cfg.Policy = NewRandomTurns(cfg.Seed)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Streamer{
		policy: cfg.Policy,
		rng:    NewRand(cfg.Seed),
		start:  cfg.Start,
		log:    cfg.Logger,
	}
}

// Initialize drops any existing tiles and generates depth new ones; the
// first is always straight.
func (s *Streamer) Initialize(depth int) error {
	if depth <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidDepth, depth)
	}
	buf, err := ring.New[*Tile](depth + 1)
	if err != nil {
		return fmt.Errorf("tile window: %w", err)
	}
	s.tiles = buf
	s.depth = depth
	s.generation++

	first := s.generate(TileStraight, s.start, nil)
	s.tiles.PushBack(first)
	for s.tiles.Len() < depth {
		s.appendNext()
	}
	s.log.Debug("tile window initialised", "depth", depth, "first", first.ID)
	return nil
}

func (s *Streamer) generate(kind TileKind, start Pose, prev *Tile) *Tile {
	id := s.nextID
	s.nextID++
	return GenerateTile(TileSpec{ID: id, Kind: kind, Start: start}, prev, s.rng)
}

func (s *Streamer) appendNext() {
	tail := s.tiles.Back()
	s.tiles.PushBack(s.generate(s.policy.NextKind(s.nextID), tail.End, tail))
}

// ProceedTiles generates one tile at the tail and evicts the head, which is
// returned so callers can release anything tied to it.
func (s *Streamer) ProceedTiles() *Tile {
	s.appendNext()
	evicted := s.tiles.PopFront()
	s.generation++
	s.log.Debug("tiles proceeded",
		"evicted", evicted.ID,
		"added", s.tiles.Back().ID,
		"kind", s.tiles.Back().Kind.String(),
		"generation", s.generation,
	)
	return evicted
}

func (s *Streamer) Len() int {
	if s.tiles == nil {
		return 0
	}
	return s.tiles.Len()
}

func (s *Streamer) Depth() int { return s.depth }

// Generation changes every time the window contents change. Renderers
// re-fetch tile handles when it moves.
func (s *Streamer) Generation() uint64 { return s.generation }

// Tile returns the i-th live tile, 0 being the head.
func (s *Streamer) Tile(i int) *Tile {
	if s.tiles == nil {
		return nil
	}
	t, err := s.tiles.At(i)
	if err != nil {
		return nil
	}
	return t
}

func (s *Streamer) Head() *Tile { return s.tiles.Front() }
func (s *Streamer) Tail() *Tile { return s.tiles.Back() }

func (s *Streamer) Tiles() iter.Seq2[int, *Tile] { return s.tiles.All() }

// Pairs returns the boundary sequence of the i-th live tile, or nil.
func (s *Streamer) Pairs(i int) []BoundaryPair {
	if t := s.Tile(i); t != nil {
		return t.Boundary
	}
	return nil
}
