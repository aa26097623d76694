package game

import "gonum.org/v1/gonum/spatial/r3"

type TileKind int

const (
	TileStraight TileKind = iota
	TileCurveLeft
	TileCurveRight
)

func (k TileKind) String() string {
	switch k {
	case TileCurveLeft:
		return "curve-left"
	case TileCurveRight:
		return "curve-right"
	}
	return "straight"
}

// Turn returns the heading change across a tile of this kind.
func (k TileKind) Turn() float64 {
	switch k {
	case TileCurveLeft:
		return CurveAngle
	case TileCurveRight:
		return -CurveAngle
	}
	return 0
}

// Pose is a point on the road centreline plus the heading there (radians,
// ground plane).
type Pose struct {
	Position r3.Vec
	Yaw      float64
}

// BoundaryPair is one cross-section sample of the road edges. First is the
// water edge, Second the cliff edge.
type BoundaryPair struct {
	First, Second r3.Vec
}

// Mid returns the road centre at this sample.
func (p BoundaryPair) Mid() r3.Vec { return midpoint(p.First, p.Second) }

// Tile is one generated slab of terrain and road. It is never mutated after
// GenerateTile returns.
type Tile struct {
	ID    uint64
	Kind  TileKind
	Start Pose // where this tile was stitched to the previous trailing edge
	End   Pose

	Heights []float64 // TileRows x TileCols, row-major

	// Renderer buffers.
	Vertices []float32 // xyz
	Normals  []float32 // xyz
	UVs      []float32 // uv
	Indices  []uint32

	// Boundary holds TileRows-1 pairs. The trailing row is the next tile's
	// first pair.
	Boundary []BoundaryPair

	// CliffRow is the wall line on the cliff side, WaterRow the vertex row
	// the falling car is tested against. One entry per row.
	CliffRow []r3.Vec
	WaterRow []r3.Vec
}

func heightIdx(row, col int) int { return row*TileCols + col }

func (t *Tile) Height(row, col int) float64 {
	return t.Heights[heightIdx(row, col)]
}

// Vertex returns the world position of grid vertex (row, col).
func (t *Tile) Vertex(row, col int) r3.Vec {
	o := heightIdx(row, col) * 3
	return r3.Vec{
		X: float64(t.Vertices[o]),
		Y: float64(t.Vertices[o+1]),
		Z: float64(t.Vertices[o+2]),
	}
}

// LeadingEdge returns a copy of the first height row.
func (t *Tile) LeadingEdge() []float64 {
	return append([]float64(nil), t.Heights[:TileCols]...)
}

// TrailingEdge returns a copy of the last height row.
func (t *Tile) TrailingEdge() []float64 {
	return append([]float64(nil), t.Heights[heightIdx(TileRows-1, 0):]...)
}

func (t *Tile) VertexCount() int { return len(t.Vertices) / 3 }
func (t *Tile) IndexCount() int  { return len(t.Indices) }
