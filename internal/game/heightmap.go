package game

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// TileSpec is everything GenerateTile needs besides the previous tile.
type TileSpec struct {
	ID    uint64
	Kind  TileKind
	Start Pose
}

// Road columns span [roadLoCol, roadHiCol].
const (
	roadLoCol = CentreCol - RoadHalfCells
	roadHiCol = CentreCol + RoadHalfCells
)

// lateral returns the signed cross-road offset of a column.
func lateral(col int) float64 {
	return float64(col-CentreCol) * CellSize
}

// profileHeight is the cross-section: flat road, a cubic rise to the cliff
// top on the left, a cubic fall into the water on the right.
func profileHeight(u float64) float64 {
	a := math.Abs(u)
	if a <= RoadHalfWidth {
		return 0
	}
	s := clampF((a-RoadHalfWidth)/(TileHalfSpan-RoadHalfWidth), 0, 1)
	k := 1 - s
	shape := 1 - k*k*k
	if u > 0 {
		return CliffHeight * shape
	}
	return -WaterDepth * shape
}

// centreline returns the pose at fraction t in [0,1] along a tile.
func centreline(start Pose, kind TileKind, t float64) Pose {
	turn := kind.Turn()
	s := t * TileLength
	if turn == 0 {
		return Pose{
			Position: r3.Add(start.Position, r3.Scale(s, heading2D(start.Yaw))),
			Yaw:      start.Yaw,
		}
	}
	radius := TileLength / turn // signed: negative turns right
	centre := r3.Add(start.Position, r3.Scale(radius, leftOf(start.Yaw)))
	yaw := start.Yaw + turn*t
	return Pose{
		Position: r3.Sub(centre, r3.Scale(radius, leftOf(yaw))),
		Yaw:      yaw,
	}
}

// erode random-walks over columns [lo, hi], nudging one cell per step.
func erode(h []float64, lo, hi int, rng *Rand) {
	row := rng.Intn(TileRows)
	col := rng.Range(lo, hi)
	for i := 0; i < ErosionSteps; i++ {
		if rng.Intn(2) == 0 {
			h[heightIdx(row, col)] += ErosionDelta
		} else {
			h[heightIdx(row, col)] -= ErosionDelta
		}
		switch rng.Intn(4) {
		case 0:
			row++
		case 1:
			row--
		case 2:
			col++
		default:
			col--
		}
		row = clamp(row, 0, TileRows-1)
		col = clamp(col, lo, hi)
	}
}

// blendSeam lifts the candidate so its first row equals prev's last row,
// fading the correction out over SeamBlendRows.
func blendSeam(h []float64, prevLast []float64) {
	for c := 0; c < TileCols; c++ {
		cand := h[heightIdx(0, c)]
		off := prevLast[c] - cand
		h[heightIdx(0, c)] = off + cand
		for r := 1; r < SeamBlendRows && r < TileRows; r++ {
			w := 1 - float64(r)/float64(SeamBlendRows)
			h[heightIdx(r, c)] += off * w
		}
	}
}

// GenerateTile builds one tile. prev may be nil for the first tile of a
// road. The result depends only on its arguments.
func GenerateTile(spec TileSpec, prev *Tile, rng *Rand) *Tile {
	t := &Tile{
		ID:      spec.ID,
		Kind:    spec.Kind,
		Start:   spec.Start,
		End:     centreline(spec.Start, spec.Kind, 1),
		Heights: make([]float64, TileRows*TileCols),
	}

	h := t.Heights
	for r := 0; r < TileRows; r++ {
		for c := 0; c < TileCols; c++ {
			h[heightIdx(r, c)] = profileHeight(lateral(c))
		}
	}
	erode(h, 0, roadLoCol-1, rng)
	erode(h, roadHiCol+1, TileCols-1, rng)
	if prev != nil {
		blendSeam(h, prev.Heights[heightIdx(TileRows-1, 0):])
	}

	t.buildMesh()
	t.buildEdges()
	return t
}

func (t *Tile) buildMesh() {
	n := TileRows * TileCols
	t.Vertices = make([]float32, 0, n*3)
	t.UVs = make([]float32, 0, n*2)
	for r := 0; r < TileRows; r++ {
		p := centreline(t.Start, t.Kind, float64(r)/float64(TileRows-1))
		left := leftOf(p.Yaw)
		for c := 0; c < TileCols; c++ {
			v := r3.Add(p.Position, r3.Scale(lateral(c), left))
			v.Y = t.Heights[heightIdx(r, c)]
			t.Vertices = append(t.Vertices, float32(v.X), float32(v.Y), float32(v.Z))
			t.UVs = append(t.UVs,
				float32(float64(c)/float64(TileCols-1)*UVRepeat),
				float32(float64(r)/float64(TileRows-1)*UVRepeat/2),
			)
		}
	}

	t.Indices = make([]uint32, 0, (TileRows-1)*(TileCols-1)*6)
	for r := 0; r < TileRows-1; r++ {
		for c := 0; c < TileCols-1; c++ {
			v00 := uint32(heightIdx(r, c))
			v01 := uint32(heightIdx(r, c+1))
			v10 := uint32(heightIdx(r+1, c))
			v11 := uint32(heightIdx(r+1, c+1))
			t.Indices = append(t.Indices, v00, v01, v10, v01, v11, v10)
		}
	}
	t.Normals = smoothNormals(t.Vertices, t.Indices)
}

// smoothNormals accumulates area-weighted face normals at each vertex and
// normalises them.
func smoothNormals(verts []float32, idx []uint32) []float32 {
	acc := make([]r3.Vec, len(verts)/3)
	at := func(i uint32) r3.Vec {
		return r3.Vec{X: float64(verts[i*3]), Y: float64(verts[i*3+1]), Z: float64(verts[i*3+2])}
	}
	for i := 0; i+2 < len(idx); i += 3 {
		a, b, c := idx[i], idx[i+1], idx[i+2]
		pa := at(a)
		n := r3.Cross(r3.Sub(at(b), pa), r3.Sub(at(c), pa))
		acc[a] = r3.Add(acc[a], n)
		acc[b] = r3.Add(acc[b], n)
		acc[c] = r3.Add(acc[c], n)
	}
	out := make([]float32, 0, len(verts))
	for _, n := range acc {
		l := r3.Norm(n)
		if l == 0 {
			out = append(out, 0, 1, 0)
			continue
		}
		n = r3.Scale(1/l, n)
		out = append(out, float32(n.X), float32(n.Y), float32(n.Z))
	}
	return out
}

func (t *Tile) buildEdges() {
	t.Boundary = make([]BoundaryPair, 0, TileRows-1)
	t.CliffRow = make([]r3.Vec, 0, TileRows)
	t.WaterRow = make([]r3.Vec, 0, TileRows)
	for r := 0; r < TileRows; r++ {
		p := centreline(t.Start, t.Kind, float64(r)/float64(TileRows-1))
		left := leftOf(p.Yaw)
		point := func(col int) r3.Vec {
			v := r3.Add(p.Position, r3.Scale(lateral(col), left))
			v.Y = t.Heights[heightIdx(r, col)]
			return v
		}
		if r < TileRows-1 {
			t.Boundary = append(t.Boundary, BoundaryPair{
				First:  point(roadLoCol),
				Second: point(roadHiCol),
			})
		}
		t.CliffRow = append(t.CliffRow, point(roadHiCol+CliffWallCells))
		t.WaterRow = append(t.WaterRow, point(roadLoCol-WaterRowCells))
	}
}
