package scene

import "github.com/go-gl/mathgl/mgl32"

// Geometry is an indexed triangle mesh in the same layout tiles use.
type Geometry struct {
	Vertices []float32 // xyz
	Normals  []float32 // xyz
	UVs      []float32 // uv
	Indices  []uint32
}

func (g *Geometry) VertexCount() int { return len(g.Vertices) / 3 }

func (g *Geometry) quad(a, b, c, d, n mgl32.Vec3) {
	base := uint32(g.VertexCount())
	for i, p := range [4]mgl32.Vec3{a, b, c, d} {
		g.Vertices = append(g.Vertices, p[0], p[1], p[2])
		g.Normals = append(g.Normals, n[0], n[1], n[2])
		g.UVs = append(g.UVs, float32(i&1), float32(i>>1))
	}
	g.Indices = append(g.Indices, base, base+1, base+2, base+1, base+3, base+2)
}

// Box is an axis-aligned box sized (x, y, z), centred on the x/z origin
// with its base at y=0. Faces wind counter-clockwise seen from outside.
func Box(size mgl32.Vec3) Geometry {
	x, y, z := size[0]/2, size[1], size[2]/2
	var g Geometry
	v := func(px, py, pz float32) mgl32.Vec3 { return mgl32.Vec3{px, py, pz} }

	g.quad(v(-x, 0, z), v(x, 0, z), v(-x, y, z), v(x, y, z), mgl32.Vec3{0, 0, 1})
	g.quad(v(x, 0, -z), v(-x, 0, -z), v(x, y, -z), v(-x, y, -z), mgl32.Vec3{0, 0, -1})
	g.quad(v(x, 0, z), v(x, 0, -z), v(x, y, z), v(x, y, -z), mgl32.Vec3{1, 0, 0})
	g.quad(v(-x, 0, -z), v(-x, 0, z), v(-x, y, -z), v(-x, y, z), mgl32.Vec3{-1, 0, 0})
	g.quad(v(-x, y, z), v(x, y, z), v(-x, y, -z), v(x, y, -z), mgl32.Vec3{0, 1, 0})
	g.quad(v(-x, 0, -z), v(x, 0, -z), v(-x, 0, z), v(x, 0, z), mgl32.Vec3{0, -1, 0})
	return g
}

// Plane is a flat y=0 grid of cells×cells quads spanning size, centred on
// the origin, facing up.
func Plane(size float32, cells int) Geometry {
	var g Geometry
	if cells < 1 {
		cells = 1
	}
	step := size / float32(cells)
	half := size / 2
	up := mgl32.Vec3{0, 1, 0}
	for i := 0; i < cells; i++ {
		for j := 0; j < cells; j++ {
			x0 := -half + float32(i)*step
			z0 := -half + float32(j)*step
			g.quad(
				mgl32.Vec3{x0, 0, z0 + step},
				mgl32.Vec3{x0 + step, 0, z0 + step},
				mgl32.Vec3{x0, 0, z0},
				mgl32.Vec3{x0 + step, 0, z0},
				up,
			)
		}
	}
	return g
}
