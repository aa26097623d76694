// Package render draws a scene.Frame and the live tile window with OpenGL
// 4.1 core.
package render

import (
	"fmt"
	"log/slog"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"drive/internal/game"
	"drive/internal/scene"
)

const (
	modeFlat    = 0
	modeTerrain = 1
	modeWater   = 2
)

// glOffset converts a byte offset to unsafe.Pointer for OpenGL VBO offset params.
func glOffset(n int) unsafe.Pointer { return unsafe.Pointer(uintptr(n)) }

// mesh is one uploaded indexed triangle list.
type mesh struct {
	vao   uint32
	vbos  [3]uint32 // positions, normals, uvs
	ebo   uint32
	count int32
}

func uploadMesh(verts, normals, uvs []float32, indices []uint32) *mesh {
	m := &mesh{count: int32(len(indices))}
	gl.GenVertexArrays(1, &m.vao)
	gl.GenBuffers(3, &m.vbos[0])
	gl.GenBuffers(1, &m.ebo)
	gl.BindVertexArray(m.vao)

	attrs := []struct {
		data []float32
		size int32
	}{{verts, 3}, {normals, 3}, {uvs, 2}}
	for i, a := range attrs {
		gl.BindBuffer(gl.ARRAY_BUFFER, m.vbos[i])
		gl.BufferData(gl.ARRAY_BUFFER, len(a.data)*4, gl.Ptr(a.data), gl.STATIC_DRAW)
		gl.EnableVertexAttribArray(uint32(i))
		gl.VertexAttribPointer(uint32(i), a.size, gl.FLOAT, false, a.size*4, glOffset(0))
	}

	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)
	gl.BindVertexArray(0)
	return m
}

func uploadGeometry(g scene.Geometry) *mesh {
	return uploadMesh(g.Vertices, g.Normals, g.UVs, g.Indices)
}

func (m *mesh) draw() {
	gl.BindVertexArray(m.vao)
	gl.DrawElements(gl.TRIANGLES, m.count, gl.UNSIGNED_INT, glOffset(0))
}

func (m *mesh) release() {
	gl.DeleteBuffers(3, &m.vbos[0])
	gl.DeleteBuffers(1, &m.ebo)
	gl.DeleteVertexArrays(1, &m.vao)
}

type Renderer struct {
	prog uint32

	uModel   int32
	uView    int32
	uProj    int32
	uColor   int32
	uMode    int32
	uAmbient int32
	uSunTint int32
	uSunDir  int32
	uSky     int32
	uEye     int32
	uTime    int32
	uNight   int32
	uRoad    int32

	// Tile meshes by tile ID. Rebuilt against the window whenever the
	// streamer generation moves.
	tiles      map[uint64]*mesh
	generation uint64

	boxes map[game.MeshKind]*mesh
	water *mesh

	instances []scene.Instance
	log       *slog.Logger
}

func NewRenderer(log *slog.Logger) (*Renderer, error) {
	prog, err := linkProgram(meshVertSrc, meshFragSrc)
	if err != nil {
		return nil, fmt.Errorf("mesh program: %w", err)
	}
	r := &Renderer{
		prog:  prog,
		tiles: make(map[uint64]*mesh),
		boxes: make(map[game.MeshKind]*mesh),
		log:   log,
	}

	gl.UseProgram(prog)
	loc := func(name string) int32 { return gl.GetUniformLocation(prog, gl.Str(name+"\x00")) }
	r.uModel = loc("uModel")
	r.uView = loc("uView")
	r.uProj = loc("uProj")
	r.uColor = loc("uColor")
	r.uMode = loc("uMode")
	r.uAmbient = loc("uAmbient")
	r.uSunTint = loc("uSunTint")
	r.uSunDir = loc("uSunDir")
	r.uSky = loc("uSky")
	r.uEye = loc("uEye")
	r.uTime = loc("uTime")
	r.uNight = loc("uNight")
	r.uRoad = loc("uRoad")
	gl.Uniform1f(r.uAmbient, 1.0)
	gl.Uniform3f(r.uSunTint, 1.0, 1.0, 1.0)
	gl.Uniform3f(r.uRoad, scene.RoadColor[0], scene.RoadColor[1], scene.RoadColor[2])

	r.boxes[game.MeshCar] = uploadGeometry(scene.Box(scene.CarSize))
	r.boxes[game.MeshNPCCar] = uploadGeometry(scene.Box(scene.NPCSize))
	r.boxes[game.MeshSign] = uploadGeometry(scene.Box(scene.SignSize))
	r.boxes[game.MeshParticle] = uploadGeometry(scene.Box(mgl32.Vec3{1, 1, 1}))
	r.water = uploadGeometry(scene.Plane(scene.WaterSize, scene.WaterCells))

	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)
	// The view mirrors Z, so world-space CCW faces arrive clockwise.
	gl.FrontFace(gl.CW)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	return r, nil
}

func (r *Renderer) Destroy() {
	for id, m := range r.tiles {
		m.release()
		delete(r.tiles, id)
	}
	for k, m := range r.boxes {
		m.release()
		delete(r.boxes, k)
	}
	if r.water != nil {
		r.water.release()
		r.water = nil
	}
	if r.prog != 0 {
		gl.DeleteProgram(r.prog)
		r.prog = 0
	}
}

// ReleaseTile frees the GPU buffers of an evicted tile.
func (r *Renderer) ReleaseTile(id uint64) {
	if m, ok := r.tiles[id]; ok {
		m.release()
		delete(r.tiles, id)
	}
}

// SyncTiles uploads tiles new to the window and drops any that left it.
func (r *Renderer) SyncTiles(road *game.Streamer) {
	if road.Generation() == r.generation && len(r.tiles) == road.Len() {
		return
	}
	live := make(map[uint64]bool, road.Len())
	for _, t := range road.Tiles() {
		live[t.ID] = true
		if _, ok := r.tiles[t.ID]; !ok {
			r.tiles[t.ID] = uploadMesh(t.Vertices, t.Normals, t.UVs, t.Indices)
		}
	}
	for id := range r.tiles {
		if !live[id] {
			r.ReleaseTile(id)
		}
	}
	r.generation = road.Generation()
	r.log.Debug("tile meshes synced", "generation", r.generation, "meshes", len(r.tiles))
}

// Draw renders one frame of the simulation into a fbW×fbH framebuffer.
func (r *Renderer) Draw(sim *game.Simulation, fbW, fbH int) {
	r.SyncTiles(sim.Road)

	aspect := float32(fbW) / float32(max(fbH, 1))
	f := scene.BuildFrame(sim, aspect, r.instances)
	r.instances = f.Instances

	l := f.Light
	gl.Viewport(0, 0, int32(fbW), int32(fbH))
	gl.ClearColor(l.Sky[0], l.Sky[1], l.Sky[2], 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	gl.UseProgram(r.prog)
	gl.UniformMatrix4fv(r.uView, 1, false, &f.View[0])
	gl.UniformMatrix4fv(r.uProj, 1, false, &f.Projection[0])
	gl.Uniform1f(r.uAmbient, l.Ambient)
	gl.Uniform3f(r.uSunTint, l.Tint[0], l.Tint[1], l.Tint[2])
	gl.Uniform3f(r.uSunDir, float32(l.SunDir.X), float32(l.SunDir.Y), float32(l.SunDir.Z))
	gl.Uniform3f(r.uSky, l.Sky[0], l.Sky[1], l.Sky[2])
	gl.Uniform3f(r.uEye, f.Eye[0], f.Eye[1], f.Eye[2])
	gl.Uniform1f(r.uTime, float32(sim.Clock))
	gl.Uniform1f(r.uNight, l.Night)

	ident := mgl32.Ident4()
	gl.UniformMatrix4fv(r.uModel, 1, false, &ident[0])
	gl.Uniform1i(r.uMode, modeTerrain)
	for _, t := range sim.Road.Tiles() {
		if m := r.tiles[t.ID]; m != nil {
			m.draw()
		}
	}

	gl.Uniform1i(r.uMode, modeFlat)
	for i := range f.Instances {
		in := &f.Instances[i]
		m := r.boxes[in.Mesh]
		if m == nil {
			continue
		}
		gl.UniformMatrix4fv(r.uModel, 1, false, &in.Model[0])
		gl.Uniform3f(r.uColor, in.Color[0], in.Color[1], in.Color[2])
		m.draw()
	}

	// Water last for blending.
	gl.Uniform1i(r.uMode, modeWater)
	gl.UniformMatrix4fv(r.uModel, 1, false, &f.Water[0])
	gl.Uniform3f(r.uColor, scene.WaterTint[0], scene.WaterTint[1], scene.WaterTint[2])
	r.water.draw()
	gl.BindVertexArray(0)
}
