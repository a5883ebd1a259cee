package obj

import "github.com/go-gl/mathgl/mgl32"

// Cube returns the 2×2×2 placeholder cube: 8 shared vertices, 12 triangles,
// material "default".
func Cube() Mesh {
	vt := func(px, py, pz, nz, u, v, r, g, b float32) Vertex {
		return Vertex{
			Position: mgl32.Vec3{px, py, pz},
			Normal:   mgl32.Vec3{0, 0, nz},
			TexCoord: mgl32.Vec2{u, v},
			Color:    mgl32.Vec3{r, g, b},
		}
	}
	return Mesh{
		Vertices: []Vertex{
			// front
			vt(-1, -1, -1, -1, 0, 1, 1, 0, 0),
			vt(1, -1, -1, -1, 1, 1, 0, 1, 0),
			vt(1, 1, -1, -1, 1, 0, 0, 0, 1),
			vt(-1, 1, -1, -1, 0, 0, 1, 1, 0),
			// back
			vt(-1, -1, 1, 1, 1, 1, 1, 0, 0),
			vt(1, -1, 1, 1, 0, 1, 0, 1, 0),
			vt(1, 1, 1, 1, 0, 0, 0, 0, 1),
			vt(-1, 1, 1, 1, 1, 0, 1, 1, 0),
		},
		Indices: []uint32{
			0, 1, 2, 2, 3, 0, // front
			4, 5, 6, 6, 7, 4, // back
			3, 2, 6, 6, 7, 3, // top
			0, 1, 5, 5, 4, 0, // bottom
			0, 3, 7, 7, 4, 0, // left
			1, 2, 6, 6, 5, 1, // right
		},
		MaterialName: "default",
	}
}

// HumanoidMaterial tags the mesh produced by Humanoid.
const HumanoidMaterial = "human_material"

// Humanoid returns a box figure (torso, head, arms, legs) used when no model
// file can be found at all.
func Humanoid() Mesh {
	m := Mesh{MaterialName: HumanoidMaterial}
	skin := mgl32.Vec3{0.9, 0.8, 0.7}
	coat := mgl32.Vec3{0.8, 0.6, 0.4}
	sleeve := mgl32.Vec3{0.7, 0.5, 0.3}
	boots := mgl32.Vec3{0.3, 0.2, 0.1}

	AppendBox(&m, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1.0, 2.0, 0.5}, coat)
	AppendBox(&m, mgl32.Vec3{0, 1.5, 0}, mgl32.Vec3{0.8, 0.8, 0.8}, skin)
	AppendBox(&m, mgl32.Vec3{-1.2, 0.5, 0}, mgl32.Vec3{0.3, 1.5, 0.3}, sleeve)
	AppendBox(&m, mgl32.Vec3{1.2, 0.5, 0}, mgl32.Vec3{0.3, 1.5, 0.3}, sleeve)
	AppendBox(&m, mgl32.Vec3{-0.4, -1.5, 0}, mgl32.Vec3{0.4, 1.5, 0.4}, boots)
	AppendBox(&m, mgl32.Vec3{0.4, -1.5, 0}, mgl32.Vec3{0.4, 1.5, 0.4}, boots)
	return m
}

// Shading multipliers applied to box side, top and bottom faces so the
// figure reads without lighting.
const (
	shadeSide   = 0.8
	shadeTop    = 0.9
	shadeBottom = 0.6
)

// AppendBox adds an axis-aligned box centred on c with the given size:
// 24 vertices (4 per face) and 36 indices.
func AppendBox(m *Mesh, c, size, color mgl32.Vec3) {
	hw, hh, hd := size[0]/2, size[1]/2, size[2]/2
	x0, x1 := c[0]-hw, c[0]+hw
	y0, y1 := c[1]-hh, c[1]+hh
	z0, z1 := c[2]-hd, c[2]+hd

	type face struct {
		n     mgl32.Vec3
		shade float32
		p     [4]mgl32.Vec3
	}
	faces := [6]face{
		{mgl32.Vec3{0, 0, -1}, 1, [4]mgl32.Vec3{{x0, y0, z0}, {x1, y0, z0}, {x1, y1, z0}, {x0, y1, z0}}},
		{mgl32.Vec3{0, 0, 1}, 1, [4]mgl32.Vec3{{x0, y0, z1}, {x1, y0, z1}, {x1, y1, z1}, {x0, y1, z1}}},
		{mgl32.Vec3{-1, 0, 0}, shadeSide, [4]mgl32.Vec3{{x0, y0, z1}, {x0, y0, z0}, {x0, y1, z0}, {x0, y1, z1}}},
		{mgl32.Vec3{1, 0, 0}, shadeSide, [4]mgl32.Vec3{{x1, y0, z0}, {x1, y0, z1}, {x1, y1, z1}, {x1, y1, z0}}},
		{mgl32.Vec3{0, 1, 0}, shadeTop, [4]mgl32.Vec3{{x0, y1, z0}, {x1, y1, z0}, {x1, y1, z1}, {x0, y1, z1}}},
		{mgl32.Vec3{0, -1, 0}, shadeBottom, [4]mgl32.Vec3{{x0, y0, z1}, {x1, y0, z1}, {x1, y0, z0}, {x0, y0, z0}}},
	}
	uvs := [4]mgl32.Vec2{{0, 1}, {1, 1}, {1, 0}, {0, 0}}

	for _, f := range faces {
		base := uint32(len(m.Vertices))
		for k := 0; k < 4; k++ {
			m.Vertices = append(m.Vertices, Vertex{
				Position: f.p[k],
				Normal:   f.n,
				TexCoord: uvs[k],
				Color:    color.Mul(f.shade),
			})
		}
		m.Indices = append(m.Indices, base, base+1, base+2, base, base+2, base+3)
	}
}

// Summary aggregates counts and bounds over a set of meshes.
type Summary struct {
	Meshes    int
	Vertices  int
	Triangles int
	Min, Max  mgl32.Vec3
}

// Summarize walks every vertex once.
func Summarize(meshes []Mesh) Summary {
	s := Summary{Meshes: len(meshes)}
	first := true
	for i := range meshes {
		s.Vertices += len(meshes[i].Vertices)
		s.Triangles += meshes[i].TriangleCount()
		for _, v := range meshes[i].Vertices {
			if first {
				s.Min, s.Max = v.Position, v.Position
				first = false
				continue
			}
			for k := 0; k < 3; k++ {
				s.Min[k] = min(s.Min[k], v.Position[k])
				s.Max[k] = max(s.Max[k], v.Position[k])
			}
		}
	}
	return s
}
