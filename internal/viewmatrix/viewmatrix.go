// Package viewmatrix places meshes in a preview frame: an orbit view
// rotation plus an orthographic fit of the rotated bounding box.
package viewmatrix

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"thames-engine/internal/obj"
	"thames-engine/internal/scene"
)

// Orbit returns the view rotation for a camera circling the origin at yaw
// angle and looking down from height over a horizontal distance.
func Orbit(angle, distance, height float32) mgl32.Mat4 {
	a := float64(angle)
	eye := mgl32.Vec3{
		distance * float32(math.Cos(a)),
		height,
		distance * float32(math.Sin(a)),
	}
	return mgl32.LookAtV(eye, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
}

// FromCamera returns the orbit rotation of c, ignoring its target.
func FromCamera(c *scene.Camera) mgl32.Mat4 {
	return Orbit(c.Angle, c.Distance, c.Height)
}

// Frame maps view-space coordinates to pixels of a size×size image.
type Frame struct {
	View   mgl32.Mat4
	Center [3]float64
	Scale  float64
	Size   int
}

// Fit computes a frame that centers every vertex of meshes (transformed by
// world, then view) with margin pixels of padding.
func Fit(meshes []obj.Mesh, world, view mgl32.Mat4, size, margin int) Frame {
	mv := view.Mul4(world)
	lo := [3]float64{math.Inf(1), math.Inf(1), math.Inf(1)}
	hi := [3]float64{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	seen := false
	for i := range meshes {
		for _, v := range meshes[i].Vertices {
			t := mgl32.TransformCoordinate(v.Position, mv)
			for k := 0; k < 3; k++ {
				lo[k] = math.Min(lo[k], float64(t[k]))
				hi[k] = math.Max(hi[k], float64(t[k]))
			}
			seen = true
		}
	}

	f := Frame{View: mv, Scale: 1, Size: size}
	if !seen {
		return f
	}
	for k := 0; k < 3; k++ {
		f.Center[k] = (lo[k] + hi[k]) / 2
	}
	span := math.Max(math.Max(hi[0]-lo[0], hi[1]-lo[1]), 0.001)
	f.Scale = float64(size-2*margin) / span
	return f
}

// ProjectVertices transforms vertices to screen X, screen Y and depth.
// Depth grows toward the viewer.
func (f Frame) ProjectVertices(verts []obj.Vertex) (px, py, pz []float64) {
	n := len(verts)
	px = make([]float64, n)
	py = make([]float64, n)
	pz = make([]float64, n)

	half := float64(f.Size) / 2
	for i := range verts {
		t := mgl32.TransformCoordinate(verts[i].Position, f.View)
		px[i] = (float64(t[0])-f.Center[0])*f.Scale + half
		py[i] = -(float64(t[1])-f.Center[1])*f.Scale + half
		pz[i] = float64(t[2])
	}
	return px, py, pz
}
