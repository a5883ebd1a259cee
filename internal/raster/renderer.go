package raster

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"

	"thames-engine/internal/obj"
	"thames-engine/internal/scene"
	"thames-engine/internal/viewmatrix"
)

// Options controls a preview render.
type Options struct {
	Size        int
	Supersample int
	View        mgl32.Mat4 // orbit rotation; zero means the default camera
}

func (o Options) resolved() Options {
	if o.Size <= 0 {
		o.Size = 256
	}
	if o.Supersample <= 0 {
		o.Supersample = 1
	}
	if o.View == (mgl32.Mat4{}) {
		o.View = viewmatrix.FromCamera(scene.NewCamera())
	}
	return o
}

// RenderMeshes draws meshes, fitted to the frame. textures[i] is the texture
// for meshes[i]; a nil or missing entry renders vertex colors only.
// The result is Size*Supersample pixels square.
func RenderMeshes(meshes []obj.Mesh, textures []*image.NRGBA, world mgl32.Mat4, opts Options) *image.NRGBA {
	opts = opts.resolved()
	renderSize := opts.Size * opts.Supersample
	margin := 16 * opts.Supersample

	frame := viewmatrix.Fit(meshes, world, opts.View, renderSize, margin)
	fb := NewFrameBuffer(renderSize, renderSize)
	lc := DefaultLightConfig()

	for i := range meshes {
		var tex *image.NRGBA
		if i < len(textures) {
			tex = textures[i]
		}
		drawMesh(fb, &meshes[i], frame, tex, &lc)
	}
	return fb.Image()
}

// RenderModel draws a loaded model with its material textures and transform.
func RenderModel(m *scene.Model, opts Options) *image.NRGBA {
	textures := make([]*image.NRGBA, len(m.Source))
	for i := range m.Meshes {
		if i >= len(textures) {
			break
		}
		if slot := m.Materials.Slot(m.Meshes[i].Material); slot != nil {
			textures[i] = slot.Image
		}
	}
	return RenderMeshes(m.Source, textures, m.WorldMatrix(), opts)
}

func drawMesh(fb *FrameBuffer, m *obj.Mesh, frame viewmatrix.Frame, tex *image.NRGBA, lc *LightConfig) {
	if len(m.Vertices) == 0 {
		return
	}
	px, py, pz := frame.ProjectVertices(m.Vertices)
	nv := uint32(len(m.Vertices))

	sv := func(i uint32) ScreenVertex {
		v := &m.Vertices[i]
		return ScreenVertex{
			X: px[i], Y: py[i], Z: pz[i],
			U: float64(v.TexCoord[0]), V: float64(v.TexCoord[1]),
			R: float64(v.Color[0]), G: float64(v.Color[1]), B: float64(v.Color[2]),
		}
	}
	for t := 0; t+2 < len(m.Indices); t += 3 {
		i0, i1, i2 := m.Indices[t], m.Indices[t+1], m.Indices[t+2]
		if i0 >= nv || i1 >= nv || i2 >= nv {
			continue
		}
		RasterizeTriangle(fb, sv(i0), sv(i1), sv(i2), tex, lc)
	}
}
