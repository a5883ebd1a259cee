package raster

import (
	"image"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ScreenVertex is a projected vertex: pixel position, depth (larger is
// nearer), texcoord and linear vertex color.
type ScreenVertex struct {
	X, Y, Z float64
	U, V    float64
	R, G, B float64
}

// alphaCutoff drops nearly transparent texels, as the game's pixel shader does.
const alphaCutoff = 26

// RasterizeTriangle fills one triangle with z-buffering. The texel (white
// when tex is nil) is tinted by the interpolated vertex color and flat shaded.
// The inner loop does not allocate.
func RasterizeTriangle(fb *FrameBuffer, a, b, c ScreenVertex, tex *image.NRGBA, lc *LightConfig) {
	// Face normal for flat shading
	e1 := mgl64.Vec3{b.X - a.X, b.Y - a.Y, b.Z - a.Z}
	e2 := mgl64.Vec3{c.X - a.X, c.Y - a.Y, c.Z - a.Z}
	n := e1.Cross(e2)
	if n.Len() < 1e-8 {
		return
	}
	shade := lc.ComputeShade(n.Normalize())

	// Bounding box
	minX := max(int(math.Min(math.Min(a.X, b.X), c.X)), 0)
	maxX := min(int(math.Max(math.Max(a.X, b.X), c.X))+1, fb.Width-1)
	minY := max(int(math.Min(math.Min(a.Y, b.Y), c.Y)), 0)
	maxY := min(int(math.Max(math.Max(a.Y, b.Y), c.Y))+1, fb.Height-1)
	if minX > maxX || minY > maxY {
		return
	}

	// Barycentric setup
	det := (b.Y-c.Y)*(a.X-c.X) + (c.X-b.X)*(a.Y-c.Y)
	if det > -1e-8 && det < 1e-8 {
		return
	}
	invDet := 1.0 / det
	dy12 := b.Y - c.Y
	dx21 := c.X - b.X
	dy20 := c.Y - a.Y
	dx02 := a.X - c.X

	for sy := minY; sy <= maxY; sy++ {
		dsy := float64(sy) - c.Y
		rowOff := sy * fb.Width
		for sx := minX; sx <= maxX; sx++ {
			dsx := float64(sx) - c.X
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1.0 - w0 - w1
			if w0 < -0.001 || w1 < -0.001 || w2 < -0.001 {
				continue
			}

			z := w0*a.Z + w1*b.Z + w2*c.Z
			zIdx := rowOff + sx
			if z <= fb.ZBuf[zIdx] {
				continue
			}

			var tr, tg, tb, ta uint8 = 255, 255, 255, 255
			if tex != nil {
				u := w0*a.U + w1*b.U + w2*c.U
				v := w0*a.V + w1*b.V + w2*c.V
				tr, tg, tb, ta = SampleTexture(tex, u, v)
			}
			if ta < alphaCutoff {
				continue
			}
			fb.ZBuf[zIdx] = z

			vr := w0*a.R + w1*b.R + w2*c.R
			vg := w0*a.G + w1*b.G + w2*c.G
			vb := w0*a.B + w1*b.B + w2*c.B

			pxIdx := zIdx * 4
			fb.Color[pxIdx] = lc.encode(srgbToLinear[tr]*vr, shade)
			fb.Color[pxIdx+1] = lc.encode(srgbToLinear[tg]*vg, shade)
			fb.Color[pxIdx+2] = lc.encode(srgbToLinear[tb]*vb, shade)
			fb.Color[pxIdx+3] = ta
		}
	}
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
