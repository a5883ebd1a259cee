package raster

import (
	"image"
	"image/color"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"thames-engine/internal/obj"
	"thames-engine/internal/scene"
	"thames-engine/internal/texture"
)

func TestRenderCube(t *testing.T) {
	img := RenderMeshes([]obj.Mesh{obj.Cube()}, nil, mgl32.Ident4(), Options{Size: 64, Supersample: 2})
	if img.Bounds().Dx() != 128 {
		t.Fatalf("size = %v", img.Bounds())
	}
	opaque := 0
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] == 255 {
			opaque++
		}
	}
	if opaque < 128*128/10 {
		t.Errorf("only %d opaque pixels", opaque)
	}
	// Corners stay transparent thanks to the margin.
	if img.NRGBAAt(0, 0).A != 0 {
		t.Error("corner pixel drawn")
	}
}

func TestRenderEmpty(t *testing.T) {
	img := RenderMeshes(nil, nil, mgl32.Ident4(), Options{Size: 16})
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0 {
			t.Fatal("empty scene drew pixels")
		}
	}
}

func TestRenderModelPlaceholder(t *testing.T) {
	m, err := scene.LoadModel(&scene.MemoryAllocator{}, texture.NewFinder(t.TempDir()), "nobody")
	if err != nil {
		t.Fatal(err)
	}
	defer m.Release()
	img := RenderModel(m, Options{Size: 48})
	fb := &FrameBuffer{Width: 48, Height: 48, Color: img.Pix}
	if fb.Coverage() == 0 {
		t.Error("placeholder rendered nothing")
	}
}

func TestDepthTest(t *testing.T) {
	fb := NewFrameBuffer(8, 8)
	lc := DefaultLightConfig()
	tri := func(z, r float64) (ScreenVertex, ScreenVertex, ScreenVertex) {
		return ScreenVertex{X: 0, Y: 0, Z: z, R: r, G: 0, B: 0},
			ScreenVertex{X: 7, Y: 0, Z: z, R: r, G: 0, B: 0},
			ScreenVertex{X: 0, Y: 7, Z: z, R: r, G: 0, B: 0}
	}
	a, b, c := tri(-5, 1)
	RasterizeTriangle(fb, a, b, c, nil, &lc)
	near := fb.Color[0]
	if near == 0 {
		t.Fatal("first triangle not drawn")
	}

	// Same place, further away and black: must not overwrite.
	a, b, c = tri(-9, 0)
	RasterizeTriangle(fb, a, b, c, nil, &lc)
	if fb.Color[0] != near {
		t.Errorf("far triangle overwrote pixel: %d -> %d", near, fb.Color[0])
	}
}

func TestSampleTexture(t *testing.T) {
	tex := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	tex.SetNRGBA(0, 0, color.NRGBA{0, 0, 0, 255})
	tex.SetNRGBA(1, 0, color.NRGBA{200, 100, 50, 255})

	if r, _, _, _ := SampleTexture(tex, 0, 0); r != 0 {
		t.Errorf("u=0 red = %d", r)
	}
	if r, g, b, _ := SampleTexture(tex, 0.5, 0); r != 100 || g != 50 || b != 25 {
		t.Errorf("u=0.5 = %d %d %d", r, g, b)
	}
	// 1.25 wraps to 0.25.
	if r, _, _, _ := SampleTexture(tex, 1.25, 0); r != 50 {
		t.Errorf("wrapped red = %d", r)
	}

	solid := texture.Solid(1, 0, 0)
	if r, g, _, a := SampleTexture(solid, 0.7, 0.3); r != 255 || g != 0 || a != 255 {
		t.Errorf("solid sample = %d %d %d", r, g, a)
	}
}
