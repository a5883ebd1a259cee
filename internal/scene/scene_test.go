package scene

import (
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"thames-engine/internal/obj"
	"thames-engine/internal/texture"
)

type countingHandle struct{ n int }

func (h *countingHandle) Release() { h.n++ }

func TestResourceReleasesOnce(t *testing.T) {
	h := &countingHandle{}
	r := NewResource(KindTexture, "t", h)
	if r.Handle() == nil {
		t.Fatal("handle missing before release")
	}
	r.Release()
	r.Release()
	if h.n != 1 {
		t.Errorf("released %d times, want 1", h.n)
	}
	if !r.Released() || r.Handle() != nil {
		t.Error("resource still reports a live handle")
	}

	var nilRes *Resource
	nilRes.Release()
}

func TestMaterialTableEmptyUsesChecker(t *testing.T) {
	alloc := &MemoryAllocator{}
	tbl, err := BuildMaterials(alloc, nil, nil)
	if err != nil {
		t.Fatalf("BuildMaterials: %v", err)
	}
	if tbl.Len() != 1 || !tbl.Has(DefaultMaterialName) {
		t.Fatalf("table = %d slots", tbl.Len())
	}
	img := tbl.Slot(0).Image
	if img.Bounds().Dx() != 256 {
		t.Errorf("checker size = %d", img.Bounds().Dx())
	}
	if tbl.Lookup("anything") != 0 {
		t.Error("unknown name did not map to the first slot")
	}
	tbl.Release()
	if alloc.Live() != 0 {
		t.Errorf("live = %d after release", alloc.Live())
	}
}

func TestMaterialTableSolidColours(t *testing.T) {
	mats := map[string]obj.Material{
		"red":  {Name: "red", Diffuse: mgl32.Vec3{1, 0, 0}, DiffuseMap: "missing.png"},
		"blue": {Name: "blue", Diffuse: mgl32.Vec3{0, 0, 1}},
	}
	finder := texture.NewFinder(t.TempDir())
	tbl, err := BuildMaterials(&MemoryAllocator{}, texture.NewCache(finder), mats)
	if err != nil {
		t.Fatalf("BuildMaterials: %v", err)
	}
	if tbl.Len() != 2 {
		t.Fatalf("slots = %d", tbl.Len())
	}
	// Slots are in name order.
	if tbl.Lookup("blue") != 0 || tbl.Lookup("red") != 1 {
		t.Errorf("ids = blue:%d red:%d", tbl.Lookup("blue"), tbl.Lookup("red"))
	}
	if c := tbl.Slot(tbl.Lookup("red")).Image.NRGBAAt(0, 0); c != (color.NRGBA{255, 0, 0, 255}) {
		t.Errorf("red texel = %v", c)
	}
	if c := tbl.Slot(tbl.Lookup("blue")).Image.NRGBAAt(0, 0); c != (color.NRGBA{0, 0, 255, 255}) {
		t.Errorf("blue texel = %v", c)
	}
	if tbl.Slot(5) != nil || tbl.Slot(-1) != nil {
		t.Error("out-of-range slot returned")
	}
}

func near(a, b mgl32.Vec3, eps float64) bool {
	for k := 0; k < 3; k++ {
		if math.Abs(float64(a[k]-b[k])) > eps {
			return false
		}
	}
	return true
}

func TestWorldMatrixOrder(t *testing.T) {
	m := &Model{Scale: mgl32.Vec3{2, 2, 2}}
	m.SetRotation(mgl32.Vec3{0, math.Pi / 2, 0})
	m.SetPosition(mgl32.Vec3{0, 0, 5})

	got := mgl32.TransformCoordinate(mgl32.Vec3{1, 0, 0}, m.WorldMatrix())
	want := mgl32.Vec3{0, 0, 3}
	if !near(got, want, 1e-5) {
		t.Errorf("transformed = %v, want %v", got, want)
	}

	// Translation is applied after scaling.
	m = &Model{Scale: mgl32.Vec3{3, 3, 3}, Position: mgl32.Vec3{1, 0, 0}}
	got = mgl32.TransformCoordinate(mgl32.Vec3{}, m.WorldMatrix())
	if !near(got, mgl32.Vec3{1, 0, 0}, 1e-6) {
		t.Errorf("origin maps to %v", got)
	}
}

func TestModelMove(t *testing.T) {
	m := &Model{}
	m.Move(mgl32.Vec3{1, 0, -1})
	m.Move(mgl32.Vec3{1, 0, -1})
	if m.Position != (mgl32.Vec3{2, 0, -2}) {
		t.Errorf("position = %v", m.Position)
	}
}

func TestWalkCycle(t *testing.T) {
	w := NewWalkCycle()
	w.Step(0.3)
	if p, r := w.Offsets(); p != (mgl32.Vec3{}) || r != (mgl32.Vec3{}) {
		t.Fatalf("idle offsets = %v %v", p, r)
	}

	w.Start()
	w.Step(0.25)
	p, r := w.Offsets()
	if math.Abs(float64(p[0]-0.1)) > 1e-4 {
		t.Errorf("sway = %v, want 0.1", p[0])
	}
	if math.Abs(float64(p[1]-0.2)) > 1e-4 {
		t.Errorf("lift = %v, want 0.2", p[1])
	}
	if math.Abs(float64(r[2]-0.5)) > 1e-4 {
		t.Errorf("lean = %v, want 0.5", r[2])
	}

	w.Step(1)
	if ph := w.Phase(); math.Abs(float64(ph-0.25)) > 1e-4 {
		t.Errorf("phase after a full cycle = %v, want 0.25", ph)
	}

	m := &Model{Scale: mgl32.Vec3{1, 1, 1}, Animation: w}
	pos, _ := m.Pose()
	if pos == m.Position {
		t.Error("pose ignores the animation")
	}
	w.Stop()
	if pos, _ := m.Pose(); pos != m.Position {
		t.Errorf("stopped pose = %v", pos)
	}
}

func TestCameraZoomClamp(t *testing.T) {
	c := NewCamera()
	c.Zoom(-100)
	if c.Distance != MinZoom {
		t.Errorf("distance = %v, want %v", c.Distance, MinZoom)
	}
	c.Zoom(1000)
	if c.Distance != MaxZoom {
		t.Errorf("distance = %v, want %v", c.Distance, MaxZoom)
	}

	c = NewCamera()
	c.SetTarget(mgl32.Vec3{1, 0, 1})
	eye := c.Eye()
	if eye[1] != 10 {
		t.Errorf("eye height = %v", eye[1])
	}
	// The target sits at the centre of the view.
	v := mgl32.TransformCoordinate(c.Target, c.Projection(16.0/9).Mul4(c.View()))
	if math.Abs(float64(v[0])) > 1e-4 || math.Abs(float64(v[1])) > 1e-4 {
		t.Errorf("target projects to %v", v)
	}
}

func TestLoadModelPlaceholder(t *testing.T) {
	alloc := &MemoryAllocator{}
	m, err := LoadModel(alloc, texture.NewFinder(t.TempDir()), "character2")
	if err != nil {
		t.Fatalf("LoadModel: %v", err)
	}
	if !m.Placeholder {
		t.Error("missing model not marked as placeholder")
	}
	if len(m.Meshes) != 1 || m.Meshes[0].VertexCount != 144 {
		t.Fatalf("meshes = %+v", m.Meshes)
	}
	if m.Materials.Len() != 1 || m.Meshes[0].Material != 0 {
		t.Errorf("placeholder material slots = %d", m.Materials.Len())
	}
	if alloc.Live() == 0 {
		t.Fatal("nothing allocated")
	}
	m.Release()
	m.Release()
	if alloc.Live() != 0 {
		t.Errorf("live = %d after release", alloc.Live())
	}
}

func TestLoadModelWithTexture(t *testing.T) {
	dir := t.TempDir()
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	f, err := os.Create(filepath.Join(dir, "brick.png"))
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	f.Close()

	write := func(name, body string) {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0644); err != nil {
			t.Fatal(err)
		}
	}
	write("wall.mtl", "newmtl brick\nKd 0.5 0.2 0.1\nmap_Kd brick.png\nnewmtl mortar\nKd 0.9 0.9 0.9\n")
	write("wall.obj", "mtllib wall.mtl\nv 0 0 0\nv 1 0 0\nv 1 1 0\nv 0 1 0\nusemtl mortar\nf 1 2 3\nusemtl brick\nf 1 2 3 4\n")

	m, err := LoadModel(&MemoryAllocator{}, texture.NewFinder(dir), "wall")
	if err != nil {
		t.Fatalf("LoadModel: %v", err)
	}
	defer m.Release()
	if m.Placeholder {
		t.Fatal("model marked as placeholder")
	}
	if len(m.Meshes) != 2 {
		t.Fatalf("meshes = %d", len(m.Meshes))
	}
	brick := m.Materials.Slot(m.Meshes[1].Material)
	if brick.Material.Name != "brick" || brick.Image.Bounds().Dx() != 2 {
		t.Errorf("brick slot = %s %v", brick.Material.Name, brick.Image.Bounds())
	}
	mortar := m.Materials.Slot(m.Meshes[0].Material)
	if mortar.Image.Bounds().Dx() != 1 {
		t.Errorf("mortar should use a solid texture, got %v", mortar.Image.Bounds())
	}
	if m.IndexCount() != 3+6 {
		t.Errorf("indices = %d", m.IndexCount())
	}
}

func TestDiffuseMapBesideMTL(t *testing.T) {
	root := t.TempDir()
	objDir, matDir := filepath.Join(root, "obj"), filepath.Join(root, "mats")
	for _, d := range []string{objDir, matDir} {
		if err := os.Mkdir(d, 0755); err != nil {
			t.Fatal(err)
		}
	}
	f, err := os.Create(filepath.Join(matDir, "tex.png"))
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, image.NewNRGBA(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatal(err)
	}
	f.Close()

	if err := os.WriteFile(filepath.Join(matDir, "m.mtl"), []byte("newmtl stone\nmap_Kd tex.png\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(objDir, "m.obj"), []byte("mtllib ../mats/m.mtl\nusemtl stone\nv 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := LoadModel(&MemoryAllocator{}, texture.NewFinder(objDir), "m")
	if err != nil {
		t.Fatalf("LoadModel: %v", err)
	}
	defer m.Release()
	slot := m.Materials.Slot(m.Meshes[0].Material)
	if slot.Material.Name != "stone" || slot.Image.Bounds().Dx() != 4 {
		t.Errorf("stone slot = %s %v, want the 4x4 map from the MTL directory", slot.Material.Name, slot.Image.Bounds())
	}
}
