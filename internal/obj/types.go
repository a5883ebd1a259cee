package obj

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Vertex is one fully resolved face corner.
// GPU layout: position(3f) normal(3f) texcoord(2f) color(3f).
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	TexCoord mgl32.Vec2
	Color    mgl32.Vec3
}

// Mesh holds the triangles emitted between two usemtl switches.
// Every face corner is its own vertex, so Indices is always 0..len(Vertices)-1
// for parsed meshes; generated meshes may share vertices.
type Mesh struct {
	Vertices     []Vertex
	Indices      []uint32
	MaterialName string
}

// TriangleCount returns len(Indices)/3.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Material is one newmtl block from an MTL library.
type Material struct {
	Name       string
	Ambient    mgl32.Vec3
	Diffuse    mgl32.Vec3
	Specular   mgl32.Vec3
	Shininess  float32
	Alpha      float32
	DiffuseMap string // map_Kd filename, relative to Dir
	Dir        string // absolute directory of the MTL file; empty when parsed from a stream
}

// DefaultMaterial returns a material with the MTL defaults applied.
func DefaultMaterial(name string) Material {
	return Material{
		Name:      name,
		Ambient:   mgl32.Vec3{0.2, 0.2, 0.2},
		Diffuse:   mgl32.Vec3{0.8, 0.8, 0.8},
		Specular:  mgl32.Vec3{1, 1, 1},
		Shininess: 20,
		Alpha:     1,
	}
}

var (
	defaultNormal = mgl32.Vec3{0, 1, 0}
	white         = mgl32.Vec3{1, 1, 1}
)

// LoadError describes why a model or material library could not be read.
// Line is 0 when the failure is not tied to a particular line.
type LoadError struct {
	Path string
	Line int
	Err  error
}

func (e *LoadError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("obj: %s:%d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("obj: %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
