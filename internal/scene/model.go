package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"thames-engine/internal/obj"
)

// Mesh is one draw call: buffers plus the material slot they use.
type Mesh struct {
	VB          *Resource
	IB          *Resource
	Material    MaterialID
	VertexCount int
	IndexCount  int
}

// Model is a loaded, placed object. The zero Scale is replaced by 1 on load.
type Model struct {
	Name        string
	Meshes      []Mesh
	Materials   *MaterialTable
	Sampler     *Resource
	Source      []obj.Mesh
	Placeholder bool

	Position mgl32.Vec3
	Rotation mgl32.Vec3 // radians, pitch/yaw/roll about X/Y/Z
	Scale    mgl32.Vec3
	Visible  bool

	Animation *WalkCycle
}

func (m *Model) SetPosition(p mgl32.Vec3) { m.Position = p }
func (m *Model) SetRotation(r mgl32.Vec3) { m.Rotation = r }
func (m *Model) SetScale(s mgl32.Vec3)    { m.Scale = s }

// Move translates the model by d.
func (m *Model) Move(d mgl32.Vec3) { m.Position = m.Position.Add(d) }

// Update advances the animation, if any.
func (m *Model) Update(dt float32) {
	if m.Animation != nil {
		m.Animation.Step(dt)
	}
}

// Pose returns the position and rotation with animation offsets applied.
func (m *Model) Pose() (pos, rot mgl32.Vec3) {
	pos, rot = m.Position, m.Rotation
	if m.Animation != nil {
		dp, dr := m.Animation.Offsets()
		pos, rot = pos.Add(dp), rot.Add(dr)
	}
	return pos, rot
}

// WorldMatrix scales, then rotates (roll, pitch, yaw), then translates.
func (m *Model) WorldMatrix() mgl32.Mat4 {
	pos, rot := m.Pose()
	s := mgl32.Scale3D(m.Scale[0], m.Scale[1], m.Scale[2])
	r := mgl32.HomogRotate3DY(rot[1]).
		Mul4(mgl32.HomogRotate3DX(rot[0])).
		Mul4(mgl32.HomogRotate3DZ(rot[2]))
	t := mgl32.Translate3D(pos[0], pos[1], pos[2])
	return t.Mul4(r).Mul4(s)
}

// Release frees every buffer, texture and sampler the model owns.
func (m *Model) Release() {
	for i := range m.Meshes {
		m.Meshes[i].VB.Release()
		m.Meshes[i].IB.Release()
	}
	m.Materials.Release()
	m.Sampler.Release()
}

// IndexCount sums indices over all meshes.
func (m *Model) IndexCount() int {
	n := 0
	for _, mesh := range m.Meshes {
		n += mesh.IndexCount
	}
	return n
}
