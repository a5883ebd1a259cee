package scene

import (
	"fmt"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"

	"thames-engine/internal/obj"
	"thames-engine/internal/texture"
)

// LoadModel finds name through finder and uploads it through alloc.
// A model that cannot be found becomes the humanoid placeholder with the
// checker texture; an unreadable OBJ becomes the placeholder cube.
// Errors come only from the allocator.
func LoadModel(alloc Allocator, finder *texture.Finder, name string) (*Model, error) {
	var (
		meshes      []obj.Mesh
		materials   map[string]obj.Material
		textures    texture.Resolver
		placeholder bool
	)

	path, ok := finder.Find(name, texture.ModelExts)
	if ok {
		meshes, materials = obj.LoadModel(path)
		dirs := append([]string{filepath.Dir(path)}, finder.Dirs...)
		textures = texture.NewCache(texture.NewFinder(dirs...))
	} else {
		logger.Printf("model %s not found in %v; using humanoid placeholder", name, finder.Dirs)
		meshes = []obj.Mesh{obj.Humanoid()}
		materials = map[string]obj.Material{}
		placeholder = true
	}

	return Build(alloc, textures, name, meshes, materials, placeholder)
}

// Build uploads already parsed meshes and materials. textures may be nil,
// in which case every material uses its diffuse colour.
func Build(alloc Allocator, textures texture.Resolver, name string, meshes []obj.Mesh, materials map[string]obj.Material, placeholder bool) (*Model, error) {
	m := &Model{
		Name:        name,
		Source:      meshes,
		Placeholder: placeholder,
		Scale:       mgl32.Vec3{1, 1, 1},
		Visible:     true,
	}

	var err error
	if m.Materials, err = BuildMaterials(alloc, textures, materials); err != nil {
		return nil, err
	}
	if m.Sampler, err = alloc.NewSampler(name); err != nil {
		m.Release()
		return nil, fmt.Errorf("scene: create sampler: %w", err)
	}

	for i, src := range meshes {
		label := fmt.Sprintf("%s#%d", name, i)
		vb, err := alloc.NewVertexBuffer(label, src.Vertices)
		if err != nil {
			m.Release()
			return nil, err
		}
		ib, err := alloc.NewIndexBuffer(label, src.Indices)
		if err != nil {
			vb.Release()
			m.Release()
			return nil, err
		}
		m.Meshes = append(m.Meshes, Mesh{
			VB:          vb,
			IB:          ib,
			Material:    m.Materials.Lookup(src.MaterialName),
			VertexCount: len(src.Vertices),
			IndexCount:  len(src.Indices),
		})
	}
	logger.Printf("model %s: %d meshes, %d materials", name, len(m.Meshes), m.Materials.Len())
	return m, nil
}
