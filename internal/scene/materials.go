package scene

import (
	"fmt"
	"image"
	"path/filepath"
	"sort"

	"thames-engine/internal/obj"
	"thames-engine/internal/texture"
)

// MaterialID indexes a slot in a MaterialTable.
type MaterialID int

// DefaultMaterialName names the checker slot of a table built from no materials.
const DefaultMaterialName = "default"

// MaterialSlot is one material with its bound texture.
type MaterialSlot struct {
	Material obj.Material
	Image    *image.NRGBA
	Texture  *Resource
}

// MaterialTable maps material names to slots. Meshes refer to slots by ID,
// so the table can be rebuilt or released without dangling names.
type MaterialTable struct {
	slots []MaterialSlot
	ids   map[string]MaterialID
}

// BuildMaterials creates one texture per material: the diffuse map when it
// resolves, otherwise a 1×1 texture of the diffuse colour. With no materials
// the table holds a single checkerboard slot named "default".
// Slots are ordered by name.
func BuildMaterials(alloc Allocator, textures texture.Resolver, materials map[string]obj.Material) (*MaterialTable, error) {
	t := &MaterialTable{ids: make(map[string]MaterialID)}

	if len(materials) == 0 {
		if err := t.add(alloc, obj.DefaultMaterial(DefaultMaterialName), texture.Checker(256, 32)); err != nil {
			return nil, err
		}
		return t, nil
	}

	names := make([]string, 0, len(materials))
	for name := range materials {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		m := materials[name]
		var img *image.NRGBA
		if m.DiffuseMap != "" && textures != nil {
			img = resolveMap(textures, m)
			if img == nil {
				logger.Printf("material %s: texture %s not found, using diffuse colour", name, m.DiffuseMap)
			}
		}
		if img == nil {
			img = texture.Solid(m.Diffuse[0], m.Diffuse[1], m.Diffuse[2])
		}
		if err := t.add(alloc, m, img); err != nil {
			t.Release()
			return nil, err
		}
	}
	return t, nil
}

func (t *MaterialTable) add(alloc Allocator, m obj.Material, img *image.NRGBA) error {
	res, err := alloc.NewTexture(m.Name, img)
	if err != nil {
		return fmt.Errorf("scene: create texture for %s: %w", m.Name, err)
	}
	t.ids[m.Name] = MaterialID(len(t.slots))
	t.slots = append(t.slots, MaterialSlot{Material: m, Image: img, Texture: res})
	return nil
}

// Lookup returns the slot for name. Unknown names map to the first slot.
func (t *MaterialTable) Lookup(name string) MaterialID {
	if id, ok := t.ids[name]; ok {
		return id
	}
	return 0
}

// Has reports whether name has its own slot.
func (t *MaterialTable) Has(name string) bool {
	_, ok := t.ids[name]
	return ok
}

// Slot returns the slot for id.
func (t *MaterialTable) Slot(id MaterialID) *MaterialSlot {
	if id < 0 || int(id) >= len(t.slots) {
		return nil
	}
	return &t.slots[id]
}

// Len returns the number of slots.
func (t *MaterialTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.slots)
}

// Release frees every slot texture.
func (t *MaterialTable) Release() {
	if t == nil {
		return
	}
	for i := range t.slots {
		t.slots[i].Texture.Release()
	}
}

// resolveMap looks for the diffuse map next to the MTL file that declared
// it, then through the resolver's own search dirs.
func resolveMap(textures texture.Resolver, m obj.Material) *image.NRGBA {
	if m.Dir != "" && !filepath.IsAbs(m.DiffuseMap) {
		if img := textures.Resolve(filepath.Join(m.Dir, m.DiffuseMap)); img != nil {
			return img
		}
	}
	return textures.Resolve(m.DiffuseMap)
}
