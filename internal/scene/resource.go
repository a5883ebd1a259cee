package scene

import (
	"fmt"
	"image"

	"thames-engine/internal/obj"
)

// Kind identifies what a Resource wraps.
type Kind int

const (
	KindVertexBuffer Kind = iota
	KindIndexBuffer
	KindTexture
	KindSampler
)

func (k Kind) String() string {
	switch k {
	case KindVertexBuffer:
		return "vertex buffer"
	case KindIndexBuffer:
		return "index buffer"
	case KindTexture:
		return "texture"
	case KindSampler:
		return "sampler"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Handle is a device object owned by a Resource.
type Handle interface {
	Release()
}

// Resource owns one device handle and releases it exactly once.
// Resources are passed by pointer; copying the struct would allow a double release.
type Resource struct {
	Kind     Kind
	Label    string
	handle   Handle
	released bool
}

// NewResource wraps h. A nil handle is allowed for allocators with nothing to free.
func NewResource(kind Kind, label string, h Handle) *Resource {
	return &Resource{Kind: kind, Label: label, handle: h}
}

// Handle returns the wrapped handle, or nil once released.
func (r *Resource) Handle() Handle {
	if r == nil || r.released {
		return nil
	}
	return r.handle
}

// Release frees the handle. Further calls are no-ops.
func (r *Resource) Release() {
	if r == nil || r.released {
		return
	}
	r.released = true
	if r.handle != nil {
		r.handle.Release()
	}
	r.handle = nil
}

// Released reports whether Release has run.
func (r *Resource) Released() bool {
	return r == nil || r.released
}

// Allocator creates device resources for meshes and materials.
type Allocator interface {
	NewVertexBuffer(label string, vertices []obj.Vertex) (*Resource, error)
	NewIndexBuffer(label string, indices []uint32) (*Resource, error)
	NewTexture(label string, img *image.NRGBA) (*Resource, error)
	NewSampler(label string) (*Resource, error)
}

// MemoryAllocator keeps resources as CPU-side copies. It backs the preview
// renderer and tests, and counts live handles.
type MemoryAllocator struct {
	live    int
	created int
}

// VertexData is the handle behind a vertex buffer from MemoryAllocator.
type VertexData struct {
	Vertices []obj.Vertex
	owner    *MemoryAllocator
}

func (d *VertexData) Release() { d.owner.live-- }

// IndexData is the handle behind an index buffer from MemoryAllocator.
type IndexData struct {
	Indices []uint32
	owner   *MemoryAllocator
}

func (d *IndexData) Release() { d.owner.live-- }

// TextureData is the handle behind a texture from MemoryAllocator.
type TextureData struct {
	Image *image.NRGBA
	owner *MemoryAllocator
}

func (d *TextureData) Release() { d.owner.live-- }

type samplerData struct {
	owner *MemoryAllocator
}

func (d *samplerData) Release() { d.owner.live-- }

func (a *MemoryAllocator) track() {
	a.live++
	a.created++
}

func (a *MemoryAllocator) NewVertexBuffer(label string, vertices []obj.Vertex) (*Resource, error) {
	if len(vertices) == 0 {
		return nil, fmt.Errorf("scene: vertex buffer %s: no vertices", label)
	}
	a.track()
	cp := append([]obj.Vertex(nil), vertices...)
	return NewResource(KindVertexBuffer, label, &VertexData{Vertices: cp, owner: a}), nil
}

func (a *MemoryAllocator) NewIndexBuffer(label string, indices []uint32) (*Resource, error) {
	if len(indices) == 0 {
		return nil, fmt.Errorf("scene: index buffer %s: no indices", label)
	}
	a.track()
	cp := append([]uint32(nil), indices...)
	return NewResource(KindIndexBuffer, label, &IndexData{Indices: cp, owner: a}), nil
}

func (a *MemoryAllocator) NewTexture(label string, img *image.NRGBA) (*Resource, error) {
	if img == nil {
		return nil, fmt.Errorf("scene: texture %s: nil image", label)
	}
	a.track()
	return NewResource(KindTexture, label, &TextureData{Image: img, owner: a}), nil
}

func (a *MemoryAllocator) NewSampler(label string) (*Resource, error) {
	a.track()
	return NewResource(KindSampler, label, &samplerData{owner: a}), nil
}

// Live returns the number of handles not yet released.
func (a *MemoryAllocator) Live() int { return a.live }

// Created returns the total number of handles ever allocated.
func (a *MemoryAllocator) Created() int { return a.created }
