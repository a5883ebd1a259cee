package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"thames-engine/internal/obj"
	"thames-engine/internal/texture"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: inspectobj model.obj [model.obj ...]")
		os.Exit(2)
	}

	for _, arg := range os.Args[1:] {
		meshes, materials, err := obj.Load(arg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Parse error %s: %v\n", arg, err)
			continue
		}
		cache := texture.NewCache(texture.NewFinder(filepath.Dir(arg)))

		s := obj.Summarize(meshes)
		fmt.Printf("\n=== %s (meshes=%d vertices=%d triangles=%d) ===\n", arg, s.Meshes, s.Vertices, s.Triangles)
		fmt.Printf("  bounds: [%.3f %.3f %.3f] .. [%.3f %.3f %.3f]\n",
			s.Min[0], s.Min[1], s.Min[2], s.Max[0], s.Max[1], s.Max[2])

		fmt.Println("--- MESHES ---")
		for i, m := range meshes {
			name := m.MaterialName
			if name == "" {
				name = "(none)"
			}
			_, known := materials[m.MaterialName]
			fmt.Printf("  Mesh[%d] material=%s defined=%v vertices=%d triangles=%d\n",
				i, name, known, len(m.Vertices), m.TriangleCount())
		}

		fmt.Println("--- MATERIALS ---")
		names := make([]string, 0, len(materials))
		for n := range materials {
			names = append(names, n)
		}
		sort.Strings(names)
		for _, n := range names {
			mat := materials[n]
			texInfo := "-"
			if mat.DiffuseMap != "" {
				texInfo = mat.DiffuseMap + " MISSING"
				if tex := cache.Resolve(mat.DiffuseMap); tex != nil {
					b := tex.Bounds()
					texInfo = fmt.Sprintf("%s %dx%d", mat.DiffuseMap, b.Dx(), b.Dy())
				}
			}
			fmt.Printf("  %-16s Kd=[%.2f %.2f %.2f] Ns=%.0f d=%.2f map=%s\n",
				n, mat.Diffuse[0], mat.Diffuse[1], mat.Diffuse[2], mat.Shininess, mat.Alpha, texInfo)
		}
	}
}
