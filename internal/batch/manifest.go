package batch

import (
	"encoding/json"
	"os"
)

// ManifestEntry represents one model in the output manifest.
type ManifestEntry struct {
	Name      string `json:"name"`
	Model     string `json:"model"`
	Image     string `json:"image,omitempty"`
	Meshes    int    `json:"meshes"`
	Vertices  int    `json:"vertices"`
	Triangles int    `json:"triangles"`
	Materials int    `json:"materials"`
	Fallback  bool   `json:"fallback,omitempty"`
	Error     string `json:"error,omitempty"`
}

// WriteManifest writes the results as indented JSON to path.
func WriteManifest(path string, results []Result) error {
	entries := make([]ManifestEntry, len(results))
	for i, r := range results {
		entries[i] = ManifestEntry{
			Name:      r.Name,
			Model:     r.Path,
			Image:     r.Image,
			Meshes:    r.Meshes,
			Vertices:  r.Vertices,
			Triangles: r.Triangles,
			Materials: r.Materials,
			Fallback:  r.Fallback,
			Error:     r.Error,
		}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
