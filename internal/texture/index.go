package texture

import (
	"os"
	"path/filepath"
	"strings"
)

// Extension lists tried by a Finder, in priority order.
var (
	ModelExts = []string{"", ".obj"}
	ImageExts = []string{"", ".png", ".jpg", ".jpeg", ".bmp", ".tga", ".gif"}
)

// Finder resolves bare asset names against a list of search directories.
type Finder struct {
	Dirs []string
}

// NewFinder builds a Finder over dirs, dropping empty entries.
// With no directories the current working directory is searched.
func NewFinder(dirs ...string) *Finder {
	f := &Finder{}
	for _, d := range dirs {
		if d != "" {
			f.Dirs = append(f.Dirs, d)
		}
	}
	if len(f.Dirs) == 0 {
		f.Dirs = []string{"."}
	}
	return f
}

// Find returns the first existing regular file formed by joining each
// search dir with name (as given, lowercased, uppercased) and each extension.
// Absolute names are checked as-is first.
func (f *Finder) Find(name string, exts []string) (string, bool) {
	if name == "" {
		return "", false
	}
	name = strings.ReplaceAll(name, "\\", "/")
	if len(exts) == 0 {
		exts = []string{""}
	}

	if filepath.IsAbs(name) {
		for _, ext := range exts {
			if isFile(name + ext) {
				return name + ext, true
			}
		}
	}

	variants := []string{name}
	if lower := strings.ToLower(name); lower != name {
		variants = append(variants, lower)
	}
	if upper := strings.ToUpper(name); upper != name {
		variants = append(variants, upper)
	}

	for _, dir := range f.Dirs {
		for _, v := range variants {
			for _, ext := range exts {
				p := filepath.Join(dir, v+ext)
				if isFile(p) {
					return p, true
				}
			}
		}
	}
	return "", false
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
