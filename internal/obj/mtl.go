package obj

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// LoadMTL parses a material library and merges it into materials.
// Same-named materials overwrite existing entries. Only a failure to open
// or read the file is an error.
func LoadMTL(path string, materials map[string]Material) error {
	f, err := os.Open(path)
	if err != nil {
		return &LoadError{Path: path, Err: err}
	}
	defer f.Close()

	parsed := map[string]Material{}
	if err := ParseMTL(f, parsed); err != nil {
		return &LoadError{Path: path, Err: err}
	}
	dir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		dir = filepath.Dir(path)
	}

	before := len(materials)
	for name, m := range parsed {
		m.Dir = dir
		materials[name] = m
	}
	logger.Printf("loaded %s: %d materials (%d new)", path, len(materials), len(materials)-before)
	return nil
}

// ParseMTL reads MTL directives from r into materials.
func ParseMTL(r io.Reader, materials map[string]Material) error {
	var cur Material
	store := func() {
		if cur.Name != "" {
			materials[cur.Name] = cur
		}
	}

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		fields := strings.Fields(withoutComment(sc.Text()))
		if len(fields) == 0 {
			continue
		}
		args := fields[1:]

		switch fields[0] {
		case "newmtl":
			store()
			name := ""
			if len(args) > 0 {
				name = args[0]
			}
			cur = DefaultMaterial(name)
		case "Ka":
			cur.Ambient = vec3(args)
		case "Kd":
			cur.Diffuse = vec3(args)
		case "Ks":
			cur.Specular = vec3(args)
		case "Ns":
			cur.Shininess = max(scalar(args), 0)
		case "d", "Tr":
			// Both write alpha; whichever comes last wins.
			cur.Alpha = mgl32.Clamp(scalar(args), 0, 1)
		case "map_Kd":
			if len(args) > 0 {
				// Options such as "-s 1 1 1" may precede the filename.
				cur.DiffuseMap = args[len(args)-1]
			}
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read: %w", err)
	}
	store()
	return nil
}

func vec3(args []string) mgl32.Vec3 {
	v := parseFloats(args, 3)
	return mgl32.Vec3{v[0], v[1], v[2]}
}

func scalar(args []string) float32 {
	if len(args) == 0 {
		return 0
	}
	f, err := strconv.ParseFloat(args[0], 32)
	if err != nil {
		return 0
	}
	return float32(f)
}
