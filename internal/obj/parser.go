package obj

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrNoFaces is returned by Load when a file parsed cleanly but produced no triangles.
var ErrNoFaces = errors.New("no faces")

var logger = log.New(io.Discard, "[obj] ", 0)

// SetLogger redirects parser diagnostics. Passing nil silences them.
func SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard, "", 0)
	}
	logger = l
}

// LoadModel reads an OBJ file and its MTL libraries.
// It never fails: if the file cannot be read or holds no faces, the unit
// cube from Cube is returned in place of the parsed meshes.
func LoadModel(path string) ([]Mesh, map[string]Material) {
	meshes, materials, err := Load(path)
	if err != nil {
		logger.Printf("%v; using placeholder cube", err)
		return []Mesh{Cube()}, materials
	}
	return meshes, materials
}

// Load is the strict variant of LoadModel. Failures are reported as *LoadError.
// The materials map is never nil.
func Load(path string) ([]Mesh, map[string]Material, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, map[string]Material{}, &LoadError{Path: path, Err: err}
	}
	defer f.Close()

	meshes, materials, err := Parse(f, filepath.Dir(path))
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.Path = path
			return nil, materials, le
		}
		return nil, materials, &LoadError{Path: path, Err: err}
	}
	if len(meshes) == 0 {
		return nil, materials, &LoadError{Path: path, Err: ErrNoFaces}
	}

	total := 0
	for _, m := range meshes {
		total += len(m.Vertices)
	}
	logger.Printf("loaded %s: %d meshes, %d vertices, %d materials", path, len(meshes), total, len(materials))
	return meshes, materials, nil
}

// Parse reads OBJ text from r. mtllib paths are resolved against dir.
// The returned mesh list may be empty; the error is non-nil only when r fails.
func Parse(r io.Reader, dir string) ([]Mesh, map[string]Material, error) {
	p := &parser{
		dir:       dir,
		materials: make(map[string]Material),
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		p.line++
		p.handle(sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, p.materials, &LoadError{Line: p.line, Err: fmt.Errorf("read: %w", err)}
	}

	p.flush()
	return p.meshes, p.materials, nil
}

// parser holds the transient state of a single OBJ read.
type parser struct {
	dir  string
	line int

	positions []mgl32.Vec3
	normals   []mgl32.Vec3
	texcoords []mgl32.Vec2

	materials map[string]Material
	active    string
	current   Mesh
	meshes    []Mesh
}

func (p *parser) handle(line string) {
	fields := strings.Fields(withoutComment(line))
	if len(fields) == 0 {
		return
	}
	args := fields[1:]

	switch fields[0] {
	case "v":
		v := parseFloats(args, 3)
		p.positions = append(p.positions, mgl32.Vec3{v[0], v[1], v[2]})
	case "vn":
		v := parseFloats(args, 3)
		p.normals = append(p.normals, mgl32.Vec3{v[0], v[1], v[2]})
	case "vt":
		v := parseFloats(args, 2)
		// Flip V: OBJ origin is bottom-left, texture memory is top-left.
		p.texcoords = append(p.texcoords, mgl32.Vec2{v[0], 1 - v[1]})
	case "f":
		p.face(args)
	case "usemtl":
		p.flush()
		p.active = ""
		if len(args) > 0 {
			p.active = args[0]
		}
	case "mtllib":
		for _, name := range args {
			path := filepath.Join(p.dir, name)
			if err := LoadMTL(path, p.materials); err != nil {
				logger.Printf("line %d: %v", p.line, err)
			}
		}
	}
}

// withoutComment drops everything from the first '#'.
func withoutComment(line string) string {
	line, _, _ = strings.Cut(line, "#")
	return line
}

// face fan-triangulates a polygon: (c0,c1,c2), (c0,c2,c3), ...
func (p *parser) face(tokens []string) {
	if len(tokens) < 3 {
		logger.Printf("line %d: face with %d corners skipped", p.line, len(tokens))
		return
	}
	for i := 1; i+1 < len(tokens); i++ {
		p.corner(tokens[0])
		p.corner(tokens[i])
		p.corner(tokens[i+1])
	}
}

func (p *parser) corner(tok string) {
	c := parseCorner(tok, len(p.positions), len(p.texcoords), len(p.normals))

	v := Vertex{Normal: defaultNormal, Color: white}
	if c.pos >= 0 && c.pos < len(p.positions) {
		v.Position = p.positions[c.pos]
	}
	if c.tex >= 0 && c.tex < len(p.texcoords) {
		v.TexCoord = p.texcoords[c.tex]
	}
	if c.norm >= 0 && c.norm < len(p.normals) {
		v.Normal = p.normals[c.norm]
	}
	// Color comes from whatever material is live right now, not the one the
	// mesh is eventually tagged with.
	if m, ok := p.materials[p.active]; ok && p.active != "" {
		v.Color = m.Diffuse
	}

	p.current.Indices = append(p.current.Indices, uint32(len(p.current.Vertices)))
	p.current.Vertices = append(p.current.Vertices, v)
}

// flush closes the current mesh under the active material name.
func (p *parser) flush() {
	if len(p.current.Vertices) == 0 {
		return
	}
	p.current.MaterialName = p.active
	p.meshes = append(p.meshes, p.current)
	p.current = Mesh{}
}

// corner holds 0-based pool indices; -1 means absent.
type corner struct {
	pos, tex, norm int
}

// parseCorner decodes a "p[/t][/n]" token. Positive indices are 1-based,
// negative ones count back from the end of the pool as it stands when the
// face is read.
func parseCorner(tok string, npos, ntex, nnorm int) corner {
	c := corner{pos: -1, tex: -1, norm: -1}
	parts := strings.SplitN(tok, "/", 3)
	sizes := [3]int{npos, ntex, nnorm}
	dst := [3]*int{&c.pos, &c.tex, &c.norm}
	for i, s := range parts {
		if s == "" {
			continue
		}
		n, err := strconv.Atoi(s)
		if err != nil || n == 0 {
			continue
		}
		if n > 0 {
			*dst[i] = n - 1
		} else {
			*dst[i] = sizes[i] + n
		}
	}
	return c
}

// parseFloats reads up to n floats; missing or malformed values are 0.
func parseFloats(args []string, n int) []float32 {
	out := make([]float32, n)
	for i := 0; i < n && i < len(args); i++ {
		f, err := strconv.ParseFloat(args[i], 32)
		if err != nil {
			continue
		}
		out[i] = float32(f)
	}
	return out
}
