package batch

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/HugoSmits86/nativewebp"

	"thames-engine/internal/obj"
	"thames-engine/internal/postprocess"
	"thames-engine/internal/raster"
	"thames-engine/internal/scene"
	"thames-engine/internal/texture"
)

// Config holds all shared resources for a batch run.
type Config struct {
	OutputDir   string
	Textures    texture.Resolver
	RenderSize  int
	Supersample int
	Workers     int
	FillRatio   float64
	Progress    io.Writer // nil disables progress lines
}

// Job is one OBJ file to preview.
type Job struct {
	Name string // path relative to the scanned root, without extension
	Path string
}

// Result holds the outcome of processing one job.
type Result struct {
	Job
	Image     string
	Meshes    int
	Vertices  int
	Triangles int
	Materials int
	Fallback  bool
	Success   bool
	Error     string
}

// Discover lists every .obj file under root, sorted by name.
func Discover(root string) ([]Job, error) {
	var jobs []Job
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".obj") {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		jobs = append(jobs, Job{
			Name: filepath.ToSlash(strings.TrimSuffix(rel, filepath.Ext(rel))),
			Path: path,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("batch: scan %s: %w", root, err)
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].Name < jobs[j].Name })
	return jobs, nil
}

// Dirs returns the distinct directories holding the jobs' files.
func Dirs(jobs []Job) []string {
	seen := map[string]bool{}
	var dirs []string
	for _, j := range jobs {
		d := filepath.Dir(j.Path)
		if !seen[d] {
			seen[d] = true
			dirs = append(dirs, d)
		}
	}
	return dirs
}

// Run processes all jobs using a worker pool. Results keep job order.
func Run(cfg Config, jobs []Job) []Result {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	total := len(jobs)
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 && cfg.Progress != nil {
					rate := float64(p) / time.Since(start).Seconds()
					fmt.Fprintf(cfg.Progress, "  [%d/%d] %.1f models/sec\n", p, total, rate)
				}
			}
		}
	}()

	jobChan := make(chan int, cfg.Workers*2)
	var wg sync.WaitGroup
	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobChan {
				results[idx] = processJob(cfg, jobs[idx])
				processed.Add(1)
			}
		}()
	}

	for i := range jobs {
		jobChan <- i
	}
	close(jobChan)

	wg.Wait()
	close(done)

	return results
}

func processJob(cfg Config, job Job) Result {
	res := Result{Job: job}

	meshes, materials, err := obj.Load(job.Path)
	if err != nil {
		// Preview the placeholder anyway so the sheet has no holes.
		res.Error = err.Error()
		res.Fallback = true
		meshes, materials = []obj.Mesh{obj.Cube()}, map[string]obj.Material{}
	}

	model, err := scene.Build(&scene.MemoryAllocator{}, cfg.Textures, job.Name, meshes, materials, res.Fallback)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	defer model.Release()

	sum := obj.Summarize(meshes)
	res.Meshes, res.Vertices, res.Triangles = sum.Meshes, sum.Vertices, sum.Triangles
	res.Materials = len(materials)

	img := raster.RenderModel(model, raster.Options{Size: cfg.RenderSize, Supersample: cfg.Supersample})
	if cfg.Supersample > 1 {
		img = postprocess.Downsample(img, cfg.RenderSize)
	}
	fill := cfg.FillRatio
	if fill <= 0 {
		fill = 0.9
	}
	img = postprocess.CropAndCenter(img, cfg.RenderSize, fill)

	res.Image = job.Name + ".webp"
	outPath := filepath.Join(cfg.OutputDir, filepath.FromSlash(res.Image))
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		res.Error = err.Error()
		return res
	}

	f, err := os.Create(outPath)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	defer f.Close()

	// Lossless; nativewebp has no quality knob.
	if err := nativewebp.Encode(f, img, nil); err != nil {
		res.Error = fmt.Sprintf("WebP encode: %v", err)
		return res
	}

	res.Success = true
	return res
}
