package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"thames-engine/internal/batch"
	"thames-engine/internal/config"
	"thames-engine/internal/obj"
	"thames-engine/internal/scene"
	"thames-engine/internal/texture"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config.yaml")
	testN := flag.Int("test", 0, "Render only first N models for testing")
	match := flag.String("match", "", "Render only models whose name contains this text")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	baseDir := flag.String("base", "", "Path to base directory (default: auto-detect)")
	outputDir := flag.String("output", "", "Output directory (default: <base>/previews)")
	verbose := flag.Bool("v", false, "Log parser and material diagnostics")

	flag.Parse()

	cfg, err := config.LoadOptional(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		BaseDir:   *baseDir,
		OutputDir: *outputDir,
		Workers:   *workers,
	})

	if *verbose {
		obj.SetLogger(log.New(os.Stderr, "[obj] ", 0))
		scene.SetLogger(log.New(os.Stderr, "[scene] ", 0))
	}

	jobs, err := batch.Discover(cfg.Paths.ModelDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *match != "" {
		var filtered []batch.Job
		for _, j := range jobs {
			if strings.Contains(j.Name, *match) {
				filtered = append(filtered, j)
			}
		}
		jobs = filtered
	}

	// Limit for testing
	if *testN > 0 && *testN < len(jobs) {
		jobs = jobs[:*testN]
	}

	if len(jobs) == 0 {
		fmt.Println("No models to render.")
		os.Exit(0)
	}

	dirs := append(batch.Dirs(jobs), cfg.Paths.TextureDirs...)
	texCache := texture.NewCache(texture.NewFinder(dirs...))

	fmt.Println("OBJ model previews → WebP")
	fmt.Printf("Models: %d, Workers: %d\n", len(jobs), cfg.Render.Workers)
	fmt.Printf("Output: %s\n", cfg.Paths.OutputDir)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()

	batchCfg := batch.Config{
		OutputDir:   cfg.Paths.OutputDir,
		Textures:    texCache,
		RenderSize:  cfg.Render.Size,
		Supersample: cfg.Render.Supersample,
		Workers:     cfg.Render.Workers,
		Progress:    os.Stdout,
	}

	results := batch.Run(batchCfg, jobs)

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	success, fallback := 0, 0
	var failed []batch.Result
	for _, r := range results {
		switch {
		case !r.Success:
			failed = append(failed, r)
		case r.Fallback:
			fallback++
			success++
		default:
			success++
		}
	}

	fmt.Printf("Rendered: %d/%d (%d placeholders), textures cached: %d\n", success, len(jobs), fallback, texCache.Len())

	if len(failed) > 0 {
		fmt.Printf("\nFailed (%d):\n", len(failed))
		for _, e := range failed[:min(len(failed), 20)] {
			fmt.Printf("  %s: %s\n", e.Name, e.Error)
		}
	}

	manifestPath := filepath.Join(cfg.Paths.OutputDir, "manifest.json")
	os.MkdirAll(cfg.Paths.OutputDir, 0755)
	if err := batch.WriteManifest(manifestPath, results); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if len(failed) > 0 {
		os.Exit(1)
	}
}
