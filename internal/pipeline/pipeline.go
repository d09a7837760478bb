// Package pipeline runs one of the three image engines (vng, fractal,
// binarize) over every image in a directory, using the same worker-pool
// shape the corpus's asset build pipeline uses to process independent files
// concurrently while keeping every single engine invocation itself
// sequential (§5: batch orchestration pipelines independent invocations, it
// does not parallelize inside one).
package pipeline

import (
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/S4nh1seR/imgcores/internal/clilog"
	"github.com/S4nh1seR/imgcores/internal/encoder"
	"github.com/S4nh1seR/imgcores/internal/manifest"
	"github.com/S4nh1seR/imgcores/internal/preset"
)

// DefaultIterations is the fractal decompressor's default attractor
// iteration count when a batch run round-trips a compressed file.
const DefaultIterations = 8

// Config holds all parameters for a batch run.
type Config struct {
	InputDir       string
	OutputDir      string
	ReferenceDir   string // optional; same relative path compared for MSE/PSNR
	Engine         string // "vng", "fractal", "binarize"
	Preset         preset.Preset
	Iterations     int  // fractal decompression iterations; 0 means DefaultIterations
	Preview        bool // write a debug preview image next to each output
	PreviewFormats []string // requested preview formats; resolved against availability, default "png"
	Workers        int
	Verbose        bool
}

// Pipeline orchestrates batch image processing.
type Pipeline struct {
	cfg      Config
	registry *encoder.Registry
	log      *clilog.Logger
}

// New creates a configured pipeline.
func New(cfg Config) *Pipeline {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Iterations <= 0 {
		cfg.Iterations = DefaultIterations
	}
	return &Pipeline{
		cfg:      cfg,
		registry: encoder.NewRegistry(),
		log:      clilog.New("batch", cfg.Verbose),
	}
}

// Run executes the full batch and returns the manifest. A single failing
// file never aborts the batch; its failure is recorded as a manifest entry
// with Error set instead of stopping the run.
func (p *Pipeline) Run() (*manifest.Manifest, error) {
	if p.cfg.Preview {
		p.log.Verbose("preview encoders: %s", p.registry.String())
	}

	sources, err := ScanImages(p.cfg.InputDir)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no images found in %s", p.cfg.InputDir)
	}
	p.log.Verbose("found %d images, engine=%s preset=%s", len(sources), p.cfg.Engine, p.cfg.Preset.Name)

	if err := os.MkdirAll(p.cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	entries := make([]manifest.Entry, len(sources))
	var wg sync.WaitGroup
	sem := make(chan struct{}, p.cfg.Workers)

	for i, src := range sources {
		wg.Add(1)
		go func(idx int, s Source) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			p.log.Verbose("processing: %s", s.RelPath)
			entries[idx] = processOne(s, p.cfg, p.registry)
			if entries[idx].Error != "" {
				p.log.Warn("%s: %s", s.RelPath, entries[idx].Error)
			}
		}(i, src)
	}
	wg.Wait()

	m := manifest.New(p.cfg.Engine, p.cfg.Preset.Name)
	m.Entries = entries
	m.ComputeStats()

	if m.Stats.Failed == len(sources) {
		return nil, fmt.Errorf("all %d images failed to process", len(sources))
	}
	if m.Stats.Failed > 0 {
		p.log.Warn("%d of %d images had errors", m.Stats.Failed, len(sources))
	}
	return m, nil
}
