// Package pipeline compresses many sources in parallel and collects the
// results into a report.
package pipeline

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"go.uber.org/zap"

	"github.com/AnyUserName/imgshrink/internal/compress"
	"github.com/AnyUserName/imgshrink/internal/report"
)

// Config holds all parameters for a batch run.
type Config struct {
	Inputs    []string // files or directories
	OutputDir string
	Preset    string
	Options   compress.Options
	Workers   int
	// OnProgress, when set, receives each source's progress.
	OnProgress func(key string, percent int)
}

// Pipeline orchestrates batch compression.
type Pipeline struct {
	cfg        Config
	compressor *compress.Compressor
	logger     *zap.Logger
}

// New creates a configured pipeline. The compressor must persist results
// into cfg.OutputDir.
func New(cfg Config, c *compress.Compressor, logger *zap.Logger) *Pipeline {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{cfg: cfg, compressor: c, logger: logger}
}

type result struct {
	src Source
	res *compress.Result
	err error
}

// Run compresses every discovered source and returns the report.
func (p *Pipeline) Run() (*report.Report, error) {
	// Step 1: Scan for images.
	sources, err := Scan(p.cfg.Inputs)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no images found in %v", p.cfg.Inputs)
	}
	p.logger.Debug("scanned", zap.Int("sources", len(sources)), zap.Int("workers", p.cfg.Workers))

	// Step 2: Compress in parallel.
	results := make([]result, len(sources))
	var wg sync.WaitGroup
	sem := make(chan struct{}, p.cfg.Workers)

	for i, src := range sources {
		wg.Add(1)
		go func(idx int, s Source) {
			defer wg.Done()
			sem <- struct{}{}        // acquire
			defer func() { <-sem }() // release

			p.logger.Debug("processing", zap.String("key", s.Key))
			results[idx] = p.process(s)

			if results[idx].err == nil {
				r := results[idx].res
				p.logger.Debug("done",
					zap.String("key", s.Key),
					zap.Int64("size", r.SizeBytes),
					zap.Int("iterations", r.Iterations),
				)
			}
		}(i, src)
	}
	wg.Wait()

	// Step 3: Collect results into the report.
	rep := report.New(p.cfg.Preset)
	rep.RunInfo = &report.RunInfo{
		Workers:       p.cfg.Workers,
		MaxCanvasEdge: p.compressor.MaxCanvasEdge(),
		MaxIteration:  p.cfg.Options.MaxIteration,
	}
	if !isUnlimited(p.cfg.Options.MaxSizeMB) {
		rep.RunInfo.MaxSizeMB = p.cfg.Options.MaxSizeMB
	}

	var failed int
	for _, r := range results {
		if r.err == nil {
			r.err = p.checkPersisted(r.res)
		}
		if r.err != nil {
			failed++
			p.logger.Error("compress failed", zap.String("source", r.src.RelPath), zap.Error(r.err))
			continue
		}
		rep.Entries[r.src.Key] = p.entry(r.src, r.res)
	}

	// Report errors but don't fail the entire run for partial failures.
	if failed > 0 {
		if failed == len(sources) {
			return nil, fmt.Errorf("all %d images failed to compress", failed)
		}
		p.logger.Warn("some images had errors", zap.Int("failed", failed), zap.Int("total", len(sources)))
	}

	rep.ComputeStats()
	rep.Stats.Failed = failed
	return rep, nil
}

func (p *Pipeline) process(s Source) result {
	opts := p.cfg.Options
	opts.ReturnFilePath = true
	if p.cfg.OnProgress != nil {
		opts.OnProgress = func(percent int) { p.cfg.OnProgress(s.Key, percent) }
	}
	res, err := p.compressor.Compress(s.AbsPath, opts)
	if err != nil {
		return result{src: s, err: fmt.Errorf("%s: %w", s.RelPath, err)}
	}
	return result{src: s, res: res}
}

// checkPersisted catches outputs a later quota eviction removed.
func (p *Pipeline) checkPersisted(res *compress.Result) error {
	if _, err := os.Stat(res.Path); err != nil {
		return fmt.Errorf("output %s no longer on disk: %w", filepath.Base(res.Path), err)
	}
	return nil
}

func (p *Pipeline) entry(s Source, r *compress.Result) report.Entry {
	rel, err := filepath.Rel(p.cfg.OutputDir, r.Path)
	if err != nil {
		rel = r.Path
	}
	return report.Entry{
		Source: report.SourceInfo{
			Path:        s.RelPath,
			Width:       r.Source.Width,
			Height:      r.Source.Height,
			Format:      s.Format,
			Size:        r.SourceSize,
			Orientation: int(r.Source.Orientation),
		},
		Output: report.OutputInfo{
			Format:     r.FileType,
			Width:      r.Width,
			Height:     r.Height,
			Size:       r.SizeBytes,
			Hash:       r.Hash,
			Path:       filepath.ToSlash(rel),
			Quality:    r.Quality,
			Iterations: r.Iterations,
			Converged:  r.Converged,
		},
	}
}

func isUnlimited(mb float64) bool {
	return mb <= 0 || math.IsInf(mb, 1)
}
