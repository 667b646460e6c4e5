package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"lowlight-enhancer/internal/algorithms"
	"lowlight-enhancer/internal/config"
	"lowlight-enhancer/internal/logger"
	"lowlight-enhancer/internal/pipeline"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

const (
	EnhancedSuffix   = "_enhanced.jpg"
	ComparisonSuffix = "_comparison.png"
)

type Result struct {
	Input          string
	EnhancedPath   string
	ComparisonPath string
	Width          int
	Height         int
	Duration       time.Duration
}

// Runner enhances files independently and in parallel. Each file gets its
// own load, process and save chain; nothing is shared between them.
type Runner struct {
	config    config.Config
	algorithm algorithms.Algorithm
	loader    *pipeline.Loader
	processor *pipeline.Processor
	saver     *pipeline.Saver
	logger    logger.Logger
}

func NewRunner(cfg config.Config, manager *algorithms.Manager, log logger.Logger) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	algorithm, err := manager.GetAlgorithm(cfg.Backend)
	if err != nil {
		return nil, err
	}

	return &Runner{
		config:    cfg,
		algorithm: algorithm,
		loader:    pipeline.NewLoader(log),
		processor: pipeline.NewProcessor(log),
		saver:     pipeline.NewSaver(cfg.JPEGQuality, log),
		logger:    log,
	}, nil
}

// Run processes inputs and returns results in input order. The first
// failure cancels the files still pending.
func (r *Runner) Run(ctx context.Context, inputs []string) ([]Result, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("no input files")
	}

	if dupes := lo.FindDuplicatesBy(inputs, outputStem); len(dupes) > 0 {
		return nil, fmt.Errorf("inputs share an output name: %s", strings.Join(dupes, ", "))
	}

	if err := os.MkdirAll(r.config.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	start := time.Now()
	results := make([]Result, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.config.Workers)

	for i, input := range inputs {
		i, input := i, input
		g.Go(func() error {
			result, err := r.runOne(gctx, input)
			if err != nil {
				return fmt.Errorf("%s: %w", input, err)
			}
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		r.logger.Error("BatchRunner", err, map[string]interface{}{
			"inputs": len(inputs),
		})
		return nil, err
	}

	r.logger.Info("BatchRunner", "batch completed", map[string]interface{}{
		"inputs":     len(inputs),
		"workers":    r.config.Workers,
		"algorithm":  r.algorithm.GetName(),
		"total_time": time.Since(start),
	})

	return results, nil
}

func (r *Runner) runOne(ctx context.Context, input string) (Result, error) {
	start := time.Now()

	original, err := r.loader.LoadFromPath(input)
	if err != nil {
		return Result{}, err
	}

	enhanced, err := r.processor.ProcessImageWithContext(ctx, original, r.algorithm)
	if err != nil {
		return Result{}, err
	}

	stem := outputStem(input)
	result := Result{
		Input:        input,
		EnhancedPath: filepath.Join(r.config.OutputDir, stem+EnhancedSuffix),
		Width:        enhanced.Width,
		Height:       enhanced.Height,
	}

	if err := r.saver.SaveToPath(result.EnhancedPath, enhanced); err != nil {
		return Result{}, err
	}

	if r.config.Compare {
		comparison, err := r.processor.Compare(ctx, original, enhanced, r.algorithm)
		if err != nil {
			return Result{}, err
		}

		result.ComparisonPath = filepath.Join(r.config.OutputDir, stem+ComparisonSuffix)
		if err := r.saver.SaveToPath(result.ComparisonPath, comparison); err != nil {
			return Result{}, err
		}
	}

	result.Duration = time.Since(start)

	r.logger.Debug("BatchRunner", "file enhanced", map[string]interface{}{
		"input":    input,
		"output":   result.EnhancedPath,
		"duration": result.Duration,
	})

	return result, nil
}

func outputStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
