package pipeline

import (
	"context"
	"fmt"
	"time"

	"lowlight-enhancer/internal/algorithms"
	"lowlight-enhancer/internal/compose"
	"lowlight-enhancer/internal/logger"
)

// Processor runs an enhancement backend and the comparison compositor on
// loaded images.
type Processor struct {
	logger logger.Logger
}

func NewProcessor(log logger.Logger) *Processor {
	return &Processor{logger: log}
}

func (p *Processor) ProcessImageWithContext(ctx context.Context, inputData *ImageData, algorithm algorithms.Algorithm) (*ImageData, error) {
	if inputData == nil || inputData.Raster == nil {
		return nil, fmt.Errorf("no input image")
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	result, err := algorithm.Process(ctx, inputData.Raster)
	if err != nil {
		return nil, fmt.Errorf("algorithm processing failed: %w", err)
	}

	if result == nil {
		return nil, fmt.Errorf("algorithm returned nil result")
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	output, err := result.ToNRGBA()
	if err != nil {
		return nil, fmt.Errorf("result conversion failed: %w", err)
	}

	processedData := newImageData(output, result, inputData.Format)
	processedData.Name = inputData.Name

	p.logger.Info("ImageProcessor", "processing completed", map[string]interface{}{
		"algorithm":       algorithm.GetName(),
		"input_size":      fmt.Sprintf("%dx%d", inputData.Width, inputData.Height),
		"output_size":     fmt.Sprintf("%dx%d", processedData.Width, processedData.Height),
		"processing_time": time.Since(start),
	})

	return processedData, nil
}

// Compare builds the labelled side-by-side canvas of original and enhanced.
// Backends that implement algorithms.Compositor draw it themselves; the
// rest use the native compositor.
func (p *Processor) Compare(ctx context.Context, original, enhanced *ImageData, algorithm algorithms.Algorithm) (*ImageData, error) {
	if original == nil || enhanced == nil || original.Raster == nil || enhanced.Raster == nil {
		return nil, fmt.Errorf("comparison needs both images")
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	composeFn := compose.Compose
	if c, ok := algorithm.(algorithms.Compositor); ok {
		composeFn = c.Compose
	}

	canvas, err := composeFn(original.Raster, enhanced.Raster, compose.DefaultLeftLabel, compose.DefaultRightLabel)
	if err != nil {
		return nil, fmt.Errorf("comparison failed: %w", err)
	}

	output, err := canvas.ToNRGBA()
	if err != nil {
		return nil, fmt.Errorf("comparison conversion failed: %w", err)
	}

	comparison := newImageData(output, canvas, "png")
	comparison.Name = original.Name

	p.logger.Debug("ImageProcessor", "comparison composed", map[string]interface{}{
		"width":  comparison.Width,
		"height": comparison.Height,
	})

	return comparison, nil
}
