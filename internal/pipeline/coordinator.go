package pipeline

import (
	"context"
	"fmt"
	"image"
	"io"
	"sync"
	"time"

	"lowlight-enhancer/internal/algorithms"
	"lowlight-enhancer/internal/logger"
	"lowlight-enhancer/internal/raster"
)

type ImageLoader interface {
	LoadFromReader(reader io.Reader, name string) (*ImageData, error)
	LoadFromBytes(data []byte, format string) (*ImageData, error)
	LoadFromPath(path string) (*ImageData, error)
}

type ImageProcessor interface {
	ProcessImageWithContext(ctx context.Context, inputData *ImageData, algorithm algorithms.Algorithm) (*ImageData, error)
	Compare(ctx context.Context, original, enhanced *ImageData, algorithm algorithms.Algorithm) (*ImageData, error)
}

type ImageSaver interface {
	SaveToWriter(writer io.Writer, imageData *ImageData, format string) error
	SaveToPath(path string, imageData *ImageData) error
}

// ImageData pairs a displayable image with the raster the pipeline works on.
type ImageData struct {
	Image  image.Image
	Raster *raster.Image
	Width  int
	Height int
	Format string
	Name   string
}

func newImageData(img image.Image, rgb *raster.Image, format string) *ImageData {
	return &ImageData{
		Image:  img,
		Raster: rgb,
		Width:  rgb.Width,
		Height: rgb.Height,
		Format: format,
	}
}

type Result struct {
	Enhanced   *ImageData
	Comparison *ImageData
	Algorithm  string
	Duration   time.Duration
}

// Coordinator keeps the current original and its results for the GUI.
type Coordinator struct {
	mu               sync.RWMutex
	originalImage    *ImageData
	result           *Result
	logger           logger.Logger
	algorithmManager *algorithms.Manager
	loader           ImageLoader
	processor        ImageProcessor
	saver            ImageSaver
	ctx              context.Context
	cancel           context.CancelFunc
}

func NewCoordinator(algMgr *algorithms.Manager, jpegQuality int, log logger.Logger) *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())

	coord := &Coordinator{
		logger:           log,
		algorithmManager: algMgr,
		loader:           NewLoader(log),
		processor:        NewProcessor(log),
		saver:            NewSaver(jpegQuality, log),
		ctx:              ctx,
		cancel:           cancel,
	}

	log.Info("PipelineCoordinator", "initialized", map[string]interface{}{
		"algorithms": algMgr.GetAvailableAlgorithms(),
	})
	return coord
}

func (c *Coordinator) LoadImage(reader io.Reader, name string) (*ImageData, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	start := time.Now()

	imageData, err := c.loader.LoadFromReader(reader, name)
	if err != nil {
		c.logger.Error("PipelineCoordinator", err, map[string]interface{}{
			"operation": "load_image",
			"name":      name,
		})
		return nil, err
	}

	c.originalImage = imageData
	c.result = nil

	c.logger.Info("PipelineCoordinator", "image loaded", map[string]interface{}{
		"name":      imageData.Name,
		"width":     imageData.Width,
		"height":    imageData.Height,
		"format":    imageData.Format,
		"load_time": time.Since(start),
	})

	return imageData, nil
}

func (c *Coordinator) Enhance(algorithmName string) (*Result, error) {
	return c.EnhanceWithContext(c.ctx, algorithmName)
}

// EnhanceWithContext runs the named backend on the loaded image and composes
// the comparison. A failure leaves any previous result in place.
func (c *Coordinator) EnhanceWithContext(ctx context.Context, algorithmName string) (*Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.originalImage == nil {
		return nil, fmt.Errorf("no image loaded")
	}

	algorithm, err := c.algorithmManager.GetAlgorithm(algorithmName)
	if err != nil {
		c.logger.Error("PipelineCoordinator", err, map[string]interface{}{
			"algorithm": algorithmName,
		})
		return nil, fmt.Errorf("failed to get algorithm: %w", err)
	}

	start := time.Now()
	enhanced, err := c.processor.ProcessImageWithContext(ctx, c.originalImage, algorithm)
	if err != nil {
		c.logger.Error("PipelineCoordinator", err, map[string]interface{}{
			"algorithm": algorithmName,
		})
		return nil, err
	}

	comparison, err := c.processor.Compare(ctx, c.originalImage, enhanced, algorithm)
	if err != nil {
		c.logger.Error("PipelineCoordinator", err, map[string]interface{}{
			"operation": "compare",
		})
		return nil, err
	}

	c.result = &Result{
		Enhanced:   enhanced,
		Comparison: comparison,
		Algorithm:  algorithmName,
		Duration:   time.Since(start),
	}

	c.logger.Info("PipelineCoordinator", "image enhanced", map[string]interface{}{
		"algorithm":       algorithmName,
		"width":           enhanced.Width,
		"height":          enhanced.Height,
		"processing_time": c.result.Duration,
	})

	return c.result, nil
}

// SaveEnhanced writes the enhanced image alone as JPEG.
func (c *Coordinator) SaveEnhanced(writer io.Writer) error {
	result := c.GetResult()
	if result == nil {
		return fmt.Errorf("no enhanced image")
	}
	return c.save(writer, result.Enhanced, "jpeg")
}

// SaveComparison writes the labelled comparison as PNG.
func (c *Coordinator) SaveComparison(writer io.Writer) error {
	result := c.GetResult()
	if result == nil {
		return fmt.Errorf("no comparison image")
	}
	return c.save(writer, result.Comparison, "png")
}

func (c *Coordinator) save(writer io.Writer, imageData *ImageData, format string) error {
	start := time.Now()
	if err := c.saver.SaveToWriter(writer, imageData, format); err != nil {
		c.logger.Error("PipelineCoordinator", err, map[string]interface{}{
			"operation": "save_image",
			"format":    format,
		})
		return err
	}

	c.logger.Info("PipelineCoordinator", "image saved", map[string]interface{}{
		"format":    format,
		"save_time": time.Since(start),
	})

	return nil
}

func (c *Coordinator) GetOriginalImage() *ImageData {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.originalImage
}

func (c *Coordinator) GetResult() *Result {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.result
}

func (c *Coordinator) AvailableAlgorithms() []string {
	return c.algorithmManager.GetAvailableAlgorithms()
}

// Context is cancelled by Shutdown; callers derive per-request contexts
// from it so in-flight work stops with the coordinator.
func (c *Coordinator) Context() context.Context {
	return c.ctx
}

func (c *Coordinator) Shutdown() {
	c.logger.Info("PipelineCoordinator", "shutdown started", nil)

	c.cancel()

	c.mu.Lock()
	c.originalImage = nil
	c.result = nil
	c.mu.Unlock()

	c.logger.Info("PipelineCoordinator", "shutdown completed", nil)
}
