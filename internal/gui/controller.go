package gui

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"lowlight-enhancer/internal/logger"
	"lowlight-enhancer/internal/pipeline"

	"fyne.io/fyne/v2"
)

const processingTimeout = 60 * time.Second

// ProcessingCoordinator is the part of pipeline.Coordinator the GUI drives.
type ProcessingCoordinator interface {
	LoadImage(reader io.Reader, name string) (*pipeline.ImageData, error)
	EnhanceWithContext(ctx context.Context, algorithmName string) (*pipeline.Result, error)
	SaveEnhanced(writer io.Writer) error
	SaveComparison(writer io.Writer) error
	GetOriginalImage() *pipeline.ImageData
	GetResult() *pipeline.Result
	AvailableAlgorithms() []string
	Context() context.Context
}

type Controller struct {
	view        *View
	coordinator ProcessingCoordinator
	logger      logger.Logger

	mu               sync.RWMutex
	currentAlgorithm string
	processingActive bool

	processCancel context.CancelFunc
}

func NewController(coord ProcessingCoordinator, algorithm string, log logger.Logger) *Controller {
	return &Controller{
		coordinator:      coord,
		logger:           log,
		currentAlgorithm: algorithm,
	}
}

func (c *Controller) SetView(view *View) {
	c.view = view
	view.SetBackends(c.coordinator.AvailableAlgorithms(), c.getCurrentAlgorithm())
}

func (c *Controller) LoadImage() {
	if c.isProcessing() {
		return
	}

	c.view.ShowFileDialog(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			c.handleError("File selection error", err)
			return
		}
		if reader == nil {
			return
		}

		c.beginWork("Loading image...")

		go func() {
			defer reader.Close()

			start := time.Now()
			imageData, loadErr := c.coordinator.LoadImage(reader, reader.URI().Name())

			fyne.Do(func() {
				defer c.endWork()

				if loadErr != nil {
					c.handleError("Image load error", loadErr)
					c.updateStatus("Ready")
					return
				}

				c.view.SetComparisonImage(nil)
				c.view.SetOriginalImage(imageData.Image)
				c.view.SetTiming("", 0)
				c.updateStatus(fmt.Sprintf("Loaded %s (%dx%d)", reader.URI().Name(), imageData.Width, imageData.Height))

				c.logger.Info("Controller", "image loaded", map[string]interface{}{
					"width":     imageData.Width,
					"height":    imageData.Height,
					"format":    imageData.Format,
					"load_time": time.Since(start),
				})
			})
		}()
	})
}

func (c *Controller) EnhanceImage() {
	if c.isProcessing() {
		return
	}

	if c.coordinator.GetOriginalImage() == nil {
		c.handleError("Enhancement error", fmt.Errorf("no image loaded"))
		return
	}

	ctx, cancel := context.WithTimeout(c.coordinator.Context(), processingTimeout)
	c.mu.Lock()
	c.processCancel = cancel
	c.mu.Unlock()

	algorithm := c.getCurrentAlgorithm()
	c.beginWork(fmt.Sprintf("Enhancing with %s...", algorithm))

	go func() {
		defer cancel()

		result, err := c.coordinator.EnhanceWithContext(ctx, algorithm)

		fyne.Do(func() {
			defer c.endWork()

			if err != nil {
				c.handleError("Enhancement error", err)
				c.updateStatus("Enhancement failed")
				return
			}

			c.view.SetComparisonImage(result.Comparison.Image)
			c.view.SetTiming(result.Algorithm, result.Duration)
			c.updateStatus("Enhancement completed")

			c.logger.Info("Controller", "enhancement completed", map[string]interface{}{
				"algorithm":       result.Algorithm,
				"width":           result.Enhanced.Width,
				"height":          result.Enhanced.Height,
				"processing_time": result.Duration,
			})
		})
	}()
}

// DownloadEnhanced saves the enhanced image alone as JPEG.
func (c *Controller) DownloadEnhanced() {
	c.saveResult("Download", "_enhanced.jpg", c.coordinator.SaveEnhanced)
}

// SaveComparison saves the side-by-side canvas as PNG.
func (c *Controller) SaveComparison() {
	c.saveResult("Save comparison", "_comparison.png", c.coordinator.SaveComparison)
}

func (c *Controller) saveResult(title, suffix string, save func(io.Writer) error) {
	result := c.coordinator.GetResult()
	if result == nil {
		c.handleError(title+" error", fmt.Errorf("no enhanced image to save"))
		return
	}

	c.view.ShowSaveDialog(result.Enhanced.Name+suffix, func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			c.handleError(title+" error", err)
			return
		}
		if writer == nil {
			return
		}

		c.updateStatus("Saving image...")

		go func() {
			start := time.Now()
			saveErr := save(writer)
			if closeErr := writer.Close(); saveErr == nil {
				saveErr = closeErr
			}

			fyne.Do(func() {
				if saveErr != nil {
					c.handleError(title+" error", saveErr)
					c.updateStatus("Save failed")
					return
				}

				c.updateStatus("Image saved")
				c.logger.Info("Controller", "image saved", map[string]interface{}{
					"path":      writer.URI().Path(),
					"save_time": time.Since(start),
				})
			})
		}()
	})
}

func (c *Controller) ChangeAlgorithm(algorithm string) {
	c.mu.Lock()
	c.currentAlgorithm = algorithm
	c.mu.Unlock()

	c.logger.Debug("Controller", "backend selected", map[string]interface{}{
		"algorithm": algorithm,
	})
}

func (c *Controller) CancelProcessing() {
	c.mu.Lock()
	if c.processCancel != nil {
		c.processCancel()
	}
	c.mu.Unlock()
}

func (c *Controller) beginWork(status string) {
	c.setProcessing(true)
	c.view.SetBusy(true, c.coordinator.GetOriginalImage() != nil, c.coordinator.GetResult() != nil)
	c.updateStatus(status)
}

func (c *Controller) endWork() {
	c.setProcessing(false)
	c.view.SetBusy(false, c.coordinator.GetOriginalImage() != nil, c.coordinator.GetResult() != nil)
}

func (c *Controller) updateStatus(status string) {
	c.view.SetStatus(status)
}

func (c *Controller) handleError(title string, err error) {
	c.logger.Error("Controller", err, map[string]interface{}{
		"title": title,
	})

	fyne.Do(func() {
		c.view.ShowError(title, err)
	})
}

func (c *Controller) isProcessing() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.processingActive
}

func (c *Controller) setProcessing(active bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.processingActive = active
}

func (c *Controller) getCurrentAlgorithm() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.currentAlgorithm
}

func (c *Controller) Shutdown() {
	c.CancelProcessing()
	c.logger.Info("Controller", "shutdown completed", nil)
}
