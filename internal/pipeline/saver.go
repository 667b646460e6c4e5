package pipeline

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"lowlight-enhancer/internal/logger"

	"github.com/disintegration/imaging"
)

const DefaultJPEGQuality = 95

// Saver encodes results. Only JPEG and PNG are written; anything else is
// saved as PNG.
type Saver struct {
	logger      logger.Logger
	jpegQuality int
}

func NewSaver(jpegQuality int, log logger.Logger) *Saver {
	if jpegQuality < 1 || jpegQuality > 100 {
		jpegQuality = DefaultJPEGQuality
	}
	return &Saver{logger: log, jpegQuality: jpegQuality}
}

func (s *Saver) SaveToWriter(writer io.Writer, imageData *ImageData, format string) error {
	if imageData == nil || imageData.Image == nil {
		return fmt.Errorf("no image data to save")
	}

	saveFormat := strings.ToLower(format)
	if saveFormat == "" {
		saveFormat = "png"
	}

	var err error
	switch saveFormat {
	case "jpeg", "jpg":
		saveFormat = "jpeg"
		err = imaging.Encode(writer, imageData.Image, imaging.JPEG, imaging.JPEGQuality(s.jpegQuality))
	case "png":
		err = imaging.Encode(writer, imageData.Image, imaging.PNG)
	default:
		s.logger.Warning("ImageSaver", "format not supported, using PNG", map[string]interface{}{
			"requested_format": strings.ToUpper(saveFormat),
		})
		saveFormat = "png"
		err = imaging.Encode(writer, imageData.Image, imaging.PNG)
	}

	if err != nil {
		s.logger.Error("ImageSaver", err, map[string]interface{}{
			"format": saveFormat,
		})
		return fmt.Errorf("failed to encode %s: %w", saveFormat, err)
	}

	s.logger.Debug("ImageSaver", "image encoded", map[string]interface{}{
		"format": saveFormat,
		"width":  imageData.Width,
		"height": imageData.Height,
	})

	return nil
}

// SaveToPath picks the format from the file extension.
func (s *Saver) SaveToPath(path string, imageData *ImageData) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close output file: %w", closeErr)
		}
	}()

	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if err := s.SaveToWriter(file, imageData, format); err != nil {
		return err
	}

	s.logger.Info("ImageSaver", "image saved", map[string]interface{}{
		"path": path,
	})

	return nil
}
