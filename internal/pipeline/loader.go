package pipeline

import (
	"bufio"
	"bytes"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"lowlight-enhancer/internal/logger"
	"lowlight-enhancer/internal/raster"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Loader decodes photos into RGB rasters, applying EXIF orientation.
type Loader struct {
	logger logger.Logger
}

func NewLoader(log logger.Logger) *Loader {
	return &Loader{logger: log}
}

func (l *Loader) LoadFromPath(path string) (*ImageData, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	return l.LoadFromReader(file, path)
}

// LoadFromReader reads the whole stream. name is used for the format hint
// and for naming outputs.
func (l *Loader) LoadFromReader(reader io.Reader, name string) (*ImageData, error) {
	data, err := io.ReadAll(bufio.NewReader(reader))
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	imageData, err := l.LoadFromBytes(data, strings.ToLower(filepath.Ext(name)))
	if err != nil {
		return nil, err
	}
	imageData.Name = baseName(name)

	return imageData, nil
}

func (l *Loader) LoadFromBytes(data []byte, format string) (*ImageData, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty image data", raster.ErrInvalidImage)
	}

	_, decodedFormat, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: unrecognised image data: %v", raster.ErrInvalidImage, err)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	rgb, err := raster.FromImage(img)
	if err != nil {
		return nil, fmt.Errorf("failed to convert image: %w", err)
	}

	actualFormat := determineActualFormat(format, decodedFormat)
	imageData := newImageData(img, rgb, actualFormat)

	l.logger.Info("ImageLoader", "image loaded", map[string]interface{}{
		"width":  imageData.Width,
		"height": imageData.Height,
		"format": actualFormat,
	})

	return imageData, nil
}

func determineActualFormat(extension, decodedFormat string) string {
	switch extension {
	case ".tiff", ".tif":
		return "tiff"
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".png":
		return "png"
	case ".bmp":
		return "bmp"
	case ".gif":
		return "gif"
	case ".webp":
		return "webp"
	default:
		if decodedFormat != "" {
			return decodedFormat
		}
		return "unknown"
	}
}

func baseName(name string) string {
	base := filepath.Base(name)
	if base == "." || base == string(filepath.Separator) {
		return "image"
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}
