package bridge

import (
	"fmt"

	"lowlight-enhancer/internal/colorspace"
	"lowlight-enhancer/internal/opencv/safe"
	"lowlight-enhancer/internal/raster"

	"gocv.io/x/gocv"
)

// RasterToMat copies an RGB or BGR raster into an 8-bit BGR Mat.
func RasterToMat(img *raster.Image) (*safe.Mat, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}

	if img.Space != raster.SpaceRGB && img.Space != raster.SpaceBGR {
		return nil, fmt.Errorf("%w: cannot bridge %s image", raster.ErrUnsupportedConversion, img.Space)
	}

	bgr, err := colorspace.Convert(img, img.Space, raster.SpaceBGR)
	if err != nil {
		return nil, err
	}

	return safe.NewMatFromBytes(img.Height, img.Width, gocv.MatTypeCV8UC3, bgr.Pix, "input")
}

// MatToRaster copies an 8-bit BGR Mat into an RGB raster.
func MatToRaster(mat *safe.Mat) (*raster.Image, error) {
	if err := safe.ValidateMatForOperation(mat, "MatToRaster"); err != nil {
		return nil, err
	}

	if channels := mat.Channels(); channels != raster.Channels {
		return nil, fmt.Errorf("unsupported number of channels: %d", channels)
	}

	data, err := mat.Bytes()
	if err != nil {
		return nil, err
	}

	bgr, err := raster.FromPix(mat.Cols(), mat.Rows(), raster.SpaceBGR, data)
	if err != nil {
		return nil, fmt.Errorf("failed to wrap Mat bytes: %w", err)
	}

	return colorspace.Convert(bgr, raster.SpaceBGR, raster.SpaceRGB)
}
