package colorspace

import (
	"fmt"
	"math"

	"lowlight-enhancer/internal/raster"

	"github.com/samber/lo"
)

type pixelFunc func(c0, c1, c2 uint8) (uint8, uint8, uint8)

// Convert returns a new image holding src re-expressed in the target space.
// src must be tagged with from. Lab and HSV are reached through RGB.
func Convert(src *raster.Image, from, to raster.Space) (*raster.Image, error) {
	if !from.Valid() || !to.Valid() {
		return nil, fmt.Errorf("%w: %v to %v", raster.ErrUnsupportedConversion, from, to)
	}
	if err := src.ValidateSpace(from); err != nil {
		return nil, err
	}

	if from == to {
		return src.Clone(), nil
	}

	steps, err := route(from, to)
	if err != nil {
		return nil, err
	}

	out := &raster.Image{Width: src.Width, Height: src.Height, Space: to, Pix: make([]uint8, len(src.Pix))}
	for i := 0; i < len(src.Pix); i += raster.Channels {
		c0, c1, c2 := src.Pix[i], src.Pix[i+1], src.Pix[i+2]
		for _, step := range steps {
			c0, c1, c2 = step(c0, c1, c2)
		}
		out.Pix[i], out.Pix[i+1], out.Pix[i+2] = c0, c1, c2
	}

	return out, nil
}

func route(from, to raster.Space) ([]pixelFunc, error) {
	var steps []pixelFunc

	switch from {
	case raster.SpaceRGB:
	case raster.SpaceBGR:
		steps = append(steps, swapRB)
	case raster.SpaceLab:
		steps = append(steps, labToRGB)
	case raster.SpaceHSV:
		steps = append(steps, hsvToRGB)
	default:
		return nil, fmt.Errorf("%w: source %v", raster.ErrUnsupportedConversion, from)
	}

	switch to {
	case raster.SpaceRGB:
	case raster.SpaceBGR:
		steps = append(steps, swapRB)
	case raster.SpaceLab:
		steps = append(steps, rgbToLab)
	case raster.SpaceHSV:
		steps = append(steps, rgbToHSV)
	default:
		return nil, fmt.Errorf("%w: target %v", raster.ErrUnsupportedConversion, to)
	}

	return steps, nil
}

func swapRB(c0, c1, c2 uint8) (uint8, uint8, uint8) {
	return c2, c1, c0
}

// toByte rounds to nearest and saturates to the 8-bit range.
func toByte(v float64) uint8 {
	return uint8(lo.Clamp(math.Floor(v+0.5), 0, 255))
}
