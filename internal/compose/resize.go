package compose

import (
	"fmt"

	"lowlight-enhancer/internal/raster"
)

type contribution struct {
	index  int
	weight float64
}

// ResizeArea resamples src to width x height by averaging the source area
// each destination pixel covers. This suits downscaling; when upscaling it
// degrades to a near-nearest-neighbour replication.
func ResizeArea(src *raster.Image, width, height int) (*raster.Image, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: resize target %dx%d", raster.ErrInvalidImage, width, height)
	}
	if width == src.Width && height == src.Height {
		return src.Clone(), nil
	}

	xs := areaContributions(src.Width, width)
	ys := areaContributions(src.Height, height)

	dst, err := raster.New(width, height, src.Space)
	if err != nil {
		return nil, err
	}

	var acc [raster.Channels]float64
	for dy, rowTerms := range ys {
		for dx, colTerms := range xs {
			acc = [raster.Channels]float64{}
			for _, ry := range rowTerms {
				for _, cx := range colTerms {
					w := ry.weight * cx.weight
					i := src.Offset(cx.index, ry.index)
					acc[0] += w * float64(src.Pix[i])
					acc[1] += w * float64(src.Pix[i+1])
					acc[2] += w * float64(src.Pix[i+2])
				}
			}
			o := dst.Offset(dx, dy)
			dst.Pix[o] = toByte(acc[0])
			dst.Pix[o+1] = toByte(acc[1])
			dst.Pix[o+2] = toByte(acc[2])
		}
	}

	return dst, nil
}

// areaContributions lists, for each destination index, the source indices
// overlapping its footprint with weights that sum to one.
func areaContributions(srcSize, dstSize int) [][]contribution {
	scale := float64(srcSize) / float64(dstSize)
	out := make([][]contribution, dstSize)

	for d := 0; d < dstSize; d++ {
		start := float64(d) * scale
		end := start + scale

		first := int(start)
		last := min(int(end-1e-9), srcSize-1)

		terms := make([]contribution, 0, last-first+1)
		for s := first; s <= last; s++ {
			overlap := min(end, float64(s+1)) - max(start, float64(s))
			if overlap <= 0 {
				continue
			}
			terms = append(terms, contribution{index: s, weight: overlap / scale})
		}
		out[d] = terms
	}

	return out
}

func toByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
