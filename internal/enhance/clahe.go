package enhance

import (
	"fmt"
	"image"
	"math"

	"lowlight-enhancer/internal/raster"
)

const histogramBins = 256

// tileSpan is the half-open pixel range [start, end) covered by one tile
// along a single axis.
type tileSpan struct {
	start, end int
}

func (s tileSpan) center() float64 {
	return float64(s.start+s.end) / 2
}

// axisWeights maps every pixel along an axis to the two tiles it blends
// between and the weight of the second one.
type axisWeights struct {
	lo, hi []int
	w      []float64
}

// EqualizeLocalContrast applies contrast limited adaptive histogram
// equalization to a single channel. grid is the number of tiles across (X)
// and down (Y); tiles are ceil(size/grid) pixels and the last tile on each
// axis is clipped to whatever remains. clipLimit is relative to the mean bin
// count of a tile; zero or less disables clipping.
func EqualizeLocalContrast(src *raster.Plane, clipLimit float64, grid image.Point) (*raster.Plane, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	if grid.X < 1 || grid.Y < 1 {
		return nil, fmt.Errorf("%w: tile grid %dx%d", raster.ErrInvalidImage, grid.X, grid.Y)
	}
	if math.IsNaN(clipLimit) {
		return nil, fmt.Errorf("%w: clip limit is NaN", raster.ErrInvalidFactor)
	}

	cols := splitAxis(src.Width, grid.X)
	rows := splitAxis(src.Height, grid.Y)

	luts := make([][histogramBins]uint8, len(cols)*len(rows))
	for ty, rs := range rows {
		for tx, cs := range cols {
			luts[ty*len(cols)+tx] = tileMapping(src, cs, rs, clipLimit)
		}
	}

	xw := interpolationWeights(src.Width, cols)
	yw := interpolationWeights(src.Height, rows)

	dst, err := raster.NewPlane(src.Width, src.Height)
	if err != nil {
		return nil, err
	}

	for y := 0; y < src.Height; y++ {
		top := yw.lo[y] * len(cols)
		bottom := yw.hi[y] * len(cols)
		wy := yw.w[y]
		for x := 0; x < src.Width; x++ {
			v := src.Pix[y*src.Width+x]
			l, r, wx := xw.lo[x], xw.hi[x], xw.w[x]

			upper := (1-wx)*float64(luts[top+l][v]) + wx*float64(luts[top+r][v])
			lower := (1-wx)*float64(luts[bottom+l][v]) + wx*float64(luts[bottom+r][v])
			dst.Pix[y*src.Width+x] = roundByte((1-wy)*upper + wy*lower)
		}
	}

	return dst, nil
}

func splitAxis(size, tiles int) []tileSpan {
	tiles = min(tiles, size)
	step := (size + tiles - 1) / tiles

	spans := make([]tileSpan, 0, tiles)
	for start := 0; start < size; start += step {
		spans = append(spans, tileSpan{start: start, end: min(start+step, size)})
	}
	return spans
}

func interpolationWeights(size int, spans []tileSpan) axisWeights {
	aw := axisWeights{
		lo: make([]int, size),
		hi: make([]int, size),
		w:  make([]float64, size),
	}

	last := len(spans) - 1
	tile := 0
	for p := 0; p < size; p++ {
		pos := float64(p) + 0.5
		for tile < last && spans[tile+1].center() <= pos {
			tile++
		}

		switch {
		case pos <= spans[0].center():
			aw.lo[p], aw.hi[p] = 0, 0
		case tile == last:
			aw.lo[p], aw.hi[p] = last, last
		default:
			c0, c1 := spans[tile].center(), spans[tile+1].center()
			aw.lo[p], aw.hi[p] = tile, tile+1
			aw.w[p] = (pos - c0) / (c1 - c0)
		}
	}

	return aw
}

func tileMapping(src *raster.Plane, cols, rows tileSpan, clipLimit float64) [histogramBins]uint8 {
	var hist [histogramBins]int
	for y := rows.start; y < rows.end; y++ {
		row := src.Pix[y*src.Width : (y+1)*src.Width]
		for _, v := range row[cols.start:cols.end] {
			hist[v]++
		}
	}

	area := (cols.end - cols.start) * (rows.end - rows.start)
	if clipLimit > 0 {
		limit := max(int(clipLimit*float64(area)/histogramBins), 1)
		clipHistogram(&hist, limit)
	}

	var lut [histogramBins]uint8
	scale := float64(histogramBins-1) / float64(area)
	sum := 0
	for i, count := range hist {
		sum += count
		lut[i] = roundByte(float64(sum) * scale)
	}
	return lut
}

// clipHistogram caps every bin at limit and hands the excess back evenly;
// the remainder that does not divide by the bin count goes one sample per
// bin at a fixed stride from bin 0.
func clipHistogram(hist *[histogramBins]int, limit int) {
	excess := 0
	for i, count := range hist {
		if count > limit {
			excess += count - limit
			hist[i] = limit
		}
	}
	if excess == 0 {
		return
	}

	share := excess / histogramBins
	residual := excess - share*histogramBins
	for i := range hist {
		hist[i] += share
	}

	if residual > 0 {
		stride := max(histogramBins/residual, 1)
		for i := 0; i < histogramBins && residual > 0; i += stride {
			hist[i]++
			residual--
		}
	}
}
