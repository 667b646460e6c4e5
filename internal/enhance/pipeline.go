package enhance

import (
	"context"
	"fmt"
	"image"
	"sync"

	"lowlight-enhancer/internal/colorspace"
	"lowlight-enhancer/internal/raster"
)

const (
	DefaultClipLimit        = 3.0
	DefaultGamma            = 1.2
	DefaultSaturationFactor = 1.25
)

var DefaultTileGrid = image.Point{X: 8, Y: 8}

// Parameters are the fixed constants of the enhancement. They exist as a
// struct so the pipeline can be built and tested once; the product does
// not expose them to users.
type Parameters struct {
	ClipLimit        float64
	TileGrid         image.Point
	Gamma            float64
	SaturationFactor float64
}

func DefaultParameters() Parameters {
	return Parameters{
		ClipLimit:        DefaultClipLimit,
		TileGrid:         DefaultTileGrid,
		Gamma:            DefaultGamma,
		SaturationFactor: DefaultSaturationFactor,
	}
}

type stage struct {
	name string
	run  func(*raster.Image) (*raster.Image, error)
}

// Pipeline turns a dark RGB image into an enhanced RGB image:
// Lab, CLAHE on L, back to RGB, gamma curve, HSV, saturation boost, RGB.
type Pipeline struct {
	params Parameters
	lut    LUT
	stages []stage
}

func NewPipeline(params Parameters) (*Pipeline, error) {
	lut, err := BuildGammaLUT(params.Gamma)
	if err != nil {
		return nil, err
	}
	if err := validateFactor(params.SaturationFactor); err != nil {
		return nil, err
	}
	if params.TileGrid.X < 1 || params.TileGrid.Y < 1 {
		return nil, fmt.Errorf("%w: tile grid %dx%d", raster.ErrInvalidImage, params.TileGrid.X, params.TileGrid.Y)
	}

	p := &Pipeline{params: params, lut: lut}
	p.stages = []stage{
		{"rgb_to_lab", convertStage(raster.SpaceRGB, raster.SpaceLab)},
		{"local_contrast", p.equalizeLuminance},
		{"lab_to_rgb", convertStage(raster.SpaceLab, raster.SpaceRGB)},
		{"gamma", func(img *raster.Image) (*raster.Image, error) { return ApplyLUT(img, p.lut) }},
		{"rgb_to_hsv", convertStage(raster.SpaceRGB, raster.SpaceHSV)},
		{"saturation", func(img *raster.Image) (*raster.Image, error) {
			return BoostSaturation(img, p.params.SaturationFactor)
		}},
		{"hsv_to_rgb", convertStage(raster.SpaceHSV, raster.SpaceRGB)},
	}

	return p, nil
}

func (p *Pipeline) Parameters() Parameters {
	return p.params
}

func (p *Pipeline) Enhance(img *raster.Image) (*raster.Image, error) {
	return p.EnhanceWithContext(context.Background(), img)
}

// EnhanceWithContext runs every stage in order, checking ctx between
// stages. Either the full result is returned or an error and nil.
func (p *Pipeline) EnhanceWithContext(ctx context.Context, img *raster.Image) (*raster.Image, error) {
	if err := img.ValidateSpace(raster.SpaceRGB); err != nil {
		return nil, err
	}

	current := img
	for _, s := range p.stages {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		next, err := s.run(current)
		if err != nil {
			return nil, fmt.Errorf("%s stage failed: %w", s.name, err)
		}
		current = next
	}

	return current, nil
}

func (p *Pipeline) equalizeLuminance(lab *raster.Image) (*raster.Image, error) {
	planes, err := lab.Split()
	if err != nil {
		return nil, err
	}

	l, err := EqualizeLocalContrast(planes[0], p.params.ClipLimit, p.params.TileGrid)
	if err != nil {
		return nil, err
	}
	planes[0] = l

	return raster.Merge(planes, raster.SpaceLab)
}

func convertStage(from, to raster.Space) func(*raster.Image) (*raster.Image, error) {
	return func(img *raster.Image) (*raster.Image, error) {
		return colorspace.Convert(img, from, to)
	}
}

var defaultPipeline = sync.OnceValues(func() (*Pipeline, error) {
	return NewPipeline(DefaultParameters())
})

// Enhance runs the default pipeline on an RGB image.
func Enhance(img *raster.Image) (*raster.Image, error) {
	p, err := defaultPipeline()
	if err != nil {
		return nil, err
	}
	return p.Enhance(img)
}
