package native

import (
	"context"

	"lowlight-enhancer/internal/enhance"
	"lowlight-enhancer/internal/raster"
)

const Name = "native"

// Processor runs the pure Go enhancement pipeline.
type Processor struct {
	pipeline *enhance.Pipeline
}

func NewProcessor() (*Processor, error) {
	pipeline, err := enhance.NewPipeline(enhance.DefaultParameters())
	if err != nil {
		return nil, err
	}
	return &Processor{pipeline: pipeline}, nil
}

func (p *Processor) GetName() string {
	return Name
}

func (p *Processor) Process(ctx context.Context, input *raster.Image) (*raster.Image, error) {
	return p.pipeline.EnhanceWithContext(ctx, input)
}
