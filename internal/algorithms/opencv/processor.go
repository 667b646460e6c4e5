package opencv

import (
	"context"
	"fmt"

	"lowlight-enhancer/internal/enhance"
	"lowlight-enhancer/internal/opencv/bridge"
	"lowlight-enhancer/internal/opencv/composite"
	"lowlight-enhancer/internal/opencv/conversion"
	"lowlight-enhancer/internal/opencv/safe"
	"lowlight-enhancer/internal/raster"

	"gocv.io/x/gocv"
)

const Name = "opencv"

// Processor runs the enhancement through OpenCV. Results track the native
// backend closely but are not bit-identical: OpenCV scales full-range hue
// by 255/360 and rounds its Lab transform differently.
type Processor struct {
	params enhance.Parameters
	lut    enhance.LUT
}

func NewProcessor() (*Processor, error) {
	params := enhance.DefaultParameters()
	lut, err := enhance.BuildGammaLUT(params.Gamma)
	if err != nil {
		return nil, err
	}
	return &Processor{params: params, lut: lut}, nil
}

func (p *Processor) GetName() string {
	return Name
}

func (p *Processor) Process(ctx context.Context, input *raster.Image) (*raster.Image, error) {
	if err := input.ValidateSpace(raster.SpaceRGB); err != nil {
		return nil, err
	}

	src, err := bridge.RasterToMat(input)
	if err != nil {
		return nil, fmt.Errorf("input conversion failed: %w", err)
	}
	defer src.Close()

	equalized, err := p.equalizeLuminance(src)
	if err != nil {
		return nil, err
	}
	defer equalized.Close()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	toned, err := p.applyGamma(equalized)
	if err != nil {
		return nil, err
	}
	defer toned.Close()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	saturated, err := p.boostSaturation(toned)
	if err != nil {
		return nil, err
	}
	defer saturated.Close()

	return bridge.MatToRaster(saturated)
}

// Compose builds the comparison canvas with OpenCV resizing and Hershey
// labels.
func (p *Processor) Compose(left, right *raster.Image, labelLeft, labelRight string) (*raster.Image, error) {
	return composite.Compose(left, right, labelLeft, labelRight)
}

func (p *Processor) equalizeLuminance(bgr *safe.Mat) (*safe.Mat, error) {
	lab, err := conversion.CvtColorSafe(bgr, gocv.ColorBGRToLab, "lab")
	if err != nil {
		return nil, fmt.Errorf("rgb_to_lab stage failed: %w", err)
	}
	defer lab.Close()

	channels, err := conversion.SplitChannels(lab)
	if err != nil {
		return nil, fmt.Errorf("local_contrast stage failed: %w", err)
	}
	defer func() { conversion.CloseAll(channels) }()

	clahe := gocv.NewCLAHEWithParams(p.params.ClipLimit, p.params.TileGrid)
	defer clahe.Close()

	dst := gocv.NewMat()
	clahe.Apply(channels[0].GetMat(), &dst)
	lightness, err := safe.Adopt(dst, "lab_l_clahe")
	if err != nil {
		return nil, fmt.Errorf("local_contrast stage failed: %w", err)
	}
	channels[0].Close()
	channels[0] = lightness

	merged, err := conversion.MergeChannels(channels, "lab_clahe")
	if err != nil {
		return nil, fmt.Errorf("local_contrast stage failed: %w", err)
	}
	defer merged.Close()

	out, err := conversion.CvtColorSafe(merged, gocv.ColorLabToBGR, "bgr_clahe")
	if err != nil {
		return nil, fmt.Errorf("lab_to_rgb stage failed: %w", err)
	}
	return out, nil
}

func (p *Processor) applyGamma(bgr *safe.Mat) (*safe.Mat, error) {
	table, err := safe.NewMatFromBytes(1, len(p.lut), gocv.MatTypeCV8U, p.lut[:], "gamma_lut")
	if err != nil {
		return nil, fmt.Errorf("gamma stage failed: %w", err)
	}
	defer table.Close()

	dst := gocv.NewMat()
	gocv.LUT(bgr.GetMat(), table.GetMat(), &dst)

	out, err := safe.Adopt(dst, "bgr_gamma")
	if err != nil {
		return nil, fmt.Errorf("gamma stage failed: %w", err)
	}
	return out, nil
}

func (p *Processor) boostSaturation(bgr *safe.Mat) (*safe.Mat, error) {
	hsv, err := conversion.CvtColorSafe(bgr, gocv.ColorBGRToHSVFull, "hsv")
	if err != nil {
		return nil, fmt.Errorf("rgb_to_hsv stage failed: %w", err)
	}
	defer hsv.Close()

	channels, err := conversion.SplitChannels(hsv)
	if err != nil {
		return nil, fmt.Errorf("saturation stage failed: %w", err)
	}
	defer func() { conversion.CloseAll(channels) }()

	// ConvertTo rounds and saturates to the 8-bit range.
	dst := gocv.NewMat()
	saturation := channels[1].GetMat()
	saturation.ConvertToWithParams(&dst, gocv.MatTypeCV8U, float32(p.params.SaturationFactor), 0)
	boosted, err := safe.Adopt(dst, "hsv_s_boost")
	if err != nil {
		return nil, fmt.Errorf("saturation stage failed: %w", err)
	}
	channels[1].Close()
	channels[1] = boosted

	merged, err := conversion.MergeChannels(channels, "hsv_boost")
	if err != nil {
		return nil, fmt.Errorf("saturation stage failed: %w", err)
	}
	defer merged.Close()

	out, err := conversion.CvtColorSafe(merged, gocv.ColorHSVToBGRFull, "bgr_out")
	if err != nil {
		return nil, fmt.Errorf("hsv_to_rgb stage failed: %w", err)
	}
	return out, nil
}
