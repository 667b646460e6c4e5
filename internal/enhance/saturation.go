package enhance

import (
	"fmt"
	"math"

	"lowlight-enhancer/internal/raster"

	"github.com/samber/lo"
)

// BoostSaturation scales the S channel of an HSV image by factor, clamping
// to the byte range. Highly saturated pixels clip at 255 whatever the factor.
func BoostSaturation(hsv *raster.Image, factor float64) (*raster.Image, error) {
	if err := validateFactor(factor); err != nil {
		return nil, err
	}
	if err := hsv.ValidateSpace(raster.SpaceHSV); err != nil {
		return nil, err
	}

	out := hsv.Clone()
	for i := 1; i < len(out.Pix); i += raster.Channels {
		s := lo.Clamp(float64(out.Pix[i])*factor, 0, 255)
		out.Pix[i] = roundByte(s)
	}
	return out, nil
}

func validateFactor(factor float64) error {
	if factor < 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return fmt.Errorf("%w: saturation factor %v", raster.ErrInvalidFactor, factor)
	}
	return nil
}
