package enhance

import (
	"fmt"
	"math"

	"lowlight-enhancer/internal/raster"
)

// LUT maps every 8-bit sample value to a new one.
type LUT [256]uint8

// BuildGammaLUT returns out[i] = round(255 * (i/255)^(1/gamma)).
// gamma > 1 brightens midtones; the endpoints stay fixed.
func BuildGammaLUT(gamma float64) (LUT, error) {
	var lut LUT
	if gamma <= 0 || math.IsNaN(gamma) || math.IsInf(gamma, 0) {
		return lut, fmt.Errorf("%w: %v (must be finite and > 0)", raster.ErrInvalidGamma, gamma)
	}

	inv := 1 / gamma
	for i := range lut {
		lut[i] = roundByte(255 * math.Pow(float64(i)/255, inv))
	}
	return lut, nil
}

func (l *LUT) Apply(v uint8) uint8 {
	return l[v]
}

// ApplyLUT maps every sample of every channel through lut. The space tag is
// carried over unchanged.
func ApplyLUT(img *raster.Image, lut LUT) (*raster.Image, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}

	out := &raster.Image{Width: img.Width, Height: img.Height, Space: img.Space, Pix: make([]uint8, len(img.Pix))}
	for i, v := range img.Pix {
		out.Pix[i] = lut[v]
	}
	return out, nil
}

func roundByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
