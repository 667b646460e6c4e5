package enhance

import (
	"math"
	"testing"

	"lowlight-enhancer/internal/raster"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hsvRamp(t *testing.T) *raster.Image {
	t.Helper()

	img, err := raster.New(256, 1, raster.SpaceHSV)
	require.NoError(t, err)
	for x := 0; x < 256; x++ {
		img.Set(x, 0, uint8(255-x), uint8(x), uint8(x/2))
	}
	return img
}

func TestBoostSaturation(t *testing.T) {
	src := hsvRamp(t)

	out, err := BoostSaturation(src, DefaultSaturationFactor)
	require.NoError(t, err)

	for x := 0; x < 256; x++ {
		h, s, v := out.At(x, 0)
		sh, ss, sv := src.At(x, 0)

		assert.Equal(t, sh, h)
		assert.Equal(t, sv, v)

		want := math.Min(255, math.Floor(float64(ss)*1.25+0.5))
		assert.Equal(t, uint8(want), s, "x=%d", x)
	}

	// 204 * 1.25 = 255 exactly; anything above clips.
	_, s, _ := out.At(204, 0)
	assert.Equal(t, uint8(255), s)
	_, s, _ = out.At(255, 0)
	assert.Equal(t, uint8(255), s)
}

func TestBoostSaturationIdentityAndZero(t *testing.T) {
	src := hsvRamp(t)

	same, err := BoostSaturation(src, 1)
	require.NoError(t, err)
	assert.Equal(t, src.Pix, same.Pix)

	gray, err := BoostSaturation(src, 0)
	require.NoError(t, err)
	for x := 0; x < 256; x++ {
		_, s, _ := gray.At(x, 0)
		assert.Zero(t, s)
	}
}

func TestBoostSaturationErrors(t *testing.T) {
	src := hsvRamp(t)

	for _, factor := range []float64{-0.01, math.NaN()} {
		_, err := BoostSaturation(src, factor)
		assert.ErrorIs(t, err, raster.ErrInvalidFactor)
	}

	rgb, err := raster.New(2, 2, raster.SpaceRGB)
	require.NoError(t, err)
	_, err = BoostSaturation(rgb, 1.25)
	assert.ErrorIs(t, err, raster.ErrUnsupportedConversion)
}
