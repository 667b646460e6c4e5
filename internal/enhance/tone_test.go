package enhance

import (
	"math"
	"testing"

	"lowlight-enhancer/internal/raster"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildGammaLUTIdentity(t *testing.T) {
	lut, err := BuildGammaLUT(1)
	require.NoError(t, err)

	var identity LUT
	for i := range identity {
		identity[i] = uint8(i)
	}
	if diff := cmp.Diff(identity, lut); diff != "" {
		t.Errorf("gamma 1 LUT mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildGammaLUTMonotonic(t *testing.T) {
	for _, gamma := range []float64{0.1, 0.5, 1, 1.2, 2, 3.7, 10} {
		lut, err := BuildGammaLUT(gamma)
		require.NoError(t, err)

		assert.Equal(t, uint8(0), lut[0], "gamma %v", gamma)
		assert.Equal(t, uint8(255), lut[255], "gamma %v", gamma)
		for i := 1; i < len(lut); i++ {
			if lut[i] < lut[i-1] {
				t.Fatalf("gamma %v: lut[%d]=%d < lut[%d]=%d", gamma, i, lut[i], i-1, lut[i-1])
			}
		}
	}
}

func TestBuildGammaLUTKnownValues(t *testing.T) {
	lut, err := BuildGammaLUT(2.0)
	require.NoError(t, err)
	assert.InDelta(t, 128, lut.Apply(64), 1)

	lut, err = BuildGammaLUT(DefaultGamma)
	require.NoError(t, err)
	assert.Equal(t, []uint8{0, 3, 4, 6, 8}, lut[:5])
	assert.Greater(t, lut[128], uint8(128), "gamma > 1 brightens midtones")
}

func TestBuildGammaLUTRejectsInvalid(t *testing.T) {
	for _, gamma := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		_, err := BuildGammaLUT(gamma)
		assert.ErrorIs(t, err, raster.ErrInvalidGamma, "gamma %v", gamma)
	}
}

func TestApplyLUT(t *testing.T) {
	img, err := raster.FromPix(2, 1, raster.SpaceRGB, []uint8{0, 64, 255, 16, 32, 128})
	require.NoError(t, err)

	identity, err := BuildGammaLUT(1)
	require.NoError(t, err)
	same, err := ApplyLUT(img, identity)
	require.NoError(t, err)
	assert.Equal(t, img.Pix, same.Pix)

	lut, err := BuildGammaLUT(2)
	require.NoError(t, err)
	out, err := ApplyLUT(img, lut)
	require.NoError(t, err)

	for i, v := range img.Pix {
		assert.Equal(t, lut[v], out.Pix[i])
	}
	assert.Equal(t, raster.SpaceRGB, out.Space)
	assert.Equal(t, []uint8{0, 64, 255, 16, 32, 128}, img.Pix)

	_, err = ApplyLUT(&raster.Image{Width: 1, Height: 1}, lut)
	assert.ErrorIs(t, err, raster.ErrInvalidImage)
}
