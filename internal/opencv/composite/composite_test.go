package composite

import (
	"testing"

	"lowlight-enhancer/internal/compose"
	"lowlight-enhancer/internal/raster"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func filled(t *testing.T, w, h int, rgb [3]uint8) *raster.Image {
	t.Helper()

	img, err := raster.New(w, h, raster.SpaceRGB)
	require.NoError(t, err)
	for i := 0; i < len(img.Pix); i += raster.Channels {
		copy(img.Pix[i:i+raster.Channels], rgb[:])
	}
	return img
}

func pixel(img *raster.Image, x, y int) [3]uint8 {
	o := img.Offset(x, y)
	return [3]uint8{img.Pix[o], img.Pix[o+1], img.Pix[o+2]}
}

func TestComposeLayout(t *testing.T) {
	left := filled(t, 200, 100, [3]uint8{200, 10, 10})
	right := filled(t, 100, 50, [3]uint8{10, 10, 200})

	out, err := Compose(left, right, compose.DefaultLeftLabel, compose.DefaultRightLabel)
	require.NoError(t, err)

	assert.Equal(t, raster.SpaceRGB, out.Space)
	assert.Equal(t, 400, out.Width)
	assert.Equal(t, 160, out.Height)

	assert.Equal(t, [3]uint8{200, 10, 10}, pixel(out, 0, compose.LabelStripHeight))
	assert.Equal(t, [3]uint8{200, 10, 10}, pixel(out, 199, 159))
	assert.Equal(t, [3]uint8{10, 10, 200}, pixel(out, 200, compose.LabelStripHeight))
	assert.Equal(t, [3]uint8{10, 10, 200}, pixel(out, 399, 159))

	assert.Equal(t, 200, left.Width, "inputs must not change")
	assert.Equal(t, 50, right.Height, "inputs must not change")
}

func TestComposeDrawsLabels(t *testing.T) {
	left := filled(t, 300, 40, [3]uint8{90, 90, 90})
	right := filled(t, 300, 40, [3]uint8{90, 90, 90})

	out, err := Compose(left, right, "Input Image", "Enhanced Image")
	require.NoError(t, err)

	white := 0
	for y := 0; y < compose.LabelStripHeight; y++ {
		for x := 0; x < out.Width; x++ {
			p := pixel(out, x, y)
			if p[0] > 200 && p[1] > 200 && p[2] > 200 {
				white++
			}
		}
	}
	assert.Greater(t, white, 0, "label text should be drawn")

	for x := 0; x < out.Width; x++ {
		assert.Equal(t, [3]uint8{0, 0, 0}, pixel(out, x, compose.LabelStripHeight-1), "strip below the boxes stays black")
	}
	assert.Equal(t, [3]uint8{90, 90, 90}, pixel(out, 150, compose.LabelStripHeight))
}

func TestComposeRejectsNonRGB(t *testing.T) {
	rgb := filled(t, 4, 4, [3]uint8{1, 2, 3})
	hsv, err := raster.New(4, 4, raster.SpaceHSV)
	require.NoError(t, err)

	_, err = Compose(hsv, rgb, "a", "b")
	assert.ErrorIs(t, err, raster.ErrUnsupportedConversion)

	_, err = Compose(rgb, nil, "a", "b")
	assert.Error(t, err)
}
