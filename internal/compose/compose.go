package compose

import (
	"fmt"

	"lowlight-enhancer/internal/raster"
)

const (
	LabelStripHeight = 60

	DefaultLeftLabel  = "Input Image"
	DefaultRightLabel = "Enhanced Image"
)

// Compose places left and right side by side under a label strip. When the
// heights differ the right image is resized to the left's height with its
// aspect ratio kept; the left image is never resized. Neither input is
// modified.
func Compose(left, right *raster.Image, labelLeft, labelRight string) (*raster.Image, error) {
	if err := left.ValidateSpace(raster.SpaceRGB); err != nil {
		return nil, fmt.Errorf("left image: %w", err)
	}
	if err := right.ValidateSpace(raster.SpaceRGB); err != nil {
		return nil, fmt.Errorf("right image: %w", err)
	}

	right, err := alignHeight(left, right)
	if err != nil {
		return nil, fmt.Errorf("align heights: %w", err)
	}

	canvas, err := raster.New(left.Width+right.Width, max(left.Height, right.Height)+LabelStripHeight, raster.SpaceRGB)
	if err != nil {
		return nil, err
	}

	blit(canvas, left, 0, LabelStripHeight)
	blit(canvas, right, left.Width, LabelStripHeight)

	face, err := newLabelFace()
	if err != nil {
		return nil, err
	}
	defer face.Close()

	sides := []struct {
		text   string
		offset int
		width  int
	}{
		{labelLeft, 0, left.Width},
		{labelRight, left.Width, right.Width},
	}
	for _, side := range sides {
		lb := measureLabel(face, side.text)
		lb.x = side.offset + (side.width-lb.width)/2
		drawLabel(canvas, face, lb)
	}

	return canvas, nil
}

func alignHeight(left, right *raster.Image) (*raster.Image, error) {
	if left.Height == right.Height {
		return right, nil
	}

	scale := float64(left.Height) / float64(right.Height)
	width := max(int(float64(right.Width)*scale), 1)
	return ResizeArea(right, width, left.Height)
}

func blit(dst, src *raster.Image, x0, y0 int) {
	rowBytes := src.Width * raster.Channels
	for y := 0; y < src.Height; y++ {
		from := src.Pix[y*rowBytes : (y+1)*rowBytes]
		copy(dst.Pix[dst.Offset(x0, y0+y):], from)
	}
}
