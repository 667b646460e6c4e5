package composite

import (
	"fmt"
	"image"
	"image/color"

	"lowlight-enhancer/internal/compose"
	"lowlight-enhancer/internal/opencv/bridge"
	"lowlight-enhancer/internal/opencv/safe"
	"lowlight-enhancer/internal/raster"

	"gocv.io/x/gocv"
)

const (
	labelBaseline = 40
	labelPadding  = 10
	fontFace      = gocv.FontHersheyDuplex
	fontScale     = 1.2
	fontThickness = 2
)

var (
	boxColor  = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	textColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// Compose builds the same labelled side-by-side canvas as compose.Compose
// with OpenCV doing the resize and the text. Labels use the Hershey duplex
// face, so glyphs differ from the native compositor while the layout is the
// same.
func Compose(left, right *raster.Image, labelLeft, labelRight string) (*raster.Image, error) {
	if err := left.ValidateSpace(raster.SpaceRGB); err != nil {
		return nil, fmt.Errorf("left image: %w", err)
	}
	if err := right.ValidateSpace(raster.SpaceRGB); err != nil {
		return nil, fmt.Errorf("right image: %w", err)
	}

	leftMat, err := bridge.RasterToMat(left)
	if err != nil {
		return nil, fmt.Errorf("left image: %w", err)
	}
	defer leftMat.Close()

	rightMat, err := bridge.RasterToMat(right)
	if err != nil {
		return nil, fmt.Errorf("right image: %w", err)
	}
	defer rightMat.Close()

	aligned, err := alignHeight(leftMat.Rows(), rightMat)
	if err != nil {
		return nil, fmt.Errorf("align heights: %w", err)
	}
	if aligned != rightMat {
		defer aligned.Close()
	}

	height := max(leftMat.Rows(), aligned.Rows()) + compose.LabelStripHeight
	canvas, err := safe.NewMat(height, leftMat.Cols()+aligned.Cols(), gocv.MatTypeCV8UC3, "comparison")
	if err != nil {
		return nil, err
	}
	defer canvas.Close()

	mat := canvas.GetMat()
	mat.SetTo(gocv.NewScalar(0, 0, 0, 0))

	blit(mat, leftMat.GetMat(), 0, compose.LabelStripHeight)
	blit(mat, aligned.GetMat(), leftMat.Cols(), compose.LabelStripHeight)

	drawLabel(&mat, labelLeft, 0, leftMat.Cols())
	drawLabel(&mat, labelRight, leftMat.Cols(), aligned.Cols())

	return bridge.MatToRaster(canvas)
}

func alignHeight(height int, right *safe.Mat) (*safe.Mat, error) {
	if right.Rows() == height {
		return right, nil
	}

	scale := float64(height) / float64(right.Rows())
	width := max(int(float64(right.Cols())*scale), 1)

	resized := gocv.NewMat()
	gocv.Resize(right.GetMat(), &resized, image.Point{X: width, Y: height}, 0, 0, gocv.InterpolationArea)
	return safe.Adopt(resized, "aligned")
}

func blit(canvas, src gocv.Mat, x, y int) {
	region := canvas.Region(image.Rect(x, y, x+src.Cols(), y+src.Rows()))
	defer region.Close()
	src.CopyTo(&region)
}

// drawLabel centres text over the side starting at offset. The filled box
// runs from padding above the text to the baseline, inclusive.
func drawLabel(canvas *gocv.Mat, text string, offset, width int) {
	size := gocv.GetTextSize(text, fontFace, fontScale, fontThickness)
	x := offset + (width-size.X)/2

	box := image.Rect(x, labelBaseline-size.Y-labelPadding, x+2*labelPadding+size.X+1, labelBaseline+1)
	gocv.Rectangle(canvas, box, boxColor, -1)

	origin := image.Point{X: x + labelPadding, Y: labelBaseline - labelPadding/2}
	gocv.PutText(canvas, text, origin, fontFace, fontScale, textColor, fontThickness)
}
