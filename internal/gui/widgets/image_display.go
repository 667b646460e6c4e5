package widgets

import (
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/nfnt/resize"
)

const (
	ImageAreaWidth  = 500
	ImageAreaHeight = 400

	// Previews keep twice the area size so HiDPI screens stay sharp.
	previewScale = 2
)

type ImageDisplay struct {
	container       fyne.CanvasObject
	originalImage   *canvas.Image
	comparisonImage *canvas.Image
	splitView       *container.Split
}

func NewImageDisplay() *ImageDisplay {
	display := &ImageDisplay{}
	display.createComponents()
	display.setupLayout()
	return display
}

func (id *ImageDisplay) createComponents() {
	id.originalImage = canvas.NewImageFromImage(nil)
	id.originalImage.FillMode = canvas.ImageFillContain
	id.originalImage.ScaleMode = canvas.ImageScaleSmooth
	id.originalImage.SetMinSize(fyne.NewSize(ImageAreaWidth, ImageAreaHeight))

	id.comparisonImage = canvas.NewImageFromImage(nil)
	id.comparisonImage.FillMode = canvas.ImageFillContain
	id.comparisonImage.ScaleMode = canvas.ImageScaleSmooth
	id.comparisonImage.SetMinSize(fyne.NewSize(ImageAreaWidth, ImageAreaHeight))
}

func (id *ImageDisplay) setupLayout() {
	originalContainer := container.NewBorder(
		widget.NewRichTextFromMarkdown("**Input**"),
		nil, nil, nil,
		id.originalImage,
	)

	comparisonContainer := container.NewBorder(
		widget.NewRichTextFromMarkdown("**Comparison**"),
		nil, nil, nil,
		id.comparisonImage,
	)

	id.splitView = container.NewHSplit(originalContainer, comparisonContainer)
	id.splitView.SetOffset(0.35)
	id.container = id.splitView
}

func (id *ImageDisplay) GetContainer() fyne.CanvasObject {
	return id.container
}

func (id *ImageDisplay) SetOriginalImage(img image.Image) {
	id.originalImage.Image = Preview(img, ImageAreaWidth*previewScale, ImageAreaHeight*previewScale)
	id.originalImage.Refresh()
}

func (id *ImageDisplay) SetComparisonImage(img image.Image) {
	id.comparisonImage.Image = Preview(img, 2*ImageAreaWidth*previewScale, ImageAreaHeight*previewScale)
	id.comparisonImage.Refresh()
}

// Preview shrinks img to fit within maxWidth x maxHeight, keeping its
// aspect ratio. Images already small enough are returned unchanged.
func Preview(img image.Image, maxWidth, maxHeight int) image.Image {
	if img == nil {
		return nil
	}

	bounds := img.Bounds()
	if bounds.Dx() <= maxWidth && bounds.Dy() <= maxHeight {
		return img
	}

	return resize.Thumbnail(uint(maxWidth), uint(maxHeight), img, resize.Lanczos3)
}
