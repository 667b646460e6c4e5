package compose

import (
	"fmt"
	"image"
	"sync"

	"lowlight-enhancer/internal/raster"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	LabelFontSize = 28
	LabelBaseline = 40
	LabelPadding  = 10
)

var labelFont = sync.OnceValues(func() (*opentype.Font, error) {
	return opentype.Parse(gobold.TTF)
})

// newLabelFace returns a fresh face; faces hold glyph buffers and must not
// be shared between goroutines.
func newLabelFace() (font.Face, error) {
	f, err := labelFont()
	if err != nil {
		return nil, fmt.Errorf("parse label font: %w", err)
	}
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    LabelFontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

type labelBox struct {
	text   string
	x      int
	width  int
	height int
	bounds fixed.Rectangle26_6
}

func measureLabel(face font.Face, text string) labelBox {
	bounds, advance := font.BoundString(face, text)
	return labelBox{
		text:   text,
		width:  advance.Ceil(),
		height: max((-bounds.Min.Y).Ceil(), 0),
		bounds: bounds,
	}
}

// box is the filled rectangle behind the text, inclusive of its far edges.
func (lb labelBox) box() image.Rectangle {
	return image.Rect(
		lb.x,
		LabelBaseline-lb.height-LabelPadding,
		lb.x+lb.width+2*LabelPadding+1,
		LabelBaseline+1,
	)
}

func (lb labelBox) dot() fixed.Point26_6 {
	return fixed.P(lb.x+LabelPadding, LabelBaseline-LabelPadding/2)
}

// drawLabel fills the label box with black and renders white text over it.
func drawLabel(canvas *raster.Image, face font.Face, lb labelBox) {
	bounds := canvas.Bounds()
	box := lb.box().Intersect(bounds)
	for y := box.Min.Y; y < box.Max.Y; y++ {
		for x := box.Min.X; x < box.Max.X; x++ {
			canvas.Set(x, y, 0, 0, 0)
		}
	}

	dot := lb.dot()
	glyphs := image.Rect(
		(dot.X+lb.bounds.Min.X).Floor(),
		(dot.Y+lb.bounds.Min.Y).Floor(),
		(dot.X+lb.bounds.Max.X).Ceil(),
		(dot.Y+lb.bounds.Max.Y).Ceil(),
	).Intersect(bounds)
	if glyphs.Empty() {
		return
	}

	mask := image.NewAlpha(glyphs)
	d := font.Drawer{Dst: mask, Src: image.Opaque, Face: face, Dot: dot}
	d.DrawString(lb.text)

	for y := glyphs.Min.Y; y < glyphs.Max.Y; y++ {
		for x := glyphs.Min.X; x < glyphs.Max.X; x++ {
			a := uint32(mask.AlphaAt(x, y).A)
			if a == 0 {
				continue
			}
			r, g, b := canvas.At(x, y)
			canvas.Set(x, y, over(r, a), over(g, a), over(b, a))
		}
	}
}

// over composites white with coverage a (0..255) on top of v.
func over(v uint8, a uint32) uint8 {
	return uint8((uint32(v)*(255-a) + 255*a + 127) / 255)
}
