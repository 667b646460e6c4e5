package raster

import (
	"fmt"
	"image"
	"image/draw"
)

// Channels is the fixed channel count of every Image.
const Channels = 3

// Image is an interleaved 8-bit, 3-channel raster. Stages never modify an
// Image they receive; they allocate a new one.
type Image struct {
	Width  int
	Height int
	Space  Space
	Pix    []uint8
}

func New(width, height int, space Space) (*Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: dimensions %dx%d", ErrInvalidImage, width, height)
	}
	if !space.Valid() {
		return nil, fmt.Errorf("%w: unknown space %v", ErrUnsupportedConversion, space)
	}

	return &Image{
		Width:  width,
		Height: height,
		Space:  space,
		Pix:    make([]uint8, width*height*Channels),
	}, nil
}

// FromPix wraps a copy of pix after checking it matches the dimensions.
func FromPix(width, height int, space Space, pix []uint8) (*Image, error) {
	img := &Image{Width: width, Height: height, Space: space, Pix: pix}
	if err := img.Validate(); err != nil {
		return nil, err
	}

	out := &Image{Width: width, Height: height, Space: space, Pix: make([]uint8, len(pix))}
	copy(out.Pix, pix)
	return out, nil
}

// FromImage converts any decoded image into an RGB raster, dropping alpha.
func FromImage(src image.Image) (*Image, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: nil source image", ErrInvalidImage)
	}

	bounds := src.Bounds()
	out, err := New(bounds.Dx(), bounds.Dy(), SpaceRGB)
	if err != nil {
		return nil, err
	}

	switch typed := src.(type) {
	case *image.RGBA:
		out.copyFrom4(typed.Pix, typed.Stride, bounds.Min.X-typed.Rect.Min.X, bounds.Min.Y-typed.Rect.Min.Y)
	case *image.NRGBA:
		out.copyFrom4(typed.Pix, typed.Stride, bounds.Min.X-typed.Rect.Min.X, bounds.Min.Y-typed.Rect.Min.Y)
	default:
		nrgba := image.NewNRGBA(image.Rect(0, 0, out.Width, out.Height))
		draw.Draw(nrgba, nrgba.Bounds(), src, bounds.Min, draw.Src)
		out.copyFrom4(nrgba.Pix, nrgba.Stride, 0, 0)
	}

	return out, nil
}

func (img *Image) copyFrom4(pix []uint8, stride, offX, offY int) {
	for y := 0; y < img.Height; y++ {
		row := pix[(y+offY)*stride+offX*4:]
		dst := img.Pix[y*img.Width*Channels:]
		for x := 0; x < img.Width; x++ {
			dst[x*3] = row[x*4]
			dst[x*3+1] = row[x*4+1]
			dst[x*3+2] = row[x*4+2]
		}
	}
}

func (img *Image) Validate() error {
	if img == nil {
		return fmt.Errorf("%w: nil image", ErrInvalidImage)
	}
	if img.Width <= 0 || img.Height <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d", ErrInvalidImage, img.Width, img.Height)
	}
	if len(img.Pix) == 0 {
		return fmt.Errorf("%w: empty pixel buffer", ErrInvalidImage)
	}
	if want := img.Width * img.Height * Channels; len(img.Pix) != want {
		return fmt.Errorf("%w: buffer length %d, want %d for %dx%dx%d",
			ErrInvalidImage, len(img.Pix), want, img.Width, img.Height, Channels)
	}
	return nil
}

// ValidateSpace checks the image and that it is tagged with want.
func (img *Image) ValidateSpace(want Space) error {
	if err := img.Validate(); err != nil {
		return err
	}
	if img.Space != want {
		return fmt.Errorf("%w: image is %v, expected %v", ErrUnsupportedConversion, img.Space, want)
	}
	return nil
}

func (img *Image) Clone() *Image {
	out := &Image{Width: img.Width, Height: img.Height, Space: img.Space, Pix: make([]uint8, len(img.Pix))}
	copy(out.Pix, img.Pix)
	return out
}

func (img *Image) Offset(x, y int) int {
	return (y*img.Width + x) * Channels
}

func (img *Image) At(x, y int) (uint8, uint8, uint8) {
	i := img.Offset(x, y)
	return img.Pix[i], img.Pix[i+1], img.Pix[i+2]
}

func (img *Image) Set(x, y int, c0, c1, c2 uint8) {
	i := img.Offset(x, y)
	img.Pix[i] = c0
	img.Pix[i+1] = c1
	img.Pix[i+2] = c2
}

func (img *Image) Bounds() image.Rectangle {
	return image.Rect(0, 0, img.Width, img.Height)
}

// ToNRGBA exports an RGB (or BGR) raster as an opaque standard library image.
func (img *Image) ToNRGBA() (*image.NRGBA, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}

	r, b := 0, 2
	switch img.Space {
	case SpaceRGB:
	case SpaceBGR:
		r, b = 2, 0
	default:
		return nil, fmt.Errorf("%w: cannot export %v as NRGBA", ErrUnsupportedConversion, img.Space)
	}

	out := image.NewNRGBA(img.Bounds())
	for y := 0; y < img.Height; y++ {
		src := img.Pix[y*img.Width*Channels:]
		dst := out.Pix[y*out.Stride:]
		for x := 0; x < img.Width; x++ {
			dst[x*4] = src[x*3+r]
			dst[x*4+1] = src[x*3+1]
			dst[x*4+2] = src[x*3+b]
			dst[x*4+3] = 0xff
		}
	}

	return out, nil
}
