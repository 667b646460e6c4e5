package raster

import "fmt"

// Plane is a single 8-bit channel, row-major.
type Plane struct {
	Width  int
	Height int
	Pix    []uint8
}

func NewPlane(width, height int) (*Plane, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: plane dimensions %dx%d", ErrInvalidImage, width, height)
	}
	return &Plane{Width: width, Height: height, Pix: make([]uint8, width*height)}, nil
}

func (p *Plane) Validate() error {
	if p == nil {
		return fmt.Errorf("%w: nil plane", ErrInvalidImage)
	}
	if p.Width <= 0 || p.Height <= 0 || len(p.Pix) != p.Width*p.Height {
		return fmt.Errorf("%w: plane %dx%d with %d samples", ErrInvalidImage, p.Width, p.Height, len(p.Pix))
	}
	return nil
}

// Split returns the three channels of img as independent planes.
func (img *Image) Split() ([Channels]*Plane, error) {
	var planes [Channels]*Plane
	if err := img.Validate(); err != nil {
		return planes, err
	}

	n := img.Width * img.Height
	for c := range planes {
		planes[c] = &Plane{Width: img.Width, Height: img.Height, Pix: make([]uint8, n)}
	}
	for i := 0; i < n; i++ {
		planes[0].Pix[i] = img.Pix[i*3]
		planes[1].Pix[i] = img.Pix[i*3+1]
		planes[2].Pix[i] = img.Pix[i*3+2]
	}

	return planes, nil
}

// Merge interleaves three equally sized planes into a new Image tagged space.
func Merge(planes [Channels]*Plane, space Space) (*Image, error) {
	for c, p := range planes {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("channel %d: %w", c, err)
		}
		if p.Width != planes[0].Width || p.Height != planes[0].Height {
			return nil, fmt.Errorf("%w: channel %d is %dx%d, channel 0 is %dx%d",
				ErrInvalidImage, c, p.Width, p.Height, planes[0].Width, planes[0].Height)
		}
	}

	out, err := New(planes[0].Width, planes[0].Height, space)
	if err != nil {
		return nil, err
	}

	for i := range planes[0].Pix {
		out.Pix[i*3] = planes[0].Pix[i]
		out.Pix[i*3+1] = planes[1].Pix[i]
		out.Pix[i*3+2] = planes[2].Pix[i]
	}

	return out, nil
}
