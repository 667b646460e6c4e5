package raster

import "fmt"

// Space tags the meaning of the three channels of an Image.
type Space int

const (
	SpaceUnknown Space = iota
	SpaceRGB
	SpaceBGR
	SpaceLab
	SpaceHSV
)

func (s Space) String() string {
	switch s {
	case SpaceRGB:
		return "RGB"
	case SpaceBGR:
		return "BGR"
	case SpaceLab:
		return "Lab"
	case SpaceHSV:
		return "HSV"
	default:
		return fmt.Sprintf("Space(%d)", int(s))
	}
}

func (s Space) Valid() bool {
	return s >= SpaceRGB && s <= SpaceHSV
}
