package conversion

import (
	"fmt"

	"lowlight-enhancer/internal/opencv/safe"

	"gocv.io/x/gocv"
)

// CvtColorSafe converts src into a freshly allocated Mat.
func CvtColorSafe(src *safe.Mat, code gocv.ColorConversionCode, tag string) (*safe.Mat, error) {
	if err := safe.ValidateColorConversion(src, code); err != nil {
		return nil, fmt.Errorf("color conversion validation failed: %w", err)
	}

	dst := gocv.NewMat()
	gocv.CvtColor(src.GetMat(), &dst, code)

	return safe.Adopt(dst, tag)
}

// SplitChannels returns one single-channel Mat per channel of src.
func SplitChannels(src *safe.Mat) ([]*safe.Mat, error) {
	if err := safe.ValidateMatForOperation(src, "Split"); err != nil {
		return nil, err
	}

	raw := gocv.Split(src.GetMat())
	channels := make([]*safe.Mat, 0, len(raw))
	for i, m := range raw {
		ch, err := safe.Adopt(m, fmt.Sprintf("%s_ch%d", src.Tag(), i))
		if err != nil {
			CloseAll(channels)
			for _, rest := range raw[i+1:] {
				rest.Close()
			}
			return nil, err
		}
		channels = append(channels, ch)
	}

	return channels, nil
}

func MergeChannels(channels []*safe.Mat, tag string) (*safe.Mat, error) {
	mats := make([]gocv.Mat, len(channels))
	for i, ch := range channels {
		if err := safe.ValidateMatForOperation(ch, "Merge"); err != nil {
			return nil, err
		}
		mats[i] = ch.GetMat()
	}

	dst := gocv.NewMat()
	gocv.Merge(mats, &dst)

	return safe.Adopt(dst, tag)
}

func CloseAll(mats []*safe.Mat) {
	for _, m := range mats {
		if m != nil {
			m.Close()
		}
	}
}
