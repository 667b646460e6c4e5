package colorspace

import "math"

// 8-bit Lab encoding: L* scaled by 255/100, a* and b* offset by 128.
// sRGB primaries with a D65 white point.

const (
	whiteX = 0.950456
	whiteZ = 1.088754

	labEpsilon = 0.008856
	labKappa   = 903.3
)

var srgbToLinear = func() [256]float64 {
	var table [256]float64
	for i := range table {
		c := float64(i) / 255
		if c <= 0.04045 {
			table[i] = c / 12.92
		} else {
			table[i] = math.Pow((c+0.055)/1.055, 2.4)
		}
	}
	return table
}()

func linearToSRGB(c float64) float64 {
	c = math.Max(0, math.Min(1, c))
	if c <= 0.0031308 {
		return 12.92 * c
	}
	return 1.055*math.Pow(c, 1/2.4) - 0.055
}

func labCompress(t float64) float64 {
	if t > labEpsilon {
		return math.Pow(t, 1.0/3.0)
	}
	return 7.787*t + 16.0/116.0
}

func labUncompress(ft float64) float64 {
	if ft3 := ft * ft * ft; ft3 > labEpsilon {
		return ft3
	}
	return (ft - 16.0/116.0) / 7.787
}

func rgbToLab(r, g, b uint8) (uint8, uint8, uint8) {
	rl, gl, bl := srgbToLinear[r], srgbToLinear[g], srgbToLinear[b]

	x := (0.412453*rl + 0.357580*gl + 0.180423*bl) / whiteX
	y := 0.212671*rl + 0.715160*gl + 0.072169*bl
	z := (0.019334*rl + 0.119193*gl + 0.950227*bl) / whiteZ

	fx, fy, fz := labCompress(x), labCompress(y), labCompress(z)

	var l float64
	if y > labEpsilon {
		l = 116*fy - 16
	} else {
		l = labKappa * y
	}

	return toByte(l * 255 / 100), toByte(500*(fx-fy) + 128), toByte(200*(fy-fz) + 128)
}

func labToRGB(lb, ab, bb uint8) (uint8, uint8, uint8) {
	l := float64(lb) * 100 / 255
	a := float64(ab) - 128
	b := float64(bb) - 128

	fy := (l + 16) / 116
	var y float64
	if l > labKappa*labEpsilon {
		y = fy * fy * fy
	} else {
		y = l / labKappa
	}

	x := labUncompress(fy+a/500) * whiteX
	z := labUncompress(fy-b/200) * whiteZ

	r := 3.240479*x - 1.53715*y - 0.498535*z
	g := -0.969256*x + 1.875991*y + 0.041556*z
	bl := 0.055648*x - 0.204043*y + 1.057311*z

	return toByte(linearToSRGB(r) * 255), toByte(linearToSRGB(g) * 255), toByte(linearToSRGB(bl) * 255)
}
