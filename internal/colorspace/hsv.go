package colorspace

import "math"

// HSV uses the full byte range for every channel: hue degrees are scaled
// by 256/360 and wrap, saturation is scaled to 255, value is max(R,G,B).

func rgbToHSV(r, g, b uint8) (uint8, uint8, uint8) {
	v := max(r, g, b)
	m := min(r, g, b)
	d := float64(v) - float64(m)

	if v == 0 || d == 0 {
		return 0, 0, v
	}

	s := 255 * d / float64(v)

	var h float64
	rf, gf, bf := float64(r), float64(g), float64(b)
	switch v {
	case r:
		h = 60 * (gf - bf) / d
	case g:
		h = 120 + 60*(bf-rf)/d
	default:
		h = 240 + 60*(rf-gf)/d
	}
	if h < 0 {
		h += 360
	}

	hb := int(math.Floor(h*256/360+0.5)) % 256
	return uint8(hb), toByte(s), v
}

func hsvToRGB(hb, sb, vb uint8) (uint8, uint8, uint8) {
	if sb == 0 {
		return vb, vb, vb
	}

	h := float64(hb) * 360 / 256 / 60
	s := float64(sb) / 255
	v := float64(vb)

	sector := math.Floor(h)
	f := h - sector
	p := v * (1 - s)
	q := v * (1 - s*f)
	t := v * (1 - s*(1-f))

	var r, g, b float64
	switch int(sector) % 6 {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	default:
		r, g, b = v, p, q
	}

	return toByte(r), toByte(g), toByte(b)
}
