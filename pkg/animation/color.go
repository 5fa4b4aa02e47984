package animation

import "image/color"

// scale8 scales i by scale/256, matching 8-bit LED math.
func scale8(i, scale uint8) uint8 {
	return uint8((uint16(i) * (1 + uint16(scale))) >> 8)
}

// scale8Video scales i by scale/256 but never rounds a non-zero
// input down to zero.
func scale8Video(i, scale uint8) uint8 {
	v := uint8((uint16(i) * uint16(scale)) >> 8)
	if i != 0 && scale != 0 {
		v++
	}
	return v
}

func blend8(a, b, amountOfB uint8) uint8 {
	partial := uint16(a) * (256 - uint16(amountOfB))
	partial += uint16(b) * (uint16(amountOfB) + 1)
	return uint8(partial >> 8)
}

// Blend mixes two colors; amountOfB=0 yields a, amountOfB=255 yields b.
func Blend(a, b color.RGBA, amountOfB uint8) color.RGBA {
	return color.RGBA{
		R: blend8(a.R, b.R, amountOfB),
		G: blend8(a.G, b.G, amountOfB),
		B: blend8(a.B, b.B, amountOfB),
		A: 255,
	}
}

// HSV converts a hue/saturation/value triple to RGB using the rainbow
// hue wheel (even hue spacing with a distinct yellow band, as on the
// device LEDs) rather than the raw spectrum.
func HSV(hue, sat, val uint8) color.RGBA {
	offset8 := (hue & 0x1F) << 3
	third := scale8(offset8, 256/3)

	var r, g, b uint8
	switch hue >> 5 {
	case 0:
		r, g, b = 255-third, third, 0
	case 1:
		r, g, b = 171, 85+third, 0
	case 2:
		twothirds := scale8(offset8, (256*2)/3)
		r, g, b = 171-twothirds, 170+third, 0
	case 3:
		r, g, b = 0, 255-third, third
	case 4:
		twothirds := scale8(offset8, (256*2)/3)
		r, g, b = 0, 171-twothirds, 85+twothirds
	case 5:
		r, g, b = third, 0, 255-third
	case 6:
		r, g, b = 85+third, 0, 171-third
	case 7:
		r, g, b = 170+third, 0, 85-third
	}

	if sat != 255 {
		if sat == 0 {
			r, g, b = 255, 255, 255
		} else {
			desat := 255 - sat
			desat = scale8Video(desat, desat)
			satscale := 255 - desat
			if r != 0 {
				r = scale8(r, satscale) + 1
			}
			if g != 0 {
				g = scale8(g, satscale) + 1
			}
			if b != 0 {
				b = scale8(b, satscale) + 1
			}
			r += desat
			g += desat
			b += desat
		}
	}

	if val != 255 {
		val = scale8Video(val, val)
		if val == 0 {
			r, g, b = 0, 0, 0
		} else {
			if r != 0 {
				r = scale8(r, val) + 1
			}
			if g != 0 {
				g = scale8(g, val) + 1
			}
			if b != 0 {
				b = scale8(b, val) + 1
			}
		}
	}

	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// FillSolid sets every pixel in buf to c.
func FillSolid(buf []color.RGBA, c color.RGBA) {
	for i := range buf {
		buf[i] = c
	}
}

// FillRainbow fills buf with a hue sweep starting at startHue and
// advancing deltaHue per pixel, wrapping modulo 256.
func FillRainbow(buf []color.RGBA, startHue, deltaHue uint8) {
	hue := startHue
	for i := range buf {
		buf[i] = HSV(hue, 240, 255)
		hue += deltaHue
	}
}
