package enhance

import (
	"github.com/MeKo-Tech/labelscan/internal/pixbuf"
)

const (
	glareLumaMin    = 228 // near-white
	glareChromaSpan = 35  // low saturation
	glareBlurRadius = 7
	glareFloorLift  = 10
)

// Deglare suppresses specular highlights in place. Near-white, low-saturation
// pixels are pulled down toward a heavily blurred luma reference plus a small
// lift; brightness is never increased.
func Deglare(dst *pixbuf.RGBA) {
	luma := ToGrayscale(dst)
	blurred := BoxBlur(luma, glareBlurRadius)
	for i, j := 0, 0; i < len(dst.Pix); i, j = i+4, j+1 {
		r := dst.Pix[i]
		g := dst.Pix[i+1]
		b := dst.Pix[i+2]
		if luma.Pix[j] <= glareLumaMin {
			continue
		}
		if int(max3(r, g, b))-int(min3(r, g, b)) >= glareChromaSpan {
			continue
		}
		target := blurred.Pix[j] + glareFloorLift
		dst.Pix[i] = pullDown(r, target)
		dst.Pix[i+1] = pullDown(g, target)
		dst.Pix[i+2] = pullDown(b, target)
	}
}

// Invert replaces each RGB channel with 255-channel in place, leaving alpha
// untouched.
func Invert(dst *pixbuf.RGBA) {
	for i := 0; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 255 - dst.Pix[i]
		dst.Pix[i+1] = 255 - dst.Pix[i+1]
		dst.Pix[i+2] = 255 - dst.Pix[i+2]
	}
}

// InvertGray replaces each sample with 255-sample in place.
func InvertGray(dst *pixbuf.Gray) {
	for i, v := range dst.Pix {
		dst.Pix[i] = 255 - v
	}
}

func pullDown(v uint8, target float32) uint8 {
	if float32(v) <= target {
		return v
	}
	if target < 0 {
		return 0
	}
	if target > 255 {
		return 255
	}
	return uint8(target)
}

func max3(a, b, c uint8) uint8 {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}

func min3(a, b, c uint8) uint8 {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
