package enhance

import (
	"github.com/MeKo-Tech/labelscan/internal/pixbuf"
)

// SobelMagnitudeX returns the absolute response of the horizontal Sobel
// kernel. The outer one-pixel ring is left at 0; there is no wraparound.
func SobelMagnitudeX(src *pixbuf.Gray) *pixbuf.Gray {
	w, h := src.Width, src.Height
	out := pixbuf.NewGray(w, h)
	if w < 3 || h < 3 {
		return out
	}
	for y := 1; y < h-1; y++ {
		up := src.Pix[(y-1)*w:]
		mid := src.Pix[y*w:]
		down := src.Pix[(y+1)*w:]
		dst := out.Pix[y*w:]
		for x := 1; x < w-1; x++ {
			// Kernel: [-1 0 1; -2 0 2; -1 0 1]
			gx := -up[x-1] + up[x+1] - 2*mid[x-1] + 2*mid[x+1] - down[x-1] + down[x+1]
			if gx < 0 {
				gx = -gx
			}
			dst[x] = gx
		}
	}
	return out
}
