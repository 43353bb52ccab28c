package enhance

import (
	"github.com/MeKo-Tech/labelscan/internal/pixbuf"
)

// UnsharpMask sharpens by adding back the difference between the source and a
// box-blurred copy: out = clamp(src + (src - blur(src, radius)) * amount).
func UnsharpMask(src *pixbuf.Gray, radius int, amount float32) *pixbuf.Gray {
	blurred := BoxBlur(src, radius)
	out := pixbuf.NewGray(src.Width, src.Height)
	for i := range src.Pix {
		out.Pix[i] = clamp255(src.Pix[i] + (src.Pix[i]-blurred.Pix[i])*amount)
	}
	return out
}

// DirectionalSharpenVertical emphasizes vertical edges, which is what a 1-D
// barcode's bars produce: out = clamp(center*(1+2*strength) - (left+right)*strength).
// Horizontal neighbors replicate at the left and right borders.
func DirectionalSharpenVertical(src *pixbuf.Gray, strength float32) *pixbuf.Gray {
	w, h := src.Width, src.Height
	out := pixbuf.NewGray(w, h)
	center := 1 + 2*strength
	for y := 0; y < h; y++ {
		row := src.Pix[y*w : (y+1)*w]
		dst := out.Pix[y*w : (y+1)*w]
		for x := 0; x < w; x++ {
			left := row[clampIndex(x-1, w)]
			right := row[clampIndex(x+1, w)]
			dst[x] = clamp255(row[x]*center - (left+right)*strength)
		}
	}
	return out
}
