package enhance

import (
	"github.com/MeKo-Tech/labelscan/internal/pixbuf"
)

// ToGrayscale converts an RGBA buffer to a grayscale buffer using the
// ITU-R BT.601 luma weights (0.299 R + 0.587 G + 0.114 B).
func ToGrayscale(src *pixbuf.RGBA) *pixbuf.Gray {
	out := pixbuf.NewGray(src.Width, src.Height)
	for i, j := 0, 0; j < len(out.Pix); i, j = i+4, j+1 {
		r := float32(src.Pix[i])
		g := float32(src.Pix[i+1])
		b := float32(src.Pix[i+2])
		out.Pix[j] = 0.299*r + 0.587*g + 0.114*b
	}
	return out
}

func clamp255(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
