package enhance

import (
	"github.com/MeKo-Tech/labelscan/internal/pixbuf"
)

// Median3x3 applies a 3x3 neighborhood median filter and returns a new
// buffer. Border neighborhoods replicate the nearest edge sample. The output
// pixel is the 5th of the 9 sorted samples.
func Median3x3(src *pixbuf.Gray) *pixbuf.Gray {
	w, h := src.Width, src.Height
	out := pixbuf.NewGray(w, h)
	if w == 0 || h == 0 {
		return out
	}
	var win [9]float32
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			k := 0
			for dy := -1; dy <= 1; dy++ {
				sy := clampIndex(y+dy, h)
				for dx := -1; dx <= 1; dx++ {
					win[k] = src.Pix[sy*w+clampIndex(x+dx, w)]
					k++
				}
			}
			out.Pix[y*w+x] = median9(win)
		}
	}
	return out
}

// median9 sorts a fixed 9-element window with insertion sort and returns the
// middle element. Insertion sort beats sort.Slice here by a wide margin.
func median9(v [9]float32) float32 {
	for i := 1; i < len(v); i++ {
		x := v[i]
		j := i - 1
		for j >= 0 && v[j] > x {
			v[j+1] = v[j]
			j--
		}
		v[j+1] = x
	}
	return v[4]
}
