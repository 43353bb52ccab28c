package enhance

import (
	"math"

	"github.com/MeKo-Tech/labelscan/internal/pixbuf"
)

// Rotate rotates the buffer about its center by angleDegrees (counter-
// clockwise for positive angles) using bilinear resampling. The output keeps
// the input dimensions; areas exposed by the rotation are filled with fill.
//
// The fixed canvas is deliberate: downstream row/column statistics depend on
// the crop geometry staying put, which rules out the auto-expanding canvas of
// the imaging package's Rotate.
func Rotate(src *pixbuf.Gray, angleDegrees float64, fill float32) *pixbuf.Gray {
	w, h := src.Width, src.Height
	out := pixbuf.NewGray(w, h)
	if w == 0 || h == 0 {
		return out
	}
	if angleDegrees == 0 {
		copy(out.Pix, src.Pix)
		return out
	}

	rad := angleDegrees * math.Pi / 180
	sin, cos := math.Sincos(rad)
	cx := float64(w-1) / 2
	cy := float64(h-1) / 2

	for y := 0; y < h; y++ {
		dy := float64(y) - cy
		for x := 0; x < w; x++ {
			dx := float64(x) - cx
			// Inverse mapping: rotate the destination coordinate back into
			// the source frame.
			sx := cx + dx*cos + dy*sin
			sy := cy - dx*sin + dy*cos
			out.Pix[y*w+x] = sampleBilinear(src, sx, sy, fill)
		}
	}
	return out
}

func sampleBilinear(src *pixbuf.Gray, x, y float64, fill float32) float32 {
	x0 := int(math.Floor(x))
	y0 := int(math.Floor(y))
	if x0 < -1 || y0 < -1 || x0 >= src.Width || y0 >= src.Height {
		return fill
	}
	fx := float32(x - float64(x0))
	fy := float32(y - float64(y0))

	get := func(ix, iy int) float32 {
		if ix < 0 || iy < 0 || ix >= src.Width || iy >= src.Height {
			return fill
		}
		return src.Pix[iy*src.Width+ix]
	}
	top := get(x0, y0)*(1-fx) + get(x0+1, y0)*fx
	bottom := get(x0, y0+1)*(1-fx) + get(x0+1, y0+1)*fx
	return top*(1-fy) + bottom*fy
}
