package enhance

import (
	"github.com/MeKo-Tech/labelscan/internal/mempool"
	"github.com/MeKo-Tech/labelscan/internal/pixbuf"
)

// BoxBlur applies a separable mean filter with the given radius and returns a
// new buffer. Borders replicate the edge sample. A radius <= 0 returns an
// identical copy. The sliding-window implementation keeps total work at
// O(width*height) independent of the radius.
func BoxBlur(src *pixbuf.Gray, radius int) *pixbuf.Gray {
	if radius <= 0 {
		return src.Clone()
	}
	w, h := src.Width, src.Height
	out := pixbuf.NewGray(w, h)
	if w == 0 || h == 0 {
		return out
	}

	tmp := mempool.GetFloat32(w * h)
	defer mempool.PutFloat32(tmp)

	// Horizontal pass: src -> tmp.
	norm := float32(2*radius + 1)
	for y := 0; y < h; y++ {
		row := src.Pix[y*w : (y+1)*w]
		var sum float32
		for i := -radius; i <= radius; i++ {
			sum += row[clampIndex(i, w)]
		}
		dst := tmp[y*w : (y+1)*w]
		for x := 0; x < w; x++ {
			dst[x] = sum / norm
			sum += row[clampIndex(x+radius+1, w)] - row[clampIndex(x-radius, w)]
		}
	}

	// Vertical pass: tmp -> out.
	for x := 0; x < w; x++ {
		var sum float32
		for i := -radius; i <= radius; i++ {
			sum += tmp[clampIndex(i, h)*w+x]
		}
		for y := 0; y < h; y++ {
			out.Pix[y*w+x] = sum / norm
			sum += tmp[clampIndex(y+radius+1, h)*w+x] - tmp[clampIndex(y-radius, h)*w+x]
		}
	}
	return out
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
