package enhance

import (
	"github.com/MeKo-Tech/labelscan/internal/pixbuf"
)

const histogramBins = 256

// histogram256 bins the buffer into 256 intensity buckets, clamping samples
// outside [0,255].
func histogram256(src *pixbuf.Gray) [histogramBins]int {
	var hist [histogramBins]int
	for _, v := range src.Pix {
		b := int(v)
		if b < 0 {
			b = 0
		} else if b > 255 {
			b = 255
		}
		hist[b]++
	}
	return hist
}

// HistogramStretch linearly remaps the intensity band [a,b] to [0,255],
// where a is the smallest intensity whose cumulative share reaches lowPct of
// all pixels and b the smallest reaching highPct. A flat image degenerates to
// a denominator of 1 and passes through unchanged except for clamping.
func HistogramStretch(src *pixbuf.Gray, lowPct, highPct float64) *pixbuf.Gray {
	out := pixbuf.NewGray(src.Width, src.Height)
	total := len(src.Pix)
	if total == 0 {
		return out
	}
	hist := histogram256(src)

	lowCount := int(lowPct * float64(total))
	highCount := int(highPct * float64(total))
	a, b := 0, 255
	cum := 0
	for i := 0; i < histogramBins; i++ {
		cum += hist[i]
		if cum >= lowCount {
			a = i
			break
		}
	}
	cum = 0
	for i := 0; i < histogramBins; i++ {
		cum += hist[i]
		if cum >= highCount {
			b = i
			break
		}
	}
	den := float32(b - a)
	if den < 1 {
		den = 1
	}
	fa := float32(a)
	for i, v := range src.Pix {
		out.Pix[i] = clamp255((v - fa) * 255 / den)
	}
	return out
}

// HistogramEqualize applies classic CDF-based histogram equalization. The
// mapping is monotonic non-decreasing; near-uniform images are guarded by a
// denominator floor of 1.
func HistogramEqualize(src *pixbuf.Gray) *pixbuf.Gray {
	out := pixbuf.NewGray(src.Width, src.Height)
	total := len(src.Pix)
	if total == 0 {
		return out
	}
	hist := histogram256(src)

	var cdf [histogramBins]int
	cum := 0
	for i, c := range hist {
		cum += c
		cdf[i] = cum
	}
	cdfMin := 0
	for _, c := range cdf {
		if c > 0 {
			cdfMin = c
			break
		}
	}
	den := total - cdfMin
	if den <= 0 {
		den = 1
	}

	var lut [histogramBins]float32
	for i := 0; i < histogramBins; i++ {
		lut[i] = float32(cdf[i]-cdfMin) * 255 / float32(den)
		if lut[i] < 0 {
			lut[i] = 0
		}
	}
	for i, v := range src.Pix {
		b := int(v)
		if b < 0 {
			b = 0
		} else if b > 255 {
			b = 255
		}
		out.Pix[i] = lut[b]
	}
	return out
}
