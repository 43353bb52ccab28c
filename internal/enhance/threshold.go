package enhance

import (
	"github.com/MeKo-Tech/labelscan/internal/pixbuf"
)

// OtsuThreshold computes the binarization cutoff that maximizes between-class
// variance over the 256-bin histogram. Ties keep the first maximal split
// found scanning ascending. The returned cutoff is one above the last
// background bin, so Binarize's at-or-above rule sends the background class
// to black and the cutoff sits strictly between the modes of a bimodal
// image.
func OtsuThreshold(src *pixbuf.Gray) uint8 {
	total := len(src.Pix)
	if total == 0 {
		return 0
	}
	hist := histogram256(src)

	var sumAll float64
	for i, c := range hist {
		sumAll += float64(i) * float64(c)
	}

	var sumBg, weightBg float64
	bestThresh := -1
	bestVar := -1.0
	for t := 0; t < histogramBins; t++ {
		weightBg += float64(hist[t])
		if weightBg == 0 {
			continue
		}
		weightFg := float64(total) - weightBg
		if weightFg == 0 {
			break
		}
		sumBg += float64(t) * float64(hist[t])
		meanBg := sumBg / weightBg
		meanFg := (sumAll - sumBg) / weightFg
		d := meanBg - meanFg
		between := weightBg * weightFg * d * d
		if between > bestVar {
			bestVar = between
			bestThresh = t
		}
	}
	// bestThresh is the last bin of the background class; the loop breaks
	// before the final populated bin, so the increment cannot overflow.
	return uint8(bestThresh + 1)
}

// Binarize sets every sample at or above the threshold to 255 and the rest
// to 0, in place. A nil threshold means the buffer's own Otsu threshold.
func Binarize(dst *pixbuf.Gray, threshold *uint8) {
	var t float32
	if threshold != nil {
		t = float32(*threshold)
	} else {
		t = float32(OtsuThreshold(dst))
	}
	for i, v := range dst.Pix {
		if v >= t {
			dst.Pix[i] = 255
		} else {
			dst.Pix[i] = 0
		}
	}
}
