package roi

import (
	"github.com/MeKo-Tech/labelscan/internal/enhance"
	"github.com/MeKo-Tech/labelscan/internal/pixbuf"
)

// EstimateBestSkewAngle searches a small discrete angle set for the in-plane
// tilt of the crop, scoring each candidate by the variance of per-column
// Sobel-X energy after the corrective (negated) rotation.
//
// Correctly deskewed vertical bars concentrate edge energy in some columns
// and leave others empty, so column-to-column variance peaks at the true
// angle; a skewed or blurred image spreads the energy uniformly. Ties keep
// the first (most negative) candidate.
func EstimateBestSkewAngle(src *pixbuf.Gray, p Params) float64 {
	small, _ := downsample(src, p.MaxSide)
	fill := meanSample(small)

	bestAngle := p.SkewMinDeg
	bestScore := -1.0
	step := p.SkewStepDeg
	if step <= 0 {
		step = 2
	}
	for angle := p.SkewMinDeg; angle <= p.SkewMaxDeg+1e-9; angle += step {
		rotated := enhance.Rotate(small, -angle, fill)
		score := columnVariance(enhance.SobelMagnitudeX(rotated))
		if score > bestScore {
			bestScore = score
			bestAngle = angle
		}
	}
	return bestAngle
}

// Deskew straightens the crop by applying the negated best skew angle and
// returns the rotated buffer together with the estimated angle.
func Deskew(src *pixbuf.Gray, p Params) (*pixbuf.Gray, float64) {
	angle := EstimateBestSkewAngle(src, p)
	if angle == 0 {
		return src.Clone(), 0
	}
	return enhance.Rotate(src, -angle, meanSample(src)), angle
}

func columnVariance(edges *pixbuf.Gray) float64 {
	if edges.Width == 0 {
		return 0
	}
	sums := make([]float64, edges.Width)
	for y := 0; y < edges.Height; y++ {
		for x := 0; x < edges.Width; x++ {
			sums[x] += float64(edges.Pix[y*edges.Width+x])
		}
	}
	mean := 0.0
	for _, s := range sums {
		mean += s
	}
	mean /= float64(len(sums))
	variance := 0.0
	for _, s := range sums {
		d := s - mean
		variance += d * d
	}
	return variance / float64(len(sums))
}

func meanSample(g *pixbuf.Gray) float32 {
	if len(g.Pix) == 0 {
		return 0
	}
	var sum float64
	for _, v := range g.Pix {
		sum += float64(v)
	}
	return float32(sum / float64(len(g.Pix)))
}
