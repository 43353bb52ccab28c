// Package roi locates the printed label inside a frame and corrects in-plane
// rotation before the enhancement pipelines run.
package roi

import (
	"image"

	"github.com/MeKo-Tech/labelscan/internal/enhance"
	"github.com/MeKo-Tech/labelscan/internal/pixbuf"
)

// Params holds the tuning constants of ROI extraction and skew estimation.
type Params struct {
	// MaxSide caps the longest side of the downsampled analysis image.
	MaxSide int

	// RowThreshold and ColThreshold are the fractions of the per-axis peak
	// edge energy below which border rows/columns are considered empty.
	RowThreshold float64
	ColThreshold float64

	// PadX and PadY expand the found box to avoid clipping characters.
	PadX float64
	PadY float64

	// Skew search range in degrees.
	SkewMinDeg  float64
	SkewMaxDeg  float64
	SkewStepDeg float64
}

// DefaultParams returns the tuned ROI defaults.
func DefaultParams() Params {
	return Params{
		MaxSide:      360,
		RowThreshold: 0.45,
		ColThreshold: 0.35,
		PadX:         0.08,
		PadY:         0.18,
		SkewMinDeg:   -12,
		SkewMaxDeg:   12,
		SkewStepDeg:  2,
	}
}

// AutoCropLabel finds the densest contiguous region of horizontal edge
// activity (the printed label) and returns the corresponding crop of the
// full-resolution source together with the source-coordinate rectangle.
//
// The search runs on a downsampled copy for speed; the returned crop is taken
// from the original buffer.
func AutoCropLabel(src *pixbuf.Gray, p Params) (*pixbuf.Gray, image.Rectangle) {
	if src.Width == 0 || src.Height == 0 {
		return src.Clone(), image.Rectangle{}
	}
	small, scale := downsample(src, p.MaxSide)
	edges := enhance.SobelMagnitudeX(small)

	rowSums := make([]float64, small.Height)
	colSums := make([]float64, small.Width)
	for y := 0; y < small.Height; y++ {
		for x := 0; x < small.Width; x++ {
			v := float64(edges.Pix[y*small.Width+x])
			rowSums[y] += v
			colSums[x] += v
		}
	}

	top, bottom := walkInward(rowSums, p.RowThreshold)
	left, right := walkInward(colSums, p.ColThreshold)

	// Pad the box, then clamp to the analysis bounds.
	padX := int(float64(right-left+1) * p.PadX)
	padY := int(float64(bottom-top+1) * p.PadY)
	box := image.Rect(left-padX, top-padY, right+1+padX, bottom+1+padY)
	box = pixbuf.ClampRect(box, small.Width, small.Height)

	// Map back to full-resolution source coordinates.
	full := image.Rect(
		int(float64(box.Min.X)/scale),
		int(float64(box.Min.Y)/scale),
		int(float64(box.Max.X)/scale),
		int(float64(box.Max.Y)/scale),
	)
	full = pixbuf.ClampRect(full, src.Width, src.Height)
	if full.Empty() {
		return src.Clone(), src.Bounds()
	}
	return src.Crop(full), full
}

// walkInward advances from both ends of an energy profile while the energy
// stays below threshold*peak, returning the first and last retained indices.
func walkInward(sums []float64, threshold float64) (int, int) {
	peak := 0.0
	for _, s := range sums {
		if s > peak {
			peak = s
		}
	}
	cutoff := peak * threshold
	lo, hi := 0, len(sums)-1
	for lo < hi && sums[lo] < cutoff {
		lo++
	}
	for hi > lo && sums[hi] < cutoff {
		hi--
	}
	return lo, hi
}

// downsample reduces the buffer with nearest sampling so its longest side is
// at most maxSide, returning the scale factor applied (<= 1).
func downsample(src *pixbuf.Gray, maxSide int) (*pixbuf.Gray, float64) {
	longest := src.Width
	if src.Height > longest {
		longest = src.Height
	}
	if maxSide <= 0 || longest <= maxSide {
		return src, 1
	}
	scale := float64(maxSide) / float64(longest)
	w := int(float64(src.Width) * scale)
	h := int(float64(src.Height) * scale)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	out := pixbuf.NewGray(w, h)
	for y := 0; y < h; y++ {
		sy := int(float64(y) / scale)
		if sy >= src.Height {
			sy = src.Height - 1
		}
		for x := 0; x < w; x++ {
			sx := int(float64(x) / scale)
			if sx >= src.Width {
				sx = src.Width - 1
			}
			out.Pix[y*w+x] = src.Pix[sy*src.Width+sx]
		}
	}
	return out, scale
}
