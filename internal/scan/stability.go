package scan

import (
	"github.com/MeKo-Tech/labelscan/internal/pixbuf"
)

// StabilityGate decides, frame over frame, whether the scene is still enough
// to justify the cost of decoding. It samples a small fixed-size patch at the
// frame center each tick and compares it against the previous tick's patch
// using the mean absolute difference of the red channel (a luma proxy).
type StabilityGate struct {
	patchSize int
	threshold float64
	minStreak int

	lastPatch []float32
	streak    int
}

// NewStabilityGate returns a gate with the given patch side, motion threshold
// and required streak.
func NewStabilityGate(patchSize int, threshold float64, minStreak int) *StabilityGate {
	return &StabilityGate{patchSize: patchSize, threshold: threshold, minStreak: minStreak}
}

// Observe samples the frame and reports whether enough consecutive stable
// frames have accumulated for a decode attempt this tick.
func (g *StabilityGate) Observe(frame *pixbuf.RGBA) bool {
	patch := g.samplePatch(frame)
	if g.lastPatch == nil || len(g.lastPatch) != len(patch) {
		g.lastPatch = patch
		g.streak = 0
		return false
	}
	var sum float64
	for i := range patch {
		d := float64(patch[i] - g.lastPatch[i])
		if d < 0 {
			d = -d
		}
		sum += d
	}
	g.lastPatch = patch
	if sum/float64(len(patch)) > g.threshold {
		g.streak = 0
		return false
	}
	g.streak++
	return g.streak > g.minStreak
}

// Streak returns the current count of consecutive low-motion frames.
func (g *StabilityGate) Streak() int { return g.streak }

// Reset clears the gate state; used when a session restarts.
func (g *StabilityGate) Reset() {
	g.lastPatch = nil
	g.streak = 0
}

func (g *StabilityGate) samplePatch(frame *pixbuf.RGBA) []float32 {
	size := g.patchSize
	if size > frame.Width {
		size = frame.Width
	}
	if size > frame.Height {
		size = frame.Height
	}
	x0 := (frame.Width - size) / 2
	y0 := (frame.Height - size) / 2
	patch := make([]float32, size*size)
	for y := 0; y < size; y++ {
		row := ((y0 + y) * frame.Width) * 4
		for x := 0; x < size; x++ {
			patch[y*size+x] = float32(frame.Pix[row+(x0+x)*4]) // red channel
		}
	}
	return patch
}
