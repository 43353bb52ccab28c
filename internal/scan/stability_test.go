package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MeKo-Tech/labelscan/internal/pixbuf"
)

func frameWithRed(w, h int, red uint8) *pixbuf.RGBA {
	f := pixbuf.NewRGBA(w, h)
	for i := 0; i < len(f.Pix); i += 4 {
		f.Pix[i] = red
		f.Pix[i+3] = 255
	}
	return f
}

func TestStabilityGate_FirstFrameNeverPasses(t *testing.T) {
	g := NewStabilityGate(32, 25, 0)
	assert.False(t, g.Observe(frameWithRed(64, 64, 100)))
	assert.Equal(t, 0, g.Streak())
}

func TestStabilityGate_StreakBuildsOnStillFrames(t *testing.T) {
	g := NewStabilityGate(32, 25, 3)
	f := frameWithRed(64, 64, 100)

	assert.False(t, g.Observe(f)) // baseline
	assert.False(t, g.Observe(f)) // streak 1
	assert.False(t, g.Observe(f)) // streak 2
	assert.False(t, g.Observe(f)) // streak 3, not yet above minimum
	assert.True(t, g.Observe(f))  // streak 4 > 3
	assert.Equal(t, 4, g.Streak())
}

func TestStabilityGate_MotionResetsStreak(t *testing.T) {
	g := NewStabilityGate(32, 25, 1)
	still := frameWithRed(64, 64, 100)

	g.Observe(still)
	g.Observe(still)
	assert.True(t, g.Observe(still))

	// Large jump in the center patch counts as motion.
	assert.False(t, g.Observe(frameWithRed(64, 64, 240)))
	assert.Equal(t, 0, g.Streak())

	// The streak has to rebuild from scratch.
	assert.False(t, g.Observe(frameWithRed(64, 64, 240)))
	assert.True(t, g.Observe(frameWithRed(64, 64, 240)))
}

func TestStabilityGate_SmallDriftTolerated(t *testing.T) {
	g := NewStabilityGate(32, 25, 1)
	g.Observe(frameWithRed(64, 64, 100))
	g.Observe(frameWithRed(64, 64, 110)) // mean diff 10 < 25
	assert.True(t, g.Observe(frameWithRed(64, 64, 105)))
}

func TestStabilityGate_PatchClampedToSmallFrames(t *testing.T) {
	g := NewStabilityGate(32, 25, 0)
	f := frameWithRed(8, 8, 50)
	assert.False(t, g.Observe(f))
	assert.True(t, g.Observe(f))
}

func TestStabilityGate_ResetDropsBaseline(t *testing.T) {
	g := NewStabilityGate(32, 25, 0)
	f := frameWithRed(64, 64, 100)
	g.Observe(f)
	g.Observe(f)
	g.Reset()
	assert.False(t, g.Observe(f), "first frame after reset is baseline again")
}
