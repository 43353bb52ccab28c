package enhance

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MeKo-Tech/labelscan/internal/pixbuf"
	"github.com/MeKo-Tech/labelscan/internal/testutil"
)

func TestMedian3x3_RemovesSaltNoise(t *testing.T) {
	src := testutil.UniformGray(15, 15, 100)
	src.Set(7, 7, 255)
	out := Median3x3(src)
	assert.Equal(t, float32(100), out.At(7, 7))
}

func TestMedian3x3_ConstantUnchanged(t *testing.T) {
	src := testutil.UniformGray(10, 8, 64)
	out := Median3x3(src)
	assert.Equal(t, src.Pix, out.Pix)
}

func TestMedian9_MiddleOfSorted(t *testing.T) {
	assert.Equal(t, float32(5),
		median9([9]float32{9, 3, 5, 1, 7, 2, 8, 4, 6}))
}

func TestUnsharpMask_IncreasesEdgeContrast(t *testing.T) {
	src := testutil.VerticalStripes(24, 8, 8)
	soft := testutil.ReduceContrast(src, 0.5)
	out := UnsharpMask(soft, 2, 1.5)

	span := func(g *pixbuf.Gray) float32 {
		lo, hi := g.Pix[0], g.Pix[0]
		for _, v := range g.Pix {
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
		return hi - lo
	}
	assert.Greater(t, span(out), span(soft))
}

func TestUnsharpMask_OutputClamped(t *testing.T) {
	src := testutil.VerticalStripes(16, 4, 4)
	out := UnsharpMask(src, 1, 3)
	for _, v := range out.Pix {
		assert.GreaterOrEqual(t, v, float32(0))
		assert.LessOrEqual(t, v, float32(255))
	}
}

func TestDirectionalSharpenVertical_ConstantRowsUnchanged(t *testing.T) {
	src := testutil.UniformGray(12, 6, 90)
	out := DirectionalSharpenVertical(src, 1.2)
	for i, v := range out.Pix {
		assert.InDelta(t, 90, v, 1e-3, "pixel %d", i)
	}
}

func TestSobelMagnitudeX_RespondsToVerticalEdge(t *testing.T) {
	src := testutil.Bimodal(10, 6, 0, 255)
	out := SobelMagnitudeX(src)
	// Strong response at the mode boundary, none in flat regions.
	assert.Greater(t, out.At(5, 3), float32(0))
	assert.Equal(t, float32(0), out.At(2, 3))
}

func TestSobelMagnitudeX_BorderRingZero(t *testing.T) {
	src := testutil.VerticalStripes(8, 8, 2)
	out := SobelMagnitudeX(src)
	for x := 0; x < 8; x++ {
		assert.Equal(t, float32(0), out.At(x, 0))
		assert.Equal(t, float32(0), out.At(x, 7))
	}
	for y := 0; y < 8; y++ {
		assert.Equal(t, float32(0), out.At(0, y))
		assert.Equal(t, float32(0), out.At(7, y))
	}
}

func TestSobelMagnitudeX_TinyImage(t *testing.T) {
	src := testutil.UniformGray(2, 2, 50)
	out := SobelMagnitudeX(src)
	assert.Equal(t, []float32{0, 0, 0, 0}, out.Pix)
}
