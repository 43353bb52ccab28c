package enhance

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/labelscan/internal/pixbuf"
)

func rampGray(w, h int) *pixbuf.Gray {
	g := pixbuf.NewGray(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			g.Pix[y*w+x] = float32((x*7+y*13)%256)
		}
	}
	return g
}

func TestBoxBlur_ZeroRadiusIsIdentity(t *testing.T) {
	src := rampGray(17, 11)
	out := BoxBlur(src, 0)
	require.Equal(t, src.Width, out.Width)
	require.Equal(t, src.Height, out.Height)
	assert.Equal(t, src.Pix, out.Pix)
}

func TestBoxBlur_NegativeRadiusIsIdentity(t *testing.T) {
	src := rampGray(9, 9)
	out := BoxBlur(src, -3)
	assert.Equal(t, src.Pix, out.Pix)
}

func TestBoxBlur_ConstantImageUnchanged(t *testing.T) {
	src := pixbuf.NewGray(20, 15)
	for i := range src.Pix {
		src.Pix[i] = 137
	}
	out := BoxBlur(src, 4)
	for i, v := range out.Pix {
		assert.InDelta(t, 137, v, 1e-3, "pixel %d", i)
	}
}

func TestBoxBlur_SmoothsStep(t *testing.T) {
	// A hard step must end up between the two plateau values at the edge.
	src := pixbuf.NewGray(20, 1)
	for x := 10; x < 20; x++ {
		src.Pix[x] = 200
	}
	out := BoxBlur(src, 2)
	assert.Greater(t, out.Pix[9], float32(0))
	assert.Less(t, out.Pix[10], float32(200))
}

func TestBoxBlur_DoesNotMutateSource(t *testing.T) {
	src := rampGray(12, 12)
	before := append([]float32(nil), src.Pix...)
	_ = BoxBlur(src, 3)
	assert.Equal(t, before, src.Pix)
}

func TestBoxBlur_RangePreservedProperty(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("blurred samples stay within the input range", prop.ForAll(
		func(w, h, radius int, seed int64) bool {
			src := pixbuf.NewGray(w, h)
			rnd := seed
			lo, hi := float32(255), float32(0)
			for i := range src.Pix {
				rnd = rnd*6364136223846793005 + 1442695040888963407
				v := float32((rnd >> 33) & 0xFF)
				src.Pix[i] = v
				if v < lo {
					lo = v
				}
				if v > hi {
					hi = v
				}
			}
			out := BoxBlur(src, radius)
			for _, v := range out.Pix {
				if v < lo-1e-3 || v > hi+1e-3 {
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 24),
		gen.IntRange(1, 24),
		gen.IntRange(1, 6),
		gen.Int64(),
	))

	properties.TestingRun(t)
}
