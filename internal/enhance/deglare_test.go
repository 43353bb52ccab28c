package enhance

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MeKo-Tech/labelscan/internal/pixbuf"
)

func uniformRGBA(w, h int, r, g, b uint8) *pixbuf.RGBA {
	img := pixbuf.NewRGBA(w, h)
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = r
		img.Pix[i+1] = g
		img.Pix[i+2] = b
		img.Pix[i+3] = 255
	}
	return img
}

func TestDeglare_PullsDownSpecularPatch(t *testing.T) {
	// Mid-gray card with a blown-out near-white square in the middle.
	img := uniformRGBA(40, 40, 150, 150, 150)
	for y := 16; y < 24; y++ {
		for x := 16; x < 24; x++ {
			i := (y*40 + x) * 4
			img.Pix[i] = 252
			img.Pix[i+1] = 252
			img.Pix[i+2] = 250
		}
	}
	Deglare(img)

	center := (20*40 + 20) * 4
	assert.Less(t, img.Pix[center], uint8(252))
}

func TestDeglare_LeavesColoredHighlightsAlone(t *testing.T) {
	// Bright but saturated pixels (chroma span >= 35) must not be touched.
	img := uniformRGBA(20, 20, 250, 250, 200)
	before := append([]uint8(nil), img.Pix...)
	Deglare(img)
	assert.Equal(t, before, img.Pix)
}

func TestDeglare_NeverBrightens(t *testing.T) {
	img := uniformRGBA(30, 30, 120, 120, 120)
	for y := 10; y < 20; y++ {
		for x := 10; x < 20; x++ {
			i := (y*30 + x) * 4
			img.Pix[i], img.Pix[i+1], img.Pix[i+2] = 245, 245, 245
		}
	}
	before := append([]uint8(nil), img.Pix...)
	Deglare(img)
	for i := 0; i < len(img.Pix); i += 4 {
		assert.LessOrEqual(t, img.Pix[i], before[i])
		assert.LessOrEqual(t, img.Pix[i+1], before[i+1])
		assert.LessOrEqual(t, img.Pix[i+2], before[i+2])
	}
}

func TestInvert_FlipsChannelsKeepsAlpha(t *testing.T) {
	img := uniformRGBA(2, 2, 10, 20, 30)
	Invert(img)
	assert.Equal(t, uint8(245), img.Pix[0])
	assert.Equal(t, uint8(235), img.Pix[1])
	assert.Equal(t, uint8(225), img.Pix[2])
	assert.Equal(t, uint8(255), img.Pix[3])
}
