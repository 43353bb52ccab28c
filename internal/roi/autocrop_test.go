package roi

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/labelscan/internal/pixbuf"
	"github.com/MeKo-Tech/labelscan/internal/testutil"
)

// frameWithLabel pastes a stripe block (the "label") into a uniform background.
func frameWithLabel(w, h int, label image.Rectangle) *pixbuf.Gray {
	frame := testutil.UniformGray(w, h, 200)
	stripes := testutil.VerticalStripes(label.Dx(), label.Dy(), 8)
	for y := 0; y < label.Dy(); y++ {
		for x := 0; x < label.Dx(); x++ {
			frame.Set(label.Min.X+x, label.Min.Y+y, stripes.At(x, y))
		}
	}
	return frame
}

func TestAutoCropLabel_FindsStripeBlock(t *testing.T) {
	label := image.Rect(300, 250, 500, 350)
	frame := frameWithLabel(800, 600, label)

	crop, rect := AutoCropLabel(frame, DefaultParams())

	require.False(t, rect.Empty())
	assert.Equal(t, rect.Dx(), crop.Width)
	assert.Equal(t, rect.Dy(), crop.Height)

	center := image.Pt(400, 300)
	assert.True(t, center.In(rect), "crop %v must contain the label center", rect)

	// The crop should be a fraction of the frame, not the whole thing.
	assert.Less(t, rect.Dx(), 500)
	assert.Less(t, rect.Dy(), 350)
}

func TestAutoCropLabel_UniformFrameReturnsEverything(t *testing.T) {
	frame := testutil.UniformGray(400, 300, 128)
	crop, rect := AutoCropLabel(frame, DefaultParams())
	assert.Equal(t, frame.Width, crop.Width)
	assert.Equal(t, frame.Height, crop.Height)
	assert.False(t, rect.Empty())
}

func TestAutoCropLabel_EmptyInput(t *testing.T) {
	frame := pixbuf.NewGray(0, 0)
	crop, rect := AutoCropLabel(frame, DefaultParams())
	assert.Equal(t, 0, crop.Width)
	assert.True(t, rect.Empty())
}

func TestWalkInward_TrimsQuietEnds(t *testing.T) {
	sums := []float64{0, 1, 2, 100, 90, 95, 3, 0}
	lo, hi := walkInward(sums, 0.45)
	assert.Equal(t, 3, lo)
	assert.Equal(t, 5, hi)
}

func TestWalkInward_AllQuietKeepsOneIndex(t *testing.T) {
	sums := []float64{0, 0, 5, 0, 0}
	lo, hi := walkInward(sums, 0.45)
	assert.Equal(t, 2, lo)
	assert.Equal(t, 2, hi)
}

func TestDownsample_CapsLongestSide(t *testing.T) {
	src := testutil.UniformGray(800, 600, 10)
	small, scale := downsample(src, 360)
	assert.Equal(t, 360, small.Width)
	assert.InDelta(t, 0.45, scale, 1e-9)
	assert.Equal(t, 270, small.Height)
}

func TestDownsample_SmallInputUntouched(t *testing.T) {
	src := testutil.UniformGray(100, 80, 10)
	small, scale := downsample(src, 360)
	assert.Equal(t, 1.0, scale)
	assert.Same(t, src, small)
}
