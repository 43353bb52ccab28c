package engine

import (
	"context"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/labelscan/internal/testutil"
)

func TestPrimaryDecoder_Code128RoundTrip(t *testing.T) {
	img, err := testutil.GenerateCode128("LBL0012345", 400, 120)
	require.NoError(t, err)

	res, err := NewPrimaryBarcodeDecoder().Decode(context.Background(), img)
	require.NoError(t, err)
	assert.Equal(t, "LBL0012345", res.Text)
	assert.Equal(t, "code128", res.Format)
	assert.NotEmpty(t, res.Points)
	assert.False(t, res.BBox.Empty())
}

func TestPrimaryDecoder_QRRoundTrip(t *testing.T) {
	img, err := testutil.GenerateQR("LBL-TRACK-42", 240)
	require.NoError(t, err)

	res, err := NewPrimaryBarcodeDecoder().Decode(context.Background(), img)
	require.NoError(t, err)
	assert.Equal(t, "LBL-TRACK-42", res.Text)
	assert.Equal(t, "qr", res.Format)
}

func TestSecondaryDecoder_Code128RoundTrip(t *testing.T) {
	img, err := testutil.GenerateCode128("LBL0012345", 400, 120)
	require.NoError(t, err)

	res, err := NewSecondaryBarcodeDecoder().Decode(context.Background(), img)
	require.NoError(t, err)
	assert.Equal(t, "LBL0012345", res.Text)
}

func TestDecoder_BlankImageIsNotFound(t *testing.T) {
	blank := image.NewRGBA(image.Rect(0, 0, 200, 100))
	for i := range blank.Pix {
		blank.Pix[i] = 255
	}
	_, err := NewPrimaryBarcodeDecoder().Decode(context.Background(), blank)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDecoder_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	img, err := testutil.GenerateQR("LBL-TRACK-42", 120)
	require.NoError(t, err)
	_, err = NewPrimaryBarcodeDecoder().Decode(ctx, img)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDecoder_Names(t *testing.T) {
	assert.Equal(t, "zxing", NewPrimaryBarcodeDecoder().Name())
	assert.Equal(t, "zxing-hard", NewSecondaryBarcodeDecoder().Name())
}

func TestRectFromPoints(t *testing.T) {
	pts := []image.Point{{X: 10, Y: 5}, {X: 3, Y: 20}, {X: 15, Y: 8}}
	assert.Equal(t, image.Rect(3, 5, 16, 21), rectFromPoints(pts))
	assert.True(t, rectFromPoints(nil).Empty())
}
