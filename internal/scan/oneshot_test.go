package scan

import (
	"context"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/labelscan/internal/engine"
	"github.com/MeKo-Tech/labelscan/internal/testutil"
)

func TestOneShot_RequiresPrimary(t *testing.T) {
	_, err := NewOneShot(DefaultConfig(), nil, nil, nil)
	assert.Error(t, err)
}

func TestOneShot_DecodesCleanCode128(t *testing.T) {
	barcode, err := testutil.GenerateCode128("LBL0012345", 400, 120)
	require.NoError(t, err)
	framed := testutil.OnFrame(barcode, 600, 300)

	oneShot, err := NewOneShot(DefaultConfig(),
		engine.NewPrimaryBarcodeDecoder(), engine.NewSecondaryBarcodeDecoder(), nil)
	require.NoError(t, err)

	r, err := oneShot.Decode(context.Background(), framed)
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, "LBL0012345", r.Value)
	assert.Equal(t, "zxing", r.SourceTag)
	assert.False(t, r.Timestamp.IsZero())
}

func TestOneShot_DecodesQR(t *testing.T) {
	qr, err := testutil.GenerateQR("LBL-TRACK-42", 240)
	require.NoError(t, err)
	framed := testutil.OnFrame(qr, 400, 400)

	oneShot, err := NewOneShot(DefaultConfig(),
		engine.NewPrimaryBarcodeDecoder(), engine.NewSecondaryBarcodeDecoder(), nil)
	require.NoError(t, err)

	r, err := oneShot.Decode(context.Background(), framed)
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, "LBL-TRACK-42", r.Value)
}

func TestOneShot_BlankImageMissesCleanly(t *testing.T) {
	blank := image.NewRGBA(image.Rect(0, 0, 200, 150))
	for i := range blank.Pix {
		blank.Pix[i] = 255
	}

	oneShot, err := NewOneShot(DefaultConfig(),
		engine.NewPrimaryBarcodeDecoder(), nil, nil)
	require.NoError(t, err)

	r, err := oneShot.Decode(context.Background(), blank)
	require.NoError(t, err)
	assert.Nil(t, r, "a miss is not an error")
}

func TestOneShot_InvertedBinarizedAttempt(t *testing.T) {
	// The mostly-black fake only hits on the polarity-flipped copy of the
	// binarized variant, the last rung of the ladder.
	primary := &fakeDecoder{name: "fake", fn: binaryMostlyBlack("LBL555444")}
	oneShot, err := NewOneShot(DefaultConfig(), primary, nil, nil)
	require.NoError(t, err)

	r, err := oneShot.Decode(context.Background(), brightFrame().ToImage())
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, "LBL555444", r.Value)
	assert.Equal(t, "fake", r.SourceTag)
}

func TestOneShot_RejectsShortValues(t *testing.T) {
	// "12345" decodes fine but is below the noise floor of 6 characters.
	barcode, err := testutil.GenerateCode128("12345", 300, 100)
	require.NoError(t, err)
	framed := testutil.OnFrame(barcode, 500, 250)

	oneShot, err := NewOneShot(DefaultConfig(),
		engine.NewPrimaryBarcodeDecoder(), engine.NewSecondaryBarcodeDecoder(), nil)
	require.NoError(t, err)

	r, err := oneShot.Decode(context.Background(), framed)
	require.NoError(t, err)
	assert.Nil(t, r)
}
