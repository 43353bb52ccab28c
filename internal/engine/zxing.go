package engine

import (
	"context"
	"fmt"
	"image"

	gozxing "github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/oned"
	"github.com/makiuchi-d/gozxing/qrcode"
)

// zxingDecoder runs a fixed priority ladder of per-format gozxing readers.
// The primary and secondary engines differ in binarizer and search effort:
// the primary pairs the hybrid binarizer with a plain pass (fast), the
// secondary pairs the global histogram binarizer with TRY_HARDER (slower,
// catches low-contrast and partially occluded symbols the hybrid pass
// misses).
type zxingDecoder struct {
	name   string
	hints  map[gozxing.DecodeHintType]interface{}
	global bool
}

// NewPrimaryBarcodeDecoder returns the fast multi-format gozxing engine.
func NewPrimaryBarcodeDecoder() BarcodeDecoder {
	return &zxingDecoder{name: "zxing"}
}

// NewSecondaryBarcodeDecoder returns the exhaustive gozxing engine used as
// the alternate backend from phase 1 on.
func NewSecondaryBarcodeDecoder() BarcodeDecoder {
	return &zxingDecoder{
		name: "zxing-hard",
		hints: map[gozxing.DecodeHintType]interface{}{
			gozxing.DecodeHintType_TRY_HARDER: true,
		},
		global: true,
	}
}

func (d *zxingDecoder) Name() string { return d.name }

// newReaders assembles the format ladder, most common label symbologies
// first. Readers keep internal decode state, so each Decode call gets a
// fresh set rather than sharing them across goroutines.
func newReaders() []gozxing.Reader {
	return []gozxing.Reader{
		oned.NewCode128Reader(),
		qrcode.NewQRCodeReader(),
		oned.NewCode39Reader(),
		oned.NewEAN13Reader(),
		oned.NewEAN8Reader(),
		oned.NewITFReader(),
		oned.NewUPCAReader(),
		oned.NewUPCEReader(),
	}
}

func (d *zxingDecoder) Decode(ctx context.Context, img image.Image) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	source := gozxing.NewLuminanceSourceFromImage(img)
	var binarizer gozxing.Binarizer
	if d.global {
		binarizer = gozxing.NewGlobalHistgramBinarizer(source)
	} else {
		binarizer = gozxing.NewHybridBinarizer(source)
	}
	bitmap, err := gozxing.NewBinaryBitmap(binarizer)
	if err != nil {
		return Result{}, fmt.Errorf("build binary bitmap: %w", err)
	}

	for _, reader := range newReaders() {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		// A nil hint map is accepted; the primary engine runs without hints.
		r, err := reader.Decode(bitmap, d.hints)
		if err != nil || r == nil {
			// gozxing reports misses and malformed symbols as errors alike;
			// both mean trying the next format.
			continue
		}

		pts := r.GetResultPoints()
		points := make([]image.Point, 0, len(pts))
		for _, p := range pts {
			points = append(points, image.Pt(int(p.GetX()), int(p.GetY())))
		}
		return Result{
			Text:   r.GetText(),
			Format: formatName(r.GetBarcodeFormat()),
			Points: points,
			BBox:   rectFromPoints(points),
		}, nil
	}
	return Result{}, ErrNotFound
}

func formatName(bf gozxing.BarcodeFormat) string {
	switch bf {
	case gozxing.BarcodeFormat_QR_CODE:
		return "qr"
	case gozxing.BarcodeFormat_DATA_MATRIX:
		return "datamatrix"
	case gozxing.BarcodeFormat_AZTEC:
		return "aztec"
	case gozxing.BarcodeFormat_PDF_417:
		return "pdf417"
	case gozxing.BarcodeFormat_CODE_128:
		return "code128"
	case gozxing.BarcodeFormat_CODE_39:
		return "code39"
	case gozxing.BarcodeFormat_EAN_8:
		return "ean8"
	case gozxing.BarcodeFormat_EAN_13:
		return "ean13"
	case gozxing.BarcodeFormat_UPC_A:
		return "upca"
	case gozxing.BarcodeFormat_UPC_E:
		return "upce"
	case gozxing.BarcodeFormat_ITF:
		return "itf"
	case gozxing.BarcodeFormat_CODABAR:
		return "codabar"
	default:
		return "unknown"
	}
}
